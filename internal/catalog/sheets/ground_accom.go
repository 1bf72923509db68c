package sheets

import (
	"fmt"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

func init() {
	catalog.Register(catalog.SheetDefinition{
		Info: catalog.SheetInfo{
			Key:   "ground_accom",
			Kind:  catalog.KindAccommodation,
			Label: "Ground Accommodation",
		},
		Map: mapGroundAccommodation,
	})
}

// mapGroundAccommodation maps one Ground Accom sheet row.
// Template chain: [base, accommodation, ground accommodation].
func mapGroundAccommodation(row catalog.Row, templateIDs []string, env *catalog.MapEnv) (*catalog.Document, error) {
	name := nameOf(row)

	locationID, _ := env.Refs.ComponentID(
		catalog.KindLocation,
		row.Stripped("location"),
		env.Ref("location", name, true),
	)

	accomLevel := map[string]any{
		"location": locationID,
		"facilities": map[string]any{
			"bar":         trueValue(row, "facilities.bar"),
			"elevator":    trueValue(row, "facilities.elevator"),
			"jacuzzi":     trueValue(row, "facilities.jacuzzi"),
			"library":     trueValue(row, "facilities.library"),
			"pool":        trueValue(row, "facilities.pool"),
			"spa":         trueValue(row, "facilities.spa"),
			"steamRoom":   trueValue(row, "facilities.steamRoom"),
			"laundry":     trueValue(row, "facilities.laundry"),
			"shop":        trueValue(row, "facilities.shop"),
			"restaurants": trueValue(row, "facilities.restaurants"),
			"sauna":       trueValue(row, "facilities.sauna"),
			"gym":         trueValue(row, "facilities.gym"),
			"massage":     trueValue(row, "facilities.massage"),
			"roomService": trueValue(row, "facilities.roomService"),
			"wiFi":        trueValue(row, "connectivity.wiFi"),
			"phoneSignal": trueValue(row, "Phone Signal"),
		},
		"checkin": map[string]any{
			"start": row.Stripped("Check in Time"),
			"end":   "",
			"out":   row.Stripped("Check Out Time"),
		},
		"info": map[string]any{
			"yearBuilt": row.Int("facts.yearBuilt", -1),
			"capacity":  row.Int("facts.capacity", -1),
		},
		"rooms": []any{},
		"requirements": map[string]any{
			"minimumAge": row.Int("minimumAge", -1),
		},
		"inspections": inspections(row),
	}

	groundLevel := map[string]any{
		"type": row.Stripped("Type"),
	}

	return &catalog.Document{
		Name:        name,
		TemplateID:  templateIDs[2],
		Description: description(row, "Description", ""),
		Partners:    partners(row, "Partner"),
		Regions:     regionIDs(row, env, "Region"),
		Pricing:     pricing(row, "Price", "Currency"),
		Media:       mediaFromLines(row, "images"),
		Bundle:      map[string]any{},
		ComponentFields: []catalog.ComponentField{
			{TemplateID: templateIDs[2], Data: groundLevel},
			{TemplateID: templateIDs[1], Data: accomLevel},
			{TemplateID: templateIDs[0], Data: map[string]any{}},
		},
	}, nil
}

// inspections collects the numbered inspection column blocks that have an
// inspector recorded.
func inspections(row catalog.Row) []any {
	out := []any{}
	for i := 1; i <= 2; i++ {
		by := row.Stripped(numbered("Inspected by", i))
		if by == "" {
			continue
		}
		out = append(out, map[string]any{
			"inspectedBy": by,
			"date":        row.Stripped(numbered("Date", i)),
			"notes":       row.Stripped(numbered("Inspection Notes", i)),
		})
	}
	return out
}

func numbered(base string, i int) string {
	return fmt.Sprintf("%s %d", base, i)
}
