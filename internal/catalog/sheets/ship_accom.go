package sheets

import (
	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

func init() {
	catalog.Register(catalog.SheetDefinition{
		Info: catalog.SheetInfo{
			Key:   "ship_accom",
			Kind:  catalog.KindShip,
			Label: "Ship Accommodation",
		},
		Map: mapShipAccommodation,
	})
}

// mapShipAccommodation maps one Ship Accom sheet row.
// Template chain: [base, accommodation, ship].
func mapShipAccommodation(row catalog.Row, templateIDs []string, env *catalog.MapEnv) (*catalog.Document, error) {
	shipType := row.Stripped("Type")
	if shipType == "" {
		shipType = "Other"
	}

	shipLevel := map[string]any{
		"deckPlan": row.Stripped("Deck Plan"),
		"shipFacilities": map[string]any{
			"observationLounge":          trueValue(row, "Observation Lounge"),
			"mudroom":                    trueValue(row, "Mudroom"),
			"walkingTrackWraparoundDeck": trueValue(row, "Walking Track/Wraparound Deck"),
			"openBridgePolicy":           trueValue(row, "Open Bridge Policy"),
			"igloos":                     trueValue(row, "Igloos"),
			"scienceCentreLaboratory":    trueValue(row, "Science Centre/Laboratory"),
		},
		"type": shipType,
	}

	accomType := row.Stripped("Type")
	if accomType == "" {
		accomType = "Standard Ship"
	}

	accomLevel := map[string]any{
		// Ships are not anchored to an uploaded location component.
		"location": "",
		"type":     accomType,
		"facilities": map[string]any{
			"library":               trueValue(row, "Library"),
			"shop":                  trueValue(row, "Shop"),
			"restaurant":            trueValue(row, "Restaurant"),
			"additionalRestaurants": trueValue(row, "Additional restaurant"),
			"bar":                   trueValue(row, "Bar"),
			"gym":                   trueValue(row, "Gym"),
			"spa":                   trueValue(row, "Spa"),
			"jacuzzi":               trueValue(row, "Jacuzzis"),
			"pool":                  trueValue(row, "Pool"),
			"sauna":                 trueValue(row, "Sauna"),
			"steamRoom":             trueValue(row, "Steam Room"),
			"massage":               trueValue(row, "Massage"),
			"elevator":              trueValue(row, "Elevator"),
			"laundry":               trueValue(row, "Laundry"),
			"roomService":           trueValue(row, "Room Service"),
		},
		"checkin": map[string]any{
			"start": row.Stripped("Check in Time"),
			"end":   "",
			"out":   row.Stripped("Check Out Time"),
		},
		"info": map[string]any{
			"yearBuilt": row.Int("Year Built", -1),
			"capacity":  row.Int("Capacity", -1),
		},
		"rooms": []any{},
		"requirements": map[string]any{
			"minimumAge": row.Int("Minimum Age", -1),
		},
		"inspections": shipInspections(row),
	}

	return &catalog.Document{
		Name:        row.Stripped("Name"),
		TemplateID:  templateIDs[2],
		IsBookable:  false,
		Description: description(row, "Description", ""),
		Partners:    partners(row, "Partners"),
		Regions:     regionIDs(row, env, "Region", "Region 2"),
		Pricing:     pricing(row, "Price", "Currency"),
		Media: mediaFromColumns(row,
			[]string{"Image 1", "Image 2", "Image 3", "Image 4", "Image 5"},
			"Video"),
		Bundle: map[string]any{},
		ComponentFields: []catalog.ComponentField{
			{TemplateID: templateIDs[2], Data: shipLevel},
			{TemplateID: templateIDs[1], Data: accomLevel},
			{TemplateID: templateIDs[0], Data: map[string]any{}},
		},
	}, nil
}

func shipInspections(row catalog.Row) []any {
	by := row.Stripped("Inspection 1 By")
	if by == "" {
		return []any{}
	}
	return []any{map[string]any{
		"inspectedBy": by,
		"date":        row.Stripped("Inspection 1 Date"),
		"notes":       row.Stripped("Inspection 1 Notes"),
	}}
}
