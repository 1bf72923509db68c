package sheets

import (
	"fmt"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

func init() {
	catalog.Register(catalog.SheetDefinition{
		Info: catalog.SheetInfo{
			Key:   "activity",
			Kind:  catalog.KindActivity,
			Label: "Activities",
		},
		Map: mapActivity,
	})
}

// mapActivity maps one activity sheet row.
// Template chain: [base, activity].
func mapActivity(row catalog.Row, templateIDs []string, env *catalog.MapEnv) (*catalog.Document, error) {
	name := nameOf(row)

	startName := row.Stripped("startLocation")
	endName := row.Stripped("endLocation")

	// Location references are looked up for the side effect of miss
	// tracking; the journey string keeps the human-entered names either way.
	env.Refs.ComponentID(catalog.KindLocation, startName, env.Ref("startLocation", name, true))
	env.Refs.ComponentID(catalog.KindLocation, endName, env.Ref("endLocation", name, true))

	difficulty := row.Stripped("difficulty")
	if difficulty == "" {
		difficulty = "Other"
	}

	activityLevel := map[string]any{
		"journey":    fmt.Sprintf("%s to %s", startName, endName),
		"difficulty": difficulty,
		"elevation": map[string]any{
			"ascentm":  row.Int("elevationFieldsifApplicable.totalElevationGainmetres", -1),
			"descentm": row.Int("elevationFieldsifApplicable.totalDescentmetres", -1),
		},
	}

	return &catalog.Document{
		Name:        name,
		TemplateID:  templateIDs[1],
		OrgID:       "swoop",
		Destination: "patagonia",
		State:       "Draft",
		IsBookable:  true,
		Description: description(row, "description", ""),
		Partners:    partners(row, "partner"),
		Regions:     regionIDs(row, env, "region"),
		Pricing:     map[string]any{"amount": 0, "currency": "gbp"},
		Media:       mediaFromLines(row, "images"),
		Package: &catalog.Itinerary{
			Title:       "NA",
			Description: "",
			StartDate:   "2000-01-01T00:00:00Z",
			EndDate:     "2000-01-01T00:00:00Z",
		},
		ComponentFields: []catalog.ComponentField{
			{TemplateID: templateIDs[1], Data: activityLevel},
			{TemplateID: templateIDs[0], Data: map[string]any{}},
		},
	}, nil
}
