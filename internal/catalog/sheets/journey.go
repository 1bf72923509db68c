package sheets

import (
	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

func init() {
	catalog.Register(catalog.SheetDefinition{
		Info: catalog.SheetInfo{
			Key:   "journey",
			Kind:  catalog.KindJourney,
			Label: "Journeys",
		},
		Map: mapJourney,
	})
}

// mapJourney maps one Journeys sheet row: a transfer leg between two
// uploaded locations.
// Template chain: [base, journey].
func mapJourney(row catalog.Row, templateIDs []string, env *catalog.MapEnv) (*catalog.Document, error) {
	name := nameOf(row)

	startID, _ := env.Refs.ComponentID(
		catalog.KindLocation,
		row.Stripped("startLocation"),
		env.Ref("startLocation", name, true),
	)
	endID, _ := env.Refs.ComponentID(
		catalog.KindLocation,
		row.Stripped("endLocation"),
		env.Ref("endLocation", name, true),
	)

	journeyLevel := map[string]any{
		"startLocation": startID,
		"endLocation":   endID,
		"transport":     row.Stripped("transport"),
		"distanceKm":    row.Int("distanceKm", -1),
		"durationHours": row.Int("durationHours", -1),
	}

	duration := row.Int("durationHours", -1)
	var durationPtr *int
	if duration >= 0 {
		durationPtr = &duration
	}

	return &catalog.Document{
		Name:        name,
		TemplateID:  templateIDs[0],
		State:       "unpublished",
		Description: description(row, "description", ""),
		Partners:    partners(row, "partner"),
		Regions:     regionIDs(row, env, "region"),
		Media:       mediaFromLines(row, "images"),
		Duration:    durationPtr,
		Bundle:      map[string]any{},
		ComponentFields: []catalog.ComponentField{
			{TemplateID: templateIDs[1], Data: journeyLevel},
			{TemplateID: templateIDs[0], Data: map[string]any{}},
		},
	}, nil
}
