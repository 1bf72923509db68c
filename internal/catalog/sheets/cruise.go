package sheets

import (
	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

func init() {
	catalog.Register(catalog.SheetDefinition{
		Info: catalog.SheetInfo{
			Key:   "cruise_pkg",
			Kind:  catalog.KindCruise,
			Label: "Cruise Packages",
		},
		Map: mapCruisePackage,
	})
}

// mapCruisePackage maps one Cruise Packages sheet row: a bookable bundle
// around an already-uploaded ship.
// Template chain: [base, package, cruise].
func mapCruisePackage(row catalog.Row, templateIDs []string, env *catalog.MapEnv) (*catalog.Document, error) {
	name := nameOf(row)

	shipID, _ := env.Refs.ComponentID(
		catalog.KindShip,
		row.Stripped("Ship"),
		env.Ref("Ship", name, true),
	)

	nights := row.Int("Nights", -1)

	cruiseLevel := map[string]any{
		"ship":           shipID,
		"embarkation":    row.Stripped("Embarkation"),
		"disembarkation": row.Stripped("Disembarkation"),
		"nights":         nights,
	}

	packageLevel := map[string]any{
		"departures": row.List("Departures", ","),
		"isCharter":  trueValue(row, "Charter"),
	}

	var durationPtr *int
	if nights >= 0 {
		days := nights + 1
		durationPtr = &days
	}

	return &catalog.Document{
		Name:        name,
		TemplateID:  templateIDs[2],
		IsBookable:  true,
		State:       "unpublished",
		Description: description(row, "Description", ""),
		Partners:    partners(row, "Partners"),
		Regions:     regionIDs(row, env, "Region", "Region 2"),
		Pricing:     pricing(row, "Price", "Currency"),
		Media:       mediaFromLines(row, "images"),
		StartDate:   row.Stripped("StartDate"),
		EndDate:     row.Stripped("EndDate"),
		Duration:    durationPtr,
		Bundle: map[string]any{
			"ship":       shipID,
			"departures": row.List("Departures", ","),
		},
		ComponentFields: []catalog.ComponentField{
			{TemplateID: templateIDs[2], Data: cruiseLevel},
			{TemplateID: templateIDs[1], Data: packageLevel},
			{TemplateID: templateIDs[0], Data: map[string]any{}},
		},
	}, nil
}
