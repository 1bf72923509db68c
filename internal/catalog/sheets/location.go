package sheets

import (
	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

// allowedLocationTypes is the service's location type enumeration. Anything
// else in the sheet falls back to "Other".
var allowedLocationTypes = map[string]bool{
	"Other": true, "Airport": true, "Apartments": true, "Bay": true,
	"Bridge": true, "Campsite": true, "City": true, "Estancia": true,
	"Fjord": true, "Glacier": true, "Glamping Site": true, "Hotel": true,
	"Island": true, "Lake": true, "Landing Site": true, "Lighthouse": true,
	"Lodge": true, "Mountain": true, "Mountain Pass": true,
	"National Park": true, "Peninsula": true, "Port": true, "Refugio": true,
	"River": true, "Town": true, "Trailhead": true, "Valley": true,
	"Viewpoint": true, "Vineyard": true, "Village": true, "Volcano": true,
	"Waterfall": true, "Wildlife": true, "Winery": true,
}

func init() {
	catalog.Register(catalog.SheetDefinition{
		Info: catalog.SheetInfo{
			Key:   "location",
			Kind:  catalog.KindLocation,
			Label: "Locations",
		},
		Map: mapLocation,
	})
}

// mapLocation maps one Location sheet row.
// Template chain: [base, location].
func mapLocation(row catalog.Row, templateIDs []string, env *catalog.MapEnv) (*catalog.Document, error) {
	locType := row.Stripped("type")
	if !allowedLocationTypes[locType] {
		locType = "Other"
	}

	lat, _ := row.Float("latitude")
	lon, _ := row.Float("longitude")

	level := map[string]any{
		"type":           locType,
		"latitude":       lat,
		"longitude":      lon,
		"whatThreeWords": row.Stripped("NEWCUSTOMADDRESSWHAT3WORDS"),
	}

	details := map[string]any{
		"regions": regionIDs(row, env, "regions"),
	}
	if p := pricing(row, "price", "currency"); p != nil {
		details["price"] = p["amount"]
		details["currency"] = p["currency"]
	}

	destination := row.Stripped("destination")
	if destination == "" {
		destination = "Unknown"
	}

	plain := row.Stripped("description")
	web := row.Stripped("descriptionWithHtml")
	if web == "" {
		web = plain
	}

	doc := &catalog.Document{
		Name:        nameOf(row),
		TemplateID:  templateIDs[0],
		Destination: destination,
		State:       "unpublished",
		Description: &catalog.Description{Web: web, Quote: plain, Booked: plain},
		Partners:    []string{},
		Regions:     regionIDs(row, env, "regions"),
		Media: &catalog.Media{
			Images: row.List("images", ","),
			Videos: []string{},
		},
		Requirements: map[string]any{"minimumAge": -1},
		Details:      details,
		Bundle:       map[string]any{},
		ComponentFields: []catalog.ComponentField{
			{TemplateID: templateIDs[1], Data: level},
			{TemplateID: templateIDs[0], Data: map[string]any{}},
		},
	}
	if doc.Media.Images == nil {
		doc.Media.Images = []string{}
	}

	return doc, nil
}
