// Package sheets registers the concrete sheet definitions: one row mapper
// per catalog entity type. Mappers are pure row → document transformations;
// all cross-sheet lookups go through the MapEnv's resolver and every
// unresolved reference is recorded there rather than failing the row.
package sheets

import (
	"strings"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

// pricing builds the pricing block from Price/Currency columns. Returns nil
// when the row has no usable price, matching the service's expectation that
// unpriced components omit the block entirely.
func pricing(row catalog.Row, priceField, currencyField string) map[string]any {
	raw := row.Stripped(priceField)
	if raw == "" {
		return nil
	}
	amount := row.Int(priceField, -1)
	if amount < 0 {
		return nil
	}

	currency := row.Stripped(currencyField)
	if currency == "" {
		currency = "USD"
	}
	return map[string]any{"amount": amount, "currency": currency}
}

// mediaFromLines builds a media block from a newline-separated images column.
func mediaFromLines(row catalog.Row, imagesField string) *catalog.Media {
	return &catalog.Media{
		Images: row.List(imagesField, "\n"),
		Videos: []string{},
	}
}

// mediaFromColumns builds a media block from numbered image columns plus an
// optional video column.
func mediaFromColumns(row catalog.Row, imageFields []string, videoField string) *catalog.Media {
	media := &catalog.Media{Images: []string{}, Videos: []string{}}
	for _, f := range imageFields {
		if img := row.Stripped(f); img != "" {
			media.Images = append(media.Images, img)
		}
	}
	if videoField != "" {
		if v := row.Stripped(videoField); v != "" {
			media.Videos = append(media.Videos, v)
		}
	}
	return media
}

// description fills all variants from a single description column, with the
// web variant preferring the HTML column when present.
func description(row catalog.Row, plainField, htmlField string) *catalog.Description {
	plain := row.Stripped(plainField)
	web := plain
	if htmlField != "" {
		if h := row.Stripped(htmlField); h != "" {
			web = h
		}
	}
	return &catalog.Description{Web: web, Quote: plain, Final: plain}
}

// regionIDs maps the given region columns through the resolver, dropping
// unmapped names (they are recorded as missing) and duplicates.
func regionIDs(row catalog.Row, env *catalog.MapEnv, fields ...string) []string {
	rowName := row.Stripped("name")
	if rowName == "" {
		rowName = row.Stripped("Name")
	}

	out := []string{}
	seen := map[string]bool{}
	for _, f := range fields {
		name := row.Stripped(f)
		if name == "" {
			continue
		}
		id, ok := env.Refs.RegionID(name, env.Ref(f, rowName, false))
		if ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// partners splits a comma-separated partners column.
func partners(row catalog.Row, field string) []string {
	out := row.List(field, ",")
	if out == nil {
		return []string{}
	}
	return out
}

// nameOf returns the row's display name, tolerating either header casing.
func nameOf(row catalog.Row) string {
	if n := row.Stripped("name"); n != "" {
		return n
	}
	return row.Stripped("Name")
}

// trueValue reports whether a facility column marks the amenity as present.
// Exports use "TRUE" for plain booleans and "Included" for amenities.
func trueValue(row catalog.Row, field string) bool {
	v := row.Stripped(field)
	return strings.EqualFold(v, "TRUE") || strings.EqualFold(v, "Included")
}
