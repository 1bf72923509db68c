package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
	"github.com/Platform48/csv-migration-command-line-tool/internal/source"
)

// difficultyLevels indexes the sheet's numeric difficulty column.
var difficultyLevels = []string{"Other", "Easy", "Medium", "Hard", "Advanced", "Extreme"}

// maxSpanComponents is the number of per-day component columns in the
// export.
const maxSpanComponents = 3

func init() {
	catalog.Register(catalog.SheetDefinition{
		Info: catalog.SheetInfo{
			Key:   "private_tour",
			Kind:  catalog.KindTour,
			Label: "Private Tours",
		},
		Map: mapPrivateTour,
	})
}

// mapPrivateTour maps one Private Tours sheet row. Each row carries repeated
// day-block columns ("Day", "Day.1", ...) holding up to three component
// references per day; every reference must resolve to an already-uploaded
// component, so all lookups are required.
// Template chain: [base, tour].
func mapPrivateTour(row catalog.Row, templateIDs []string, env *catalog.MapEnv) (*catalog.Document, error) {
	name := nameOf(row)

	diffIdx := row.Int("Difficulty", 0)
	if diffIdx < 0 || diffIdx >= len(difficultyLevels) {
		diffIdx = 0
	}

	tourLevel := map[string]any{
		"private":         false,
		"difficulty":      difficultyLevels[diffIdx],
		"guided":          false,
		"guideGuestRatio": -1,
		"requirements": map[string]any{
			"gear":               []any{},
			"minimumAge":         -1,
			"maximumAge":         -1,
			"lowerWeightLimitKg": "",
			"upperWeightLimitKg": -1,
			"lowerHeightLimitM":  -1,
			"upperHeightLimitM":  -1,
		},
		"facilities": map[string]any{
			"isWheelChairAccessible":    false,
			"isOkWhenPregnant":          false,
			"isOkWithBreathingMachines": false,
			"hasDrinksIncluded":         false,
			"hasComplementaryGifts":     false,
			"hasNationalParkFee":        false,
		},
	}

	return &catalog.Document{
		Name:        name,
		TemplateID:  templateIDs[1],
		Description: description(row, "Description", ""),
		Partners:    partners(row, "partner"),
		Regions:     regionIDs(row, env, "region"),
		Pricing:     pricing(row, "Price", "Currency"),
		Media:       mediaFromLines(row, "images"),
		Package: &catalog.Itinerary{
			Title:       name,
			Description: row.Stripped("Description - Quote"),
			Spans:       tourSpans(row, env, name),
		},
		ComponentFields: []catalog.ComponentField{
			{TemplateID: templateIDs[1], Data: tourLevel},
			{TemplateID: templateIDs[0], Data: map[string]any{}},
		},
	}, nil
}

// tourSpans walks the repeated day blocks until the first block with no day
// number.
func tourSpans(row catalog.Row, env *catalog.MapEnv, rowName string) []catalog.Span {
	var spans []catalog.Span

	for block := 0; ; block++ {
		dayField := source.Suffixed("Day", block)
		day := row.Stripped(dayField)
		if day == "" {
			break
		}

		span := catalog.Span{
			Title:       row.Stripped(source.Suffixed("Day Title - Quote", block)),
			Description: row.Stripped(source.Suffixed("Day Description - Quote", block)),
			Items:       spanItems(row, env, rowName, block),
			StartDay:    parseDay(day),
			EndDay:      parseDay(day),
			Meals:       []string{},
		}
		spans = append(spans, span)
	}

	return spans
}

// spanItems resolves the numbered component references inside one day block.
// Unresolved names are recorded and produce items with empty ids so the
// itinerary shape survives for manual correction.
func spanItems(row catalog.Row, env *catalog.MapEnv, rowName string, block int) []catalog.SpanItem {
	items := []catalog.SpanItem{}

	for n := 1; n <= maxSpanComponents; n++ {
		nameField := source.Suffixed(fmt.Sprintf("Component %d", n), block)
		typeField := source.Suffixed(fmt.Sprintf("Component Type %d", n), block)

		compName := row.Stripped(nameField)
		if compName == "" {
			continue
		}

		kind := catalog.Kind(strings.ToLower(row.Stripped(typeField)))
		id, _ := env.Refs.ComponentID(kind, compName, env.Ref(nameField, rowName, true))
		items = append(items, catalog.SpanItem{ComponentID: id, AllDay: true})
	}

	return items
}

func parseDay(raw string) int {
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 1
}
