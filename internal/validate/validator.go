// Package validate checks candidate documents against their template
// schemas. Validation happens per component level, in lock-step with the
// sheet's (templateId, schema) chain, and accumulates every failing level
// for a row rather than short-circuiting on the first.
package validate

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
	"github.com/Platform48/csv-migration-command-line-tool/internal/cds"
)

// RowError is one structured validation failure.
type RowError struct {
	Row        int    `json:"row"`
	TemplateID string `json:"templateId,omitempty"`
	Path       string `json:"path,omitempty"`       // offending property path within the level data
	Message    string `json:"message"`              // human-readable description
	Value      any    `json:"value,omitempty"`      // the invalid value
	Constraint string `json:"constraint,omitempty"` // schema keyword that failed ("required", "enum", ...)
	Expected   any    `json:"expected,omitempty"`   // the constraint's expected value, when known
}

func (e RowError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Path, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// RowResult is the validation outcome for one mapped row.
type RowResult struct {
	Row    int
	Name   string
	Valid  bool
	Errors []RowError
}

// RowFailure converts an upstream mapping failure into an invalid result so
// a broken row never aborts its batch.
func RowFailure(row int, name string, err error) RowResult {
	return RowResult{
		Row:  row,
		Name: name,
		Errors: []RowError{{
			Row:     row,
			Message: fmt.Sprintf("row mapping failed: %v", err),
		}},
	}
}

// Document validates one document against the sheet's schema chain. A row is
// valid only if every level passes; failures from all levels are collected
// before returning.
func Document(doc *catalog.Document, row int, levels []cds.TemplateSchema) RowResult {
	result := RowResult{Row: row, Name: doc.DisplayName(), Valid: true}

	for _, level := range levels {
		cf := doc.Level(level.TemplateID)
		if cf == nil {
			result.Valid = false
			result.Errors = append(result.Errors, RowError{
				Row:        row,
				TemplateID: level.TemplateID,
				Message:    "missing data for template level",
				Constraint: "componentFields",
			})
			continue
		}

		errs := validateLevel(cf.Data, level, row)
		if len(errs) > 0 {
			result.Valid = false
			result.Errors = append(result.Errors, errs...)
		}
	}

	return result
}

// validateLevel runs JSON Schema validation for one component level.
// An empty schema (permissive fallback for an unavailable template) passes
// everything by construction.
func validateLevel(data map[string]any, level cds.TemplateSchema, row int) []RowError {
	if len(level.Schema) == 0 {
		return nil
	}
	if data == nil {
		data = map[string]any{}
	}

	res, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(level.Schema),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		// The schema itself is unusable; attribute it to the level rather
		// than silently passing the row.
		return []RowError{{
			Row:        row,
			TemplateID: level.TemplateID,
			Message:    fmt.Sprintf("schema evaluation failed: %v", err),
		}}
	}
	if res.Valid() {
		return nil
	}

	errs := make([]RowError, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		errs = append(errs, RowError{
			Row:        row,
			TemplateID: level.TemplateID,
			Path:       re.Field(),
			Message:    re.Description(),
			Value:      re.Value(),
			Constraint: re.Type(),
			Expected:   expectedDetail(re),
		})
	}
	return errs
}

// expectedDetail pulls the constraint's expected value out of the library's
// detail map, when it publishes one.
func expectedDetail(re gojsonschema.ResultError) any {
	details := re.Details()
	for _, key := range []string{"expected", "allowed", "min", "max", "property"} {
		if v, ok := details[key]; ok {
			return v
		}
	}
	return nil
}
