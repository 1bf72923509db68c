package catalog

import (
	"strconv"
	"strings"
)

// Row is one spreadsheet row exposed as string fields keyed by column
// header. Duplicate headers are disambiguated by the source loader
// ("Day", "Day.1", "Day.2") before rows reach the mappers.
type Row map[string]string

// Stripped returns the trimmed value of a field, or "" when absent.
func (r Row) Stripped(field string) string {
	return strings.TrimSpace(r[field])
}

// Float parses a field as float64. Returns ok=false for blank or
// unparseable values.
func (r Row) Float(field string) (float64, bool) {
	raw := r.Stripped(field)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int parses a field as an integer, tolerating spreadsheet floats like
// "3.0". Returns def for blank or unparseable values.
func (r Row) Int(field string, def int) int {
	raw := r.Stripped(field)
	if raw == "" {
		return def
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return def
}

// Bool reports whether the field equals the given truthy marker,
// case-insensitively. Spreadsheet exports use "TRUE" for boolean columns and
// "Included" for amenity columns.
func (r Row) Bool(field, truthy string) bool {
	return strings.EqualFold(r.Stripped(field), truthy)
}

// List splits a field on the separator, trimming entries and dropping
// empties.
func (r Row) List(field, sep string) []string {
	raw := r.Stripped(field)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RefContext identifies where an unresolved reference came from, for the
// end-of-run report.
type RefContext struct {
	Sheet    string
	Row      int
	Field    string
	RowName  string
	Required bool
}

// RefLookup resolves human-entered names into previously minted identifiers.
// Implementations record misses; a false return never aborts mapping.
type RefLookup interface {
	// ComponentID looks up a (kind, name) business key.
	ComponentID(kind Kind, name string, ref RefContext) (string, bool)
	// RegionID maps a region display name to its region id.
	RegionID(name string, ref RefContext) (string, bool)
}

// MapEnv carries the contextual lookups a mapper needs for one row.
type MapEnv struct {
	Sheet string
	Row   int // 1-based spreadsheet row number
	Refs  RefLookup
}

// Ref builds a RefContext for the given field of the current row.
func (e *MapEnv) Ref(field, rowName string, required bool) RefContext {
	return RefContext{
		Sheet:    e.Sheet,
		Row:      e.Row,
		Field:    field,
		RowName:  rowName,
		Required: required,
	}
}
