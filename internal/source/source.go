// Package source produces ordered sequences of named rows from spreadsheet
// workbooks. Duplicate column headers are disambiguated here ("Day",
// "Day.1", "Day.2") so that downstream mappers address repeated column
// blocks deterministically.
package source

import (
	"fmt"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

// Sheet is one spreadsheet tab's data rows.
type Sheet struct {
	Name string
	// FirstRow is the 1-based spreadsheet row number of Rows[0], used for
	// row attribution in validation errors and reports.
	FirstRow int
	Rows     []catalog.Row
}

// RowNumber returns the spreadsheet row number for an index into Rows.
func (s *Sheet) RowNumber(i int) int {
	return s.FirstRow + i
}

// Source yields sheets by name.
type Source interface {
	Sheet(name string) (*Sheet, error)
}

// DedupHeaders makes duplicate column names unique by suffixing repeats with
// a 1-based counter: "Day", "Day.1", "Day.2".
func DedupHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		n, dup := seen[h]
		if !dup {
			seen[h] = 0
			out[i] = h
			continue
		}
		seen[h] = n + 1
		out[i] = fmt.Sprintf("%s.%d", h, n+1)
	}
	return out
}

// Suffixed returns the deduplicated column name for the n-th occurrence
// (0-based) of a repeated header.
func Suffixed(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, n)
}

// Memory is an in-memory Source for tests and dry runs.
type Memory struct {
	Sheets map[string]*Sheet
}

// Sheet implements Source.
func (m *Memory) Sheet(name string) (*Sheet, error) {
	sh, ok := m.Sheets[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return sh, nil
}
