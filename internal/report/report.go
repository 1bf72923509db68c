// Package report writes the end-of-run diagnostic listings of unresolved
// cross-references: one grouped by sheet for row-level correction, one
// grouped by kind with occurrence counts for bulk review. Reports are
// human-readable artifacts, written once per run and never read back
// programmatically.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
	"github.com/Platform48/csv-migration-command-line-tool/internal/resolve"
)

// Writer writes run reports into a directory.
type Writer struct {
	dir string
}

// NewWriter creates a report writer for dir, creating it as needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteMissing writes both missing-reference reports and returns their
// paths. Nothing is written when there are no records.
func (w *Writer) WriteMissing(runID string, records []resolve.MissingRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	bySheet := filepath.Join(w.dir, fmt.Sprintf("missing-by-sheet-%s.txt", stamp))
	byKind := filepath.Join(w.dir, fmt.Sprintf("missing-by-kind-%s.txt", stamp))

	if err := os.WriteFile(bySheet, []byte(renderBySheet(runID, records)), 0o644); err != nil {
		return nil, fmt.Errorf("write sheet report: %w", err)
	}
	if err := os.WriteFile(byKind, []byte(renderByKind(runID, records)), 0o644); err != nil {
		return nil, fmt.Errorf("write kind report: %w", err)
	}

	return []string{bySheet, byKind}, nil
}

func renderBySheet(runID string, records []resolve.MissingRecord) string {
	type line struct {
		ref  catalog.RefContext
		key  resolve.Key
		note string
	}

	bySheet := make(map[string][]line)
	for _, rec := range records {
		for _, ref := range rec.Contexts {
			bySheet[ref.Sheet] = append(bySheet[ref.Sheet], line{ref: ref, key: rec.Key, note: rec.Issue})
		}
	}

	sheets := make([]string, 0, len(bySheet))
	for s := range bySheet {
		sheets = append(sheets, s)
	}
	sort.Strings(sheets)

	var b strings.Builder
	fmt.Fprintf(&b, "Unresolved references by sheet (run %s)\n", runID)
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().UTC().Format(time.RFC3339))

	for _, sheet := range sheets {
		lines := bySheet[sheet]
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].ref.Row != lines[j].ref.Row {
				return lines[i].ref.Row < lines[j].ref.Row
			}
			return lines[i].ref.Field < lines[j].ref.Field
		})

		fmt.Fprintf(&b, "Sheet: %s\n", sheet)
		for _, l := range lines {
			fmt.Fprintf(&b, "  row %d  field %-24s %s %q (%s)",
				l.ref.Row, l.ref.Field, l.key.Kind, l.key.Name, l.note)
			if l.ref.RowName != "" {
				fmt.Fprintf(&b, "  [row name: %s]", l.ref.RowName)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderByKind(runID string, records []resolve.MissingRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Unresolved names by kind (run %s)\n", runID)
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().UTC().Format(time.RFC3339))

	var kind catalog.Kind
	for _, rec := range records {
		if rec.Key.Kind != kind {
			kind = rec.Key.Kind
			fmt.Fprintf(&b, "%s:\n", kind)
		}
		fmt.Fprintf(&b, "  %-40q x%d  first %s  last %s\n",
			rec.Key.Name, rec.Count,
			rec.FirstSeen.Format(time.RFC3339),
			rec.LastSeen.Format(time.RFC3339))
	}

	return b.String()
}
