package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
	"github.com/Platform48/csv-migration-command-line-tool/internal/resolve"
)

func sampleRecords() []resolve.MissingRecord {
	seen := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return []resolve.MissingRecord{
		{
			Key:       resolve.NewKey(catalog.KindLocation, "Atlantis"),
			Issue:     "not found",
			Count:     2,
			FirstSeen: seen,
			LastSeen:  seen,
			Contexts: []catalog.RefContext{
				{Sheet: "Ground Accom", Row: 7, Field: "location", RowName: "Hotel Azul"},
				{Sheet: "All Activities", Row: 4, Field: "Start Location", RowName: "Reef Dive"},
			},
		},
		{
			Key:       resolve.NewKey(catalog.KindRegion, "Narnia"),
			Issue:     "not found",
			Count:     1,
			FirstSeen: seen,
			LastSeen:  seen,
			Contexts: []catalog.RefContext{
				{Sheet: "Location", Row: 2, Field: "Region"},
			},
		},
	}
}

func TestWriteMissing(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	paths, err := w.WriteMissing("run-1", sampleRecords())
	if err != nil {
		t.Fatalf("WriteMissing failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(paths))
	}

	bySheet, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read sheet report: %v", err)
	}
	for _, want := range []string{"run-1", "Sheet: Ground Accom", "row 7", "Atlantis", "Hotel Azul", "Sheet: Location", "Narnia"} {
		if !strings.Contains(string(bySheet), want) {
			t.Errorf("sheet report missing %q", want)
		}
	}

	// Rows within one sheet are listed in row order.
	content := string(bySheet)
	if strings.Index(content, "Sheet: All Activities") > strings.Index(content, "Sheet: Ground Accom") {
		t.Error("sheets should be listed alphabetically")
	}

	byKind, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatalf("read kind report: %v", err)
	}
	for _, want := range []string{"location:", "region:", "x2", "x1"} {
		if !strings.Contains(string(byKind), want) {
			t.Errorf("kind report missing %q", want)
		}
	}
}

func TestWriteMissingEmpty(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	paths, err := w.WriteMissing("run-1", nil)
	if err != nil {
		t.Fatalf("WriteMissing failed: %v", err)
	}
	if paths != nil {
		t.Errorf("paths = %v, want nil (nothing written for a clean run)", paths)
	}
}
