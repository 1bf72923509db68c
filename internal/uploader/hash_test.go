package uploader

import (
	"fmt"
	"testing"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

func sampleDoc(name string) *catalog.Document {
	return &catalog.Document{
		Name:       name,
		TemplateID: "template_loc",
		OrgID:      "swoop",
		State:      "unpublished",
		Regions:    []string{"region_pat"},
		Details: map[string]any{
			"type":      "Town",
			"latitude":  -54.8,
			"longitude": -68.3,
		},
		ComponentFields: []catalog.ComponentField{
			{TemplateID: "template_loc", Data: map[string]any{"type": "Town"}},
			{TemplateID: "template_base", Data: map[string]any{}},
		},
	}
}

func TestContentHashDeterministic(t *testing.T) {
	a, err := ContentHash(sampleDoc("Ushuaia"))
	if err != nil {
		t.Fatalf("ContentHash failed: %v", err)
	}
	b, err := ContentHash(sampleDoc("Ushuaia"))
	if err != nil {
		t.Fatalf("ContentHash failed: %v", err)
	}
	if a != b {
		t.Errorf("hashes differ for identical documents: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestContentHashInsertionOrderInvariant(t *testing.T) {
	first := sampleDoc("Ushuaia")

	// Same fields, populated in reverse order.
	second := sampleDoc("Ushuaia")
	second.Details = map[string]any{}
	for _, k := range []string{"longitude", "latitude", "type"} {
		second.Details[k] = first.Details[k]
	}

	a, _ := ContentHash(first)
	b, _ := ContentHash(second)
	if a != b {
		t.Error("hash should not depend on map insertion order")
	}
}

func TestContentHashDetectsChange(t *testing.T) {
	base, _ := ContentHash(sampleDoc("Ushuaia"))

	renamed := sampleDoc("Ushuaia")
	renamed.Name = "Puerto Williams"
	h, _ := ContentHash(renamed)
	if h == base {
		t.Error("name change should change the hash")
	}

	tweaked := sampleDoc("Ushuaia")
	tweaked.Details["latitude"] = -54.9
	h, _ = ContentHash(tweaked)
	if h == base {
		t.Error("detail change should change the hash")
	}
}

func TestContentHashDistinctDocs(t *testing.T) {
	seen := make(map[string]string)
	for i := 0; i < 10; i++ {
		doc := sampleDoc(fmt.Sprintf("Town %d", i))
		h, err := ContentHash(doc)
		if err != nil {
			t.Fatalf("ContentHash failed: %v", err)
		}
		if prev, dup := seen[h]; dup {
			t.Errorf("hash collision between %q and %q", prev, doc.Name)
		}
		seen[h] = doc.Name
	}
}

func TestStripImmutable(t *testing.T) {
	doc := sampleDoc("Ushuaia")
	got, err := stripImmutable(doc)
	if err != nil {
		t.Fatalf("stripImmutable failed: %v", err)
	}

	for _, field := range []string{"name", "orgId", "templateId"} {
		if _, ok := got[field]; ok {
			t.Errorf("field %q should be stripped", field)
		}
	}
	if _, ok := got["componentFields"]; !ok {
		t.Error("componentFields should survive the strip")
	}
	if got["state"] != "unpublished" {
		t.Errorf("state = %v, want unpublished", got["state"])
	}
}
