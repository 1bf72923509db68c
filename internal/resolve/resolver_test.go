package resolve

import (
	"testing"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

func ref(sheet string, row int, field string, required bool) catalog.RefContext {
	return catalog.RefContext{Sheet: sheet, Row: row, Field: field, Required: required}
}

func TestResolver_ExactLookup(t *testing.T) {
	cache := NewCache()
	cache.Store(NewKey(catalog.KindLocation, "Ushuaia"), "comp_abc", "h1")
	r := NewResolver(cache, nil)

	id, ok := r.ComponentID(catalog.KindLocation, "Ushuaia", ref("Ground Accom", 5, "location", true))
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if id != "comp_abc" {
		t.Errorf("id = %q, want comp_abc", id)
	}
	if got := r.Missing().Len(); got != 0 {
		t.Errorf("missing count = %d, want 0", got)
	}
}

func TestResolver_TrimsBeforeLookup(t *testing.T) {
	cache := NewCache()
	cache.Store(NewKey(catalog.KindLocation, "Ushuaia"), "comp_abc", "h1")
	r := NewResolver(cache, nil)

	id, ok := r.ComponentID(catalog.KindLocation, "  Ushuaia  ", ref("Ground Accom", 5, "location", true))
	if !ok || id != "comp_abc" {
		t.Errorf("trimmed lookup = (%q, %v), want (comp_abc, true)", id, ok)
	}
}

func TestResolver_CaseSensitive(t *testing.T) {
	cache := NewCache()
	cache.Store(NewKey(catalog.KindLocation, "El Calafate"), "comp_ec", "h1")
	r := NewResolver(cache, nil)

	// No case folding: different case is a miss.
	if _, ok := r.ComponentID(catalog.KindLocation, "el calafate", ref("Activity", 3, "Start Location", true)); ok {
		t.Error("case-variant lookup should miss")
	}
	if got := r.Missing().Len(); got != 1 {
		t.Errorf("missing count = %d, want 1", got)
	}
}

func TestResolver_AliasNormalization(t *testing.T) {
	cache := NewCache()
	cache.Store(NewKey(catalog.KindLocation, "El Calafate"), "comp_ec", "h1")
	r := NewResolver(cache, nil)
	r.SetAliases(catalog.KindLocation, AliasTable{
		"El calafate": "El Calafate",
		"Calafate":    "El Calafate",
	})

	for _, spelling := range []string{"El Calafate", "El calafate", "Calafate"} {
		id, ok := r.ComponentID(catalog.KindLocation, spelling, ref("Activity", 7, "Start Location", true))
		if !ok || id != "comp_ec" {
			t.Errorf("spelling %q = (%q, %v), want (comp_ec, true)", spelling, id, ok)
		}
	}
	if got := r.Missing().Len(); got != 0 {
		t.Errorf("missing count = %d, want 0", got)
	}
}

func TestResolver_AliasScopedPerKind(t *testing.T) {
	cache := NewCache()
	cache.Store(NewKey(catalog.KindShip, "Magellan Explorer"), "comp_me", "h1")
	r := NewResolver(cache, nil)
	r.SetAliases(catalog.KindLocation, AliasTable{"Magellan": "Magellan Explorer"})

	// The alias belongs to locations, not ships.
	if _, ok := r.ComponentID(catalog.KindShip, "Magellan", ref("Cruise Packages", 2, "Ship", true)); ok {
		t.Error("alias from another kind should not apply")
	}
}

func TestResolver_RequiredMissRecorded(t *testing.T) {
	r := NewResolver(NewCache(), nil)

	_, ok := r.ComponentID(catalog.KindLocation, "Atlantis", ref("Ground Accom", 9, "location", true))
	if ok {
		t.Fatal("lookup should miss")
	}

	records := r.Missing().Records()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Key.Name != "Atlantis" || rec.Issue != "not found" {
		t.Errorf("record = %+v, want Atlantis / not found", rec)
	}
	if len(rec.Contexts) != 1 || rec.Contexts[0].Row != 9 {
		t.Errorf("contexts = %+v, want one context at row 9", rec.Contexts)
	}
}

func TestResolver_OptionalMissNotRecorded(t *testing.T) {
	r := NewResolver(NewCache(), nil)

	if _, ok := r.ComponentID(catalog.KindLocation, "Atlantis", ref("Ground Accom", 9, "location", false)); ok {
		t.Fatal("lookup should miss")
	}
	if got := r.Missing().Len(); got != 0 {
		t.Errorf("missing count = %d, want 0", got)
	}
}

func TestResolver_EmptyRequiredName(t *testing.T) {
	r := NewResolver(NewCache(), nil)

	if _, ok := r.ComponentID(catalog.KindLocation, "   ", ref("Ground Accom", 4, "location", true)); ok {
		t.Fatal("blank name should miss")
	}

	records := r.Missing().Records()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Key.Name != "(blank)" || records[0].Issue != "empty name" {
		t.Errorf("record = %+v, want (blank) / empty name", records[0])
	}

	// Blank optional names are silent.
	if _, ok := r.ComponentID(catalog.KindLocation, "", ref("Ground Accom", 5, "location", false)); ok {
		t.Fatal("blank optional name should miss")
	}
	if got := r.Missing().Len(); got != 1 {
		t.Errorf("missing count = %d, want 1", got)
	}
}

func TestResolver_MissCountAccumulates(t *testing.T) {
	r := NewResolver(NewCache(), nil)

	r.ComponentID(catalog.KindLocation, "Atlantis", ref("Ground Accom", 3, "location", true))
	r.ComponentID(catalog.KindLocation, "Atlantis", ref("Ground Accom", 8, "location", true))
	r.ComponentID(catalog.KindLocation, "Atlantis", ref("All Activities", 2, "Start Location", true))

	records := r.Missing().Records()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1 (same key accumulates)", len(records))
	}
	if records[0].Count != 3 {
		t.Errorf("count = %d, want 3", records[0].Count)
	}
	if len(records[0].Contexts) != 3 {
		t.Errorf("contexts = %d, want 3", len(records[0].Contexts))
	}
}

func TestResolver_RegionLookup(t *testing.T) {
	r := NewResolver(NewCache(), nil)
	r.SetRegions(map[string]string{"Patagonia": "region_pat", "Antarctica": "region_ant"})
	r.SetAliases(catalog.KindRegion, AliasTable{"patagonia": "Patagonia"})

	id, ok := r.RegionID("Patagonia", ref("Location", 2, "Region", false))
	if !ok || id != "region_pat" {
		t.Errorf("RegionID = (%q, %v), want (region_pat, true)", id, ok)
	}

	// Alias spelling resolves too.
	id, ok = r.RegionID("patagonia", ref("Location", 3, "Region", false))
	if !ok || id != "region_pat" {
		t.Errorf("aliased RegionID = (%q, %v), want (region_pat, true)", id, ok)
	}

	if got := r.Missing().Len(); got != 0 {
		t.Errorf("missing count = %d, want 0", got)
	}
}

func TestResolver_UnmappedRegionAlwaysRecorded(t *testing.T) {
	r := NewResolver(NewCache(), nil)
	r.SetRegions(map[string]string{"Patagonia": "region_pat"})

	// Not required, still recorded: unmapped regions are a data problem.
	if _, ok := r.RegionID("Narnia", ref("Location", 6, "Region", false)); ok {
		t.Fatal("unmapped region should miss")
	}

	records := r.Missing().Records()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Key.Kind != catalog.KindRegion || records[0].Key.Name != "Narnia" {
		t.Errorf("record key = %+v, want region/Narnia", records[0].Key)
	}

	// Blank region names are silently skipped.
	if _, ok := r.RegionID("", ref("Location", 7, "Region", false)); ok {
		t.Fatal("blank region should miss")
	}
	if got := r.Missing().Len(); got != 1 {
		t.Errorf("missing count = %d, want 1", got)
	}
}
