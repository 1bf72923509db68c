package resolve

import (
	"sync"
	"testing"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

func TestKeyString(t *testing.T) {
	key := NewKey(catalog.KindLocation, "  El Chaltén  ")
	if got := key.String(); got != "location:El Chaltén" {
		t.Errorf("String() = %q, want location:El Chaltén", got)
	}

	parsed, err := ParseKey("location:El Chaltén")
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if parsed != key {
		t.Errorf("ParseKey = %+v, want %+v", parsed, key)
	}
}

func TestParseKeyMalformed(t *testing.T) {
	for _, s := range []string{"", "no-separator", ":name-only"} {
		if _, err := ParseKey(s); err == nil {
			t.Errorf("ParseKey(%q) should fail", s)
		}
	}

	// A colon in the name is fine; only the first separates.
	key, err := ParseKey("activity:Trek: Day Hike")
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if key.Name != "Trek: Day Hike" {
		t.Errorf("Name = %q, want Trek: Day Hike", key.Name)
	}
}

func TestCacheStoreLookup(t *testing.T) {
	c := NewCache()
	key := NewKey(catalog.KindLocation, "Ushuaia")

	if _, ok := c.Lookup(key); ok {
		t.Error("empty cache should miss")
	}

	c.Store(key, "comp_1", "hash_1")

	id, ok := c.Lookup(key)
	if !ok || id != "comp_1" {
		t.Errorf("Lookup = (%q, %v), want (comp_1, true)", id, ok)
	}
	h, ok := c.Hash(key)
	if !ok || h != "hash_1" {
		t.Errorf("Hash = (%q, %v), want (hash_1, true)", h, ok)
	}

	// Same name under a different kind is a distinct key.
	if _, ok := c.Lookup(NewKey(catalog.KindShip, "Ushuaia")); ok {
		t.Error("kind is part of the key")
	}
}

func TestCacheSnapshotRestore(t *testing.T) {
	c := NewCache()
	c.Store(NewKey(catalog.KindLocation, "Ushuaia"), "comp_1", "h1")
	c.Store(NewKey(catalog.KindShip, "Magellan Explorer"), "comp_2", "h2")

	snap := c.Snapshot()
	if snap.Total != 2 || len(snap.Entries) != 2 {
		t.Fatalf("snapshot total = %d entries = %d, want 2/2", snap.Total, len(snap.Entries))
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("snapshot UpdatedAt should be set")
	}

	restored := NewCache()
	restored.Store(NewKey(catalog.KindLocation, "Stale"), "comp_x", "hx")
	restored.Restore(snap)

	if restored.Len() != 2 {
		t.Errorf("restored Len = %d, want 2 (restore replaces)", restored.Len())
	}
	if _, ok := restored.Lookup(NewKey(catalog.KindLocation, "Stale")); ok {
		t.Error("restore should drop pre-existing entries")
	}
	id, ok := restored.Lookup(NewKey(catalog.KindShip, "Magellan Explorer"))
	if !ok || id != "comp_2" {
		t.Errorf("restored Lookup = (%q, %v), want (comp_2, true)", id, ok)
	}
}

func TestCacheConcurrentStore(t *testing.T) {
	c := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := NewKey(catalog.KindActivity, string(rune('A'+n%26)))
			c.Store(key, "comp", "hash")
			c.Lookup(key)
			c.Snapshot()
		}(i)
	}
	wg.Wait()

	if c.Len() != 26 {
		t.Errorf("Len = %d, want 26", c.Len())
	}
}
