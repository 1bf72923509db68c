package resolve

import (
	"sort"
	"sync"
	"time"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

// MissingRecord accumulates every unresolved lookup for one (kind, name)
// pair within a run. It is a diagnostic artifact, rebuilt each run, never
// persisted as authoritative state.
type MissingRecord struct {
	Key       Key
	Issue     string // "not found" or "empty name"
	Count     int
	FirstSeen time.Time
	LastSeen  time.Time
	Contexts  []catalog.RefContext
}

// MissingSet collects missing-reference records for a session. Safe for
// concurrent use.
type MissingSet struct {
	mu      sync.Mutex
	records map[Key]*MissingRecord
}

// NewMissingSet returns an empty set.
func NewMissingSet() *MissingSet {
	return &MissingSet{records: make(map[Key]*MissingRecord)}
}

// Record notes one unresolved lookup, creating the record on first sight and
// incrementing the occurrence count afterwards.
func (m *MissingSet) Record(key Key, issue string, ref catalog.RefContext) {
	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok {
		rec = &MissingRecord{
			Key:       key,
			Issue:     issue,
			FirstSeen: now,
		}
		m.records[key] = rec
	}
	rec.Count++
	rec.LastSeen = now
	rec.Contexts = append(rec.Contexts, ref)
}

// Len returns the number of distinct missing keys.
func (m *MissingSet) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Records returns a copy of all records sorted by kind then name.
func (m *MissingSet) Records() []MissingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]MissingRecord, 0, len(m.records))
	for _, rec := range m.records {
		cp := *rec
		cp.Contexts = append([]catalog.RefContext(nil), rec.Contexts...)
		out = append(out, cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Kind != out[j].Key.Kind {
			return out[i].Key.Kind < out[j].Key.Kind
		}
		return out[i].Key.Name < out[j].Key.Name
	})

	return out
}

// Reset clears the set at the start of a run.
func (m *MissingSet) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[Key]*MissingRecord)
}
