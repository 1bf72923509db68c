// Package resolve maintains the session-scoped mapping from business keys
// (entity kind + component name) to server-assigned identifiers, applies
// alias normalization during lookups, and records unresolved references for
// the end-of-run report.
package resolve

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

// Key is the composite business key for an uploaded component. Identity is
// case-sensitive; names are trimmed before keys are built.
type Key struct {
	Kind catalog.Kind
	Name string
}

// NewKey builds a key with the name trimmed.
func NewKey(kind catalog.Kind, name string) Key {
	return Key{Kind: kind, Name: strings.TrimSpace(name)}
}

// String renders the key in the "kind:name" form used for hash-cache keys
// and persisted rows.
func (k Key) String() string {
	return string(k.Kind) + ":" + k.Name
}

// ParseKey parses the "kind:name" form produced by String.
func ParseKey(s string) (Key, error) {
	kind, name, ok := strings.Cut(s, ":")
	if !ok || kind == "" {
		return Key{}, fmt.Errorf("malformed cache key %q", s)
	}
	return Key{Kind: catalog.Kind(kind), Name: name}, nil
}

// Entry is one persisted cache row: a minted identifier plus the content
// hash of the document it was minted for.
type Entry struct {
	Key         Key
	ComponentID string
	ContentHash string
}

// Snapshot is the serializable state of the cache, written to durable
// storage after each sheet's upload batch.
type Snapshot struct {
	Entries   []Entry
	UpdatedAt time.Time
	Total     int
}

// Cache holds minted identifiers and content hashes. Multiple upload workers
// mutate it concurrently; all access goes through the mutex.
type Cache struct {
	mu     sync.RWMutex
	ids    map[Key]string
	hashes map[Key]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		ids:    make(map[Key]string),
		hashes: make(map[Key]string),
	}
}

// Lookup returns the identifier minted for the key, if any.
func (c *Cache) Lookup(key Key) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[key]
	return id, ok
}

// Hash returns the stored content hash for the key, if any.
func (c *Cache) Hash(key Key) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.hashes[key]
	return h, ok
}

// Store records a minted identifier and its content hash. Called from upload
// workers after a confirmed successful upload.
func (c *Cache) Store(key Key, componentID, contentHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[key] = componentID
	c.hashes[key] = contentHash
}

// Len returns the number of cached identifiers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// Snapshot copies the cache state for persistence. Entries are returned in
// unspecified order; the store is responsible for stable output.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.ids))
	for key, id := range c.ids {
		entries = append(entries, Entry{
			Key:         key,
			ComponentID: id,
			ContentHash: c.hashes[key],
		})
	}

	return Snapshot{
		Entries:   entries,
		UpdatedAt: time.Now().UTC(),
		Total:     len(entries),
	}
}

// Restore replaces the cache state from a persisted snapshot.
func (c *Cache) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ids = make(map[Key]string, len(snap.Entries))
	c.hashes = make(map[Key]string, len(snap.Entries))
	for _, e := range snap.Entries {
		c.ids[e.Key] = e.ComponentID
		if e.ContentHash != "" {
			c.hashes[e.Key] = e.ContentHash
		}
	}
}
