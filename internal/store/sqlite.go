// Package store persists the identifier and content-hash caches between
// runs in an embedded SQLite database. The caches are written together after
// each sheet's upload batch, so a crash mid-run loses at most one sheet's
// newly minted identifiers.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
	"github.com/Platform48/csv-migration-command-line-tool/internal/resolve"
)

const schema = `
CREATE TABLE IF NOT EXISTS component_ids (
	kind         TEXT NOT NULL,
	name         TEXT NOT NULL,
	component_id TEXT NOT NULL,
	content_hash TEXT NOT NULL DEFAULT '',
	updated_at   TEXT NOT NULL,
	PRIMARY KEY (kind, name)
);
CREATE TABLE IF NOT EXISTS cache_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is the SQLite-backed cache store.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full cache snapshot. A missing or empty database yields an
// empty snapshot, never an error.
func (s *Store) Load() (resolve.Snapshot, error) {
	var snap resolve.Snapshot

	rows, err := s.db.Query(
		`SELECT kind, name, component_id, content_hash FROM component_ids ORDER BY kind, name`)
	if err != nil {
		return snap, fmt.Errorf("reading cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, name, id, hash string
		if err := rows.Scan(&kind, &name, &id, &hash); err != nil {
			return snap, fmt.Errorf("scanning cache row: %w", err)
		}
		snap.Entries = append(snap.Entries, resolve.Entry{
			Key:         resolve.Key{Kind: catalog.Kind(kind), Name: name},
			ComponentID: id,
			ContentHash: hash,
		})
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("reading cache: %w", err)
	}

	snap.Total = len(snap.Entries)
	if raw, err := s.meta("updated_at"); err == nil && raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			snap.UpdatedAt = t
		}
	}

	return snap, nil
}

// Save writes the snapshot, replacing existing rows for the same keys.
// Entries are written in stable key order inside one transaction.
func (s *Store) Save(snap resolve.Snapshot) error {
	entries := append([]resolve.Entry(nil), snap.Entries...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Key.Kind != entries[j].Key.Kind {
			return entries[i].Key.Kind < entries[j].Key.Kind
		}
		return entries[i].Key.Name < entries[j].Key.Name
	})

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	defer tx.Rollback()

	upsert, err := tx.Prepare(`
		INSERT INTO component_ids (kind, name, component_id, content_hash, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (kind, name) DO UPDATE SET
			component_id = excluded.component_id,
			content_hash = excluded.content_hash,
			updated_at   = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare cache upsert: %w", err)
	}
	defer upsert.Close()

	now := snap.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	stamp := now.Format(time.RFC3339)

	for _, e := range entries {
		if _, err := upsert.Exec(string(e.Key.Kind), e.Key.Name, e.ComponentID, e.ContentHash, stamp); err != nil {
			return fmt.Errorf("write cache entry %s: %w", e.Key.String(), err)
		}
	}

	if err := s.setMeta(tx, "updated_at", stamp); err != nil {
		return err
	}
	if err := s.setMeta(tx, "total", fmt.Sprintf("%d", snap.Total)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache write: %w", err)
	}
	return nil
}

func (s *Store) meta(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM cache_meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) setMeta(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO cache_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write cache meta %s: %w", key, err)
	}
	return nil
}
