package resolve

import (
	"log/slog"
	"strings"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

// AliasTable maps spreadsheet spellings to canonical names. Substitution
// happens before cache lookup and is transparent to the caller.
type AliasTable map[string]string

// Canonical returns the canonical form of name, or name itself when no alias
// applies.
func (a AliasTable) Canonical(name string) string {
	if canonical, ok := a[name]; ok {
		return canonical
	}
	return name
}

// Resolver resolves human-entered names into minted identifiers. It owns the
// identifier cache, per-kind alias tables, the region lookup table, and the
// session's missing-reference records. A Resolver is shared by the mappers
// (reads) and the upload orchestrator (writes) and is safe for concurrent
// use.
type Resolver struct {
	cache   *Cache
	missing *MissingSet
	aliases map[catalog.Kind]AliasTable
	regions map[string]string // region display name -> region id
	logger  *slog.Logger
}

// NewResolver builds a resolver around the given cache.
func NewResolver(cache *Cache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cache:   cache,
		missing: NewMissingSet(),
		aliases: make(map[catalog.Kind]AliasTable),
		regions: make(map[string]string),
		logger:  logger,
	}
}

// SetAliases installs the alias table for a kind, replacing any previous
// table.
func (r *Resolver) SetAliases(kind catalog.Kind, aliases AliasTable) {
	r.aliases[kind] = aliases
}

// SetRegions installs the region name → id lookup table.
func (r *Resolver) SetRegions(regions map[string]string) {
	r.regions = regions
}

// Cache exposes the underlying identifier cache for the orchestrator.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Missing exposes the session's missing-reference records.
func (r *Resolver) Missing() *MissingSet {
	return r.missing
}

// ComponentID resolves a (kind, name) business key to a minted identifier.
//
// The name is trimmed, then alias-normalized for the kind, then looked up
// exactly: no fuzzy matching, no case folding. On a miss with ref.Required
// set, a missing-reference record is appended; blank required names are
// recorded with issue "empty name". This method never fails — callers decide
// whether a document can be produced without the reference.
func (r *Resolver) ComponentID(kind catalog.Kind, name string, ref catalog.RefContext) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		if ref.Required {
			r.missing.Record(NewKey(kind, "(blank)"), "empty name", ref)
		}
		return "", false
	}

	canonical := r.aliases[kind].Canonical(trimmed)
	if canonical != trimmed {
		r.logger.Debug("alias applied",
			"kind", kind, "name", trimmed, "canonical", canonical)
	}

	key := NewKey(kind, canonical)
	if id, ok := r.cache.Lookup(key); ok {
		return id, true
	}

	if ref.Required {
		r.missing.Record(key, "not found", ref)
	}
	return "", false
}

// RegionID maps a region display name to its region identifier using the
// static region table. Unmapped names are always recorded: a region string
// that matches nothing is a data-cleanliness problem regardless of whether
// the document can ship without it.
func (r *Resolver) RegionID(name string, ref catalog.RefContext) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}

	canonical := r.aliases[catalog.KindRegion].Canonical(trimmed)
	if id, ok := r.regions[canonical]; ok {
		return id, true
	}

	r.missing.Record(NewKey(catalog.KindRegion, trimmed), "not found", ref)
	return "", false
}
