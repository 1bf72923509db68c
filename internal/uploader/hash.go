package uploader

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

// volatileFields are excluded from content hashing: server-assigned
// identifiers and timestamps change without the document's meaning changing.
var volatileFields = map[string]bool{
	"id":              true,
	"createdAt":       true,
	"updatedAt":       true,
	"revision":        true,
	"revisionGroupId": true,
}

// ContentHash computes the deterministic hash used for the "no meaningful
// change" skip decision. The document is round-tripped through a generic map
// and re-marshalled; encoding/json emits map keys in sorted order, so two
// documents with the same fields hash identically regardless of insertion
// order.
func ContentHash(doc *catalog.Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("canonicalize document: %w", err)
	}
	for field := range volatileFields {
		delete(generic, field)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("marshal canonical form: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// stripImmutable removes the fields the update endpoint rejects (name, org,
// template id) from a document payload before the alternate-verb retry.
func stripImmutable(doc *catalog.Document) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize document: %w", err)
	}

	delete(generic, "name")
	delete(generic, "orgId")
	delete(generic, "templateId")
	return generic, nil
}
