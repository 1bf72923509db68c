package catalog

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]SheetDefinition)
	registryMu sync.RWMutex
)

// Register adds a sheet definition to the registry.
// Panics if a definition with the same key is already registered or the
// definition is incomplete; registration happens in init and must fail fast.
func Register(def SheetDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if err := def.validate(); err != nil {
		panic(err.Error())
	}
	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("sheet definition already registered: %s", def.Info.Key))
	}

	registry[def.Info.Key] = def
}

// Get returns a sheet definition by key.
// Returns false if not found.
func Get(key string) (SheetDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered sheet definitions, sorted by key.
func All() []SheetDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]SheetDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Count returns the number of registered sheet definitions.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered definitions.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]SheetDefinition)
}
