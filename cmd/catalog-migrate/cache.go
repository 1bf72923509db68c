package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Platform48/csv-migration-command-line-tool/internal/store"
)

// cachePath resolves the cache file without requiring full service
// configuration, so cache inspection works offline.
func cachePath() string {
	if p := os.Getenv("CACHE_PATH"); p != "" {
		return p
	}
	return ".catalog-cache/components.db"
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the persisted identifier cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print entry counts per entity kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cachePath())
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Load()
			if err != nil {
				return err
			}

			byKind := make(map[string]int)
			for _, e := range snap.Entries {
				byKind[string(e.Key.Kind)]++
			}
			kinds := make([]string, 0, len(byKind))
			for k := range byKind {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)

			fmt.Printf("cache: %s\n", st.Path())
			fmt.Printf("entries: %d\n", snap.Total)
			if !snap.UpdatedAt.IsZero() {
				fmt.Printf("updated: %s\n", snap.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
			}
			for _, k := range kinds {
				fmt.Printf("  %-16s %d\n", k, byKind[k])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every cached (kind, name) → id entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cachePath())
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Load()
			if err != nil {
				return err
			}

			entries := snap.Entries
			sort.Slice(entries, func(i, j int) bool {
				if entries[i].Key.Kind != entries[j].Key.Kind {
					return entries[i].Key.Kind < entries[j].Key.Kind
				}
				return entries[i].Key.Name < entries[j].Key.Name
			})
			for _, e := range entries {
				fmt.Printf("%s\t%s\n", e.Key, e.ComponentID)
			}
			return nil
		},
	})

	return cmd
}
