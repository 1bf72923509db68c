// Package main provides the CLI entry point for the catalog migration tool.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Platform48/csv-migration-command-line-tool/internal/config"
	"github.com/Platform48/csv-migration-command-line-tool/internal/logging"

	// Register all sheet definitions.
	_ "github.com/Platform48/csv-migration-command-line-tool/internal/catalog/sheets"
)

var planPath string

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	rootCmd := &cobra.Command{
		Use:   "catalog-migrate",
		Short: "Migrate catalog spreadsheets into the core data service",
		Long: `catalog-migrate maps catalog workbook sheets (locations, accommodations,
activities, journeys, tours, cruises) into component documents, validates them
against the service's template schemas, and uploads them with cross-sheet
reference resolution and change detection.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&planPath, "plan", "p", "migration.toml", "Migration plan file")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newCacheCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads env configuration and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}
