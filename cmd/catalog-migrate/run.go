package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
	"github.com/Platform48/csv-migration-command-line-tool/internal/cds"
	"github.com/Platform48/csv-migration-command-line-tool/internal/config"
	"github.com/Platform48/csv-migration-command-line-tool/internal/pipeline"
	"github.com/Platform48/csv-migration-command-line-tool/internal/plan"
	"github.com/Platform48/csv-migration-command-line-tool/internal/report"
	"github.com/Platform48/csv-migration-command-line-tool/internal/resolve"
	"github.com/Platform48/csv-migration-command-line-tool/internal/source"
	"github.com/Platform48/csv-migration-command-line-tool/internal/store"
	"github.com/Platform48/csv-migration-command-line-tool/internal/uploader"
	"github.com/Platform48/csv-migration-command-line-tool/internal/web"
)

func newRunCmd() *cobra.Command {
	var (
		workers int
		force   bool
		serve   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Map, validate, and upload every sheet in the plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Upload.Workers = workers
			}
			if cmd.Flags().Changed("force") {
				cfg.Upload.Force = force
			}
			if cmd.Flags().Changed("serve") {
				cfg.Web.Enabled = serve
			}
			return runMigration(cmd.Context(), cfg, nil)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 10, "In-flight upload requests per sheet batch")
	cmd.Flags().BoolVar(&force, "force", false, "Re-upload every document, ignoring the change cache")
	cmd.Flags().BoolVar(&serve, "serve", false, "Serve the run summary over HTTP after the run")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Map and validate without uploading, emitting would-be payloads as NDJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := io.Writer(os.Stdout)
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return runMigration(cmd.Context(), cfg, out)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "NDJSON output file (default: stdout)")

	return cmd
}

// runMigration wires the pipeline and executes it. A non-nil dryRun writer
// switches the run to validate-only mode.
func runMigration(ctx context.Context, cfg *config.Config, dryRun io.Writer) error {
	logger := slog.Default()

	p, err := plan.Load(planPath)
	if err != nil {
		return err
	}

	src, err := source.OpenXLSX(p.WorkbookPath())
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer src.Close()

	cache := resolve.NewCache()
	resolver := resolve.NewResolver(cache, logger)

	regions, err := p.LoadRegions()
	if err != nil {
		return err
	}
	resolver.SetRegions(regions)
	for kind, table := range p.Aliases {
		resolver.SetAliases(catalog.Kind(kind), resolve.AliasTable(table))
	}

	pipe := &pipeline.Pipeline{
		Source:          src,
		Plan:            p,
		Resolver:        resolver,
		AllowPermissive: cfg.Schema.AllowPermissive,
		DryRun:          dryRun,
		Logger:          logger,
	}

	client := cds.NewClient(cfg.Service.URL, cfg.Service.Timeout, logger)
	pipe.Schemas = client

	if dryRun == nil {
		pipe.Uploader = uploader.New(client, cache, uploader.Options{
			Workers: cfg.Upload.Workers,
			Force:   cfg.Upload.Force,
		}, logger)
	}

	st, err := store.Open(cfg.Cache.Path)
	if err != nil {
		logger.Warn("identifier cache unavailable, run will not persist", "path", cfg.Cache.Path, "error", err)
	} else {
		defer st.Close()
		pipe.Store = st
	}

	reports, err := report.NewWriter(cfg.Report.Dir)
	if err != nil {
		logger.Warn("report directory unavailable, skipping reports", "dir", cfg.Report.Dir, "error", err)
	} else {
		pipe.Reports = reports
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := pipe.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Web.Enabled && dryRun == nil {
		serveSummary(ctx, cfg, cache, resolver.Missing(), summary, logger)
	}

	return summaryErr(summary)
}

// serveSummary blocks serving the run result until interrupted.
func serveSummary(ctx context.Context, cfg *config.Config, cache *resolve.Cache, missing *resolve.MissingSet, summary *pipeline.RunSummary, logger *slog.Logger) {
	server := web.NewServer(cache, missing, cfg.Web.RequestTimeout, logger)
	server.SetSummary(summary)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("status server shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Web.Addr); err != nil {
		logger.Info("status server stopped", "error", err)
	}
}

// summaryErr turns batch-level failures into a non-zero exit without hiding
// the partial progress that was already persisted.
func summaryErr(summary *pipeline.RunSummary) error {
	var failed, invalid, rejected int
	for _, s := range summary.Sheets {
		failed += s.Failed
		invalid += s.Invalid
		if s.Rejected != "" {
			rejected++
		}
	}
	if failed > 0 || rejected > 0 {
		return fmt.Errorf("run finished with %d failed uploads, %d invalid rows, %d rejected sheets", failed, invalid, rejected)
	}
	return nil
}
