// Package pipeline wires the migration run: sheets are processed strictly in
// plan order — map, validate, upload, persist — because later sheets depend
// on identifiers minted by earlier sheets' uploads. Only the upload step
// fans out; resolution and validation are single-threaded per sheet.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
	"github.com/Platform48/csv-migration-command-line-tool/internal/cds"
	"github.com/Platform48/csv-migration-command-line-tool/internal/plan"
	"github.com/Platform48/csv-migration-command-line-tool/internal/report"
	"github.com/Platform48/csv-migration-command-line-tool/internal/resolve"
	"github.com/Platform48/csv-migration-command-line-tool/internal/source"
	"github.com/Platform48/csv-migration-command-line-tool/internal/uploader"
	"github.com/Platform48/csv-migration-command-line-tool/internal/validate"
)

// SchemaFetcher is the slice of the cds client the pipeline needs.
type SchemaFetcher interface {
	FetchTemplateSchemas(ctx context.Context, templateIDs []string) []cds.TemplateSchema
}

// Persister stores the identifier/hash cache between runs.
type Persister interface {
	Load() (resolve.Snapshot, error)
	Save(resolve.Snapshot) error
}

// SheetSummary reports one sheet's outcome.
type SheetSummary struct {
	Sheet    string              `json:"sheet"`
	Kind     catalog.Kind        `json:"kind"`
	Rows     int                 `json:"rows"`
	Invalid  int                 `json:"invalid"`
	Uploaded int                 `json:"uploaded"`
	Skipped  int                 `json:"skipped"`
	Failed   int                 `json:"failed"`
	Rejected string              `json:"rejected,omitempty"` // non-empty when the whole sheet was rejected
	Errors   []validate.RowError `json:"errors,omitempty"`
}

// RunSummary reports a whole run.
type RunSummary struct {
	RunID       string         `json:"runId"`
	Started     time.Time      `json:"started"`
	Finished    time.Time      `json:"finished"`
	Sheets      []SheetSummary `json:"sheets"`
	Missing     int            `json:"missingReferences"`
	ReportPaths []string       `json:"reportPaths,omitempty"`
}

// Pipeline executes a migration plan.
type Pipeline struct {
	Source   source.Source
	Plan     *plan.Plan
	Schemas  SchemaFetcher
	Uploader *uploader.Orchestrator // nil in dry-run mode
	Resolver *resolve.Resolver
	Store    Persister      // optional
	Reports  *report.Writer // optional

	// AllowPermissive degrades missing template schemas to vacuous
	// validation instead of rejecting the sheet.
	AllowPermissive bool

	// DryRun, when set, receives one NDJSON line per valid document instead
	// of uploading.
	DryRun io.Writer

	Logger *slog.Logger
}

// Run processes every sheet in plan order. Per-row failures are accumulated
// in the summary; the returned error is reserved for run-fatal conditions
// (unreadable source, unknown definition, cancelled context).
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	summary := &RunSummary{
		RunID:   uuid.NewString(),
		Started: time.Now().UTC(),
	}
	logger = logger.With("run_id", summary.RunID)

	p.Resolver.Missing().Reset()
	p.restoreCache(logger)

	for _, sp := range p.Plan.Sheets {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		def, ok := catalog.Get(sp.Definition)
		if !ok {
			return summary, fmt.Errorf("sheet %q: no registered definition %q", sp.Sheet, sp.Definition)
		}

		sheetSummary, err := p.runSheet(ctx, logger, sp, def)
		if err != nil {
			return summary, err
		}
		summary.Sheets = append(summary.Sheets, *sheetSummary)
	}

	summary.Missing = p.Resolver.Missing().Len()
	summary.Finished = time.Now().UTC()

	if p.Reports != nil {
		paths, err := p.Reports.WriteMissing(summary.RunID, p.Resolver.Missing().Records())
		if err != nil {
			logger.Error("failed to write missing-reference report", "error", err)
		} else {
			summary.ReportPaths = paths
		}
	}

	logger.Info("run complete",
		"sheets", len(summary.Sheets),
		"missing_references", summary.Missing,
		"duration", summary.Finished.Sub(summary.Started).Round(time.Millisecond),
	)

	return summary, nil
}

func (p *Pipeline) runSheet(ctx context.Context, logger *slog.Logger, sp plan.SheetPlan, def catalog.SheetDefinition) (*SheetSummary, error) {
	sheetLogger := logger.With("sheet", sp.Sheet, "kind", def.Info.Kind)
	summary := &SheetSummary{Sheet: sp.Sheet, Kind: def.Info.Kind}

	sheet, err := p.Source.Sheet(sp.Sheet)
	if err != nil {
		// Source-read errors are fatal to the run attempt.
		return nil, fmt.Errorf("read sheet %q: %w", sp.Sheet, err)
	}
	summary.Rows = len(sheet.Rows)
	sheetLogger.Info("processing sheet", "rows", summary.Rows)

	levels := p.Schemas.FetchTemplateSchemas(ctx, sp.Templates)
	if reason := p.checkSchemas(levels); reason != "" {
		summary.Rejected = reason
		sheetLogger.Error("sheet rejected", "reason", reason)
		return summary, nil
	}

	var pending []uploader.Pending
	for i, row := range sheet.Rows {
		rowNum := sheet.RowNumber(i)

		doc, err := mapRow(def, row, sp.Templates, &catalog.MapEnv{
			Sheet: sp.Sheet,
			Row:   rowNum,
			Refs:  p.Resolver,
		})
		if err != nil {
			summary.Invalid++
			summary.Errors = append(summary.Errors, validate.RowFailure(rowNum, row.Stripped("name"), err).Errors...)
			continue
		}

		res := validate.Document(doc, rowNum, levels)
		if !res.Valid {
			summary.Invalid++
			summary.Errors = append(summary.Errors, res.Errors...)
			continue
		}

		pending = append(pending, uploader.Pending{Row: rowNum, Doc: doc})
	}

	if p.DryRun != nil {
		enc := json.NewEncoder(p.DryRun)
		for _, pd := range pending {
			if err := enc.Encode(pd.Doc); err != nil {
				return nil, fmt.Errorf("write dry-run output: %w", err)
			}
		}
		sheetLogger.Info("dry run, skipping upload", "valid_rows", len(pending), "invalid_rows", summary.Invalid)
		return summary, nil
	}

	batch, err := p.Uploader.UploadBatch(ctx, def.Info.Kind, pending)
	if err != nil {
		return nil, err
	}
	summary.Uploaded = batch.Uploaded
	summary.Skipped = batch.Skipped
	summary.Failed = batch.Failed

	p.persistCache(sheetLogger)

	sheetLogger.Info("sheet complete",
		"uploaded", summary.Uploaded,
		"skipped_unchanged", summary.Skipped,
		"failed", summary.Failed,
		"invalid", summary.Invalid,
	)

	return summary, nil
}

// checkSchemas enforces the fail-closed schema policy. Returns a rejection
// reason, or "" when the sheet may proceed.
func (p *Pipeline) checkSchemas(levels []cds.TemplateSchema) string {
	for _, l := range levels {
		if !l.Missing {
			continue
		}
		if !p.AllowPermissive {
			return fmt.Sprintf("schema for template %s unavailable", l.TemplateID)
		}
	}
	return ""
}

// mapRow invokes the sheet's mapper, converting panics into row errors so a
// misbehaving mapper never aborts the batch.
func mapRow(def catalog.SheetDefinition, row catalog.Row, templateIDs []string, env *catalog.MapEnv) (doc *catalog.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("mapper panic: %v", r)
		}
	}()
	return def.Map(row, templateIDs, env)
}

// restoreCache seeds the resolver from durable storage, falling back to an
// empty cache when the read fails.
func (p *Pipeline) restoreCache(logger *slog.Logger) {
	if p.Store == nil {
		return
	}
	snap, err := p.Store.Load()
	if err != nil {
		logger.Warn("cache unreadable, starting with empty cache", "error", err)
		return
	}
	p.Resolver.Cache().Restore(snap)
	logger.Info("identifier cache loaded", "entries", snap.Total, "updated_at", snap.UpdatedAt)
}

// persistCache writes the cache after a sheet's batch. Write failures are
// logged and the run continues without persistence.
func (p *Pipeline) persistCache(logger *slog.Logger) {
	if p.Store == nil {
		return
	}
	if err := p.Store.Save(p.Resolver.Cache().Snapshot()); err != nil {
		logger.Error("failed to persist identifier cache", "error", err)
	}
}
