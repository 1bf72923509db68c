// Package uploader decides which validated documents are new or changed,
// uploads them with bounded concurrency, retries failed creates with the
// update verb, and keeps the identifier cache consistent while workers
// complete in arbitrary order.
//
// Per-document state machine:
//
//	Validated → {Cached-Skip | Upload-Pending}
//	Upload-Pending → {Uploaded-Final | Retry-Pending}
//	Retry-Pending → {Uploaded-Final | Failed-Final}
package uploader

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
	"github.com/Platform48/csv-migration-command-line-tool/internal/cds"
	"github.com/Platform48/csv-migration-command-line-tool/internal/resolve"
)

// DefaultWorkers is the default number of in-flight upload requests.
const DefaultWorkers = 10

// API is the slice of the core data service client the orchestrator needs.
type API interface {
	CreateComponent(ctx context.Context, componentID string, doc any) (*cds.UploadResponse, error)
	UpdateComponent(ctx context.Context, componentID string, doc any) (*cds.UploadResponse, error)
}

// DocState is the terminal state of one document after a batch.
type DocState string

const (
	StateCachedSkip    DocState = "cached-skip"
	StateUploaded      DocState = "uploaded"
	StateUploadedRetry DocState = "uploaded-retry" // succeeded via the update verb
	StateFailed        DocState = "failed"
)

// Outcome records what happened to one document.
type Outcome struct {
	Row         int
	Key         resolve.Key
	ComponentID string
	State       DocState
	Err         string // populated for StateFailed
}

// Pending pairs a validated document with its source row number.
type Pending struct {
	Row int
	Doc *catalog.Document
}

// BatchResult summarizes one sheet's upload batch.
type BatchResult struct {
	Uploaded int
	Skipped  int
	Failed   int
	Outcomes []Outcome
}

// Options tunes orchestrator behavior.
type Options struct {
	// Workers bounds in-flight requests (default 10).
	Workers int
	// Force uploads every document regardless of cache and hash state.
	Force bool
}

// Orchestrator uploads validated documents for one run.
type Orchestrator struct {
	api    API
	cache  *resolve.Cache
	opts   Options
	logger *slog.Logger
}

// New builds an orchestrator writing minted identifiers into cache.
func New(api API, cache *resolve.Cache, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{api: api, cache: cache, opts: opts, logger: logger}
}

// UploadBatch processes one sheet's validated documents. Documents are
// independent: a failure is recorded and does not abort siblings. The
// returned error is non-nil only when the context is cancelled.
func (o *Orchestrator) UploadBatch(ctx context.Context, kind catalog.Kind, docs []Pending) (*BatchResult, error) {
	result := &BatchResult{}
	var mu sync.Mutex

	record := func(out Outcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Outcomes = append(result.Outcomes, out)
		switch out.State {
		case StateCachedSkip:
			result.Skipped++
		case StateFailed:
			result.Failed++
		default:
			result.Uploaded++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)

	for _, p := range docs {
		key := resolve.NewKey(kind, p.Doc.DisplayName())

		hash, err := ContentHash(p.Doc)
		if err != nil {
			record(Outcome{Row: p.Row, Key: key, State: StateFailed, Err: err.Error()})
			continue
		}

		// Cached-Skip decision happens before dispatch: an identifier exists
		// and the content is unchanged, so the prior upload stands.
		if !o.opts.Force {
			if id, ok := o.cache.Lookup(key); ok {
				if cached, ok := o.cache.Hash(key); ok && cached == hash {
					o.logger.Debug("unchanged, skipping upload", "key", key.String(), "component_id", id)
					record(Outcome{Row: p.Row, Key: key, ComponentID: id, State: StateCachedSkip})
					continue
				}
			}
		}

		p := p
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			record(o.upload(gctx, key, hash, p))
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return result, err
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, nil
}

// upload performs the create, falling back to an update against the same
// deterministic resource id when the create is rejected.
func (o *Orchestrator) upload(ctx context.Context, key resolve.Key, hash string, p Pending) Outcome {
	componentID := cds.ComponentID(string(key.Kind), key.Name)

	res, createErr := o.api.CreateComponent(ctx, componentID, p.Doc)
	if createErr == nil {
		return o.succeed(key, hash, componentID, res, StateUploaded, p.Row)
	}

	var statusErr *cds.StatusError
	if !errors.As(createErr, &statusErr) {
		// Transport failure; the resource slot may not exist, so the update
		// verb has nothing to address.
		o.logger.Error("upload failed", "key", key.String(), "error", createErr)
		return Outcome{Row: p.Row, Key: key, ComponentID: componentID, State: StateFailed, Err: createErr.Error()}
	}

	o.logger.Warn("create rejected, retrying with update",
		"key", key.String(), "status", statusErr.Status)

	trimmed, err := stripImmutable(p.Doc)
	if err != nil {
		return Outcome{Row: p.Row, Key: key, ComponentID: componentID, State: StateFailed, Err: err.Error()}
	}

	res, updateErr := o.api.UpdateComponent(ctx, componentID, trimmed)
	if updateErr != nil {
		o.logger.Error("retry failed",
			"key", key.String(), "create_error", createErr, "update_error", updateErr)
		return Outcome{Row: p.Row, Key: key, ComponentID: componentID, State: StateFailed, Err: updateErr.Error()}
	}

	return o.succeed(key, hash, componentID, res, StateUploadedRetry, p.Row)
}

// succeed stores the minted identifier and content hash. The server's
// returned id wins over the pre-derived one.
func (o *Orchestrator) succeed(key resolve.Key, hash, componentID string, res *cds.UploadResponse, state DocState, row int) Outcome {
	id := componentID
	if res != nil && res.ID != "" {
		id = res.ID
	}
	o.cache.Store(key, id, hash)
	return Outcome{Row: row, Key: key, ComponentID: id, State: state}
}
