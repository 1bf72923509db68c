// Package web provides the optional HTTP status server: a read-only JSON
// surface over the current run summary, the unresolved-reference set, and
// the identifier cache.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Platform48/csv-migration-command-line-tool/internal/pipeline"
	"github.com/Platform48/csv-migration-command-line-tool/internal/resolve"
)

// Server exposes run status over HTTP. All endpoints are read-only; the
// migration itself is driven from the CLI, not from here.
type Server struct {
	cache   *resolve.Cache
	missing *resolve.MissingSet
	logger  *slog.Logger
	router  *chi.Mux
	server  *http.Server

	mu      sync.RWMutex
	summary *pipeline.RunSummary
}

// NewServer creates a status server over the given cache and missing set.
func NewServer(cache *resolve.Cache, missing *resolve.MissingSet, timeout time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cache:   cache,
		missing: missing,
		logger:  logger,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware(timeout)
	s.setupRoutes()
	return s
}

// SetSummary publishes the latest run summary. Safe to call while the
// server is serving.
func (s *Server) SetSummary(summary *pipeline.RunSummary) {
	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
}

func (s *Server) setupMiddleware(timeout time.Duration) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(timeout))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/missing", s.handleMissing)
		r.Get("/cache/stats", s.handleCacheStats)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("status server listening", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("json encode error", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}
