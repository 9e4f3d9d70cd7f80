// Package server exposes an orbmatch Engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hupe1980/orbmatch"
	"github.com/hupe1980/orbmatch/catalog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes caps the size of a match request body.
const DefaultMaxBodyBytes = 32 << 20

// Engine is the part of *orbmatch.Engine the server uses.
type Engine interface {
	MatchEncoded(ctx context.Context, category string, blobs []string, opts ...orbmatch.MatchOption) ([]orbmatch.BatchResult, error)
	Categories() []catalog.Status
}

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Logger receives request logs. Nil discards them.
	Logger *slog.Logger
	// Metrics is exported at /metrics. Nil creates a private registry.
	Metrics *Metrics
	// MaxBodyBytes caps request bodies. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server holds the HTTP interface and the matching engine.
type Server struct {
	engine       Engine
	logger       *slog.Logger
	metrics      *Metrics
	maxBodyBytes int64

	ready     chan struct{}
	readyOnce sync.Once

	handler    http.Handler
	httpServer *http.Server
}

// New creates a server for eng. The server reports not ready until
// MarkReady is called.
func New(eng Engine, cfg Config) *Server {
	s := &Server{
		engine:       eng,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		maxBodyBytes: cfg.MaxBodyBytes,
		ready:        make(chan struct{}),
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /match/{category...}", s.handleMatch)
	mux.HandleFunc("GET /categories", s.handleCategories)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.gatherer, promhttp.HandlerOpts{}))

	// Recovery must be outer-most to catch everything.
	var handler http.Handler = mux
	handler = s.logging(handler)
	handler = s.requestID(handler)
	handler = s.recovery(handler)
	s.handler = handler

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MarkReady flips /readyz to 200. Only the first call has an effect.
func (s *Server) MarkReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Ready is closed once the server is marked ready.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Run listens on the configured address until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server. It does not close the engine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
