// Package server exposes the router over HTTP: the chat endpoint, breaker
// health, routing stats and the Prometheus exposition.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/routing"
)

// Router is the coordinator surface the server depends on.
type Router interface {
	RouteChat(ctx context.Context, req *routing.RouteRequest) (*routing.ChatResponse, error)
	Stats() *routing.Stats
}

// HealthReporter supplies breaker state for the health endpoint.
type HealthReporter interface {
	SnapshotJSON() map[string]any
}

// Options configures the server.
type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// MetricsHandler, when non-nil, is mounted at MetricsPath.
	MetricsHandler http.Handler
	MetricsPath    string

	// DefaultPriority applies when a chat request names no priority.
	DefaultPriority routing.Priority
}

// Server is the HTTP front end.
type Server struct {
	router  Router
	health  HealthReporter
	opts    Options
	logger  *slog.Logger
	httpSrv *http.Server
}

// New builds the server.
func New(router Router, health HealthReporter, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.DefaultPriority == "" {
		opts.DefaultPriority = routing.PriorityCost
	}

	s := &Server{router: router, health: health, opts: opts, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/stats", s.handleStats)
	if opts.MetricsHandler != nil {
		mux.Handle("GET "+opts.MetricsPath, opts.MetricsHandler)
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler:      mux,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }
