package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/marcus/hours/internal/serverdb"
)

// Server serves the /schedulingHours API over a ServerDB.
type Server struct {
	config      Config
	http        *http.Server
	store       *serverdb.ServerDB
	metrics     *Metrics
	rateLimiter *RateLimiter
	cors        corsPolicy
	validator   *requestValidator
	cancel      context.CancelFunc
	bg          sync.WaitGroup
}

// NewServer wires the handler chain. With cfg.SeedBuiltins, an empty store
// receives the built-in schedules first.
func NewServer(cfg Config, store *serverdb.ServerDB) (*Server, error) {
	v, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	s := &Server{
		config:      cfg,
		store:       store,
		metrics:     NewMetrics(),
		rateLimiter: NewRateLimiter(),
		cors:        newCORSPolicy(cfg.CORSAllowedOrigins),
		validator:   v,
	}

	if cfg.SeedBuiltins {
		n, err := SeedBuiltins(store)
		if err != nil {
			return nil, fmt.Errorf("seed built-in schedules: %w", err)
		}
		if n > 0 {
			slog.Info("seeded built-in schedules", "count", n)
		}
	}

	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start binds the listener and serves in the background. It also starts
// the rate limiter sweep and the hourly rate-limit event pruning.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.ListenAddr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.bg.Add(3)
	go func() {
		defer s.bg.Done()
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("serve", "err", err)
		}
	}()
	go func() {
		defer s.bg.Done()
		s.rateLimiter.Run(ctx, time.Minute)
	}()
	go func() {
		defer s.bg.Done()
		s.pruneLoop(ctx, time.Hour)
	}()
	return nil
}

// pruneLoop deletes rate-limit events older than the retention window
// every interval until ctx is done.
func (s *Server) pruneLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.pruneRateLimitEvents()
		}
	}
}

func (s *Server) pruneRateLimitEvents() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("prune rate limit events: panic", "panic", r)
		}
	}()
	n, err := s.store.CleanupRateLimitEvents(s.config.RateLimitEventRetention)
	switch {
	case err != nil:
		slog.Error("prune rate limit events", "err", err)
	case n > 0:
		slog.Info("pruned rate limit events", "count", n)
	}
}

// Shutdown stops the background loops and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	err := s.http.Shutdown(ctx)
	s.bg.Wait()
	return err
}

// Handler returns the server's routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metricz", s.handleMetrics)

	mux.HandleFunc("GET /schedulingHours", s.requireAuth(s.handleListSchedules))
	mux.HandleFunc("POST /schedulingHours", s.requireAuth(s.handleCreateSchedule))
	mux.HandleFunc("GET /schedulingHours/{id}", s.requireAuth(s.handleGetSchedule))
	mux.HandleFunc("PUT /schedulingHours/{id}", s.requireAuth(s.handleUpdateSchedule))
	mux.HandleFunc("DELETE /schedulingHours/{id}", s.requireAuth(s.handleDeleteSchedule))

	return chain(mux,
		requestContextMiddleware,
		recoveryMiddleware,
		metricsMiddleware(s.metrics),
		accessLogMiddleware,
		s.corsMiddleware,
		maxBytesMiddleware(1<<20),
		rateLimitMiddleware(s.rateLimiter, s.config.RateLimitRead, s.config.RateLimitWrite, s.store),
	)
}

// handleHealth reports 503 when the database does not answer a ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "detail": "db unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}
