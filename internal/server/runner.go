// Package server runs the HTTP API and background maintenance.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/marquee/internal/loader"
	"github.com/vmunix/marquee/internal/respcache"
)

// Config for the server runner.
type Config struct {
	Addr            string
	PruneInterval   time.Duration // zero disables maintenance
	EventRetention  time.Duration // zero keeps events forever
	ShutdownTimeout time.Duration
}

// SessionPruner removes expired sessions.
type SessionPruner interface {
	PruneSessions(ctx context.Context) (int, error)
}

// EventPruner removes old persisted events.
type EventPruner interface {
	Prune(olderThan time.Duration) (int64, error)
}

// Deps are the components the runner serves and maintains. Only Handler is
// required.
type Deps struct {
	Handler  http.Handler
	Caches   map[string]*respcache.Cache
	Sessions SessionPruner
	Events   EventPruner
	Tracker  *loader.Tracker
}

// Runner manages the HTTP server and background maintenance.
type Runner struct {
	config Config
	deps   Deps
	logger *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, deps Deps, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Runner{
		config: cfg,
		deps:   deps,
		logger: logger,
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln alongside the maintenance loop.
// It blocks until ctx is canceled or a component fails, and returns nil
// after a clean shutdown.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.deps.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if r.deps.Tracker != nil {
			r.deps.Tracker.StopAll()
		}
		if err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if r.config.PruneInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(r.config.PruneInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					r.Maintain(gctx)
				}
			}
		})
	}

	return g.Wait()
}

// Maintain runs one maintenance pass: expired cache entries, expired
// sessions, and old events are removed. Failures are logged.
func (r *Runner) Maintain(ctx context.Context) {
	for name, c := range r.deps.Caches {
		if n := c.Prune(); n > 0 {
			r.logger.Debug("pruned cache", "cache", name, "removed", n)
		}
	}
	if r.deps.Sessions != nil {
		n, err := r.deps.Sessions.PruneSessions(ctx)
		if err != nil {
			r.logger.Warn("prune sessions failed", "error", err)
		} else if n > 0 {
			r.logger.Debug("pruned sessions", "removed", n)
		}
	}
	if r.deps.Events != nil && r.config.EventRetention > 0 {
		n, err := r.deps.Events.Prune(r.config.EventRetention)
		if err != nil {
			r.logger.Warn("prune events failed", "error", err)
		} else if n > 0 {
			r.logger.Debug("pruned events", "removed", n)
		}
	}
}
