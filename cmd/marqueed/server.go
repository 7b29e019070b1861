package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/marquee/internal/api/v1"
	"github.com/vmunix/marquee/internal/ai"
	"github.com/vmunix/marquee/internal/auth"
	"github.com/vmunix/marquee/internal/config"
	"github.com/vmunix/marquee/internal/events"
	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/loader"
	"github.com/vmunix/marquee/internal/migrations"
	"github.com/vmunix/marquee/internal/recommend"
	"github.com/vmunix/marquee/internal/respcache"
	"github.com/vmunix/marquee/internal/server"
	"github.com/vmunix/marquee/internal/tmdb"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

// Flush lets the loading stream push events through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// openDB opens the SQLite database and applies migrations.
func openDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// newProvider returns the configured LLM backend, or nil when AI is off.
func newProvider(cfg config.AIConfig, logger *slog.Logger) ai.Provider {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.Provider {
	case "ollama":
		var url, model string
		if cfg.Ollama != nil {
			url, model = cfg.Ollama.URL, cfg.Ollama.Model
		}
		return ai.NewOllamaProvider(url, model, logger)
	default:
		if cfg.Gemini == nil || cfg.Gemini.APIKey == "" {
			return nil
		}
		return ai.NewGeminiProvider(cfg.Gemini.APIKey,
			ai.WithGeminiModel(cfg.Gemini.Model),
			ai.WithGeminiLogger(logger),
		)
	}
}

// app is every long-lived component the daemon builds from config.
type app struct {
	handler  http.Handler
	tracker  *loader.Tracker
	bus      *events.Bus
	eventLog *events.EventLog
	auth     *auth.Store
	caches   map[string]*respcache.Cache
}

func build(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*app, error) {
	// === Events & loading state ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "events"))
	observer := events.NewTrackerObserver(bus)
	tracker := loader.New(loader.WithObserver(observer))
	observer.Attach(tracker)

	// === Catalog ===
	catalog, err := tmdb.NewClient(
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithAccessToken(cfg.TMDB.AccessToken),
		tmdb.WithAPIKey(cfg.TMDB.APIKey),
		tmdb.WithCacheTTL(cfg.TMDB.CacheTTL),
		tmdb.WithHTTPClient(&http.Client{Timeout: cfg.TMDB.Timeout}),
		tmdb.WithTracker(tracker),
		tmdb.WithLogger(logger.With("component", "tmdb")),
	)
	if err != nil {
		return nil, fmt.Errorf("tmdb: %w", err)
	}

	// === Stores ===
	authStore := auth.NewStore(db,
		auth.WithSessionTTL(cfg.Auth.SessionTTL),
		auth.WithLockout(cfg.Auth.MaxFailedLogins, cfg.Auth.Lockout),
		auth.WithBcryptCost(cfg.Auth.BcryptCost),
		auth.WithLogger(logger.With("component", "auth")),
	)
	likesStore := likes.NewStore(db)

	// === Recommendations (optional provider) ===
	recCache, err := respcache.New(cfg.AI.CacheTTL,
		respcache.WithLogger(logger.With("component", "reccache")),
		respcache.WithFetchTimeout(recommend.FetchTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("recommendation cache: %w", err)
	}
	recOpts := []recommend.Option{
		recommend.WithCache(recCache),
		recommend.WithTracker(tracker),
		recommend.WithLogger(logger.With("component", "recommend")),
	}
	if provider := newProvider(cfg.AI, logger.With("component", "ai")); provider != nil {
		recOpts = append(recOpts, recommend.WithProvider(provider))
	}
	recommender, err := recommend.New(catalog, recOpts...)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	caches := map[string]*respcache.Cache{
		"tmdb":            catalog.Cache(),
		"recommendations": recCache,
	}

	// === HTTP ===
	apiV1, err := v1.New(v1.ServerDeps{
		Catalog:     catalog,
		Auth:        authStore,
		Likes:       likesStore,
		Tracker:     tracker,
		Recommender: recommender,
		Bus:         bus,
		EventLog:    eventLog,
		Caches:      caches,
		Logger:      logger,
		Version:     version,
	})
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	mux := http.NewServeMux()
	apiV1.RegisterRoutes(mux)

	return &app{
		handler:  logRequests(mux, logger.With("component", "http")),
		tracker:  tracker,
		bus:      bus,
		eventLog: eventLog,
		auth:     authStore,
		caches:   caches,
	}, nil
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	a, err := build(cfg, db, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.bus.Close() }()

	logger.Info("server starting",
		"addr", cfg.Server.Addr(),
		"database", cfg.Database.Path,
		"ai", cfg.AI.Enabled,
		"ai_provider", cfg.AI.Provider,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := server.NewRunner(server.Config{
		Addr:           cfg.Server.Addr(),
		PruneInterval:  cfg.Cache.PruneInterval,
		EventRetention: cfg.Cache.EventRetention,
	}, server.Deps{
		Handler:  a.handler,
		Caches:   a.caches,
		Sessions: a.auth,
		Events:   a.eventLog,
		Tracker:  a.tracker,
	}, logger.With("component", "server"))

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
