// Package v1 implements the native REST API.
package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/vmunix/marquee/internal/events"
)

// Server is the v1 API server.
type Server struct {
	deps   ServerDeps
	logger *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDependency, err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{deps: deps, logger: logger.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Movies
	mux.HandleFunc("GET /api/v1/movies/popular", s.popularMovies)
	mux.HandleFunc("GET /api/v1/movies/top-rated", s.topRatedMovies)
	mux.HandleFunc("GET /api/v1/movies/trending", s.trendingMovies)
	mux.HandleFunc("GET /api/v1/movies/search", s.searchMovies)
	mux.HandleFunc("GET /api/v1/movies/lookup", s.lookupMovie)
	mux.HandleFunc("GET /api/v1/movies/{id}", s.getMovie)
	mux.HandleFunc("GET /api/v1/movies/{id}/similar", s.similarMovies)

	// TV
	mux.HandleFunc("GET /api/v1/tv/popular", s.popularTV)
	mux.HandleFunc("GET /api/v1/tv/top-rated", s.topRatedTV)
	mux.HandleFunc("GET /api/v1/tv/trending", s.trendingTV)
	mux.HandleFunc("GET /api/v1/tv/search", s.searchTV)
	mux.HandleFunc("GET /api/v1/tv/{id}", s.getSeries)

	// Accounts
	mux.HandleFunc("POST /api/v1/auth/register", s.register)
	mux.HandleFunc("POST /api/v1/auth/login", s.login)
	mux.HandleFunc("POST /api/v1/auth/logout", s.requireUser(s.logout))
	mux.HandleFunc("GET /api/v1/auth/me", s.requireUser(s.me))
	mux.HandleFunc("DELETE /api/v1/auth/me", s.requireUser(s.deactivate))

	// Likes & preferences
	mux.HandleFunc("GET /api/v1/likes", s.requireUser(s.listLikes))
	mux.HandleFunc("DELETE /api/v1/likes", s.requireUser(s.clearLikes))
	mux.HandleFunc("PUT /api/v1/likes/{id}", s.requireUser(s.likeMovie))
	mux.HandleFunc("DELETE /api/v1/likes/{id}", s.requireUser(s.unlikeMovie))
	mux.HandleFunc("POST /api/v1/likes/{id}/toggle", s.requireUser(s.toggleLike))
	mux.HandleFunc("GET /api/v1/preferences", s.requireUser(s.getPreferences))
	mux.HandleFunc("PUT /api/v1/preferences", s.requireUser(s.updatePreferences))

	// Recommendations
	mux.HandleFunc("GET /api/v1/recommendations", s.requireUser(s.requireRecommender(s.recommendations)))

	// System
	mux.HandleFunc("GET /api/v1/loading", s.getLoading)
	mux.HandleFunc("GET /api/v1/loading/stream", s.requireBus(s.streamLoading))
	mux.HandleFunc("GET /api/v1/cache", s.getCache)
	mux.HandleFunc("DELETE /api/v1/cache", s.clearCache)
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("GET /api/v1/events", s.listEvents)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, idStr)
	}
	return id, nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts a trimmed string from query string.
func queryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// publish emits e when a bus is configured. Failures are logged, not returned.
func (s *Server) publish(ctx context.Context, e events.Event) {
	if s.deps.Bus == nil {
		return
	}
	if err := s.deps.Bus.Publish(ctx, e); err != nil {
		s.logger.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}
