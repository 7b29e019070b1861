package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/vmunix/marquee/internal/tmdb"
)

// writeCatalogError maps a TMDB client error to a status and user-facing text.
func writeCatalogError(w http.ResponseWriter, err error) {
	msg := tmdb.UserMessage(err)
	var apiErr *tmdb.APIError
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", msg)
	case errors.Is(err, tmdb.ErrNoCredentials):
		writeError(w, http.StatusServiceUnavailable, "TMDB_NOT_CONFIGURED", msg)
	case errors.Is(err, tmdb.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, "INVALID_WINDOW", msg)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "TMDB_TIMEOUT", msg)
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		writeError(w, http.StatusTooManyRequests, "TMDB_RATE_LIMITED", msg)
	default:
		writeError(w, http.StatusBadGateway, "TMDB_ERROR", msg)
	}
}

// serve writes the result of a catalog read.
func serve[T any](w http.ResponseWriter, v *T, err error) {
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func window(r *http.Request) tmdb.TimeWindow {
	if w := queryString(r, "window"); w != "" {
		return tmdb.TimeWindow(w)
	}
	return tmdb.Day
}

func (s *Server) popularMovies(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.PopularMovies(r.Context(), queryInt(r, "page", 1))
	serve(w, page, err)
}

func (s *Server) topRatedMovies(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.TopRatedMovies(r.Context(), queryInt(r, "page", 1))
	serve(w, page, err)
}

func (s *Server) trendingMovies(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.TrendingMovies(r.Context(), window(r))
	serve(w, page, err)
}

func (s *Server) searchMovies(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.SearchMovies(r.Context(), queryString(r, "q"), queryInt(r, "page", 1))
	serve(w, page, err)
}

func (s *Server) lookupMovie(w http.ResponseWriter, r *http.Request) {
	q := queryString(r, "title")
	if q == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "title is required")
		return
	}
	movie, err := s.deps.Catalog.FindMovieByTitle(r.Context(), q)
	serve(w, movie, err)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	movie, err := s.deps.Catalog.MovieDetails(r.Context(), id)
	serve(w, movie, err)
}

func (s *Server) similarMovies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	page, err := s.deps.Catalog.SimilarMovies(r.Context(), id, queryInt(r, "page", 1))
	serve(w, page, err)
}

func (s *Server) popularTV(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.PopularTV(r.Context(), queryInt(r, "page", 1))
	serve(w, page, err)
}

func (s *Server) topRatedTV(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.TopRatedTV(r.Context(), queryInt(r, "page", 1))
	serve(w, page, err)
}

func (s *Server) trendingTV(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.TrendingTV(r.Context(), window(r))
	serve(w, page, err)
}

func (s *Server) searchTV(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.SearchTV(r.Context(), queryString(r, "q"), queryInt(r, "page", 1))
	serve(w, page, err)
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	series, err := s.deps.Catalog.TVDetails(r.Context(), id)
	serve(w, series, err)
}
