package v1

//go:generate mockgen -destination=mocks/recommender.go -package=mocks github.com/vmunix/marquee/internal/api/v1 Recommender

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vmunix/marquee/internal/auth"
	"github.com/vmunix/marquee/internal/events"
	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/loader"
	"github.com/vmunix/marquee/internal/recommend"
	"github.com/vmunix/marquee/internal/respcache"
	"github.com/vmunix/marquee/internal/tmdb"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Catalog defines the TMDB reads the API exposes.
type Catalog interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.Page[tmdb.Movie], error)
	TopRatedMovies(ctx context.Context, page int) (*tmdb.Page[tmdb.Movie], error)
	TrendingMovies(ctx context.Context, window tmdb.TimeWindow) (*tmdb.Page[tmdb.Movie], error)
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.Movie], error)
	MovieDetails(ctx context.Context, id int64) (*tmdb.MovieDetails, error)
	SimilarMovies(ctx context.Context, id int64, page int) (*tmdb.Page[tmdb.Movie], error)
	FindMovieByTitle(ctx context.Context, query string) (*tmdb.Movie, error)
	PopularTV(ctx context.Context, page int) (*tmdb.Page[tmdb.Series], error)
	TopRatedTV(ctx context.Context, page int) (*tmdb.Page[tmdb.Series], error)
	TrendingTV(ctx context.Context, window tmdb.TimeWindow) (*tmdb.Page[tmdb.Series], error)
	SearchTV(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.Series], error)
	TVDetails(ctx context.Context, id int64) (*tmdb.SeriesDetails, error)
	ConfigStatus() tmdb.ConfigStatus
	TestConfiguration(ctx context.Context) (*tmdb.ConfigCheck, error)
}

// Recommender produces recommendations from a list of liked movies.
type Recommender interface {
	Recommend(ctx context.Context, liked []likes.Movie) (*recommend.Response, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Catalog Catalog
	Auth    *auth.Store
	Likes   *likes.Store
	Tracker *loader.Tracker

	// Optional dependencies (nil if not configured)
	Recommender Recommender
	Bus         *events.Bus                 // Optional: publishes activity and feeds the loading stream
	EventLog    *events.EventLog            // Optional: for event audit log
	Caches      map[string]*respcache.Cache // Optional: named caches for diagnostics
	Logger      *slog.Logger
	Version     string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.New("catalog is required")
	}
	if d.Auth == nil {
		return errors.New("auth store is required")
	}
	if d.Likes == nil {
		return errors.New("likes store is required")
	}
	if d.Tracker == nil {
		return errors.New("operation tracker is required")
	}
	return nil
}
