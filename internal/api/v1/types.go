package v1

import (
	"time"

	"github.com/vmunix/marquee/internal/auth"
	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/loader"
	"github.com/vmunix/marquee/internal/respcache"
	"github.com/vmunix/marquee/internal/tmdb"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is returned by register and login.
type sessionResponse struct {
	User      auth.User `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// likeRequest optionally carries the movie snapshot. Without a title the
// server fetches it from TMDB.
type likeRequest struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// listLikesResponse is the response for GET /likes.
type listLikesResponse struct {
	Items        []likes.Movie `json:"items"`
	Total        int           `json:"total"`
	CanRecommend bool          `json:"can_recommend"`
}

// toggleLikeResponse reports the liked state after a toggle.
type toggleLikeResponse struct {
	TMDBID int64 `json:"tmdb_id"`
	Liked  bool  `json:"liked"`
}

type clearLikesResponse struct {
	Removed int `json:"removed"`
}

// loadingResponse is the response for GET /loading.
type loadingResponse struct {
	Active     bool               `json:"active"`
	Count      int                `json:"count"`
	Current    *loader.Operation  `json:"current,omitempty"`
	Operations []loader.Operation `json:"operations"`
}

// cacheResponse reports each named cache.
type cacheResponse struct {
	Caches map[string]cacheInfo `json:"caches"`
}

type cacheInfo struct {
	respcache.Stats
	TTLSeconds float64 `json:"ttl_seconds"`
}

type clearCacheResponse struct {
	Cleared map[string]int `json:"cleared"`
}

// statusResponse is the response for GET /status.
type statusResponse struct {
	Status          string            `json:"status"`
	Version         string            `json:"version,omitempty"`
	TMDB            tmdb.ConfigStatus `json:"tmdb"`
	TMDBCheck       *tmdb.ConfigCheck `json:"tmdb_check,omitempty"`
	TMDBError       string            `json:"tmdb_error,omitempty"`
	Recommendations bool              `json:"recommendations"`
	ActiveLoads     int               `json:"active_loads"`
}

// EventResponse is the API representation of a persisted event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Payload    any    `json:"payload,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}
