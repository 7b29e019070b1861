package events

// Event types for catalog and account activity.
const (
	EventCacheCleared             = "cache.cleared"
	EventMovieLiked               = "movie.liked"
	EventMovieUnliked             = "movie.unliked"
	EventLikesCleared             = "likes.cleared"
	EventUserRegistered           = "user.registered"
	EventRecommendationsGenerated = "recommendations.generated"
)

// CacheCleared is emitted when a response cache is emptied on request.
type CacheCleared struct {
	BaseEvent
	Cache   string `json:"cache"` // "tmdb" or "recommendations"
	Entries int    `json:"entries"`
}

// MovieLiked is emitted when a user likes a title.
type MovieLiked struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	TMDBID int64  `json:"tmdb_id"`
	Title  string `json:"title"`
}

// MovieUnliked is emitted when a user removes a like.
type MovieUnliked struct {
	BaseEvent
	UserID int64 `json:"user_id"`
	TMDBID int64 `json:"tmdb_id"`
}

// LikesCleared is emitted when a user removes all likes.
type LikesCleared struct {
	BaseEvent
	UserID  int64 `json:"user_id"`
	Removed int   `json:"removed"`
}

// UserRegistered is emitted when an account is created.
type UserRegistered struct {
	BaseEvent
	UserID int64 `json:"user_id"`
}

// RecommendationsGenerated is emitted after a recommendation request.
type RecommendationsGenerated struct {
	BaseEvent
	UserID      int64 `json:"user_id"`
	Count       int   `json:"count"`
	AIGenerated bool  `json:"ai_generated"`
}
