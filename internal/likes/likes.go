// Package likes stores each user's liked movies and display preferences.
package likes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// MinForRecommendations is the number of likes needed before AI
// recommendations are offered.
const MinForRecommendations = 3

// ErrNotFound indicates the requested entity doesn't exist.
var ErrNotFound = errors.New("not found")

// Movie is the snapshot of a liked title kept alongside the like.
type Movie struct {
	TMDBID      int64     `json:"tmdb_id"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview"`
	ReleaseDate string    `json:"release_date"`
	PosterPath  string    `json:"poster_path"`
	VoteAverage float64   `json:"vote_average"`
	LikedAt     time.Time `json:"liked_at"`
}

// Year extracts the year from ReleaseDate, or 0.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// Preferences are per-user display settings.
type Preferences struct {
	DarkMode          bool   `json:"dark_mode"`
	AutoPlay          bool   `json:"auto_play"`
	ShowAdultContent  bool   `json:"show_adult_content"`
	PreferredLanguage string `json:"preferred_language"`
}

// DefaultPreferences is what a user sees before changing anything.
func DefaultPreferences() Preferences {
	return Preferences{DarkMode: true, PreferredLanguage: "en"}
}

// Store provides access to likes and preferences.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a likes store over a migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Like records m as liked by userID. Liking twice keeps the original
// position and refreshes the stored metadata.
func (s *Store) Like(ctx context.Context, userID int64, m Movie) (Movie, error) {
	m.LikedAt = s.now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO likes (user_id, tmdb_id, title, overview, release_date, poster_path, vote_average, liked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, tmdb_id) DO UPDATE SET
			title = excluded.title,
			overview = excluded.overview,
			release_date = excluded.release_date,
			poster_path = excluded.poster_path,
			vote_average = excluded.vote_average`,
		userID, m.TMDBID, m.Title, m.Overview, m.ReleaseDate, m.PosterPath, m.VoteAverage, m.LikedAt,
	)
	if err != nil {
		return Movie{}, fmt.Errorf("insert like: %w", err)
	}
	return s.get(ctx, userID, m.TMDBID)
}

// Unlike removes a like. Returns ErrNotFound if the title was not liked.
func (s *Store) Unlike(ctx context.Context, userID, tmdbID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle likes m if it is not liked and unlikes it otherwise. It reports
// whether the title is liked afterwards.
func (s *Store) Toggle(ctx context.Context, userID int64, m Movie) (bool, error) {
	liked, err := s.IsLiked(ctx, userID, m.TMDBID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.Unlike(ctx, userID, m.TMDBID); err != nil && !errors.Is(err, ErrNotFound) {
			return false, err
		}
		return false, nil
	}
	if _, err := s.Like(ctx, userID, m); err != nil {
		return false, err
	}
	return true, nil
}

// IsLiked reports whether userID likes tmdbID.
func (s *Store) IsLiked(ctx context.Context, userID, tmdbID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return n > 0, nil
}

func (s *Store) get(ctx context.Context, userID, tmdbID int64) (Movie, error) {
	var m Movie
	err := s.db.QueryRowContext(ctx, `
		SELECT tmdb_id, title, overview, release_date, poster_path, vote_average, liked_at
		FROM likes WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID,
	).Scan(&m.TMDBID, &m.Title, &m.Overview, &m.ReleaseDate, &m.PosterPath, &m.VoteAverage, &m.LikedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Movie{}, ErrNotFound
	}
	if err != nil {
		return Movie{}, fmt.Errorf("get like %d: %w", tmdbID, err)
	}
	return m, nil
}

// List returns userID's likes, oldest first.
func (s *Store) List(ctx context.Context, userID int64) ([]Movie, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tmdb_id, title, overview, release_date, poster_path, vote_average, liked_at
		FROM likes WHERE user_id = ?
		ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Movie{}
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.TMDBID, &m.Title, &m.Overview, &m.ReleaseDate, &m.PosterPath, &m.VoteAverage, &m.LikedAt); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate likes: %w", err)
	}
	return out, nil
}

// Count returns how many titles userID likes.
func (s *Store) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

// Clear removes all of userID's likes.
func (s *Store) Clear(ctx context.Context, userID int64) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear likes: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// CanRecommend reports whether userID has enough likes for recommendations.
func (s *Store) CanRecommend(ctx context.Context, userID int64) (bool, error) {
	n, err := s.Count(ctx, userID)
	if err != nil {
		return false, err
	}
	return n >= MinForRecommendations, nil
}

// Preferences returns userID's settings, or the defaults if none were saved.
func (s *Store) Preferences(ctx context.Context, userID int64) (Preferences, error) {
	var p Preferences
	err := s.db.QueryRowContext(ctx, `
		SELECT dark_mode, auto_play, show_adult_content, preferred_language
		FROM preferences WHERE user_id = ?`, userID,
	).Scan(&p.DarkMode, &p.AutoPlay, &p.ShowAdultContent, &p.PreferredLanguage)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

// UpdatePreferences replaces userID's settings. An empty language resets to "en".
func (s *Store) UpdatePreferences(ctx context.Context, userID int64, p Preferences) (Preferences, error) {
	if p.PreferredLanguage == "" {
		p.PreferredLanguage = DefaultPreferences().PreferredLanguage
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, dark_mode, auto_play, show_adult_content, preferred_language)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			dark_mode = excluded.dark_mode,
			auto_play = excluded.auto_play,
			show_adult_content = excluded.show_adult_content,
			preferred_language = excluded.preferred_language`,
		userID, p.DarkMode, p.AutoPlay, p.ShowAdultContent, p.PreferredLanguage,
	)
	if err != nil {
		return Preferences{}, fmt.Errorf("update preferences: %w", err)
	}
	return p, nil
}
