package likes

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/marquee/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Apply(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func insertUser(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO users (email, password_hash, created_at) VALUES (?, 'x', CURRENT_TIMESTAMP)`, email)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

var faker = gofakeit.New(42)

func fakeMovie(id int64) Movie {
	return Movie{
		TMDBID:      id,
		Title:       faker.MovieName(),
		Overview:    faker.Sentence(12),
		ReleaseDate: fmt.Sprintf("%d-%02d-%02d", faker.Number(1970, 2024), faker.Number(1, 12), faker.Number(1, 28)),
		PosterPath:  "/" + faker.LetterN(10) + ".jpg",
		VoteAverage: faker.Float64Range(1, 10),
	}
}

func TestStore_LikeListUnlike(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()
	uid := insertUser(t, db, "a@b.co")

	ids := []int64{603, 27205, 155}
	for _, id := range ids {
		_, err := s.Like(ctx, uid, fakeMovie(id))
		require.NoError(t, err)
	}

	list, err := s.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, m := range list {
		assert.Equal(t, ids[i], m.TMDBID, "like order preserved")
		assert.False(t, m.LikedAt.IsZero())
	}

	liked, err := s.IsLiked(ctx, uid, 27205)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, s.Unlike(ctx, uid, 27205))
	assert.ErrorIs(t, s.Unlike(ctx, uid, 27205), ErrNotFound)

	n, err := s.Count(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_LikeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()
	uid := insertUser(t, db, "a@b.co")

	first := fakeMovie(1)
	_, err := s.Like(ctx, uid, first)
	require.NoError(t, err)
	_, err = s.Like(ctx, uid, fakeMovie(2))
	require.NoError(t, err)

	again := first
	again.Title = "Renamed"
	got, err := s.Like(ctx, uid, again)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	list, err := s.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].TMDBID)
}

func TestStore_Toggle(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()
	uid := insertUser(t, db, "a@b.co")
	m := fakeMovie(7)

	liked, err := s.Toggle(ctx, uid, m)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = s.Toggle(ctx, uid, m)
	require.NoError(t, err)
	assert.False(t, liked)

	n, err := s.Count(ctx, uid)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_UsersAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()
	alice := insertUser(t, db, "alice@b.co")
	bob := insertUser(t, db, "bob@b.co")

	_, err := s.Like(ctx, alice, fakeMovie(1))
	require.NoError(t, err)

	liked, err := s.IsLiked(ctx, bob, 1)
	require.NoError(t, err)
	assert.False(t, liked)

	list, err := s.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestStore_CanRecommendAndClear(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()
	uid := insertUser(t, db, "a@b.co")

	for i := int64(1); i <= 2; i++ {
		_, err := s.Like(ctx, uid, fakeMovie(i))
		require.NoError(t, err)
	}
	ok, err := s.CanRecommend(ctx, uid)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Like(ctx, uid, fakeMovie(3))
	require.NoError(t, err)
	ok, err = s.CanRecommend(ctx, uid)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := s.Clear(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	ok, err = s.CanRecommend(ctx, uid)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Preferences(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()
	uid := insertUser(t, db, "a@b.co")

	p, err := s.Preferences(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, Preferences{DarkMode: true, PreferredLanguage: "en"}, p)

	updated, err := s.UpdatePreferences(ctx, uid, Preferences{AutoPlay: true, ShowAdultContent: true})
	require.NoError(t, err)
	assert.Equal(t, "en", updated.PreferredLanguage)

	p, err = s.Preferences(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, Preferences{DarkMode: false, AutoPlay: true, ShowAdultContent: true, PreferredLanguage: "en"}, p)

	_, err = s.UpdatePreferences(ctx, uid, Preferences{DarkMode: true, PreferredLanguage: "fr"})
	require.NoError(t, err)
	p, err = s.Preferences(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "fr", p.PreferredLanguage)
	assert.True(t, p.DarkMode)
}

func TestMovie_Year(t *testing.T) {
	assert.Equal(t, 1999, Movie{ReleaseDate: "1999-03-31"}.Year())
	assert.Zero(t, Movie{}.Year())
	assert.Zero(t, Movie{ReleaseDate: "n/a?"}.Year())
}
