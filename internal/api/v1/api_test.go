package v1

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/marquee/internal/api/v1/mocks"
	"github.com/vmunix/marquee/internal/auth"
	"github.com/vmunix/marquee/internal/events"
	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/recommend"
	"github.com/vmunix/marquee/internal/tmdb"
)

func TestNew_MissingDependency(t *testing.T) {
	_, err := New(ServerDeps{})
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestPopularMovies(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/movies/popular", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	page := decode[tmdb.Page[tmdb.Movie]](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Fight Club", page.Results[0].Title)
	assert.Equal(t, 1, env.catalog.Cache().Len(), "response cached")
}

func TestTrendingMovies_DefaultsToDay(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/movies/trending", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	page := decode[tmdb.Page[tmdb.Movie]](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "day", page.Results[0].Overview)
}

func TestTrendingMovies_InvalidWindow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/movies/trending?window=month", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_WINDOW", decode[errorResponse](t, w).Code)
}

func TestGetMovie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/movies/550", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	details := decode[tmdb.MovieDetails](t, w)
	assert.Equal(t, "Fight Club", details.Title)
	assert.Equal(t, 139, details.Runtime)
}

func TestGetMovie_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/movies/999", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode[errorResponse](t, w)
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Equal(t, "The resource you requested could not be found.", resp.Error)
}

func TestGetMovie_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/movies/abc", "/api/v1/movies/-4"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "INVALID_ID", decode[errorResponse](t, w).Code, path)
	}
}

func TestLookupMovie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/movies/lookup?title=Heat+1995", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(949), decode[tmdb.Movie](t, w).ID)

	w = env.do(t, http.MethodGet, "/api/v1/movies/lookup", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSeries(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/tv/1399", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	series := decode[tmdb.SeriesDetails](t, w)
	assert.Equal(t, "Game of Thrones", series.Name)
	assert.Equal(t, 8, series.NumberOfSeasons)
}

func TestCatalog_NotConfigured(t *testing.T) {
	unconfigured, err := tmdb.NewClient()
	require.NoError(t, err)
	env := newTestEnv(t, func(d *ServerDeps) { d.Catalog = unconfigured })

	w := env.do(t, http.MethodGet, "/api/v1/movies/popular", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "TMDB_NOT_CONFIGURED", decode[errorResponse](t, w).Code)
}

func TestAuth_RegisterLoginMeLogout(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.signUp(t, "Ada@Example.com")
	assert.NotEmpty(t, token)

	w := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[auth.User](t, w)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, "ada@example.com", me.Email)

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: "ada@example.com", Password: "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[sessionResponse](t, w).Token
	assert.NotEqual(t, token, second)

	w = env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, string(auth.CodeRequiresRecentLogin), decode[errorResponse](t, w).Code)

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", second, nil)
	assert.Equal(t, http.StatusOK, w.Code, "other sessions survive logout")
}

func TestAuth_RegisterPublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	ch := env.bus.Subscribe(events.EventUserRegistered, 1)

	_, id := env.signUp(t, "grace@example.com")

	select {
	case e := <-ch:
		assert.Equal(t, id, e.(*events.UserRegistered).UserID)
	case <-time.After(time.Second):
		t.Fatal("no user.registered event")
	}
}

func TestAuth_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "taken@example.com")

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   auth.Code
	}{
		{"duplicate email", "/api/v1/auth/register", registerRequest{Email: "taken@example.com", Password: "secret123"}, http.StatusConflict, auth.CodeEmailInUse},
		{"weak password", "/api/v1/auth/register", registerRequest{Email: "new@example.com", Password: "abc"}, http.StatusBadRequest, auth.CodeWeakPassword},
		{"invalid email", "/api/v1/auth/register", registerRequest{Email: "nope", Password: "secret123"}, http.StatusBadRequest, auth.CodeInvalidEmail},
		{"unknown user", "/api/v1/auth/login", loginRequest{Email: "ghost@example.com", Password: "secret123"}, http.StatusUnauthorized, auth.CodeUserNotFound},
		{"wrong password", "/api/v1/auth/login", loginRequest{Email: "taken@example.com", Password: "wrong-pass"}, http.StatusUnauthorized, auth.CodeWrongPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.status, w.Code)
			resp := decode[errorResponse](t, w)
			assert.Equal(t, string(tt.code), resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAuth_DuplicateEmailMessage(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "taken@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", registerRequest{Email: "taken@example.com", Password: "secret123"})

	assert.Equal(t, auth.CodeEmailInUse.Message(), decode[errorResponse](t, w).Error)
}

func TestRequireUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/likes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decode[errorResponse](t, w).Code)

	w = env.do(t, http.MethodGet, "/api/v1/likes", "not-a-session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_Disabled(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.signUp(t, "ada@example.com")
	require.NoError(t, env.auth.SetDisabled(context.Background(), id, true))

	w := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)

	// Disabling drops sessions, so the token is simply unknown now.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikes_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "ada@example.com")

	w := env.do(t, http.MethodPut, "/api/v1/likes/603", token, likeRequest{Title: "The Matrix", ReleaseDate: "1999-03-30"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "The Matrix", decode[likes.Movie](t, w).Title)

	// No body: metadata comes from TMDB.
	w = env.do(t, http.MethodPut, "/api/v1/likes/550", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	liked := decode[likes.Movie](t, w)
	assert.Equal(t, "Fight Club", liked.Title)
	assert.InDelta(t, 8.4, liked.VoteAverage, 0.001)

	w = env.do(t, http.MethodGet, "/api/v1/likes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[listLikesResponse](t, w)
	assert.Equal(t, 2, list.Total)
	assert.False(t, list.CanRecommend)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(603), list.Items[0].TMDBID)
	assert.Equal(t, int64(550), list.Items[1].TMDBID)

	w = env.do(t, http.MethodDelete, "/api/v1/likes/603", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/api/v1/likes/603", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/likes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[clearLikesResponse](t, w).Removed)
}

func TestLikes_Toggle(t *testing.T) {
	env := newTestEnv(t)
	token, uid := env.signUp(t, "ada@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/likes/550/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, toggleLikeResponse{TMDBID: 550, Liked: true}, decode[toggleLikeResponse](t, w))

	liked, err := env.likes.List(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "Fight Club", liked[0].Title)

	w = env.do(t, http.MethodPost, "/api/v1/likes/550/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[toggleLikeResponse](t, w).Liked)

	w = env.do(t, http.MethodPost, "/api/v1/likes/999/toggle", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/likes", token, nil)
	assert.Zero(t, decode[listLikesResponse](t, w).Total)
}

func TestLikes_CanRecommendAfterThreeLikes(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "ada@example.com")

	for _, id := range []string{"603", "27205", "157336"} {
		w := env.do(t, http.MethodPut, "/api/v1/likes/"+id, token, likeRequest{Title: "Movie " + id})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/api/v1/likes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[listLikesResponse](t, w)
	assert.Equal(t, 3, list.Total)
	assert.True(t, list.CanRecommend)
}

func TestAuth_Deactivate(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "ada@example.com")

	w := env.do(t, http.MethodDelete, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: "ada@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decode[errorResponse](t, w)
	assert.Equal(t, string(auth.CodeUserDisabled), resp.Code)
	assert.Equal(t, auth.CodeUserDisabled.Message(), resp.Error)
}

func TestLikes_UnknownMovie(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "ada@example.com")

	w := env.do(t, http.MethodPut, "/api/v1/likes/999", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikes_PerUser(t *testing.T) {
	env := newTestEnv(t)
	ada, _ := env.signUp(t, "ada@example.com")
	bob, _ := env.signUp(t, "bob@example.com")

	env.do(t, http.MethodPut, "/api/v1/likes/603", ada, likeRequest{Title: "The Matrix"})

	w := env.do(t, http.MethodGet, "/api/v1/likes", bob, nil)
	assert.Zero(t, decode[listLikesResponse](t, w).Total)
}

func TestPreferences(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "ada@example.com")

	w := env.do(t, http.MethodGet, "/api/v1/preferences", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, likes.DefaultPreferences(), decode[likes.Preferences](t, w))

	w = env.do(t, http.MethodPut, "/api/v1/preferences", token, map[string]any{"auto_play": true})
	require.Equal(t, http.StatusOK, w.Code)
	prefs := decode[likes.Preferences](t, w)
	assert.True(t, prefs.AutoPlay)
	assert.True(t, prefs.DarkMode, "unchanged fields keep their stored value")
	assert.Equal(t, "en", prefs.PreferredLanguage)

	w = env.do(t, http.MethodGet, "/api/v1/preferences", token, nil)
	assert.Equal(t, prefs, decode[likes.Preferences](t, w))
}

func TestRecommendations(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockRecommender(ctrl)
	env := newTestEnv(t, func(d *ServerDeps) { d.Recommender = rec })
	token, _ := env.signUp(t, "ada@example.com")
	env.do(t, http.MethodPut, "/api/v1/likes/603", token, likeRequest{Title: "The Matrix"})

	rec.EXPECT().
		Recommend(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, liked []likes.Movie) (*recommend.Response, error) {
			require.Len(t, liked, 1)
			assert.Equal(t, "The Matrix", liked[0].Title)
			return &recommend.Response{
				Success:         true,
				Recommendations: []recommend.Recommendation{{Movie: tmdb.Movie{ID: 604, Title: "The Matrix Reloaded"}, Reason: "Sequel", Confidence: 8, AIGenerated: true}},
				Explanation:     "Because you like The Matrix",
			}, nil
		})
	ch := env.bus.Subscribe(events.EventRecommendationsGenerated, 1)

	w := env.do(t, http.MethodGet, "/api/v1/recommendations", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[recommend.Response](t, w)
	assert.True(t, resp.Success)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "The Matrix Reloaded", resp.Recommendations[0].Movie.Title)

	select {
	case e := <-ch:
		got := e.(*events.RecommendationsGenerated)
		assert.Equal(t, 1, got.Count)
		assert.True(t, got.AIGenerated)
	case <-time.After(time.Second):
		t.Fatal("no recommendations.generated event")
	}
}

func TestRecommendations_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockRecommender(ctrl)
	env := newTestEnv(t, func(d *ServerDeps) { d.Recommender = rec })
	token, _ := env.signUp(t, "ada@example.com")

	rec.EXPECT().Recommend(gomock.Any(), gomock.Any()).Return(nil, context.Canceled)

	w := env.do(t, http.MethodGet, "/api/v1/recommendations", token, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "RECOMMEND_ERROR", decode[errorResponse](t, w).Code)
}

func TestRecommendations_NotConfigured(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "ada@example.com")

	w := env.do(t, http.MethodGet, "/api/v1/recommendations", token, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLoading(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/loading", "", nil)
	idle := decode[loadingResponse](t, w)
	assert.False(t, idle.Active)
	assert.Nil(t, idle.Current)
	assert.Empty(t, idle.Operations)

	env.tracker.Start("a", "Loading popular movies...")
	env.tracker.Start("b", "Searching movies...")
	defer env.tracker.StopAll()

	w = env.do(t, http.MethodGet, "/api/v1/loading", "", nil)
	busy := decode[loadingResponse](t, w)
	assert.True(t, busy.Active)
	assert.Equal(t, 2, busy.Count)
	require.NotNil(t, busy.Current)
	assert.Equal(t, "Searching movies...", busy.Current.Label)
}

func TestCache_StatsAndClear(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/v1/movies/popular", "", nil)

	w := env.do(t, http.MethodGet, "/api/v1/cache", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[cacheResponse](t, w)
	assert.Equal(t, 1, stats.Caches["tmdb"].Size)
	assert.Equal(t, []string{"popular-1"}, stats.Caches["tmdb"].Keys)
	assert.Zero(t, stats.Caches["recommendations"].Size)

	ch := env.bus.Subscribe(events.EventCacheCleared, 4)
	w = env.do(t, http.MethodDelete, "/api/v1/cache?name=tmdb", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]int{"tmdb": 1}, decode[clearCacheResponse](t, w).Cleared)
	assert.Zero(t, env.catalog.Cache().Len())

	select {
	case e := <-ch:
		assert.Equal(t, "tmdb", e.(*events.CacheCleared).Cache)
	case <-time.After(time.Second):
		t.Fatal("no cache.cleared event")
	}

	w = env.do(t, http.MethodDelete, "/api/v1/cache?name=bogus", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/cache", "", nil)
	assert.Len(t, decode[clearCacheResponse](t, w).Cleared, 2)
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/status?check=true", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[statusResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.True(t, resp.TMDB.Valid)
	require.NotNil(t, resp.TMDBCheck)
	assert.Equal(t, "TMDB API configuration is working", resp.TMDBCheck.Message)
	assert.False(t, resp.Recommendations)
}

func TestStatus_Degraded(t *testing.T) {
	unconfigured, err := tmdb.NewClient()
	require.NoError(t, err)
	env := newTestEnv(t, func(d *ServerDeps) { d.Catalog = unconfigured })

	w := env.do(t, http.MethodGet, "/api/v1/status", "", nil)

	resp := decode[statusResponse](t, w)
	assert.Equal(t, "degraded", resp.Status)
	assert.Contains(t, resp.TMDB.Errors, "missing both TMDB api key and access token")
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "ada@example.com")
	env.do(t, http.MethodPut, "/api/v1/likes/603", token, likeRequest{Title: "The Matrix"})

	w := env.do(t, http.MethodGet, "/api/v1/events?limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[listEventsResponse](t, w)
	types := make([]string, len(resp.Items))
	for i, e := range resp.Items {
		types[i] = e.EventType
	}
	assert.Contains(t, types, events.EventUserRegistered)
	assert.Contains(t, types, events.EventMovieLiked)
	assert.NotContains(t, types, events.EventOperationStarted, "operations are not persisted")

	w = env.do(t, http.MethodGet, "/api/v1/events?entity_type=movie&entity_id=603", "", nil)
	resp = decode[listEventsResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, events.EventMovieLiked, resp.Items[0].EventType)

	w = env.do(t, http.MethodGet, "/api/v1/events?limit=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEvents_NoEventLog(t *testing.T) {
	env := newTestEnv(t, func(d *ServerDeps) { d.EventLog = nil })

	w := env.do(t, http.MethodGet, "/api/v1/events", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStreamLoading(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.mux)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/loading/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	next := func() (string, string) {
		t.Helper()
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "" && name != "":
				return name, data
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
	}

	name, data := next()
	assert.Equal(t, "snapshot", name)
	assert.Contains(t, data, `"active":false`)

	env.tracker.Start("op-1", "Loading popular movies...")
	name, data = next()
	assert.Equal(t, events.EventOperationStarted, name)
	assert.Contains(t, data, `"operation_id":"op-1"`)

	env.tracker.Stop("op-1")
	name, _ = next()
	assert.Equal(t, events.EventOperationStopped, name)

	cancel()
	_, err = reader.ReadString('\n')
	assert.Error(t, err)
}

func TestStreamLoading_NoBus(t *testing.T) {
	env := newTestEnv(t, func(d *ServerDeps) { d.Bus = nil })

	w := env.do(t, http.MethodGet, "/api/v1/loading/stream", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
