package v1

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/vmunix/marquee/internal/auth"
	"github.com/vmunix/marquee/internal/events"
	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/loader"
	"github.com/vmunix/marquee/internal/migrations"
	"github.com/vmunix/marquee/internal/respcache"
	"github.com/vmunix/marquee/internal/tmdb"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(db), "apply schema")
	return db
}

// fakeTMDB serves a handful of canned TMDB responses.
func fakeTMDB(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /3/movie/popular", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tmdb.Page[tmdb.Movie]{
			Page:         1,
			Results:      []tmdb.Movie{{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15"}},
			TotalPages:   1,
			TotalResults: 1,
		})
	})
	mux.HandleFunc("GET /3/trending/movie/{window}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tmdb.Page[tmdb.Movie]{
			Page:    1,
			Results: []tmdb.Movie{{ID: 603, Title: "The Matrix", Overview: r.PathValue("window")}},
		})
	})
	mux.HandleFunc("GET /3/search/movie", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tmdb.Page[tmdb.Movie]{
			Page: 1,
			Results: []tmdb.Movie{
				{ID: 1, Title: "Heat", ReleaseDate: "1986-01-01"},
				{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15"},
			},
		})
	})
	mux.HandleFunc("GET /3/movie/550", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tmdb.MovieDetails{
			Movie:   tmdb.Movie{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", VoteAverage: 8.4},
			Runtime: 139,
		})
	})
	mux.HandleFunc("GET /3/movie/999", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"status_code":    34,
			"status_message": "The resource you requested could not be found.",
		})
	})
	mux.HandleFunc("GET /3/tv/1399", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tmdb.SeriesDetails{
			Series:          tmdb.Series{ID: 1399, Name: "Game of Thrones", FirstAirDate: "2011-04-17"},
			NumberOfSeasons: 8,
		})
	})
	mux.HandleFunc("GET /3/configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"images": map[string]any{}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type testEnv struct {
	srv     *Server
	mux     *http.ServeMux
	tracker *loader.Tracker
	bus     *events.Bus
	catalog *tmdb.Client
	auth    *auth.Store
	likes   *likes.Store
}

func newTestEnv(t *testing.T, modify ...func(*ServerDeps)) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	bus := events.NewBus(events.NewEventLog(db), nil)
	t.Cleanup(func() { _ = bus.Close() })
	observer := events.NewTrackerObserver(bus)
	tracker := loader.New(loader.WithObserver(observer))
	observer.Attach(tracker)

	catalog, err := tmdb.NewClient(
		tmdb.WithBaseURL(fakeTMDB(t).URL),
		tmdb.WithAccessToken("test-token"),
		tmdb.WithTracker(tracker),
	)
	require.NoError(t, err)

	recCache, err := respcache.New(0)
	require.NoError(t, err)

	deps := ServerDeps{
		Catalog:  catalog,
		Auth:     auth.NewStore(db, auth.WithBcryptCost(bcrypt.MinCost)),
		Likes:    likes.NewStore(db),
		Tracker:  tracker,
		Bus:      bus,
		EventLog: events.NewEventLog(db),
		Caches: map[string]*respcache.Cache{
			"tmdb":            catalog.Cache(),
			"recommendations": recCache,
		},
		Version: "test",
	}
	for _, m := range modify {
		m(&deps)
	}

	srv, err := New(deps)
	require.NoError(t, err)
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	return &testEnv{
		srv:     srv,
		mux:     mux,
		tracker: tracker,
		bus:     bus,
		catalog: catalog,
		auth:    deps.Auth,
		likes:   deps.Likes,
	}
}

// do sends a request through the mux. A non-empty token is sent as a bearer.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body == nil {
		req.ContentLength = 0
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

// signUp registers an account and returns its session token.
func (e *testEnv) signUp(t *testing.T, email string) (string, int64) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		Email:       email,
		Password:    "secret123",
		DisplayName: "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
