package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/marquee/internal/auth"
	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/tmdb"
)

func TestClientStatus_Success(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		ExpectMethod(http.MethodGet).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("check"))
			respondJSON(t, w, http.StatusOK, StatusResponse{
				Status:  "ok",
				Version: "1.0.0",
				TMDB:    tmdb.ConfigStatus{Valid: true},
			})
		}).
		Build()
	defer srv.Close()

	status, err := NewClient(srv.URL, "").Status(true)
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.True(t, status.TMDB.Valid)
}

func TestClient_APIError(t *testing.T) {
	srv := newMockServer(t).
		RespondAPIError(http.StatusConflict, string(auth.CodeEmailInUse), auth.CodeEmailInUse.Message()).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Register("a@example.com", "secret123", "")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "email-already-in-use", apiErr.Code)
	assert.Contains(t, err.Error(), "already registered")
}

func TestClient_PlainTextError(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("internal server error"))
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Loading()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "internal server error")
}

func TestClient_ConnectionError(t *testing.T) {
	srv := newMockServer(t).Build()
	srv.Close()

	_, err := NewClient(srv.URL, "").Status(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_SendsBearerToken(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/likes").
		ExpectToken("tok-123").
		RespondJSON(LikesResponse{
			Items: []likes.Movie{{TMDBID: 603, Title: "The Matrix"}},
			Total: 1,
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "tok-123").Likes()
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "The Matrix", resp.Items[0].Title)
}

func TestClient_LikeAndUnlike(t *testing.T) {
	var calls []string
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.Method+" "+r.URL.Path)
			if r.Method == http.MethodDelete {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			respondJSON(t, w, http.StatusOK, likes.Movie{TMDBID: 603, Title: "The Matrix"})
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	movie, err := client.Like(603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", movie.Title)
	require.NoError(t, client.Unlike(603))

	assert.Equal(t, []string{"PUT /api/v1/likes/603", "DELETE /api/v1/likes/603"}, calls)
}

func TestClient_SearchEscapesQuery(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies/search").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "amélie & co", r.URL.Query().Get("q"))
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			respondJSON(t, w, http.StatusOK, tmdb.Page[tmdb.Movie]{Page: 1})
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL, "").SearchMovies("amélie & co", 0)
	require.NoError(t, err)
}

func TestClient_Listing(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/tv/trending").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "week", r.URL.Query().Get("window"))
			assert.Empty(t, r.URL.Query().Get("page"))
			respondJSON(t, w, http.StatusOK, tmdb.Page[tmdb.Series]{Results: []tmdb.Series{{ID: 1, Name: "Severance"}}})
		}).
		Build()
	defer srv.Close()

	page, err := NewClient(srv.URL, "").TV("trending", 0, "week")
	require.NoError(t, err)
	assert.Equal(t, "Severance", page.Results[0].Name)
}

func TestClient_Login(t *testing.T) {
	expires := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	srv := newMockServer(t).
		ExpectPath("/api/v1/auth/login").
		ExpectMethod(http.MethodPost).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ada@example.com", body["email"])
			assert.Equal(t, "secret123", body["password"])
			respondJSON(t, w, http.StatusOK, SessionResponse{
				User:      auth.User{ID: 1, Email: "ada@example.com"},
				Token:     "tok",
				ExpiresAt: expires,
			})
		}).
		Build()
	defer srv.Close()

	sess, err := NewClient(srv.URL, "").Login("ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.True(t, expires.Equal(sess.ExpiresAt))
}
