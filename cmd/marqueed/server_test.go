package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/marquee/internal/ai"
	"github.com/vmunix/marquee/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestLogRequests_CapturesFirstStatus(t *testing.T) {
	h := logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusInternalServerError)
	}), slog.New(slog.DiscardHandler))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestNewProvider(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	assert.Nil(t, newProvider(config.AIConfig{Enabled: false, Provider: "gemini"}, logger))
	assert.Nil(t, newProvider(config.AIConfig{Enabled: true, Provider: "gemini"}, logger), "gemini needs a key")

	p := newProvider(config.AIConfig{Enabled: true, Provider: "gemini", Gemini: &config.GeminiConfig{APIKey: "k"}}, logger)
	require.NotNil(t, p)
	assert.Equal(t, "gemini", p.Name())

	p = newProvider(config.AIConfig{Enabled: true, Provider: "ollama"}, logger)
	require.NotNil(t, p)
	assert.IsType(t, &ai.OllamaProvider{}, p)
}

func TestBuild_ServesStatus(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	cfg.TMDB.AccessToken = "token"

	db, err := openDB(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a, err := build(cfg, db, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.bus.Close() })
	assert.Len(t, a.caches, 2)

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status          string `json:"status"`
		Recommendations bool   `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Recommendations)
}
