package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com"
	defaultGeminiModel = "gemini-1.5-flash"
)

// GeminiProvider calls Google's generateContent REST endpoint.
type GeminiProvider struct {
	baseURL    string
	apiKey     string
	model      string
	config     GenerationConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// GeminiOption configures a GeminiProvider.
type GeminiOption func(*GeminiProvider)

// WithGeminiBaseURL sets a custom base URL (for testing).
func WithGeminiBaseURL(u string) GeminiOption {
	return func(g *GeminiProvider) { g.baseURL = strings.TrimRight(u, "/") }
}

// WithGeminiModel selects the model; empty keeps the default.
func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiProvider) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGenerationConfig overrides the sampling parameters.
func WithGenerationConfig(cfg GenerationConfig) GeminiOption {
	return func(g *GeminiProvider) { g.config = cfg }
}

// WithGeminiHTTPClient sets a custom HTTP client.
func WithGeminiHTTPClient(hc *http.Client) GeminiOption {
	return func(g *GeminiProvider) { g.httpClient = hc }
}

// WithGeminiLogger sets the logger.
func WithGeminiLogger(l *slog.Logger) GeminiOption {
	return func(g *GeminiProvider) { g.logger = l }
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(apiKey string, opts ...GeminiOption) *GeminiProvider {
	g := &GeminiProvider{
		baseURL:    defaultGeminiURL,
		apiKey:     apiKey,
		model:      defaultGeminiModel,
		config:     DefaultGenerationConfig,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Name implements Provider.
func (g *GeminiProvider) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Generate implements Provider.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: g.config,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		// url.Error includes the full URL.
		return "", fmt.Errorf("execute request: %w", redactKey(err, g.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	g.logger.Debug("gemini request",
		"model", g.model,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return "", readHTTPError(g.Name(), resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	text := gjson.GetBytes(data, "candidates.0.content.parts.0.text")
	if !text.Exists() || strings.TrimSpace(text.String()) == "" {
		if reason := gjson.GetBytes(data, "promptFeedback.blockReason"); reason.Exists() {
			return "", fmt.Errorf("%w: blocked (%s)", ErrEmptyResponse, reason.String())
		}
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}
