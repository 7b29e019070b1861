// Package ai provides text-generation backends used for recommendations.
package ai

//go:generate mockgen -destination=mocks/provider.go -package=mocks github.com/vmunix/marquee/internal/ai Provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrNoAPIKey indicates the provider needs an API key that was not configured.
	ErrNoAPIKey = errors.New("ai api key not configured")

	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("ai response contained no text")
)

// Provider is an LLM backend.
type Provider interface {
	// Generate sends a single prompt and returns the model's text reply.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend in logs and status output.
	Name() string
}

// GenerationConfig tunes sampling.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// DefaultGenerationConfig is tuned for short JSON answers.
var DefaultGenerationConfig = GenerationConfig{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 2048,
}

// HTTPError is a non-2xx response from a provider.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API error %d", e.Provider, e.StatusCode)
}

func readHTTPError(provider string, resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &HTTPError{Provider: provider, StatusCode: resp.StatusCode, Body: string(body)}
}
