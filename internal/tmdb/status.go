package tmdb

import (
	"context"
)

// ConfigStatus reports whether the client is usable as configured.
type ConfigStatus struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ConfigCheck is the result of a live configuration test.
type ConfigCheck struct {
	Message        string `json:"message"`
	BaseURL        string `json:"base_url"`
	HasAPIKey      bool   `json:"has_api_key"`
	HasAccessToken bool   `json:"has_access_token"`
}

// ConfigStatus validates the client settings without a network call.
func (c *Client) ConfigStatus() ConfigStatus {
	st := ConfigStatus{Errors: []string{}, Warnings: []string{}}
	if c.baseURL == "" {
		st.Errors = append(st.Errors, "missing TMDB base URL")
	}
	if c.apiKey == "" && c.accessToken == "" {
		st.Errors = append(st.Errors, "missing both TMDB api key and access token")
	}
	if c.apiKey != "" && c.accessToken == "" {
		st.Warnings = append(st.Warnings, "using api key instead of access token (less secure)")
	}
	st.Valid = len(st.Errors) == 0
	return st
}

// TestConfiguration calls GET /configuration to prove the credentials work.
// The result is never cached.
func (c *Client) TestConfiguration(ctx context.Context) (*ConfigCheck, error) {
	_, err := tracked(ctx, c, "Testing TMDB configuration...", func(ctx context.Context) (*struct{}, error) {
		return request[struct{}](ctx, c, "/3/configuration", nil)
	})
	if err != nil {
		return nil, err
	}
	return &ConfigCheck{
		Message:        "TMDB API configuration is working",
		BaseURL:        c.baseURL,
		HasAPIKey:      c.apiKey != "",
		HasAccessToken: c.accessToken != "",
	}, nil
}
