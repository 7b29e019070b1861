package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validAIProviders = map[string]bool{
	"gemini": true, "ollama": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid). Messages containing
// "warning:" are advisory.
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// TMDB validation
	if u, err := url.Parse(c.TMDB.BaseURL); c.TMDB.BaseURL != "" && (err != nil || u.Scheme == "" || u.Host == "") {
		errs = append(errs, fmt.Sprintf("tmdb.base_url: invalid URL %q", c.TMDB.BaseURL))
	}
	if c.TMDB.AccessToken == "" && c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb: access_token or api_key required")
	}
	if c.TMDB.CacheTTL < 0 {
		errs = append(errs, "tmdb.cache_ttl: must not be negative")
	}
	if c.TMDB.Timeout < 0 {
		errs = append(errs, "tmdb.timeout: must not be negative")
	}

	// Cache validation
	if c.Cache.PruneInterval < 0 {
		errs = append(errs, "cache.prune_interval: must not be negative")
	}

	// Auth validation
	if c.Auth.MaxFailedLogins < 0 {
		errs = append(errs, "auth.max_failed_logins: must not be negative")
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31) {
		errs = append(errs, fmt.Sprintf("auth.bcrypt_cost: must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}

	// AI validation
	if c.AI.Enabled {
		if !validAIProviders[c.AI.Provider] {
			errs = append(errs, fmt.Sprintf("ai.provider: must be one of gemini, ollama; got %q", c.AI.Provider))
		}
		if c.AI.Provider == "gemini" && (c.AI.Gemini == nil || c.AI.Gemini.APIKey == "") {
			errs = append(errs, "ai.gemini.api_key: required when provider is gemini")
		}
		if c.AI.Provider == "ollama" && (c.AI.Ollama == nil || c.AI.Ollama.URL == "") {
			errs = append(errs, "ai.ollama.url: warning: not set, using http://localhost:11434")
		}
	}
	if c.AI.CacheTTL < 0 {
		errs = append(errs, "ai.cache_ttl: must not be negative")
	}

	return errs
}
