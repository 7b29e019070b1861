// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	Cache    CacheConfig    `toml:"cache"`
	Auth     AuthConfig     `toml:"auth"`
	AI       AIConfig       `toml:"ai"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// TMDBConfig configures the catalog client. One of AccessToken or APIKey is required.
type TMDBConfig struct {
	BaseURL     string        `toml:"base_url"`
	AccessToken string        `toml:"access_token"`
	APIKey      string        `toml:"api_key"`
	CacheTTL    time.Duration `toml:"cache_ttl"`
	Timeout     time.Duration `toml:"timeout"`
}

type CacheConfig struct {
	PruneInterval  time.Duration `toml:"prune_interval"`
	EventRetention time.Duration `toml:"event_retention"`
}

type AuthConfig struct {
	SessionTTL      time.Duration `toml:"session_ttl"`
	MaxFailedLogins int           `toml:"max_failed_logins"`
	Lockout         time.Duration `toml:"lockout"`
	BcryptCost      int           `toml:"bcrypt_cost"`
}

type AIConfig struct {
	Enabled  bool          `toml:"enabled"`
	Provider string        `toml:"provider"`
	CacheTTL time.Duration `toml:"cache_ttl"`
	Gemini   *GeminiConfig `toml:"gemini"`
	Ollama   *OllamaConfig `toml:"ollama"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type OllamaConfig struct {
	URL   string `toml:"url"`
	Model string `toml:"model"`
}

// Load reads, parses, and validates the configuration file.
// Unresolved environment variables and validation failures are
// reported together as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing}
	for _, msg := range cfg.Validate() {
		if !strings.Contains(msg, "warning:") {
			cfgErr.Errors = append(cfgErr.Errors, msg)
		}
	}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, leaving
// unresolved ${VAR} references in place and skipping validation.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/marquee.db"
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.TMDB.CacheTTL == 0 {
		c.TMDB.CacheTTL = 15 * time.Minute
	}
	if c.TMDB.Timeout == 0 {
		c.TMDB.Timeout = 10 * time.Second
	}
	if c.Cache.PruneInterval == 0 {
		c.Cache.PruneInterval = 5 * time.Minute
	}
	if c.Cache.EventRetention == 0 {
		c.Cache.EventRetention = 30 * 24 * time.Hour
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 30 * 24 * time.Hour
	}
	if c.Auth.MaxFailedLogins == 0 {
		c.Auth.MaxFailedLogins = 5
	}
	if c.Auth.Lockout == 0 {
		c.Auth.Lockout = 15 * time.Minute
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.CacheTTL == 0 {
		c.AI.CacheTTL = 30 * time.Minute
	}
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// envVarPattern matches ${VAR}, ${VAR:-default}, and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references and returns the names
// (or "NAME: message" for :? references) it could not resolve. Unresolved
// references are left unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if value == "" {
				return arg
			}
			return value
		case ":?":
			if value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}

		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
