package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv is consulted when no config file exists.
const APIKeyEnv = "TMDB_API_KEY"

// ErrMissingAPIKey is returned when no usable TMDB API key is configured.
var ErrMissingAPIKey = errors.New("TMDB API key is required. Get one from https://www.themoviedb.org/settings/api")

// Config represents the application configuration
type Config struct {
	TMDB   TMDBConfig   `yaml:"tmdb"`
	Retry  RetryConfig  `yaml:"retry"`
	Server ServerConfig `yaml:"server"`
	Browse BrowseConfig `yaml:"browse"`
}

// TMDBConfig holds TMDB API configuration
type TMDBConfig struct {
	APIKey             string `yaml:"api_key"`
	Language           string `yaml:"language"`
	BaseURL            string `yaml:"base_url"`
	ImageBaseURL       string `yaml:"image_base_url"`
	VideoBaseURL       string `yaml:"video_base_url"`
	PosterPlaceholder  string `yaml:"poster_placeholder"`
	ProfilePlaceholder string `yaml:"profile_placeholder"`
}

// RetryConfig holds transport retry settings
type RetryConfig struct {
	MaxAttempts       int `yaml:"max_attempts"`
	BaseDelayMs       int `yaml:"base_delay_ms"`
	MaxJitterMs       int `yaml:"max_jitter_ms"`
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
}

// ServerConfig holds settings for the JSON API server
type ServerConfig struct {
	Listen             string `yaml:"listen"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
	WatchConfig        *bool  `yaml:"watch_config"`
}

// BrowseConfig holds settings for concurrent section loading
type BrowseConfig struct {
	Workers int `yaml:"workers"`
}

// Default returns a configuration with every default filled in and no API key.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.TMDB.Language == "" {
		c.TMDB.Language = "en-US"
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = "https://image.tmdb.org/t/p/"
	}
	if c.TMDB.VideoBaseURL == "" {
		c.TMDB.VideoBaseURL = "https://www.youtube.com/embed/"
	}
	if c.TMDB.PosterPlaceholder == "" {
		c.TMDB.PosterPlaceholder = "https://placehold.co/500x750/1e293b/cbd5e1?text=No+Image"
	}
	if c.TMDB.ProfilePlaceholder == "" {
		c.TMDB.ProfilePlaceholder = "https://placehold.co/128x192/475569/cbd5e1?text=No+Pic"
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.BaseDelayMs <= 0 {
		c.Retry.BaseDelayMs = 1000
	}
	// Negative disables jitter.
	if c.Retry.MaxJitterMs == 0 {
		c.Retry.MaxJitterMs = 1000
	}
	if c.Retry.RequestTimeoutSec <= 0 {
		c.Retry.RequestTimeoutSec = 30
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.RateLimitPerMinute <= 0 {
		c.Server.RateLimitPerMinute = 120
	}
	if c.Server.WatchConfig == nil {
		watch := true
		c.Server.WatchConfig = &watch
	}
	if c.Browse.Workers <= 0 {
		c.Browse.Workers = 4
	}
}

// Validate checks fields that have no usable default.
func (c *Config) Validate() error {
	key := strings.TrimSpace(c.TMDB.APIKey)
	if key == "" || key == "your_api_key_here" {
		return ErrMissingAPIKey
	}
	if !strings.HasPrefix(c.TMDB.BaseURL, "http://") && !strings.HasPrefix(c.TMDB.BaseURL, "https://") {
		return fmt.Errorf("tmdb.base_url must be an http(s) URL, got %q", c.TMDB.BaseURL)
	}
	if c.Retry.MaxAttempts > 10 {
		return fmt.Errorf("retry.max_attempts must be at most 10, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

// BaseDelay returns the configured backoff base.
func (r RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMs) * time.Millisecond
}

// MaxJitter returns the configured jitter ceiling.
func (r RetryConfig) MaxJitter() time.Duration {
	return time.Duration(r.MaxJitterMs) * time.Millisecond
}

// RequestTimeout returns the per-attempt HTTP timeout.
func (r RetryConfig) RequestTimeout() time.Duration {
	return time.Duration(r.RequestTimeoutSec) * time.Second
}

// ExpandPath expands a leading ~ to the home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

// Load reads and parses the configuration file. A missing file is not an
// error when TMDB_API_KEY is set; the defaults are used with that key.
func Load(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	// Read the config file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if key := os.Getenv(APIKeyEnv); key != "" {
				cfg := Default()
				cfg.TMDB.APIKey = key
				return cfg, nil
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse expands environment variables in data, decodes it, applies
// defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
