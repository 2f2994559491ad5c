// Package config handles loading, parsing, and validating the YAML
// configuration file for the browser. Secrets are overlaid from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Guliveer/twitch-browser-go/internal/constants"
)

// DefaultConfigFile is the default path of the configuration file.
const DefaultConfigFile = "config.yaml"

// Environment variables read by applyEnvOverrides.
const (
	EnvAuthToken    = "TWITCH_AUTH_TOKEN"
	EnvClientID     = "TWITCH_CLIENT_ID"
	EnvAPIHost      = "TWITCH_API_HOST"
	EnvMinViewCount = "MIN_VIEW_COUNT"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogDir       = "LOG_DIR"
)

// Config is the browser configuration.
type Config struct {
	AuthToken string `yaml:"auth_token"`
	ClientID  string `yaml:"client_id"`

	APIHost string        `yaml:"api_host"`
	Timeout time.Duration `yaml:"timeout"`

	Followed FollowedConfig `yaml:"followed"`

	// AccentColor is the hex color used for highlighted CLI output.
	AccentColor string `yaml:"accent_color"`

	Log LogConfig `yaml:"log"`
}

// FollowedConfig holds followed-channels preferences.
type FollowedConfig struct {
	MinViewCount *int `yaml:"min_view_count,omitempty"`
	HideOffline  bool `yaml:"hide_offline"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// MinViewCount returns the configured view-count floor.
func (c *Config) MinViewCount() int {
	if c.Followed.MinViewCount == nil {
		return constants.DefaultMinViewCount
	}
	return *c.Followed.MinViewCount
}

// Load reads the YAML file at path, then overlays environment variables.
// A missing file is not an error: defaults and the environment are used.
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIHost == "" {
		cfg.APIHost = constants.HelixHost
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = constants.DefaultHTTPTimeout
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}

	cfg.AccentColor = strings.TrimPrefix(strings.TrimSpace(cfg.AccentColor), "#")
}

// applyEnvOverrides overlays environment variables. Set variables win over
// file values.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvAuthToken); v != "" {
		cfg.AuthToken = v
	}
	if v := os.Getenv(EnvClientID); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv(EnvAPIHost); v != "" {
		cfg.APIHost = v
	}
	if v := os.Getenv(EnvMinViewCount); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMinViewCount, err)
		}
		cfg.Followed.MinViewCount = &n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogDir); v != "" {
		cfg.Log.Dir = v
	}
	return nil
}

// Validate checks the configuration for common errors.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.AuthToken) == "" {
		return fmt.Errorf("auth_token is required (use env var %s)", EnvAuthToken)
	}

	if strings.TrimSpace(cfg.ClientID) == "" {
		return fmt.Errorf("client_id is required (use env var %s)", EnvClientID)
	}

	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}

	if cfg.MinViewCount() < 0 {
		return fmt.Errorf("followed.min_view_count must not be negative, got %d", cfg.MinViewCount())
	}

	if cfg.AccentColor != "" {
		if _, err := strconv.ParseUint(cfg.AccentColor, 16, 32); err != nil || len(cfg.AccentColor) != 6 {
			return fmt.Errorf("accent_color must be a 6-digit hex color, got %q", cfg.AccentColor)
		}
	}

	return nil
}
