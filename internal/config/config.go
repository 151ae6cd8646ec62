// Package config loads the artigen.toml application config: where the
// generation API lives and a couple of UI pacing knobs. Remote catalog data
// (content types, tones, languages, bots) is not configured here; it comes
// from the API at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const FileName = "artigen.toml"

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// RatePerMinute caps outgoing requests per endpoint.
	RatePerMinute int `toml:"rate_per_minute"`
}

type UIConfig struct {
	// NavigateDelayMS is the pause between a successful pipeline run and the
	// switch to the outline screen.
	NavigateDelayMS int `toml:"navigate_delay_ms"`
	// FlashMS is how long a notification stays visible.
	FlashMS int `toml:"flash_ms"`
}

type Config struct {
	API APIConfig `toml:"api"`
	UI  UIConfig  `toml:"ui"`
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads path if it exists, fills defaults, and applies environment
// overrides (a .env file next to the working directory is honored,
// best-effort).
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Missing file means defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080/api/v1"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 60
	}
	if cfg.API.RatePerMinute == 0 {
		cfg.API.RatePerMinute = 60
	}
	if cfg.UI.NavigateDelayMS == 0 {
		cfg.UI.NavigateDelayMS = 2000
	}
	if cfg.UI.FlashMS == 0 {
		cfg.UI.FlashMS = 3000
	}
}

func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	if v := os.Getenv("ARTIGEN_API_BASE"); v != "" {
		cfg.API.BaseURL = v
	}
}

func (c *Config) Validate() error {
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must be >= 0, got %d", c.API.TimeoutSeconds)
	}
	if c.API.RatePerMinute < 0 {
		return fmt.Errorf("api.rate_per_minute must be >= 0, got %d", c.API.RatePerMinute)
	}
	if c.UI.NavigateDelayMS < 0 {
		return fmt.Errorf("ui.navigate_delay_ms must be >= 0, got %d", c.UI.NavigateDelayMS)
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) NavigateDelay() time.Duration {
	return time.Duration(c.UI.NavigateDelayMS) * time.Millisecond
}

func (c *Config) FlashDuration() time.Duration {
	return time.Duration(c.UI.FlashMS) * time.Millisecond
}
