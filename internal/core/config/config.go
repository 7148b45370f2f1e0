// Package config handles configuration loading and validation for beacon.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Overlay OverlayConfig `yaml:"overlay"`
	History HistoryConfig `yaml:"history"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// OverlayConfig controls how toasts are stacked and retired.
type OverlayConfig struct {
	DefaultDuration  Duration `yaml:"default_duration"`  // hard expiry applied to new toasts
	MaxToasts        int      `yaml:"max_toasts"`        // oldest live toast is replaced beyond this
	DismissAnimation Duration `yaml:"dismiss_animation"` // how long a dismissed toast keeps drawing
	TickInterval     Duration `yaml:"tick_interval"`     // render loop period
	Width            int      `yaml:"width"`             // toast width in cells
}

// HistoryConfig controls persistence of dismissed notifications.
type HistoryConfig struct {
	Enabled      *bool `yaml:"enabled"` // nil = enabled
	MaxOpenConns int   `yaml:"max_open_conns"`
	MaxIdleConns int   `yaml:"max_idle_conns"`
	BusyTimeout  int   `yaml:"busy_timeout"` // milliseconds
}

// IsEnabled reports whether history is persisted.
func (h HistoryConfig) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Overlay: OverlayConfig{
			DefaultDuration:  Duration(5 * time.Second),
			MaxToasts:        5,
			DismissAnimation: Duration(300 * time.Millisecond),
			TickInterval:     Duration(100 * time.Millisecond),
			Width:            50,
		},
		History: HistoryConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Overlay.DefaultDuration == 0 {
		c.Overlay.DefaultDuration = defaults.Overlay.DefaultDuration
	}
	if c.Overlay.MaxToasts == 0 {
		c.Overlay.MaxToasts = defaults.Overlay.MaxToasts
	}
	if c.Overlay.TickInterval == 0 {
		c.Overlay.TickInterval = defaults.Overlay.TickInterval
	}
	if c.Overlay.Width == 0 {
		c.Overlay.Width = defaults.Overlay.Width
	}
	if c.History.MaxOpenConns == 0 {
		c.History.MaxOpenConns = defaults.History.MaxOpenConns
	}
	if c.History.MaxIdleConns == 0 {
		c.History.MaxIdleConns = defaults.History.MaxIdleConns
	}
	if c.History.BusyTimeout == 0 {
		c.History.BusyTimeout = defaults.History.BusyTimeout
	}
}
