// Package config handles application configuration management.
package config

import (
	"os"
	"path/filepath"
)

// Config holds all application configuration. Provider credentials live
// in the database, not here; this covers process-level settings only.
type Config struct {
	// Base directory for all Shelfmark data
	BaseDir string

	// Debug enables verbose SQL and HTTP logging.
	Debug bool

	// TelemetryDisabled turns off anonymous usage analytics.
	TelemetryDisabled bool

	// Language is the preferred metadata language for providers that
	// support one (BCP 47, e.g. "en-US").
	Language string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if base := os.Getenv("SHELFMARK_HOME"); base != "" {
		cfg.BaseDir = base
	}
	if os.Getenv("SHELFMARK_DEBUG") != "" {
		cfg.Debug = true
	}
	if os.Getenv("SHELFMARK_NO_TELEMETRY") != "" {
		cfg.TelemetryDisabled = true
	}
	if lang := os.Getenv("SHELFMARK_LANGUAGE"); lang != "" {
		cfg.Language = lang
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{
		cfg.BaseDir,
		filepath.Join(cfg.BaseDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
