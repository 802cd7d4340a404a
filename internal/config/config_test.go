package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.BaseDir)
	assert.Equal(t, "en-US", cfg.Language)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.TelemetryDisabled)
}

func TestLoadFromEnv(t *testing.T) {
	base := t.TempDir()
	t.Setenv("SHELFMARK_HOME", base)
	t.Setenv("SHELFMARK_DEBUG", "1")
	t.Setenv("SHELFMARK_NO_TELEMETRY", "1")
	t.Setenv("SHELFMARK_LANGUAGE", "de-DE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, base, cfg.BaseDir)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.TelemetryDisabled)
	assert.Equal(t, "de-DE", cfg.Language)

	// Load creates the data directories.
	assert.DirExists(t, filepath.Join(base, "logs"))
}

func TestGetPaths(t *testing.T) {
	cfg := &Config{BaseDir: "/data/shelfmark"}

	paths := GetPaths(cfg)

	assert.Equal(t, filepath.Join("/data/shelfmark", "shelfmark.db"), paths.Database)
	assert.Equal(t, filepath.Join("/data/shelfmark", "logs"), paths.Logs)
}
