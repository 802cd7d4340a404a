package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Main SQLite database
	Logs     string // Log directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "shelfmark.db"),
		Logs:     filepath.Join(cfg.BaseDir, "logs"),
	}
}

// DefaultBaseDir returns the default base directory. A dotted home
// directory is preferred when it already exists, so pre-XDG installs
// keep their data; fresh installs land under the XDG data home.
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shelfmark"
	}
	dotted := filepath.Join(home, ".shelfmark")
	if info, err := os.Stat(dotted); err == nil && info.IsDir() {
		return dotted
	}
	return filepath.Join(xdg.DataHome, "shelfmark")
}
