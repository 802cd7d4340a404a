// Package db provides a GORM-based database layer for Shelfmark.
// It uses the pure-Go SQLite driver and is the only component permitted
// to read or write canonical items and their detail records.
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfmark/shelfmark/internal/models"
)

// Typed errors surfaced by store operations.
var (
	// ErrNotFound indicates the requested item does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrInvalidTransition indicates an illegal status change. The stored
	// status is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrKindMismatch indicates a detail record of the wrong kind for the item.
	ErrKindMismatch = errors.New("detail record does not match item kind")

	// ErrInvalidRating indicates a user rating outside the 0-10 scale.
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
)

// DB wraps the GORM database connection with Shelfmark-specific operations.
type DB struct {
	*gorm.DB
	path string
}

// Config holds database configuration options.
type Config struct {
	Path        string
	Debug       bool
	MaxIdleConn int
	MaxOpenConn int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	}
}

// New creates a new database connection and runs migrations.
func New(cfg Config) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	// DELETE journal mode: WAL has visibility issues with the pure-Go driver.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", cfg.Path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	wrapped := &DB{DB: db, path: cfg.Path}

	if err := wrapped.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := wrapped.seedSyncMeta(); err != nil {
		return nil, fmt.Errorf("seed sync meta: %w", err)
	}

	if err := wrapped.seedAPIConfigs(); err != nil {
		return nil, fmt.Errorf("seed api configs: %w", err)
	}

	return wrapped, nil
}

// migrate runs GORM auto-migrations for all models.
func (db *DB) migrate() error {
	return db.AutoMigrate(
		&models.Item{},
		&models.BookDetail{},
		&models.MovieDetail{},
		&models.TvShowDetail{},
		&models.Season{},
		&models.Episode{},
		&models.GameDetail{},
		&models.GamePlatform{},
		&models.GameDLC{},
		&models.ApiConfig{},
		&models.SyncMeta{},
	)
}

// seedSyncMeta inserts default sync metadata if not present.
func (db *DB) seedSyncMeta() error {
	defaults := []models.SyncMeta{
		{Key: models.SyncMetaLastFullSync, Value: ""},
		{Key: models.SyncMetaLastPullSync, Value: ""},
		{Key: models.SyncMetaSchemaVersion, Value: "1"},
	}

	for _, meta := range defaults {
		result := db.Where("key = ?", meta.Key).FirstOrCreate(&meta)
		if result.Error != nil {
			return result.Error
		}
	}

	return nil
}

// seedAPIConfigs inserts a disabled config row per known provider so that
// enable/set-key operations always have a row to update.
func (db *DB) seedAPIConfigs() error {
	for _, name := range models.KnownProviders() {
		cfg := models.ApiConfig{Provider: name}
		result := db.Where("provider = ?", name).FirstOrCreate(&cfg)
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction executes a function within a database transaction.
// The callback receives a *DB wrapper that uses the transaction.
func (d *DB) Transaction(fc func(tx *DB) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		wrappedTx := &DB{DB: tx, path: d.path}
		return fc(wrappedTx)
	})
}

// GetOrCreateTrackingID returns the persistent anonymous tracking ID,
// creating one if it doesn't exist.
func (db *DB) GetOrCreateTrackingID() string {
	id, err := db.GetSyncMeta(models.SyncMetaTrackingID)
	if err == nil && id != "" {
		return id
	}
	id = uuid.NewString()
	_ = db.SetSyncMeta(models.SyncMetaTrackingID, id)
	return id
}

// GetStats returns aggregate statistics about the library.
func (db *DB) GetStats() (*models.LibraryStats, error) {
	stats := &models.LibraryStats{
		ByKind:   make(map[models.MediaKind]int64),
		ByStatus: make(map[models.Status]int64),
	}

	if err := db.Model(&models.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	for _, kind := range models.ValidKinds() {
		var n int64
		if err := db.Model(&models.Item{}).Where("kind = ?", kind).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s items: %w", kind, err)
		}
		stats.ByKind[kind] = n
	}

	for _, status := range models.ValidStatuses() {
		var n int64
		if err := db.Model(&models.Item{}).Where("status = ?", status).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s items: %w", status, err)
		}
		stats.ByStatus[status] = n
	}

	if err := db.Model(&models.Item{}).Where("notion_page_id <> ''").Count(&stats.SyncedItems).Error; err != nil {
		return nil, fmt.Errorf("count synced items: %w", err)
	}

	if raw, err := db.GetSyncMeta(models.SyncMetaLastFullSync); err == nil && raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			stats.LastFullSync = ts
		}
	}

	if info, err := os.Stat(db.path); err == nil {
		stats.CacheSizeBytes = info.Size()
	}

	return stats, nil
}
