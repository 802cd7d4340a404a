package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shelfmark/shelfmark/internal/models"
)

// GetAPIConfig retrieves the configuration for one provider.
// Returns nil when the provider has never been configured.
func (db *DB) GetAPIConfig(provider string) (*models.ApiConfig, error) {
	var cfg models.ApiConfig
	err := db.First(&cfg, "provider = ?", provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// SaveAPIConfig creates or updates a provider configuration.
func (db *DB) SaveAPIConfig(cfg *models.ApiConfig) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"credential", "base_url", "enabled",
			"extra1", "extra2", "extra3", "extra4", "extra5",
			"last_updated",
		}),
	}).Create(cfg).Error
}

// ListAPIConfigs returns every provider configuration.
func (db *DB) ListAPIConfigs() ([]models.ApiConfig, error) {
	var configs []models.ApiConfig
	err := db.Order("provider").Find(&configs).Error
	return configs, err
}

// SetProviderEnabled flips the enabled flag for a provider.
func (db *DB) SetProviderEnabled(provider string, enabled bool) error {
	result := db.Model(&models.ApiConfig{}).Where("provider = ?", provider).
		Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
