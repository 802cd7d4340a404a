package models

import "time"

// Known provider names.
const (
	ProviderGoogleBooks = "googlebooks"
	ProviderOpenLibrary = "openlibrary"
	ProviderTMDB        = "tmdb"
	ProviderIGDB        = "igdb"
	ProviderRAWG        = "rawg"

	// ProviderNotion is the sync target, configured the same way.
	ProviderNotion = "notion"
)

// KnownProviders returns every configurable provider, sync target included.
func KnownProviders() []string {
	return []string{
		ProviderGoogleBooks,
		ProviderOpenLibrary,
		ProviderTMDB,
		ProviderIGDB,
		ProviderRAWG,
		ProviderNotion,
	}
}

// ApiConfig holds connection parameters for one external provider.
// Extra1-Extra5 carry opaque provider-specific values, e.g. the Twitch
// client secret for IGDB or the Notion database id.
type ApiConfig struct {
	Provider   string `gorm:"primaryKey;size:50" json:"provider"`
	Credential string `gorm:"size:500" json:"credential"`
	BaseURL    string `gorm:"size:500" json:"base_url"`
	Enabled    bool   `gorm:"default:false" json:"enabled"`

	Extra1 string `gorm:"size:500" json:"extra1"`
	Extra2 string `gorm:"size:500" json:"extra2"`
	Extra3 string `gorm:"size:500" json:"extra3"`
	Extra4 string `gorm:"size:500" json:"extra4"`
	Extra5 string `gorm:"size:500" json:"extra5"`

	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName specifies the table name for GORM.
func (ApiConfig) TableName() string {
	return "api_configs"
}
