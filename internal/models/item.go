// Package models defines the core data structures for Shelfmark.
package models

import (
	"time"
)

// MediaKind discriminates which detail record applies to an item.
type MediaKind string

const (
	KindBook   MediaKind = "BOOK"
	KindMovie  MediaKind = "MOVIE"
	KindTVShow MediaKind = "TV_SHOW"
	KindGame   MediaKind = "GAME"
)

// ValidKinds returns all media kinds.
func ValidKinds() []MediaKind {
	return []MediaKind{KindBook, KindMovie, KindTVShow, KindGame}
}

// ParseKind converts a user-supplied string into a MediaKind.
func ParseKind(s string) (MediaKind, bool) {
	switch MediaKind(s) {
	case KindBook, KindMovie, KindTVShow, KindGame:
		return MediaKind(s), true
	}
	return "", false
}

// Item is the canonical record for one tracked work, regardless of kind.
// Kind-specific attributes live in the matching detail record keyed by ID.
type Item struct {
	ID   string    `gorm:"primaryKey;size:64" json:"id"`
	Kind MediaKind `gorm:"size:20;index;index:idx_kind_ref" json:"kind"`

	// Display fields
	Title         string `gorm:"size:500;index" json:"title"`
	OriginalTitle string `gorm:"size:500" json:"original_title"`
	Year          int    `gorm:"default:0" json:"year"`
	CoverURL      string `gorm:"size:1000" json:"cover_url"`
	Description   string `gorm:"type:text" json:"description"`

	// Ratings. SourceRating keeps the provider-native scale; OverallRating
	// is always on the 0-10 scale (see normalize.OverallRating).
	SourceRating  float64  `gorm:"default:0" json:"source_rating"`
	OverallRating float64  `gorm:"default:0" json:"overall_rating"`
	UserRating    *float64 `json:"user_rating"`
	UserComment   string   `gorm:"size:2000" json:"user_comment"`

	// Ordered string sequences, stored as a single joined blob.
	Genres   string `gorm:"size:1000" json:"genres"`
	UserTags string `gorm:"size:1000" json:"user_tags"`

	// External references
	ProviderName  string `gorm:"size:50" json:"provider_name"`
	ProviderRefID string `gorm:"size:100;index:idx_kind_ref" json:"provider_ref_id"` // ISBN, TMDB id, IGDB id, ...
	ProviderURL   string `gorm:"size:1000" json:"provider_url"`
	NotionPageID  string `gorm:"size:64;index" json:"notion_page_id"` // set after first successful create against Notion

	Status Status `gorm:"size:20;index;default:WANT" json:"status"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `gorm:"index" json:"last_modified"`
}

// TableName specifies the table name for GORM.
func (Item) TableName() string {
	return "items"
}

// GenreList returns the genres as an ordered slice.
func (i *Item) GenreList() []string {
	return SplitList(i.Genres)
}

// SetGenres stores an ordered genre sequence.
func (i *Item) SetGenres(genres []string) {
	i.Genres = JoinList(genres)
}

// TagList returns the user tags as an ordered slice.
func (i *Item) TagList() []string {
	return SplitList(i.UserTags)
}

// SetTags stores an ordered tag sequence.
func (i *Item) SetTags(tags []string) {
	i.UserTags = JoinList(tags)
}

// Touch bumps LastModified. Call before persisting any mutation.
func (i *Item) Touch() {
	i.LastModified = time.Now()
}

// LibraryStats provides aggregate statistics about the local library.
type LibraryStats struct {
	TotalItems     int64               `json:"total_items"`
	ByKind         map[MediaKind]int64 `json:"by_kind"`
	ByStatus       map[Status]int64    `json:"by_status"`
	SyncedItems    int64               `json:"synced_items"`
	LastFullSync   time.Time           `json:"last_full_sync"`
	CacheSizeBytes int64               `json:"cache_size_bytes"`
}
