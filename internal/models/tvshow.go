package models

// TvShowDetail holds TV-specific attributes, one-to-one with an Item of
// kind TV_SHOW. Seasons (and their episodes) are exclusively owned by the
// detail record and are destroyed with it.
type TvShowDetail struct {
	ItemID string `gorm:"primaryKey;size:64" json:"item_id"`

	TotalSeasons  int    `gorm:"default:0" json:"total_seasons"`
	TotalEpisodes int    `gorm:"default:0" json:"total_episodes"`
	ShowStatus    string `gorm:"size:50" json:"show_status"` // e.g. "Returning Series", "Ended"
	FirstAirDate  string `gorm:"size:20" json:"first_air_date"`
	LastAirDate   string `gorm:"size:20" json:"last_air_date"`
	Network       string `gorm:"size:255" json:"network"`

	Seasons []Season `gorm:"foreignKey:ItemID;references:ItemID" json:"seasons,omitempty"`
}

// TableName specifies the table name for GORM.
func (TvShowDetail) TableName() string {
	return "tv_show_details"
}

// Season is an owned sub-entity of TvShowDetail.
type Season struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID       string `gorm:"size:64;index" json:"item_id"`
	SeasonNumber int    `gorm:"index" json:"season_number"`
	EpisodeCount int    `gorm:"default:0" json:"episode_count"`
	AirDate      string `gorm:"size:20" json:"air_date"`

	Episodes []Episode `gorm:"foreignKey:SeasonID" json:"episodes,omitempty"`
}

// TableName specifies the table name for GORM.
func (Season) TableName() string {
	return "seasons"
}

// Episode is an owned sub-entity of Season.
type Episode struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SeasonID      uint   `gorm:"index" json:"season_id"`
	EpisodeNumber int    `json:"episode_number"`
	AirDate       string `gorm:"size:20" json:"air_date"`
	Watched       bool   `gorm:"default:false" json:"watched"`
}

// TableName specifies the table name for GORM.
func (Episode) TableName() string {
	return "episodes"
}
