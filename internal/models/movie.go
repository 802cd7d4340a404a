package models

// MovieDetail holds movie-specific attributes, one-to-one with an Item of
// kind MOVIE.
type MovieDetail struct {
	ItemID string `gorm:"primaryKey;size:64" json:"item_id"`

	Director        string `gorm:"size:255" json:"director"`
	Cast            string `gorm:"size:2000" json:"cast"` // ordered, stored as a joined blob
	DurationMinutes int    `gorm:"default:0" json:"duration_minutes"`
	Region          string `gorm:"size:100" json:"region"`
}

// TableName specifies the table name for GORM.
func (MovieDetail) TableName() string {
	return "movie_details"
}

// CastList returns the cast as an ordered slice.
func (m *MovieDetail) CastList() []string {
	return SplitList(m.Cast)
}

// SetCast stores an ordered cast sequence.
func (m *MovieDetail) SetCast(cast []string) {
	m.Cast = JoinList(cast)
}
