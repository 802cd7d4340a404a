package models

// GameDetail holds game-specific attributes, one-to-one with an Item of
// kind GAME. Platforms and DLCs are exclusively owned by the detail record
// and are destroyed with it.
type GameDetail struct {
	ItemID string `gorm:"primaryKey;size:64" json:"item_id"`

	Developer   string `gorm:"size:255" json:"developer"`
	Publisher   string `gorm:"size:255" json:"publisher"`
	ReleaseDate string `gorm:"size:20" json:"release_date"`

	Platforms []GamePlatform `gorm:"foreignKey:ItemID;references:ItemID" json:"platforms,omitempty"`
	DLCs      []GameDLC      `gorm:"foreignKey:ItemID;references:ItemID" json:"dlcs,omitempty"`
}

// TableName specifies the table name for GORM.
func (GameDetail) TableName() string {
	return "game_details"
}

// GamePlatform records one platform a game is tracked on.
type GamePlatform struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID  string `gorm:"size:64;index" json:"item_id"`
	Name    string `gorm:"size:100" json:"name"`
	Owned   bool   `gorm:"default:false" json:"owned"`
	Digital bool   `gorm:"default:false" json:"digital"`
	Store   string `gorm:"size:100" json:"store"`
}

// TableName specifies the table name for GORM.
func (GamePlatform) TableName() string {
	return "game_platforms"
}

// GameDLC records one piece of downloadable content for a game.
type GameDLC struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID    string `gorm:"size:64;index" json:"item_id"`
	Name      string `gorm:"size:255" json:"name"`
	Owned     bool   `gorm:"default:false" json:"owned"`
	Completed bool   `gorm:"default:false" json:"completed"`
}

// TableName specifies the table name for GORM.
func (GameDLC) TableName() string {
	return "game_dlcs"
}
