package models

// BookDetail holds book-specific attributes, one-to-one with an Item of
// kind BOOK.
type BookDetail struct {
	ItemID string `gorm:"primaryKey;size:64" json:"item_id"`

	Author      string `gorm:"size:500" json:"author"`
	ISBN        string `gorm:"size:20;index" json:"isbn"`
	PageCount   int    `gorm:"default:0" json:"page_count"`
	Publisher   string `gorm:"size:255" json:"publisher"`
	Translator  string `gorm:"size:255" json:"translator"`
	Series      string `gorm:"size:255" json:"series"`
	Binding     string `gorm:"size:50" json:"binding"`
	Price       string `gorm:"size:50" json:"price"`
	PublishDate string `gorm:"size:50" json:"publish_date"`
}

// TableName specifies the table name for GORM.
func (BookDetail) TableName() string {
	return "book_details"
}
