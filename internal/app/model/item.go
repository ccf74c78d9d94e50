package model

import "time"

// DefaultOwnerID is the single owner every item belongs to until accounts exist.
const DefaultOwnerID uint = 1

// Item is one wardrobe entry. Tag lists are stored as JSON text so the same
// schema works on postgres and sqlite.
type Item struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	Categories []Category `gorm:"type:text;serializer:json;not null" json:"categories"`
	Colors     []Color    `gorm:"type:text;serializer:json;not null" json:"colors"`
	Seasons    []Season   `gorm:"type:text;serializer:json;not null" json:"seasons"`
	Size       string     `gorm:"default:''" json:"size"`
	Material   string     `gorm:"default:''" json:"material"`
	ImagePath  string     `gorm:"default:''" json:"image_path"`
	OwnerID    uint       `gorm:"not null;default:1;index" json:"owner_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Item) TableName() string {
	return "clothing_items"
}

// PendingImageDeletion records a stored image whose removal failed and
// must be retried.
type PendingImageDeletion struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ImagePath string    `gorm:"not null" json:"image_path"`
	ItemID    uint      `gorm:"index" json:"item_id"`
	Attempts  int       `gorm:"not null;default:0" json:"attempts"`
	LastError string    `gorm:"type:text" json:"last_error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PendingImageDeletion) TableName() string {
	return "pending_image_deletions"
}
