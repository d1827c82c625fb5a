package models

import (
	"time"
)

// SavedOutfit is a snapshot of the active outfit kept in the user's gallery
type SavedOutfit struct {
	ID        string         `bson:"id" json:"id"`
	ImageURL  string         `bson:"image_url" json:"image_url"` // Media ref of the displayed image at save time
	Garments  []WardrobeItem `bson:"garments" json:"garments"`   // Worn items in layer order, base excluded
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
