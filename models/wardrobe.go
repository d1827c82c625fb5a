package models

import "fmt"

// Category separates garments that replace clothing from items layered on top.
type Category string

const (
	CategoryClothing  Category = "clothing"
	CategoryAccessory Category = "accessory"
)

// ParseCategory maps free-form input onto a Category, defaulting to clothing.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case "", CategoryClothing:
		return CategoryClothing, nil
	case CategoryAccessory:
		return CategoryAccessory, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// WardrobeItem represents a garment or accessory that can be tried on
type WardrobeItem struct {
	ID       string   `bson:"id" json:"id"`
	Name     string   `bson:"name" json:"name"`
	URL      string   `bson:"url" json:"url"` // Media ref or remote URL of the item image
	Category Category `bson:"category" json:"category"`
}

// VideoQuality selects the video model tier.
type VideoQuality string

const (
	VideoQualityFast    VideoQuality = "fast"
	VideoQualityQuality VideoQuality = "quality"
)

// ParseVideoQuality defaults to the fast tier when s is empty.
func ParseVideoQuality(s string) (VideoQuality, error) {
	switch VideoQuality(s) {
	case "", VideoQualityFast:
		return VideoQualityFast, nil
	case VideoQualityQuality:
		return VideoQualityQuality, nil
	}
	return "", fmt.Errorf("unknown video model %q", s)
}
