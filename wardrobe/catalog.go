// Package wardrobe provides the built-in garment catalog.
package wardrobe

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/raushankrgupta/tryon-studio/models"
)

//go:embed catalog.json
var catalogJSON []byte

// DefaultCatalog returns the embedded catalog. Item urls are media refs
// relative to the media directory.
func DefaultCatalog() []models.WardrobeItem {
	items, err := ParseCatalog(catalogJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return items
}

// LoadCatalog reads a catalog file, or returns the embedded one when path is empty.
func LoadCatalog(path string) ([]models.WardrobeItem, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a JSON list of wardrobe items.
func ParseCatalog(data []byte) ([]models.WardrobeItem, error) {
	var items []models.WardrobeItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.ID == "" || item.URL == "" {
			return nil, fmt.Errorf("catalog item %d: id and url are required", i)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("catalog item %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = true

		category, err := models.ParseCategory(string(item.Category))
		if err != nil {
			return nil, fmt.Errorf("catalog item %q: %w", item.ID, err)
		}
		items[i].Category = category
		if item.Name == "" {
			items[i].Name = item.ID
		}
	}
	return items, nil
}
