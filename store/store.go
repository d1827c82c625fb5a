// Package store persists the saved outfit list. Every backend keeps the whole
// list under one key and overwrites it on each save.
package store

import (
	"context"

	"github.com/raushankrgupta/tryon-studio/models"
)

// Store loads and replaces the saved outfit list.
type Store interface {
	Load(ctx context.Context) ([]models.SavedOutfit, error)
	Save(ctx context.Context, outfits []models.SavedOutfit) error
}
