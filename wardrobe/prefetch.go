package wardrobe

import (
	"context"

	"github.com/raushankrgupta/tryon-studio/logger"
	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Prefetch loads every item image through store, warming the remote image
// cache, and returns the items whose image could be loaded in catalog order.
func Prefetch(ctx context.Context, store media.Store, items []models.WardrobeItem, concurrency int, log *zap.Logger) []models.WardrobeItem {
	log = logger.OrNop(log)
	if concurrency <= 0 {
		concurrency = 4
	}

	ok := make([]bool, len(items))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, item := range items {
		eg.Go(func() error {
			img, err := store.Load(egCtx, item.URL)
			if err != nil {
				log.Warn("catalog image unavailable", zap.String("item", item.ID), zap.Error(err))
				return nil
			}
			if !img.IsImage() {
				log.Warn("catalog entry is not an image", zap.String("item", item.ID), zap.String("mime", img.MIMEType))
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	eg.Wait()

	available := make([]models.WardrobeItem, 0, len(items))
	for i, item := range items {
		if ok[i] {
			available = append(available, item)
		}
	}
	return available
}
