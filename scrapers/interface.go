package scrapers

import (
	"context"

	"github.com/raushankrgupta/tryon-studio/models"
)

// Scraper turns a product page into a wardrobe item
type Scraper interface {
	// CanScrape checks if the scraper can handle the given URL
	CanScrape(url string) bool
	// ScrapeItem reads the product name and primary image from the page
	ScrapeItem(ctx context.Context, url string) (*models.WardrobeItem, error)
}
