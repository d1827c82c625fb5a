package scrapers

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/raushankrgupta/tryon-studio/scrapers/myntra"
	"github.com/raushankrgupta/tryon-studio/scrapers/opengraph"
	"github.com/raushankrgupta/tryon-studio/utils"
	"go.uber.org/zap"
)

// Registry picks a scraper for a product URL. Site specific scrapers come
// first; the OpenGraph scraper accepts any http(s) page.
type Registry struct {
	scrapers []Scraper
}

func NewRegistry(headless bool, log *zap.Logger) *Registry {
	return &Registry{scrapers: []Scraper{
		myntra.NewMyntraScraper(headless, log),
		opengraph.NewScraper(headless, log),
	}}
}

// GetScraper returns the appropriate scraper and the resolved URL
func (r *Registry) GetScraper(ctx context.Context, url string) (Scraper, string, error) {
	// Resolve shortened URLs (e.g., amzn.in, bit.ly)
	resolvedURL, err := utils.ResolveShortenedURL(ctx, url)
	if err != nil {
		return nil, url, fmt.Errorf("error resolving url: %v", err)
	}

	for _, s := range r.scrapers {
		if s.CanScrape(resolvedURL) {
			return s, resolvedURL, nil
		}
	}

	return nil, resolvedURL, fmt.Errorf("no scraper found for url: %s", resolvedURL)
}

// Import resolves url and scrapes it into a wardrobe item.
func (r *Registry) Import(ctx context.Context, url string) (*models.WardrobeItem, error) {
	s, resolved, err := r.GetScraper(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.ScrapeItem(ctx, resolved)
}
