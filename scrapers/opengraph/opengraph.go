package opengraph

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/raushankrgupta/tryon-studio/scrapers/base"
	"go.uber.org/zap"
)

var ErrNoImage = errors.New("no product image found on page")

// Scraper reads OpenGraph and Twitter card metadata, which most shops publish
// for link previews.
type Scraper struct {
	*base.BaseScraper
}

func NewScraper(headless bool, log *zap.Logger) *Scraper {
	return &Scraper{BaseScraper: base.NewBaseScraper(headless, log)}
}

func (s *Scraper) CanScrape(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (s *Scraper) ScrapeItem(ctx context.Context, url string) (*models.WardrobeItem, error) {
	doc, err := s.FetchDocument(ctx, url, base.IsValidDocument)
	if err != nil {
		return nil, err
	}
	return ItemFromDocument(url, doc)
}

// ItemFromDocument extracts the product title and primary image from doc.
func ItemFromDocument(url string, doc *goquery.Document) (*models.WardrobeItem, error) {
	name := firstNonEmpty(
		meta(doc, "og:title"),
		meta(doc, "twitter:title"),
		strings.TrimSpace(doc.Find("h1").First().Text()),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	image := firstNonEmpty(
		meta(doc, "og:image:secure_url"),
		meta(doc, "og:image"),
		meta(doc, "twitter:image"),
		doc.Find("link[rel='image_src']").AttrOr("href", ""),
		largestImage(doc),
	)
	if image == "" {
		return nil, ErrNoImage
	}
	if name == "" {
		name = "Imported item"
	}
	return base.NewItem(url, name, base.AbsoluteURL(url, image)), nil
}

func meta(doc *goquery.Document, key string) string {
	sel := doc.Find("meta[property='" + key + "'], meta[name='" + key + "']").First()
	return strings.TrimSpace(sel.AttrOr("content", ""))
}

// largestImage picks the img with the biggest declared area, ignoring icons.
func largestImage(doc *goquery.Document) string {
	best, bestArea := "", 0
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", img.AttrOr("data-src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		w, _ := strconv.Atoi(img.AttrOr("width", "0"))
		h, _ := strconv.Atoi(img.AttrOr("height", "0"))
		if area := w * h; area >= 200*200 && area > bestArea {
			best, bestArea = src, area
		}
	})
	return best
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
