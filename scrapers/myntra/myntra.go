package myntra

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/raushankrgupta/tryon-studio/scrapers/base"
	"github.com/raushankrgupta/tryon-studio/scrapers/opengraph"
	"go.uber.org/zap"
)

const stateMarker = "window.__myx ="

type MyntraScraper struct {
	*base.BaseScraper
}

func NewMyntraScraper(headless bool, log *zap.Logger) *MyntraScraper {
	return &MyntraScraper{
		BaseScraper: base.NewBaseScraper(headless, log),
	}
}

func (s *MyntraScraper) CanScrape(url string) bool {
	return strings.Contains(url, "myntra.com")
}

func (s *MyntraScraper) ScrapeItem(ctx context.Context, url string) (*models.WardrobeItem, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		// Product data lives in an inline script; h1 is enough for the HTML fallback
		return strings.Contains(doc.Text(), "window.__myx") || doc.Find("h1").Length() > 0
	})
	if err != nil {
		return nil, err
	}
	return itemFromDocument(url, doc)
}

type pageState struct {
	PDPData struct {
		Name  string `json:"name"`
		Media struct {
			Albums []struct {
				Images []struct {
					Src string `json:"src"`
				} `json:"images"`
			} `json:"albums"`
		} `json:"media"`
	} `json:"pdpData"`
}

func itemFromDocument(url string, doc *goquery.Document) (*models.WardrobeItem, error) {
	var state pageState
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		i := strings.Index(text, stateMarker)
		if i < 0 {
			return true
		}
		raw := strings.TrimSuffix(strings.TrimSpace(text[i+len(stateMarker):]), ";")
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return true
		}
		return false
	})

	var image string
	for _, album := range state.PDPData.Media.Albums {
		for _, img := range album.Images {
			if img.Src != "" {
				image = img.Src
				break
			}
		}
		if image != "" {
			break
		}
	}

	name := state.PDPData.Name
	if name == "" {
		name = strings.TrimSpace(doc.Find(".pdp-title").Text() + " " + doc.Find(".pdp-name").Text())
	}
	if image == "" {
		image = backgroundImage(doc.Find(".image-grid-image").First().AttrOr("style", ""))
	}

	if image == "" {
		// Fall back to the page's link-preview metadata
		item, err := opengraph.ItemFromDocument(url, doc)
		if err != nil {
			return nil, errors.New("could not find a product image on the Myntra page")
		}
		if name != "" {
			item = base.NewItem(url, name, item.URL)
		}
		return item, nil
	}
	if name == "" {
		name = "Myntra item"
	}
	return base.NewItem(url, name, base.AbsoluteURL(url, image)), nil
}

// backgroundImage extracts the url from a `background-image: url("...")` style.
func backgroundImage(style string) string {
	start := strings.Index(style, "url(")
	if start < 0 {
		return ""
	}
	start += len("url(")
	end := strings.Index(style[start:], ")")
	if end < 0 {
		return ""
	}
	return strings.Trim(style[start:start+end], "\"'")
}
