package base

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/tryon-studio/logger"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Renderer produces the DOM of a page after client-side scripts ran.
type Renderer func(ctx context.Context, url string) (*goquery.Document, error)

// BaseScraper handles common scraping logic
type BaseScraper struct {
	Client *http.Client
	// Headless enables the Render fallback when plain HTTP yields nothing usable.
	Headless bool
	Render   Renderer
	Logger   *zap.Logger
}

// NewBaseScraper creates a new BaseScraper instance
func NewBaseScraper(headless bool, log *zap.Logger) *BaseScraper {
	return &BaseScraper{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		Headless: headless,
		Render:   RenderChromeDP,
		Logger:   logger.OrNop(log),
	}
}

// FetchDocument fetches the URL over HTTP, falling back to a headless browser
// when the response fails validator.
func (b *BaseScraper) FetchDocument(ctx context.Context, url string, validator func(*goquery.Document) bool) (*goquery.Document, error) {
	log := b.Logger.With(zap.String("url", url))

	doc, err := b.FetchDocumentHTTP(ctx, url)
	if err == nil {
		if validator(doc) {
			log.Debug("http fetch succeeded")
			return doc, nil
		}
		log.Info("http fetch yielded invalid content")
	} else {
		log.Info("http fetch failed", zap.Error(err))
	}

	if !b.Headless || b.Render == nil {
		if err == nil {
			err = errors.New("page content did not validate")
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	doc, err = b.Render(ctx, url)
	if err == nil && validator(doc) {
		log.Debug("headless render succeeded")
		return doc, nil
	}
	if err != nil {
		log.Warn("headless render failed", zap.Error(err))
	}

	return nil, fmt.Errorf("all strategies failed for %s", url)
}

// IsValidDocument rejects bot-check pages and near-empty bodies.
func IsValidDocument(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").Text()))
	if strings.Contains(title, "robot check") ||
		strings.Contains(title, "captcha") ||
		strings.Contains(title, "access denied") {
		return false
	}
	return doc.Find("meta[property='og:image']").Length() > 0 ||
		len(strings.TrimSpace(doc.Find("body").Text())) > 200
}

// FetchDocumentHTTP fetches the URL and returns a GoQuery document via standard HTTP
func (b *BaseScraper) FetchDocumentHTTP(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Common headers to mimic a real browser
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	return goquery.NewDocumentFromReader(res.Body)
}
