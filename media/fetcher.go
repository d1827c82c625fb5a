package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = time.Hour
	maxRemoteImageBytes    = 20 << 20
)

// Fetcher downloads remote images (catalog items, imported products) and keeps
// them in memory so repeated try-ons of the same garment do not refetch.
type Fetcher struct {
	client *http.Client
	cache  *cache.Cache
}

// NewFetcher creates a Fetcher. A nil client gets a 30s timeout client.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{
		client: client,
		cache:  cache.New(defaultCacheExpiration, cacheCleanupInterval),
	}
}

// Fetch resolves an http(s) or data: URL into an Image.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Image, error) {
	if cached, ok := f.cache.Get(url); ok {
		return cached.(Image), nil
	}

	var (
		img Image
		err error
	)
	if strings.HasPrefix(url, "data:") {
		img, err = ParseDataURL(url)
	} else {
		img, err = f.download(ctx, url)
	}
	if err != nil {
		return Image{}, err
	}

	f.cache.SetDefault(url, img)
	return img, nil
}

func (f *Fetcher) download(ctx context.Context, url string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Image{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := f.client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("failed to fetch image, status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImageBytes))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image body: %w", err)
	}
	return NewImage(data, resp.Header.Get("Content-Type")), nil
}
