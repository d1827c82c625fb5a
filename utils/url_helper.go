package utils

import (
	"context"
	"net/http"
	"time"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ResolveShortenedURL follows redirects to find the final URL
func ResolveShortenedURL(ctx context.Context, url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return url, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := client.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			resp.Body.Close()
		}
		// Some shops reject HEAD, retry with GET
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return url, err
		}
		req.Header.Set("User-Agent", browserUserAgent)

		resp, err = client.Do(req)
		if err != nil {
			return url, err
		}
	}
	defer resp.Body.Close()

	return resp.Request.URL.String(), nil
}
