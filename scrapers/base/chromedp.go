package base

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	renderTimeout = 90 * time.Second
	renderSettle  = 2 * time.Second
)

// RenderChromeDP loads url in headless Chrome and returns the rendered DOM.
// Only the product image and title are read from it, so images and fonts are
// not fetched.
func RenderChromeDP(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var html string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetBlockedURLs([]string{"*.woff", "*.woff2", "*.mp4"}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(renderSettle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp render of %s failed: %w", url, err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
