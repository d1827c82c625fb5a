package base

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	productPage = `<html><head><title>Linen Shirt</title>
		<meta property="og:image" content="https://cdn.shop.test/shirt.jpg"></head><body></body></html>`
	shellPage = `<html><head><title>Loading</title></head><body><div id="root"></div></body></html>`
)

func pageServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func staticRenderer(calls *int, html string, err error) Renderer {
	return func(ctx context.Context, url string) (*goquery.Document, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return goquery.NewDocumentFromReader(strings.NewReader(html))
	}
}

func TestFetchDocument(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		headless   bool
		renderHTML string
		renderErr  error
		wantErr    bool
		wantRender int
		wantTitle  string
	}{
		{name: "valid page over http", status: http.StatusOK, body: productPage, headless: true, wantTitle: "Linen Shirt"},
		{name: "script shell without headless", status: http.StatusOK, body: shellPage, wantErr: true},
		{name: "script shell rendered", status: http.StatusOK, body: shellPage, headless: true, renderHTML: productPage, wantRender: 1, wantTitle: "Linen Shirt"},
		{name: "http error rendered", status: http.StatusForbidden, body: "denied", headless: true, renderHTML: productPage, wantRender: 1, wantTitle: "Linen Shirt"},
		{name: "render still invalid", status: http.StatusOK, body: shellPage, headless: true, renderHTML: shellPage, wantErr: true, wantRender: 1},
		{name: "render fails", status: http.StatusOK, body: shellPage, headless: true, renderErr: errors.New("no chrome"), wantErr: true, wantRender: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := pageServer(t, tt.status, tt.body)

			calls := 0
			b := NewBaseScraper(tt.headless, zaptest.NewLogger(t))
			b.Render = staticRenderer(&calls, tt.renderHTML, tt.renderErr)

			doc, err := b.FetchDocument(context.Background(), srv.URL, IsValidDocument)
			assert.Equal(t, tt.wantRender, calls)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, doc.Find("title").Text())
		})
	}
}

func TestNewBaseScraperUsesChromeRenderer(t *testing.T) {
	b := NewBaseScraper(true, nil)
	require.NotNil(t, b.Render)
	assert.True(t, b.Headless)
}

func TestIsValidDocument_RejectsBotCheck(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><title>Robot Check</title><meta property="og:image" content="x.jpg"></head></html>`))
	require.NoError(t, err)
	assert.False(t, IsValidDocument(doc))
}
