package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_ImportFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/s/abc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/product/42", http.StatusFound)
	})
	mux.HandleFunc("/product/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="Wool Scarf">
			<meta property="og:image" content="/img/scarf.jpg">
		</head><body></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	reg := NewRegistry(false, zap.NewNop())
	item, err := reg.Import(context.Background(), srv.URL+"/s/abc")
	require.NoError(t, err)
	assert.Equal(t, "Wool Scarf", item.Name)
	assert.Equal(t, srv.URL+"/img/scarf.jpg", item.URL)
	assert.Equal(t, "accessory", string(item.Category))
}

func TestRegistry_NoScraper(t *testing.T) {
	reg := NewRegistry(false, zap.NewNop())
	_, _, err := reg.GetScraper(context.Background(), "ftp://example.com/item")
	assert.Error(t, err)
}
