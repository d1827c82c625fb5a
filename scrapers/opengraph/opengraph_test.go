package opengraph

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestItemFromDocument(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantName  string
		wantImage string
		wantCat   models.Category
	}{
		{
			name: "open graph",
			html: `<html><head>
				<meta property="og:title" content="Linen  Summer Shirt">
				<meta property="og:image" content="https://cdn.shop.test/shirt.jpg">
			</head><body></body></html>`,
			wantName:  "Linen Summer Shirt",
			wantImage: "https://cdn.shop.test/shirt.jpg",
			wantCat:   models.CategoryClothing,
		},
		{
			name: "twitter card with relative image",
			html: `<html><head>
				<meta name="twitter:title" content="Straw Sun Hat">
				<meta name="twitter:image" content="/img/hat.png">
			</head></html>`,
			wantName:  "Straw Sun Hat",
			wantImage: "https://shop.test/img/hat.png",
			wantCat:   models.CategoryAccessory,
		},
		{
			name: "largest img and h1",
			html: `<html><body><h1>Leather Belt</h1>
				<img src="/icon.png" width="16" height="16">
				<img src="/small.jpg" width="300" height="300">
				<img src="/big.jpg" width="800" height="1000">
			</body></html>`,
			wantName:  "Leather Belt",
			wantImage: "https://shop.test/big.jpg",
			wantCat:   models.CategoryAccessory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := ItemFromDocument("https://shop.test/p/123", parse(t, tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, item.Name)
			assert.Equal(t, tt.wantImage, item.URL)
			assert.Equal(t, tt.wantCat, item.Category)
			assert.True(t, strings.HasPrefix(item.ID, "import-"))
		})
	}
}

func TestItemFromDocument_NoImage(t *testing.T) {
	_, err := ItemFromDocument("https://shop.test/p/1", parse(t, `<html><head><title>Shop</title></head></html>`))
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestItemFromDocument_StableID(t *testing.T) {
	html := `<meta property="og:image" content="https://cdn.shop.test/a.jpg">`
	a, err := ItemFromDocument("https://shop.test/p/1", parse(t, html))
	require.NoError(t, err)
	b, err := ItemFromDocument("https://shop.test/p/1", parse(t, html))
	require.NoError(t, err)
	c, err := ItemFromDocument("https://shop.test/p/2", parse(t, html))
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}
