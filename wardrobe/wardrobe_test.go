package wardrobe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultCatalog(t *testing.T) {
	items := DefaultCatalog()
	require.NotEmpty(t, items)

	var accessories int
	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.URL)
		if item.Category == models.CategoryAccessory {
			accessories++
		}
	}
	assert.Greater(t, accessories, 0)
}

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "defaults category and name", data: `[{"id":"a","url":"a.png"}]`},
		{name: "missing url", data: `[{"id":"a"}]`, wantErr: true},
		{name: "duplicate id", data: `[{"id":"a","url":"a.png"},{"id":"a","url":"b.png"}]`, wantErr: true},
		{name: "bad category", data: `[{"id":"a","url":"a.png","category":"shoes"}]`, wantErr: true},
		{name: "not json", data: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ParseCatalog([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []models.WardrobeItem{{ID: "a", Name: "a", URL: "a.png", Category: models.CategoryClothing}}, items)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	items, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), items)

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"cap","name":"Cap","url":"cap.png","category":"accessory"}]`), 0644))
	items, err = LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.CategoryAccessory, items[0].Category)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPrefetch_KeepsAvailableItemsInOrder(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := media.NewLocalStore(dir, "/media", nil)
	require.NoError(t, err)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "catalog"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog", "a.png"), png, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog", "c.png"), png, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog", "d.png"), []byte("plain text, not an image"), 0644))

	items := []models.WardrobeItem{
		{ID: "a", URL: "catalog/a.png"},
		{ID: "b", URL: "catalog/b.png"},
		{ID: "c", URL: "catalog/c.png"},
		{ID: "d", URL: "catalog/d.png"},
	}
	got := Prefetch(ctx, store, items, 2, zap.NewNop())

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
