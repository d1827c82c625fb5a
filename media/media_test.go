package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestParseDataURL(t *testing.T) {
	img := Image{MIMEType: "image/png", Data: pngHeader}

	parsed, err := ParseDataURL(img.DataURL())
	require.NoError(t, err)
	assert.Equal(t, "image/png", parsed.MIMEType)
	assert.Equal(t, pngHeader, parsed.Data)

	_, err = ParseDataURL("data:image/png,notbase64")
	assert.ErrorIs(t, err, ErrInvalidDataURL)

	_, err = ParseDataURL("https://example.com/a.png")
	assert.ErrorIs(t, err, ErrInvalidDataURL)
}

func TestNewImage_SniffsMissingType(t *testing.T) {
	img := NewImage(pngHeader, "")
	assert.Equal(t, "image/png", img.MIMEType)
	assert.True(t, img.IsImage())

	txt := NewImage([]byte("hello world"), "text/plain; charset=utf-8")
	assert.Equal(t, "text/plain", txt.MIMEType)
	assert.False(t, txt.IsImage())
}

func TestLocalStore_SaveLoadURL(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), "/media/", nil)
	require.NoError(t, err)

	ref, err := store.Save(ctx, Image{MIMEType: "image/png", Data: pngHeader})
	require.NoError(t, err)
	assert.Regexp(t, `^generated/[0-9a-f-]+\.png$`, ref)

	loaded, err := store.Load(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, loaded.Data)
	assert.Equal(t, "image/png", loaded.MIMEType)

	url, err := store.URL(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "/media/"+ref, url)

	_, err = store.Save(ctx, Image{})
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = store.Load(ctx, "generated/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_TraversalStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media", nil)
	require.NoError(t, err)

	p, err := store.resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.Contains(t, p, dir)
}

func TestFetcher_CachesRemoteImages(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngHeader)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	for i := 0; i < 3; i++ {
		img, err := f.Fetch(context.Background(), srv.URL+"/shirt.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MIMEType)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetcher_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
