package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gensdk "google.golang.org/genai"
)

type fakeVideoClient struct {
	model    string
	startErr error
	polls    []*gensdk.GenerateVideosOperation
	polled   int
}

func (f *fakeVideoClient) GenerateVideos(_ context.Context, model, _ string, _ *gensdk.Image) (*gensdk.GenerateVideosOperation, error) {
	f.model = model
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &gensdk.GenerateVideosOperation{Name: "operations/1"}, nil
}

func (f *fakeVideoClient) GetVideosOperation(_ context.Context, op *gensdk.GenerateVideosOperation) (*gensdk.GenerateVideosOperation, error) {
	next := f.polls[f.polled]
	f.polled++
	return next, nil
}

func newTestVeo(t *testing.T, client *fakeVideoClient, keys KeyResolver) (*Veo, *media.LocalStore, string) {
	t.Helper()
	store, err := media.NewLocalStore(t.TempDir(), "/media", nil)
	require.NoError(t, err)
	src, err := store.Save(context.Background(), media.Image{MIMEType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	v := NewVeo(VeoConfig{
		FastModel:    "veo-fast",
		QualityModel: "veo-quality",
		PollInterval: time.Millisecond,
	}, keys, store, zap.NewNop())
	v.newClient = func(context.Context, string) (videoClient, error) { return client, nil }
	return v, store, src
}

func TestVeo_PollsAndDownloads(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("mp4-bytes"))
	}))
	defer srv.Close()

	client := &fakeVideoClient{polls: []*gensdk.GenerateVideosOperation{
		{Name: "operations/1"},
		{Name: "operations/1", Done: true, Response: &gensdk.GenerateVideosResponse{
			GeneratedVideos: []*gensdk.GeneratedVideo{{Video: &gensdk.Video{URI: srv.URL + "/files/abc?alt=media"}}},
		}},
	}}
	v, store, src := newTestVeo(t, client, NewKeyStore("secret"))

	ref, err := v.GenerateVideo(context.Background(), src, models.VideoQualityQuality)
	require.NoError(t, err)
	assert.Equal(t, "veo-quality", client.model)
	assert.Equal(t, 2, client.polled)
	assert.Equal(t, "secret", gotKey)

	out, err := store.Load(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4-bytes"), out.Data)
}

func TestVeo_EntityNotFoundIsCredentialError(t *testing.T) {
	client := &fakeVideoClient{polls: []*gensdk.GenerateVideosOperation{
		{Done: true, Error: map[string]any{"code": 404, "message": "Requested entity was not found."}},
	}}
	v, _, src := newTestVeo(t, client, NewKeyStore("secret"))

	_, err := v.GenerateVideo(context.Background(), src, models.VideoQualityFast)
	var cred *CredentialError
	require.ErrorAs(t, err, &cred)
	assert.True(t, cred.CredentialInvalid())
	assert.Equal(t, "veo-fast", client.model)
}

func TestVeo_StartFailure(t *testing.T) {
	client := &fakeVideoClient{startErr: errors.New("quota exceeded")}
	v, _, src := newTestVeo(t, client, NewKeyStore("secret"))

	_, err := v.GenerateVideo(context.Background(), src, models.VideoQualityFast)
	require.Error(t, err)
	var cred *CredentialError
	assert.False(t, errors.As(err, &cred))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestVeo_NoKey(t *testing.T) {
	v, _, src := newTestVeo(t, &fakeVideoClient{}, NewKeyStore(""))

	_, err := v.GenerateVideo(context.Background(), src, models.VideoQualityFast)
	var cred *CredentialError
	require.ErrorAs(t, err, &cred)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestVeo_InlineBytes(t *testing.T) {
	client := &fakeVideoClient{polls: []*gensdk.GenerateVideosOperation{
		{Done: true, Response: &gensdk.GenerateVideosResponse{
			GeneratedVideos: []*gensdk.GeneratedVideo{{Video: &gensdk.Video{VideoBytes: []byte("inline"), MIMEType: "video/mp4"}}},
		}},
	}}
	v, store, src := newTestVeo(t, client, NewKeyStore("secret"))

	ref, err := v.GenerateVideo(context.Background(), src, models.VideoQualityFast)
	require.NoError(t, err)
	assert.Regexp(t, `\.mp4$`, ref)

	out, err := store.Load(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("inline"), out.Data)
}
