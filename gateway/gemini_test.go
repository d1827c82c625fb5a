package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeModel struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
	calls int
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.parts = parts
	return f.resp, f.err
}

func imageResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png", Data: data}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func newTestGemini(t *testing.T, model contentGenerator) (*Gemini, *media.LocalStore) {
	t.Helper()
	store, err := media.NewLocalStore(t.TempDir(), "/media", nil)
	require.NoError(t, err)
	return &Gemini{
		model:   model,
		store:   store,
		limiter: newLimiter(0),
		logger:  zap.NewNop(),
	}, store
}

func TestImageFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		check   func(t *testing.T, err error)
		wantImg bool
	}{
		{
			name:    "image part",
			resp:    imageResponse(pngBytes),
			wantImg: true,
		},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
			},
			check: func(t *testing.T, err error) {
				var blocked *BlockedError
				assert.ErrorAs(t, err, &blocked)
			},
		},
		{
			name: "finish reason other than stop",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content:      &genai.Content{Parts: []genai.Part{genai.Text("cannot do that")}},
					FinishReason: genai.FinishReasonSafety,
				}},
			},
			check: func(t *testing.T, err error) {
				var fr *FinishReasonError
				require.ErrorAs(t, err, &fr)
				assert.Contains(t, err.Error(), "Reason:")
			},
		},
		{
			name: "text only",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content:      &genai.Content{Parts: []genai.Part{genai.Text("I can only describe this image.")}},
					FinishReason: genai.FinishReasonStop,
				}},
			},
			check: func(t *testing.T, err error) {
				var text *TextResponseError
				require.ErrorAs(t, err, &text)
				assert.Equal(t, "I can only describe this image.", text.Text)
			},
		},
		{
			name: "empty",
			resp: &genai.GenerateContentResponse{},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoImage)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := imageFromResponse(tt.resp)
			if tt.wantImg {
				require.NoError(t, err)
				assert.Equal(t, "image/png", img.MIMEType)
				return
			}
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFromSDKError(t *testing.T) {
	err := fromSDKError(&genai.BlockedError{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonOther},
	})
	var blocked *BlockedError
	assert.ErrorAs(t, err, &blocked)

	err = fromSDKError(errors.New("connection reset"))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGemini_ComposeGarmentStoresResult(t *testing.T) {
	ctx := context.Background()
	fake := &fakeModel{resp: imageResponse(pngBytes)}
	g, store := newTestGemini(t, fake)

	baseRef, err := store.Save(ctx, media.Image{MIMEType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	ref, err := g.ComposeGarment(ctx, baseRef, media.Image{MIMEType: "image/png", Data: pngBytes}, models.CategoryAccessory)
	require.NoError(t, err)
	assert.NotEqual(t, baseRef, ref)

	require.Len(t, fake.parts, 3)
	assert.Equal(t, genai.Text(accessoryPrompt), fake.parts[0])

	out, err := store.Load(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, out.Data)
}

func TestGemini_RejectsNonImagePayload(t *testing.T) {
	fake := &fakeModel{resp: imageResponse(pngBytes)}
	g, _ := newTestGemini(t, fake)

	_, err := g.SynthesizeModel(context.Background(), media.Image{MIMEType: "application/pdf", Data: []byte("%PDF-1.4")})
	assert.ErrorIs(t, err, ErrUnsupportedMIMEType)
	assert.Equal(t, 0, fake.calls)
}

func TestGemini_PoseUsesInstruction(t *testing.T) {
	ctx := context.Background()
	fake := &fakeModel{resp: imageResponse(pngBytes)}
	g, store := newTestGemini(t, fake)

	baseRef, err := store.Save(ctx, media.Image{MIMEType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	_, err = g.RegeneratePose(ctx, baseRef, "Side profile view")
	require.NoError(t, err)
	assert.Contains(t, string(fake.parts[0].(genai.Text)), `"Side profile view"`)
}
