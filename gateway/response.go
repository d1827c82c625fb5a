package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/raushankrgupta/tryon-studio/media"
)

// imageFromResponse pulls the first image part out of a generation response.
// Without one, the finish reason is reported if it is not STOP, otherwise any
// text the model produced.
func imageFromResponse(resp *genai.GenerateContentResponse) (media.Image, error) {
	if resp == nil {
		return media.Image{}, ErrNoImage
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return media.Image{}, &BlockedError{Reason: fmt.Sprint(resp.PromptFeedback.BlockReason)}
	}

	var text []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch p := part.(type) {
			case genai.Blob:
				if len(p.Data) > 0 && strings.HasPrefix(p.MIMEType, "image/") {
					return media.NewImage(p.Data, p.MIMEType), nil
				}
			case genai.Text:
				if s := strings.TrimSpace(string(p)); s != "" {
					text = append(text, s)
				}
			}
		}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		fr := resp.Candidates[0].FinishReason
		if fr != genai.FinishReasonUnspecified && fr != genai.FinishReasonStop {
			return media.Image{}, &FinishReasonError{Reason: fmt.Sprint(fr)}
		}
	}
	if len(text) > 0 {
		return media.Image{}, &TextResponseError{Text: strings.Join(text, " ")}
	}
	return media.Image{}, ErrNoImage
}

// fromSDKError converts the SDK's blocked error into ours.
func fromSDKError(err error) error {
	var blocked *genai.BlockedError
	if !errors.As(err, &blocked) {
		return fmt.Errorf("failed to generate content: %w", err)
	}
	if blocked.PromptFeedback != nil {
		return &BlockedError{Reason: fmt.Sprint(blocked.PromptFeedback.BlockReason)}
	}
	if blocked.Candidate != nil {
		return &FinishReasonError{Reason: fmt.Sprint(blocked.Candidate.FinishReason)}
	}
	return fmt.Errorf("failed to generate content: %w", err)
}
