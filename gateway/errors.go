package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrNoImage             = errors.New("the AI model did not return an image. This can happen due to safety filters or if the request is too complex. Please try a different image")
	ErrNoVideo             = errors.New("video generation finished without a video")
	ErrUnsupportedMIMEType = errors.New("Unsupported MIME type")
	ErrNoCredential        = errors.New("no API key selected")
	ErrEmptyKey            = errors.New("api key is empty")
)

// BlockedError is returned when the prompt itself was rejected.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request was blocked. Reason: %s", e.Reason)
}

// FinishReasonError is returned when no image came back and the candidate
// stopped for a reason other than STOP.
type FinishReasonError struct {
	Reason string
}

func (e *FinishReasonError) Error() string {
	return fmt.Sprintf("image generation stopped unexpectedly. Reason: %s. This often relates to safety settings", e.Reason)
}

// TextResponseError is returned when the model answered with text only.
type TextResponseError struct {
	Text string
}

func (e *TextResponseError) Error() string {
	return fmt.Sprintf("the AI model did not return an image. The model responded with text: %q", e.Text)
}

// CredentialError marks a missing or rejected API key. Callers should ask the
// user to select a key again rather than treat it as a generic failure.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("API key is missing or invalid: %v", e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// CredentialInvalid lets callers detect the condition without importing this package.
func (e *CredentialError) CredentialInvalid() bool { return true }
