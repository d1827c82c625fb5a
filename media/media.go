// Package media stores generated images and videos and resolves the refs the
// outfit engine passes around into bytes and browser-facing URLs.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrEmptyImage     = errors.New("image payload is empty")
	ErrInvalidDataURL = errors.New("invalid data URL")
	ErrNotFound       = errors.New("media not found")
)

// Image is a binary payload with its MIME type.
type Image struct {
	MIMEType string
	Data     []byte
}

// Store persists media payloads and hands back opaque refs.
type Store interface {
	Save(ctx context.Context, img Image) (string, error)
	Load(ctx context.Context, ref string) (Image, error)
	URL(ctx context.Context, ref string) (string, error)
}

// NewImage sniffs the MIME type when it is missing or generic.
func NewImage(data []byte, mimeType string) Image {
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return Image{MIMEType: mimeType, Data: data}
}

// IsImage reports whether the payload is an image.
func (i Image) IsImage() bool {
	return strings.HasPrefix(i.MIMEType, "image/")
}

// DataURL encodes the payload as a data: URL.
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIMEType, base64.StdEncoding.EncodeToString(i.Data))
}

// Extension returns the file extension for the payload's MIME type.
func (i Image) Extension() string {
	switch i.MIMEType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "video/mp4":
		return ".mp4"
	}
	return ".bin"
}

// ParseDataURL decodes a base64 data: URL.
func ParseDataURL(s string) (Image, error) {
	if !strings.HasPrefix(s, "data:") {
		return Image{}, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return Image{}, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return NewImage(data, strings.TrimSuffix(header, ";base64")), nil
}

// IsRemote reports whether ref points outside any Store (http(s) or data: URL).
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:")
}
