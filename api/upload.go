package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/raushankrgupta/tryon-studio/media"
)

const maxUploadSize = 10 << 20

var errNotAnImage = errors.New("please select an image file")

// readImageUpload reads the multipart file in field and rejects anything
// that is not an image.
func readImageUpload(w http.ResponseWriter, r *http.Request, field string) (media.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return media.Image{}, fmt.Errorf("invalid upload: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return media.Image{}, fmt.Errorf("missing %q file: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return media.Image{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > maxUploadSize {
		return media.Image{}, fmt.Errorf("file is larger than %d MB", maxUploadSize>>20)
	}

	img := media.NewImage(data, header.Header.Get("Content-Type"))
	if !img.IsImage() {
		return media.Image{}, errNotAnImage
	}
	return img, nil
}
