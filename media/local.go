package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps media on the local filesystem and serves it under BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
	fetcher *Fetcher
}

// NewLocalStore creates the directory if it doesn't exist.
func NewLocalStore(dir, baseURL string, fetcher *Fetcher) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "generated"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	if fetcher == nil {
		fetcher = NewFetcher(nil)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/"), fetcher: fetcher}, nil
}

func (s *LocalStore) Save(_ context.Context, img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", ErrEmptyImage
	}
	ref := path.Join("generated", uuid.New().String()+img.Extension())
	if err := os.WriteFile(filepath.Join(s.Dir, filepath.FromSlash(ref)), img.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return ref, nil
}

func (s *LocalStore) Load(ctx context.Context, ref string) (Image, error) {
	if IsRemote(ref) {
		return s.fetcher.Fetch(ctx, ref)
	}
	p, err := s.resolve(ref)
	if err != nil {
		return Image{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Image{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return Image{}, err
	}
	return NewImage(data, ""), nil
}

func (s *LocalStore) URL(_ context.Context, ref string) (string, error) {
	if ref == "" || IsRemote(ref) {
		return ref, nil
	}
	if _, err := s.resolve(ref); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + ref, nil
}

// resolve keeps refs inside Dir.
func (s *LocalStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if clean == "/" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
