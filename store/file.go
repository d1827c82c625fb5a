package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raushankrgupta/tryon-studio/models"
)

// FileStore keeps the list as a JSON file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}
	return &FileStore{Path: path}, nil
}

func (s *FileStore) Load(_ context.Context) ([]models.SavedOutfit, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Save writes to a temp file and renames it over the old one.
func (s *FileStore) Save(_ context.Context, outfits []models.SavedOutfit) error {
	data, err := encode(outfits)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".outfits-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

func encode(outfits []models.SavedOutfit) ([]byte, error) {
	if outfits == nil {
		outfits = []models.SavedOutfit{}
	}
	data, err := json.Marshal(outfits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode saved outfits: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]models.SavedOutfit, error) {
	var outfits []models.SavedOutfit
	if len(data) == 0 {
		return outfits, nil
	}
	if err := json.Unmarshal(data, &outfits); err != nil {
		return nil, fmt.Errorf("failed to decode saved outfits: %w", err)
	}
	return outfits, nil
}
