package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/closetly/wardrobe-backend/pkg/logger"
)

// LocalStorage keeps images on disk under dir and publishes them below baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalStorage) nameFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	// only flat names are ever issued
	if name == "" || name != path.Base(name) || name == ".." {
		return "", false
	}
	return name, true
}

func (s *LocalStorage) Owns(url string) bool {
	_, ok := s.nameFromURL(url)
	return ok
}

func (s *LocalStorage) Store(_ context.Context, data []byte, contentType, filename string) (string, error) {
	name := objectName(contentType)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	logger.Debug("Image stored on disk", logger.Fields{
		"dir":      s.dir,
		"name":     name,
		"filename": filename,
		"size":     len(data),
	})
	return s.baseURL + "/" + name, nil
}

// DeleteByURL removes the file. A file that is already gone counts as deleted.
func (s *LocalStorage) DeleteByURL(_ context.Context, url string) error {
	name, ok := s.nameFromURL(url)
	if !ok {
		return fmt.Errorf("%w: %s is not a local upload", ErrDeleteFailed, url)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}
