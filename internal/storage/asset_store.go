package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "storefront/internal/errors"
)

// AssetStore abstracts image asset persistence so catalog logic never touches
// filesystem paths directly.
type AssetStore interface {
	// Save validates the filename extension, stores the content under a
	// generated unique name and returns the public URL path.
	Save(filename string, content io.Reader) (string, error)
	// Delete removes a previously stored asset by its URL path.
	Delete(url string) error
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// LocalAssetStore stores assets on the local filesystem under a configured
// root and serves them by relative URL path.
type LocalAssetStore struct {
	root      string
	urlPrefix string
}

// NewLocalAssetStore creates the store and ensures the root directory exists.
func NewLocalAssetStore(root, urlPrefix string) (*LocalAssetStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalAssetStore{root: root, urlPrefix: urlPrefix}, nil
}

// Save stores the content under a uuid filename to avoid collisions.
func (s *LocalAssetStore) Save(filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", apperrors.ErrInvalidFileType
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("write asset file: %w", err)
	}

	return path.Join(s.urlPrefix, name), nil
}

// Delete removes the backing file. A missing file is not an error: asset
// deletion is disk cleanup, not data integrity.
func (s *LocalAssetStore) Delete(url string) error {
	if url == "" {
		return nil
	}
	name := path.Base(url)
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete asset file: %w", err)
	}
	return nil
}
