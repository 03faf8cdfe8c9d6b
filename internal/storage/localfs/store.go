// Package localfs is a filesystem ObjectStorage for development and the CLI.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"claimassist/internal/domain"
	"claimassist/internal/port"
)

// ErrInvalidKey is returned for keys that would escape the storage root.
var ErrInvalidKey = errors.New("invalid object key")

// Store keeps objects under root/<bucket>/<key>.
type Store struct {
	root string
}

var _ port.ObjectStorage = (*Store)(nil)

// NewStore creates the root directory if needed.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("localfs: empty root")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("localfs: creating root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) path(bucket, key string) (string, error) {
	if bucket == "" || key == "" || strings.Contains(bucket, "..") {
		return "", ErrInvalidKey
	}
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(clean)), nil
}

func (s *Store) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	p, err := s.path(input.Bucket, input.Key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return nil, fmt.Errorf("localfs upload: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("localfs upload: %w", err)
	}
	if _, err := io.Copy(tmp, input.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("localfs upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("localfs upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("localfs upload: %w", err)
	}
	return &port.UploadOutput{Location: "file://" + filepath.ToSlash(p)}, nil
}

func (s *Store) Download(_ context.Context, bucket, key string) ([]byte, error) {
	p, err := s.path(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("localfs download: %w", err)
	}
	return data, nil
}

func (s *Store) Delete(_ context.Context, bucket, key string) error {
	p, err := s.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("localfs delete: %w", err)
	}
	return nil
}

// GetPresignedURL returns a file:// URL; local objects need no signing.
func (s *Store) GetPresignedURL(_ context.Context, bucket, key string, _ int64) (string, error) {
	p, err := s.path(bucket, key)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(p), nil
}
