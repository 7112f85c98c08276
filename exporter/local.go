package exporter

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// LocalStore writes artifacts below a directory and returns file:// URLs.
// Used when no bucket is configured.
type LocalStore struct {
	Dir string
}

// Put writes body to Dir/key
func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	path := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// URL returns the file:// URL of key
func (s *LocalStore) URL(ctx context.Context, key string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(s.Dir, filepath.FromSlash(key)))
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
