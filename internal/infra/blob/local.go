package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStore) Upload(ctx context.Context, name, _ string, r io.Reader) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	id := NewID(name)
	dst := filepath.Join(s.dir, id)

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("creating %s: %w", id, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return Object{}, fmt.Errorf("writing %s: %w", id, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return Object{}, fmt.Errorf("closing %s: %w", id, err)
	}

	return Object{ID: id, URL: s.URL(id)}, nil
}

func (s *LocalStore) Open(_ context.Context, id string) (io.ReadCloser, string, error) {
	if err := validateID(id); err != nil {
		return nil, "", err
	}

	f, err := os.Open(filepath.Join(s.dir, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("opening %s: %w", id, err)
	}
	return f, contentTypeFor(id), nil
}

func (s *LocalStore) Delete(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", id, err)
	}
	return nil
}

func (s *LocalStore) URL(id string) string {
	return publicURL(s.baseURL, id)
}

var _ Store = (*LocalStore)(nil)
