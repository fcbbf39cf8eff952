package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/velora/storefront/pkg/errors"
)

// FileStore persists snapshots as one file per key under a data directory.
// This is the device-local backend: state survives process restarts on the
// same machine only. Writes go to a temp file first and are renamed into
// place, so a crash mid-write never corrupts the previous snapshot.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load returns the snapshot stored under key.
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			nfErr := apperrors.NotFound("snapshot", key)
			ObserveOperation("file", "load", nfErr)
			return nil, nfErr
		}
		ObserveOperation("file", "load", err)
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}

	ObserveOperation("file", "load", nil)
	return data, nil
}

// Save persists the snapshot under key via an atomic temp-file rename.
func (s *FileStore) Save(ctx context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		ObserveOperation("file", "save", err)
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		ObserveOperation("file", "save", err)
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		ObserveOperation("file", "save", err)
		return fmt.Errorf("close snapshot %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		ObserveOperation("file", "save", err)
		return fmt.Errorf("rename snapshot %s: %w", key, err)
	}

	ObserveOperation("file", "save", nil)
	return nil
}

// Delete removes the snapshot under key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		ObserveOperation("file", "delete", err)
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}

	ObserveOperation("file", "delete", nil)
	return nil
}

// path maps a snapshot key to a file path. Key characters outside
// [A-Za-z0-9._-] are replaced so keys like "storefront:cart" stay valid
// file names on every platform.
func (s *FileStore) path(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, sanitized+".json")
}
