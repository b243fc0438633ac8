package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/w-h-a/lectern/blob"
)

// fsStore keeps uploaded decks in a flat local directory, keyed by filename.
type fsStore struct {
	dir string
}

func (s *fsStore) Upload(ctx context.Context, name string, content []byte) (string, error) {
	if !blob.Accepted(name) {
		return "", blob.ErrUnsupportedExtension
	}

	key := filepath.Base(name)

	if err := os.WriteFile(filepath.Join(s.dir, key), content, 0o644); err != nil {
		return "", err
	}

	return key, nil
}

func (s *fsStore) List(ctx context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var keys []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !blob.Accepted(name) || !strings.HasPrefix(name, prefix) {
			continue
		}
		keys = append(keys, name)
	}

	return keys, nil
}

func NewStore(dir string) (blob.Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &fsStore{dir: dir}, nil
}
