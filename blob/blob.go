package blob

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var ErrUnsupportedExtension = errors.New("unsupported file extension")

// Store is the opaque deck archive. The pipeline only uses it to answer
// "was this filename already ingested" before re-processing a deck.
type Store interface {
	Upload(ctx context.Context, name string, content []byte) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// Accepted reports whether the filename carries an ingestible extension.
func Accepted(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pptx", ".pdf":
		return true
	}
	return false
}
