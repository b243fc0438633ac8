package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

const (
	MetricCosine = "cosine"

	DefaultListCap = 10000
)

var (
	ErrIndexNotFound      = errors.New("index not found")
	ErrDimensionMismatch  = errors.New("embedding dimension does not match index dimension")
	ErrMetricNotSupported = errors.New("similarity metric not supported")
)

// Store is a remote (or in-process) vector index keyed by name. Records are
// append-only; ids are assigned by Upsert and are collision-free, so
// concurrent uploaders never overwrite each other.
type Store interface {
	// EnsureIndex creates the named index if absent. Creating an index that
	// already exists with the same dimension is a no-op.
	EnsureIndex(ctx context.Context, name string, dimension int, metric string) error

	// Upsert appends records, assigning each an id. A record whose vector
	// does not match the index dimension fails the whole call.
	Upsert(ctx context.Context, name string, records []Record) error

	// Query returns the topK most similar records, best first.
	Query(ctx context.Context, name string, vector []float32, topK int) ([]Record, error)

	// ListAll fetches the stored records up to the configured cap. Backends
	// without a listing primitive emulate it with a capped similarity query
	// seeded by a random probe vector; results are only complete while the
	// corpus stays under the cap.
	ListAll(ctx context.Context, name string) ([]Record, error)
}

type IndexError struct {
	Index string
	Op    string
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %s: %v", e.Index, e.Op, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// WarnNearCap flags a ListAll result that is close enough to the cap that
// records may be getting silently truncated.
func WarnNearCap(ctx context.Context, index string, count int, limit int) {
	if limit <= 0 || count*10 < limit*9 {
		return
	}
	slog.WarnContext(
		ctx,
		"listing approached the result cap; corpus may exceed what was fetched",
		"index", index,
		"count", count,
		"cap", limit,
	)
}
