package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/w-h-a/lectern/retriever"
	"github.com/w-h-a/lectern/store"
)

type index struct {
	dimension int
	metric    string
	records   []store.Record
}

type memoryStore struct {
	options store.Options
	indexes map[string]*index
	mtx     sync.RWMutex
}

func (s *memoryStore) EnsureIndex(ctx context.Context, name string, dimension int, metric string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if existing, ok := s.indexes[name]; ok {
		if existing.dimension != dimension {
			return &store.IndexError{Index: name, Op: "ensure", Err: store.ErrDimensionMismatch}
		}
		return nil
	}

	if len(metric) == 0 {
		metric = store.MetricCosine
	}

	if metric != store.MetricCosine {
		return &store.IndexError{Index: name, Op: "ensure", Err: store.ErrMetricNotSupported}
	}

	s.indexes[name] = &index{
		dimension: dimension,
		metric:    metric,
	}

	return nil
}

func (s *memoryStore) Upsert(ctx context.Context, name string, records []store.Record) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	idx, ok := s.indexes[name]
	if !ok {
		return &store.IndexError{Index: name, Op: "upsert", Err: store.ErrIndexNotFound}
	}

	// Validate the whole batch before appending anything.
	for _, rec := range records {
		if len(rec.Values) != idx.dimension {
			return &store.IndexError{Index: name, Op: "upsert", Err: store.ErrDimensionMismatch}
		}
	}

	for _, rec := range records {
		if len(rec.Id) == 0 {
			rec.Id = uuid.New().String()
		}

		values := make([]float32, len(rec.Values))
		copy(values, rec.Values)
		rec.Values = values

		if rec.Metadata != nil {
			metadata := make(map[string]any, len(rec.Metadata))
			maps.Copy(metadata, rec.Metadata)
			rec.Metadata = metadata
		}

		idx.records = append(idx.records, rec)
	}

	return nil
}

func (s *memoryStore) Query(ctx context.Context, name string, vector []float32, topK int) ([]store.Record, error) {
	if topK < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	idx, ok := s.indexes[name]
	if !ok {
		return nil, &store.IndexError{Index: name, Op: "query", Err: store.ErrIndexNotFound}
	}

	candidates := make([]store.Record, 0, len(idx.records))

	for _, rec := range idx.records {
		rec.Score = float32(retriever.CosineSimilarity(vector, rec.Values))
		candidates = append(candidates, rec)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return candidates, nil
}

func (s *memoryStore) ListAll(ctx context.Context, name string) ([]store.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	idx, ok := s.indexes[name]
	if !ok {
		return nil, &store.IndexError{Index: name, Op: "list", Err: store.ErrIndexNotFound}
	}

	limit := s.options.ListCap

	records := make([]store.Record, 0, len(idx.records))
	for _, rec := range idx.records {
		if len(records) >= limit {
			break
		}
		records = append(records, rec)
	}

	store.WarnNearCap(ctx, name, len(records), limit)

	return records, nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		indexes: map[string]*index{},
		mtx:     sync.RWMutex{},
	}

	return s
}
