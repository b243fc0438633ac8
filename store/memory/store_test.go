package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/lectern/store"
)

func TestEnsureIndexIsIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.EnsureIndex(ctx, "lectures", 3, store.MetricCosine))
	require.NoError(t, s.EnsureIndex(ctx, "lectures", 3, store.MetricCosine))
}

func TestEnsureIndexRejectsDimensionChange(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.EnsureIndex(ctx, "lectures", 3, store.MetricCosine))

	err := s.EnsureIndex(ctx, "lectures", 4, store.MetricCosine)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDimensionMismatch))
}

func TestUpsertRejectsDimensionMismatchWithoutPartialWrite(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.EnsureIndex(ctx, "lectures", 3, store.MetricCosine))

	err := s.Upsert(ctx, "lectures", []store.Record{
		{Values: []float32{1, 0, 0}},
		{Values: []float32{1, 0}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDimensionMismatch))

	records, err := s.ListAll(ctx, "lectures")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpsertAssignsUniqueIds(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.EnsureIndex(ctx, "lectures", 2, store.MetricCosine))
	require.NoError(t, s.Upsert(ctx, "lectures", []store.Record{
		{Values: []float32{1, 0}},
		{Values: []float32{0, 1}},
	}))
	require.NoError(t, s.Upsert(ctx, "lectures", []store.Record{
		{Values: []float32{1, 1}},
	}))

	records, err := s.ListAll(ctx, "lectures")
	require.NoError(t, err)
	require.Len(t, records, 3)

	seen := map[string]struct{}{}
	for _, rec := range records {
		assert.NotEmpty(t, rec.Id)
		_, dup := seen[rec.Id]
		assert.False(t, dup)
		seen[rec.Id] = struct{}{}
	}
}

func TestQueryRanksByCosineSimilarity(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.EnsureIndex(ctx, "lectures", 2, store.MetricCosine))
	require.NoError(t, s.Upsert(ctx, "lectures", []store.Record{
		{Values: []float32{0, 1}, Metadata: map[string]any{"text": "orthogonal"}},
		{Values: []float32{1, 0}, Metadata: map[string]any{"text": "exact"}},
		{Values: []float32{1, 1}, Metadata: map[string]any{"text": "diagonal"}},
	}))

	records, err := s.Query(ctx, "lectures", []float32{1, 0}, 2)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "exact", records[0].Metadata["text"])
	assert.Equal(t, "diagonal", records[1].Metadata["text"])
	assert.InDelta(t, 1.0, float64(records[0].Score), 1e-6)
}

func TestQueryUnknownIndex(t *testing.T) {
	s := NewStore()

	_, err := s.Query(context.Background(), "missing", []float32{1}, 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrIndexNotFound))
}

func TestListAllHonorsCap(t *testing.T) {
	s := NewStore(store.WithListCap(2))
	ctx := context.Background()

	require.NoError(t, s.EnsureIndex(ctx, "lectures", 1, store.MetricCosine))
	require.NoError(t, s.Upsert(ctx, "lectures", []store.Record{
		{Values: []float32{1}},
		{Values: []float32{2}},
		{Values: []float32{3}},
	}))

	records, err := s.ListAll(ctx, "lectures")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
