package retriever

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/lectern/store"
)

type fixedEmbedder struct {
	vector []float32
	err    error
}

func (e *fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vector, nil
}

type stubStore struct {
	records []store.Record
}

func (s *stubStore) EnsureIndex(ctx context.Context, name string, dimension int, metric string) error {
	return nil
}

func (s *stubStore) Upsert(ctx context.Context, name string, records []store.Record) error {
	s.records = append(s.records, records...)
	return nil
}

func (s *stubStore) Query(ctx context.Context, name string, vector []float32, topK int) ([]store.Record, error) {
	out := s.records
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func (s *stubStore) ListAll(ctx context.Context, name string) ([]store.Record, error) {
	return s.records, nil
}

// withSimilarity builds a unit vector whose cosine against [1,0,0] is c.
func withSimilarity(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c)), 0}
}

func TestCosineSimilarityProperties(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5}
	negated := []float32{-0.3, 1.2, -4.5}
	other := []float32{1, 0, 2}

	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity(v, negated), 1e-9)
	assert.InDelta(t, CosineSimilarity(v, other), CosineSimilarity(other, v), 1e-9)
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3}))
	assert.Zero(t, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}

func TestSearchLocalRanksDescending(t *testing.T) {
	corpus := &stubStore{records: []store.Record{
		{Values: withSimilarity(0.9), Metadata: map[string]any{"text": "high"}},
		{Values: withSimilarity(0.1), Metadata: map[string]any{"text": "low"}},
		{Values: withSimilarity(0.5), Metadata: map[string]any{"text": "mid"}},
	}}

	r := New(
		WithEmbedder(&fixedEmbedder{vector: []float32{1, 0, 0}}),
		WithStore(corpus),
		WithIndex("lectures"),
		WithLocalRanking(),
	)

	results, err := r.Search(context.Background(), "query", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "high", results[0].Text)
	assert.Equal(t, "mid", results[1].Text)
	assert.InDelta(t, 0.9, results[0].Similarity, 1e-6)
	assert.InDelta(t, 0.5, results[1].Similarity, 1e-6)
}

func TestSearchLocalBreaksTiesByOriginalOrder(t *testing.T) {
	corpus := &stubStore{records: []store.Record{
		{Values: withSimilarity(0.5), Metadata: map[string]any{"text": "first"}},
		{Values: withSimilarity(0.5), Metadata: map[string]any{"text": "second"}},
		{Values: withSimilarity(0.5), Metadata: map[string]any{"text": "third"}},
	}}

	r := New(
		WithEmbedder(&fixedEmbedder{vector: []float32{1, 0, 0}}),
		WithStore(corpus),
		WithIndex("lectures"),
		WithLocalRanking(),
	)

	results, err := r.Search(context.Background(), "query", 3)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Text)
	assert.Equal(t, "second", results[1].Text)
	assert.Equal(t, "third", results[2].Text)
}

func TestSearchLocalScoresZeroVectorAsZero(t *testing.T) {
	corpus := &stubStore{records: []store.Record{
		{Values: []float32{0, 0, 0}, Metadata: map[string]any{"text": "zero"}},
		{Values: withSimilarity(0.4), Metadata: map[string]any{"text": "real"}},
	}}

	r := New(
		WithEmbedder(&fixedEmbedder{vector: []float32{1, 0, 0}}),
		WithStore(corpus),
		WithIndex("lectures"),
		WithLocalRanking(),
	)

	results, err := r.Search(context.Background(), "query", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "real", results[0].Text)
	assert.Equal(t, "zero", results[1].Text)
	assert.Zero(t, results[1].Similarity)
}

func TestSearchEmptyCorpus(t *testing.T) {
	r := New(
		WithEmbedder(&fixedEmbedder{vector: []float32{1, 0, 0}}),
		WithStore(&stubStore{}),
		WithIndex("lectures"),
	)

	results, err := r.Search(context.Background(), "query", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchDefaultsTopK(t *testing.T) {
	records := make([]store.Record, 8)
	for i := range records {
		records[i] = store.Record{Values: withSimilarity(0.5), Metadata: map[string]any{"text": "t"}}
	}

	r := New(
		WithEmbedder(&fixedEmbedder{vector: []float32{1, 0, 0}}),
		WithStore(&stubStore{records: records}),
		WithIndex("lectures"),
		WithLocalRanking(),
	)

	results, err := r.Search(context.Background(), "query", 0)

	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestSearchSurfacesQueryEmbeddingFailure(t *testing.T) {
	r := New(
		WithEmbedder(&fixedEmbedder{err: errors.New("rate limited")}),
		WithStore(&stubStore{}),
		WithIndex("lectures"),
	)

	_, err := r.Search(context.Background(), "query", 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}
