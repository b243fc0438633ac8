package embedder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/lectern/chunker"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	vector, ok := e.vectors[text]
	if !ok {
		return nil, errors.New("no vector for text")
	}
	return vector, nil
}

func TestEmbedBatchPreservesPairingAndOrder(t *testing.T) {
	fake := &fakeEmbedder{vectors: map[string][]float32{
		"first":  {1, 0},
		"second": {0, 1},
	}}

	chunks := []chunker.Chunk{
		{Text: "first", Metadata: chunker.Metadata{Filename: "a.pptx", SlideNumber: 1}},
		{Text: "second", Metadata: chunker.Metadata{Filename: "a.pptx", SlideNumber: 2}},
	}

	embeddings, err := EmbedBatch(context.Background(), fake, chunks)
	require.NoError(t, err)

	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{1, 0}, embeddings[0].Vector)
	assert.Equal(t, 1, embeddings[0].Chunk.Metadata.SlideNumber)
	assert.Equal(t, []float32{0, 1}, embeddings[1].Vector)
	assert.Equal(t, 2, embeddings[1].Chunk.Metadata.SlideNumber)
}

func TestEmbedBatchTagsFailingChunk(t *testing.T) {
	fake := &fakeEmbedder{vectors: map[string][]float32{
		"ok": {1, 0},
	}}

	chunks := []chunker.Chunk{
		{Text: "ok", Metadata: chunker.Metadata{Filename: "a.pptx", SlideNumber: 1}},
		{Text: "broken", Metadata: chunker.Metadata{Filename: "a.pptx", SlideNumber: 2}},
	}

	embeddings, err := EmbedBatch(context.Background(), fake, chunks)

	require.Error(t, err)
	assert.Nil(t, embeddings)

	var embedErr *Error
	require.True(t, errors.As(err, &embedErr))
	assert.Equal(t, 1, embedErr.Index)
	assert.Equal(t, "a.pptx", embedErr.Filename)
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	fake := &fakeEmbedder{}

	embeddings, err := EmbedBatch(context.Background(), fake, nil)

	require.NoError(t, err)
	assert.Empty(t, embeddings)
	assert.Zero(t, fake.calls)
}
