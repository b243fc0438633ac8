package embedder

import (
	"context"
	"fmt"

	"github.com/w-h-a/lectern/chunker"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embedding pairs a chunk with its vector. The pairing is load-bearing:
// provenance metadata rides on it into the vector index.
type Embedding struct {
	Chunk  chunker.Chunk
	Vector []float32
}

type Error struct {
	Index    int
	Filename string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embed chunk %d of %s: %v", e.Index, e.Filename, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// EmbedBatch sends one request per chunk and preserves chunk order. A failure
// aborts the batch with an error naming the failing chunk; no partial or
// mismatched pairing is ever returned.
func EmbedBatch(ctx context.Context, e Embedder, chunks []chunker.Chunk) ([]Embedding, error) {
	embeddings := make([]Embedding, 0, len(chunks))

	for i, chunk := range chunks {
		vector, err := e.Embed(ctx, chunk.Text)
		if err != nil {
			return nil, &Error{Index: i, Filename: chunk.Metadata.Filename, Err: err}
		}

		embeddings = append(embeddings, Embedding{
			Chunk:  chunk,
			Vector: vector,
		})
	}

	return embeddings, nil
}
