package retriever

import (
	"context"
	"fmt"
	"sort"

	"github.com/w-h-a/lectern/store"
)

// Result is one ranked hit. Similarity is cosine, in [-1, 1]. Metadata is the
// stored record metadata and always includes filename and slide_number.
type Result struct {
	Text       string
	Similarity float64
	Metadata   map[string]any
}

type Retriever struct {
	options Options
}

// Search embeds the query with the same model that embedded the corpus and
// returns up to topK results sorted by descending similarity. Ties keep
// their original corpus order (the sort is stable). An empty corpus yields an
// empty result set, not an error; topK <= 0 falls back to the configured
// default.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = r.options.TopK
	}

	vector, err := r.options.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	if r.options.LocalRanking {
		return r.searchLocal(ctx, vector, topK)
	}

	records, err := r.options.Store.Query(ctx, r.options.Index, vector, topK)
	if err != nil {
		return nil, err
	}

	return toResults(records), nil
}

// searchLocal fetches the corpus (capped) and ranks it client-side. This is
// the fallback for stores whose query scores cannot be used directly; the
// default path is a server-side top-K query.
func (r *Retriever) searchLocal(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	records, err := r.options.Store.ListAll(ctx, r.options.Index)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(records))

	for _, rec := range records {
		results = append(results, Result{
			Text:       textOf(rec.Metadata),
			Similarity: CosineSimilarity(vector, rec.Values),
			Metadata:   rec.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

func toResults(records []store.Record) []Result {
	results := make([]Result, 0, len(records))

	for _, rec := range records {
		results = append(results, Result{
			Text:       textOf(rec.Metadata),
			Similarity: float64(rec.Score),
			Metadata:   rec.Metadata,
		})
	}

	return results
}

func textOf(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	if text, ok := metadata["text"].(string); ok {
		return text
	}
	return ""
}

func New(opts ...Option) *Retriever {
	options := NewOptions(opts...)

	if options.Embedder == nil || options.Store == nil {
		panic("retriever requires an embedder and a store")
	}

	return &Retriever{
		options: options,
	}
}
