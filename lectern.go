package lectern

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/w-h-a/lectern/blob"
	"github.com/w-h-a/lectern/chunker"
	"github.com/w-h-a/lectern/composer"
	"github.com/w-h-a/lectern/embedder"
	"github.com/w-h-a/lectern/extractor"
	"github.com/w-h-a/lectern/extractor/pdf"
	"github.com/w-h-a/lectern/extractor/pptx"
	"github.com/w-h-a/lectern/generator"
	"github.com/w-h-a/lectern/retriever"
	"github.com/w-h-a/lectern/store"
)

// Assistant wires the ingestion pipeline (blob dedup, extraction, chunking,
// embedding, indexing) to the query pipeline (retrieval, answer composition).
type Assistant struct {
	options    Options
	blob       blob.Store
	embedder   embedder.Embedder
	store      store.Store
	extractors map[string]extractor.Extractor
	chunker    *chunker.Chunker
	retriever  *retriever.Retriever
	composer   *composer.Composer
}

// Ingest pushes one deck through the pipeline. A file whose name already
// exists in the blob store is skipped without re-extraction or re-embedding.
func (a *Assistant) Ingest(ctx context.Context, filename string, content []byte) (*IngestReport, error) {
	name := filepath.Base(filename)

	if !blob.Accepted(name) {
		return nil, fmt.Errorf("%s: %w", name, blob.ErrUnsupportedExtension)
	}

	existing, err := a.blob.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list blob store: %w", err)
	}

	if slices.Contains(existing, name) {
		slog.InfoContext(ctx, "file already processed; skipping", "filename", name)
		return &IngestReport{Filename: name, Skipped: true}, nil
	}

	if _, err := a.blob.Upload(ctx, name, content); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")

	ex, ok := a.extractors[ext]
	if !ok {
		return nil, &extractor.ExtractionError{Filename: name, Err: extractor.ErrUnsupported}
	}

	doc, err := ex.Extract(ctx, name, content)
	if err != nil {
		return nil, err
	}

	chunks := a.chunker.Chunk(doc)

	report := &IngestReport{
		Filename: name,
		Slides:   len(doc.Slides),
		Chunks:   len(chunks),
	}

	if len(chunks) == 0 {
		slog.InfoContext(ctx, "no retrievable text in deck", "filename", name)
		return report, nil
	}

	embeddings, err := embedder.EmbedBatch(ctx, a.embedder, chunks)
	if err != nil {
		return nil, err
	}

	if err := a.store.EnsureIndex(ctx, a.options.Index, a.options.Dimension, a.options.Metric); err != nil {
		return nil, err
	}

	records := make([]store.Record, 0, len(embeddings))

	for _, emb := range embeddings {
		records = append(records, store.Record{
			Values: emb.Vector,
			Metadata: map[string]any{
				"text":          emb.Chunk.Text,
				"filename":      emb.Chunk.Metadata.Filename,
				"slide_number":  emb.Chunk.Metadata.SlideNumber,
				"document_type": emb.Chunk.Metadata.Type,
			},
		})
	}

	if err := a.store.Upsert(ctx, a.options.Index, records); err != nil {
		return nil, err
	}

	return report, nil
}

// IngestAll processes each file independently. One failing deck never aborts
// its siblings; per-file outcomes are reported side by side.
func (a *Assistant) IngestAll(ctx context.Context, files []File) []IngestResult {
	results := make([]IngestResult, 0, len(files))

	for _, file := range files {
		report, err := a.Ingest(ctx, file.Name, file.Content)
		if err != nil {
			slog.ErrorContext(ctx, "failed to ingest file", "filename", file.Name, "error", err)
		}
		results = append(results, IngestResult{
			Filename: filepath.Base(file.Name),
			Report:   report,
			Err:      err,
		})
	}

	return results
}

// IngestDir ingests every supported file in a local directory, skipping
// anything with an unsupported extension.
func (a *Assistant) IngestDir(ctx context.Context, dir string) ([]IngestResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var results []IngestResult

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !blob.Accepted(entry.Name()) {
			slog.InfoContext(ctx, "unsupported file format; skipping", "filename", entry.Name())
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			results = append(results, IngestResult{Filename: entry.Name(), Err: err})
			continue
		}

		report, err := a.Ingest(ctx, entry.Name(), content)
		if err != nil {
			slog.ErrorContext(ctx, "failed to ingest file", "filename", entry.Name(), "error", err)
		}

		results = append(results, IngestResult{Filename: entry.Name(), Report: report, Err: err})
	}

	return results, nil
}

// Ask retrieves the most similar slides and composes a grounded answer. When
// nothing relevant is stored, the answer is the fixed no-information message
// and carries no sources.
func (a *Assistant) Ask(ctx context.Context, query string) (*Answer, error) {
	results, err := a.retriever.Search(ctx, query, a.options.TopK)
	if err != nil {
		return nil, err
	}

	text, err := a.composer.Answer(ctx, query, results)
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Text:    text,
		Sources: toSources(results),
	}

	return answer, nil
}

// Files lists the decks currently held in the blob store.
func (a *Assistant) Files(ctx context.Context) ([]string, error) {
	return a.blob.List(ctx, "")
}

func toSources(results []retriever.Result) []Source {
	sources := make([]Source, 0, len(results))

	for _, result := range results {
		filename, _ := result.Metadata["filename"].(string)
		sources = append(sources, Source{
			Filename: filename,
			Slide:    toInt(result.Metadata["slide_number"]),
		})
	}

	return sources
}

// toInt tolerates the numeric types metadata picks up across JSON round
// trips.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	}
	return 0
}

func New(
	blobStore blob.Store,
	emb embedder.Embedder,
	vectorStore store.Store,
	gen generator.Generator,
	opts ...Option,
) *Assistant {
	options := NewOptions(opts...)

	extractors := map[string]extractor.Extractor{
		extractor.TypePptx: pptx.NewExtractor(),
		extractor.TypePdf:  pdf.NewExtractor(),
	}

	retrieverOpts := []retriever.Option{
		retriever.WithEmbedder(emb),
		retriever.WithStore(vectorStore),
		retriever.WithIndex(options.Index),
		retriever.WithTopK(options.TopK),
	}
	if options.LocalRanking {
		retrieverOpts = append(retrieverOpts, retriever.WithLocalRanking())
	}

	a := &Assistant{
		options:    options,
		blob:       blobStore,
		embedder:   emb,
		store:      vectorStore,
		extractors: extractors,
		chunker:    chunker.New(),
		retriever:  retriever.New(retrieverOpts...),
		composer:   composer.New(composer.WithGenerator(gen)),
	}

	return a
}
