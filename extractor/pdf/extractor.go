package pdf

import (
	"context"

	"github.com/w-h-a/lectern/extractor"
)

// pdfExtractor is a declared capability without an implementation yet. It
// fails loudly so callers report the gap per file instead of skipping it.
type pdfExtractor struct{}

func (e *pdfExtractor) Extract(ctx context.Context, filename string, content []byte) (*extractor.Document, error) {
	return nil, &extractor.ExtractionError{Filename: filename, Err: extractor.ErrNotImplemented}
}

func NewExtractor() extractor.Extractor {
	return &pdfExtractor{}
}
