package extractor

import (
	"context"
	"errors"
	"fmt"
)

const (
	TypePptx = "pptx"
	TypePdf  = "pdf"
)

var (
	ErrUnsupported    = errors.New("unsupported document format")
	ErrNotImplemented = errors.New("extraction not implemented for this format")
)

type Extractor interface {
	Extract(ctx context.Context, filename string, content []byte) (*Document, error)
}

// Document holds the raw per-slide text of one deck, in slide order.
// Slide numbers in downstream metadata are derived from position, 1-indexed.
type Document struct {
	Filename string
	Slides   []string
	Type     string
}

type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
