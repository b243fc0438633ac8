package chunker

import (
	"regexp"
	"strings"

	"github.com/w-h-a/lectern/extractor"
)

var (
	hardBreaks = regexp.MustCompile(`[\n\t]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Chunk is the atomic retrieval unit: cleaned slide text plus enough
// provenance to cite the source later.
type Chunk struct {
	Text     string
	Metadata Metadata
}

type Metadata struct {
	Filename    string
	SlideNumber int
	Type        string
}

// CleanText collapses newline and tab runs to a single space, then collapses
// remaining whitespace runs, then trims.
func CleanText(text string) string {
	text = hardBreaks.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

type Chunker struct {
	options Options
}

// Chunk emits one chunk per non-empty slide. Slides whose cleaned text is
// empty carry no retrievable signal and are dropped. Output preserves
// document order, then slide order; slide numbers are 1-indexed positions.
func (c *Chunker) Chunk(docs ...*extractor.Document) []Chunk {
	var chunks []Chunk

	for _, doc := range docs {
		if doc == nil {
			continue
		}

		for i, slide := range doc.Slides {
			cleaned := CleanText(slide)
			if len(cleaned) == 0 {
				continue
			}

			chunks = append(chunks, Chunk{
				Text: cleaned,
				Metadata: Metadata{
					Filename:    doc.Filename,
					SlideNumber: i + 1,
					Type:        doc.Type,
				},
			})
		}
	}

	return chunks
}

func New(opts ...Option) *Chunker {
	options := NewOptions(opts...)

	return &Chunker{
		options: options,
	}
}
