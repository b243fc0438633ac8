package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/w-h-a/lectern/extractor"
)

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type pptxExtractor struct{}

func (e *pptxExtractor) Extract(ctx context.Context, filename string, content []byte) (*extractor.Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &extractor.ExtractionError{Filename: filename, Err: err}
	}

	if !hasPresentationPart(reader) {
		return nil, &extractor.ExtractionError{Filename: filename, Err: errors.New("missing ppt/presentation.xml part")}
	}

	parts, err := slideParts(reader)
	if err != nil {
		return nil, &extractor.ExtractionError{Filename: filename, Err: err}
	}

	slides := make([]string, 0, len(parts))

	for _, part := range parts {
		text, err := extractSlideText(part.file)
		if err != nil {
			return nil, &extractor.ExtractionError{Filename: filename, Err: err}
		}
		slides = append(slides, text)
	}

	doc := &extractor.Document{
		Filename: filename,
		Slides:   slides,
		Type:     extractor.TypePptx,
	}

	return doc, nil
}

type slideRef struct {
	number int
	file   *zip.File
}

func hasPresentationPart(reader *zip.Reader) bool {
	for _, file := range reader.File {
		if file.Name == "ppt/presentation.xml" {
			return true
		}
	}
	return false
}

// slideParts finds every slide part and orders them by slide number. The
// archive lists entries in arbitrary order, so sorting by the numeric suffix
// recovers file order.
func slideParts(reader *zip.Reader) ([]slideRef, error) {
	var parts []slideRef

	for _, file := range reader.File {
		match := slidePart.FindStringSubmatch(file.Name)
		if match == nil {
			continue
		}

		number, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, err
		}

		parts = append(parts, slideRef{number: number, file: file})
	}

	sort.Slice(parts, func(i, j int) bool {
		return parts[i].number < parts[j].number
	})

	return parts, nil
}

// slideXML mirrors the DrawingML structure of one slide part: a shape tree
// of shapes, each with an optional text body of paragraphs of runs.
type slideXML struct {
	CSld struct {
		SpTree spTreeXML `xml:"spTree"`
	} `xml:"cSld"`
}

type spTreeXML struct {
	Shapes []shapeXML `xml:"sp"`
}

type shapeXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}

type txBodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

type paragraphXML struct {
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text string `xml:"t"`
}

func extractSlideText(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}

	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", err
	}

	var slide slideXML
	if err := xml.Unmarshal(content, &slide); err != nil {
		return "", err
	}

	// Shape texts within a slide are joined with a newline, matching the
	// one-string-per-slide contract.
	shapeTexts := make([]string, 0, len(slide.CSld.SpTree.Shapes))

	for _, shape := range slide.CSld.SpTree.Shapes {
		if shape.TxBody == nil {
			continue
		}
		shapeTexts = append(shapeTexts, shapeText(shape.TxBody))
	}

	return strings.Join(shapeTexts, "\n"), nil
}

func shapeText(body *txBodyXML) string {
	paragraphs := make([]string, 0, len(body.Paragraphs))

	for _, paragraph := range body.Paragraphs {
		var b strings.Builder
		for _, run := range paragraph.Runs {
			b.WriteString(run.Text)
		}
		paragraphs = append(paragraphs, b.String())
	}

	return strings.Join(paragraphs, "\n")
}

func NewExtractor() extractor.Extractor {
	return &pptxExtractor{}
}
