package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/w-h-a/lectern/retriever"
)

// NoInformationMessage is the fixed empty-context response. When retrieval
// returns nothing, this is the answer and the generation service is never
// called.
const NoInformationMessage = "I couldn't find any relevant information in your lecture materials. Please upload some lecture files or try a different question."

const promptHeader = `You are an educational assistant that helps students understand lecture material.
You will be given a question and relevant context from lecture slides and materials.
Please answer the question based on the provided context. If the context doesn't contain
relevant information to answer the question, state that and don't make up information.

Relevant lecture materials:
`

type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate answer: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type Composer struct {
	options Options
}

func (c *Composer) Answer(ctx context.Context, query string, results []retriever.Result) (string, error) {
	if len(results) == 0 {
		return NoInformationMessage, nil
	}

	prompt := BuildPrompt(query, results)

	answer, err := c.options.Generator.Generate(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	return answer, nil
}

// BuildPrompt enumerates each retrieved context in rank order, then appends
// the raw query.
func BuildPrompt(query string, results []retriever.Result) string {
	var b strings.Builder

	b.WriteString(promptHeader)

	for i, result := range results {
		filename, _ := result.Metadata["filename"].(string)
		fmt.Fprintf(&b, "\nContext %d (from %s): %s\n", i+1, filename, result.Text)
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n\nAnswer:", query)

	return b.String()
}

func New(opts ...Option) *Composer {
	options := NewOptions(opts...)

	if options.Generator == nil {
		panic("composer requires a generator")
	}

	return &Composer{
		options: options,
	}
}
