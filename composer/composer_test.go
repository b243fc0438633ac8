package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/lectern/retriever"
)

type spyGenerator struct {
	prompt string
	answer string
	err    error
	calls  int
}

func (g *spyGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func TestAnswerGroundsPromptInRankOrder(t *testing.T) {
	gen := &spyGenerator{answer: "the answer"}
	c := New(WithGenerator(gen))

	results := []retriever.Result{
		{Text: "neural nets", Metadata: map[string]any{"filename": "lec3.pptx"}},
		{Text: "backprop", Metadata: map[string]any{"filename": "lec4.pptx"}},
	}

	answer, err := c.Answer(context.Background(), "what is backprop?", results)
	require.NoError(t, err)

	assert.Equal(t, "the answer", answer)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompt, "Context 1 (from lec3.pptx): neural nets")
	assert.Contains(t, gen.prompt, "Context 2 (from lec4.pptx): backprop")
	assert.Contains(t, gen.prompt, "Question: what is backprop?")
	assert.True(t, strings.HasSuffix(gen.prompt, "Answer:"))
}

func TestAnswerShortCircuitsOnEmptyContext(t *testing.T) {
	gen := &spyGenerator{answer: "should not be used"}
	c := New(WithGenerator(gen))

	answer, err := c.Answer(context.Background(), "anything", nil)

	require.NoError(t, err)
	assert.Equal(t, NoInformationMessage, answer)
	assert.Zero(t, gen.calls)
}

func TestAnswerWrapsGenerationFailure(t *testing.T) {
	gen := &spyGenerator{err: errors.New("model overloaded")}
	c := New(WithGenerator(gen))

	results := []retriever.Result{
		{Text: "something", Metadata: map[string]any{"filename": "lec1.pptx"}},
	}

	_, err := c.Answer(context.Background(), "question", results)

	require.Error(t, err)

	var genErr *GenerationError
	assert.True(t, errors.As(err, &genErr))
}
