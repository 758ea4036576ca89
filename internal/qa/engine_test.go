package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps known substrings to fixed vectors so similarity
// ordering is deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, errors.New("embedding backend down")
	}
	for key, v := range f.vectors {
		if strings.Contains(text, key) {
			return v, nil
		}
	}
	return []float32{0, 0, 1}, nil
}

type fakeGenerator struct {
	prompt string
	answer string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ float32) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 3}), 1e-9)
	assert.Equal(t, 0.0, cosine(nil, []float32{1}))
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{0, 0}))
}

func TestAnswerGroundsPromptInRelevantChunks(t *testing.T) {
	// Two paragraphs far enough apart to land in separate chunks.
	relevant := "The launch date is March twelve." + strings.Repeat(" filler", 100)
	irrelevant := "Cooking rice requires patience." + strings.Repeat(" other", 100)
	document := relevant + "\n" + irrelevant

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"launch date": {1, 0, 0},
		"Cooking":     {0, 1, 0},
		"When":        {1, 0, 0}, // the question aligns with the launch chunk
	}}
	generator := &fakeGenerator{answer: "March twelve."}

	engine := NewEngine(embedder, generator)
	answer, err := engine.Answer(context.Background(), document, "When is the launch?")
	require.NoError(t, err)
	assert.Equal(t, "March twelve.", answer)

	assert.Contains(t, generator.prompt, "based only on the provided context")
	assert.Contains(t, generator.prompt, "When is the launch?")
	assert.Contains(t, generator.prompt, "The launch date is March twelve.")
	// The best-matching chunk must come first in the supplied context.
	assert.Less(t,
		strings.Index(generator.prompt, "launch date"),
		strings.Index(generator.prompt, "Cooking"))
}

func TestAnswerEmptyDocument(t *testing.T) {
	engine := NewEngine(&fakeEmbedder{}, &fakeGenerator{})
	_, err := engine.Answer(context.Background(), "   ", "anything")
	assert.Error(t, err)
}

func TestAnswerEmbeddingFailureAbortsChain(t *testing.T) {
	generator := &fakeGenerator{answer: "should never be produced"}
	engine := NewEngine(&fakeEmbedder{fail: true}, generator)

	_, err := engine.Answer(context.Background(), "some document text", "question")
	require.Error(t, err)
	assert.Empty(t, generator.prompt, "generator must not be invoked when embedding fails")
}

func TestAnswerGenerationFailurePropagates(t *testing.T) {
	genErr := errors.New("model unavailable")
	engine := NewEngine(&fakeEmbedder{}, &fakeGenerator{err: genErr})

	_, err := engine.Answer(context.Background(), "some document text", "question")
	assert.ErrorIs(t, err, genErr)
}
