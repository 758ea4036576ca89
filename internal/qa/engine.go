// Package qa answers questions grounded in a single uploaded document: the
// document is chunked, each chunk embedded into an in-memory index, and the
// generation model is asked to answer from the top-matching chunks alone.
package qa

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// topChunks is how many retrieved chunks feed the answer prompt.
const topChunks = 4

// answerTemperature is fixed low to favor factual consistency over flair.
const answerTemperature = 0.3

const answerPrompt = `Answer the question based only on the provided context.

Context:
%s

Question: %s

Answer:`

// Embedder turns text into a vector for similarity comparison.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

type Engine struct {
	Embedder  Embedder
	Generator Generator
}

func NewEngine(embedder Embedder, generator Generator) *Engine {
	return &Engine{Embedder: embedder, Generator: generator}
}

type scoredChunk struct {
	text  string
	score float64
}

// Answer embeds the document's chunks, retrieves the ones most similar to
// the question, and asks the model to answer from that context only. Any
// failure in the chain aborts the whole request; nothing partial escapes.
func (e *Engine) Answer(ctx context.Context, document, question string) (string, error) {
	chunks := SplitText(document, ChunkSize, ChunkOverlap)
	if len(chunks) == 0 {
		return "", fmt.Errorf("document has no text to index")
	}

	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		v, err := e.Embedder.Embed(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("embedding chunk %d: %w", i+1, err)
		}
		vectors[i] = v
	}

	qv, err := e.Embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}

	scored := make([]scoredChunk, len(chunks))
	for i := range chunks {
		scored[i] = scoredChunk{text: chunks[i], score: cosine(qv, vectors[i])}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	k := topChunks
	if k > len(scored) {
		k = len(scored)
	}
	contextTexts := make([]string, k)
	for i := 0; i < k; i++ {
		contextTexts[i] = scored[i].text
	}

	prompt := fmt.Sprintf(answerPrompt, strings.Join(contextTexts, "\n\n"), question)
	return e.Generator.Generate(ctx, prompt, answerTemperature)
}

// cosine is the similarity between two vectors; zero when either is empty
// or degenerate.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
