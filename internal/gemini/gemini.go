// Package gemini wraps the Gemini API for text generation and embeddings.
// Every call carries its own timeout so a slow upstream cannot hang a
// request indefinitely.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const (
	generativeModel = "gemini-1.5-flash"
	embeddingModel  = "text-embedding-004"

	generateTimeout = 60 * time.Second
	embedTimeout    = 30 * time.Second
)

// ErrUnavailable marks upstream failures (timeouts included) so handlers
// can report "service unavailable" instead of passing model errors off as
// generated text.
var ErrUnavailable = errors.New("generation service unavailable")

type Client struct {
	client *genai.Client
}

// New builds a Client against the Gemini API with the given key.
func New(ctx context.Context, apiKey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Client{client: c}, nil
}

// Generate runs a single synchronous completion. Temperature is in [0,1];
// higher values produce more varied output.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(
		ctx,
		generativeModel,
		genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr(temperature)},
	)
	if err != nil {
		return "", wrapUpstream("generating content", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: model returned no text", ErrUnavailable)
	}
	return text, nil
}

// Embed returns the embedding vector for one text input.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	resp, err := c.client.Models.EmbedContent(ctx, embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, wrapUpstream("embedding content", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUnavailable)
	}
	return resp.Embeddings[0].Values, nil
}

func wrapUpstream(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out", ErrUnavailable, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
