// Package embedding builds the resume-level vector used for coarse
// candidate retrieval, either by pooling evidence-unit embeddings or by
// embedding concatenated evidence text through a provider.
package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/job-scout/internal/types"
)

// Embedder is an abstraction over text-embedding providers.
type Embedder interface {
	// EmbedText returns an embedding vector for the given text.
	EmbedText(ctx context.Context, text string) (types.EmbeddingVector, error)
	// Close releases any resources held by the embedder.
	Close() error
}

// GeminiEmbedder implements Embedder using Google Gemini embedding models.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// DefaultEmbeddingModel is used when no model name is configured.
const DefaultEmbeddingModel = "text-embedding-004"

// NewGeminiEmbedder creates a Gemini-backed embedder.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{client: client, model: model}, nil
}

// EmbedText generates an embedding for the given text.
func (e *GeminiEmbedder) EmbedText(ctx context.Context, text string) (types.EmbeddingVector, error) {
	em := e.client.EmbeddingModel(e.model)

	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}

	vec := make(types.EmbeddingVector, len(resp.Embedding.Values))
	for i, v := range resp.Embedding.Values {
		vec[i] = float64(v)
	}
	return vec, nil
}

// Close releases resources held by the embedder.
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
