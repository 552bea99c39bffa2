package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fjacquet/upi-ledger/internal/logging"
)

// DefaultGeminiModel is the embedding model used when none is configured.
const DefaultGeminiModel = "text-embedding-004"

// GeminiEmbedder embeds text with the Gemini embedding API.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	name   string
	logger logging.Logger
}

// NewGeminiEmbedder opens a Gemini client for the given model.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, logger logging.Logger) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini embeddings: API key is empty")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiEmbedder{
		client: client,
		model:  client.EmbeddingModel(model),
		name:   model,
		logger: logger,
	}, nil
}

// Embed returns the normalized embedding of text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		e.logger.WithError(err).Debug("Gemini embedding request failed",
			logging.Field{Key: logging.FieldProvider, Value: e.name})
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embedding: empty response")
	}

	vec := make([]float32, len(resp.Embedding.Values))
	copy(vec, resp.Embedding.Values)
	return Normalize(vec), nil
}

// Close releases the underlying client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
