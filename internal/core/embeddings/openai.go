package embeddings

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const openaiLimiterBurst = 5

// OpenAIProvider embeds batches through the OpenAI embeddings API. It is an
// alternative to the worker provider for deployments without a dedicated
// embedding service.
type OpenAIProvider struct {
	client      *openai.Client
	model       openai.EmbeddingModel
	rateLimiter *rate.Limiter
	available   bool
}

type OpenAIConfig struct {
	APIKey string
	Model  string
	RPS    float64
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	model := openai.EmbeddingModel(cfg.Model)
	if cfg.Model == "" {
		model = openai.SmallEmbedding3
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}

	return &OpenAIProvider{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), openaiLimiterBurst),
		available:   cfg.APIKey != "",
	}
}

func (p *OpenAIProvider) Name() ProviderName {
	return ProviderOpenAI
}

func (p *OpenAIProvider) IsAvailable() bool {
	return p.available
}

func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !p.available || len(texts) == 0 {
		return nil, ErrUnavailable
	}

	if len(texts) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrUnavailable, err)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrUnavailable, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: vector index %d out of range", ErrUnavailable, d.Index)
		}

		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}
