// Package embeddings is the optional semantic-matching bridge: it obtains
// fixed-length vectors for headlines and contract titles from an external
// service and caches them scoped to the catalog snapshot generation.
//
// The bridge is soft by design. Any provider failure degrades matching to
// keyword+cluster signals only; it is never surfaced as a hard error.
package embeddings

import (
	"context"
	"errors"
	"math"
)

// ProviderName identifies an embedding provider.
type ProviderName string

const (
	ProviderWorker ProviderName = "worker"
	ProviderOpenAI ProviderName = "openai"
	ProviderMock   ProviderName = "mock"
)

// MaxBatchSize is the hard cap on texts per Embed call.
const MaxBatchSize = 100

// ErrUnavailable means the provider could not produce vectors this round.
// Callers treat it as "feature off", not as a failure of the match request.
var ErrUnavailable = errors.New("embeddings unavailable")

// ErrBatchTooLarge is returned for batches over MaxBatchSize.
var ErrBatchTooLarge = errors.New("embedding batch exceeds maximum size")

// Provider produces one vector per input text, aligned by index.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderName

	// Embed returns vectors for the given texts (at most MaxBatchSize).
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// IsAvailable reports whether the provider is configured at all.
	IsAvailable() bool
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-norm vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
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
