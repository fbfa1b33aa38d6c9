package embeddings

import (
	"context"
	"hash/fnv"
)

const mockDimensions = 16

// MockProvider generates deterministic vectors from a text hash. Identical
// texts always embed identically, which is what matcher tests rely on.
type MockProvider struct {
	// Fail makes every Embed call report ErrUnavailable.
	Fail bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() ProviderName {
	return ProviderMock
}

func (p *MockProvider) IsAvailable() bool {
	return !p.Fail
}

func (p *MockProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if p.Fail {
		return nil, ErrUnavailable
	}

	if len(texts) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = mockVector(text)
	}

	return vectors, nil
}

func mockVector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, mockDimensions)
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(state>>33)) / float32(1<<30)
	}

	return vec
}
