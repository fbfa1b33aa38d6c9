package embeddings

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeTestLogger = zerolog.Nop()

func TestStore_ContractVectorsScopedToGeneration(t *testing.T) {
	store := NewStore(NewMockProvider(), 10, &storeTestLogger)

	items := []Item{{Key: "A-1", Text: "will rates rise"}, {Key: "B-1", Text: "world cup winner"}}
	store.EmbedContracts(context.Background(), 1, items)

	require.NotNil(t, store.ContractVector(1, "A-1"))
	require.NotNil(t, store.ContractVector(1, "B-1"))

	// A new snapshot generation invalidates all contract vectors at lookup
	// time without touching the map.
	assert.Nil(t, store.ContractVector(2, "A-1"))
}

func TestStore_ReembedOnNewGeneration(t *testing.T) {
	store := NewStore(NewMockProvider(), 10, &storeTestLogger)

	store.EmbedContracts(context.Background(), 1, []Item{{Key: "A-1", Text: "one"}})
	store.EmbedContracts(context.Background(), 2, []Item{{Key: "C-1", Text: "two"}})

	assert.Nil(t, store.ContractVector(2, "A-1"))
	assert.NotNil(t, store.ContractVector(2, "C-1"))
}

func TestStore_HeadlineVectorsSurviveGenerations(t *testing.T) {
	store := NewStore(NewMockProvider(), 10, &storeTestLogger)

	store.EnsureHeadlines(context.Background(), []string{"Fed holds rates"})
	first := store.HeadlineVector("Fed holds rates")
	require.NotNil(t, first)

	store.EmbedContracts(context.Background(), 5, []Item{{Key: "A-1", Text: "x"}})

	assert.Equal(t, first, store.HeadlineVector("Fed holds rates"))
	assert.Nil(t, store.HeadlineVector("never embedded"))
}

func TestStore_FailedProviderIsSoft(t *testing.T) {
	provider := NewMockProvider()
	provider.Fail = true
	store := NewStore(provider, 10, &storeTestLogger)

	store.EmbedContracts(context.Background(), 1, []Item{{Key: "A-1", Text: "x"}})
	store.EnsureHeadlines(context.Background(), []string{"headline"})

	assert.False(t, store.Enabled())
	assert.Nil(t, store.ContractVector(1, "A-1"))
	assert.Nil(t, store.HeadlineVector("headline"))
}

func TestStore_NilProviderDisabled(t *testing.T) {
	store := NewStore(nil, 10, &storeTestLogger)

	assert.False(t, store.Enabled())
	store.EnsureHeadlines(context.Background(), []string{"headline"})
	assert.Nil(t, store.HeadlineVector("headline"))
}

func TestStore_EmbedContractsIdempotentPerGeneration(t *testing.T) {
	provider := &countingProvider{inner: NewMockProvider()}
	store := NewStore(provider, 10, &storeTestLogger)

	items := []Item{{Key: "A-1", Text: "x"}}
	store.EmbedContracts(context.Background(), 1, items)
	store.EmbedContracts(context.Background(), 1, items)

	assert.Equal(t, 1, provider.calls)
}

type countingProvider struct {
	inner *MockProvider
	calls int
}

func (p *countingProvider) Name() ProviderName { return p.inner.Name() }
func (p *countingProvider) IsAvailable() bool  { return p.inner.IsAvailable() }

func (p *countingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	p.calls++
	return p.inner.Embed(ctx, texts)
}

func TestMockProvider_Deterministic(t *testing.T) {
	p := NewMockProvider()

	a, err := p.Embed(context.Background(), []string{"same text"})
	require.NoError(t, err)

	b, err := p.Embed(context.Background(), []string{"same text"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, CosineSimilarity(a[0], b[0]), 1e-6)
}
