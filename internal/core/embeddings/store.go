package embeddings

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/oddslens/oddslens/internal/platform/observability"
)

const defaultBatchSize = 50

// Item is one contract text to embed, keyed by ticker.
type Item struct {
	Key  string
	Text string
}

// Store caches vectors for the matcher. Contract vectors are valid only for
// the catalog snapshot generation they were computed against; a lookup with
// a different generation misses, which is how wholesale invalidation works
// without clearing anything at a racy moment. Headline vectors are keyed by
// exact text and survive snapshot swaps.
type Store struct {
	provider  Provider
	batchSize int
	logger    *zerolog.Logger

	mu         sync.RWMutex
	generation uint64
	contracts  map[string][]float32
	headlines  map[string][]float32
}

func NewStore(provider Provider, batchSize int, logger *zerolog.Logger) *Store {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = defaultBatchSize
	}

	return &Store{
		provider:  provider,
		batchSize: batchSize,
		logger:    logger,
		contracts: make(map[string][]float32),
		headlines: make(map[string][]float32),
	}
}

// Enabled reports whether semantic matching can contribute at all.
func (s *Store) Enabled() bool {
	return s.provider != nil && s.provider.IsAvailable()
}

// ContractVector returns the vector for a ticker, or nil when none exists or
// the stored vectors belong to a different snapshot generation.
func (s *Store) ContractVector(generation uint64, ticker string) []float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.generation != generation {
		return nil
	}

	return s.contracts[ticker]
}

// HeadlineVector returns the cached vector for the exact headline text.
func (s *Store) HeadlineVector(headline string) []float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.headlines[headline]
}

// EmbedContracts embeds all items for the given snapshot generation. It is a
// no-op when the store already holds that generation or embeddings are off.
// A failed batch stops the run; a partial set is only published when at
// least one batch succeeded.
func (s *Store) EmbedContracts(ctx context.Context, generation uint64, items []Item) {
	if !s.Enabled() || len(items) == 0 {
		return
	}

	s.mu.RLock()
	done := s.generation == generation
	s.mu.RUnlock()

	if done {
		return
	}

	fresh := make(map[string][]float32, len(items))

	for start := 0; start < len(items); start += s.batchSize {
		end := min(start+s.batchSize, len(items))

		texts := make([]string, 0, end-start)
		for _, item := range items[start:end] {
			texts = append(texts, item.Text)
		}

		vectors, err := s.provider.Embed(ctx, texts)
		if err != nil {
			observability.EmbeddingBatches.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Int("offset", start).Msg("contract embedding batch failed, stopping")

			break
		}

		observability.EmbeddingBatches.WithLabelValues("ok").Inc()

		for i, item := range items[start:end] {
			if i < len(vectors) && vectors[i] != nil {
				fresh[item.Key] = vectors[i]
			}
		}
	}

	if len(fresh) == 0 {
		return
	}

	s.mu.Lock()
	s.contracts = fresh
	s.generation = generation
	s.mu.Unlock()

	s.logger.Info().Int("vectors", len(fresh)).Uint64("generation", generation).Msg("contract embeddings stored")
}

// EnsureHeadlines embeds the headlines that are not cached yet, in a single
// round-trip. Oversized batches are truncated to the provider limit; callers
// deduplicate before calling.
func (s *Store) EnsureHeadlines(ctx context.Context, headlines []string) {
	if !s.Enabled() {
		return
	}

	s.mu.RLock()

	missing := make([]string, 0, len(headlines))

	for _, h := range headlines {
		if _, ok := s.headlines[h]; !ok {
			missing = append(missing, h)
		}
	}

	s.mu.RUnlock()

	if len(missing) == 0 {
		return
	}

	if len(missing) > MaxBatchSize {
		missing = missing[:MaxBatchSize]
	}

	vectors, err := s.provider.Embed(ctx, missing)
	if err != nil {
		observability.EmbeddingBatches.WithLabelValues("error").Inc()
		s.logger.Debug().Err(err).Msg("headline embedding unavailable this round")

		return
	}

	observability.EmbeddingBatches.WithLabelValues("ok").Inc()

	s.mu.Lock()

	for i, h := range missing {
		if i < len(vectors) && vectors[i] != nil {
			s.headlines[h] = vectors[i]
		}
	}

	s.mu.Unlock()
}
