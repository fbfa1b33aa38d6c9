package match

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oddslens/oddslens/internal/core/catalog"
	"github.com/oddslens/oddslens/internal/core/embeddings"
	"github.com/oddslens/oddslens/internal/platform/observability"
)

const (
	contractEmbedMaxLen  = 256
	contractEmbedTimeout = 2 * time.Minute
)

// CatalogInfo describes the snapshot a batch was matched against.
type CatalogInfo struct {
	MarketCount int
	Origin      string
}

// Service answers headline batches from the cached catalog. It owns the
// glue between cache, vector store, and matcher; the scoring itself stays
// pure inside Matcher.
type Service struct {
	cache   *catalog.Cache
	vectors *embeddings.Store
	matcher *Matcher
	logger  *zerolog.Logger
}

func NewService(cache *catalog.Cache, vectors *embeddings.Store, matcher *Matcher, logger *zerolog.Logger) *Service {
	return &Service{
		cache:   cache,
		vectors: vectors,
		matcher: matcher,
		logger:  logger,
	}
}

// MatchHeadlines scores every headline in the batch against the live
// snapshot. Duplicate headlines are collapsed before any embedding call and
// scored once; headlines without a match are absent from the result map.
// The only hard error is a catalog fetch failure with no stale fallback.
func (s *Service) MatchHeadlines(ctx context.Context, headlines []string) (map[string][]Result, CatalogInfo, error) {
	started := time.Now()

	snap, err := s.cache.Get(ctx)
	if err != nil {
		observability.MatchRequests.WithLabelValues("error").Inc()
		return nil, CatalogInfo{}, err
	}

	s.embedSnapshotAsync(snap)

	unique := dedupe(headlines)

	if s.vectors.Enabled() {
		s.vectors.EnsureHeadlines(ctx, unique)
	}

	results := make(map[string][]Result)

	for _, headline := range unique {
		matches := s.matcher.FindMatches(headline, snap)
		if len(matches) == 0 {
			observability.HeadlinesMatched.WithLabelValues("none").Inc()
			continue
		}

		observability.HeadlinesMatched.WithLabelValues("matched").Inc()
		results[headline] = matches
	}

	observability.MatchRequests.WithLabelValues("ok").Inc()
	observability.MatchDuration.Observe(time.Since(started).Seconds())

	s.logger.Debug().
		Str("batch_id", uuid.NewString()).
		Int("headlines", len(unique)).
		Int("matched", len(results)).
		Int("markets", len(snap.Contracts)).
		Str("origin", snap.Origin).
		Dur("elapsed", time.Since(started)).
		Msg("headline batch matched")

	return results, CatalogInfo{MarketCount: len(snap.Contracts), Origin: snap.Origin}, nil
}

// WarmCache triggers a catalog refresh without a headline batch, so the
// first real batch is served from a warm cache.
func (s *Service) WarmCache(ctx context.Context) (CatalogInfo, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return CatalogInfo{}, err
	}

	s.embedSnapshotAsync(snap)

	return CatalogInfo{MarketCount: len(snap.Contracts), Origin: snap.Origin}, nil
}

// embedSnapshotAsync kicks off contract embedding for a fresh snapshot
// without blocking the request. The store ignores generations it has
// already embedded, so calling this per batch is cheap.
func (s *Service) embedSnapshotAsync(snap *catalog.Snapshot) {
	if !s.vectors.Enabled() {
		return
	}

	items := make([]embeddings.Item, 0, len(snap.Contracts))
	for i := range snap.Contracts {
		c := &snap.Contracts[i]
		items = append(items, embeddings.Item{
			Key:  c.Ticker,
			Text: contractEmbedText(c),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), contractEmbedTimeout)
		defer cancel()

		s.vectors.EmbedContracts(ctx, snap.Generation, items)
	}()
}

// contractEmbedText builds the text embedded for a contract, truncated so a
// batch stays within the provider's payload budget.
func contractEmbedText(c *catalog.Contract) string {
	parts := make([]string, 0, 3)

	for _, p := range []string{c.Title, c.Subtitle, c.EventTitle} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	joined := strings.Join(parts, " ")
	if len(joined) > contractEmbedMaxLen {
		joined = joined[:contractEmbedMaxLen]
	}

	return joined
}

func dedupe(headlines []string) []string {
	seen := make(map[string]bool, len(headlines))
	unique := make([]string, 0, len(headlines))

	for _, h := range headlines {
		if h == "" || seen[h] {
			continue
		}

		seen[h] = true
		unique = append(unique, h)
	}

	return unique
}
