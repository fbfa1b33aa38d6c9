package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/oddslens/oddslens/internal/platform/observability"
)

const (
	defaultTTL = 5 * time.Minute

	cacheOutcomeHit     = "hit"
	cacheOutcomeRefresh = "refresh"
	cacheOutcomeStale   = "stale"
)

// fetchSource abstracts the Fetcher for the cache.
type fetchSource interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Cache holds at most one live snapshot. A fresh snapshot is served as-is;
// a stale or missing one triggers a refresh that concurrent callers share
// through singleflight. The swap on success is atomic: readers see either
// the old snapshot or the new one, never a partial state.
type Cache struct {
	fetcher fetchSource
	ttl     time.Duration
	logger  *zerolog.Logger
	now     func() time.Time

	mu         sync.RWMutex
	snap       *Snapshot
	generation uint64

	group singleflight.Group
}

func NewCache(fetcher fetchSource, ttl time.Duration, logger *zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the live snapshot, refreshing it when stale. If a refresh
// fails and an older snapshot exists, the stale snapshot is returned
// instead of the error: a transient upstream outage must not erase
// previously good data.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	if snap := c.fresh(); snap != nil {
		observability.CacheRequests.WithLabelValues(cacheOutcomeHit).Inc()
		return snap, nil
	}

	v, err, _ := c.group.Do("refresh", func() (any, error) {
		// A coalesced caller may arrive after a refresh just completed.
		if snap := c.fresh(); snap != nil {
			return snap, nil
		}

		snap, err := c.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.publish(snap)

		return snap, nil
	})

	if err != nil {
		if snap := c.Current(); snap != nil {
			observability.CacheRequests.WithLabelValues(cacheOutcomeStale).Inc()
			c.logger.Warn().Err(err).Time("fetched_at", snap.FetchedAt).Msg("catalog refresh failed, serving stale snapshot")

			return snap, nil
		}

		return nil, err
	}

	observability.CacheRequests.WithLabelValues(cacheOutcomeRefresh).Inc()

	return v.(*Snapshot), nil
}

// Current returns whatever snapshot is published, fresh or stale, or nil.
func (c *Cache) Current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snap
}

func (c *Cache) fresh() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap != nil && c.now().Sub(c.snap.FetchedAt) < c.ttl {
		return c.snap
	}

	return nil
}

func (c *Cache) publish(snap *Snapshot) {
	c.mu.Lock()
	c.generation++
	snap.Generation = c.generation
	c.snap = snap
	c.mu.Unlock()

	observability.CatalogSize.Set(float64(len(snap.Contracts)))
	c.logger.Info().
		Int("markets", len(snap.Contracts)).
		Str("origin", snap.Origin).
		Uint64("generation", snap.Generation).
		Msg("catalog snapshot published")
}
