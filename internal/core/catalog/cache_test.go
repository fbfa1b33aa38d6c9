package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFetchBoom = errors.New("upstream down")

type stubFetcher struct {
	mu    sync.Mutex
	calls int
	snap  *Snapshot
	err   error
	delay time.Duration
}

func (s *stubFetcher) Fetch(_ context.Context) (*Snapshot, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	if s.err != nil {
		return nil, s.err
	}

	snap := *s.snap

	return &snap, nil
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func testSnapshot() *Snapshot {
	return &Snapshot{
		Contracts: []Contract{{Ticker: "TEST-1", Title: "Test market"}},
		Origin:    "https://a.example.com",
		FetchedAt: time.Now(),
	}
}

func TestCache_FreshHitAvoidsSecondFetch(t *testing.T) {
	fetcher := &stubFetcher{snap: testSnapshot()}
	cache := NewCache(fetcher, 5*time.Minute, &testLogger)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.callCount())
	assert.Same(t, first, second)
}

func TestCache_ExpiredTriggersRefresh(t *testing.T) {
	fetcher := &stubFetcher{snap: testSnapshot()}
	cache := NewCache(fetcher, 5*time.Minute, &testLogger)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	// Move the clock past the TTL.
	cache.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestCache_StalePreferredOverEmpty(t *testing.T) {
	fetcher := &stubFetcher{snap: testSnapshot()}
	cache := NewCache(fetcher, 5*time.Minute, &testLogger)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	cache.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	fetcher.err = errFetchBoom

	stale, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, stale)
}

func TestCache_ErrorWithNoSnapshotPropagates(t *testing.T) {
	fetcher := &stubFetcher{err: errFetchBoom}
	cache := NewCache(fetcher, 5*time.Minute, &testLogger)

	_, err := cache.Get(context.Background())
	require.ErrorIs(t, err, errFetchBoom)
	assert.Nil(t, cache.Current())
}

func TestCache_GenerationIncrementsPerPublish(t *testing.T) {
	fetcher := &stubFetcher{snap: testSnapshot()}
	cache := NewCache(fetcher, 5*time.Minute, &testLogger)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Generation)

	cache.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Generation)
}

func TestCache_ConcurrentCallersShareOneFetch(t *testing.T) {
	fetcher := &stubFetcher{snap: testSnapshot(), delay: 50 * time.Millisecond}
	cache := NewCache(fetcher, 5*time.Minute, &testLogger)

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := cache.Get(context.Background())
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, fetcher.callCount())
}
