package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddslens_catalog_fetches_total",
		Help: "The total number of catalog fetch attempts per upstream endpoint",
	}, []string{"endpoint", "status"})

	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "oddslens_catalog_markets",
		Help: "Number of contracts in the live catalog snapshot",
	})

	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddslens_catalog_cache_requests_total",
		Help: "Catalog cache lookups by outcome (hit, refresh, stale)",
	}, []string{"outcome"})

	MatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddslens_match_requests_total",
		Help: "The total number of headline match requests",
	}, []string{"status"})

	MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oddslens_match_batch_duration_seconds",
		Help:    "Duration of a headline batch match",
		Buckets: prometheus.DefBuckets,
	})

	HeadlinesMatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddslens_headlines_total",
		Help: "Headlines scored, by whether any contract cleared the threshold",
	}, []string{"result"})

	EmbeddingBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddslens_embedding_batches_total",
		Help: "Embedding batch calls by outcome",
	}, []string{"status"})
)
