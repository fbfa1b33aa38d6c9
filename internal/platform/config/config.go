package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`

	// Catalog upstream. Endpoints are redundant mirrors tried in order,
	// never merged.
	CatalogAPIBases  []string      `env:"CATALOG_API_BASES" envSeparator:"," envDefault:"https://api.elections.kalshi.com/trade-api/v2,https://api.kalshi.com/trade-api/v2"`
	CatalogCacheTTL  time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	CatalogMaxPages  int           `env:"CATALOG_MAX_PAGES" envDefault:"4"`
	CatalogPageLimit int           `env:"CATALOG_PAGE_LIMIT" envDefault:"200"`
	CatalogTimeout   time.Duration `env:"CATALOG_FETCH_TIMEOUT" envDefault:"10s"`

	// Matching
	MatchThreshold float64 `env:"MATCH_THRESHOLD" envDefault:"0.15"`
	MatchTopN      int     `env:"MATCH_TOP_N" envDefault:"3"`

	// Embedding bridge. Disabled unless EMBED_API_URL (worker provider)
	// or EMBED_API_KEY (openai provider) is set.
	EmbedProvider  string        `env:"EMBED_PROVIDER" envDefault:"worker"`
	EmbedAPIURL    string        `env:"EMBED_API_URL"`
	EmbedAPIKey    string        `env:"EMBED_API_KEY"`
	EmbedModel     string        `env:"EMBED_MODEL"`
	EmbedTimeout   time.Duration `env:"EMBED_TIMEOUT" envDefault:"8s"`
	EmbedBatchSize int           `env:"EMBED_BATCH_SIZE" envDefault:"50"`
	EmbedRPS       float64       `env:"EMBED_RPS" envDefault:"2"`

	// RSS headline source (feeds worker mode)
	FeedURLs         []string      `env:"FEED_URLS" envSeparator:","`
	FeedPollInterval time.Duration `env:"FEED_POLL_INTERVAL" envDefault:"5m"`
	FeedFetchTimeout time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"30s"`
	FeedMaxHeadlines int           `env:"FEED_MAX_HEADLINES" envDefault:"50"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}

// EmbeddingsEnabled reports whether the configured provider has enough
// settings to make calls at all.
func (c *Config) EmbeddingsEnabled() bool {
	switch c.EmbedProvider {
	case "openai":
		return c.EmbedAPIKey != ""
	default:
		return c.EmbedAPIURL != ""
	}
}
