package config

import (
	"testing"
	"time"
)

const testErrLoad = "Load() error = %v"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != "local" {
		t.Errorf("AppEnv = %q, want local", cfg.AppEnv)
	}

	if len(cfg.CatalogAPIBases) != 2 {
		t.Fatalf("CatalogAPIBases = %v, want 2 mirrors", cfg.CatalogAPIBases)
	}

	if cfg.CatalogCacheTTL != 5*time.Minute {
		t.Errorf("CatalogCacheTTL = %v, want 5m", cfg.CatalogCacheTTL)
	}

	if cfg.CatalogMaxPages != 4 || cfg.CatalogPageLimit != 200 {
		t.Errorf("pagination defaults = %d pages x %d items", cfg.CatalogMaxPages, cfg.CatalogPageLimit)
	}

	if cfg.MatchThreshold != 0.15 || cfg.MatchTopN != 3 {
		t.Errorf("match defaults = %v / %d", cfg.MatchThreshold, cfg.MatchTopN)
	}

	if cfg.EmbedTimeout != 8*time.Second {
		t.Errorf("EmbedTimeout = %v, want 8s", cfg.EmbedTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_API_BASES", "https://a.example.com/v2,https://b.example.com/v2,https://c.example.com/v2")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("FEED_URLS", "https://news.example.com/rss")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if len(cfg.CatalogAPIBases) != 3 {
		t.Errorf("CatalogAPIBases = %v, want 3 entries", cfg.CatalogAPIBases)
	}

	if cfg.CatalogCacheTTL != 90*time.Second {
		t.Errorf("CatalogCacheTTL = %v, want 90s", cfg.CatalogCacheTTL)
	}

	if len(cfg.FeedURLs) != 1 {
		t.Errorf("FeedURLs = %v, want 1 entry", cfg.FeedURLs)
	}
}

func TestEmbeddingsEnabled(t *testing.T) {
	cases := []struct {
		name     string
		provider string
		url      string
		key      string
		want     bool
	}{
		{"worker disabled without url", "worker", "", "", false},
		{"worker enabled with url", "worker", "https://embed.example.com", "", true},
		{"openai disabled without key", "openai", "", "", false},
		{"openai enabled with key", "openai", "", "sk-test", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{EmbedProvider: tc.provider, EmbedAPIURL: tc.url, EmbedAPIKey: tc.key}
			if got := cfg.EmbeddingsEnabled(); got != tc.want {
				t.Errorf("EmbeddingsEnabled() = %v, want %v", got, tc.want)
			}
		})
	}
}
