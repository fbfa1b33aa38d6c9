// Package app wires the service together and exposes its run modes:
//
//   - Serve mode: HTTP API for the annotation layer (match, warm, health, metrics)
//   - Feeds mode: RSS polling worker that matches feed headlines continuously
//   - Warm mode: one-shot cache warm, useful before a deploy flip
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oddslens/oddslens/internal/api"
	"github.com/oddslens/oddslens/internal/core/catalog"
	"github.com/oddslens/oddslens/internal/core/embeddings"
	"github.com/oddslens/oddslens/internal/core/match"
	"github.com/oddslens/oddslens/internal/ingest/feeds"
	"github.com/oddslens/oddslens/internal/platform/config"
	"github.com/oddslens/oddslens/internal/platform/observability"
)

type App struct {
	cfg     *config.Config
	logger  *zerolog.Logger
	service *match.Service
}

func New(cfg *config.Config, logger *zerolog.Logger) *App {
	fetcher := catalog.NewFetcher(catalog.FetcherConfig{
		Bases:     cfg.CatalogAPIBases,
		MaxPages:  cfg.CatalogMaxPages,
		PageLimit: cfg.CatalogPageLimit,
		Timeout:   cfg.CatalogTimeout,
	}, logger)

	cache := catalog.NewCache(fetcher, cfg.CatalogCacheTTL, logger)

	vectors := embeddings.NewStore(newEmbedProvider(cfg), cfg.EmbedBatchSize, logger)

	matcher := match.NewMatcher(match.MatcherConfig{
		Threshold: cfg.MatchThreshold,
		TopN:      cfg.MatchTopN,
	}, vectors)

	service := match.NewService(cache, vectors, matcher, logger)

	return &App{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// newEmbedProvider picks the configured embedding provider, or none at all:
// a nil provider disables the semantic signal without any other difference
// in behavior.
func newEmbedProvider(cfg *config.Config) embeddings.Provider {
	if !cfg.EmbeddingsEnabled() {
		return nil
	}

	switch cfg.EmbedProvider {
	case "openai":
		return embeddings.NewOpenAIProvider(embeddings.OpenAIConfig{
			APIKey: cfg.EmbedAPIKey,
			Model:  cfg.EmbedModel,
			RPS:    cfg.EmbedRPS,
		})
	default:
		return embeddings.NewWorkerProvider(embeddings.WorkerConfig{
			URL:     cfg.EmbedAPIURL,
			Timeout: cfg.EmbedTimeout,
			RPS:     cfg.EmbedRPS,
		})
	}
}

// RunServe blocks on the HTTP server until the context is canceled.
func (a *App) RunServe(ctx context.Context) error {
	handler := api.NewHandler(a.service, a.logger)
	server := observability.NewServer(a.cfg.HTTPPort, handler.Routes(), a.logger)

	return server.Start(ctx)
}

// RunFeeds blocks on the RSS polling worker until the context is canceled.
func (a *App) RunFeeds(ctx context.Context) error {
	worker := feeds.NewWorker(feeds.WorkerConfig{
		URLs:         a.cfg.FeedURLs,
		PollInterval: a.cfg.FeedPollInterval,
		FetchTimeout: a.cfg.FeedFetchTimeout,
		MaxHeadlines: a.cfg.FeedMaxHeadlines,
	}, a.service, a.logger)

	return worker.Run(ctx)
}

// RunWarm fetches the catalog once and exits.
func (a *App) RunWarm(ctx context.Context) error {
	info, err := a.service.WarmCache(ctx)
	if err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	a.logger.Info().Int("markets", info.MarketCount).Str("origin", info.Origin).Msg("cache warmed")

	return nil
}
