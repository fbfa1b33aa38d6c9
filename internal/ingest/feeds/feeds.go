// Package feeds polls RSS/Atom news feeds and runs their item titles
// through the matching engine. It is a server-side headline source for
// deployments that want matches pushed rather than pulled per page.
package feeds

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/oddslens/oddslens/internal/core/match"
)

const (
	defaultPollInterval = 5 * time.Minute
	defaultFetchTimeout = 30 * time.Second
	defaultMaxHeadlines = 50
)

// matchService is the slice of the match layer the worker uses.
type matchService interface {
	MatchHeadlines(ctx context.Context, headlines []string) (map[string][]match.Result, match.CatalogInfo, error)
}

type Worker struct {
	urls         []string
	interval     time.Duration
	fetchTimeout time.Duration
	maxHeadlines int
	parser       *gofeed.Parser
	service      matchService
	logger       *zerolog.Logger
}

type WorkerConfig struct {
	URLs         []string
	PollInterval time.Duration
	FetchTimeout time.Duration
	MaxHeadlines int
}

func NewWorker(cfg WorkerConfig, service matchService, logger *zerolog.Logger) *Worker {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	maxHeadlines := cfg.MaxHeadlines
	if maxHeadlines <= 0 {
		maxHeadlines = defaultMaxHeadlines
	}

	return &Worker{
		urls:         cfg.URLs,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		maxHeadlines: maxHeadlines,
		parser:       gofeed.NewParser(),
		service:      service,
		logger:       logger,
	}
}

// Run polls all configured feeds until the context is canceled. One bad
// feed never aborts the loop.
func (w *Worker) Run(ctx context.Context) error {
	if len(w.urls) == 0 {
		return fmt.Errorf("feeds worker: no feed URLs configured")
	}

	w.logger.Info().Int("feeds", len(w.urls)).Dur("interval", w.interval).Msg("feeds worker starting")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("feeds worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Worker) poll(ctx context.Context) {
	headlines := w.collect(ctx)
	if len(headlines) == 0 {
		return
	}

	results, info, err := w.service.MatchHeadlines(ctx, headlines)
	if err != nil {
		w.logger.Warn().Err(err).Msg("feed headline batch failed")
		return
	}

	w.logger.Info().
		Int("headlines", len(headlines)).
		Int("matched", len(results)).
		Int("markets", info.MarketCount).
		Msg("feed headlines matched")

	for headline, matches := range results {
		for _, m := range matches {
			w.logger.Info().
				Str("headline", headline).
				Str("ticker", m.Ticker).
				Str("url", m.URL).
				Float64("score", m.Score).
				Msg("market match")
		}
	}
}

// collect gathers item titles across all feeds, capped at maxHeadlines.
func (w *Worker) collect(ctx context.Context) []string {
	headlines := make([]string, 0, w.maxHeadlines)

	for _, feedURL := range w.urls {
		titles, err := w.fetchTitles(ctx, feedURL)
		if err != nil {
			w.logger.Warn().Err(err).Str("feed", feedURL).Msg("feed fetch failed, skipping")
			continue
		}

		for _, title := range titles {
			if len(headlines) >= w.maxHeadlines {
				return headlines
			}

			headlines = append(headlines, title)
		}
	}

	return headlines
}

func (w *Worker) fetchTitles(ctx context.Context, feedURL string) ([]string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, w.fetchTimeout)
	defer cancel()

	feed, err := w.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	titles := make([]string, 0, len(feed.Items))

	for _, item := range feed.Items {
		if item != nil && item.Title != "" {
			titles = append(titles, item.Title)
		}
	}

	return titles, nil
}
