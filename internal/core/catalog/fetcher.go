package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"

	"github.com/oddslens/oddslens/internal/platform/observability"
)

const (
	defaultMaxPages  = 4
	defaultPageLimit = 200
	defaultTimeout   = 10 * time.Second

	fetchStatusOK    = "ok"
	fetchStatusError = "error"
	fetchStatusEmpty = "empty"
)

// ErrNoMarkets means every upstream endpoint failed or returned nothing.
var ErrNoMarkets = errors.New("no markets retrieved from any catalog endpoint")

var errUnexpectedStatus = errors.New("catalog api unexpected status")

// FetcherConfig configures a Fetcher. Bases are redundant mirrors of the
// same data, tried in order; the first one yielding at least one contract
// wins outright (no merging across endpoints).
type FetcherConfig struct {
	Bases     []string
	MaxPages  int
	PageLimit int
	Timeout   time.Duration
}

type Fetcher struct {
	bases      []string
	maxPages   int
	pageLimit  int
	httpClient *http.Client
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewFetcher(cfg FetcherConfig, logger *zerolog.Logger) *Fetcher {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Fetcher{
		bases:     cfg.Bases,
		maxPages:  maxPages,
		pageLimit: pageLimit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Fetch pages through the ordered endpoint list and returns a snapshot from
// the first endpoint that yields contracts. Endpoint failures are logged and
// fall through to the next mirror; only total failure is an error.
func (f *Fetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	for _, base := range f.bases {
		contracts, err := f.fetchFrom(ctx, base)
		if err != nil {
			observability.CatalogFetches.WithLabelValues(base, fetchStatusError).Inc()
			f.logger.Warn().Err(err).Str("endpoint", base).Msg("catalog endpoint failed, trying next")

			continue
		}

		if len(contracts) == 0 {
			observability.CatalogFetches.WithLabelValues(base, fetchStatusEmpty).Inc()
			continue
		}

		observability.CatalogFetches.WithLabelValues(base, fetchStatusOK).Inc()

		return &Snapshot{
			Contracts: contracts,
			Origin:    base,
			FetchedAt: f.now(),
		}, nil
	}

	return nil, ErrNoMarkets
}

// fetchFrom accumulates contracts from one endpoint, deduplicating by ticker
// (first occurrence wins) and dropping contracts whose close time has passed.
func (f *Fetcher) fetchFrom(ctx context.Context, base string) ([]Contract, error) {
	seen := make(map[string]bool)
	contracts := make([]Contract, 0, f.pageLimit)
	cursor := ""

	for page := 0; page < f.maxPages; page++ {
		resp, err := f.fetchEvents(ctx, base, cursor)
		if err != nil {
			return nil, err
		}

		for _, event := range resp.Events {
			seriesTicker := firstNonEmpty(event.SeriesTicker, event.EventTicker)

			for _, m := range event.Markets {
				c, ok := f.buildContract(m, event, seriesTicker)
				if !ok || seen[c.Ticker] {
					continue
				}

				seen[c.Ticker] = true
				contracts = append(contracts, c)
			}
		}

		cursor = resp.Cursor
		if cursor == "" || len(resp.Events) < f.pageLimit {
			break
		}
	}

	return contracts, nil
}

func (f *Fetcher) fetchEvents(ctx context.Context, base, cursor string) (*eventsResponse, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(f.pageLimit))
	params.Set("status", "open")
	params.Set("with_nested_markets", "true")

	if cursor != "" {
		params.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/events?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create events request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read events response: %w", err)
	}

	var parsed eventsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode events response: %w", err)
	}

	return &parsed, nil
}

// buildContract maps one upstream market into a Contract. Returns ok=false
// for items that should be skipped: missing ticker, or already closed.
func (f *Fetcher) buildContract(m apiMarket, event apiEvent, seriesTicker string) (Contract, bool) {
	if m.Ticker == "" {
		return Contract{}, false
	}

	closeTime := parseCloseTime(firstNonEmpty(m.CloseTime, m.ExpectedExpirationTime))
	if !closeTime.IsZero() && closeTime.Before(f.now()) {
		return Contract{}, false
	}

	return Contract{
		Ticker:       m.Ticker,
		SeriesTicker: firstNonEmpty(seriesTicker, m.SeriesTicker),
		EventTicker:  m.EventTicker,
		Title:        firstNonEmpty(m.Title, event.Title),
		Subtitle:     firstNonEmpty(m.Subtitle, event.SubTitle),
		Category:     event.Category,
		EventTitle:   event.Title,
		YesBid:       m.YesBid,
		NoBid:        m.NoBid,
		YesAsk:       m.YesAsk,
		NoAsk:        m.NoAsk,
		LastPrice:    m.LastPrice,
		Volume:       m.Volume,
		OpenInterest: m.OpenInterest,
		CloseTime:    closeTime,
		URL:          resolveURL(m, seriesTicker),
	}, true
}

// parseCloseTime is lenient about upstream timestamp formats; anything
// unparseable is treated as absent rather than failing the whole fetch.
func parseCloseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}
	}

	return t
}
