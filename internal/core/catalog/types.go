// Package catalog fetches and caches the set of open prediction-market
// contracts that headlines are matched against.
package catalog

import "time"

// Contract is one tradable yes/no market instrument, flattened from the
// upstream event/market nesting. Prices are in cents (0-100).
type Contract struct {
	Ticker       string    `json:"ticker"`
	SeriesTicker string    `json:"series_ticker,omitempty"`
	EventTicker  string    `json:"event_ticker,omitempty"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Category     string    `json:"category,omitempty"`
	EventTitle   string    `json:"event_title,omitempty"`
	YesBid       int       `json:"yes_bid"`
	NoBid        int       `json:"no_bid"`
	YesAsk       int       `json:"yes_ask"`
	NoAsk        int       `json:"no_ask"`
	LastPrice    int       `json:"last_price"`
	Volume       int64     `json:"volume"`
	OpenInterest int64     `json:"open_interest"`
	CloseTime    time.Time `json:"close_time,omitzero"`

	// URL is resolved once at ingestion and never recomputed per query.
	URL string `json:"url"`
}

// Snapshot is the complete set of open, non-expired contracts as of one
// fetch. It is read-only once published; the cache replaces it wholesale.
type Snapshot struct {
	Contracts []Contract
	Origin    string
	FetchedAt time.Time

	// Generation increments on every publish. Embedding lookups compare it
	// to decide whether cached contract vectors are still valid.
	Generation uint64
}

// eventsResponse from GET {base}/events?with_nested_markets=true.
type eventsResponse struct {
	Events []apiEvent `json:"events"`
	Cursor string     `json:"cursor"`
}

type apiEvent struct {
	EventTicker  string      `json:"event_ticker"`
	SeriesTicker string      `json:"series_ticker"`
	Title        string      `json:"title"`
	SubTitle     string      `json:"sub_title"`
	Category     string      `json:"category"`
	Markets      []apiMarket `json:"markets"`
}

type apiMarket struct {
	Ticker                 string `json:"ticker"`
	EventTicker            string `json:"event_ticker"`
	SeriesTicker           string `json:"series_ticker"`
	Title                  string `json:"title"`
	Subtitle               string `json:"subtitle"`
	YesBid                 int    `json:"yes_bid"`
	YesAsk                 int    `json:"yes_ask"`
	NoBid                  int    `json:"no_bid"`
	NoAsk                  int    `json:"no_ask"`
	LastPrice              int    `json:"last_price"`
	Volume                 int64  `json:"volume"`
	OpenInterest           int64  `json:"open_interest"`
	CloseTime              string `json:"close_time"`
	ExpectedExpirationTime string `json:"expected_expiration_time"`
	MarketURL              string `json:"market_url"`
	URL                    string `json:"url"`
	PublicURL              string `json:"public_url"`
	URLSlug                string `json:"url_slug"`
}
