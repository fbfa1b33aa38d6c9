package catalog

import "strings"

const (
	siteBase       = "https://kalshi.com"
	marketPathBase = siteBase + "/markets"
)

// resolveURL picks the display URL for a market. An upstream-provided URL
// field wins; otherwise the series ticker is preferred because market pages
// are single-segment (/markets/{series_ticker} redirects correctly while
// event and market tickers 404).
func resolveURL(m apiMarket, seriesTicker string) string {
	direct := firstNonEmpty(m.MarketURL, m.URL, m.PublicURL, m.URLSlug)
	if direct != "" {
		switch {
		case strings.HasPrefix(direct, "http"):
			return direct
		case strings.HasPrefix(direct, "/"):
			return siteBase + direct
		default:
			return marketPathBase + "/" + direct
		}
	}

	for _, ticker := range []string{seriesTicker, m.EventTicker, m.Ticker} {
		if ticker != "" {
			return marketPathBase + "/" + ticker
		}
	}

	return marketPathBase
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
