// Package match scores headlines against the contract catalog and returns a
// ranked short-list per headline.
package match

import (
	"sort"
	"strings"
	"time"

	"github.com/oddslens/oddslens/internal/core/catalog"
	"github.com/oddslens/oddslens/internal/core/embeddings"
	"github.com/oddslens/oddslens/internal/core/text"
)

const (
	// Signal weights. The cluster bonus is flat: sharing three clusters is
	// worth no more than sharing one.
	clusterBonusWeight = 0.4
	pureClusterFactor  = 0.5
	longKeywordBonus   = 0.1
	longKeywordMinLen  = 6
	bigramBonus        = 0.2
	bigramMinLen       = 7
	recencyBonus       = 0.2
	recencyWindow      = 7 * 24 * time.Hour
	semanticFloor      = 0.5

	defaultThreshold = 0.15
	defaultTopN      = 3
)

// Result is a denormalized copy of a contract's display fields plus the
// computed score. It holds no reference into the snapshot, so a later
// catalog refresh cannot mutate an already-returned result.
type Result struct {
	Ticker       string    `json:"ticker"`
	SeriesTicker string    `json:"series_ticker,omitempty"`
	EventTicker  string    `json:"event_ticker,omitempty"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Category     string    `json:"category,omitempty"`
	YesBid       int       `json:"yes_bid"`
	NoBid        int       `json:"no_bid"`
	LastPrice    int       `json:"last_price"`
	Volume       int64     `json:"volume"`
	OpenInterest int64     `json:"open_interest"`
	CloseTime    time.Time `json:"close_time,omitzero"`
	URL          string    `json:"url"`
	Score        float64   `json:"score"`
}

// Matcher holds the tunable scoring parameters and the vector store used
// for the optional semantic signal.
type Matcher struct {
	vectors   *embeddings.Store
	threshold float64
	topN      int
	now       func() time.Time
}

type MatcherConfig struct {
	Threshold float64
	TopN      int
}

func NewMatcher(cfg MatcherConfig, vectors *embeddings.Store) *Matcher {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	topN := cfg.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	return &Matcher{
		vectors:   vectors,
		threshold: threshold,
		topN:      topN,
		now:       time.Now,
	}
}

// FindMatches scores every contract in the snapshot against the headline and
// returns the top results above the threshold, best first. Ties keep the
// original catalog order. A headline with neither keywords nor clusters is
// rejected outright.
func (m *Matcher) FindMatches(headline string, snap *catalog.Snapshot) []Result {
	keywords := text.ExtractKeywords(headline)
	clusters := text.Clusters(headline)

	if len(keywords) == 0 && len(clusters) == 0 {
		return nil
	}

	var headlineVec []float32
	if m.vectors != nil {
		headlineVec = m.vectors.HeadlineVector(headline)
	}

	type scored struct {
		contract *catalog.Contract
		score    float64
	}

	candidates := make([]scored, 0, m.topN)

	for i := range snap.Contracts {
		c := &snap.Contracts[i]

		score := m.score(keywords, clusters, headlineVec, snap.Generation, c)
		if score > m.threshold {
			candidates = append(candidates, scored{contract: c, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > m.topN {
		candidates = candidates[:m.topN]
	}

	results := make([]Result, 0, len(candidates))
	for _, s := range candidates {
		results = append(results, newResult(s.contract, s.score))
	}

	return results
}

// score computes the composite relevance of one contract for a headline.
// Signals: keyword overlap (set membership or raw substring), flat cluster
// bonus, long-keyword bonus, first adjacent-bigram hit, near-term close
// bonus, and cosine similarity above a noise floor.
func (m *Matcher) score(keywords []string, clusters map[string]bool, headlineVec []float32, generation uint64, c *catalog.Contract) float64 {
	contractText := strings.ToLower(c.Title + " " + c.Subtitle + " " + c.EventTitle + " " + c.Category)

	contractKeywords := make(map[string]bool)
	for _, kw := range text.ExtractKeywords(contractText) {
		contractKeywords[kw] = true
	}

	overlap := 0
	matched := make([]string, 0, len(keywords))

	for _, kw := range keywords {
		if contractKeywords[kw] || strings.Contains(contractText, kw) {
			overlap++
			matched = append(matched, kw)
		}
	}

	clusterBonus := 0.0
	contractClusters := text.Clusters(contractText)

	for id := range clusters {
		if contractClusters[id] {
			clusterBonus = clusterBonusWeight
			break
		}
	}

	// No signal at all: reject early.
	if overlap == 0 && clusterBonus == 0 {
		return 0
	}

	// Pure cluster match with no keyword overlap is a deliberate
	// low-confidence floor, regardless of how many clusters agree.
	if overlap == 0 {
		return clusterBonus * pureClusterFactor
	}

	lengthBonus := 0.0

	for _, kw := range matched {
		if len(kw) >= longKeywordMinLen {
			lengthBonus += longKeywordBonus
		}
	}

	bigram := 0.0

	// Bigrams pair adjacent keywords in the filtered sequence, not adjacent
	// words of the original headline.
	for i := 0; i+1 < len(keywords); i++ {
		joined := keywords[i] + " " + keywords[i+1]
		if len(joined) >= bigramMinLen && strings.Contains(contractText, joined) {
			bigram = bigramBonus
			break
		}
	}

	recency := 0.0

	if !c.CloseTime.IsZero() {
		untilClose := c.CloseTime.Sub(m.now())
		if untilClose > 0 && untilClose < recencyWindow {
			recency = recencyBonus
		}
	}

	semantic := 0.0

	if headlineVec != nil && m.vectors != nil {
		if contractVec := m.vectors.ContractVector(generation, c.Ticker); contractVec != nil {
			if sim := embeddings.CosineSimilarity(headlineVec, contractVec); sim > semanticFloor {
				semantic = sim - semanticFloor
			}
		}
	}

	return float64(overlap)/float64(len(keywords)) + lengthBonus + bigram + clusterBonus + recency + semantic
}

func newResult(c *catalog.Contract, score float64) Result {
	return Result{
		Ticker:       c.Ticker,
		SeriesTicker: c.SeriesTicker,
		EventTicker:  c.EventTicker,
		Title:        c.Title,
		Subtitle:     c.Subtitle,
		Category:     c.Category,
		YesBid:       c.YesBid,
		NoBid:        c.NoBid,
		LastPrice:    c.LastPrice,
		Volume:       c.Volume,
		OpenInterest: c.OpenInterest,
		CloseTime:    c.CloseTime,
		URL:          c.URL,
		Score:        score,
	}
}
