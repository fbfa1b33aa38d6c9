package text

import "strings"

// Cluster is one curated topic bucket: an identifier plus lowercase trigger
// substrings. A headline and a contract that land in the same cluster get a
// score boost even with zero keyword overlap ("Fed" headline vs "Federal
// Reserve" market).
type Cluster struct {
	ID    string
	Terms []string
}

// The taxonomy is hand-curated and fixed at build time. Terms are matched as
// raw substrings, so a term may fire inside a longer word.
var clusters = []Cluster{
	{
		ID: "fed_monetary",
		Terms: []string{
			"federal reserve", "fed", "fomc", "interest rate", "rate hike", "rate cut",
			"monetary policy", "powell", "central bank", "quantitative easing", "qe",
			"federal funds", "basis points", "tightening", "easing", "inflation",
			"cpi", "pce", "deflation", "stagflation", "yellen", "treasury",
		},
	},
	{
		ID: "us_president",
		Terms: []string{
			"president", "white house", "oval office", "trump", "biden", "harris", "obama",
			"executive order", "veto", "administration", "cabinet", "inauguration",
			"impeach", "resign", "pardon", "presidential",
		},
	},
	{
		ID: "us_elections",
		Terms: []string{
			"election", "vote", "ballot", "primary", "candidate", "democrat", "republican",
			"senate", "senator", "congress", "house", "representative", "polling", "poll",
			"midterm", "runoff", "swing state", "electoral", "campaign", "nomination",
			"gop", "dnc", "rnc",
		},
	},
	{
		ID: "crypto",
		Terms: []string{
			"bitcoin", "btc", "ethereum", "eth", "cryptocurrency", "crypto",
			"blockchain", "defi", "nft", "solana", "sol", "xrp", "ripple",
			"coinbase", "binance", "altcoin", "stablecoin", "usdc", "usdt",
			"tether", "digital asset", "token", "crypto regulation",
		},
	},
	{
		ID: "ai_tech",
		Terms: []string{
			"artificial intelligence", "ai model", "large language model", "llm",
			"chatgpt", "gpt", "openai", "anthropic", "claude", "gemini", "grok",
			"nvidia", "semiconductor", "chip", "gpu", "microsoft", "google", "meta",
			"apple", "amazon", "agi", "machine learning", "deepseek",
		},
	},
	{
		ID: "geopolitics",
		Terms: []string{
			"ukraine", "russia", "nato", "china", "taiwan", "middle east",
			"israel", "iran", "north korea", "sanctions", "military", "war",
			"ceasefire", "peace talks", "missile", "nuclear", "troops",
			"invasion", "conflict", "diplomacy", "treaty", "alliance", "putin", "zelensky",
		},
	},
	{
		ID: "markets_economy",
		Terms: []string{
			"stock market", "dow jones", "nasdaq", "sp500", "wall street",
			"recession", "gdp", "unemployment", "jobs report", "earnings",
			"ipo", "merger", "acquisition", "bankruptcy", "tariff", "trade war",
			"debt ceiling", "fiscal", "stimulus", "economic growth", "labor market",
		},
	},
	{
		ID: "sports",
		Terms: []string{
			"nfl", "super bowl", "nba", "nba finals", "world series", "mlb",
			"world cup", "fifa", "nhl", "stanley cup", "masters", "wimbledon",
			"us open", "olympics", "championship", "playoff", "bracket",
		},
	},
	{
		ID: "climate_energy",
		Terms: []string{
			"climate", "carbon", "emissions", "renewable energy", "solar", "wind power",
			"oil", "crude", "opec", "natural gas", "lng", "gasoline", "petroleum",
			"paris accord", "net zero", "clean energy", "electric vehicle",
		},
	},
	{
		ID: "health_pharma",
		Terms: []string{
			"fda", "approval", "drug", "vaccine", "pharmaceutical", "biotech",
			"clinical trial", "pfizer", "moderna", "medicare", "medicaid",
			"healthcare", "covid", "pandemic", "who", "cancer", "treatment",
		},
	},
	{
		ID: "legal_justice",
		Terms: []string{
			"supreme court", "scotus", "ruling", "lawsuit", "indictment", "trial",
			"verdict", "conviction", "acquittal", "appeal", "attorney general",
			"doj", "fbi", "department of justice", "constitution", "amendment",
		},
	},
	{
		ID: "elon_musk_doge",
		Terms: []string{
			"elon musk", "musk", "tesla", "spacex", "starlink", "twitter", "x corp",
			"doge", "department of government efficiency", "xai",
		},
	},
}

// Clusters returns the set of cluster IDs whose trigger terms occur in the
// lowercased text. One term hit is enough per cluster; multiple clusters may
// match the same text.
func Clusters(text string) map[string]bool {
	lower := strings.ToLower(text)
	matched := make(map[string]bool)

	for _, cluster := range clusters {
		for _, term := range cluster.Terms {
			if strings.Contains(lower, term) {
				matched[cluster.ID] = true
				break
			}
		}
	}

	return matched
}

// ClusterIDs lists every cluster identifier in the taxonomy.
func ClusterIDs() []string {
	ids := make([]string, 0, len(clusters))
	for _, c := range clusters {
		ids = append(ids, c.ID)
	}

	return ids
}
