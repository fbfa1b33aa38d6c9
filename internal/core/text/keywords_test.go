package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and strips punctuation",
			in:   "Fed Chair Powell signals rate pause amid inflation concerns",
			want: []string{"fed", "chair", "powell", "signals", "rate", "pause", "amid", "inflation", "concerns"},
		},
		{
			name: "drops stop words and short tokens",
			in:   "The US is going to do it in a year, says report",
			want: []string{},
		},
		{
			name: "keeps digits",
			in:   "Bitcoin above $100,000 by March 2026?",
			want: []string{"bitcoin", "100", "000", "march", "2026"},
		},
		{
			name: "order preserved",
			in:   "rate! cut? rate... cut",
			want: []string{"rate", "cut", "rate", "cut"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractKeywords(tc.in)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractKeywords_NeverReturnsStopWordsOrShortTokens(t *testing.T) {
	inputs := []string{
		"Will the Federal Reserve cut rates in March?",
		"a an to of in on at by us it he she",
		"AI chips: Nvidia Q3 earnings beat; stock up 5%",
	}

	for _, in := range inputs {
		for _, kw := range ExtractKeywords(in) {
			assert.GreaterOrEqual(t, len(kw), 3, "token %q from %q", kw, in)
			assert.False(t, IsStopWord(kw), "stop word %q leaked from %q", kw, in)
		}
	}
}

func TestClusters(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "fed headline",
			in:   "Fed Chair Powell signals rate pause amid inflation concerns",
			want: []string{"fed_monetary"},
		},
		{
			name: "fed market title via category",
			in:   "will the federal reserve cut rates in march? economy",
			want: []string{"fed_monetary"},
		},
		{
			name: "multiple clusters",
			in:   "Trump orders new tariffs as bitcoin slides",
			want: []string{"us_president", "crypto", "markets_economy"},
		},
		{
			name: "substring hit inside larger word",
			in:   "confederation summit",
			want: []string{"fed_monetary"}, // "fed" matches inside "confederation"
		},
		{
			name: "no cluster",
			in:   "local bakery wins pie contest",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Clusters(tc.in)
			assert.Len(t, got, len(tc.want))

			for _, id := range tc.want {
				assert.True(t, got[id], "missing cluster %s", id)
			}
		})
	}
}

func TestClusterIDs(t *testing.T) {
	ids := ClusterIDs()
	assert.Len(t, ids, 12)
	assert.Contains(t, ids, "fed_monetary")
	assert.Contains(t, ids, "elon_musk_doge")
}
