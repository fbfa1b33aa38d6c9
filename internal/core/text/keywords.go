// Package text provides the pure text-analysis primitives used by the
// matcher: keyword extraction and topic-cluster classification.
package text

import "strings"

const minKeywordLength = 3

// stopWords covers common English function words plus domain-generic news
// vocabulary ("report", "said", "year") that carries no matching signal.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "shall": true, "to": true, "of": true,
	"in": true, "for": true, "on": true, "with": true, "at": true,
	"by": true, "from": true, "as": true, "into": true, "through": true,
	"during": true, "before": true, "after": true, "above": true,
	"below": true, "between": true, "out": true, "off": true, "over": true,
	"under": true, "again": true, "further": true, "then": true,
	"once": true, "here": true, "there": true, "when": true, "where": true,
	"why": true, "how": true, "all": true, "both": true, "each": true,
	"few": true, "more": true, "most": true, "other": true, "some": true,
	"such": true, "no": true, "nor": true, "not": true, "only": true,
	"own": true, "same": true, "so": true, "than": true, "too": true,
	"very": true, "just": true, "because": true, "but": true, "and": true,
	"or": true, "if": true, "while": true, "about": true, "up": true,
	"its": true, "it": true, "this": true, "that": true, "these": true,
	"those": true, "he": true, "she": true, "they": true, "them": true,
	"his": true, "her": true, "their": true, "what": true, "which": true,
	"who": true, "whom": true, "new": true, "says": true, "said": true,
	"report": true, "reports": true, "according": true, "also": true,
	"get": true, "gets": true, "got": true, "going": true, "make": true,
	"makes": true, "made": true, "take": true, "takes": true, "look": true,
	"year": true, "years": true, "day": true, "days": true, "week": true,
	"weeks": true, "month": true, "months": true, "time": true, "way": true,
	"us": true, "back": true, "first": true, "last": true, "next": true,
	"now": true, "still": true, "even": true, "many": true, "much": true,
	"well": true, "long": true, "right": true, "left": true, "big": true,
	"old": true, "high": true, "low": true,
}

// ExtractKeywords lowercases the text, strips everything outside [a-z0-9 ],
// and returns the remaining tokens in their original order, dropping tokens
// shorter than three characters and stop words. Order matters downstream:
// the matcher forms bigrams from adjacent keywords.
func ExtractKeywords(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, text)

	fields := strings.Fields(normalized)
	keywords := make([]string, 0, len(fields))

	for _, w := range fields {
		if len(w) >= minKeywordLength && !stopWords[w] {
			keywords = append(keywords, w)
		}
	}

	return keywords
}

// IsStopWord reports whether the lowercased token is in the stop-word set.
func IsStopWord(word string) bool {
	return stopWords[word]
}
