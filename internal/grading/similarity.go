package grading

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/kljensen/snowball"
)

// SimilarityScorer compares two free-text strings and returns a similarity
// ratio in [0,1]. Both inputs are tokenized, stemmed and rejoined before the
// edit-distance ratio is computed, so inflected forms ("running" vs "runs")
// still compare close. The scorer is stateless and deterministic.
type SimilarityScorer struct {
	metric *metrics.Levenshtein
}

// NewSimilarityScorer builds a scorer with a case-insensitive Levenshtein
// ratio metric.
func NewSimilarityScorer() *SimilarityScorer {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	return &SimilarityScorer{metric: lev}
}

// Score returns the normalized similarity of a and b.
func (s *SimilarityScorer) Score(a, b string) float64 {
	na := normalizeText(a)
	nb := normalizeText(b)
	if na == "" && nb == "" {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	return strutil.Similarity(na, nb, s.metric)
}

// normalizeText lowercases, strips punctuation and reduces every token to
// its stem.
func normalizeText(s string) string {
	tokens := tokenize(s)
	for i, token := range tokens {
		stemmed, err := snowball.Stem(token, "english", false)
		if err == nil && stemmed != "" {
			tokens[i] = stemmed
		}
	}
	return strings.Join(tokens, " ")
}

func tokenize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)
	return strings.Fields(cleaned)
}
