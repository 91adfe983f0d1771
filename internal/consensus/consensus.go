// Package consensus merges the two providers' independent judgments. The
// heuristics are deliberately lexical rather than semantic; the tests pin
// current behavior so any upgrade is an explicit decision.
package consensus

import (
	"strings"
	"unicode"

	"github.com/brandaudit/backend/internal/analysis"
)

const (
	// An insight counts as agreed when it shares at least this many
	// significant tokens with some insight from the other provider.
	minSharedTokens = 2
	// Tokens shorter than this are too generic to signal agreement.
	minTokenLength = 5

	maxActionsPerProvider = 3

	highConfidenceMaxDiff   = 10.0
	mediumConfidenceMaxDiff = 20.0
)

// Reduce derives the merged judgment from two independent analyses. Pure:
// identical inputs always yield identical output.
func Reduce(primary, secondary analysis.AIAnalysis) analysis.ConsensusResult {
	agreed := make([]string, 0, len(primary.KeyInsights))
	uniqueToPrimary := make([]string, 0, len(primary.KeyInsights))
	for _, insight := range primary.KeyInsights {
		if matchesAny(insight, secondary.KeyInsights) {
			agreed = append(agreed, insight)
		} else {
			uniqueToPrimary = append(uniqueToPrimary, insight)
		}
	}

	uniqueToSecondary := make([]string, 0, len(secondary.KeyInsights))
	for _, insight := range secondary.KeyInsights {
		if !matchesAny(insight, primary.KeyInsights) {
			uniqueToSecondary = append(uniqueToSecondary, insight)
		}
	}

	actions := make([]string, 0, 2*maxActionsPerProvider)
	actions = append(actions, firstN(primary.Recommendations, maxActionsPerProvider)...)
	actions = append(actions, firstN(secondary.Recommendations, maxActionsPerProvider)...)

	return analysis.ConsensusResult{
		AgreedInsights:     agreed,
		UniqueToPrimary:    uniqueToPrimary,
		UniqueToSecondary:  uniqueToSecondary,
		RecommendedActions: actions,
		Confidence:         deriveConfidence(primary.Scores, secondary.Scores),
	}
}

func matchesAny(insight string, others []string) bool {
	tokens := significantTokens(insight)
	for _, other := range others {
		if sharedCount(tokens, significantTokens(other)) >= minSharedTokens {
			return true
		}
	}
	return false
}

func significantTokens(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(word) >= minTokenLength {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

func sharedCount(a, b map[string]struct{}) int {
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}

// deriveConfidence compares per-dimension scores; absent scores are treated
// as 0 before differencing. Two all-absent score sets therefore diff to 0
// and read as high confidence, which is pinned behavior.
func deriveConfidence(primary, secondary analysis.ScoreSet) analysis.Confidence {
	diff := absDiff(primary.BrandVoice, secondary.BrandVoice) +
		absDiff(primary.GEOReadiness, secondary.GEOReadiness) +
		absDiff(primary.TechnicalHealth, secondary.TechnicalHealth)
	avgDiff := float64(diff) / 3.0

	switch {
	case avgDiff < highConfidenceMaxDiff:
		return analysis.ConfidenceHigh
	case avgDiff < mediumConfidenceMaxDiff:
		return analysis.ConfidenceMedium
	default:
		return analysis.ConfidenceLow
	}
}

func absDiff(a, b *int) int {
	diff := scoreOrZero(a) - scoreOrZero(b)
	if diff < 0 {
		return -diff
	}
	return diff
}

func scoreOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	return items[:n]
}
