package consensus

import (
	"math"
	"strings"

	"github.com/brandaudit/backend/internal/analysis"
)

const (
	strengthThreshold = 70.0
	weaknessThreshold = 50.0

	consensusAttrStrengthMin = 3
	consensusAttrWeaknessMax = 2
)

// ReduceBrand merges the two brand perceptions plus the generated
// cross-agent recommendations into one BrandAnalysis. Callers only invoke
// this once every input is in hand, so the result is always fully built.
func ReduceBrand(openaiPerception, claudePerception analysis.BrandPerception, recs analysis.BrandRecommendations) analysis.BrandAnalysis {
	attrs := consensusAttributes(openaiPerception.DetectedBrandAttributes, claudePerception.DetectedBrandAttributes)

	avgPositioning := average(openaiPerception.PositioningClarity, claudePerception.PositioningClarity)
	avgDifferentiation := average(openaiPerception.DifferentiationScore, claudePerception.DifferentiationScore)
	avgAudience := average(openaiPerception.TargetAudienceClarity, claudePerception.TargetAudienceClarity)

	strengths := make([]string, 0, 4)
	weaknesses := make([]string, 0, 4)

	judge := func(avg float64, strength, weakness string) {
		switch {
		case avg >= strengthThreshold:
			strengths = append(strengths, strength)
		case avg < weaknessThreshold:
			weaknesses = append(weaknesses, weakness)
		}
	}

	judge(avgPositioning,
		"Brand positioning is clear to AI agents",
		"Brand positioning is unclear to AI agents")
	judge(avgDifferentiation,
		"Brand is well differentiated from competitors",
		"Brand differentiation is weak")
	judge(avgAudience,
		"Target audience is well defined",
		"Target audience is ambiguous")

	if len(attrs) >= consensusAttrStrengthMin {
		strengths = append(strengths, "Brand attributes are consistently recognized across AI agents")
	} else if len(attrs) < consensusAttrWeaknessMax {
		weaknesses = append(weaknesses, "AI agents do not agree on the brand's core attributes")
	}

	return analysis.BrandAnalysis{
		OpenAIPerception:          openaiPerception,
		ClaudePerception:          claudePerception,
		ConsensusBrandAttributes:  attrs,
		BrandStrengths:            strengths,
		BrandWeaknesses:           weaknesses,
		CompetitivePositioning:    positioningJudgment(avgPositioning, avgDifferentiation),
		OverallBrandClarityScore:  int(math.Round((avgPositioning + avgDifferentiation + avgAudience) / 3.0)),
		CrossAgentRecommendations: recs,
	}
}

// consensusAttributes keeps attributes from the first perception that are
// substring-contained, either direction and case-insensitively, by some
// attribute in the second.
func consensusAttributes(primary, secondary []string) []string {
	out := make([]string, 0, len(primary))
	for _, attr := range primary {
		lowered := strings.ToLower(attr)
		for _, other := range secondary {
			otherLowered := strings.ToLower(other)
			if strings.Contains(otherLowered, lowered) || strings.Contains(lowered, otherLowered) {
				out = append(out, attr)
				break
			}
		}
	}
	return out
}

func positioningJudgment(avgPositioning, avgDifferentiation float64) string {
	combined := (avgPositioning + avgDifferentiation) / 2.0
	switch {
	case combined >= strengthThreshold:
		return "Strongly positioned: AI agents can articulate what this brand does and how it differs"
	case combined >= weaknessThreshold:
		return "Moderately positioned: AI agents grasp the basics but the differentiation story is thin"
	default:
		return "Weakly positioned: AI agents struggle to describe what makes this brand distinct"
	}
}

func average(a, b int) float64 {
	return float64(a+b) / 2.0
}
