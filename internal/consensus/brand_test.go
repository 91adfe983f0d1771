package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandaudit/backend/internal/analysis"
)

func makePerception(provider analysis.Provider, attrs []string, positioning, differentiation, audience int) analysis.BrandPerception {
	return analysis.BrandPerception{
		Provider:                provider,
		BrandName:               "Acme",
		DetectedBrandAttributes: attrs,
		PositioningClarity:      positioning,
		DifferentiationScore:    differentiation,
		TargetAudienceClarity:   audience,
	}
}

func emptyRecs() analysis.BrandRecommendations {
	return analysis.BrandRecommendations{
		MetadataRecommendations: []string{},
		ContentRecommendations:  []string{},
		DesignRecommendations:   []string{},
		AIAgentOptimizations:    []analysis.AIAgentOptimization{},
	}
}

func TestReduceBrand_ConsensusAttributes(t *testing.T) {
	tests := []struct {
		name      string
		primary   []string
		secondary []string
		expected  []string
	}{
		{
			name:      "exact match",
			primary:   []string{"innovative"},
			secondary: []string{"innovative"},
			expected:  []string{"innovative"},
		},
		{
			name:      "primary attribute contained in secondary",
			primary:   []string{"trusted"},
			secondary: []string{"trusted by enterprises"},
			expected:  []string{"trusted"},
		},
		{
			name:      "secondary attribute contained in primary",
			primary:   []string{"developer friendly tooling"},
			secondary: []string{"developer friendly"},
			expected:  []string{"developer friendly tooling"},
		},
		{
			name:      "case insensitive containment",
			primary:   []string{"Enterprise-Ready"},
			secondary: []string{"enterprise-ready platform"},
			expected:  []string{"Enterprise-Ready"},
		},
		{
			name:      "no overlap",
			primary:   []string{"playful"},
			secondary: []string{"corporate"},
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ReduceBrand(
				makePerception(analysis.ProviderOpenAI, tt.primary, 60, 60, 60),
				makePerception(analysis.ProviderClaude, tt.secondary, 60, 60, 60),
				emptyRecs(),
			)
			assert.Equal(t, tt.expected, result.ConsensusBrandAttributes)
		})
	}
}

func TestReduceBrand_StrengthAndWeaknessThresholds(t *testing.T) {
	// Averages: positioning (80+80)/2=80 -> strength, differentiation
	// (40+40)/2=40 -> weakness, audience (60+60)/2=60 -> unremarked.
	result := ReduceBrand(
		makePerception(analysis.ProviderOpenAI, []string{"a", "b", "c"}, 80, 40, 60),
		makePerception(analysis.ProviderClaude, []string{"a", "b", "c"}, 80, 40, 60),
		emptyRecs(),
	)

	assert.Contains(t, result.BrandStrengths, "Brand positioning is clear to AI agents")
	assert.Contains(t, result.BrandWeaknesses, "Brand differentiation is weak")
	assert.NotContains(t, result.BrandStrengths, "Target audience is well defined")
	assert.NotContains(t, result.BrandWeaknesses, "Target audience is ambiguous")
}

func TestReduceBrand_BoundaryAverages(t *testing.T) {
	// Exactly 70 is a strength; exactly 50 is neutral; 49.5 is a weakness.
	result := ReduceBrand(
		makePerception(analysis.ProviderOpenAI, nil, 70, 50, 49),
		makePerception(analysis.ProviderClaude, nil, 70, 50, 50),
		emptyRecs(),
	)

	assert.Contains(t, result.BrandStrengths, "Brand positioning is clear to AI agents")
	assert.NotContains(t, result.BrandWeaknesses, "Brand differentiation is weak")
	assert.Contains(t, result.BrandWeaknesses, "Target audience is ambiguous")
}

func TestReduceBrand_AttributeCountSignals(t *testing.T) {
	t.Run("three consensus attributes are a strength", func(t *testing.T) {
		result := ReduceBrand(
			makePerception(analysis.ProviderOpenAI, []string{"a", "b", "c"}, 60, 60, 60),
			makePerception(analysis.ProviderClaude, []string{"a", "b", "c"}, 60, 60, 60),
			emptyRecs(),
		)
		assert.Contains(t, result.BrandStrengths, "Brand attributes are consistently recognized across AI agents")
	})

	t.Run("fewer than two is a weakness", func(t *testing.T) {
		result := ReduceBrand(
			makePerception(analysis.ProviderOpenAI, []string{"a"}, 60, 60, 60),
			makePerception(analysis.ProviderClaude, []string{"z"}, 60, 60, 60),
			emptyRecs(),
		)
		assert.Contains(t, result.BrandWeaknesses, "AI agents do not agree on the brand's core attributes")
	})

	t.Run("exactly two is neither", func(t *testing.T) {
		result := ReduceBrand(
			makePerception(analysis.ProviderOpenAI, []string{"a", "b"}, 60, 60, 60),
			makePerception(analysis.ProviderClaude, []string{"a", "b"}, 60, 60, 60),
			emptyRecs(),
		)
		assert.NotContains(t, result.BrandStrengths, "Brand attributes are consistently recognized across AI agents")
		assert.NotContains(t, result.BrandWeaknesses, "AI agents do not agree on the brand's core attributes")
	})
}

func TestReduceBrand_OverallClarityScore(t *testing.T) {
	// Averages: 75, 65, 55 -> mean 65.
	result := ReduceBrand(
		makePerception(analysis.ProviderOpenAI, nil, 80, 60, 50),
		makePerception(analysis.ProviderClaude, nil, 70, 70, 60),
		emptyRecs(),
	)
	assert.Equal(t, 65, result.OverallBrandClarityScore)
}

func TestReduceBrand_OverallClarityScoreRounds(t *testing.T) {
	// Averages: 70, 70, 71 -> mean 70.333 -> 70.
	result := ReduceBrand(
		makePerception(analysis.ProviderOpenAI, nil, 70, 70, 71),
		makePerception(analysis.ProviderClaude, nil, 70, 70, 71),
		emptyRecs(),
	)
	assert.Equal(t, 70, result.OverallBrandClarityScore)
}

func TestReduceBrand_CompetitivePositioningBands(t *testing.T) {
	tests := []struct {
		name            string
		positioning     int
		differentiation int
		wantPrefix      string
	}{
		{name: "strong", positioning: 80, differentiation: 70, wantPrefix: "Strongly positioned"},
		{name: "moderate", positioning: 55, differentiation: 55, wantPrefix: "Moderately positioned"},
		{name: "weak", positioning: 30, differentiation: 40, wantPrefix: "Weakly positioned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ReduceBrand(
				makePerception(analysis.ProviderOpenAI, nil, tt.positioning, tt.differentiation, 50),
				makePerception(analysis.ProviderClaude, nil, tt.positioning, tt.differentiation, 50),
				emptyRecs(),
			)
			assert.Contains(t, result.CompetitivePositioning, tt.wantPrefix)
		})
	}
}

func TestReduceBrand_CarriesPerceptionsAndRecommendations(t *testing.T) {
	recs := analysis.BrandRecommendations{
		MetadataRecommendations: []string{"add og:title"},
		ContentRecommendations:  []string{"state the value proposition in the h1"},
		DesignRecommendations:   []string{},
		AIAgentOptimizations: []analysis.AIAgentOptimization{
			{Agent: "chatgpt", Priority: "High", Recommendation: "add FAQ schema"},
		},
	}

	openaiP := makePerception(analysis.ProviderOpenAI, []string{"a"}, 60, 60, 60)
	claudeP := makePerception(analysis.ProviderClaude, []string{"a"}, 60, 60, 60)

	result := ReduceBrand(openaiP, claudeP, recs)

	assert.Equal(t, openaiP, result.OpenAIPerception)
	assert.Equal(t, claudeP, result.ClaudePerception)
	assert.Equal(t, recs, result.CrossAgentRecommendations)
}
