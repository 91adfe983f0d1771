package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/llm"
	"github.com/brandaudit/backend/pkg/logger"
)

// Adapter binds one provider's prompt framing to the shared LLM client and
// normalizes its JSON-shaped replies into domain records.
type Adapter struct {
	provider Provider
	client   *llm.Client
}

func NewAdapter(provider Provider, client *llm.Client) *Adapter {
	return &Adapter{provider: provider, client: client}
}

func (a *Adapter) Provider() Provider {
	return a.provider
}

type analysisWire struct {
	Summary string `json:"summary"`
	Scores  struct {
		BrandVoice      *int `json:"brandVoice"`
		GEOReadiness    *int `json:"geoReadiness"`
		TechnicalHealth *int `json:"technicalHealth"`
	} `json:"scores"`
	KeyInsights     []string `json:"keyInsights"`
	Recommendations []string `json:"recommendations"`
}

// Analyze runs the provider's audit over the collected signals.
func (a *Adapter) Analyze(ctx context.Context, url string, signals ExternalSignals, submissionCtx SubmissionContext) (*AIAnalysis, error) {
	started := time.Now()

	userPrompt := fmt.Sprintf("%s\n\nAnalyze this website snapshot:\n%s%s",
		analysisOutputSchema, signalsSnapshot(url, signals), contextSnapshot(submissionCtx))

	resp, err := a.client.Complete(ctx, llm.Request{
		SystemPrompt: analysisSystemPrompt(a.provider),
		UserPrompt:   userPrompt,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: err}
	}

	raw, err := llm.ExtractJSONObject(resp.Content)
	if err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: err}
	}

	var wire analysisWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: fmt.Errorf("unexpected analysis shape: %w", err)}
	}

	result := &AIAnalysis{
		Provider: a.provider,
		Summary:  wire.Summary,
		Scores: ScoreSet{
			BrandVoice:      clampScore(wire.Scores.BrandVoice),
			GEOReadiness:    clampScore(wire.Scores.GEOReadiness),
			TechnicalHealth: clampScore(wire.Scores.TechnicalHealth),
		},
		KeyInsights:      emptyIfNil(wire.KeyInsights),
		Recommendations:  emptyIfNil(wire.Recommendations),
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}

	logger.Info("Provider analysis complete",
		zap.String("provider", string(a.provider)),
		zap.Int("insights", len(result.KeyInsights)),
		zap.Int64("processing_ms", result.ProcessingTimeMs),
	)

	return result, nil
}

type perceptionWire struct {
	BrandName                 string   `json:"brandName"`
	DetectedBrandAttributes   []string `json:"detectedBrandAttributes"`
	BrandVoiceCharacteristics []string `json:"brandVoiceCharacteristics"`
	PositioningClarity        int      `json:"positioningClarity"`
	DifferentiationScore      int      `json:"differentiationScore"`
	EmotionalTone             string   `json:"emotionalTone"`
	TargetAudienceClarity     int      `json:"targetAudienceClarity"`
}

// PerceiveBrand asks the provider to role-play an AI agent reading the
// site's brand identity.
func (a *Adapter) PerceiveBrand(ctx context.Context, url string, content PageContent, social SocialTags) (*BrandPerception, error) {
	var signals ExternalSignals
	signals.Content = content
	signals.Social = social

	userPrompt := fmt.Sprintf("%s\n\nHere is what you can observe about the brand:\n%s",
		brandPerceptionOutputSchema, signalsSnapshot(url, signals))

	resp, err := a.client.Complete(ctx, llm.Request{
		SystemPrompt: brandPerceptionSystemPrompt,
		UserPrompt:   userPrompt,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: err}
	}

	raw, err := llm.ExtractJSONObject(resp.Content)
	if err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: err}
	}

	var wire perceptionWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: fmt.Errorf("unexpected perception shape: %w", err)}
	}

	return &BrandPerception{
		Provider:                  a.provider,
		BrandName:                 wire.BrandName,
		DetectedBrandAttributes:   emptyIfNil(wire.DetectedBrandAttributes),
		BrandVoiceCharacteristics: emptyIfNil(wire.BrandVoiceCharacteristics),
		PositioningClarity:        clampInt(wire.PositioningClarity),
		DifferentiationScore:      clampInt(wire.DifferentiationScore),
		EmotionalTone:             wire.EmotionalTone,
		TargetAudienceClarity:     clampInt(wire.TargetAudienceClarity),
	}, nil
}

// GenerateBrandRecommendations is the cross-agent call made against the
// primary provider once both perceptions are in.
func (a *Adapter) GenerateBrandRecommendations(ctx context.Context, openaiPerception, claudePerception BrandPerception) (*BrandRecommendations, error) {
	userPrompt := fmt.Sprintf("%s\n\nPerception one:\n%s\nPerception two:\n%s",
		brandRecommendationsOutputSchema,
		perceptionSnapshot(openaiPerception),
		perceptionSnapshot(claudePerception))

	resp, err := a.client.Complete(ctx, llm.Request{
		SystemPrompt: brandRecommendationsSystemPrompt,
		UserPrompt:   userPrompt,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: err}
	}

	raw, err := llm.ExtractJSONObject(resp.Content)
	if err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: err}
	}

	var recs BrandRecommendations
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: fmt.Errorf("unexpected recommendations shape: %w", err)}
	}

	recs.MetadataRecommendations = emptyIfNil(recs.MetadataRecommendations)
	recs.ContentRecommendations = emptyIfNil(recs.ContentRecommendations)
	recs.DesignRecommendations = emptyIfNil(recs.DesignRecommendations)
	if recs.AIAgentOptimizations == nil {
		recs.AIAgentOptimizations = []AIAgentOptimization{}
	}

	return &recs, nil
}

type actionPlanWire struct {
	ActionPlan []ActionItem `json:"actionPlan"`
}

// GenerateActionPlan asks the primary provider for a three-item action plan
// grounded in the audit results.
func (a *Adapter) GenerateActionPlan(ctx context.Context, url string, signals ExternalSignals, audit AIAnalysis) ([]ActionItem, error) {
	userPrompt := fmt.Sprintf("%s\n\nWebsite snapshot:\n%s\nAudit summary: %s\nKey insights: %v\nScores: brandVoice %s, geoReadiness %s, technicalHealth %s",
		actionPlanOutputSchema,
		signalsSnapshot(url, signals),
		audit.Summary,
		audit.KeyInsights,
		renderScore(audit.Scores.BrandVoice),
		renderScore(audit.Scores.GEOReadiness),
		renderScore(audit.Scores.TechnicalHealth))

	resp, err := a.client.Complete(ctx, llm.Request{
		SystemPrompt: actionPlanSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0.4,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: err}
	}

	raw, err := llm.ExtractJSONObject(resp.Content)
	if err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: err}
	}

	var wire actionPlanWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, &ProviderError{Provider: a.provider, Err: fmt.Errorf("unexpected action plan shape: %w", err)}
	}

	if len(wire.ActionPlan) == 0 {
		return nil, &ProviderError{Provider: a.provider, Err: fmt.Errorf("action plan response missing actionPlan array")}
	}

	return wire.ActionPlan, nil
}

func clampScore(v *int) *int {
	if v == nil {
		return nil
	}
	clamped := clampInt(*v)
	return &clamped
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
