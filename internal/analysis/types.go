package analysis

import (
	"time"

	"github.com/brandaudit/backend/internal/trace"
)

// Provider identifies one of the two LLM backends consulted for an audit.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// SubmissionContext is opaque business context forwarded by the client. It
// is echoed into prompts but never interpreted.
type SubmissionContext map[string]interface{}

type AnalysisRequest struct {
	URL               string            `json:"url"`
	Debug             bool              `json:"debug,omitempty"`
	SubmissionContext SubmissionContext `json:"submissionContext,omitempty"`
}

// PerformanceMetrics is the merged PageSpeed result for mobile and desktop.
type PerformanceMetrics struct {
	MobileScore  int        `json:"mobileScore"`
	DesktopScore int        `json:"desktopScore"`
	OverallScore int        `json:"overallScore"`
	CoreVitals   CoreVitals `json:"coreVitals"`
}

// CoreVitals holds field-data categories rendered as "mobile / desktop".
type CoreVitals struct {
	LCP string `json:"lcp"`
	FID string `json:"fid"`
	CLS string `json:"cls"`
}

type SSLInfo struct {
	HasSSL     bool   `json:"hasSSL"`
	Grade      string `json:"grade"`
	ValidUntil string `json:"validUntil,omitempty"`
	Error      string `json:"error,omitempty"`
}

type SchemaMarkup struct {
	HasSchema       bool     `json:"hasSchema"`
	SchemaTypes     []string `json:"schemaTypes"`
	Count           int      `json:"count"`
	Recommendations []string `json:"recommendations"`
}

type OpenGraphTags struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Type        string `json:"type,omitempty"`
}

type TwitterCardTags struct {
	Card        string `json:"card,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Site        string `json:"site,omitempty"`
}

type SocialTags struct {
	OpenGraph       OpenGraphTags   `json:"openGraph"`
	TwitterCard     TwitterCardTags `json:"twitterCard"`
	OverallScore    int             `json:"overallScore"`
	Recommendations []string        `json:"recommendations"`
}

// PageContent is the scraped snapshot fed to the providers. Text is prompt
// input only and never serialized to the client.
type PageContent struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	H1              []string `json:"h1"`
	H2              []string `json:"h2"`
	WordCount       int      `json:"wordCount"`
	RobotsTxtFound  bool     `json:"robotsTxtFound"`
	SitemapXMLFound bool     `json:"sitemapXmlFound"`
	Text            string   `json:"-"`
}

// ExternalSignals groups the collector outputs. Each field is independently
// fallback-safe: a failed collector yields its documented fallback value
// (see fallbacks.go), never a half-populated struct.
type ExternalSignals struct {
	Performance PerformanceMetrics `json:"performance"`
	SSL         SSLInfo            `json:"ssl"`
	Content     PageContent        `json:"content"`
	Schema      SchemaMarkup       `json:"schema"`
	Social      SocialTags         `json:"socialTags"`
}

// ScoreSet holds per-dimension 0-100 scores. A nil field means the provider
// did not return that score; the default is substituted once, at report
// assembly.
type ScoreSet struct {
	BrandVoice      *int `json:"brandVoice,omitempty"`
	GEOReadiness    *int `json:"geoReadiness,omitempty"`
	TechnicalHealth *int `json:"technicalHealth,omitempty"`
}

type AIAnalysis struct {
	Provider         Provider `json:"provider"`
	Summary          string   `json:"summary"`
	Scores           ScoreSet `json:"scores"`
	KeyInsights      []string `json:"keyInsights"`
	Recommendations  []string `json:"recommendations"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type ConsensusResult struct {
	AgreedInsights     []string   `json:"agreedInsights"`
	UniqueToPrimary    []string   `json:"uniqueToPrimary"`
	UniqueToSecondary  []string   `json:"uniqueToSecondary"`
	RecommendedActions []string   `json:"recommendedActions"`
	Confidence         Confidence `json:"confidence"`
}

// BrandPerception is one provider's judgment of how an AI agent would read
// the site's brand identity.
type BrandPerception struct {
	Provider                  Provider `json:"provider"`
	BrandName                 string   `json:"brandName,omitempty"`
	DetectedBrandAttributes   []string `json:"detectedBrandAttributes"`
	BrandVoiceCharacteristics []string `json:"brandVoiceCharacteristics"`
	PositioningClarity        int      `json:"positioningClarity"`
	DifferentiationScore      int      `json:"differentiationScore"`
	EmotionalTone             string   `json:"emotionalTone"`
	TargetAudienceClarity     int      `json:"targetAudienceClarity"`
}

type AIAgentOptimization struct {
	Agent          string `json:"agent"`
	Priority       string `json:"priority"`
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
	Implementation string `json:"implementation"`
}

type BrandRecommendations struct {
	MetadataRecommendations []string              `json:"metadataRecommendations"`
	ContentRecommendations  []string              `json:"contentRecommendations"`
	DesignRecommendations   []string              `json:"designRecommendations"`
	AIAgentOptimizations    []AIAgentOptimization `json:"aiAgentOptimizations"`
}

// BrandAnalysis is either entirely present in a report or entirely absent;
// no field is populated without the others.
type BrandAnalysis struct {
	OpenAIPerception          BrandPerception      `json:"openaiPerception"`
	ClaudePerception          BrandPerception      `json:"claudePerception"`
	ConsensusBrandAttributes  []string             `json:"consensusBrandAttributes"`
	BrandStrengths            []string             `json:"brandStrengths"`
	BrandWeaknesses           []string             `json:"brandWeaknesses"`
	CompetitivePositioning    string               `json:"competitivePositioning"`
	OverallBrandClarityScore  int                  `json:"overallBrandClarityScore"`
	CrossAgentRecommendations BrandRecommendations `json:"crossAgentRecommendations"`
}

// ActionItem is one entry of the generated three-step action plan.
type ActionItem struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Impact   string `json:"impact"`
}

type Score struct {
	Overall         int    `json:"overall"`
	Grade           string `json:"grade"`
	BrandVoice      int    `json:"brandVoice"`
	GEOReadiness    int    `json:"geoReadiness"`
	TechnicalHealth int    `json:"technicalHealth"`
}

type Diagnostics struct {
	TotalDurationMs int64         `json:"totalDurationMs"`
	Steps           []trace.Entry `json:"steps"`
	Summary         trace.Summary `json:"summary"`
}

// AnalysisReport is the final aggregate returned to the client and stored
// by submission id. Constructed once at the end of orchestration, never
// mutated afterwards.
type AnalysisReport struct {
	SubmissionID  string             `json:"submissionId"`
	URL           string             `json:"url"`
	AnalyzedAt    time.Time          `json:"analyzedAt"`
	Summary       string             `json:"summary"`
	Score         Score              `json:"score"`
	Performance   PerformanceMetrics `json:"performance"`
	SSL           SSLInfo            `json:"ssl"`
	Content       PageContent        `json:"content"`
	Schema        SchemaMarkup       `json:"schema"`
	SocialTags    SocialTags         `json:"socialTags"`
	Analyses      []AIAnalysis       `json:"analyses"`
	Consensus     *ConsensusResult   `json:"consensus,omitempty"`
	BrandAnalysis *BrandAnalysis     `json:"brandAnalysis,omitempty"`
	ActionPlan    []ActionItem       `json:"actionPlan,omitempty"`
	Diagnostics   *Diagnostics       `json:"diagnostics,omitempty"`
}
