package orchestrator

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/analysis"
	"github.com/brandaudit/backend/internal/consensus"
	"github.com/brandaudit/backend/internal/metrics"
	"github.com/brandaudit/backend/internal/trace"
	"github.com/brandaudit/backend/pkg/logger"
)

type PerformanceCollector interface {
	Collect(ctx context.Context, url string) (analysis.PerformanceMetrics, error)
}

type SSLCollector interface {
	Collect(ctx context.Context, url string) (analysis.SSLInfo, error)
}

type SiteScraper interface {
	Scrape(ctx context.Context, url string) (analysis.PageContent, analysis.SchemaMarkup, analysis.SocialTags, error)
}

type ProviderAdapter interface {
	Provider() analysis.Provider
	Analyze(ctx context.Context, url string, signals analysis.ExternalSignals, submissionCtx analysis.SubmissionContext) (*analysis.AIAnalysis, error)
	PerceiveBrand(ctx context.Context, url string, content analysis.PageContent, social analysis.SocialTags) (*analysis.BrandPerception, error)
	GenerateBrandRecommendations(ctx context.Context, openaiPerception, claudePerception analysis.BrandPerception) (*analysis.BrandRecommendations, error)
	GenerateActionPlan(ctx context.Context, url string, signals analysis.ExternalSignals, audit analysis.AIAnalysis) ([]analysis.ActionItem, error)
}

type ReportStore interface {
	Put(ctx context.Context, id string, report *analysis.AnalysisReport) error
}

type Config struct {
	CollectorTimeout time.Duration
}

// Orchestrator drives one audit end to end: validate, collect signals,
// fan out to both providers, reduce, assemble. Secondary may be nil
// (single-provider mode); store may be nil (report returned but not kept).
type Orchestrator struct {
	performance PerformanceCollector
	ssl         SSLCollector
	scraper     SiteScraper
	primary     ProviderAdapter
	secondary   ProviderAdapter
	store       ReportStore
	cfg         Config
}

func New(performance PerformanceCollector, ssl SSLCollector, scraper SiteScraper,
	primary, secondary ProviderAdapter, store ReportStore, cfg Config) *Orchestrator {
	if cfg.CollectorTimeout == 0 {
		cfg.CollectorTimeout = 45 * time.Second
	}
	return &Orchestrator{
		performance: performance,
		ssl:         ssl,
		scraper:     scraper,
		primary:     primary,
		secondary:   secondary,
		store:       store,
		cfg:         cfg,
	}
}

// Run executes the audit pipeline. Only invalid input, a missing primary
// credential, or a failed primary analysis abort the request; every other
// failure degrades to a documented fallback and is recorded in the trace.
func (o *Orchestrator) Run(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisReport, error) {
	if _, err := analysis.ValidateRequestURL(req.URL); err != nil {
		return nil, err
	}

	if o.primary == nil {
		return nil, &analysis.ConfigurationError{Reason: "primary provider credential is not configured"}
	}

	rec := trace.NewRecorder()

	logger.Info("Starting analysis", zap.String("url", req.URL))

	signals := o.collectSignals(ctx, req.URL, rec)

	primaryResult, secondaryResult := o.runAnalyses(ctx, req, signals, rec)
	if primaryResult.err != nil {
		return nil, primaryResult.err
	}

	analyses := []analysis.AIAnalysis{*primaryResult.analysis}

	var consensusResult *analysis.ConsensusResult
	if secondaryResult.analysis != nil {
		analyses = append(analyses, *secondaryResult.analysis)

		span := rec.Start("consensus")
		reduced := consensus.Reduce(*primaryResult.analysis, *secondaryResult.analysis)
		consensusResult = &reduced
		span.Success(map[string]interface{}{
			"confidence": reduced.Confidence,
			"agreed":     len(reduced.AgreedInsights),
		})
		metrics.ConsensusConfidence.WithLabelValues(string(reduced.Confidence)).Inc()
	} else {
		rec.Skip("consensus", "secondary analysis unavailable")
	}

	// Brand analysis and the action plan are enhancements; both branches
	// run concurrently and either may drop out without failing the request.
	var (
		wg            sync.WaitGroup
		brandAnalysis *analysis.BrandAnalysis
		actionPlan    []analysis.ActionItem
	)

	if secondaryResult.analysis != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			brandAnalysis = o.runBrandAnalysis(ctx, req.URL, signals, rec)
		}()
	} else {
		o.skipBrandAnalysis(rec, "requires both provider analyses")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		actionPlan = o.runActionPlan(ctx, req.URL, signals, *primaryResult.analysis, rec)
	}()

	wg.Wait()

	report := o.assemble(req, signals, analyses, consensusResult, brandAnalysis, actionPlan)

	o.storeReport(ctx, rec, report)

	if req.Debug {
		report.Diagnostics = &analysis.Diagnostics{
			TotalDurationMs: rec.TotalDurationMs(),
			Steps:           rec.Entries(),
			Summary:         rec.Summarize(),
		}
	}

	logger.Info("Analysis complete",
		zap.String("url", req.URL),
		zap.String("submission_id", report.SubmissionID),
		zap.Int("score", report.Score.Overall),
		zap.Bool("degraded", secondaryResult.analysis == nil),
	)

	return report, nil
}

// collectSignals launches the three external collectors concurrently and
// waits for all of them to settle. A failing collector yields its fallback
// value and an error entry in the trace; it never aborts the request.
func (o *Orchestrator) collectSignals(ctx context.Context, url string, rec *trace.Recorder) analysis.ExternalSignals {
	signals := analysis.ExternalSignals{
		Performance: analysis.FallbackPerformance(),
		SSL:         analysis.FallbackSSL(url, nil),
		Content:     analysis.FallbackContent(),
		Schema:      analysis.FallbackSchema(),
		Social:      analysis.FallbackSocial(),
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		span := rec.Start("collect_performance")
		cctx, cancel := context.WithTimeout(ctx, o.cfg.CollectorTimeout)
		defer cancel()

		performance, err := o.performance.Collect(cctx, url)
		if err != nil {
			span.Error(err)
			metrics.CollectorFailures.WithLabelValues("performance").Inc()
			logger.Warn("Performance collector failed", zap.Error(err))
			return
		}
		signals.Performance = performance
		span.Success(map[string]int{"overallScore": performance.OverallScore})
	}()

	go func() {
		defer wg.Done()
		span := rec.Start("collect_ssl")
		cctx, cancel := context.WithTimeout(ctx, o.cfg.CollectorTimeout)
		defer cancel()

		ssl, err := o.ssl.Collect(cctx, url)
		if err != nil {
			span.Error(err)
			metrics.CollectorFailures.WithLabelValues("ssl").Inc()
			logger.Warn("SSL collector failed", zap.Error(err))
			signals.SSL = analysis.FallbackSSL(url, err)
			return
		}
		signals.SSL = ssl
		span.Success(map[string]string{"grade": ssl.Grade})
	}()

	go func() {
		defer wg.Done()
		span := rec.Start("scrape_site")
		cctx, cancel := context.WithTimeout(ctx, o.cfg.CollectorTimeout)
		defer cancel()

		content, schema, social, err := o.scraper.Scrape(cctx, url)
		if err != nil {
			span.Error(err)
			metrics.CollectorFailures.WithLabelValues("scraper").Inc()
			logger.Warn("Scraper failed", zap.Error(err))
			return
		}
		signals.Content = content
		signals.Schema = schema
		signals.Social = social
		span.Success(map[string]int{"wordCount": content.WordCount})
	}()

	wg.Wait()
	return signals
}

type analysisOutcome struct {
	analysis *analysis.AIAnalysis
	err      error
}

// runAnalyses fans out to both providers and waits for both to settle. The
// primary outcome decides the request; the secondary only decides whether
// consensus and brand analysis happen.
func (o *Orchestrator) runAnalyses(ctx context.Context, req analysis.AnalysisRequest,
	signals analysis.ExternalSignals, rec *trace.Recorder) (analysisOutcome, analysisOutcome) {

	var (
		wg               sync.WaitGroup
		primaryOutcome   analysisOutcome
		secondaryOutcome analysisOutcome
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		primaryOutcome = o.runOneAnalysis(ctx, o.primary, req, signals, rec)
	}()

	if o.secondary != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			secondaryOutcome = o.runOneAnalysis(ctx, o.secondary, req, signals, rec)
		}()
	} else {
		rec.Skip(string(analysis.ProviderClaude)+"_analysis", "secondary provider not configured")
	}

	wg.Wait()
	return primaryOutcome, secondaryOutcome
}

func (o *Orchestrator) runOneAnalysis(ctx context.Context, adapter ProviderAdapter,
	req analysis.AnalysisRequest, signals analysis.ExternalSignals, rec *trace.Recorder) analysisOutcome {

	provider := string(adapter.Provider())
	span := rec.Start(provider + "_analysis")

	started := time.Now()
	result, err := adapter.Analyze(ctx, req.URL, signals, req.SubmissionContext)
	metrics.ProviderLatency.WithLabelValues(provider, "analyze").Observe(time.Since(started).Seconds())

	if err != nil {
		span.Error(err)
		metrics.ProviderFailures.WithLabelValues(provider, "analyze").Inc()
		logger.Warn("Provider analysis failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		return analysisOutcome{err: err}
	}

	span.Success(map[string]interface{}{"insights": len(result.KeyInsights)})
	return analysisOutcome{analysis: result}
}

// runBrandAnalysis is the enhancement branch: two concurrent perception
// calls, then (only if both landed) the cross-agent recommendation call,
// then the reduce. Any failure drops the whole branch.
func (o *Orchestrator) runBrandAnalysis(ctx context.Context, url string,
	signals analysis.ExternalSignals, rec *trace.Recorder) *analysis.BrandAnalysis {

	var (
		wg                  sync.WaitGroup
		primaryPerception   *analysis.BrandPerception
		secondaryPerception *analysis.BrandPerception
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		primaryPerception = o.runPerception(ctx, o.primary, url, signals, rec)
	}()
	go func() {
		defer wg.Done()
		secondaryPerception = o.runPerception(ctx, o.secondary, url, signals, rec)
	}()
	wg.Wait()

	if primaryPerception == nil || secondaryPerception == nil {
		rec.Skip("brand_recommendations", "requires both brand perceptions")
		rec.Skip("brand_consensus", "requires both brand perceptions")
		return nil
	}

	// The recommendation call needs both perceptions as input, so it
	// cannot overlap with them.
	span := rec.Start("brand_recommendations")
	started := time.Now()
	recs, err := o.primary.GenerateBrandRecommendations(ctx, *primaryPerception, *secondaryPerception)
	metrics.ProviderLatency.WithLabelValues(string(o.primary.Provider()), "brand_recommendations").Observe(time.Since(started).Seconds())
	if err != nil {
		span.Error(err)
		metrics.ProviderFailures.WithLabelValues(string(o.primary.Provider()), "brand_recommendations").Inc()
		logger.Warn("Brand recommendation generation failed", zap.Error(err))
		rec.Skip("brand_consensus", "recommendation generation failed")
		return nil
	}
	span.Success(nil)

	consensusSpan := rec.Start("brand_consensus")
	merged := consensus.ReduceBrand(*primaryPerception, *secondaryPerception, *recs)
	consensusSpan.Success(map[string]int{"clarityScore": merged.OverallBrandClarityScore})

	return &merged
}

func (o *Orchestrator) runPerception(ctx context.Context, adapter ProviderAdapter,
	url string, signals analysis.ExternalSignals, rec *trace.Recorder) *analysis.BrandPerception {

	provider := string(adapter.Provider())
	span := rec.Start(provider + "_brand_perception")

	started := time.Now()
	perception, err := adapter.PerceiveBrand(ctx, url, signals.Content, signals.Social)
	metrics.ProviderLatency.WithLabelValues(provider, "perceive_brand").Observe(time.Since(started).Seconds())

	if err != nil {
		span.Error(err)
		metrics.ProviderFailures.WithLabelValues(provider, "perceive_brand").Inc()
		logger.Warn("Brand perception failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		return nil
	}

	span.Success(nil)
	return perception
}

func (o *Orchestrator) skipBrandAnalysis(rec *trace.Recorder, reason string) {
	rec.Skip(string(analysis.ProviderOpenAI)+"_brand_perception", reason)
	rec.Skip(string(analysis.ProviderClaude)+"_brand_perception", reason)
	rec.Skip("brand_recommendations", reason)
	rec.Skip("brand_consensus", reason)
}

func (o *Orchestrator) runActionPlan(ctx context.Context, url string,
	signals analysis.ExternalSignals, audit analysis.AIAnalysis, rec *trace.Recorder) []analysis.ActionItem {

	span := rec.Start("action_plan")
	started := time.Now()
	plan, err := o.primary.GenerateActionPlan(ctx, url, signals, audit)
	metrics.ProviderLatency.WithLabelValues(string(o.primary.Provider()), "action_plan").Observe(time.Since(started).Seconds())
	if err != nil {
		span.Error(err)
		metrics.ProviderFailures.WithLabelValues(string(o.primary.Provider()), "action_plan").Inc()
		logger.Warn("Action plan generation failed", zap.Error(err))
		return nil
	}
	span.Success(map[string]int{"items": len(plan)})
	return plan
}

func (o *Orchestrator) storeReport(ctx context.Context, rec *trace.Recorder, report *analysis.AnalysisReport) {
	if o.store == nil {
		rec.Skip("store_report", "report store not configured")
		return
	}

	span := rec.Start("store_report")
	if err := o.store.Put(ctx, report.SubmissionID, report); err != nil {
		span.Error(err)
		metrics.ReportStoreFailures.Inc()
		logger.Warn("Failed to store report", zap.Error(err))
		return
	}
	span.Success(nil)
}

// defaultScore replaces scores a provider declined to return. Substituted
// exactly once, here, at assembly time.
const defaultScore = 50

func (o *Orchestrator) assemble(req analysis.AnalysisRequest, signals analysis.ExternalSignals,
	analyses []analysis.AIAnalysis, consensusResult *analysis.ConsensusResult,
	brandAnalysis *analysis.BrandAnalysis, actionPlan []analysis.ActionItem) *analysis.AnalysisReport {

	brandVoice := combinedScore(analyses, func(s analysis.ScoreSet) *int { return s.BrandVoice }, defaultScore)
	geoReadiness := combinedScore(analyses, func(s analysis.ScoreSet) *int { return s.GEOReadiness }, defaultScore)

	// Technical health prefers the providers' judgment but falls back to
	// the measured performance score before the generic default.
	technicalFallback := defaultScore
	if signals.Performance.OverallScore > 0 {
		technicalFallback = signals.Performance.OverallScore
	}
	technicalHealth := combinedScore(analyses, func(s analysis.ScoreSet) *int { return s.TechnicalHealth }, technicalFallback)

	overall := int(math.Round(
		0.4*float64(brandVoice) + 0.4*float64(geoReadiness) + 0.2*float64(signals.Performance.OverallScore)))

	return &analysis.AnalysisReport{
		SubmissionID: uuid.New().String(),
		URL:          req.URL,
		AnalyzedAt:   time.Now().UTC(),
		Summary:      analyses[0].Summary,
		Score: analysis.Score{
			Overall:         overall,
			Grade:           gradeFor(overall),
			BrandVoice:      brandVoice,
			GEOReadiness:    geoReadiness,
			TechnicalHealth: technicalHealth,
		},
		Performance:   signals.Performance,
		SSL:           signals.SSL,
		Content:       signals.Content,
		Schema:        signals.Schema,
		SocialTags:    signals.Social,
		Analyses:      analyses,
		Consensus:     consensusResult,
		BrandAnalysis: brandAnalysis,
		ActionPlan:    actionPlan,
	}
}

// combinedScore averages whichever providers returned the dimension,
// falling back when none did.
func combinedScore(analyses []analysis.AIAnalysis, pick func(analysis.ScoreSet) *int, fallback int) int {
	sum, count := 0, 0
	for _, a := range analyses {
		if v := pick(a.Scores); v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return fallback
	}
	return int(math.Round(float64(sum) / float64(count)))
}

var gradeBands = []struct {
	min   int
	grade string
}{
	{93, "A"}, {90, "A-"}, {87, "B+"}, {83, "B"}, {80, "B-"},
	{77, "C+"}, {73, "C"}, {70, "C-"}, {67, "D+"}, {63, "D"}, {60, "D-"},
}

func gradeFor(overall int) string {
	for _, band := range gradeBands {
		if overall >= band.min {
			return band.grade
		}
	}
	return "F"
}
