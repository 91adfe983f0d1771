package analysis

import (
	"fmt"
	"strings"
)

// The two providers deliberately audit through different lenses: openai as a
// general marketing/UX strategist, claude as an AI-native/GEO specialist.
// Both are asked for the same output schema so the consensus step compares
// distinct judgments, not prompt echoes.

const openaiAnalysisSystemPrompt = `You are an AI marketing strategist auditing a website for brand clarity, ` +
	`tone of voice, and user experience. Judge how well the site communicates ` +
	`its value to a human visitor. Return only valid JSON.`

const claudeAnalysisSystemPrompt = `You are a generative-engine-optimization specialist auditing a website for ` +
	`AI-native readiness: how well AI agents, answer engines, and LLM crawlers ` +
	`can understand, cite, and recommend this site. Return only valid JSON.`

const analysisOutputSchema = `Return a JSON object with keys: summary (string), ` +
	`scores (object with brandVoice, geoReadiness, technicalHealth, each an integer 0-100), ` +
	`keyInsights (array of strings), recommendations (array of strings).`

const brandPerceptionSystemPrompt = `You are role-playing an AI agent encountering this website for the first ` +
	`time. Describe how an AI agent perceives this brand from its markup and ` +
	`content alone. Return only valid JSON.`

const brandPerceptionOutputSchema = `Return a JSON object with keys: brandName (string or null), ` +
	`detectedBrandAttributes (array of strings), brandVoiceCharacteristics (array of strings), ` +
	`positioningClarity (integer 0-100), differentiationScore (integer 0-100), ` +
	`emotionalTone (string), targetAudienceClarity (integer 0-100).`

const brandRecommendationsSystemPrompt = `You are an AI-visibility consultant. Given how two different AI agents ` +
	`perceived the same brand, produce concrete changes that would make the ` +
	`brand legible to AI agents in general. Return only valid JSON.`

const brandRecommendationsOutputSchema = `Return a JSON object with keys: metadataRecommendations (array of strings), ` +
	`contentRecommendations (array of strings), designRecommendations (array of strings), ` +
	`aiAgentOptimizations (array of objects with agent, priority (High, Medium, or Low), ` +
	`recommendation, rationale, implementation).`

const actionPlanSystemPrompt = `Return strategic marketing actions formatted as JSON.`

const actionPlanOutputSchema = `Return a JSON object with key actionPlan as an array of exactly three items. ` +
	`Each item must include title, summary, category (Quick Win, Opportunity, or Foundation), ` +
	`and impact (High, Medium, Low). Actions must be specific to AI readiness and GEO strategy.`

func analysisSystemPrompt(provider Provider) string {
	if provider == ProviderClaude {
		return claudeAnalysisSystemPrompt
	}
	return openaiAnalysisSystemPrompt
}

// renderScore renders optional metric values for prompt text. Absent values
// become "N/A" so no null ever reaches the prompt.
func renderScore(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}

func renderInt(v int) string {
	return fmt.Sprintf("%d", v)
}

// signalsSnapshot flattens the collected signals into prompt text.
func signalsSnapshot(url string, signals ExternalSignals) string {
	var b strings.Builder

	fmt.Fprintf(&b, "URL: %s\n", url)
	fmt.Fprintf(&b, "Title: %s\n", orNA(signals.Content.Title))
	fmt.Fprintf(&b, "Meta description: %s\n", orNA(signals.Content.MetaDescription))
	fmt.Fprintf(&b, "H1 headings: %s\n", orNA(strings.Join(signals.Content.H1, " | ")))
	fmt.Fprintf(&b, "H2 headings: %s\n", orNA(strings.Join(signals.Content.H2, " | ")))
	fmt.Fprintf(&b, "Word count: %s\n", renderInt(signals.Content.WordCount))
	fmt.Fprintf(&b, "robots.txt found: %t, sitemap.xml found: %t\n",
		signals.Content.RobotsTxtFound, signals.Content.SitemapXMLFound)

	fmt.Fprintf(&b, "Performance scores: mobile %s, desktop %s, overall %s\n",
		renderInt(signals.Performance.MobileScore),
		renderInt(signals.Performance.DesktopScore),
		renderInt(signals.Performance.OverallScore))
	fmt.Fprintf(&b, "Core web vitals: LCP %s, FID %s, CLS %s\n",
		orNA(signals.Performance.CoreVitals.LCP),
		orNA(signals.Performance.CoreVitals.FID),
		orNA(signals.Performance.CoreVitals.CLS))

	fmt.Fprintf(&b, "SSL grade: %s\n", orNA(signals.SSL.Grade))

	fmt.Fprintf(&b, "Structured data: present=%t, types=%s\n",
		signals.Schema.HasSchema, orNA(strings.Join(signals.Schema.SchemaTypes, ", ")))
	fmt.Fprintf(&b, "Social tags score: %s\n", renderInt(signals.Social.OverallScore))

	if signals.Content.Text != "" {
		fmt.Fprintf(&b, "\nPage content:\n%s\n", signals.Content.Text)
	}

	return b.String()
}

func contextSnapshot(ctx SubmissionContext) string {
	if len(ctx) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nBusiness context provided by the site owner:\n")
	for key, value := range ctx {
		fmt.Fprintf(&b, "- %s: %v\n", key, value)
	}
	return b.String()
}

func perceptionSnapshot(p BrandPerception) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Agent: %s\n", p.Provider)
	fmt.Fprintf(&b, "Brand name: %s\n", orNA(p.BrandName))
	fmt.Fprintf(&b, "Detected attributes: %s\n", orNA(strings.Join(p.DetectedBrandAttributes, ", ")))
	fmt.Fprintf(&b, "Voice characteristics: %s\n", orNA(strings.Join(p.BrandVoiceCharacteristics, ", ")))
	fmt.Fprintf(&b, "Positioning clarity: %s\n", renderInt(p.PositioningClarity))
	fmt.Fprintf(&b, "Differentiation: %s\n", renderInt(p.DifferentiationScore))
	fmt.Fprintf(&b, "Emotional tone: %s\n", orNA(p.EmotionalTone))
	fmt.Fprintf(&b, "Target audience clarity: %s\n", renderInt(p.TargetAudienceClarity))
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
