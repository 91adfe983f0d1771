package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/analysis"
	"github.com/brandaudit/backend/pkg/logger"
)

// Scraper pulls the page snapshot, JSON-LD structured data, and social
// meta tags in a single fetch.
type Scraper struct {
	userAgent  string
	maxTextLen int
	httpClient *http.Client
}

func NewScraper(userAgent string, maxTextLen int, timeout time.Duration) *Scraper {
	return &Scraper{
		userAgent:  userAgent,
		maxTextLen: maxTextLen,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *Scraper) Scrape(ctx context.Context, targetURL string) (analysis.PageContent, analysis.SchemaMarkup, analysis.SocialTags, error) {
	doc, err := s.fetchDocument(ctx, targetURL)
	if err != nil {
		return analysis.PageContent{}, analysis.SchemaMarkup{}, analysis.SocialTags{}, err
	}

	content := s.extractContent(ctx, targetURL, doc)
	schema := extractSchemaMarkup(doc)
	social := extractSocialTags(doc)

	logger.Debug("Site scraped",
		zap.String("url", targetURL),
		zap.Int("word_count", content.WordCount),
		zap.Int("schema_blocks", schema.Count),
	)

	return content, schema, social, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, targetURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

func (s *Scraper) extractContent(ctx context.Context, targetURL string, doc *goquery.Document) analysis.PageContent {
	content := analysis.PageContent{
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
		H1:              headingTexts(doc, "h1"),
		H2:              headingTexts(doc, "h2"),
	}

	main := doc.Find("main")
	if main.Length() == 0 {
		main = doc.Find("body")
	}
	scope := main.Clone()
	scope.Find("script, style, noscript").Remove()
	text := strings.Join(strings.Fields(scope.Text()), " ")

	content.WordCount = len(strings.Fields(text))
	if len(text) > s.maxTextLen {
		text = text[:s.maxTextLen]
	}
	content.Text = text

	if parsed, err := url.Parse(targetURL); err == nil {
		base := parsed.Scheme + "://" + parsed.Host
		content.RobotsTxtFound = s.resourceExists(ctx, base+"/robots.txt")
		content.SitemapXMLFound = s.resourceExists(ctx, base+"/sitemap.xml")
	}

	return content
}

func headingTexts(doc *goquery.Document, selector string) []string {
	out := []string{}
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// resourceExists probes with HEAD, falling back to GET for servers that
// reject HEAD outright.
func (s *Scraper) resourceExists(ctx context.Context, resourceURL string) bool {
	status, err := s.probe(ctx, http.MethodHead, resourceURL)
	if err != nil {
		return false
	}
	if status == http.StatusMethodNotAllowed {
		status, err = s.probe(ctx, http.MethodGet, resourceURL)
		if err != nil {
			return false
		}
	}
	return status >= 200 && status < 300
}

func (s *Scraper) probe(ctx context.Context, method, resourceURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, resourceURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func extractSchemaMarkup(doc *goquery.Document) analysis.SchemaMarkup {
	markup := analysis.SchemaMarkup{
		SchemaTypes:     []string{},
		Recommendations: []string{},
	}

	seen := map[string]struct{}{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var payload interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return
		}
		markup.Count++
		for _, schemaType := range schemaTypesOf(payload) {
			if _, ok := seen[schemaType]; !ok {
				seen[schemaType] = struct{}{}
				markup.SchemaTypes = append(markup.SchemaTypes, schemaType)
			}
		}
	})

	markup.HasSchema = markup.Count > 0

	if !markup.HasSchema {
		markup.Recommendations = append(markup.Recommendations,
			"Add JSON-LD structured data so AI agents can identify the organization and its offerings")
		return markup
	}
	if _, ok := seen["Organization"]; !ok {
		markup.Recommendations = append(markup.Recommendations,
			"Add an Organization schema block with name, logo, and sameAs links")
	}
	if _, ok := seen["WebSite"]; !ok {
		markup.Recommendations = append(markup.Recommendations,
			"Add a WebSite schema block to name the site for answer engines")
	}

	return markup
}

// schemaTypesOf walks one JSON-LD payload: a lone object, an array of
// objects, or an @graph wrapper. @type may itself be a string or an array.
func schemaTypesOf(payload interface{}) []string {
	var types []string

	switch value := payload.(type) {
	case []interface{}:
		for _, item := range value {
			types = append(types, schemaTypesOf(item)...)
		}
	case map[string]interface{}:
		switch typed := value["@type"].(type) {
		case string:
			types = append(types, typed)
		case []interface{}:
			for _, entry := range typed {
				if s, ok := entry.(string); ok {
					types = append(types, s)
				}
			}
		}
		if graph, ok := value["@graph"]; ok {
			types = append(types, schemaTypesOf(graph)...)
		}
	}

	return types
}

func extractSocialTags(doc *goquery.Document) analysis.SocialTags {
	property := func(name string) string {
		return strings.TrimSpace(doc.Find(fmt.Sprintf(`meta[property=%q]`, name)).AttrOr("content", ""))
	}
	metaName := func(name string) string {
		return strings.TrimSpace(doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).AttrOr("content", ""))
	}

	tags := analysis.SocialTags{
		OpenGraph: analysis.OpenGraphTags{
			Title:       property("og:title"),
			Description: property("og:description"),
			Image:       property("og:image"),
			URL:         property("og:url"),
			SiteName:    property("og:site_name"),
			Type:        property("og:type"),
		},
		TwitterCard: analysis.TwitterCardTags{
			Card:        metaName("twitter:card"),
			Title:       metaName("twitter:title"),
			Description: metaName("twitter:description"),
			Image:       metaName("twitter:image"),
			Site:        metaName("twitter:site"),
		},
		Recommendations: []string{},
	}

	tags.OverallScore = scoreSocialTags(tags)

	if tags.OpenGraph.Title == "" || tags.OpenGraph.Description == "" {
		tags.Recommendations = append(tags.Recommendations,
			"Add og:title and og:description so shared links carry the brand message")
	}
	if tags.OpenGraph.Image == "" {
		tags.Recommendations = append(tags.Recommendations,
			"Add an og:image for link previews")
	}
	if tags.TwitterCard.Card == "" {
		tags.Recommendations = append(tags.Recommendations,
			"Add a twitter:card tag to control how the site renders on X/Twitter")
	}

	return tags
}

// scoreSocialTags weights the tags that matter most for link previews.
func scoreSocialTags(tags analysis.SocialTags) int {
	score := 0
	weighted := []struct {
		present bool
		points  int
	}{
		{tags.OpenGraph.Title != "", 20},
		{tags.OpenGraph.Description != "", 20},
		{tags.OpenGraph.Image != "", 20},
		{tags.OpenGraph.URL != "", 5},
		{tags.OpenGraph.SiteName != "", 5},
		{tags.OpenGraph.Type != "", 5},
		{tags.TwitterCard.Card != "", 10},
		{tags.TwitterCard.Title != "", 5},
		{tags.TwitterCard.Description != "", 5},
		{tags.TwitterCard.Image != "", 5},
	}
	for _, w := range weighted {
		if w.present {
			score += w.points
		}
	}
	return score
}
