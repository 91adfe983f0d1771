package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/analysis"
	"github.com/brandaudit/backend/pkg/logger"
)

const metricUnavailable = "Not available"

// PageSpeedClient queries Google PageSpeed Insights v5 for both strategies
// and merges them into one PerformanceMetrics record.
type PageSpeedClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewPageSpeedClient(apiKey, endpoint string, timeout time.Duration) *PageSpeedClient {
	return &PageSpeedClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type strategyResult struct {
	score   int
	metrics map[string]vitalsMetric
}

type vitalsMetric struct {
	Category string `json:"category"`
}

func (c *PageSpeedClient) Collect(ctx context.Context, targetURL string) (analysis.PerformanceMetrics, error) {
	mobile, err := c.fetchStrategy(ctx, targetURL, "mobile")
	if err != nil {
		return analysis.PerformanceMetrics{}, fmt.Errorf("pagespeed mobile: %w", err)
	}

	desktop, err := c.fetchStrategy(ctx, targetURL, "desktop")
	if err != nil {
		return analysis.PerformanceMetrics{}, fmt.Errorf("pagespeed desktop: %w", err)
	}

	metrics := analysis.PerformanceMetrics{
		MobileScore:  mobile.score,
		DesktopScore: desktop.score,
		OverallScore: (mobile.score + desktop.score) / 2,
		CoreVitals: analysis.CoreVitals{
			LCP: mergeVital(mobile, desktop, "LARGEST_CONTENTFUL_PAINT_MS"),
			FID: mergeVital(mobile, desktop, "FIRST_INPUT_DELAY_MS"),
			CLS: mergeVital(mobile, desktop, "CUMULATIVE_LAYOUT_SHIFT_SCORE"),
		},
	}

	logger.Debug("PageSpeed collected",
		zap.String("url", targetURL),
		zap.Int("mobile", metrics.MobileScore),
		zap.Int("desktop", metrics.DesktopScore),
	)

	return metrics, nil
}

func (c *PageSpeedClient) fetchStrategy(ctx context.Context, targetURL, strategy string) (strategyResult, error) {
	params := url.Values{}
	params.Set("url", targetURL)
	params.Set("strategy", strategy)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?%s", c.endpoint, params.Encode()), nil)
	if err != nil {
		return strategyResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return strategyResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return strategyResult{}, fmt.Errorf("pagespeed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return strategyResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	var payload struct {
		LighthouseResult struct {
			Categories struct {
				Performance struct {
					Score *float64 `json:"score"`
				} `json:"performance"`
			} `json:"categories"`
		} `json:"lighthouseResult"`
		LoadingExperience struct {
			Metrics map[string]vitalsMetric `json:"metrics"`
		} `json:"loadingExperience"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return strategyResult{}, fmt.Errorf("failed to parse response: %w", err)
	}

	result := strategyResult{metrics: payload.LoadingExperience.Metrics}
	if score := payload.LighthouseResult.Categories.Performance.Score; score != nil {
		// Lighthouse reports 0.0-1.0; the report uses 0-100.
		result.score = int(math.Round(*score * 100))
	}

	return result, nil
}

// mergeVital renders "mobile / desktop" field-data categories, dropping
// whichever side is missing.
func mergeVital(mobile, desktop strategyResult, metricName string) string {
	mobileCategory := mobile.metrics[metricName].Category
	desktopCategory := desktop.metrics[metricName].Category

	switch {
	case mobileCategory != "" && desktopCategory != "":
		return mobileCategory + " / " + desktopCategory
	case mobileCategory != "":
		return mobileCategory
	case desktopCategory != "":
		return desktopCategory
	default:
		return metricUnavailable
	}
}
