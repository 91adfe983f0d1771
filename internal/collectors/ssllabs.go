package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/analysis"
	"github.com/brandaudit/backend/pkg/logger"
)

// SSLLabsClient fetches a cached certificate grade for a hostname.
type SSLLabsClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewSSLLabsClient(endpoint string, timeout time.Duration) *SSLLabsClient {
	return &SSLLabsClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *SSLLabsClient) Collect(ctx context.Context, targetURL string) (analysis.SSLInfo, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil || parsed.Hostname() == "" {
		return analysis.SSLInfo{}, fmt.Errorf("cannot derive hostname from %q", targetURL)
	}

	params := url.Values{}
	params.Set("host", parsed.Hostname())
	params.Set("fromCache", "on")
	params.Set("all", "done")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?%s", c.endpoint, params.Encode()), nil)
	if err != nil {
		return analysis.SSLInfo{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return analysis.SSLInfo{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return analysis.SSLInfo{}, fmt.Errorf("ssllabs returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return analysis.SSLInfo{}, fmt.Errorf("failed to read response: %w", err)
	}

	var payload struct {
		Status    string `json:"status"`
		Endpoints []struct {
			Grade string `json:"grade"`
		} `json:"endpoints"`
		Certs []struct {
			NotAfter int64 `json:"notAfter"`
		} `json:"certs"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return analysis.SSLInfo{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if payload.Status != "READY" {
		return analysis.SSLInfo{}, fmt.Errorf("assessment not ready (status %s)", payload.Status)
	}
	if len(payload.Endpoints) == 0 || payload.Endpoints[0].Grade == "" {
		return analysis.SSLInfo{}, fmt.Errorf("assessment returned no graded endpoints")
	}

	info := analysis.SSLInfo{
		HasSSL: parsed.Scheme == "https",
		Grade:  payload.Endpoints[0].Grade,
	}
	if len(payload.Certs) > 0 && payload.Certs[0].NotAfter > 0 {
		info.ValidUntil = time.UnixMilli(payload.Certs[0].NotAfter).UTC().Format(time.RFC3339)
	}

	logger.Debug("SSL grade collected",
		zap.String("host", parsed.Hostname()),
		zap.String("grade", info.Grade),
	)

	return info, nil
}
