package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandaudit/backend/internal/analysis"
	redisstore "github.com/brandaudit/backend/internal/storage/redis"
)

type stubAuditor struct {
	report  *analysis.AnalysisReport
	err     error
	lastReq analysis.AnalysisRequest
}

func (s *stubAuditor) Run(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisReport, error) {
	s.lastReq = req
	return s.report, s.err
}

type stubReader struct {
	report *analysis.AnalysisReport
	err    error
}

func (s *stubReader) Get(ctx context.Context, id string) (*analysis.AnalysisReport, error) {
	return s.report, s.err
}

func newAnalyzeApp(auditor Auditor) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/analyze", NewAnalyzeHandler(auditor).HandleAnalyze)
	return app
}

func postAnalyze(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	auditor := &stubAuditor{report: &analysis.AnalysisReport{
		SubmissionID: "abc-123",
		URL:          "https://example.com",
		AnalyzedAt:   time.Now().UTC(),
		Score:        analysis.Score{Overall: 72, Grade: "C-"},
	}}
	app := newAnalyzeApp(auditor)

	status, body := postAnalyze(t, app, `{"url":"https://example.com","debug":true}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "abc-123", body["submissionId"])

	assert.Equal(t, "https://example.com", auditor.lastReq.URL)
	assert.True(t, auditor.lastReq.Debug)
}

func TestHandleAnalyzeInvalidURL(t *testing.T) {
	auditor := &stubAuditor{err: analysis.ErrInvalidURL}
	app := newAnalyzeApp(auditor)

	status, body := postAnalyze(t, app, `{"url":"ftp://example.com"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "Invalid URL")
}

func TestHandleAnalyzeMalformedBody(t *testing.T) {
	auditor := &stubAuditor{}
	app := newAnalyzeApp(auditor)

	status, body := postAnalyze(t, app, `{"url": `)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["message"])
}

func TestHandleAnalyzeConfigurationErrorStaysGeneric(t *testing.T) {
	auditor := &stubAuditor{err: &analysis.ConfigurationError{Reason: "primary provider credential is not configured"}}
	app := newAnalyzeApp(auditor)

	status, body := postAnalyze(t, app, `{"url":"https://example.com"}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)

	// The response must not say which credential is missing.
	msg, ok := body["message"].(string)
	require.True(t, ok)
	assert.NotContains(t, msg, "credential")
	assert.NotContains(t, msg, "provider")
	assert.NotContains(t, msg, "key")
}

func TestHandleAnalyzeProviderError(t *testing.T) {
	auditor := &stubAuditor{err: &analysis.ProviderError{
		Provider: analysis.ProviderOpenAI,
		Err:      errors.New("rate limited"),
	}}
	app := newAnalyzeApp(auditor)

	status, body := postAnalyze(t, app, `{"url":"https://example.com"}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body["message"], "Analysis failed")
}

func TestHandleGetReport(t *testing.T) {
	reader := &stubReader{report: &analysis.AnalysisReport{SubmissionID: "abc-123", URL: "https://example.com"}}
	app := fiber.New()
	app.Get("/api/v1/reports/:id", NewReportHandler(reader).HandleGetReport)

	req := httptest.NewRequest("GET", "/api/v1/reports/abc-123", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report analysis.AnalysisReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "abc-123", report.SubmissionID)
}

func TestHandleGetReportNotFound(t *testing.T) {
	reader := &stubReader{err: redisstore.ErrNotFound}
	app := fiber.New()
	app.Get("/api/v1/reports/:id", NewReportHandler(reader).HandleGetReport)

	req := httptest.NewRequest("GET", "/api/v1/reports/missing", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleGetReportStoreError(t *testing.T) {
	reader := &stubReader{err: errors.New("redis down")}
	app := fiber.New()
	app.Get("/api/v1/reports/:id", NewReportHandler(reader).HandleGetReport)

	req := httptest.NewRequest("GET", "/api/v1/reports/abc-123", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
