package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/analysis"
	"github.com/brandaudit/backend/internal/metrics"
	"github.com/brandaudit/backend/pkg/logger"
)

// Auditor runs one full audit. Satisfied by *orchestrator.Orchestrator.
type Auditor interface {
	Run(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisReport, error)
}

type AnalyzeHandler struct {
	auditor Auditor
}

func NewAnalyzeHandler(auditor Auditor) *AnalyzeHandler {
	return &AnalyzeHandler{
		auditor: auditor,
	}
}

func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req analysis.AnalysisRequest

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	started := time.Now()
	report, err := h.auditor.Run(c.Context(), req)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return h.errorResponse(c, req.URL, err)
	}

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	metrics.AnalysisDuration.Observe(time.Since(started).Seconds())

	return c.JSON(report)
}

// errorResponse maps the error taxonomy to status codes. Configuration
// problems are logged with detail but the client only ever sees a generic
// message, so a response never reveals which credential is absent.
func (h *AnalyzeHandler) errorResponse(c *fiber.Ctx, url string, err error) error {
	if errors.Is(err, analysis.ErrInvalidURL) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid URL supplied. Provide an absolute http or https address.",
		})
	}

	var cfgErr *analysis.ConfigurationError
	if errors.As(err, &cfgErr) {
		logger.Error("Analysis rejected by configuration", zap.String("reason", cfgErr.Reason))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Analysis failed. Please try again later.",
		})
	}

	var provErr *analysis.ProviderError
	if errors.As(err, &provErr) {
		logger.Error("Analysis failed at provider",
			zap.String("url", url),
			zap.String("provider", string(provErr.Provider)),
			zap.Error(provErr.Err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Analysis failed. Please try again later.",
		})
	}

	logger.Error("Analysis failed", zap.String("url", url), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Analysis failed. Please try again later.",
	})
}
