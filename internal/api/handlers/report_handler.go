package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/analysis"
	redisstore "github.com/brandaudit/backend/internal/storage/redis"
	"github.com/brandaudit/backend/pkg/logger"
)

// ReportReader retrieves stored reports. Satisfied by *redis.Store.
type ReportReader interface {
	Get(ctx context.Context, id string) (*analysis.AnalysisReport, error)
}

type ReportHandler struct {
	store ReportReader
}

func NewReportHandler(store ReportReader) *ReportHandler {
	return &ReportHandler{
		store: store,
	}
}

func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Report id is required",
		})
	}

	report, err := h.store.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, redisstore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Report not found",
			})
		}
		logger.Error("Failed to load report", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load report",
		})
	}

	return c.JSON(report)
}
