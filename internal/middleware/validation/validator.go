package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brandaudit/backend/pkg/logger"
)

type Config struct {
	MaxBodyBytes int
	MaxURLLength int
}

// Middleware screens analyze submissions before the handler parses them:
// JSON only, a body size cap, and a quick reject of hostile url values.
// Real URL validation happens later; this only stops the obvious garbage.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 64 * 1024
	}
	if cfg.MaxURLLength == 0 {
		cfg.MaxURLLength = 2048
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "application/json") {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"message": "Unsupported content type",
			})
		}

		if len(c.Body()) > cfg.MaxBodyBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"message": "Request body exceeds maximum size",
			})
		}

		if strings.Contains(c.Path(), "/analyze") {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": "Invalid request body",
				})
			}

			url, ok := req["url"].(string)
			if !ok || strings.TrimSpace(url) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": "url is required and must be a string",
				})
			}

			if len(url) > cfg.MaxURLLength {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": "url exceeds maximum length",
				})
			}

			if suspiciousURL(url) {
				logger.Warn("Rejected suspicious url",
					zap.String("ip", c.IP()),
					zap.String("url", url),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": "Invalid URL supplied",
				})
			}
		}

		return c.Next()
	}
}

func suspiciousURL(url string) bool {
	lowered := strings.ToLower(url)
	if strings.HasPrefix(lowered, "javascript:") || strings.HasPrefix(lowered, "data:") || strings.HasPrefix(lowered, "file:") {
		return true
	}
	return strings.ContainsAny(url, "\x00\r\n<>")
}
