package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/analysis"
	"github.com/brandaudit/backend/internal/api/handlers"
	"github.com/brandaudit/backend/internal/collectors"
	"github.com/brandaudit/backend/internal/llm"
	"github.com/brandaudit/backend/internal/metrics"
	"github.com/brandaudit/backend/internal/middleware/security"
	"github.com/brandaudit/backend/internal/middleware/validation"
	"github.com/brandaudit/backend/internal/orchestrator"
	redisstore "github.com/brandaudit/backend/internal/storage/redis"
	"github.com/brandaudit/backend/pkg/config"
	appLogger "github.com/brandaudit/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Brand Audit API Server")

	metrics.Init()

	store, err := redisstore.NewStore(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Redis.ReportTTLHours)*time.Hour,
	)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer store.Close()

	pageSpeed := collectors.NewPageSpeedClient(
		cfg.PageSpeed.APIKey,
		cfg.PageSpeed.Endpoint,
		time.Duration(cfg.PageSpeed.TimeoutSec)*time.Second,
	)
	sslLabs := collectors.NewSSLLabsClient(
		cfg.SSLLabs.Endpoint,
		time.Duration(cfg.SSLLabs.TimeoutSec)*time.Second,
	)
	scraper := collectors.NewScraper(
		cfg.Scraper.UserAgent,
		cfg.Scraper.MaxTextLength,
		time.Duration(cfg.Scraper.TimeoutSec)*time.Second,
	)

	primary := buildAdapter(analysis.ProviderOpenAI, cfg.Providers.OpenAI, cfg.Providers.TimeoutSec)
	if primary == nil {
		// Startup continues so health and stored-report reads keep
		// working; the analyze endpoint reports the failure generically.
		appLogger.Warn("Primary provider credential missing; analyze requests will fail")
	}

	secondary := buildAdapter(analysis.ProviderClaude, cfg.Providers.Claude, cfg.Providers.TimeoutSec)
	if secondary == nil {
		appLogger.Info("Secondary provider credential missing; running in single-provider mode")
	}

	auditor := orchestrator.New(pageSpeed, sslLabs, scraper, primary, secondary, store, orchestrator.Config{})

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(validation.Middleware(validation.Config{
		MaxBodyBytes: cfg.Server.BodyLimit,
	}))

	analyzeHandler := handlers.NewAnalyzeHandler(auditor)
	reportHandler := handlers.NewReportHandler(store)

	api := app.Group("/api/v1")

	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/reports/:id", reportHandler.HandleGetReport)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

// buildAdapter returns nil when the provider has no credential. The
// orchestrator treats a nil primary as a configuration error and a nil
// secondary as single-provider mode.
func buildAdapter(provider analysis.Provider, cfg config.ProviderConfig, timeoutSec int) orchestrator.ProviderAdapter {
	if cfg.APIKey == "" {
		return nil
	}

	client := llm.NewClient(
		string(provider),
		cfg.APIKey,
		cfg.BaseURL,
		cfg.Model,
		cfg.Temperature,
		cfg.MaxTokens,
		time.Duration(timeoutSec)*time.Second,
	)
	return analysis.NewAdapter(provider, client)
}
