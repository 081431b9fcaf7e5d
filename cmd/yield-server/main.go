package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Brownie44l1/corn-advisor-api/internal/config"
	"github.com/Brownie44l1/corn-advisor-api/internal/handlers"
	"github.com/Brownie44l1/corn-advisor-api/internal/logger"
	"github.com/Brownie44l1/corn-advisor-api/internal/metrics"
	"github.com/Brownie44l1/corn-advisor-api/internal/server"
	"github.com/Brownie44l1/corn-advisor-api/internal/yield"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.Yield)
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	log := logger.Setup(ctx, logger.Options{
		Service: cfg.Service,
		Level:   cfg.LogLevel,
		OTEL:    cfg.OTELEnabled,
	})

	if err := run(ctx, cfg, log); err != nil {
		logger.Fatal("yield server stopped", "error", err)
	}
	_ = logger.Shutdown(context.Background())
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	log.Info("loading yield model", "path", cfg.YieldModelPath)
	pipeline, err := yield.LoadPipeline(cfg.YieldModelPath)
	if err != nil {
		return fmt.Errorf("load yield model: %w", err)
	}
	log.Info("yield model loaded",
		"features", len(pipeline.Features()),
		"expected_value", pipeline.ExpectedValue(),
	)

	handler := handlers.NewYieldRouter(pipeline, handlers.Options{
		Logger:  log,
		Metrics: metrics.New(cfg.Service),
	})

	return server.Run(ctx, cfg.Port, handler, log)
}
