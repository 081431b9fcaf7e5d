package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Brownie44l1/corn-advisor-api/internal/cache"
	"github.com/Brownie44l1/corn-advisor-api/internal/classify"
	"github.com/Brownie44l1/corn-advisor-api/internal/config"
	"github.com/Brownie44l1/corn-advisor-api/internal/handlers"
	"github.com/Brownie44l1/corn-advisor-api/internal/logger"
	"github.com/Brownie44l1/corn-advisor-api/internal/metrics"
	"github.com/Brownie44l1/corn-advisor-api/internal/model"
	"github.com/Brownie44l1/corn-advisor-api/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.Pest)
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	log := logger.Setup(ctx, logger.Options{
		Service: cfg.Service,
		Level:   cfg.LogLevel,
		OTEL:    cfg.OTELEnabled,
	})

	if err := run(ctx, cfg, log); err != nil {
		logger.Fatal("pest server stopped", "error", err)
	}
	_ = logger.Shutdown(context.Background())
}

// run returns only after every resource it opened has been released.
func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := model.InitRuntime(cfg.OrtLibPath); err != nil {
		return err
	}
	defer model.DestroyRuntime()

	log.Info("loading model", "model", cfg.ModelPath, "metadata", cfg.MetadataPath)
	classifier, err := model.LoadClassifier(cfg.ModelPath, cfg.MetadataPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	log.Info("model loaded", "classes", classifier.Metadata.Classes)

	m := metrics.New(cfg.Service)
	results := openCache(ctx, cfg, log)
	pipeline, err := classify.New(cfg.Service, classifier, classify.Options{
		Cache:     results,
		Metrics:   m,
		Logger:    log,
		MaxPixels: cfg.MaxImagePixels,
	})
	if err != nil {
		_ = results.Close()
		classifier.Close()
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer pipeline.Close()

	handler := handlers.NewPestRouter(pipeline, handlers.Options{
		Logger:         log,
		Metrics:        m,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	return server.Run(ctx, cfg.Port, handler, log)
}

func openCache(ctx context.Context, cfg config.Config, log *slog.Logger) cache.Cache {
	c, err := cache.Open(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		log.Warn("redis unavailable, caching in memory", "error", err)
		return cache.NewMemory(cfg.CacheTTL)
	}
	return c
}
