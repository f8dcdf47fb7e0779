package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/impact-effects-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/impact-effects-service/internal/adapter/kafka"
	"github.com/couchcryptid/impact-effects-service/internal/adapter/mapbox"
	"github.com/couchcryptid/impact-effects-service/internal/config"
	"github.com/couchcryptid/impact-effects-service/internal/observability"
	"github.com/couchcryptid/impact-effects-service/internal/pipeline"
	"github.com/couchcryptid/impact-effects-service/internal/zones"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg, os.Stdout)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	var opts []pipeline.TransformerOption

	// Surface classification is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts = append(opts, pipeline.WithClassifier(mapbox.NewCachedClassifier(client, cfg.MapboxCacheSize, metrics)))
		metrics.ClassifierEnabled.Set(1)
		logger.Info("mapbox surface classification enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox surface classification disabled")
	}

	if cfg.ZonesEnabled {
		builder, err := zones.NewBuilder(cfg.ZoneSegments, cfg.ZonesCRS)
		if err != nil {
			logger.Error("invalid zone settings", "error", err)
			os.Exit(1)
		}
		opts = append(opts, pipeline.WithZones(builder))
		logger.Info("damage zones enabled", "segments", cfg.ZoneSegments, "crs", cfg.ZonesCRS)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(logger, metrics, opts...)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize, cfg.AssessWorkers)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
