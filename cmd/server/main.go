package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/situation-synthesis-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/situation-synthesis-service/internal/adapter/kafka"
	"github.com/couchcryptid/situation-synthesis-service/internal/adapter/mapbox"
	"github.com/couchcryptid/situation-synthesis-service/internal/adapter/simsource"
	"github.com/couchcryptid/situation-synthesis-service/internal/config"
	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
	"github.com/couchcryptid/situation-synthesis-service/internal/observability"
	"github.com/couchcryptid/situation-synthesis-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	thresholds := domain.DefaultThresholds()
	thresholds.PM25Alert = cfg.PM25AlertThreshold
	thresholds.GasWarning = cfg.GasAlertThreshold

	locations := simsource.DefaultLocations()
	if cfg.LocationsPath != "" {
		locations, err = simsource.LoadLocations(cfg.LocationsPath)
		if err != nil {
			logger.Error("failed to load location roster", "error", err, "path", cfg.LocationsPath)
			os.Exit(1)
		}
		logger.Info("loaded location roster", "path", cfg.LocationsPath, "locations", len(locations))
	}

	sim, err := simsource.New(locations, thresholds, cfg.SimSeed, nil)
	if err != nil {
		logger.Error("failed to create simulated source", "error", err)
		os.Exit(1)
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Initialize alert publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publisher pipeline.AlertPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		publisher = kafkaPublisher
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	p := pipeline.New(sim, sim, publisher, thresholds, cfg.AlertPublishInterval, logger, metrics)

	handler := httpapi.NewHandler(sim, sim, geocoder, thresholds, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, handler, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start synthesis pipeline.
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
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
