package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/flood-response-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-response-service/internal/adapter/kafka"
	"github.com/couchcryptid/flood-response-service/internal/adapter/kv"
	"github.com/couchcryptid/flood-response-service/internal/adapter/mapbox"
	"github.com/couchcryptid/flood-response-service/internal/catalog"
	"github.com/couchcryptid/flood-response-service/internal/config"
	"github.com/couchcryptid/flood-response-service/internal/domain"
	"github.com/couchcryptid/flood-response-service/internal/observability"
	"github.com/couchcryptid/flood-response-service/internal/service"
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

	store, err := kv.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to open alert storage", "storage", cfg.StorageType, "error", err)
		os.Exit(1)
	}
	logger.Info("alert storage opened", "storage", cfg.StorageType, "key", cfg.StoreKey)

	zones, err := catalog.LoadZones(cfg.ZonesPath)
	if err != nil {
		logger.Error("failed to load zone catalog", "path", cfg.ZonesPath, "error", err)
		os.Exit(1)
	}
	shelters, err := catalog.LoadShelters(cfg.SheltersPath)
	if err != nil {
		logger.Error("failed to load shelter catalog", "path", cfg.SheltersPath, "error", err)
		os.Exit(1)
	}

	// Address lookup for shelters (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.ReverseGeocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var (
		publisher service.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("alert events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	svc := service.New(store, service.Options{
		StoreKey:  cfg.StoreKey,
		Zones:     zones,
		Shelters:  shelters,
		Geocoder:  geocoder,
		Publisher: publisher,
		Escaping:  cfg.ExportEscaping,
	}, logger, metrics)

	if err := svc.Load(ctx); err != nil {
		logger.Error("failed to load alert store", "error", err)
		os.Exit(1)
	}

	go svc.EnrichShelters(ctx)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()
	logger.Info("http server listening", "addr", cfg.HTTPAddr, "zones", len(zones), "shelters", len(shelters))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("alert storage close error", "error", err)
	}

	logger.Info("shutdown complete")
}
