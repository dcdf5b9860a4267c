// Command report renders the persisted alert store to CSV, XLSX and PDF
// files without starting the HTTP server. It reads the same environment
// (and FLOOD_CONFIG file) as the server, or a JSON array given with -input.
//
// Usage:
//
//	go run ./cmd/report -out reports
//	go run ./cmd/report -input floodAlerts.json -formats csv,pdf -out /tmp
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/flood-response-service/internal/adapter/kv"
	"github.com/couchcryptid/flood-response-service/internal/config"
	"github.com/couchcryptid/flood-response-service/internal/observability"
	"github.com/couchcryptid/flood-response-service/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	input := flag.String("input", "", "JSON alert list to read instead of the configured storage")
	outDir := flag.String("out", ".", "directory to write reports into")
	formats := flag.String("formats", "csv,xlsx,pdf", "comma-separated report formats")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)
	ctx := context.Background()

	store, err := openStore(ctx, cfg, *input)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := service.New(store, service.Options{
		StoreKey: cfg.StoreKey,
		Escaping: cfg.ExportEscaping,
	}, logger, observability.NewMetricsForTesting())
	if err := svc.Load(ctx); err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, format := range strings.Split(*formats, ",") {
		export, err := svc.Export(format)
		if errors.Is(err, service.ErrUnknownFormat) {
			return fmt.Errorf("-formats: %w", err)
		}
		if err != nil {
			return err
		}
		path := filepath.Join(*outDir, export.Filename)
		if err := os.WriteFile(path, export.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", path, len(export.Data))
	}

	stats := svc.Stats()
	fmt.Printf("\nAlerts: %d total, %d acknowledged, %d pending\n", stats.Total, stats.Acknowledged, stats.Pending)
	fmt.Printf("Severity: %d high, %d medium, %d low\n", stats.HighSeverity, stats.MediumSeverity, stats.LowSeverity)
	return nil
}

// openStore returns the configured backend, or an in-memory one seeded from
// the -input file.
func openStore(ctx context.Context, cfg *config.Config, input string) (kv.Store, error) {
	if input == "" {
		store, err := kv.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", cfg.StorageType, err)
		}
		return store, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	store := kv.NewMemory()
	if err := store.Set(ctx, cfg.StoreKey, data); err != nil {
		return nil, err
	}
	return store, nil
}
