// Command validate performs integrity checks on a persisted alert store: the
// value parses as an alert list, ids are unique and newest-first, required
// fields are present, and every alert names a catalog zone with a recognized
// severity.
//
// Usage:
//
//	go run ./cmd/validate -input floodAlerts.json
//	go run ./cmd/validate -zones data/flood_zones.geojson   # reads configured storage
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/flood-response-service/internal/adapter/kv"
	"github.com/couchcryptid/flood-response-service/internal/alertstore"
	"github.com/couchcryptid/flood-response-service/internal/catalog"
	"github.com/couchcryptid/flood-response-service/internal/config"
	"github.com/couchcryptid/flood-response-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "JSON alert list to check instead of the configured storage")
	zonesPath := flag.String("zones", "", "zone catalog GeoJSON (default: embedded catalog)")
	flag.Parse()

	raw, err := readStore(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	zones, err := catalog.LoadZones(*zonesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load zone catalog: %v\n", err)
		os.Exit(1)
	}

	if code := run(raw, zones); code != 0 {
		os.Exit(code)
	}
}

func readStore(input string) ([]byte, error) {
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	ctx := context.Background()
	store, err := kv.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageType, err)
	}
	defer store.Close()

	data, _, err := store.Get(ctx, cfg.StoreKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cfg.StoreKey, err)
	}
	return data, nil
}

func run(raw []byte, zones []domain.Zone) int {
	fmt.Println("=== Flood Alert Store Validation ===")
	fmt.Println()

	format, alerts := validateFormat(raw)
	phases := []*phase{
		format,
		validateIdentity(alerts),
		validateFields(alerts),
		validateReferences(alerts, zones),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	stats := domain.Aggregate(alerts)
	fmt.Println()
	fmt.Printf("Alerts: %d total, %d pending, %d catalog zones\n", stats.Total, stats.Pending, len(zones))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Store Format ──
// The value must load without being discarded as corrupt.

func validateFormat(raw []byte) (*phase, []domain.Alert) {
	p := &phase{name: "Phase 1: Store Format"}

	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}

	store := alertstore.New()
	if err := store.Load(raw); err != nil {
		p.errorf("%v", err)
		return p, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err == nil {
		for i, e := range elems {
			if bytes.Equal(bytes.TrimSpace(e), []byte("null")) {
				p.errorf("element %d: null entry", i)
			}
		}
	}
	return p, store.Snapshot()
}

// ── Phase 2: Identity ──
// Ids are positive, unique, and strictly decreasing in store order.

func validateIdentity(alerts []domain.Alert) *phase {
	p := &phase{name: "Phase 2: Identity and Ordering"}

	seen := make(map[int64]int, len(alerts))
	for i := range alerts {
		id := alerts[i].ID
		if id <= 0 {
			p.errorf("alert %d: non-positive id %d", i, id)
		}
		if first, dup := seen[id]; dup {
			p.errorf("alert %d: id %d duplicates alert %d", i, id, first)
		} else {
			seen[id] = i
		}
		if i > 0 && id >= alerts[i-1].ID {
			p.errorf("alert %d: id %d is not older than the alert before it (%d)", i, id, alerts[i-1].ID)
		}
	}
	return p
}

// ── Phase 3: Fields ──

func validateFields(alerts []domain.Alert) *phase {
	p := &phase{name: "Phase 3: Required Fields"}

	for i := range alerts {
		a := alerts[i]
		if a.Zone == "" {
			p.errorf("alert %d: missing zone", a.ID)
		}
		if a.Message == "" {
			p.errorf("alert %d: missing message", a.ID)
		}
		if a.Severity == "" {
			p.errorf("alert %d: missing severity", a.ID)
		}
		if a.CreatedAt == "" {
			p.errorf("alert %d: missing createdAt", a.ID)
		} else if _, err := time.Parse(alertstore.CreatedAtLayout, a.CreatedAt); err != nil {
			p.errorf("alert %d: createdAt %q is not in %s form", a.ID, a.CreatedAt, alertstore.CreatedAtLayout)
		}
	}
	return p
}

// ── Phase 4: References ──
// Every alert names a catalog zone and carries a recognized severity.

func validateReferences(alerts []domain.Alert, zones []domain.Zone) *phase {
	p := &phase{name: "Phase 4: Zone and Severity References"}

	for _, a := range domain.UnknownZoneAlerts(zones, alerts) {
		p.errorf("alert %d: zone %q is not in the catalog", a.ID, a.Zone)
	}
	for i := range alerts {
		if !alerts[i].Severity.Known() {
			p.errorf("alert %d: unrecognized severity %q", alerts[i].ID, alerts[i].Severity)
		}
	}
	return p
}
