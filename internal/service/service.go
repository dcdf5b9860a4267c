// Package service hosts the alert store behind a mutex and wires it to
// persistence, event publishing, the zone and shelter catalogs, and the
// report renderers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/flood-response-service/internal/alertstore"
	"github.com/couchcryptid/flood-response-service/internal/domain"
	"github.com/couchcryptid/flood-response-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrPersist wraps backend write failures. The in-memory mutation has
	// already been applied when it is returned.
	ErrPersist = errors.New("alert store not persisted")

	// ErrNotLoaded is reported by CheckReadiness before Load has run.
	ErrNotLoaded = errors.New("alert store not loaded")
)

// Backend is the key-value storage the alert store is written to.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

// Publisher receives an event after each applied mutation.
type Publisher interface {
	Publish(ctx context.Context, event domain.AlertEvent) error
}

// Options configures an AlertService. Zero values are usable.
type Options struct {
	StoreKey  string
	Zones     []domain.Zone
	Shelters  []domain.Shelter
	Geocoder  domain.ReverseGeocoder
	Publisher Publisher
	Escaping  domain.ExportEscaping
	Clock     clockwork.Clock
	Location  *time.Location
}

// AlertService is safe for concurrent use.
type AlertService struct {
	mu      sync.Mutex
	store   *alertstore.Store
	backend Backend
	key     string
	loaded  atomic.Bool

	zones     []domain.Zone
	publisher Publisher
	escaping  domain.ExportEscaping
	clock     clockwork.Clock

	sheltersMu sync.RWMutex
	shelters   []domain.Shelter
	enrichOnce sync.Once
	geocoder   domain.ReverseGeocoder

	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an AlertService. Call Load before serving requests.
func New(backend Backend, opts Options, logger *slog.Logger, metrics *observability.Metrics) *AlertService {
	if opts.StoreKey == "" {
		opts.StoreKey = "floodAlerts"
	}
	if opts.Clock == nil {
		opts.Clock = domain.Clock()
	}
	if opts.Escaping == "" {
		opts.Escaping = domain.EscapingLegacy
	}

	return &AlertService{
		store:     alertstore.New(alertstore.WithClock(opts.Clock), alertstore.WithLocation(opts.Location)),
		backend:   backend,
		key:       opts.StoreKey,
		zones:     opts.Zones,
		publisher: opts.Publisher,
		escaping:  opts.Escaping,
		clock:     opts.Clock,
		shelters:  opts.Shelters,
		geocoder:  opts.Geocoder,
		logger:    logger,
		metrics:   metrics,
	}
}

// Load reads the persisted alert list. A missing value starts an empty store.
// An unparsable value also starts an empty store and is logged as an anomaly;
// only a backend read failure is returned.
func (s *AlertService) Load(ctx context.Context) error {
	raw, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load alert store %s: %w", s.key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(raw); err != nil {
		s.metrics.StoreLoadAnomalies.Inc()
		s.logger.Warn("discarding unreadable alert store", "key", s.key, "error", err)
	}
	s.metrics.StoreSize.Set(float64(s.store.Len()))
	s.loaded.Store(true)
	s.logger.Info("alert store loaded", "key", s.key, "found", found, "alerts", s.store.Len())
	return nil
}

// Create adds an alert and persists the store. Validation failures wrap
// alertstore.ErrInvalidAlert and change nothing. A persistence failure
// returns the created alert together with an error wrapping ErrPersist.
func (s *AlertService) Create(ctx context.Context, zone, message string, severity domain.Severity) (domain.Alert, error) {
	s.mu.Lock()
	alert, err := s.store.Create(zone, message, severity)
	if err != nil {
		s.mu.Unlock()
		s.metrics.CreateRejected.Inc()
		return domain.Alert{}, err
	}
	s.metrics.AlertsCreated.Inc()
	s.metrics.StoreSize.Set(float64(s.store.Len()))
	persistErr := s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("alert created",
		"alert_id", alert.ID,
		"zone", alert.Zone,
		"severity", alert.Severity,
	)
	s.publish(ctx, domain.EventAlertCreated, alert)
	return alert, persistErr
}

// Acknowledge marks an alert acknowledged and persists the store. found
// reports whether the id exists; changed is false for unknown or already
// acknowledged ids, and nothing is written then.
func (s *AlertService) Acknowledge(ctx context.Context, id int64) (alert domain.Alert, found, changed bool, err error) {
	s.mu.Lock()
	if !s.store.Acknowledge(id) {
		alert, found = s.store.Get(id)
		s.mu.Unlock()
		return alert, found, false, nil
	}
	alert, _ = s.store.Get(id)
	s.metrics.AlertsAcknowledged.Inc()
	persistErr := s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("alert acknowledged", "alert_id", id, "zone", alert.Zone)
	s.publish(ctx, domain.EventAlertAcknowledged, alert)
	return alert, true, true, persistErr
}

func (s *AlertService) persistLocked(ctx context.Context) error {
	data, err := s.store.Marshal()
	if err == nil {
		err = s.backend.Set(ctx, s.key, data)
	}
	if err != nil {
		s.metrics.PersistErrors.Inc()
		s.logger.Error("persist alert store failed", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *AlertService) publish(ctx context.Context, typ domain.EventType, alert domain.Alert) {
	if s.publisher == nil {
		return
	}
	event := domain.AlertEvent{Type: typ, Alert: alert, OccurredAt: s.clock.Now()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish alert event failed", "type", typ, "alert_id", alert.ID, "error", err)
	}
}

// Alerts returns every alert, newest first.
func (s *AlertService) Alerts() []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Stats aggregates the current store.
func (s *AlertService) Stats() domain.AggregateStats {
	return domain.Aggregate(s.Alerts())
}

// Zones returns the zone catalog.
func (s *AlertService) Zones() []domain.Zone {
	out := make([]domain.Zone, len(s.zones))
	copy(out, s.zones)
	return out
}

// ZoneViews styles every catalog zone from the current store.
func (s *AlertService) ZoneViews() []domain.ZoneView {
	return domain.BuildZoneViews(s.zones, s.Alerts())
}

// ZoneAlert returns the alert the map would show for a zone name.
func (s *AlertService) ZoneAlert(zoneName string) (domain.Alert, bool) {
	return domain.FindAlertForZone(zoneName, s.Alerts())
}

// UnmatchedAlerts returns alerts whose zone is not in the catalog.
func (s *AlertService) UnmatchedAlerts() []domain.Alert {
	return domain.UnknownZoneAlerts(s.zones, s.Alerts())
}

// Shelters returns the shelter catalog, with addresses once EnrichShelters
// has finished.
func (s *AlertService) Shelters() []domain.Shelter {
	s.sheltersMu.RLock()
	defer s.sheltersMu.RUnlock()
	out := make([]domain.Shelter, len(s.shelters))
	copy(out, s.shelters)
	return out
}

// EnrichShelters fills in shelter addresses through the geocoder. Only the
// first call does any work. Lookups run without holding the shelter lock, so
// Shelters keeps answering with the bare catalog meanwhile.
func (s *AlertService) EnrichShelters(ctx context.Context) {
	if s.geocoder == nil {
		return
	}
	s.enrichOnce.Do(func() {
		base := s.Shelters()
		enriched := domain.EnrichShelters(ctx, base, s.geocoder, s.logger)

		s.sheltersMu.Lock()
		s.shelters = enriched
		s.sheltersMu.Unlock()
		s.logger.Info("shelter addresses resolved", "shelters", len(enriched))
	})
}

// CheckReadiness reports ready once the store is loaded and the backend answers.
func (s *AlertService) CheckReadiness(ctx context.Context) error {
	if !s.loaded.Load() {
		return ErrNotLoaded
	}
	if err := s.backend.Ping(ctx); err != nil {
		return fmt.Errorf("storage backend: %w", err)
	}
	return nil
}
