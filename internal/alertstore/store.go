// Package alertstore holds the ordered in-memory alert collection and its
// serialized form. It performs no I/O: callers read the persisted bytes,
// hand them to Load, and write Marshal's output back after every mutation.
package alertstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/flood-response-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// CreatedAtLayout is how creation timestamps are rendered.
const CreatedAtLayout = time.DateTime

var (
	// ErrInvalidAlert is returned by Create when a required field is blank.
	ErrInvalidAlert = errors.New("invalid alert")

	// ErrCorruptState is returned by Load when the persisted value is not a
	// JSON array of alerts. The store is left empty.
	ErrCorruptState = errors.New("corrupt alert state")
)

// Store is the newest-first alert collection. It is not safe for concurrent
// use; callers that share a Store must serialize access.
type Store struct {
	alerts   []domain.Alert
	ids      *IDSource
	clock    clockwork.Clock
	location *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for ids and creation timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the zone creation timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.location = loc
		}
	}
}

// New creates an empty Store. Without WithClock it uses domain.Clock().
func New(opts ...Option) *Store {
	s := &Store{
		alerts:   []domain.Alert{},
		clock:    domain.Clock(),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = NewIDSource(s.clock)
	return s
}

// Load replaces the store contents with a persisted value. An empty value
// means nothing was stored yet and yields an empty store. A value that is not
// a JSON array of alerts also yields an empty store, along with an error
// wrapping ErrCorruptState for the caller to log.
func (s *Store) Load(raw []byte) error {
	s.alerts = []domain.Alert{}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '[' {
		return fmt.Errorf("%w: value is not a JSON array", ErrCorruptState)
	}

	var alerts []domain.Alert
	if err := json.Unmarshal(trimmed, &alerts); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptState, err)
	}

	for i := range alerts {
		s.ids.Observe(alerts[i].ID)
	}
	if alerts != nil {
		s.alerts = alerts
	}
	return nil
}

// Create validates the input, assigns a fresh id and timestamp, and prepends
// the new unacknowledged alert. Nothing is stored when validation fails.
func (s *Store) Create(zone, message string, severity domain.Severity) (domain.Alert, error) {
	var missing []string
	if strings.TrimSpace(zone) == "" {
		missing = append(missing, "zone")
	}
	if strings.TrimSpace(message) == "" {
		missing = append(missing, "message")
	}
	if strings.TrimSpace(string(severity)) == "" {
		missing = append(missing, "severity")
	}
	if len(missing) > 0 {
		return domain.Alert{}, fmt.Errorf("%w: %s required", ErrInvalidAlert, strings.Join(missing, ", "))
	}

	alert := domain.Alert{
		ID:        s.ids.Next(),
		Zone:      zone,
		Message:   message,
		Severity:  severity,
		CreatedAt: s.clock.Now().In(s.location).Format(CreatedAtLayout),
	}

	s.alerts = append([]domain.Alert{alert}, s.alerts...)
	return alert, nil
}

// Acknowledge marks the alert with the given id as acknowledged. It reports
// whether anything changed; unknown and already-acknowledged ids are no-ops.
func (s *Store) Acknowledge(id int64) bool {
	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		if s.alerts[i].Acknowledged {
			return false
		}
		s.alerts[i].Acknowledged = true
		return true
	}
	return false
}

// Get returns the alert with the given id.
func (s *Store) Get(id int64) (domain.Alert, bool) {
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			return s.alerts[i], true
		}
	}
	return domain.Alert{}, false
}

// Snapshot returns a copy of the alerts in store order.
func (s *Store) Snapshot() []domain.Alert {
	out := make([]domain.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Len returns the number of alerts.
func (s *Store) Len() int {
	return len(s.alerts)
}

// Marshal serializes the whole store as a JSON array. An empty store
// serializes as [].
func (s *Store) Marshal() ([]byte, error) {
	data, err := json.Marshal(s.alerts)
	if err != nil {
		return nil, fmt.Errorf("marshal alerts: %w", err)
	}
	return data, nil
}
