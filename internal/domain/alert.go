package domain

import (
	"encoding/json"
	"strings"
)

// Severity is the hazard urgency label attached to an alert. Only High,
// Medium and Low are recognized; other values are carried through untouched
// and classified as unknown.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Rank orders severities for display and sorting: High > Medium > Low > unknown.
func (s Severity) Rank() int {
	return Classify(string(s)).Rank
}

// Known reports whether s is one of the three recognized labels.
func (s Severity) Known() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Alert is a hazard notice tied to a zone by name.
type Alert struct {
	ID           int64    `json:"id"`
	Zone         string   `json:"zone"`
	Message      string   `json:"message"`
	Severity     Severity `json:"severity"`
	CreatedAt    string   `json:"createdAt"`
	Acknowledged bool     `json:"acknowledged"`
}

// alertJSON mirrors Alert for decoding. Time is the field name the browser
// client wrote before createdAt existed.
type alertJSON struct {
	ID           int64    `json:"id"`
	Zone         string   `json:"zone"`
	Message      string   `json:"message"`
	Severity     Severity `json:"severity"`
	CreatedAt    *string  `json:"createdAt"`
	Time         *string  `json:"time"`
	Acknowledged bool     `json:"acknowledged"`
}

// UnmarshalJSON accepts both createdAt and the legacy time field. createdAt
// wins when both are present.
func (a *Alert) UnmarshalJSON(data []byte) error {
	var raw alertJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Alert{
		ID:           raw.ID,
		Zone:         raw.Zone,
		Message:      raw.Message,
		Severity:     raw.Severity,
		Acknowledged: raw.Acknowledged,
	}
	switch {
	case raw.CreatedAt != nil:
		a.CreatedAt = *raw.CreatedAt
	case raw.Time != nil:
		a.CreatedAt = *raw.Time
	}
	return nil
}

// AggregateStats holds counts derived from an alert collection. It is
// recomputed on demand and never stored.
type AggregateStats struct {
	Total          int `json:"total"`
	Acknowledged   int `json:"acknowledged"`
	Pending        int `json:"pending"`
	HighSeverity   int `json:"highSeverity"`
	MediumSeverity int `json:"mediumSeverity"`
	LowSeverity    int `json:"lowSeverity"`
}

// normalizeZoneName is the comparison key used for zone matching.
func normalizeZoneName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
