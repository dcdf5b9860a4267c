package domain

import "time"

// EventType names an alert lifecycle transition.
type EventType string

const (
	EventAlertCreated      EventType = "alert.created"
	EventAlertAcknowledged EventType = "alert.acknowledged"
)

// AlertEvent is published after an alert mutation has been applied.
type AlertEvent struct {
	Type       EventType `json:"type"`
	Alert      Alert     `json:"alert"`
	OccurredAt time.Time `json:"occurred_at"`
}
