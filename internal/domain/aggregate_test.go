package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		assert.Equal(t, AggregateStats{}, Aggregate(nil))
		assert.Equal(t, AggregateStats{}, Aggregate([]Alert{}))
	})

	t.Run("mixed store", func(t *testing.T) {
		alerts := []Alert{
			{ID: 6, Severity: SeverityHigh, Acknowledged: true},
			{ID: 5, Severity: SeverityHigh},
			{ID: 4, Severity: SeverityMedium, Acknowledged: true},
			{ID: 3, Severity: SeverityLow},
			{ID: 2, Severity: "Critical"},
			{ID: 1, Severity: "low"},
		}

		got := Aggregate(alerts)

		assert.Equal(t, AggregateStats{
			Total:          6,
			Acknowledged:   2,
			Pending:        4,
			HighSeverity:   2,
			MediumSeverity: 1,
			LowSeverity:    1,
		}, got)
	})

	t.Run("unrecognized severity counts only toward total", func(t *testing.T) {
		got := Aggregate([]Alert{{ID: 1, Severity: "Critical"}})
		assert.Equal(t, 1, got.Total)
		assert.Zero(t, got.HighSeverity)
		assert.Zero(t, got.MediumSeverity)
		assert.Zero(t, got.LowSeverity)
	})

	t.Run("total equals acknowledged plus pending", func(t *testing.T) {
		stores := [][]Alert{
			nil,
			{{Acknowledged: true}},
			{{}, {}, {Acknowledged: true}},
			{{Severity: "x", Acknowledged: true}, {Severity: SeverityLow}},
		}
		for _, s := range stores {
			got := Aggregate(s)
			assert.Equal(t, got.Total, got.Acknowledged+got.Pending)
		}
	})
}
