package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		color    string
		badge    string
		rank     int
	}{
		{"high", "High", "red", "#ff4444", 3},
		{"medium", "Medium", "orange", "#ff8c00", 2},
		{"low", "Low", "yellow", "#4caf50", 1},
		{"unknown label", "Critical", "gray", "#666", 0},
		{"lowercase rejected", "high", "gray", "#666", 0},
		{"padded rejected", " High ", "gray", "#666", 0},
		{"empty string", "", "gray", "#666", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.severity)
			assert.Equal(t, tt.color, c.Color)
			assert.Equal(t, tt.badge, c.Badge)
			assert.Equal(t, tt.rank, c.Rank)
		})
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Greater(t, SeverityLow.Rank(), Severity("Critical").Rank())
}

func TestSeverityKnown(t *testing.T) {
	assert.True(t, SeverityHigh.Known())
	assert.True(t, SeverityMedium.Known())
	assert.True(t, SeverityLow.Known())
	assert.False(t, Severity("Critical").Known())
	assert.False(t, Severity("").Known())
}
