//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/flood-response-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ReverseGeocode(context.Background(), kochiLat, kochiLon)
	require.NoError(t, err)

	assert.NotEmpty(t, result.FormattedAddress)
	assert.Contains(t, result.FormattedAddress, "Kerala")
	assert.Greater(t, result.Confidence, 0.0)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	// First call: cache miss, real API call.
	r1, err := cached.ReverseGeocode(context.Background(), 10.1076, 76.3525)
	require.NoError(t, err)
	require.NotEmpty(t, r1.FormattedAddress)

	// Second call: cache hit, no API call.
	r2, err := cached.ReverseGeocode(context.Background(), 10.1076, 76.3525)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
