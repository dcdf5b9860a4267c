package domain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildZoneViews(t *testing.T) {
	zones := []Zone{
		{Name: testZoneKochi, Geometry: json.RawMessage(`{"type":"Polygon","coordinates":[]}`)},
		{Name: "Aluva"},
		{Name: "Kuttanad"},
	}
	alerts := []Alert{
		{ID: 3, Zone: " kochi", Message: testMessage, Severity: SeverityHigh},
		{ID: 2, Zone: "Kuttanad", Message: "Levee <breach>", Severity: "Critical"},
		{ID: 1, Zone: testZoneKochi, Message: "older", Severity: SeverityLow},
	}

	views := BuildZoneViews(zones, alerts)
	require.Len(t, views, 3)

	t.Run("zone with alert", func(t *testing.T) {
		v := views[0]
		require.NotNil(t, v.Alert)
		assert.Equal(t, int64(3), v.Alert.ID)
		assert.Equal(t, ZoneStyle{FillColor: "red", Color: "black", Weight: 2, FillOpacity: 0.6}, v.Style)
		assert.Equal(t, 3, v.Classification.Rank)
		assert.Equal(t, "<b>Kochi</b><br/>⚠️ High Alert<br/>"+testMessage, v.Popup)
		assert.JSONEq(t, `{"type":"Polygon","coordinates":[]}`, string(v.Zone.Geometry))
	})

	t.Run("zone without alert", func(t *testing.T) {
		v := views[1]
		assert.Nil(t, v.Alert)
		assert.Equal(t, idleZoneStyle, v.Style)
		assert.Equal(t, "<b>Aluva</b>", v.Popup)
	})

	t.Run("unknown severity renders gray and escapes popup", func(t *testing.T) {
		v := views[2]
		require.NotNil(t, v.Alert)
		assert.Equal(t, "gray", v.Style.FillColor)
		assert.Equal(t, "<b>Kuttanad</b><br/>⚠️ Critical Alert<br/>Levee &lt;breach&gt;", v.Popup)
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Empty(t, BuildZoneViews(nil, alerts))
	})
}

func TestUnknownZoneAlerts(t *testing.T) {
	zones := []Zone{{Name: testZoneKochi}}
	alerts := []Alert{{ID: 2, Zone: "Atlantis"}, {ID: 1, Zone: "KOCHI "}}

	got := UnknownZoneAlerts(zones, alerts)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestAlertUnmarshalJSON(t *testing.T) {
	t.Run("createdAt field", func(t *testing.T) {
		var a Alert
		require.NoError(t, json.Unmarshal([]byte(`{"id":7,"zone":"A","message":"m","severity":"Low","createdAt":"then","acknowledged":true}`), &a))
		assert.Equal(t, Alert{ID: 7, Zone: "A", Message: "m", Severity: SeverityLow, CreatedAt: "then", Acknowledged: true}, a)
	})

	t.Run("legacy time field", func(t *testing.T) {
		var a Alert
		require.NoError(t, json.Unmarshal([]byte(`{"id":1722333333333,"zone":"A","message":"m","severity":"High","time":"7/30/2024, 10:00:00 AM","acknowledged":false}`), &a))
		assert.Equal(t, "7/30/2024, 10:00:00 AM", a.CreatedAt)
		assert.Equal(t, int64(1722333333333), a.ID)
	})

	t.Run("createdAt wins over time", func(t *testing.T) {
		var a Alert
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"createdAt":"new","time":"old"}`), &a))
		assert.Equal(t, "new", a.CreatedAt)
	})

	t.Run("marshal writes createdAt", func(t *testing.T) {
		data, err := json.Marshal(Alert{ID: 1, CreatedAt: "t"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"zone":"","message":"","severity":"","createdAt":"t","acknowledged":false}`, string(data))
	})
}

type stubGeocoder struct {
	calls  int
	result GeocodingResult
	err    error
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	s.calls++
	return s.result, s.err
}

func TestEnrichShelters(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	shelters := []Shelter{
		{Name: "Govt School", Type: "School", Lat: 9.98, Lon: 76.28},
		{Name: "No Coords", Type: "Hall"},
	}

	t.Run("nil geocoder", func(t *testing.T) {
		got := EnrichShelters(context.Background(), shelters, nil, logger)
		assert.Equal(t, shelters, got)
	})

	t.Run("fills address", func(t *testing.T) {
		g := &stubGeocoder{result: GeocodingResult{FormattedAddress: "Ernakulam, Kerala, India"}}
		got := EnrichShelters(context.Background(), shelters, g, logger)
		assert.Equal(t, "Ernakulam, Kerala, India", got[0].Address)
		assert.Empty(t, got[1].Address)
		assert.Equal(t, 1, g.calls)
		assert.Empty(t, shelters[0].Address, "input must not be modified")
	})

	t.Run("failure degrades", func(t *testing.T) {
		g := &stubGeocoder{err: errors.New("boom")}
		got := EnrichShelters(context.Background(), shelters, g, logger)
		assert.Empty(t, got[0].Address)
	})
}
