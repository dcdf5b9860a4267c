package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadZones_Embedded(t *testing.T) {
	zones, err := LoadZones("")
	require.NoError(t, err)
	require.NotEmpty(t, zones)

	names := make([]string, len(zones))
	for i, z := range zones {
		names[i] = z.Name
		assert.NotEmpty(t, z.Geometry, z.Name)
	}
	assert.Contains(t, names, "Kochi")
	assert.Contains(t, names, "Kuttanad")
}

func TestLoadShelters_Embedded(t *testing.T) {
	shelters, err := LoadShelters("")
	require.NoError(t, err)
	require.NotEmpty(t, shelters)

	for _, s := range shelters {
		assert.NotEmpty(t, s.Name)
		assert.InDelta(t, 10, s.Lat, 1.5, s.Name)
		assert.InDelta(t, 76.4, s.Lon, 0.6, s.Name)
	}
}

func TestParseZones(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"zone": "Aluva"}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}},
			{"type": "Feature", "properties": {"name": " Kochi "}, "geometry": null},
			{"type": "Feature", "properties": {"zone": "Thrissur", "name": "ignored"}, "geometry": null},
			{"type": "Feature", "properties": {"district": "no name"}, "geometry": null},
			{"type": "Feature", "properties": null, "geometry": null}
		]
	}`)

	zones, err := ParseZones(data)
	require.NoError(t, err)
	require.Len(t, zones, 3)
	assert.Equal(t, "Aluva", zones[0].Name)
	assert.JSONEq(t, `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`, string(zones[0].Geometry))
	assert.Equal(t, "Kochi", zones[1].Name)
	assert.Empty(t, zones[1].Geometry)
	assert.Equal(t, "Thrissur", zones[2].Name)
}

func TestParseZones_MultiPolygon(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"zone": "Kuttanad"}, "geometry": {"type": "MultiPolygon", "coordinates": [[[[76.3,9.4],[76.5,9.4],[76.5,9.6],[76.3,9.4]]],[[[76.6,9.4],[76.7,9.4],[76.7,9.5],[76.6,9.4]]]]}}
		]
	}`)

	zones, err := ParseZones(data)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.JSONEq(t,
		`{"type":"MultiPolygon","coordinates":[[[[76.3,9.4],[76.5,9.4],[76.5,9.6],[76.3,9.4]]],[[[76.6,9.4],[76.7,9.4],[76.7,9.5],[76.6,9.4]]]]}`,
		string(zones[0].Geometry))
}

func TestParseShelters(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"name": "Town Hall", "type": "Community Hall"}, "geometry": {"type": "Point", "coordinates": [76.35, 10.1]}},
			{"type": "Feature", "properties": {"name": "With Address", "address": "MG Road"}, "geometry": {"type": "Point", "coordinates": [76.2, 9.9]}},
			{"type": "Feature", "properties": {"name": "Road Shelter"}, "geometry": {"type": "LineString", "coordinates": [[76.2, 9.9], [76.3, 9.95]]}},
			{"type": "Feature", "properties": {"name": "No Geometry"}, "geometry": null},
			{"type": "Feature", "properties": {"type": "School"}, "geometry": {"type": "Point", "coordinates": [76.2, 9.9]}}
		]
	}`)

	shelters, err := ParseShelters(data)
	require.NoError(t, err)
	require.Len(t, shelters, 2)

	assert.Equal(t, "Town Hall", shelters[0].Name)
	assert.Equal(t, "Community Hall", shelters[0].Type)
	assert.InDelta(t, 10.1, shelters[0].Lat, 1e-9)
	assert.InDelta(t, 76.35, shelters[0].Lon, 1e-9)
	assert.Equal(t, "MG Road", shelters[1].Address)
}

func TestParse_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"wrong type", `{"type": "Feature", "features": []}`},
		{"array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseZones([]byte(tt.data))
			require.ErrorIs(t, err, ErrInvalidCatalog)

			_, err = ParseShelters([]byte(tt.data))
			require.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoadZones_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"zone":"Custom"},"geometry":null}]}`), 0o600))

	zones, err := LoadZones(path)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Custom", zones[0].Name)

	_, err = LoadZones(filepath.Join(t.TempDir(), "missing.geojson"))
	require.Error(t, err)
}
