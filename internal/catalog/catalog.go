// Package catalog loads the static zone polygons and shelter points the
// alert service correlates against. Both are GeoJSON FeatureCollections;
// embedded copies are used when no file path is configured.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/flood-response-service/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

//go:embed data/flood_zones.geojson
var defaultZonesJSON []byte

//go:embed data/shelters.geojson
var defaultSheltersJSON []byte

// ErrInvalidCatalog is returned when a document is not a usable FeatureCollection.
var ErrInvalidCatalog = errors.New("invalid catalog")

// LoadZones reads zones from path, or the embedded defaults when path is empty.
func LoadZones(path string) ([]domain.Zone, error) {
	data, err := readOrDefault(path, defaultZonesJSON)
	if err != nil {
		return nil, err
	}
	return ParseZones(data)
}

// LoadShelters reads shelters from path, or the embedded defaults when path is empty.
func LoadShelters(path string) ([]domain.Shelter, error) {
	data, err := readOrDefault(path, defaultSheltersJSON)
	if err != nil {
		return nil, err
	}
	return ParseShelters(data)
}

// ParseZones decodes a FeatureCollection of zone polygons. The zone name comes
// from the "zone" property, falling back to "name". Features without either
// are skipped. Geometry is re-encoded as GeoJSON for map renderers.
func ParseZones(data []byte) ([]domain.Zone, error) {
	fc, err := decode(data)
	if err != nil {
		return nil, err
	}

	zones := make([]domain.Zone, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := stringProperty(f.Properties, "zone")
		if name == "" {
			name = stringProperty(f.Properties, "name")
		}
		if name == "" {
			continue
		}
		zone := domain.Zone{Name: name}
		if f.Geometry != nil {
			raw, err := geojson.NewGeometry(f.Geometry).MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("%w: feature %d geometry: %w", ErrInvalidCatalog, i, err)
			}
			zone.Geometry = raw
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

// ParseShelters decodes a FeatureCollection of shelter points. Features that
// are not points with a name are skipped.
func ParseShelters(data []byte) ([]domain.Shelter, error) {
	fc, err := decode(data)
	if err != nil {
		return nil, err
	}

	shelters := make([]domain.Shelter, 0, len(fc.Features))
	for _, f := range fc.Features {
		name := stringProperty(f.Properties, "name")
		if name == "" {
			continue
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		shelters = append(shelters, domain.Shelter{
			Name:    name,
			Type:    stringProperty(f.Properties, "type"),
			Lat:     pt.Lat(),
			Lon:     pt.Lon(),
			Address: stringProperty(f.Properties, "address"),
		})
	}
	return shelters, nil
}

func readOrDefault(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return data, nil
}

func decode(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q is not FeatureCollection", ErrInvalidCatalog, fc.Type)
	}
	return fc, nil
}

func stringProperty(props geojson.Properties, key string) string {
	return strings.TrimSpace(props.MustString(key, ""))
}
