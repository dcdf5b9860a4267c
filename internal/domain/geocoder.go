package domain

import (
	"context"
	"log/slog"
)

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// ReverseGeocoder resolves coordinates to place details.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}

// EnrichShelters fills in shelter addresses from a reverse geocoder. A nil
// geocoder returns the shelters unchanged; lookup failures leave the address
// empty and are logged.
func EnrichShelters(ctx context.Context, shelters []Shelter, geocoder ReverseGeocoder, logger *slog.Logger) []Shelter {
	out := make([]Shelter, len(shelters))
	copy(out, shelters)
	if geocoder == nil {
		return out
	}

	for i := range out {
		s := &out[i]
		if s.Address != "" || (s.Lat == 0 && s.Lon == 0) {
			continue
		}
		result, err := geocoder.ReverseGeocode(ctx, s.Lat, s.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"shelter", s.Name,
				"lat", s.Lat,
				"lon", s.Lon,
				"error", err,
			)
			continue
		}
		s.Address = result.FormattedAddress
	}
	return out
}
