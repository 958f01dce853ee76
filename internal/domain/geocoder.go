package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (GeocodingResult, error)
}
