package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to place a coordinate-less communication
// record on the map by forward geocoding its location name. If geocoder is
// nil or geocoding fails, the record is returned with GeoSource set
// accordingly (graceful degradation). Records that already carry
// coordinates pass through untouched apart from GeoSource.
func EnrichWithGeocoding(ctx context.Context, rec CommunicationRecord, geocoder Geocoder, logger *slog.Logger) CommunicationRecord {
	if rec.Coordinates != nil {
		rec.GeoSource = "reported"
		return rec
	}
	if geocoder == nil || rec.Location == "" {
		rec.GeoSource = "original"
		return rec
	}

	result, err := geocoder.Geocode(ctx, rec.Location)
	if err != nil {
		logger.Warn("geocoding failed",
			"record_id", rec.ID,
			"location", rec.Location,
			"error", err,
		)
		rec.GeoSource = "failed"
		return rec
	}
	if result.Lat == 0 && result.Lon == 0 {
		rec.GeoSource = "original"
		return rec
	}

	rec.Coordinates = &Geo{Lat: result.Lat, Lon: result.Lon}
	rec.FormattedAddress = result.FormattedAddress
	rec.PlaceName = result.PlaceName
	rec.GeoConfidence = result.Confidence
	rec.GeoSource = "geocoded"
	return rec
}
