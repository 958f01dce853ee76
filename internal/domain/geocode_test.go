package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) Geocode(_ context.Context, _ string) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnrichWithGeocoding_FillsMissingCoordinates(t *testing.T) {
	geocoder := &mockGeocoder{result: GeocodingResult{
		Lat: 40.7128, Lon: -74.0060,
		FormattedAddress: "Downtown District, New York",
		PlaceName:        "Downtown District",
		Confidence:       0.93,
	}}
	rec := makeComm("comm-1", "Twitter", "Downtown District", nil, SentimentNegative, UrgencyHigh, []string{"smoke"})

	out := EnrichWithGeocoding(context.Background(), rec, geocoder, discardLogger())

	assert.Equal(t, 1, geocoder.calls)
	assert.NotNil(t, out.Coordinates)
	assert.Equal(t, Geo{Lat: 40.7128, Lon: -74.0060}, *out.Coordinates)
	assert.Equal(t, "geocoded", out.GeoSource)
	assert.Equal(t, 0.93, out.GeoConfidence)
}

func TestEnrichWithGeocoding_ReportedCoordinatesPassThrough(t *testing.T) {
	geocoder := &mockGeocoder{}
	rec := makeComm("comm-1", "Twitter", "Downtown District", geoPtr(geoDowntown), SentimentNegative, UrgencyHigh, []string{"smoke"})

	out := EnrichWithGeocoding(context.Background(), rec, geocoder, discardLogger())

	assert.Zero(t, geocoder.calls)
	assert.Equal(t, geoDowntown, *out.Coordinates)
	assert.Equal(t, "reported", out.GeoSource)
}

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	rec := makeComm("comm-1", "Twitter", "Downtown District", nil, SentimentNegative, UrgencyHigh, []string{"smoke"})

	out := EnrichWithGeocoding(context.Background(), rec, nil, discardLogger())

	assert.Nil(t, out.Coordinates)
	assert.Equal(t, "original", out.GeoSource)
}

func TestEnrichWithGeocoding_FailureDegradesGracefully(t *testing.T) {
	geocoder := &mockGeocoder{err: errors.New("rate limited")}
	rec := makeComm("comm-1", "Twitter", "Downtown District", nil, SentimentNegative, UrgencyHigh, []string{"smoke"})

	out := EnrichWithGeocoding(context.Background(), rec, geocoder, discardLogger())

	assert.Nil(t, out.Coordinates)
	assert.Equal(t, "failed", out.GeoSource)
}

func TestEnrichWithGeocoding_EmptyResultKeepsOriginal(t *testing.T) {
	geocoder := &mockGeocoder{}
	rec := makeComm("comm-1", "Twitter", "Downtown District", nil, SentimentNegative, UrgencyHigh, []string{"smoke"})

	out := EnrichWithGeocoding(context.Background(), rec, geocoder, discardLogger())

	assert.Nil(t, out.Coordinates)
	assert.Equal(t, "original", out.GeoSource)
}

func TestEnrichWithGeocoding_NoLocationName(t *testing.T) {
	geocoder := &mockGeocoder{result: GeocodingResult{Lat: 1, Lon: 1}}
	rec := makeComm("comm-1", "Twitter", "", nil, SentimentNegative, UrgencyHigh, []string{"smoke"})

	out := EnrichWithGeocoding(context.Background(), rec, geocoder, discardLogger())

	assert.Zero(t, geocoder.calls)
	assert.Equal(t, "original", out.GeoSource)
}
