package simsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
)

func newFixedClock(t *testing.T) clockwork.Clock {
	t.Helper()
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return clockwork.NewFakeClockAt(base)
}

func TestSensorReadingsCoverRoster(t *testing.T) {
	sim, err := New(DefaultLocations(), domain.DefaultThresholds(), 1, newFixedClock(t))
	require.NoError(t, err)

	readings, err := sim.SensorReadings(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 5)

	for i, loc := range DefaultLocations() {
		assert.Equal(t, loc.ID, readings[i].ID)
		assert.Equal(t, loc.Name, readings[i].Location)
		assert.Equal(t, loc.Coordinates, readings[i].Coordinates)
		assert.False(t, readings[i].Timestamp.IsZero())
	}
}

func TestSensorReadingsWithinPhysicalRanges(t *testing.T) {
	sim, err := New(DefaultLocations(), domain.DefaultThresholds(), 7, newFixedClock(t))
	require.NoError(t, err)

	for range 20 {
		readings, err := sim.SensorReadings(context.Background())
		require.NoError(t, err)
		for _, r := range readings {
			assert.GreaterOrEqual(t, r.PM25, 0.0)
			assert.LessOrEqual(t, r.PM25, 50.0)
			assert.GreaterOrEqual(t, r.Temperature, 22.0)
			assert.LessOrEqual(t, r.Temperature, 37.0)
			assert.GreaterOrEqual(t, r.Humidity, 40.0)
			assert.LessOrEqual(t, r.Humidity, 80.0)
			assert.GreaterOrEqual(t, r.GasLevel, 0.0)
			assert.LessOrEqual(t, r.GasLevel, 100.0)
		}
	}
}

func TestSensorStatusMatchesThresholds(t *testing.T) {
	th := domain.DefaultThresholds()
	sim, err := New(DefaultLocations(), th, 99, newFixedClock(t))
	require.NoError(t, err)

	for range 50 {
		readings, err := sim.SensorReadings(context.Background())
		require.NoError(t, err)
		for _, r := range readings {
			assert.Equal(t, th.Classify(r), r.Status)
		}
	}
}

func TestFixedSeedIsDeterministic(t *testing.T) {
	a, err := New(DefaultLocations(), domain.DefaultThresholds(), 42, newFixedClock(t))
	require.NoError(t, err)
	b, err := New(DefaultLocations(), domain.DefaultThresholds(), 42, newFixedClock(t))
	require.NoError(t, err)

	ra, err := a.SensorReadings(context.Background())
	require.NoError(t, err)
	rb, err := b.SensorReadings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ra, rb)

	ca, err := a.CommunicationRecords(context.Background())
	require.NoError(t, err)
	cb, err := b.CommunicationRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ca, cb)
}

func TestCommunicationRecords(t *testing.T) {
	sim, err := New(DefaultLocations(), domain.DefaultThresholds(), 3, newFixedClock(t))
	require.NoError(t, err)

	records, err := sim.CommunicationRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	now := newFixedClock(t).Now().UTC()
	seen := map[string]bool{}
	for _, rec := range records {
		assert.NotEmpty(t, rec.ID)
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true

		require.NotNil(t, rec.Coordinates)
		assert.NotEmpty(t, rec.Topics)
		assert.GreaterOrEqual(t, rec.Confidence, 0.7)
		assert.LessOrEqual(t, rec.Confidence, 1.0)

		age := now.Sub(rec.Timestamp)
		assert.GreaterOrEqual(t, age, time.Duration(0))
		assert.LessOrEqual(t, age, time.Hour)
	}

	assert.Equal(t, "Twitter", records[0].Source)
	assert.Equal(t, domain.UrgencyCritical, records[1].Urgency)
	assert.Equal(t, "Weather Service", records[3].Source)
}

func TestCanceledContext(t *testing.T) {
	sim, err := New(DefaultLocations(), domain.DefaultThresholds(), 1, newFixedClock(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sim.SensorReadings(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = sim.CommunicationRecords(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsEmptyRoster(t *testing.T) {
	_, err := New(nil, domain.DefaultThresholds(), 1, newFixedClock(t))
	assert.Error(t, err)
}

func TestLoadLocations(t *testing.T) {
	t.Run("valid roster", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.json")
		payload := `[
			{"id": "sensor-101", "name": "Harbor East", "coordinates": {"lat": 40.71, "lon": -74.01}},
			{"id": "sensor-102", "name": "Midtown", "coordinates": {"lat": 40.75, "lon": -73.98}}
		]`
		require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

		locations, err := LoadLocations(path)
		require.NoError(t, err)
		require.Len(t, locations, 2)
		assert.Equal(t, "sensor-101", locations[0].ID)
		assert.Equal(t, "Midtown", locations[1].Name)
		assert.Equal(t, 40.75, locations[1].Coordinates.Lat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLocations(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("empty roster", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

		_, err := LoadLocations(path)
		assert.Error(t, err)
	})

	t.Run("entry missing name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id": "x"}]`), 0o600))

		_, err := LoadLocations(path)
		assert.Error(t, err)
	})
}
