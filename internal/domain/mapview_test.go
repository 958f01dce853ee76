package domain

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMapView_ProjectsSensors(t *testing.T) {
	sensor := makeSensor("sensor-002", "Industrial Zone", geoIndustrial, 78, 25, 10, 10)
	require.Equal(t, StatusCritical, sensor.Status)

	view := BuildMapView([]SensorReading{sensor}, nil, nil)

	require.Len(t, view.Points, 1)
	p := view.Points[0]
	assert.Equal(t, PointSensor, p.Type)
	assert.Equal(t, StatusCritical, p.Status, "status copied from the reading")
	assert.Equal(t, geoIndustrial, p.Coordinates)

	payload, ok := p.Data.(SensorPayload)
	require.True(t, ok)
	assert.Equal(t, 78.0, payload.PM25)
}

func TestBuildMapView_CommunicationUrgencyMapping(t *testing.T) {
	cases := []struct {
		urgency Urgency
		want    SensorStatus
	}{
		{UrgencyCritical, StatusCritical},
		{UrgencyHigh, StatusWarning},
		{UrgencyMedium, StatusNormal},
		{UrgencyLow, StatusNormal},
	}

	for _, tc := range cases {
		t.Run(string(tc.urgency), func(t *testing.T) {
			comm := makeComm("comm-1", "Twitter", "Downtown District", geoPtr(geoDowntown),
				SentimentNegative, tc.urgency, []string{"smoke"})

			view := BuildMapView(nil, []CommunicationRecord{comm}, nil)

			require.Len(t, view.Points, 1)
			assert.Equal(t, PointCommunication, view.Points[0].Type)
			assert.Equal(t, tc.want, view.Points[0].Status)
		})
	}
}

func TestBuildMapView_DropsCoordinatelessCommunications(t *testing.T) {
	comms := []CommunicationRecord{
		makeComm("comm-1", "Twitter", "Downtown District", geoPtr(geoDowntown), SentimentNegative, UrgencyHigh, []string{"smoke"}),
		makeComm("comm-2", "Weather Service", "City-wide", nil, SentimentNeutral, UrgencyMedium, []string{"weather"}),
	}

	view := BuildMapView(nil, comms, nil)

	require.Len(t, view.Points, 1)
	assert.Equal(t, "comm-1", view.Points[0].ID)
}

func TestBuildMapView_IncidentsFromCriticalAlertsOnly(t *testing.T) {
	coords := geoIndustrial
	alerts := []Alert{
		{ID: "alert-1", Type: AlertEnvironmental, Severity: SeverityCritical, Location: "Industrial Zone", Coordinates: &coords, Title: "Critical Air Quality Alert"},
		{ID: "alert-2", Type: AlertEnvironmental, Severity: SeverityHigh, Location: "Downtown District", Coordinates: &coords},
		{ID: "alert-3", Type: AlertSystem, Severity: SeverityCritical, Location: "System-wide"}, // no coordinates
	}

	view := BuildMapView(nil, nil, alerts)

	require.Len(t, view.Points, 1)
	p := view.Points[0]
	assert.Equal(t, "alert-1", p.ID)
	assert.Equal(t, PointIncident, p.Type)
	assert.Equal(t, StatusCritical, p.Status)

	payload, ok := p.Data.(IncidentPayload)
	require.True(t, ok)
	assert.Equal(t, "Critical Air Quality Alert", payload.Title)
}

func TestBuildMapView_Bounds(t *testing.T) {
	sensors := []SensorReading{
		makeSensor("sensor-1", "Downtown District", geoDowntown, 10, 22, 10, 10),
		makeSensor("sensor-2", "Industrial Zone", geoIndustrial, 10, 22, 10, 10),
		makeSensor("sensor-3", "Residential Area", geoResidential, 10, 22, 10, 10),
	}

	view := BuildMapView(sensors, nil, nil)

	b := view.Bounds
	assert.InDelta(t, 40.7589+0.01, b.North, 1e-9)
	assert.InDelta(t, 40.6782-0.01, b.South, 1e-9)
	assert.InDelta(t, -73.9442+0.01, b.East, 1e-9)
	assert.InDelta(t, -74.0060-0.01, b.West, 1e-9)
	assert.GreaterOrEqual(t, b.North, b.South)
	assert.GreaterOrEqual(t, b.East, b.West)

	// Bounds enclose every point with exactly the fixed margin.
	for _, p := range view.Points {
		assert.GreaterOrEqual(t, b.North, p.Coordinates.Lat)
		assert.LessOrEqual(t, b.South, p.Coordinates.Lat)
		assert.GreaterOrEqual(t, b.East, p.Coordinates.Lon)
		assert.LessOrEqual(t, b.West, p.Coordinates.Lon)
	}

	assert.InDelta(t, (b.North+b.South)/2, view.Center.Lat, 1e-9)
	assert.InDelta(t, (b.East+b.West)/2, view.Center.Lon, 1e-9)
}

func TestBuildMapView_EmptyInputsAreGuarded(t *testing.T) {
	view := BuildMapView(nil, nil, nil)

	assert.Empty(t, view.Points)
	assert.NotNil(t, view.Points, "empty slice, not nil, for stable JSON")

	if diff := cmp.Diff(MapBounds{}, view.Bounds); diff != "" {
		t.Errorf("bounds sentinel mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Geo{}, view.Center)
	assert.Equal(t, MapStatistics{}, view.Statistics)

	for _, v := range []float64{view.Bounds.North, view.Bounds.South, view.Bounds.East, view.Bounds.West, view.Center.Lat, view.Center.Lon} {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestBuildMapView_SinglePointBounds(t *testing.T) {
	sensor := makeSensor("sensor-1", "Downtown District", geoDowntown, 10, 22, 10, 10)

	view := BuildMapView([]SensorReading{sensor}, nil, nil)

	assert.InDelta(t, 0.02, view.Bounds.North-view.Bounds.South, 1e-9)
	assert.InDelta(t, 0.02, view.Bounds.East-view.Bounds.West, 1e-9)
	assert.InDelta(t, geoDowntown.Lat, view.Center.Lat, 1e-9)
	assert.InDelta(t, geoDowntown.Lon, view.Center.Lon, 1e-9)
}

func TestBuildMapView_Statistics(t *testing.T) {
	sensors := []SensorReading{
		makeSensor("sensor-1", "Industrial Zone", geoIndustrial, 78, 25, 10, 10), // critical
		makeSensor("sensor-2", "Downtown District", geoDowntown, 10, 22, 10, 10),
	}
	comms := []CommunicationRecord{
		makeComm("comm-1", "Emergency Report", "Industrial Zone", geoPtr(geoIndustrial), SentimentNegative, UrgencyCritical, []string{"gas leak"}),
	}
	coords := geoIndustrial
	alerts := []Alert{
		{ID: "alert-1", Severity: SeverityCritical, Coordinates: &coords, Location: "Industrial Zone"},
	}

	view := BuildMapView(sensors, comms, alerts)

	assert.Equal(t, MapStatistics{
		TotalPoints:    4,
		Sensors:        2,
		Communications: 1,
		Incidents:      1,
		CriticalPoints: 3,
	}, view.Statistics)
}
