package domain

import "time"

// Shared fixtures for the engine tests. Locations mirror the default
// monitored roster.

var (
	fixtureBase = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

	geoDowntown    = Geo{Lat: 40.7128, Lon: -74.0060}
	geoIndustrial  = Geo{Lat: 40.7589, Lon: -73.9851}
	geoResidential = Geo{Lat: 40.6782, Lon: -73.9442}
)

// makeSensor builds a reading with derived status under default thresholds.
func makeSensor(id, location string, coords Geo, pm25, temperature, gas, smoke float64) SensorReading {
	r := SensorReading{
		ID:          id,
		Location:    location,
		Coordinates: coords,
		Timestamp:   fixtureBase,
		PM25:        pm25,
		PM10:        pm25 * 1.5,
		Temperature: temperature,
		Humidity:    55,
		GasLevel:    gas,
		SmokeLevel:  smoke,
	}
	r.Status = DefaultThresholds().Classify(r)
	return r
}

func makeComm(id, source, location string, coords *Geo, sentiment Sentiment, urgency Urgency, topics []string) CommunicationRecord {
	return CommunicationRecord{
		ID:          id,
		Source:      source,
		Content:     "report from " + location,
		Timestamp:   fixtureBase.Add(2 * time.Minute),
		Location:    location,
		Coordinates: coords,
		Sentiment:   sentiment,
		Urgency:     urgency,
		Entities:    topics,
		Topics:      topics,
		Confidence:  0.9,
	}
}

func geoPtr(g Geo) *Geo {
	return &g
}
