package simsource

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
)

// DefaultLocations is the built-in monitoring roster used when no
// roster file is configured.
func DefaultLocations() []domain.MonitoredLocation {
	return []domain.MonitoredLocation{
		{ID: "sensor-001", Name: "Downtown District", Coordinates: domain.Geo{Lat: 40.7128, Lon: -74.006}},
		{ID: "sensor-002", Name: "Industrial Zone", Coordinates: domain.Geo{Lat: 40.7589, Lon: -73.9851}},
		{ID: "sensor-003", Name: "Residential Area", Coordinates: domain.Geo{Lat: 40.6782, Lon: -73.9442}},
		{ID: "sensor-004", Name: "Waterfront", Coordinates: domain.Geo{Lat: 40.7505, Lon: -74.0134}},
		{ID: "sensor-005", Name: "University Campus", Coordinates: domain.Geo{Lat: 40.8176, Lon: -73.7781}},
	}
}

// LoadLocations reads a monitored-location roster from a JSON file.
func LoadLocations(path string) ([]domain.MonitoredLocation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read location roster: %w", err)
	}

	var locations []domain.MonitoredLocation
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("parse location roster: %w", err)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("location roster %s is empty", path)
	}
	for i, loc := range locations {
		if loc.ID == "" || loc.Name == "" {
			return nil, fmt.Errorf("location roster %s: entry %d missing id or name", path, i)
		}
	}
	return locations, nil
}

// reportTemplate describes one simulated communication feed entry.
type reportTemplate struct {
	source      string
	content     string
	location    string
	coordinates domain.Geo
	sentiment   domain.Sentiment
	urgency     domain.Urgency
	entities    []string
	topics      []string
}

var reportTemplates = []reportTemplate{
	{
		source:      "Twitter",
		content:     "Heavy smoke visible near downtown area, visibility very poor #emergency",
		location:    "Downtown District",
		coordinates: domain.Geo{Lat: 40.7128, Lon: -74.006},
		sentiment:   domain.SentimentNegative,
		urgency:     domain.UrgencyHigh,
		entities:    []string{"smoke", "downtown", "visibility"},
		topics:      []string{"fire", "air quality", "emergency"},
	},
	{
		source:      "Emergency Report",
		content:     "Industrial gas leak reported at Zone 2, evacuation in progress",
		location:    "Industrial Zone",
		coordinates: domain.Geo{Lat: 40.7589, Lon: -73.9851},
		sentiment:   domain.SentimentNegative,
		urgency:     domain.UrgencyCritical,
		entities:    []string{"gas leak", "Zone 2", "evacuation"},
		topics:      []string{"gas leak", "evacuation", "industrial accident"},
	},
	{
		source:      "Citizen Report",
		content:     "Air quality seems better today, no unusual smells in residential area",
		location:    "Residential Area",
		coordinates: domain.Geo{Lat: 40.6782, Lon: -73.9442},
		sentiment:   domain.SentimentPositive,
		urgency:     domain.UrgencyLow,
		entities:    []string{"air quality", "residential"},
		topics:      []string{"air quality", "normal conditions"},
	},
	{
		source:      "Weather Service",
		content:     "High temperature alert: 38°C recorded, heat advisory in effect",
		location:    "University Campus",
		coordinates: domain.Geo{Lat: 40.8176, Lon: -73.7781},
		sentiment:   domain.SentimentNeutral,
		urgency:     domain.UrgencyMedium,
		entities:    []string{"temperature", "38°C", "heat advisory"},
		topics:      []string{"weather", "heat wave", "advisory"},
	},
	{
		source:      "Local News",
		content:     "Waterfront area reports normal conditions, air quality monitoring continues",
		location:    "Waterfront",
		coordinates: domain.Geo{Lat: 40.7505, Lon: -74.0134},
		sentiment:   domain.SentimentNeutral,
		urgency:     domain.UrgencyLow,
		entities:    []string{"waterfront", "normal conditions", "monitoring"},
		topics:      []string{"monitoring", "normal conditions"},
	},
}
