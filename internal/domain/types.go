package domain

import (
	"context"
	"time"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SensorStatus is the derived condition of a sensor reading or map point.
type SensorStatus string

const (
	StatusNormal   SensorStatus = "normal"
	StatusWarning  SensorStatus = "warning"
	StatusCritical SensorStatus = "critical"
)

// Severity is the ordinal urgency of an alert: low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the numeric order of a severity (critical=4 … low=1).
// Unknown severities rank 0, below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Urgency is the communication-record analog of severity.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Sentiment is the analyzed tone of a communication report.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SensorReading is an immutable snapshot from one environmental sensor.
// Status is derived from the measurements via Thresholds.Classify.
type SensorReading struct {
	ID          string       `json:"id"`
	Location    string       `json:"location"`
	Coordinates Geo          `json:"coordinates"`
	Timestamp   time.Time    `json:"timestamp"`
	PM25        float64      `json:"pm25"`
	PM10        float64      `json:"pm10"`
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
	GasLevel    float64      `json:"gasLevel"`
	SmokeLevel  float64      `json:"smokeLevel"`
	Status      SensorStatus `json:"status"`
}

// CommunicationRecord is an analyzed human or automated report.
// Coordinates may be absent; geocoding enrichment can fill them in later.
type CommunicationRecord struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location,omitempty"`
	Coordinates *Geo      `json:"coordinates,omitempty"`
	Sentiment   Sentiment `json:"sentiment"`
	Urgency     Urgency   `json:"urgency"`
	Entities    []string  `json:"entities"`
	Topics      []string  `json:"topics"`
	Confidence  float64   `json:"confidence"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formattedAddress,omitempty"`
	PlaceName        string  `json:"placeName,omitempty"`
	GeoConfidence    float64 `json:"geoConfidence,omitempty"`
	GeoSource        string  `json:"geoSource,omitempty"` // "reported", "geocoded", "original", "failed"
}

// AlertType distinguishes what kind of signal produced an alert.
type AlertType string

const (
	AlertEnvironmental AlertType = "environmental"
	AlertCommunication AlertType = "communication"
	AlertCorrelation   AlertType = "correlation"
	AlertSystem        AlertType = "system"
)

// AlertStatus is the lifecycle state of an alert. Synthesis always emits
// "active"; acknowledgement and resolution live in the consuming UI.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Alert is a prioritized, actionable finding synthesized from the sources.
type Alert struct {
	ID          string      `json:"id"`
	Type        AlertType   `json:"type"`
	Severity    Severity    `json:"severity"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Coordinates *Geo        `json:"coordinates,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Status      AlertStatus `json:"status"`
	ActionItems []string    `json:"actionItems"`
	DataSource  string      `json:"dataSource"`
}

// AlertSummary tallies an alert set by severity and active status.
type AlertSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Active   int `json:"active"`
}

// AlertSet is the complete output of one synthesis pass. Alerts is never
// empty: a system/low operational alert substitutes when no rule fires.
type AlertSet struct {
	Alerts  []Alert      `json:"alerts"`
	Summary AlertSummary `json:"summary"`
}

// CorrelationType classifies the agreement between a sensor reading and a
// communication report.
type CorrelationType string

const (
	CorrelationConfirmed     CorrelationType = "confirmed"
	CorrelationPotential     CorrelationType = "potential"
	CorrelationContradictory CorrelationType = "contradictory"
)

// CorrelationResult links one sensor reading to one communication report.
type CorrelationResult struct {
	ID              string          `json:"id"`
	SensorID        string          `json:"sensorId"`
	CommunicationID string          `json:"communicationId"`
	Location        string          `json:"location"`
	CorrelationType CorrelationType `json:"correlationType"`
	Confidence      float64         `json:"confidence"`
	Description     string          `json:"description"`
	Timestamp       time.Time       `json:"timestamp"`
	ActionRequired  bool            `json:"actionRequired"`
}

// CorrelationSummary tallies correlation results by type.
type CorrelationSummary struct {
	Total          int `json:"total"`
	Confirmed      int `json:"confirmed"`
	Potential      int `json:"potential"`
	Contradictory  int `json:"contradictory"`
	ActionRequired int `json:"actionRequired"`
}

// PointType is the kind of record a map point was projected from.
type PointType string

const (
	PointSensor        PointType = "sensor"
	PointIncident      PointType = "incident"
	PointCommunication PointType = "communication"
)

// MapPoint is a single geolocated, typed entry in the unified map view.
// Derived entity: always built by projecting a sensor, communication, or
// alert record — never created independently.
type MapPoint struct {
	ID          string       `json:"id"`
	Type        PointType    `json:"type"`
	Coordinates Geo          `json:"coordinates"`
	Location    string       `json:"location"`
	Status      SensorStatus `json:"status"`
	Data        any          `json:"data"`
	Timestamp   time.Time    `json:"timestamp"`
}

// SensorPayload is the map-point payload projected from a sensor reading.
type SensorPayload struct {
	PM25        float64 `json:"pm25"`
	PM10        float64 `json:"pm10"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	GasLevel    float64 `json:"gasLevel"`
	SmokeLevel  float64 `json:"smokeLevel"`
}

// CommunicationPayload is the map-point payload projected from a report.
type CommunicationPayload struct {
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	Sentiment Sentiment `json:"sentiment"`
	Urgency   Urgency   `json:"urgency"`
	Entities  []string  `json:"entities"`
	Topics    []string  `json:"topics"`
}

// IncidentPayload is the map-point payload projected from a critical alert.
type IncidentPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AlertType   AlertType `json:"type"`
	ActionItems []string  `json:"actionItems"`
}

// MapBounds is the padded bounding box of a point set.
// Invariant: North >= South and East >= West. The zero value is the
// documented sentinel for a view with no points.
type MapBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// MapStatistics counts points by type and critical status.
type MapStatistics struct {
	TotalPoints    int `json:"totalPoints"`
	Sensors        int `json:"sensors"`
	Communications int `json:"communications"`
	Incidents      int `json:"incidents"`
	CriticalPoints int `json:"criticalPoints"`
}

// MapView is the merged geospatial view over all sources.
type MapView struct {
	Points     []MapPoint    `json:"points"`
	Bounds     MapBounds     `json:"bounds"`
	Center     Geo           `json:"center"`
	Statistics MapStatistics `json:"statistics"`
}

// MonitoredLocation is one entry in the configured location roster that
// source adapters report from.
type MonitoredLocation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Coordinates Geo    `json:"coordinates"`
}

// SensorSource produces a fresh snapshot of sensor telemetry.
type SensorSource interface {
	SensorReadings(ctx context.Context) ([]SensorReading, error)
}

// CommunicationSource produces a fresh snapshot of analyzed reports.
type CommunicationSource interface {
	CommunicationRecords(ctx context.Context) ([]CommunicationRecord, error)
}
