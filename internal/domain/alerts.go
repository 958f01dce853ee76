package domain

import (
	"fmt"
	"sort"
	"time"
)

// Action-item playbooks for the synthesis rules.
var (
	criticalAirActions = []string{
		"Issue immediate health advisory",
		"Deploy emergency response teams",
		"Monitor air quality continuously",
		"Consider evacuation for sensitive areas",
	}
	gasLevelActions = []string{
		"Verify gas leak source",
		"Coordinate with emergency services",
		"Monitor surrounding areas",
	}
	commSurgeActions = []string{
		"Monitor social media trends",
		"Verify reports with ground teams",
		"Prepare public information response",
	}
	weatherAdvisoryActions = []string{
		"Review weather conditions",
		"Update emergency protocols",
		"Inform relevant departments",
	}
	operationalActions = []string{
		"Continue routine monitoring",
		"Maintain system readiness",
		"Review daily reports",
	}
	fallbackActions = []string{
		"Monitor system status",
		"Check data connections",
	}
)

// commSurgeMinReports is the number of urgent negative reports that counts
// as a communication surge.
const commSurgeMinReports = 2

// SynthesizeAlerts converts source snapshots plus threshold rules into a
// prioritized alert set. Each rule contributes independently and the union
// is sorted by severity descending, then timestamp descending. The result
// is never empty: when no rule fires, a single system/low operational
// alert stands in.
func SynthesizeAlerts(sensors []SensorReading, comms []CommunicationRecord, t Thresholds) AlertSet {
	var alerts []Alert

	for i := range sensors {
		if a, ok := criticalAirQualityAlert(sensors[i], t); ok {
			alerts = append(alerts, a)
		}
		if a, ok := elevatedGasAlert(sensors[i], t); ok {
			alerts = append(alerts, a)
		}
	}

	if a, ok := communicationSurgeAlert(comms); ok {
		alerts = append(alerts, a)
	}
	if a, ok := weatherAdvisoryAlert(comms); ok {
		alerts = append(alerts, a)
	}

	if len(alerts) == 0 {
		alerts = append(alerts, operationalAlert())
	}

	sortAlerts(alerts)
	return AlertSet{Alerts: alerts, Summary: summarizeAlerts(alerts)}
}

// FallbackAlertSet is the degraded-mode output used when the source
// adapters themselves are unreachable. Callers of SynthesizeAlerts must
// never surface an empty alert feed, even then.
func FallbackAlertSet() AlertSet {
	now := clock.Now().UTC()
	alerts := []Alert{{
		ID:          shortID("alert-fallback", now.Format(time.RFC3339)),
		Type:        AlertSystem,
		Severity:    SeverityLow,
		Title:       "System Status",
		Description: "Monitoring systems are operational. Alert generation temporarily using fallback mode.",
		Location:    "System-wide",
		Timestamp:   now,
		Status:      AlertActive,
		ActionItems: fallbackActions,
		DataSource:  "Fallback System",
	}}
	return AlertSet{Alerts: alerts, Summary: summarizeAlerts(alerts)}
}

func criticalAirQualityAlert(s SensorReading, t Thresholds) (Alert, bool) {
	if s.PM25 <= t.PM25Alert {
		return Alert{}, false
	}
	coords := s.Coordinates
	return Alert{
		ID:       shortID("alert-air", s.ID, s.Timestamp.Format(time.RFC3339Nano)),
		Type:     AlertEnvironmental,
		Severity: SeverityCritical,
		Title:    fmt.Sprintf("Critical Air Quality Alert - %s", s.Location),
		Description: fmt.Sprintf(
			"PM2.5 levels at %.1f μg/m³ exceed the %.0f μg/m³ threshold. Immediate attention required for sensitive individuals.",
			s.PM25, t.PM25Alert),
		Location:    s.Location,
		Coordinates: &coords,
		Timestamp:   s.Timestamp,
		Status:      AlertActive,
		ActionItems: criticalAirActions,
		DataSource:  sensorLabel(s),
	}, true
}

func elevatedGasAlert(s SensorReading, t Thresholds) (Alert, bool) {
	if s.GasLevel <= t.GasWarning {
		return Alert{}, false
	}
	coords := s.Coordinates
	return Alert{
		ID:       shortID("alert-gas", s.ID, s.Timestamp.Format(time.RFC3339Nano)),
		Type:     AlertEnvironmental,
		Severity: SeverityHigh,
		Title:    fmt.Sprintf("Gas Level Warning - %s", s.Location),
		Description: fmt.Sprintf(
			"Elevated gas levels detected (%.1f). Emergency services have been notified.", s.GasLevel),
		Location:    s.Location,
		Coordinates: &coords,
		Timestamp:   s.Timestamp,
		Status:      AlertActive,
		ActionItems: gasLevelActions,
		DataSource:  sensorLabel(s),
	}, true
}

// communicationSurgeAlert fires when enough urgent negative reports pile
// up, anchored at the location of the earliest such report.
func communicationSurgeAlert(comms []CommunicationRecord) (Alert, bool) {
	var surge []CommunicationRecord
	for i := range comms {
		c := comms[i]
		if c.Sentiment == SentimentNegative && (c.Urgency == UrgencyHigh || c.Urgency == UrgencyCritical) {
			surge = append(surge, c)
		}
	}
	if len(surge) < commSurgeMinReports {
		return Alert{}, false
	}

	anchor := surge[0]
	latest := surge[0].Timestamp
	for _, c := range surge[1:] {
		if c.Timestamp.After(latest) {
			latest = c.Timestamp
		}
	}

	a := Alert{
		ID:       shortID("alert-surge", anchor.ID, latest.Format(time.RFC3339Nano)),
		Type:     AlertCommunication,
		Severity: SeverityMedium,
		Title:    "Social Media Activity Surge",
		Description: fmt.Sprintf(
			"Significant increase in emergency-related reports detected: %d urgent negative reports, first near %s.",
			len(surge), anchor.Location),
		Location:    anchor.Location,
		Timestamp:   latest,
		Status:      AlertActive,
		ActionItems: commSurgeActions,
		DataSource:  "Communication Monitor",
	}
	if anchor.Coordinates != nil {
		coords := *anchor.Coordinates
		a.Coordinates = &coords
	}
	return a, true
}

// weatherAdvisoryAlert fires when a weather-service advisory appears in the
// communication feed.
func weatherAdvisoryAlert(comms []CommunicationRecord) (Alert, bool) {
	for i := range comms {
		c := comms[i]
		if !isWeatherAdvisory(c) {
			continue
		}
		return Alert{
			ID:          shortID("alert-weather", c.ID, c.Timestamp.Format(time.RFC3339Nano)),
			Type:        AlertCommunication,
			Severity:    SeverityLow,
			Title:       "Weather Advisory Update",
			Description: "Weather service issued updated conditions for the region.",
			Location:    "City-wide",
			Timestamp:   c.Timestamp,
			Status:      AlertActive,
			ActionItems: weatherAdvisoryActions,
			DataSource:  c.Source,
		}, true
	}
	return Alert{}, false
}

func isWeatherAdvisory(c CommunicationRecord) bool {
	for _, topic := range c.Topics {
		if topic == "weather" || topic == "advisory" {
			return true
		}
	}
	return c.Source == "Weather Service"
}

func operationalAlert() Alert {
	now := clock.Now().UTC()
	return Alert{
		ID:          shortID("alert-system", now.Format(time.RFC3339)),
		Type:        AlertSystem,
		Severity:    SeverityLow,
		Title:       "System Operational",
		Description: "All monitoring systems are functioning normally. No critical alerts detected at this time.",
		Location:    "System-wide",
		Timestamp:   now,
		Status:      AlertActive,
		ActionItems: operationalActions,
		DataSource:  "System Monitor",
	}
}

// sortAlerts orders by severity descending, then timestamp descending.
// The sort is stable so equal keys keep rule order.
func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := alerts[i].Severity.Rank(), alerts[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})
}

func summarizeAlerts(alerts []Alert) AlertSummary {
	s := AlertSummary{Total: len(alerts)}
	for i := range alerts {
		switch alerts[i].Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
		if alerts[i].Status == AlertActive {
			s.Active++
		}
	}
	return s
}
