package domain

// boundsPadding is the fixed margin, in degrees, added beyond the extremal
// point coordinates on every side.
const boundsPadding = 0.01

// BuildMapView merges sensor, communication, and high-severity alert
// records into a single bounded view. Projection rules:
//
//   - every sensor becomes a "sensor" point, status copied from the
//     reading's derived status;
//   - every communication with coordinates becomes a "communication"
//     point, status derived from urgency (critical→critical,
//     high→warning, else normal); records without coordinates are dropped
//     from the map only;
//   - every critical alert with coordinates becomes an "incident" point
//     with fixed critical status.
//
// With zero resulting points the view carries an empty slice and
// zero-valued bounds/center (the "no data" sentinel) instead of reducing
// over an empty sequence.
func BuildMapView(sensors []SensorReading, comms []CommunicationRecord, alerts []Alert) MapView {
	points := make([]MapPoint, 0, len(sensors)+len(comms)+len(alerts))

	for i := range sensors {
		points = append(points, projectSensor(sensors[i]))
	}
	for i := range comms {
		if comms[i].Coordinates == nil {
			continue
		}
		points = append(points, projectCommunication(comms[i]))
	}
	for i := range alerts {
		if alerts[i].Severity != SeverityCritical || alerts[i].Coordinates == nil {
			continue
		}
		points = append(points, projectIncident(alerts[i]))
	}

	view := MapView{Points: points, Statistics: statistics(points)}
	if len(points) == 0 {
		return view
	}

	view.Bounds = bounds(points)
	view.Center = Geo{
		Lat: (view.Bounds.North + view.Bounds.South) / 2,
		Lon: (view.Bounds.East + view.Bounds.West) / 2,
	}
	return view
}

func projectSensor(s SensorReading) MapPoint {
	return MapPoint{
		ID:          s.ID,
		Type:        PointSensor,
		Coordinates: s.Coordinates,
		Location:    s.Location,
		Status:      s.Status,
		Data: SensorPayload{
			PM25:        s.PM25,
			PM10:        s.PM10,
			Temperature: s.Temperature,
			Humidity:    s.Humidity,
			GasLevel:    s.GasLevel,
			SmokeLevel:  s.SmokeLevel,
		},
		Timestamp: s.Timestamp,
	}
}

func projectCommunication(c CommunicationRecord) MapPoint {
	return MapPoint{
		ID:          c.ID,
		Type:        PointCommunication,
		Coordinates: *c.Coordinates,
		Location:    c.Location,
		Status:      urgencyStatus(c.Urgency),
		Data: CommunicationPayload{
			Source:    c.Source,
			Content:   c.Content,
			Sentiment: c.Sentiment,
			Urgency:   c.Urgency,
			Entities:  c.Entities,
			Topics:    c.Topics,
		},
		Timestamp: c.Timestamp,
	}
}

func projectIncident(a Alert) MapPoint {
	return MapPoint{
		ID:          a.ID,
		Type:        PointIncident,
		Coordinates: *a.Coordinates,
		Location:    a.Location,
		Status:      StatusCritical,
		Data: IncidentPayload{
			Title:       a.Title,
			Description: a.Description,
			AlertType:   a.Type,
			ActionItems: a.ActionItems,
		},
		Timestamp: a.Timestamp,
	}
}

// urgencyStatus maps a report's urgency onto map-point status.
func urgencyStatus(u Urgency) SensorStatus {
	switch u {
	case UrgencyCritical:
		return StatusCritical
	case UrgencyHigh:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// bounds computes the padded bounding box over a non-empty point set.
func bounds(points []MapPoint) MapBounds {
	minLat, maxLat := points[0].Coordinates.Lat, points[0].Coordinates.Lat
	minLon, maxLon := points[0].Coordinates.Lon, points[0].Coordinates.Lon
	for _, p := range points[1:] {
		if p.Coordinates.Lat < minLat {
			minLat = p.Coordinates.Lat
		}
		if p.Coordinates.Lat > maxLat {
			maxLat = p.Coordinates.Lat
		}
		if p.Coordinates.Lon < minLon {
			minLon = p.Coordinates.Lon
		}
		if p.Coordinates.Lon > maxLon {
			maxLon = p.Coordinates.Lon
		}
	}
	return MapBounds{
		North: maxLat + boundsPadding,
		South: minLat - boundsPadding,
		East:  maxLon + boundsPadding,
		West:  minLon - boundsPadding,
	}
}

func statistics(points []MapPoint) MapStatistics {
	s := MapStatistics{TotalPoints: len(points)}
	for i := range points {
		switch points[i].Type {
		case PointSensor:
			s.Sensors++
		case PointCommunication:
			s.Communications++
		case PointIncident:
			s.Incidents++
		}
		if points[i].Status == StatusCritical {
			s.CriticalPoints++
		}
	}
	return s
}
