// Package simsource provides simulated sensor and communication feeds
// over a configurable roster of monitored locations. A fixed seed and
// an injected clock make every snapshot reproducible.
package simsource

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
)

// Simulator implements domain.SensorSource and domain.CommunicationSource
// by generating plausible readings and reports for each configured location.
type Simulator struct {
	locations  []domain.MonitoredLocation
	thresholds domain.Thresholds
	clock      clockwork.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Simulator over the given roster. A seed of 0 seeds the
// generator from the clock.
func New(locations []domain.MonitoredLocation, thresholds domain.Thresholds, seed int64, clock clockwork.Clock) (*Simulator, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("simsource: empty location roster")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	return &Simulator{
		locations:  locations,
		thresholds: thresholds,
		clock:      clock,
		rng:        rand.New(rand.NewSource(seed)),
	}, nil
}

// SensorReadings returns one fresh reading per monitored location.
func (s *Simulator) SensorReadings(ctx context.Context) ([]domain.SensorReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	readings := make([]domain.SensorReading, 0, len(s.locations))
	for _, loc := range s.locations {
		readings = append(readings, s.readingFor(loc, now))
	}
	return readings, nil
}

func (s *Simulator) readingFor(loc domain.MonitoredLocation, now time.Time) domain.SensorReading {
	pm25 := round1(s.rng.Float64() * 50)
	r := domain.SensorReading{
		ID:          loc.ID,
		Location:    loc.Name,
		Coordinates: loc.Coordinates,
		Timestamp:   now,
		PM25:        pm25,
		PM10:        round1(pm25*1.5 + s.rng.Float64()*20),
		Temperature: round1(22 + s.rng.Float64()*15),
		Humidity:    round1(40 + s.rng.Float64()*40),
		GasLevel:    round1(s.rng.Float64() * 100),
		SmokeLevel:  round1(s.rng.Float64() * 100),
	}
	r.Status = s.thresholds.Classify(r)
	return r
}

// CommunicationRecords returns one analyzed report per configured
// template, with timestamps scattered across the previous hour.
func (s *Simulator) CommunicationRecords(ctx context.Context) ([]domain.CommunicationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	records := make([]domain.CommunicationRecord, 0, len(reportTemplates))
	for i, tpl := range reportTemplates {
		coords := tpl.coordinates
		records = append(records, domain.CommunicationRecord{
			ID:          fmt.Sprintf("comm-%d-%d", now.UnixMilli(), i),
			Source:      tpl.source,
			Content:     tpl.content,
			Timestamp:   now.Add(-time.Duration(s.rng.Float64() * float64(time.Hour))),
			Location:    tpl.location,
			Coordinates: &coords,
			Sentiment:   tpl.sentiment,
			Urgency:     tpl.urgency,
			Entities:    append([]string(nil), tpl.entities...),
			Topics:      append([]string(nil), tpl.topics...),
			Confidence:  round2(0.7 + s.rng.Float64()*0.3),
		})
	}
	return records, nil
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
