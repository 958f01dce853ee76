// Command genfixture runs one deterministic synthesis cycle with a fixed
// seed and a frozen clock, then writes the resulting snapshots as JSON
// fixtures. It uses the actual domain engines so fixtures always match
// real synthesis behavior.
//
// Usage:
//
//	go run ./cmd/genfixture -seed 42 -out data/fixtures
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/situation-synthesis-service/internal/adapter/simsource"
	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
)

var baseTime = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seed := flag.Int64("seed", 42, "random seed for the simulated sources")
	out := flag.String("out", "", "output directory for fixture files")
	roster := flag.String("roster", "", "optional JSON location roster (defaults to the built-in roster)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Freeze the clock so fallback alerts and correlations carry
	// reproducible timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(baseTime))
	defer domain.SetClock(nil)

	locations := simsource.DefaultLocations()
	if *roster != "" {
		var err error
		locations, err = simsource.LoadLocations(*roster)
		if err != nil {
			return err
		}
	}

	thresholds := domain.DefaultThresholds()
	sim, err := simsource.New(locations, thresholds, *seed, clockwork.NewFakeClockAt(baseTime))
	if err != nil {
		return err
	}

	ctx := context.Background()
	sensors, err := sim.SensorReadings(ctx)
	if err != nil {
		return fmt.Errorf("sensor snapshot: %w", err)
	}
	comms, err := sim.CommunicationRecords(ctx)
	if err != nil {
		return fmt.Errorf("communication snapshot: %w", err)
	}

	alertSet := domain.SynthesizeAlerts(sensors, comms, thresholds)
	correlations := domain.Correlate(sensors, comms, thresholds)
	view := domain.BuildMapView(sensors, comms, alertSet.Alerts)
	analysis := domain.AnalyzeCommunications(comms)

	fixtures := map[string]any{
		"sensors.json":        sensors,
		"communications.json": analysis,
		"alerts.json":         alertSet,
		"correlations.json":   correlations,
		"map.json":            view,
	}
	for name, v := range fixtures {
		path := filepath.Join(*out, name)
		if err := writeJSON(path, v); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("wrote %s", path)
	}

	printStats(sensors, alertSet, correlations, view)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(
	sensors []domain.SensorReading,
	alertSet domain.AlertSet,
	correlations []domain.CorrelationResult,
	view domain.MapView,
) {
	statusCounts := map[domain.SensorStatus]int{}
	for _, s := range sensors {
		statusCounts[s.Status]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Sensors: %d (normal=%d, warning=%d, critical=%d)\n",
		len(sensors), statusCounts[domain.StatusNormal],
		statusCounts[domain.StatusWarning], statusCounts[domain.StatusCritical])
	fmt.Printf("Alerts: %d (critical=%d, high=%d, medium=%d, low=%d)\n",
		alertSet.Summary.Total, alertSet.Summary.Critical,
		alertSet.Summary.High, alertSet.Summary.Medium, alertSet.Summary.Low)

	summary := domain.SummarizeCorrelations(correlations)
	fmt.Printf("Correlations: %d (confirmed=%d, potential=%d, contradictory=%d, actionRequired=%d)\n",
		summary.Total, summary.Confirmed, summary.Potential,
		summary.Contradictory, summary.ActionRequired)

	fmt.Printf("Map points: %d (sensors=%d, communications=%d, incidents=%d, critical=%d)\n",
		view.Statistics.TotalPoints, view.Statistics.Sensors,
		view.Statistics.Communications, view.Statistics.Incidents,
		view.Statistics.CriticalPoints)
	fmt.Printf("Bounds: N=%g S=%g E=%g W=%g, center=(%g, %g)\n",
		view.Bounds.North, view.Bounds.South, view.Bounds.East, view.Bounds.West,
		view.Center.Lat, view.Center.Lon)
}
