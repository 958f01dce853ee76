package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Thresholds holds the measurement cutoffs used for status derivation and
// alert synthesis. Values are exclusive lower bounds ("above X").
type Thresholds struct {
	PM25Warning   float64 // µg/m³, warning status
	PM25Critical  float64 // µg/m³, critical status
	PM25Alert     float64 // µg/m³, critical air-quality alert rule
	TempWarning   float64 // °C
	TempCritical  float64 // °C
	GasWarning    float64 // index, warning status and gas alert rule
	GasCritical   float64 // index
	SmokeCritical float64 // index
}

// DefaultThresholds returns the reference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PM25Warning:   35,
		PM25Critical:  50,
		PM25Alert:     85,
		TempWarning:   35,
		TempCritical:  40,
		GasWarning:    70,
		GasCritical:   85,
		SmokeCritical: 80,
	}
}

// Classify derives a sensor's status from its measurements. Critical is
// checked first so the tightest matching threshold always wins.
func (t Thresholds) Classify(r SensorReading) SensorStatus {
	if r.PM25 > t.PM25Critical || r.Temperature > t.TempCritical || r.GasLevel > t.GasCritical || r.SmokeLevel > t.SmokeCritical {
		return StatusCritical
	}
	if r.PM25 > t.PM25Warning || r.Temperature > t.TempWarning || r.GasLevel > t.GasWarning {
		return StatusWarning
	}
	return StatusNormal
}

// shortID produces a deterministic kind-prefixed ID from a record's key
// fields. Reprocessing the same inputs yields the same ID, keeping dedup
// and fixtures stable across runs.
func shortID(kind string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	short := hex.EncodeToString(hash[:8])
	if kind == "" {
		return short
	}
	return kind + "-" + short
}

// phenomenon is a physical condition both signal families can speak about.
type phenomenon string

const (
	phenSmoke phenomenon = "smoke"
	phenGas   phenomenon = "gas"
	phenHeat  phenomenon = "heat"
)

// sensorPhenomena maps each phenomenon the reading exhibits to the level it
// reaches (critical or warning). Normal readings yield an empty map.
func sensorPhenomena(r SensorReading, t Thresholds) map[phenomenon]SensorStatus {
	out := make(map[phenomenon]SensorStatus, 3)

	switch {
	case r.PM25 > t.PM25Critical || r.SmokeLevel > t.SmokeCritical:
		out[phenSmoke] = StatusCritical
	case r.PM25 > t.PM25Warning:
		out[phenSmoke] = StatusWarning
	}
	switch {
	case r.GasLevel > t.GasCritical:
		out[phenGas] = StatusCritical
	case r.GasLevel > t.GasWarning:
		out[phenGas] = StatusWarning
	}
	switch {
	case r.Temperature > t.TempCritical:
		out[phenHeat] = StatusCritical
	case r.Temperature > t.TempWarning:
		out[phenHeat] = StatusWarning
	}

	return out
}

func (p phenomenon) describe() string {
	switch p {
	case phenSmoke:
		return "smoke/particulate levels"
	case phenGas:
		return "gas levels"
	case phenHeat:
		return "temperature"
	default:
		return string(p)
	}
}

// sort phenomena deterministically when composing descriptions.
var phenomenonOrder = []phenomenon{phenSmoke, phenGas, phenHeat}

func describePhenomena(set map[phenomenon]SensorStatus) string {
	var parts []string
	for _, p := range phenomenonOrder {
		if _, ok := set[p]; ok {
			parts = append(parts, p.describe())
		}
	}
	if len(parts) == 0 {
		return "conditions"
	}
	return strings.Join(parts, ", ")
}

// sensorLabel names a sensor for alert/correlation descriptions.
func sensorLabel(r SensorReading) string {
	return fmt.Sprintf("Sensor %s", r.ID)
}
