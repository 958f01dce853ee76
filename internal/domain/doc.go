// Package domain models situational-awareness signals and the synthesis
// engines that turn them into alerts, correlations, and a unified map view.
//
// # Data Sources
//
// Two signal families feed the engines: environmental sensor telemetry
// (particulate matter, temperature, humidity, gas and smoke levels from a
// fixed roster of monitored locations) and communication reports (social
// media, emergency dispatches, citizen and news reports, weather service
// advisories) that arrive pre-analyzed with sentiment, urgency, extracted
// entities, and topics. Source adapters produce fresh immutable snapshots
// on every call; the engines are pure functions over those snapshots.
//
// # Sensor Status Derivation
//
// A sensor's status is derived, never stored independently. The tightest
// matching threshold wins (critical is checked first):
//
//	critical: pm25 > 50 µg/m³ ∨ temperature > 40°C ∨ gas > 85 ∨ smoke > 80
//	warning:  pm25 > 35 µg/m³ ∨ temperature > 35°C ∨ gas > 70
//	normal:   otherwise
//
// Thresholds are carried in a [Thresholds] value so deployments can tighten
// the critical air-quality alert level (default 85 µg/m³) without touching
// engine code.
//
// # Communication Confidence
//
// Adapter-produced communication records carry an analysis confidence in
// [0.7, 1.0]. The 0.7 floor is a calibration cutoff: records the upstream
// NLP stage scores below it are not surfaced at all.
//
// # Correlation Scoring
//
// Each location-matched (sensor, communication) pair is scored from three
// observable inputs: location match weight w (1.0 exact name match, 0.8
// coordinate proximity within 0.05°), phenomenon overlap o (fraction of
// the report's claimed phenomena that the sensor corroborates), and the
// sensor's derived status:
//
//	confirmed (critical sensor, overlap > 0):  min(1, 0.55 + 0.30·o + 0.15·w)
//	potential (warning sensor, overlap > 0):   0.50 + 0.20·o + 0.10·w
//	contradictory (one side anomalous, the other normal):
//	                                           0.50 + 0.20·w (+0.05 at critical urgency)
//	confirmed low-risk (both sides normal):    0.70 + 0.10·w
//
// actionRequired is true exactly when the pair is confirmed with
// confidence ≥ 0.85. The low-risk agreement branch tops out at 0.80 by
// construction, so routine "all quiet" pairings never demand action.
//
// # Map Bounds
//
// Bounds are the extremal point coordinates padded by 0.01° on every side,
// so north ≥ south and east ≥ west always hold. A view built from zero
// points returns zero-valued bounds and center — the documented "no data"
// sentinel — instead of folding max over an empty sequence.
//
// # ID Generation
//
// Derived record IDs are deterministic SHA-256 hashes of each record's key
// fields, prefixed by kind (e.g. "alert-", "corr-"). Reprocessing the same
// inputs produces the same IDs, which keeps downstream dedup and test
// fixtures stable. See [shortID].
package domain
