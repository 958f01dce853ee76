package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
	"github.com/couchcryptid/situation-synthesis-service/internal/observability"
)

// envelope is the uniform JSON response shape for all situation endpoints.
type envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Summary   any       `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler serves the situation endpoints. Each request pulls a fresh
// snapshot from the sources so every response reflects current data.
type Handler struct {
	sensors    domain.SensorSource
	comms      domain.CommunicationSource
	geocoder   domain.Geocoder // nil disables enrichment
	thresholds domain.Thresholds
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

// NewHandler creates a Handler over the given sources.
func NewHandler(
	sensors domain.SensorSource,
	comms domain.CommunicationSource,
	geocoder domain.Geocoder,
	thresholds domain.Thresholds,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Handler {
	return &Handler{
		sensors:    sensors,
		comms:      comms,
		geocoder:   geocoder,
		thresholds: thresholds,
		logger:     logger,
		metrics:    metrics,
		clock:      clockwork.NewRealClock(),
	}
}

func (h *Handler) handleSensors(w http.ResponseWriter, r *http.Request) {
	defer h.observe("sensors")()

	readings, err := h.sensors.SensorReadings(r.Context())
	if err != nil {
		h.logger.Error("sensor snapshot failed", "error", err)
		h.writeError(w, "sensors", "Failed to fetch sensor data")
		return
	}

	h.writeSuccess(w, "sensors", readings, nil)
}

func (h *Handler) handleCommunications(w http.ResponseWriter, r *http.Request) {
	defer h.observe("communications")()

	records, err := h.comms.CommunicationRecords(r.Context())
	if err != nil {
		h.logger.Error("communication snapshot failed", "error", err)
		h.writeError(w, "communications", "Failed to analyze communications")
		return
	}

	if h.geocoder != nil {
		for i := range records {
			records[i] = domain.EnrichWithGeocoding(r.Context(), records[i], h.geocoder, h.logger)
		}
	}

	h.writeSuccess(w, "communications", domain.AnalyzeCommunications(records), nil)
}

// handleAlerts never fails outright: when a source is unreachable the
// response degrades to the fallback alert set with success still true,
// so downstream dashboards keep rendering.
func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	defer h.observe("alerts")()

	sensors, comms, err := h.snapshot(r)
	if err != nil {
		h.logger.Warn("alert synthesis degraded to fallback", "error", err)
		fallback := domain.FallbackAlertSet()
		h.writeFallback(w, "alerts", fallback.Alerts, fallback.Summary)
		return
	}

	set := domain.SynthesizeAlerts(sensors, comms, h.thresholds)
	h.writeSuccess(w, "alerts", set.Alerts, set.Summary)
}

// handleCorrelations follows the same degradation policy as handleAlerts.
func (h *Handler) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	defer h.observe("correlations")()

	sensors, comms, err := h.snapshot(r)
	if err != nil {
		h.logger.Warn("correlation analysis degraded to fallback", "error", err)
		results := domain.Correlate(nil, nil, h.thresholds)
		h.writeFallback(w, "correlations", results, domain.SummarizeCorrelations(results))
		return
	}

	results := domain.Correlate(sensors, comms, h.thresholds)
	h.writeSuccess(w, "correlations", results, domain.SummarizeCorrelations(results))
}

func (h *Handler) handleMap(w http.ResponseWriter, r *http.Request) {
	defer h.observe("map")()

	sensors, comms, err := h.snapshot(r)
	if err != nil {
		h.logger.Error("map snapshot failed", "error", err)
		h.writeError(w, "map", "Failed to fetch map data")
		return
	}

	set := domain.SynthesizeAlerts(sensors, comms, h.thresholds)
	view := domain.BuildMapView(sensors, comms, set.Alerts)
	h.writeSuccess(w, "map", view, nil)
}

// snapshot fetches both sources for the endpoints that need a joined view.
func (h *Handler) snapshot(r *http.Request) ([]domain.SensorReading, []domain.CommunicationRecord, error) {
	sensors, err := h.sensors.SensorReadings(r.Context())
	if err != nil {
		return nil, nil, err
	}
	comms, err := h.comms.CommunicationRecords(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return sensors, comms, nil
}

func (h *Handler) observe(endpoint string) func() {
	start := time.Now()
	return func() {
		h.metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func (h *Handler) writeSuccess(w http.ResponseWriter, endpoint string, data, summary any) {
	h.metrics.RequestOutcomes.WithLabelValues(endpoint, "success").Inc()
	h.writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      data,
		Summary:   summary,
		Timestamp: h.clock.Now().UTC(),
	})
}

func (h *Handler) writeFallback(w http.ResponseWriter, endpoint string, data, summary any) {
	h.metrics.RequestOutcomes.WithLabelValues(endpoint, "fallback").Inc()
	h.writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      data,
		Summary:   summary,
		Timestamp: h.clock.Now().UTC(),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, endpoint, message string) {
	h.metrics.RequestOutcomes.WithLabelValues(endpoint, "error").Inc()
	h.writeJSON(w, http.StatusInternalServerError, envelope{
		Success:   false,
		Error:     message,
		Timestamp: h.clock.Now().UTC(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response failed", "error", err)
	}
}
