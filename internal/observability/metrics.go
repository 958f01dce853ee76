package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// synthesis pipeline and its adapters.
type Metrics struct {
	SynthesisCycles   prometheus.Counter
	SynthesisErrors   prometheus.Counter
	AlertsPublished   prometheus.Counter
	PublishErrors     prometheus.Counter
	PipelineRunning   prometheus.Gauge
	ActiveAlerts      *prometheus.GaugeVec // labels: severity
	SynthesisDuration prometheus.Histogram

	// HTTP API metrics.
	RequestDuration *prometheus.HistogramVec // labels: endpoint
	RequestOutcomes *prometheus.CounterVec   // labels: endpoint, outcome={success,fallback,error}

	// Geocoding metrics.
	GeocodeRequests prometheus.Counter
	GeocodeErrors   prometheus.Counter
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SynthesisCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "situation_synthesis",
			Name:      "cycles_total",
			Help:      "Total completed synthesis cycles.",
		}),
		SynthesisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "situation_synthesis",
			Name:      "cycle_errors_total",
			Help:      "Total synthesis cycles that failed to fetch source data.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "situation_synthesis",
			Name:      "alerts_published_total",
			Help:      "Total alerts written to the alert topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "situation_synthesis",
			Name:      "publish_errors_total",
			Help:      "Total alert publish failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "situation_synthesis",
			Name:      "pipeline_running",
			Help:      "1 when the synthesis loop is active, 0 when shut down.",
		}),
		ActiveAlerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "situation_synthesis",
			Name:      "active_alerts",
			Help:      "Alerts in the most recent synthesis cycle by severity.",
		}, []string{"severity"}),
		SynthesisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "situation_synthesis",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-synthesize-publish cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "situation_synthesis",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP handler duration by endpoint.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"endpoint"}),
		RequestOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "situation_synthesis",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		GeocodeRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "situation_synthesis",
			Name:      "geocode_requests_total",
			Help:      "Total forward-geocoding API requests.",
		}),
		GeocodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "situation_synthesis",
			Name:      "geocode_errors_total",
			Help:      "Total forward-geocoding failures.",
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "situation_synthesis",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "situation_synthesis",
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.SynthesisCycles,
		m.SynthesisErrors,
		m.AlertsPublished,
		m.PublishErrors,
		m.PipelineRunning,
		m.ActiveAlerts,
		m.SynthesisDuration,
		m.RequestDuration,
		m.RequestOutcomes,
		m.GeocodeRequests,
		m.GeocodeErrors,
		m.GeocodeCache,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SynthesisCycles:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "situation_synthesis", Name: "cycles_total"}),
		SynthesisErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "situation_synthesis", Name: "cycle_errors_total"}),
		AlertsPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "situation_synthesis", Name: "alerts_published_total"}),
		PublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "situation_synthesis", Name: "publish_errors_total"}),
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "situation_synthesis", Name: "pipeline_running"}),
		ActiveAlerts:      prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "situation_synthesis", Name: "active_alerts"}, []string{"severity"}),
		SynthesisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "situation_synthesis", Name: "cycle_duration_seconds"}),
		RequestDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "situation_synthesis", Name: "http_request_duration_seconds"}, []string{"endpoint"}),
		RequestOutcomes:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "situation_synthesis", Name: "http_requests_total"}, []string{"endpoint", "outcome"}),
		GeocodeRequests:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "situation_synthesis", Name: "geocode_requests_total"}),
		GeocodeErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "situation_synthesis", Name: "geocode_errors_total"}),
		GeocodeCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "situation_synthesis", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "situation_synthesis", Name: "geocode_enabled"}),
	}
}
