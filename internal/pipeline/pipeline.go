// Package pipeline runs the background synthesis loop: on each cycle it
// pulls fresh sensor and communication snapshots, synthesizes alerts,
// and hands high-severity alerts to the configured publisher.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
	"github.com/couchcryptid/situation-synthesis-service/internal/observability"
)

// AlertPublisher delivers synthesized alerts to an external sink.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, cycleID string, alerts []domain.Alert) error
}

// Pipeline orchestrates the periodic fetch-synthesize-publish loop.
type Pipeline struct {
	sensors    domain.SensorSource
	comms      domain.CommunicationSource
	publisher  AlertPublisher // nil disables publishing
	thresholds domain.Thresholds
	interval   time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool

	mu   sync.RWMutex
	last domain.AlertSet
}

// New creates a Pipeline over the given sources.
func New(
	sensors domain.SensorSource,
	comms domain.CommunicationSource,
	publisher AlertPublisher,
	thresholds domain.Thresholds,
	interval time.Duration,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Pipeline {
	return &Pipeline{
		sensors:    sensors,
		comms:      comms,
		publisher:  publisher,
		thresholds: thresholds,
		interval:   interval,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// synthesis cycle.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a synthesis cycle yet")
	}
	return nil
}

// LatestAlerts returns the alert set from the most recent completed cycle.
func (p *Pipeline) LatestAlerts() domain.AlertSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Run executes the synthesis loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("synthesis pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("synthesis pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if err := p.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("synthesis cycle failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = 200 * time.Millisecond

		if !sleepWithContext(ctx, p.interval) {
			return nil
		}
	}
}

// runCycle performs one fetch-synthesize-publish cycle.
func (p *Pipeline) runCycle(ctx context.Context) error {
	start := time.Now()
	cycleID := uuid.NewString()

	sensors, err := p.sensors.SensorReadings(ctx)
	if err != nil {
		p.metrics.SynthesisErrors.Inc()
		return err
	}
	comms, err := p.comms.CommunicationRecords(ctx)
	if err != nil {
		p.metrics.SynthesisErrors.Inc()
		return err
	}

	set := domain.SynthesizeAlerts(sensors, comms, p.thresholds)

	p.mu.Lock()
	p.last = set
	p.mu.Unlock()

	p.recordAlertGauges(set.Alerts)

	if p.publisher != nil {
		if err := p.publisher.PublishAlerts(ctx, cycleID, set.Alerts); err != nil {
			// Publishing is best-effort: the synthesized set is still
			// current, so log and keep cycling on the normal interval.
			p.logger.Error("alert publish failed", "error", err, "cycle_id", cycleID)
		}
	}

	p.metrics.SynthesisCycles.Inc()
	p.metrics.SynthesisDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Debug("synthesis cycle complete",
		"cycle_id", cycleID,
		"sensors", len(sensors),
		"communications", len(comms),
		"alerts", len(set.Alerts),
	)
	return nil
}

// recordAlertGauges resets and republishes the per-severity alert gauge
// so stale severities from earlier cycles drop back to zero.
func (p *Pipeline) recordAlertGauges(alerts []domain.Alert) {
	p.metrics.ActiveAlerts.Reset()
	counts := make(map[domain.Severity]int)
	for _, a := range alerts {
		counts[a.Severity]++
	}
	for severity, n := range counts {
		p.metrics.ActiveAlerts.WithLabelValues(string(severity)).Set(float64(n))
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
