// Package kafka publishes high-severity alerts to a Kafka topic for
// downstream notification systems.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/situation-synthesis-service/internal/config"
	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
	"github.com/couchcryptid/situation-synthesis-service/internal/observability"
)

// Publisher produces alert messages to the configured alert topic.
// It implements pipeline.AlertPublisher.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured alert topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// PublishAlerts serializes and publishes alerts of high or critical
// severity in a single WriteMessages call. Lower severities are skipped.
func (p *Publisher) PublishAlerts(ctx context.Context, cycleID string, alerts []domain.Alert) error {
	msgs := make([]kafkago.Message, 0, len(alerts))
	for _, alert := range alerts {
		if alert.Severity.Rank() < domain.SeverityHigh.Rank() {
			continue
		}
		msg, err := serializeToMessage(cycleID, alert)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish alerts: %w", err)
	}
	p.metrics.AlertsPublished.Add(float64(len(msgs)))
	p.logger.Debug("published alerts", "count", len(msgs), "cycle_id", cycleID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Alert into a Kafka message keyed by alert ID.
func serializeToMessage(cycleID string, alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_type", Value: []byte(alert.Type)},
			{Key: "severity", Value: []byte(alert.Severity)},
			{Key: "cycle_id", Value: []byte(cycleID)},
			{Key: "synthesized_at", Value: []byte(alert.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
