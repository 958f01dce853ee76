//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/situation-synthesis-service/internal/adapter/kafka"
	"github.com/couchcryptid/situation-synthesis-service/internal/config"
	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
	"github.com/couchcryptid/situation-synthesis-service/internal/observability"
	"github.com/couchcryptid/situation-synthesis-service/internal/pipeline"
)

const testAlertTopic = "test-situation-alerts"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial kafka")
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

type fixedSource struct {
	sensors []domain.SensorReading
	comms   []domain.CommunicationRecord
}

func (f *fixedSource) SensorReadings(context.Context) ([]domain.SensorReading, error) {
	return f.sensors, nil
}

func (f *fixedSource) CommunicationRecords(context.Context) ([]domain.CommunicationRecord, error) {
	return f.comms, nil
}

// TestAlertPublishRoundTrip runs the synthesis pipeline against a real
// broker and verifies that a critical alert arrives on the alert topic
// with its headers intact.
func TestAlertPublishRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	cfg := &config.Config{
		KafkaBrokers:         []string{broker},
		KafkaAlertTopic:      testAlertTopic,
		AlertPublishInterval: time.Second,
	}

	critical := domain.SensorReading{
		ID:          "sensor-001",
		Location:    "Downtown District",
		Coordinates: domain.Geo{Lat: 40.7128, Lon: -74.006},
		Timestamp:   time.Now().UTC(),
		PM25:        95,
	}
	critical.Status = domain.DefaultThresholds().Classify(critical)

	source := &fixedSource{sensors: []domain.SensorReading{critical}}
	metrics := observability.NewMetricsForTesting()
	publisher := kafkaadapter.NewPublisher(cfg, discardLogger(), metrics)
	t.Cleanup(func() { _ = publisher.Close() })

	p := pipeline.New(source, source, publisher, domain.DefaultThresholds(),
		cfg.AlertPublishInterval, discardLogger(), metrics)

	runCtx, stopPipeline := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- p.Run(runCtx) }()
	t.Cleanup(func() {
		stopPipeline()
		<-done
	})

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		Topic:   testAlertTopic,
		GroupID: fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, cancelRead := context.WithTimeout(ctx, 60*time.Second)
	defer cancelRead()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	var alert domain.Alert
	require.NoError(t, json.Unmarshal(msg.Value, &alert))

	assert.Equal(t, domain.SeverityCritical, alert.Severity)
	assert.Equal(t, domain.AlertEnvironmental, alert.Type)
	assert.Equal(t, "Downtown District", alert.Location)
	assert.Equal(t, []byte(alert.ID), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "critical", headers["severity"])
	assert.Equal(t, "environmental", headers["alert_type"])
	assert.NotEmpty(t, headers["cycle_id"])
}
