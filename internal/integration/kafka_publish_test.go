//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/agroclim/yield-etl/internal/adapter/kafka"
	"github.com/agroclim/yield-etl/internal/config"
	"github.com/agroclim/yield-etl/internal/domain"
	"github.com/agroclim/yield-etl/internal/observability"
)

const testFeaturesTopic = "test-climate-features"

// startKafka launches a single-node Kafka via testcontainers and returns the
// broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("yield-etl-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testFeaturesTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaFeaturesTopic: testFeaturesTopic,
		KafkaEnabled:       true,
	}
	logger := observability.NewLogger("debug", "text")

	pub := kafkaadapter.NewPublisher(cfg, logger)
	t.Cleanup(func() { _ = pub.Close() })

	rows := []domain.FeatureRow{
		{
			Department:      "Somme",
			Year:            2005,
			Scenario:        domain.ScenarioHistorical,
			TempMeanGrowing: domain.Float64Ptr(286.4),
			DryPeriodsCount: 2,
			MaxDrySpellDays: 11,
		},
		{
			Department: "Gers",
			Year:       2050,
			Scenario:   domain.ScenarioSSP585,
		},
	}
	require.NoError(t, pub.PublishFeatures(ctx, rows))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		Topic:   testFeaturesTopic,
		GroupID: fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read first feature message")

	assert.Equal(t, "Somme|2005|historical", string(msg.Key))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "Somme", payload["nom_dep"])
	assert.InDelta(t, 286.4, payload["temp_mean_growing"], 1e-9)
	assert.EqualValues(t, 2, payload["dry_periods_count"])
	assert.Contains(t, payload, "computed_at")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "historical", headers["scenario"])
	assert.NotEmpty(t, headers["computed_at"])

	msg, err = consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read second feature message")
	assert.Equal(t, "Gers|2050|ssp5_8_5", string(msg.Key))

	var second map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &second))
	assert.Nil(t, second["temp_mean_growing"], "absent season stays null on the wire")
}
