// Package kafka publishes computed feature rows to a sink topic for the
// dashboard collector. Publishing is optional and feature-flagged; the
// parquet outputs remain the source of truth either way.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/agroclim/yield-etl/internal/config"
	"github.com/agroclim/yield-etl/internal/domain"
)

// Publisher produces feature-row messages to a Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured features topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaFeaturesTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishFeatures serializes and publishes the feature rows in a single
// WriteMessages call. Keys are the row primary key, so a compacted topic
// retains exactly the latest run per (department, year, scenario).
func (p *Publisher) PublishFeatures(ctx context.Context, rows []domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}
	computedAt := domain.Now().UTC()
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(rows[i], computedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish feature rows: %w", err)
	}
	p.logger.Info("feature rows published", "topic", p.writer.Topic, "rows", len(rows))
	return nil
}

// Close flushes and closes the underlying producer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// featureMessage is the JSON wire shape of one published feature row.
type featureMessage struct {
	domain.FeatureRow
	ComputedAt time.Time `json:"computed_at"`
}

// serializeToMessage marshals a feature row into a Kafka message.
func serializeToMessage(row domain.FeatureRow, computedAt time.Time) (kafkago.Message, error) {
	value, err := json.Marshal(featureMessage{FeatureRow: row, ComputedAt: computedAt})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feature row: %w", err)
	}
	key := fmt.Sprintf("%s|%d|%s", row.Department, row.Year, row.Scenario)
	return kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "scenario", Value: []byte(row.Scenario)},
			{Key: "computed_at", Value: []byte(computedAt.Format(time.RFC3339))},
		},
	}, nil
}
