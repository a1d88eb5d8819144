package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-dashboard/internal/config"
	"github.com/couchcryptid/covid-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces region totals to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message per region in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, totals []domain.RegionTotal) error {
	if len(totals) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(totals))
	for i := range totals {
		msg, err := serializeToMessage(totals[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write region totals: %w", err)
	}
	w.logger.Debug("region totals written", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RegionTotal into a Kafka message keyed by
// region tag.
func serializeToMessage(total domain.RegionTotal) (kafkago.Message, error) {
	data, err := json.Marshal(total)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize region total: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(total.Region),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(total.Region)},
			{Key: "published_at", Value: []byte(total.PublishedAt.Format(time.RFC3339))},
		},
	}, nil
}
