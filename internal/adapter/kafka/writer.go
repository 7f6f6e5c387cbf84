package kafka

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/scent-plan-service/internal/config"
	"github.com/couchcryptid/scent-plan-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces plan results to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes serialized plan results to the sink topic in a
// single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = mapOutputEventToMessage(events[i])
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// mapOutputEventToMessage converts an OutputEvent into a Kafka message.
// Routing headers come first in a fixed order so consumers and tests
// see a stable layout.
func mapOutputEventToMessage(event domain.OutputEvent) kafkago.Message {
	msg := kafkago.Message{
		Key:   event.Key,
		Value: event.Value,
	}
	for _, key := range []string{"confidence_band", "computed_at"} {
		if v, ok := event.Headers[key]; ok {
			msg.Headers = append(msg.Headers, kafkago.Header{Key: key, Value: []byte(v)})
		}
	}
	for key, v := range event.Headers {
		if key == "confidence_band" || key == "computed_at" {
			continue
		}
		msg.Headers = append(msg.Headers, kafkago.Header{Key: key, Value: []byte(v)})
	}
	return msg
}
