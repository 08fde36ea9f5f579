package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"NewsCollector/internal/ports"
	"NewsCollector/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes one message per classified item, keyed by item id.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

var _ ports.ResultSink = (*KafkaSink)(nil)

// NewKafkaSink builds a synchronous writer over the given brokers.
func NewKafkaSink(brokers []string, topic string, log *slog.Logger) *KafkaSink {
	if log == nil {
		log = slog.Default()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       logger.New(log, "kafka", slog.LevelDebug),
		ErrorLogger:  logger.New(log, "kafka", slog.LevelError),
	}
	return &KafkaSink{writer: writer, topic: topic}
}

func newKafkaSinkWithWriter(w messageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: w, topic: topic}
}

// Write sends the whole digest in one WriteMessages call.
func (s *KafkaSink) Write(ctx context.Context, digest ports.Digest) error {
	if len(digest.Items) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(digest.Items))
	for _, item := range digest.Items {
		value, err := json.Marshal(NewRecord(item))
		if err != nil {
			return fmt.Errorf("marshal item %s: %w", item.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(item.ID),
			Value: value,
			Time:  digest.GeneratedAt,
		})
	}

	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write to kafka topic %s: %w", s.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
