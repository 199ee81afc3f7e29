// Package kafka relays outbox messages to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes messages to one topic with all-replica acknowledgement.
type Publisher struct {
	writer messageWriter
	topic  string
	log    *slog.Logger
}

// NewPublisher creates a Publisher for topic on brokers.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka publisher requires a topic")
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		topic: topic,
		log:   logger.With("adapter", "kafka"),
	}, nil
}

// Publish writes msgs in one call. Messages sharing a key land on the same
// partition, so per-case order is kept.
func (p *Publisher) Publish(ctx context.Context, msgs []domain.OutboxMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	out := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		ts := m.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		headers := []kafka.Header{{Key: "message_id", Value: []byte(strconv.FormatInt(m.ID, 10))}}
		if m.MessageType != "" {
			headers = append(headers, kafka.Header{Key: "message_type", Value: []byte(m.MessageType)})
		}
		out = append(out, kafka.Message{
			Key:     []byte(m.Key),
			Value:   m.Payload,
			Time:    ts,
			Headers: headers,
		})
	}

	if err := p.writer.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("kafka: write %d messages to %s: %w", len(out), p.topic, err)
	}

	p.log.DebugContext(ctx, "messages published",
		slog.String("topic", p.topic),
		slog.Int("count", len(out)),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
