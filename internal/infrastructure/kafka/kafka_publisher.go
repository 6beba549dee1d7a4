package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const publishTimeout = 30 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ domain.PublisherPort = (*DefaultKafkaPublisher)(nil)

type DefaultKafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

func NewDefaultKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *DefaultKafkaPublisher {
	return newPublisher(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}, topic, logger)
}

func newPublisher(writer messageWriter, topic string, logger *slog.Logger) *DefaultKafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultKafkaPublisher{writer: writer, topic: topic, logger: logger}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return k.writer.WriteMessages(ctx, km...)
}

// PublishFtdAssigned публикует события батчем, ключ сообщения - получатель FTD
func (k *DefaultKafkaPublisher) PublishFtdAssigned(events ...FtdAssignedEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]domain.Message, 0, len(events))
	for _, event := range events {
		v, err := json.Marshal(event)
		if err != nil {
			k.logger.Error("failed to marshal ftd event", "ftd_user_id", event.FtdUserID, "error", err)
			continue
		}
		msgs = append(msgs, domain.Message{Key: []byte(event.AssignedUserID), Value: v})
	}
	if len(msgs) == 0 {
		return fmt.Errorf("no valid messages to publish")
	}

	if err := k.Publish(k.topic, msgs...); err != nil {
		return fmt.Errorf("failed to write batch messages: %w", err)
	}
	k.logger.Debug("published ftd events", "topic", k.topic, "count", len(msgs))
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
