package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

const (
	webhookSinkName = "webhook"
	kafkaSinkName   = "kafka"
)

// WebhookSender отправка JSON на адрес вебхука
type WebhookSender interface {
	Send(ctx context.Context, targetURL string, eventType string, payload interface{}) error
}

// WebhookSink доставляет событие на вебхук владельца агенды
type WebhookSink struct {
	sender WebhookSender
}

// NewWebhookSink создает приемник-вебхук
func NewWebhookSink(sender WebhookSender) *WebhookSink {
	return &WebhookSink{sender: sender}
}

func (s *WebhookSink) Name() string { return webhookSinkName }

// Deliver пропускает событие, если вебхук не настроен
func (s *WebhookSink) Deliver(ctx context.Context, delivery *Delivery) error {
	if delivery.WebhookURL == nil || *delivery.WebhookURL == "" {
		return ErrSkipped
	}
	return s.sender.Send(ctx, *delivery.WebhookURL, string(delivery.Event.Type), delivery.Payload)
}

// MessageWriter подмножество kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink публикует событие в топик; ключ - id бронирования
type KafkaSink struct {
	writer MessageWriter
}

// NewKafkaSink создает приемник поверх writer
func NewKafkaSink(writer MessageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

// NewKafkaWriter writer с hash-балансировкой по ключу: события одного бронирования попадают в одну партицию
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (s *KafkaSink) Name() string { return kafkaSinkName }

func (s *KafkaSink) Deliver(ctx context.Context, delivery *Delivery) error {
	value, err := json.Marshal(delivery.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(delivery.Event.BookingID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(delivery.Event.ID.String())},
			{Key: "event_type", Value: []byte(delivery.Event.Type)},
		},
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}
	return nil
}
