package kafka

import (
	"context"
	"encoding/json"
	"time"

	"chat-service/internal/domain"

	k "github.com/segmentio/kafka-go"
)

// Writer publishes message-created events for the notification and analytics
// consumers. It implements domain.MessagePublisher.
type Writer struct {
	w *k.Writer
}

func NewWriter(bootstrap, topic string) *Writer {
	return &Writer{w: &k.Writer{
		Addr:         k.TCP(bootstrap),
		Topic:        topic,
		Balancer:     &k.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: k.RequireNone,
		Async:        true,
	}}
}

func (w *Writer) Close() error { return w.w.Close() }

// PublishMessageCreated emits one event per stored message, keyed by room so
// consumers see a room's messages in order.
func (w *Writer) PublishMessageCreated(ctx context.Context, msg *domain.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return w.w.WriteMessages(ctx, k.Message{
		Key:   []byte(msg.ChatRoomID),
		Value: payload,
		Time:  msg.CreatedAt,
	})
}
