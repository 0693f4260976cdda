package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/config"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the channel uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
}

var eventTypes = map[application.NotificationKind]string{
	application.NotificationAdminNewOrder:  "order.created",
	application.NotificationOrderDelivered: "order.delivered",
	application.NotificationAdminCancelled: "order.cancelled",
}

// OrderEvent is the JSON payload published for back-office consumers.
type OrderEvent struct {
	Type               string    `json:"type"`
	OrderID            string    `json:"order_id"`
	UserID             int64     `json:"user_id"`
	Status             string    `json:"status"`
	TotalAmount        string    `json:"total_amount"`
	ExternalPaymentRef string    `json:"external_payment_ref,omitempty"`
	Reason             string    `json:"reason,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// KafkaChannel publishes order lifecycle events keyed by order id.
type KafkaChannel struct {
	writer MessageWriter
}

func NewKafkaChannel(writer MessageWriter) *KafkaChannel {
	return &KafkaChannel{writer: writer}
}

func (c *KafkaChannel) Name() string {
	return "kafka"
}

func (c *KafkaChannel) Deliver(ctx context.Context, n application.Notification) error {
	eventType, ok := eventTypes[n.Kind]
	if !ok || n.Order == nil {
		return nil
	}

	event := OrderEvent{
		Type:               eventType,
		OrderID:            n.Order.ID,
		UserID:             n.Order.UserID,
		Status:             string(n.Order.Status),
		TotalAmount:        n.Order.TotalAmount.StringFixed(2),
		ExternalPaymentRef: n.Order.PaymentRef(),
		OccurredAt:         n.OccurredAt,
	}
	if n.Order.CancellationReason != nil {
		event.Reason = *n.Order.CancellationReason
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return c.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.Order.ID),
		Value: data,
		Time:  n.OccurredAt,
	})
}

func (c *KafkaChannel) Close() error {
	return c.writer.Close()
}
