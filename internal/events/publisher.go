package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tarha-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Publisher emits order lifecycle events for downstream consumers
// (fulfilment, notifications). Publishing is best effort: checkout never
// fails because an event could not be written.
type Publisher interface {
	OrderCreated(ctx context.Context, order *model.Order) error
	Close() error
}

// OrderCreatedEvent is the wire form of an order-created event.
type OrderCreatedEvent struct {
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	Total         float64   `json:"total"`
	ItemCount     int       `json:"itemCount"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// messageWriter is the slice of kafka.Writer the publisher needs; tests
// substitute an in-memory implementation.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher implements Publisher on a Kafka topic.
type kafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to the given brokers/topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	logger = logger.With().Str("component", "order-events").Logger()
	logger.Info().Strs("brokers", brokers).Str("topic", topic).Msg("kafka order event publisher initialised")

	return &kafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

// newKafkaPublisherWithWriter is used by tests.
func newKafkaPublisherWithWriter(writer messageWriter, logger zerolog.Logger) Publisher {
	return &kafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "order-events").Logger(),
	}
}

// OrderCreated publishes an order-created event keyed by user so one user's
// orders stay ordered within a partition.
func (p *kafkaPublisher) OrderCreated(ctx context.Context, order *model.Order) error {
	event := OrderCreatedEvent{
		OrderID:       order.ID.String(),
		UserID:        order.UserID,
		Total:         order.Total,
		ItemCount:     len(order.Items),
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.UserID),
		Value: payload,
	})
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("order_id", event.OrderID).
			Msg("failed to publish order created event")
		return fmt.Errorf("failed to publish order created event: %w", err)
	}

	p.logger.Debug().Str("order_id", event.OrderID).Msg("order created event published")

	return nil
}

// Close flushes and closes the underlying writer.
func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// nopPublisher drops events; used when Kafka is disabled.
type nopPublisher struct{}

// NewNopPublisher creates a publisher that discards all events.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) OrderCreated(context.Context, *model.Order) error { return nil }
func (nopPublisher) Close() error                                     { return nil }
