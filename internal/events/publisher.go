// Package events publishes order lifecycle events for downstream consumers
// (fulfilment, notifications). Publishing is fire-and-forget: a lost event
// never fails the order.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// OrderAccepted is emitted after the accept endpoint materializes an order.
type OrderAccepted struct {
	OrderID    string    `json:"orderId"`
	OfferID    string    `json:"offerId"`
	TotalUnits int       `json:"totalUnits"`
	TotalValue float64   `json:"totalValue"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// Publisher emits order lifecycle events.
type Publisher interface {
	PublishOrderAccepted(ctx context.Context, event OrderAccepted)
	Close() error
}

// NopPublisher drops all events. Used when eventing is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderAccepted(ctx context.Context, event OrderAccepted) {}
func (NopPublisher) Close() error                                                  { return nil }

// kafkaPublisher writes events to a Kafka topic keyed by offer id.
type kafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher over the given brokers and topic.
// Writes are asynchronous; delivery failures are logged by the writer's
// completion callback.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) Publisher {
	logger = logger.With().Str("component", "event-publisher").Logger()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error().Err(err).Int("count", len(messages)).Msg("failed to deliver events")
			}
		},
	}
	return &kafkaPublisher{writer: writer, logger: logger}
}

// PublishOrderAccepted enqueues the event. Encoding failures are logged and
// dropped.
func (p *kafkaPublisher) PublishOrderAccepted(ctx context.Context, event OrderAccepted) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("order_id", event.OrderID).Msg("failed to encode event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.OfferID),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("order_id", event.OrderID).Msg("failed to enqueue event")
	}
}

// Close flushes pending messages and releases the writer.
func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
