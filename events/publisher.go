// Package events publishes order lifecycle events to Kafka for downstream
// fulfilment and analytics consumers. Publishing is fire-and-forget: a broker
// outage must never fail a checkout.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// OrderEvent is the wire shape written to the order topic.
type OrderEvent struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Publisher wraps a Kafka writer. A nil Publisher or nil writer publishes
// nothing, so wiring stays unconditional at call sites.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(w *kafka.Writer) *Publisher {
	return &Publisher{writer: w}
}

// PublishOrderEvent writes one event keyed by order id.
func (p *Publisher) PublishOrderEvent(ctx context.Context, ev OrderEvent) {
	if p == nil || p.writer == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("orderId", ev.OrderID).Msg("marshal order event")
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: payload,
	})
	if err != nil {
		log.Error().Err(err).Str("orderId", ev.OrderID).Str("status", ev.Status).Msg("publish order event")
	}
}
