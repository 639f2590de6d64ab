package broker

import (
	"context"
	"fmt"

	"backoffice/internal/models"
)

// EventPublisher handles publishing domain events. A publisher built
// with a nil producer (no brokers configured) is a no-op.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// Enabled reports whether events actually go anywhere
func (ep *EventPublisher) Enabled() bool {
	return ep != nil && ep.producer != nil
}

// PublishOrderCompleted publishes an OrderCompleted event
func (ep *EventPublisher) PublishOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error {
	if !ep.Enabled() {
		return nil
	}
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}
