// Package realtime fans out change notifications to in-process
// subscribers, optionally bridged through Kafka between instances.
package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Topics carry change events for one table.
const (
	TopicOrders   = "orders"
	TopicTickets  = "support_tickets"
	TopicProducts = "products"
)

// Event types.
const (
	OrderCreated   = "order.created"
	OrderUpdated   = "order.updated"
	TicketCreated  = "ticket.created"
	TicketUpdated  = "ticket.updated"
	ProductChanged = "product.changed"
)

// Event notifies that a row changed. Subscribers re-fetch; the event
// carries no row data.
type Event struct {
	Type         string    `json:"type"`
	Topic        string    `json:"topic"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	EntityID     uuid.UUID `json:"entityId"`
	At           time.Time `json:"at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(topic, eventType string, restaurantID, entityID uuid.UUID) Event {
	return Event{
		Type:         eventType,
		Topic:        topic,
		RestaurantID: restaurantID,
		EntityID:     entityID,
		At:           time.Now().UTC(),
	}
}

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
