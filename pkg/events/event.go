package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ORDER_CONFIRMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain-struct implementation used across the engine.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event types emitted by the conversation engine.
const (
	TypeOrderConfirmed  = "ORDER_CONFIRMED"
	TypeSessionClosed   = "SESSION_CLOSED"
	TypeCatalogIngested = "CATALOG_INGESTED"
)

// NewOrderConfirmed builds the event published after an order commits.
func NewOrderConfirmed(orderNumber, sessionId string, total float64) Event {
	return BaseEvent{
		Type: TypeOrderConfirmed,
		Data: map[string]interface{}{
			"order_number": orderNumber,
			"session_id":   sessionId,
			"total":        total,
		},
		OccurredAt: time.Now(),
	}
}
