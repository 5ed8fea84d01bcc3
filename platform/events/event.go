// Package events provides event bus infrastructure. Event definitions
// belong to the modules; this package only carries them.
package events

import (
	"context"
	"time"
)

// Event is implemented by every published event. EventName doubles as the
// subscription key.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the publish timestamp so events only add their own
// payload fields.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps the event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler receives published events. One handler serves one event name;
// the bus never fans a handler across names.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes events to subscribed handlers.
type Bus interface {
	// Publish delivers to every handler subscribed to the event's name.
	// Delivery is asynchronous; the publisher never sees handler errors.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers in subscription order and waits, returning the
	// first handler error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name, matched against
	// Event.EventName at publish time.
	Subscribe(eventName string, handler Handler)
}
