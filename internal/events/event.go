// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"orderdesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Orders Domain Events
// =============================================================================

// OrderCreated is published when a new order enters the queue.
type OrderCreated struct {
	BaseEvent
	OrderID      uuid.UUID `json:"orderId"`
	DispatcherID uuid.UUID `json:"dispatcherId"`
	Urgency      string    `json:"urgency"`
	ServiceType  string    `json:"serviceType"`
	Area         string    `json:"area"`
	FullAddress  string    `json:"fullAddress"`
	ClientPhone  string    `json:"clientPhone"`
}

func (e OrderCreated) EventName() string { return "orders.order.created" }

// OrderAssigned is published when a master takes (or is given) an order.
type OrderAssigned struct {
	BaseEvent
	OrderID  uuid.UUID `json:"orderId"`
	MasterID uuid.UUID `json:"masterId"`
	ActorID  uuid.UUID `json:"actorId"`
}

func (e OrderAssigned) EventName() string { return "orders.order.assigned" }

// OrderUnassigned is published when a master is removed from an order and
// the order returns to the unclaimed queue.
type OrderUnassigned struct {
	BaseEvent
	OrderID  uuid.UUID `json:"orderId"`
	MasterID uuid.UUID `json:"masterId"`
	Reason   string    `json:"reason,omitempty"`
}

func (e OrderUnassigned) EventName() string { return "orders.order.unassigned" }

// OrderTransferred is published when accountability moves to another
// dispatcher.
type OrderTransferred struct {
	BaseEvent
	OrderID          uuid.UUID `json:"orderId"`
	FromDispatcherID uuid.UUID `json:"fromDispatcherId"`
	ToDispatcherID   uuid.UUID `json:"toDispatcherId"`
}

func (e OrderTransferred) EventName() string { return "orders.order.transferred" }

// OrderStatusChanged is published on every lifecycle transition.
type OrderStatusChanged struct {
	BaseEvent
	OrderID    uuid.UUID `json:"orderId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Reason     string    `json:"reason,omitempty"`
}

func (e OrderStatusChanged) EventName() string { return "orders.order.status_changed" }

// PaymentConfirmed is published when a completed order is settled.
type PaymentConfirmed struct {
	BaseEvent
	OrderID    uuid.UUID `json:"orderId"`
	Method     string    `json:"method"`
	FinalPrice *int64    `json:"finalPrice,omitempty"`
}

func (e PaymentConfirmed) EventName() string { return "orders.payment.confirmed" }

// OrdersExpired is published by the scheduler sweep after stale unclaimed
// orders were expired.
type OrdersExpired struct {
	BaseEvent
	OrderIDs []uuid.UUID `json:"orderIds"`
}

func (e OrdersExpired) EventName() string { return "orders.order.expired" }

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserLoggedIn is published on a successful login.
type UserLoggedIn struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
}

func (e UserLoggedIn) EventName() string { return "auth.user.logged_in" }
