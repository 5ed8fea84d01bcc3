package domain

import (
	"time"

	"github.com/google/uuid"
)

// Urgency is the closed set of order urgency levels.
type Urgency string

const (
	UrgencyPlanned   Urgency = "planned"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// IsKnown reports whether u is a member of the urgency enum.
func (u Urgency) IsKnown() bool {
	switch u {
	case UrgencyPlanned, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
)

// IsKnown reports whether m is a member of the payment method enum.
func (m PaymentMethod) IsKnown() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard:
		return true
	}
	return false
}

// Cancellation and unassign reason codes carried on lifecycle mutations.
const (
	ReasonDispatcherReassign = "dispatcher_reassign"
	ReasonClientRequest      = "client_request"
	ReasonMasterUnavailable  = "master_unavailable"
)

// Client is the requester snapshot embedded in an order.
type Client struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// MasterRef is the assigned field worker snapshot embedded in an order.
type MasterRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Phone    string    `json:"phone"`
}

// Order is the central entity of the dispatch engine. Ownership references
// (client, master, dispatchers) are weak: the engine looks entities up by
// id and never owns them.
type Order struct {
	ID                   uuid.UUID
	Status               Status
	IsDisputed           bool
	Urgency              Urgency
	ServiceType          string
	Area                 string
	FullAddress          string
	Orientir             string // landmark near the address
	ProblemDescription   string
	DispatcherNote       string
	Client               Client
	Master               *MasterRef
	DispatcherID         uuid.UUID // dispatcher who created the order
	AssignedDispatcherID uuid.UUID // dispatcher currently accountable
	// WasReopened records that the order passed through reopened, so an
	// unassign falls back to reopened instead of placed.
	WasReopened     bool
	PreferredDate   *time.Time
	CalloutFee      *int64
	InitialPrice    *int64
	FinalPrice      *int64
	PaymentMethod   PaymentMethod
	PaymentProofURL string
	IdempotencyKey  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasMaster reports whether a master is currently assigned.
func (o *Order) HasMaster() bool {
	return o.Master != nil
}

// PriceSettled reports whether a final price has been recorded.
func (o *Order) PriceSettled() bool {
	return o.FinalPrice != nil
}
