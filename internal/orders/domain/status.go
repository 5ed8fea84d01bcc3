// Package domain provides core business rules for the orders bounded context:
// the lifecycle state machine, status predicates and the attention classifier.
package domain

// Status is the closed set of order lifecycle states. The status column is
// the single source of truth for lifecycle position; is_disputed is an
// orthogonal flag.
type Status string

const (
	StatusPlaced           Status = "placed"
	StatusReopened         Status = "reopened"
	StatusClaimed          Status = "claimed"
	StatusStarted          Status = "started"
	StatusCompleted        Status = "completed"
	StatusConfirmed        Status = "confirmed"
	StatusCanceledByClient Status = "canceled_by_client"
	StatusCanceledByMaster Status = "canceled_by_master"
	// StatusExpired is reachable only through the server-side expiry sweep,
	// never through a client-initiated transition.
	StatusExpired Status = "expired"
)

var knownStatuses = map[Status]struct{}{
	StatusPlaced:           {},
	StatusReopened:         {},
	StatusClaimed:          {},
	StatusStarted:          {},
	StatusCompleted:        {},
	StatusConfirmed:        {},
	StatusCanceledByClient: {},
	StatusCanceledByMaster: {},
	StatusExpired:          {},
}

// IsKnown reports whether s is a member of the closed status enum.
func (s Status) IsKnown() bool {
	_, ok := knownStatuses[s]
	return ok
}

// IsActive reports whether the order is still in the working queue.
func (s Status) IsActive() bool {
	switch s {
	case StatusPlaced, StatusReopened, StatusClaimed, StatusStarted:
		return true
	}
	return false
}

// IsCanceled reports whether the order ended in any cancellation-like
// terminal state. Expired behaves as a cancellation for classification.
func (s Status) IsCanceled() bool {
	switch s {
	case StatusCanceledByClient, StatusCanceledByMaster, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further lifecycle transitions are expected.
// canceled_by_master and expired are terminal but reopenable by a dispatcher.
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s.IsCanceled()
}

// IsSettled reports whether pricing has been settled (work finished).
// A settled order cannot lose its master.
func (s Status) IsSettled() bool {
	return s == StatusCompleted || s == StatusConfirmed
}

// IsPayable reports whether the order awaits payment confirmation.
func (s Status) IsPayable() bool {
	return s == StatusCompleted
}

// CanHoldMaster reports whether a master reference is permitted in this
// status. Terminal states keep the master for history when they were
// reached from an assigned state, so cancellations are included.
func (s Status) CanHoldMaster() bool {
	switch s {
	case StatusClaimed, StatusStarted, StatusCompleted, StatusConfirmed,
		StatusCanceledByClient, StatusCanceledByMaster:
		return true
	}
	return false
}

// IsReopenable reports whether a dispatcher may pull the order back into
// the active queue.
func (s Status) IsReopenable() bool {
	return s == StatusCanceledByMaster || s == StatusExpired
}

// transitions is the permitted lifecycle edge set. Unassign edges
// (claimed back to placed/reopened) are listed here as well; the service
// layer additionally forbids unassign on settled orders.
var transitions = map[Status][]Status{
	StatusPlaced:           {StatusClaimed, StatusCanceledByClient, StatusCanceledByMaster, StatusExpired},
	StatusReopened:         {StatusClaimed, StatusCanceledByClient, StatusCanceledByMaster, StatusExpired},
	StatusClaimed:          {StatusStarted, StatusPlaced, StatusReopened, StatusCanceledByClient, StatusCanceledByMaster},
	StatusStarted:          {StatusCompleted, StatusCanceledByClient, StatusCanceledByMaster},
	StatusCompleted:        {StatusConfirmed},
	StatusConfirmed:        {},
	StatusCanceledByClient: {},
	StatusCanceledByMaster: {StatusReopened},
	StatusExpired:          {StatusReopened},
}

// CanTransition reports whether the lifecycle permits moving from one
// status to another. It answers only the state-machine question; actor and
// payload requirements (capacity, payment proof, prices) are enforced by
// the service layer.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Label returns the human-readable label for a status.
func (s Status) Label() string {
	switch s {
	case StatusPlaced:
		return "Placed"
	case StatusReopened:
		return "Reopened"
	case StatusClaimed:
		return "Claimed"
	case StatusStarted:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCanceledByClient:
		return "Canceled by client"
	case StatusCanceledByMaster:
		return "Canceled by master"
	case StatusExpired:
		return "Expired"
	default:
		return string(s)
	}
}

// Color returns the presentation color key for a status. Clients map these
// keys onto their own palette.
func (s Status) Color() string {
	switch s {
	case StatusPlaced, StatusReopened:
		return "blue"
	case StatusClaimed:
		return "orange"
	case StatusStarted:
		return "purple"
	case StatusCompleted:
		return "amber"
	case StatusConfirmed:
		return "green"
	case StatusCanceledByClient, StatusCanceledByMaster, StatusExpired:
		return "red"
	default:
		return "gray"
	}
}
