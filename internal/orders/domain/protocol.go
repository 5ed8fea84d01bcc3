package domain

import (
	"orderdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// Stable error codes surfaced to API clients on rejected transitions.
const (
	CodeInvalidStatus         = "INVALID_STATUS"
	CodeMasterAtCapacity      = "MASTER_AT_CAPACITY"
	CodeMasterNotVerified     = "MASTER_NOT_VERIFIED"
	CodeMasterInactive        = "MASTER_INACTIVE"
	CodeMasterNotFound        = "MASTER_NOT_FOUND"
	CodeOrderNotFound         = "ORDER_NOT_FOUND"
	CodeCannotUnassignSettled = "CANNOT_UNASSIGN_SETTLED"
	CodePaymentProofRequired  = "PAYMENT_PROOF_REQUIRED"
	CodePriceRequired         = "PRICE_REQUIRED"
	CodeUnauthorized          = "UNAUTHORIZED"
)

// ErrInvalidStatus reports a lifecycle transition rejected because the
// order is not in a status that permits it. Concurrent dispatchers racing
// on the same order see this as the expected, recoverable loss.
func ErrInvalidStatus(from, to Status) *apperr.Error {
	return apperr.Conflict("order status " + string(from) + " does not permit transition to " + string(to)).
		WithCode(CodeInvalidStatus)
}

// MasterCapacity is the capacity snapshot of an assignment target.
type MasterCapacity struct {
	ID            uuid.UUID
	FullName      string
	Phone         string
	Verified      bool
	Active        bool
	ActiveJobs    int
	MaxActiveJobs int
}

// AtCapacity reports whether the master cannot take another job.
func (m MasterCapacity) AtCapacity() bool {
	return m.ActiveJobs >= m.MaxActiveJobs
}

// Actor identifies who initiates a lifecycle mutation.
type Actor struct {
	ID   uuid.UUID
	Role string // dispatcher, master, admin, client
}

// Actor role names accepted by the protocol.
const (
	ActorDispatcher = "dispatcher"
	ActorMaster     = "master"
	ActorAdmin      = "admin"
	ActorClient     = "client"
)

// AssignPlan is the outcome of an assignment decision: the mutation the
// executor must apply atomically.
type AssignPlan struct {
	// ReleaseMasterID is the master freed by the implied unassign step,
	// uuid.Nil when the order had no master.
	ReleaseMasterID uuid.UUID
	NewStatus       Status
}

// DecideAssign validates force-assigning a master to an order and returns
// the mutation plan. When the order already holds a different master, the
// plan includes releasing it first (unassign-then-assign); the executor
// must apply both steps in one transaction or none.
func DecideAssign(o Order, target MasterCapacity) (AssignPlan, error) {
	if !target.Verified {
		return AssignPlan{}, apperr.Conflict("master is not verified").WithCode(CodeMasterNotVerified)
	}
	if !target.Active {
		return AssignPlan{}, apperr.Conflict("master is not active").WithCode(CodeMasterInactive)
	}

	if o.HasMaster() && o.Master.ID == target.ID {
		return AssignPlan{}, apperr.Conflict("master already assigned to this order").
			WithCode(CodeInvalidStatus)
	}

	if o.HasMaster() {
		// Reassign path: the implied unassign obeys the same rules as an
		// explicit one, so a settled order aborts the whole operation.
		if _, err := DecideUnassign(o); err != nil {
			return AssignPlan{}, err
		}
	} else if !CanTransition(o.Status, StatusClaimed) {
		return AssignPlan{}, ErrInvalidStatus(o.Status, StatusClaimed)
	}

	if target.AtCapacity() {
		return AssignPlan{}, apperr.Conflict("master has reached the maximum number of active jobs").
			WithCode(CodeMasterAtCapacity)
	}

	plan := AssignPlan{NewStatus: StatusClaimed}
	if o.HasMaster() {
		plan.ReleaseMasterID = o.Master.ID
	}
	return plan, nil
}

// DecideUnassign validates removing the master from an order and returns
// the status the order falls back to: reopened when the order had been
// reopened before claiming, placed otherwise.
func DecideUnassign(o Order) (Status, error) {
	if o.Status.IsSettled() {
		return "", apperr.Conflict("cannot unassign a settled order").WithCode(CodeCannotUnassignSettled)
	}
	if !o.HasMaster() {
		return "", apperr.Conflict("order has no assigned master").WithCode(CodeInvalidStatus)
	}
	if o.Status != StatusClaimed {
		return "", ErrInvalidStatus(o.Status, StatusPlaced)
	}
	return o.ReopenedOrigin(), nil
}

// DecideTransfer validates handing accountability to another dispatcher.
// Only the currently accountable dispatcher (or an admin) may initiate it,
// and the target must differ from the current handler.
func DecideTransfer(o Order, actor Actor, targetDispatcherID uuid.UUID) error {
	if actor.Role != ActorAdmin && o.AssignedDispatcherID != actor.ID {
		return apperr.Forbidden("only the accountable dispatcher may transfer this order").
			WithCode(CodeUnauthorized)
	}
	if targetDispatcherID == o.AssignedDispatcherID {
		return apperr.BadRequest("order is already assigned to this dispatcher")
	}
	if targetDispatcherID == actor.ID {
		return apperr.BadRequest("cannot transfer an order to yourself")
	}
	if o.Status.IsTerminal() {
		return ErrInvalidStatus(o.Status, o.Status)
	}
	return nil
}

// DecideStart validates the master beginning work.
func DecideStart(o Order, actor Actor) error {
	if !CanTransition(o.Status, StatusStarted) {
		return ErrInvalidStatus(o.Status, StatusStarted)
	}
	if actor.Role == ActorMaster && (o.Master == nil || o.Master.ID != actor.ID) {
		return apperr.Forbidden("order is assigned to a different master").WithCode(CodeUnauthorized)
	}
	return nil
}

// DecideComplete validates the master finishing work. A price must
// accompany completion: the submitted final price, or a previously agreed
// initial price.
func DecideComplete(o Order, actor Actor, finalPrice *int64) error {
	if !CanTransition(o.Status, StatusCompleted) {
		return ErrInvalidStatus(o.Status, StatusCompleted)
	}
	if actor.Role == ActorMaster && (o.Master == nil || o.Master.ID != actor.ID) {
		return apperr.Forbidden("order is assigned to a different master").WithCode(CodeUnauthorized)
	}
	if finalPrice == nil && o.InitialPrice == nil {
		return apperr.Validation("a final or initial price is required to complete the order").
			WithCode(CodePriceRequired)
	}
	return nil
}

// DecideConfirmPayment validates settling payment on a completed order.
// Bank transfers require a proof reference.
func DecideConfirmPayment(o Order, method PaymentMethod, proofURL string) error {
	if !method.IsKnown() {
		return apperr.Validation("unknown payment method")
	}
	if !CanTransition(o.Status, StatusConfirmed) {
		return ErrInvalidStatus(o.Status, StatusConfirmed)
	}
	if method == PaymentTransfer && proofURL == "" {
		return apperr.Validation("a payment proof is required for bank transfers").
			WithCode(CodePaymentProofRequired)
	}
	return nil
}

// DecideCancel validates cancellation and returns the terminal status the
// order moves to, derived from who cancels.
func DecideCancel(o Order, actor Actor, reason string) (Status, error) {
	if reason == "" {
		return "", apperr.Validation("a cancellation reason is required")
	}

	var target Status
	switch actor.Role {
	case ActorClient:
		target = StatusCanceledByClient
	case ActorMaster:
		target = StatusCanceledByMaster
	default:
		// Dispatchers cancel on behalf of whichever side backed out; the
		// reason code decides which terminal state the order lands in.
		if reason == ReasonClientRequest {
			target = StatusCanceledByClient
		} else {
			target = StatusCanceledByMaster
		}
	}

	if !CanTransition(o.Status, target) {
		return "", ErrInvalidStatus(o.Status, target)
	}
	return target, nil
}

// DecideReopen validates pulling a dead order back into the active queue.
func DecideReopen(o Order, actor Actor) error {
	if actor.Role != ActorDispatcher && actor.Role != ActorAdmin {
		return apperr.Forbidden("only a dispatcher may reopen an order").WithCode(CodeUnauthorized)
	}
	if !o.Status.IsReopenable() {
		return ErrInvalidStatus(o.Status, StatusReopened)
	}
	return nil
}

// ReopenedOrigin returns the unclaimed status this order falls back to
// when its master is removed.
func (o *Order) ReopenedOrigin() Status {
	if o.WasReopened {
		return StatusReopened
	}
	return StatusPlaced
}
