package domain

import (
	"testing"

	"orderdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

var (
	masterA    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	masterB    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	dispatcher = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	dispatchB  = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	admin      = uuid.MustParse("55555555-5555-5555-5555-555555555555")
)

func goodMaster(id uuid.UUID) MasterCapacity {
	return MasterCapacity{ID: id, Verified: true, Active: true, ActiveJobs: 1, MaxActiveJobs: 5}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := apperr.GetCode(err); got != code {
		t.Fatalf("error code = %q, want %q (err: %v)", got, code, err)
	}
}

func TestDecideAssignFresh(t *testing.T) {
	o := Order{Status: StatusPlaced}

	plan, err := DecideAssign(o, goodMaster(masterA))
	if err != nil {
		t.Fatalf("DecideAssign: %v", err)
	}
	if plan.NewStatus != StatusClaimed {
		t.Errorf("new status = %s, want claimed", plan.NewStatus)
	}
	if plan.ReleaseMasterID != uuid.Nil {
		t.Errorf("fresh assign must not release a master")
	}
}

func TestDecideAssignFromReopened(t *testing.T) {
	o := Order{Status: StatusReopened, WasReopened: true}
	if _, err := DecideAssign(o, goodMaster(masterA)); err != nil {
		t.Fatalf("assign from reopened: %v", err)
	}
}

func TestDecideAssignRejections(t *testing.T) {
	cases := []struct {
		name   string
		order  Order
		target MasterCapacity
		code   string
	}{
		{
			name:   "at capacity",
			order:  Order{Status: StatusPlaced},
			target: MasterCapacity{ID: masterA, Verified: true, Active: true, ActiveJobs: 5, MaxActiveJobs: 5},
			code:   CodeMasterAtCapacity,
		},
		{
			name:   "over capacity",
			order:  Order{Status: StatusPlaced},
			target: MasterCapacity{ID: masterA, Verified: true, Active: true, ActiveJobs: 7, MaxActiveJobs: 5},
			code:   CodeMasterAtCapacity,
		},
		{
			name:   "not verified",
			order:  Order{Status: StatusPlaced},
			target: MasterCapacity{ID: masterA, Active: true, MaxActiveJobs: 5},
			code:   CodeMasterNotVerified,
		},
		{
			name:   "inactive",
			order:  Order{Status: StatusPlaced},
			target: MasterCapacity{ID: masterA, Verified: true, MaxActiveJobs: 5},
			code:   CodeMasterInactive,
		},
		{
			name:   "started order cannot be force-assigned",
			order:  Order{Status: StatusStarted, Master: &MasterRef{ID: masterA}},
			target: goodMaster(masterB),
			code:   CodeInvalidStatus,
		},
		{
			name:   "same master already assigned",
			order:  Order{Status: StatusClaimed, Master: &MasterRef{ID: masterA}},
			target: goodMaster(masterA),
			code:   CodeInvalidStatus,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecideAssign(tc.order, tc.target)
			assertCode(t, err, tc.code)
		})
	}
}

// Reassigning an order that already holds a master performs the implied
// unassign first; when that step is impossible the whole operation aborts
// and no plan is produced.
func TestDecideAssignReassign(t *testing.T) {
	o := Order{Status: StatusClaimed, Master: &MasterRef{ID: masterA}}

	plan, err := DecideAssign(o, goodMaster(masterB))
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if plan.ReleaseMasterID != masterA {
		t.Errorf("release = %s, want %s", plan.ReleaseMasterID, masterA)
	}
	if plan.NewStatus != StatusClaimed {
		t.Errorf("new status = %s, want claimed", plan.NewStatus)
	}

	// Settled order: the implied unassign fails, so assign must never be
	// planned.
	settled := Order{Status: StatusCompleted, Master: &MasterRef{ID: masterA}}
	_, err = DecideAssign(settled, goodMaster(masterB))
	assertCode(t, err, CodeCannotUnassignSettled)
}

// Two dispatchers racing to assign the same order: the second decision sees
// status claimed with the first master and is rejected, leaving a single
// master assigned.
func TestDecideAssignConcurrentLoser(t *testing.T) {
	o := Order{Status: StatusPlaced}

	plan, err := DecideAssign(o, goodMaster(masterA))
	if err != nil {
		t.Fatalf("first assign: %v", err)
	}

	// First assignment applied.
	o.Status = plan.NewStatus
	o.Master = &MasterRef{ID: masterA}

	// The loser's view: the same order, now claimed. Capacity for B is
	// fine; only the status/master check may reject, proving no
	// double-master state is reachable. A reassign through B is a valid
	// dispatcher action, so the loser is rejected only when B equals A.
	_, err = DecideAssign(o, goodMaster(masterA))
	assertCode(t, err, CodeInvalidStatus)
}

func TestDecideUnassign(t *testing.T) {
	claimed := Order{Status: StatusClaimed, Master: &MasterRef{ID: masterA}}
	status, err := DecideUnassign(claimed)
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if status != StatusPlaced {
		t.Errorf("fallback = %s, want placed", status)
	}

	reopened := Order{Status: StatusClaimed, Master: &MasterRef{ID: masterA}, WasReopened: true}
	status, err = DecideUnassign(reopened)
	if err != nil {
		t.Fatalf("unassign reopened: %v", err)
	}
	if status != StatusReopened {
		t.Errorf("fallback = %s, want reopened", status)
	}

	for _, s := range []Status{StatusCompleted, StatusConfirmed} {
		o := Order{Status: s, Master: &MasterRef{ID: masterA}}
		_, err := DecideUnassign(o)
		assertCode(t, err, CodeCannotUnassignSettled)
	}

	_, err = DecideUnassign(Order{Status: StatusPlaced})
	assertCode(t, err, CodeInvalidStatus)
}

func TestDecideTransfer(t *testing.T) {
	o := Order{Status: StatusClaimed, AssignedDispatcherID: dispatcher}

	if err := DecideTransfer(o, Actor{ID: dispatcher, Role: ActorDispatcher}, dispatchB); err != nil {
		t.Errorf("transfer by accountable dispatcher: %v", err)
	}

	err := DecideTransfer(o, Actor{ID: dispatchB, Role: ActorDispatcher}, dispatcher)
	assertCode(t, err, CodeUnauthorized)

	if err := DecideTransfer(o, Actor{ID: dispatchB, Role: ActorAdmin}, dispatchB); err == nil {
		t.Error("transfer to the accountable dispatcher themselves must fail")
	}

	// An admin may reroute to a third party, just not to themselves.
	if err := DecideTransfer(o, Actor{ID: admin, Role: ActorAdmin}, dispatchB); err != nil {
		t.Errorf("transfer by admin to a third dispatcher: %v", err)
	}

	terminal := Order{Status: StatusConfirmed, AssignedDispatcherID: dispatcher}
	err = DecideTransfer(terminal, Actor{ID: dispatcher, Role: ActorDispatcher}, dispatchB)
	assertCode(t, err, CodeInvalidStatus)
}

func TestDecideStartAndComplete(t *testing.T) {
	price := int64(4500)

	claimed := Order{Status: StatusClaimed, Master: &MasterRef{ID: masterA}}
	if err := DecideStart(claimed, Actor{ID: masterA, Role: ActorMaster}); err != nil {
		t.Errorf("start: %v", err)
	}
	err := DecideStart(claimed, Actor{ID: masterB, Role: ActorMaster})
	assertCode(t, err, CodeUnauthorized)

	started := Order{Status: StatusStarted, Master: &MasterRef{ID: masterA}}
	if err := DecideComplete(started, Actor{ID: masterA, Role: ActorMaster}, &price); err != nil {
		t.Errorf("complete with price: %v", err)
	}

	err = DecideComplete(started, Actor{ID: masterA, Role: ActorMaster}, nil)
	assertCode(t, err, CodePriceRequired)

	withInitial := started
	withInitial.InitialPrice = &price
	if err := DecideComplete(withInitial, Actor{ID: masterA, Role: ActorMaster}, nil); err != nil {
		t.Errorf("complete with initial price: %v", err)
	}

	err = DecideComplete(claimed, Actor{ID: masterA, Role: ActorMaster}, &price)
	assertCode(t, err, CodeInvalidStatus)
}

func TestDecideConfirmPayment(t *testing.T) {
	completed := Order{Status: StatusCompleted}

	if err := DecideConfirmPayment(completed, PaymentCash, ""); err != nil {
		t.Errorf("cash: %v", err)
	}
	if err := DecideConfirmPayment(completed, PaymentCard, ""); err != nil {
		t.Errorf("card: %v", err)
	}
	if err := DecideConfirmPayment(completed, PaymentTransfer, "https://proof.example/1.jpg"); err != nil {
		t.Errorf("transfer with proof: %v", err)
	}

	err := DecideConfirmPayment(completed, PaymentTransfer, "")
	assertCode(t, err, CodePaymentProofRequired)

	err = DecideConfirmPayment(Order{Status: StatusStarted}, PaymentCash, "")
	assertCode(t, err, CodeInvalidStatus)

	if err := DecideConfirmPayment(completed, "crypto", ""); err == nil {
		t.Error("unknown payment method must be rejected")
	}
}

func TestDecideCancel(t *testing.T) {
	active := Order{Status: StatusStarted, Master: &MasterRef{ID: masterA}}

	status, err := DecideCancel(active, Actor{Role: ActorClient}, "changed_mind")
	if err != nil || status != StatusCanceledByClient {
		t.Errorf("client cancel: status=%s err=%v", status, err)
	}

	status, err = DecideCancel(active, Actor{ID: masterA, Role: ActorMaster}, ReasonMasterUnavailable)
	if err != nil || status != StatusCanceledByMaster {
		t.Errorf("master cancel: status=%s err=%v", status, err)
	}

	status, err = DecideCancel(active, Actor{ID: dispatcher, Role: ActorDispatcher}, ReasonClientRequest)
	if err != nil || status != StatusCanceledByClient {
		t.Errorf("dispatcher cancel for client: status=%s err=%v", status, err)
	}

	if _, err := DecideCancel(active, Actor{Role: ActorClient}, ""); err == nil {
		t.Error("cancel without reason must fail")
	}

	_, err = DecideCancel(Order{Status: StatusConfirmed}, Actor{Role: ActorClient}, "late")
	assertCode(t, err, CodeInvalidStatus)
}

func TestDecideReopen(t *testing.T) {
	for _, s := range []Status{StatusCanceledByMaster, StatusExpired} {
		o := Order{Status: s}
		if err := DecideReopen(o, Actor{ID: dispatcher, Role: ActorDispatcher}); err != nil {
			t.Errorf("reopen from %s: %v", s, err)
		}
	}

	err := DecideReopen(Order{Status: StatusCanceledByClient}, Actor{ID: dispatcher, Role: ActorDispatcher})
	assertCode(t, err, CodeInvalidStatus)

	err = DecideReopen(Order{Status: StatusExpired}, Actor{ID: masterA, Role: ActorMaster})
	assertCode(t, err, CodeUnauthorized)
}
