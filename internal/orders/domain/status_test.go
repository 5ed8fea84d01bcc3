package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPlaced, StatusClaimed, true},
		{StatusReopened, StatusClaimed, true},
		{StatusClaimed, StatusStarted, true},
		{StatusStarted, StatusCompleted, true},
		{StatusCompleted, StatusConfirmed, true},
		{StatusClaimed, StatusPlaced, true},
		{StatusClaimed, StatusReopened, true},
		{StatusPlaced, StatusCanceledByClient, true},
		{StatusClaimed, StatusCanceledByMaster, true},
		{StatusStarted, StatusCanceledByClient, true},
		{StatusCanceledByMaster, StatusReopened, true},
		{StatusExpired, StatusReopened, true},
		{StatusPlaced, StatusExpired, true},
		{StatusReopened, StatusExpired, true},

		// Rejected edges
		{StatusPlaced, StatusStarted, false},
		{StatusPlaced, StatusCompleted, false},
		{StatusCompleted, StatusPlaced, false},
		{StatusConfirmed, StatusReopened, false},
		{StatusCanceledByClient, StatusReopened, false},
		{StatusConfirmed, StatusCompleted, false},
		{StatusStarted, StatusClaimed, false},
		{StatusCompleted, StatusCanceledByClient, false},
		{StatusClaimed, StatusExpired, false},
		{StatusStarted, StatusExpired, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	active := []Status{StatusPlaced, StatusReopened, StatusClaimed, StatusStarted}
	for _, s := range active {
		if !s.IsActive() {
			t.Errorf("%s.IsActive() = false, want true", s)
		}
		if s.IsTerminal() {
			t.Errorf("%s.IsTerminal() = true, want false", s)
		}
	}

	terminal := []Status{StatusConfirmed, StatusCanceledByClient, StatusCanceledByMaster, StatusExpired}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s.IsTerminal() = false, want true", s)
		}
		if s.IsActive() {
			t.Errorf("%s.IsActive() = true, want false", s)
		}
	}

	// completed awaits confirmation: neither active nor terminal
	if StatusCompleted.IsActive() || StatusCompleted.IsTerminal() {
		t.Error("completed must be neither active nor terminal")
	}

	if !StatusCompleted.IsSettled() || !StatusConfirmed.IsSettled() {
		t.Error("completed and confirmed must be settled")
	}
	if StatusStarted.IsSettled() {
		t.Error("started must not be settled")
	}

	if !StatusCompleted.IsPayable() || StatusConfirmed.IsPayable() {
		t.Error("exactly completed is payable")
	}

	canceled := []Status{StatusCanceledByClient, StatusCanceledByMaster, StatusExpired}
	for _, s := range canceled {
		if !s.IsCanceled() {
			t.Errorf("%s.IsCanceled() = false, want true", s)
		}
	}
	if StatusConfirmed.IsCanceled() {
		t.Error("confirmed.IsCanceled() = true, want false")
	}

	if !StatusCanceledByMaster.IsReopenable() || !StatusExpired.IsReopenable() {
		t.Error("canceled_by_master and expired must be reopenable")
	}
	if StatusCanceledByClient.IsReopenable() {
		t.Error("canceled_by_client must not be reopenable")
	}
}

// Every status in the transition table (as source or target) must be a
// member of the closed enum.
func TestTransitionTableClosed(t *testing.T) {
	for from, tos := range transitions {
		if !from.IsKnown() {
			t.Errorf("unknown source status %q in transition table", from)
		}
		for _, to := range tos {
			if !to.IsKnown() {
				t.Errorf("unknown target status %q in transition table", to)
			}
		}
	}
}

func TestLabelAndColorCoverEnum(t *testing.T) {
	for s := range knownStatuses {
		// Label falls back to the raw value only for unknown statuses.
		if s.Label() == string(s) {
			t.Errorf("Label(%s) not defined", s)
		}
		if s.Color() == "gray" {
			t.Errorf("Color(%s) not defined", s)
		}
	}
}
