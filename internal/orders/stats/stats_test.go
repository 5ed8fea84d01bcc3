package stats

import (
	"testing"
	"time"

	"orderdesk_backend/internal/orders/domain"

	"github.com/google/uuid"
)

var (
	me    = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	other = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

// Noon so the day bucket index is unambiguous.
var statsNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestDelta(t *testing.T) {
	cases := []struct {
		current int
		prev    int
		want    float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{10, 5, 100},
		{5, 10, -50},
		{3, 3, 0},
		{0, 4, -100},
	}

	for _, tc := range cases {
		if got := Delta(tc.current, tc.prev); got != tc.want {
			t.Errorf("Delta(%d, %d) = %v, want %v", tc.current, tc.prev, got, tc.want)
		}
	}
}

func mkOrder(dispatcherID, assignedID uuid.UUID, status domain.Status, daysAgo int) domain.Order {
	return domain.Order{
		ID:                   uuid.New(),
		Status:               status,
		DispatcherID:         dispatcherID,
		AssignedDispatcherID: assignedID,
		CreatedAt:            statsNow.AddDate(0, 0, -daysAgo),
		UpdatedAt:            statsNow.AddDate(0, 0, -daysAgo),
	}
}

func TestBuildCounts(t *testing.T) {
	orders := []domain.Order{
		// Current window: created and handled by me.
		mkOrder(me, me, domain.StatusConfirmed, 1),
		mkOrder(me, me, domain.StatusPlaced, 2),
		mkOrder(me, me, domain.StatusCanceledByMaster, 3),
		// Created by someone else but transferred to me: handled only.
		mkOrder(other, me, domain.StatusCompleted, 1),
		// Someone else's entirely: invisible to me.
		mkOrder(other, other, domain.StatusConfirmed, 2),
		// Previous window.
		mkOrder(me, me, domain.StatusConfirmed, 10),
		// Outside both windows.
		mkOrder(me, me, domain.StatusConfirmed, 20),
	}

	r := Build(orders, me, WindowWeek, statsNow)

	if r.Current.Created != 3 {
		t.Errorf("created = %d, want 3", r.Current.Created)
	}
	if r.Current.Handled != 4 {
		t.Errorf("handled = %d, want 4", r.Current.Handled)
	}
	if r.Current.Completed != 2 {
		t.Errorf("completed = %d, want 2", r.Current.Completed)
	}
	if r.Current.Canceled != 1 {
		t.Errorf("canceled = %d, want 1", r.Current.Canceled)
	}
	if r.Previous.Created != 1 {
		t.Errorf("previous created = %d, want 1", r.Previous.Created)
	}

	// completionRate = completed/created*100 over the current window.
	if want := float64(2) / 3 * 100; r.CompletionRate != want {
		t.Errorf("completionRate = %v, want %v", r.CompletionRate, want)
	}
	if want := float64(1) / 3 * 100; r.CancelRate != want {
		t.Errorf("cancelRate = %v, want %v", r.CancelRate, want)
	}
	if r.CreatedDelta != 200 {
		t.Errorf("createdDelta = %v, want 200", r.CreatedDelta)
	}
}

func TestBuildZeroActivity(t *testing.T) {
	r := Build(nil, me, WindowWeek, statsNow)

	if r.CompletionRate != 0 || r.CancelRate != 0 {
		t.Errorf("rates must be 0 with no created orders, got %v / %v", r.CompletionRate, r.CancelRate)
	}
	if r.CreatedDelta != 0 {
		t.Errorf("delta must be 0 when both windows are empty, got %v", r.CreatedDelta)
	}
	if len(r.Daily) != WindowWeek {
		t.Errorf("daily series length = %d, want %d", len(r.Daily), WindowWeek)
	}
}

func TestBuildDailySeries(t *testing.T) {
	orders := []domain.Order{
		mkOrder(me, me, domain.StatusPlaced, 0),
		mkOrder(me, me, domain.StatusPlaced, 0),
		mkOrder(other, me, domain.StatusPlaced, 0),
		mkOrder(me, me, domain.StatusPlaced, 3),
	}

	r := Build(orders, me, WindowWeek, statsNow)

	last := r.Daily[len(r.Daily)-1]
	if last.Created != 2 {
		t.Errorf("today created = %d, want 2", last.Created)
	}
	if last.Handled != 3 {
		t.Errorf("today handled = %d, want 3", last.Handled)
	}

	threeDaysAgo := r.Daily[len(r.Daily)-4]
	if threeDaysAgo.Created != 1 {
		t.Errorf("created 3 days ago = %d, want 1", threeDaysAgo.Created)
	}

	// Buckets are consecutive calendar days ending today.
	for i := 1; i < len(r.Daily); i++ {
		if got := r.Daily[i].Date.Sub(r.Daily[i-1].Date); got != 24*time.Hour {
			t.Errorf("bucket %d not one day after previous: %v", i, got)
		}
	}
}

func TestBuildUnknownWindowFallsBack(t *testing.T) {
	r := Build(nil, me, 13, statsNow)
	if r.WindowDays != WindowWeek {
		t.Errorf("windowDays = %d, want %d", r.WindowDays, WindowWeek)
	}
}
