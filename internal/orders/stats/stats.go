// Package stats derives per-period dispatcher counters from the order
// collection: created/handled/completed/canceled counts, rates, deltas
// against the prior period of equal length, and a daily series for charts.
// All functions are pure given (orders, window).
package stats

import (
	"time"

	"orderdesk_backend/internal/orders/domain"

	"github.com/google/uuid"
)

// Supported window lengths in days.
const (
	WindowWeek  = 7
	WindowMonth = 30
)

// Counts holds the four headline counters for one window.
type Counts struct {
	Created   int `json:"created"`
	Handled   int `json:"handled"`
	Completed int `json:"completed"`
	Canceled  int `json:"canceled"`
}

// DayBucket is one calendar day of the charting series.
type DayBucket struct {
	Date    time.Time `json:"date"`
	Created int       `json:"created"`
	Handled int       `json:"handled"`
}

// Report is the full stats payload for a dispatcher and window.
type Report struct {
	WindowDays     int         `json:"windowDays"`
	Current        Counts      `json:"current"`
	Previous       Counts      `json:"previous"`
	CompletionRate float64     `json:"completionRate"`
	CancelRate     float64     `json:"cancelRate"`
	CreatedDelta   float64     `json:"createdDelta"`
	HandledDelta   float64     `json:"handledDelta"`
	CompletedDelta float64     `json:"completedDelta"`
	CanceledDelta  float64     `json:"canceledDelta"`
	Daily          []DayBucket `json:"daily"`
}

// Delta returns the percentage change from prev to current: 0 when both are
// zero, +100 when prev is zero and current positive, otherwise the signed
// percentage.
func Delta(current, prev int) float64 {
	if prev == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-prev) / float64(prev) * 100
}

// rate returns part/total*100, or 0 when total is zero.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// createdBy reports whether the dispatcher created the order.
func createdBy(o domain.Order, dispatcherID uuid.UUID) bool {
	return o.DispatcherID == dispatcherID
}

// handledBy reports whether the dispatcher created or is accountable for
// the order.
func handledBy(o domain.Order, dispatcherID uuid.UUID) bool {
	return o.DispatcherID == dispatcherID || o.AssignedDispatcherID == dispatcherID
}

func countWindow(orders []domain.Order, dispatcherID uuid.UUID, from, to time.Time) Counts {
	var c Counts
	for _, o := range orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		if createdBy(o, dispatcherID) {
			c.Created++
		}
		if handledBy(o, dispatcherID) {
			c.Handled++
			if o.Status.IsSettled() {
				c.Completed++
			}
			if o.Status.IsCanceled() {
				c.Canceled++
			}
		}
	}
	return c
}

// Build computes the report for the window of windowDays calendar days
// ending today (midnight boundary in now's location). The previous window
// immediately precedes it with equal length.
func Build(orders []domain.Order, dispatcherID uuid.UUID, windowDays int, now time.Time) Report {
	if windowDays != WindowWeek && windowDays != WindowMonth {
		windowDays = WindowWeek
	}

	// End of today in local calendar terms.
	year, month, day := now.Date()
	end := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -windowDays)
	prevStart := start.AddDate(0, 0, -windowDays)

	current := countWindow(orders, dispatcherID, start, end)
	previous := countWindow(orders, dispatcherID, prevStart, start)

	daily := make([]DayBucket, windowDays)
	for i := range daily {
		daily[i].Date = start.AddDate(0, 0, i)
	}
	for _, o := range orders {
		if o.CreatedAt.Before(start) || !o.CreatedAt.Before(end) {
			continue
		}
		idx := daysBetween(start, o.CreatedAt.In(now.Location()))
		if idx < 0 || idx >= windowDays {
			continue
		}
		if createdBy(o, dispatcherID) {
			daily[idx].Created++
		}
		if handledBy(o, dispatcherID) {
			daily[idx].Handled++
		}
	}

	return Report{
		WindowDays:     windowDays,
		Current:        current,
		Previous:       previous,
		CompletionRate: rate(current.Completed, current.Created),
		CancelRate:     rate(current.Canceled, current.Created),
		CreatedDelta:   Delta(current.Created, previous.Created),
		HandledDelta:   Delta(current.Handled, previous.Handled),
		CompletedDelta: Delta(current.Completed, previous.Completed),
		CanceledDelta:  Delta(current.Canceled, previous.Canceled),
		Daily:          daily,
	}
}

// daysBetween counts whole calendar days from start to t, both interpreted
// in start's location.
func daysBetween(start, t time.Time) int {
	t = t.In(start.Location())
	year, month, day := t.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, start.Location())
	return int(dayStart.Sub(start).Hours() / 24)
}
