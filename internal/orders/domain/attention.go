package domain

import "time"

// Time thresholds for the stuck-order heuristics. Fixed by design; exposed
// as named constants so tests can reference them.
const (
	// PlacedStuckAfter flags orders nobody claimed since creation.
	PlacedStuckAfter = 15 * time.Minute
	// ClaimedStuckAfter flags claimed orders whose master never started.
	ClaimedStuckAfter = 30 * time.Minute
)

// AttentionCategory names the reason an order needs dispatcher action.
type AttentionCategory string

const (
	AttentionDisputed AttentionCategory = "disputed"
	AttentionPayment  AttentionCategory = "payment"
	AttentionCanceled AttentionCategory = "canceled"
	AttentionStuck    AttentionCategory = "stuck"
)

// AttentionItem pairs an order with the category that flagged it.
type AttentionItem struct {
	Order    Order
	Category AttentionCategory
}

// ClassifyAttention returns the attention category for an order at the
// given time, or ("", false) when the order needs no dispatcher action.
// A client-initiated cancellation never needs attention, disputed or not.
// Categories are checked in priority order: disputed, payment, canceled,
// stuck.
func ClassifyAttention(o Order, now time.Time) (AttentionCategory, bool) {
	if o.Status == StatusCanceledByClient {
		return "", false
	}

	if o.IsDisputed {
		return AttentionDisputed, true
	}

	switch o.Status {
	case StatusCompleted:
		return AttentionPayment, true
	case StatusCanceledByMaster:
		return AttentionCanceled, true
	case StatusPlaced:
		if now.Sub(o.CreatedAt) > PlacedStuckAfter {
			return AttentionStuck, true
		}
	case StatusClaimed:
		if now.Sub(o.UpdatedAt) > ClaimedStuckAfter {
			return AttentionStuck, true
		}
	}

	return "", false
}

// AttentionList derives the subset of orders requiring dispatcher action,
// preserving input order. Pure given (orders, now).
func AttentionList(orders []Order, now time.Time) []AttentionItem {
	items := make([]AttentionItem, 0)
	for _, o := range orders {
		if category, ok := ClassifyAttention(o, now); ok {
			items = append(items, AttentionItem{Order: o, Category: category})
		}
	}
	return items
}

// AttentionCounts tallies flagged orders per category.
func AttentionCounts(orders []Order, now time.Time) map[AttentionCategory]int {
	counts := make(map[AttentionCategory]int)
	for _, o := range orders {
		if category, ok := ClassifyAttention(o, now); ok {
			counts[category]++
		}
	}
	return counts
}
