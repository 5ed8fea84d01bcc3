package domain

import (
	"testing"
	"time"
)

var attentionNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func orderWith(status Status, mutate func(*Order)) Order {
	o := Order{
		Status:    status,
		CreatedAt: attentionNow.Add(-5 * time.Minute),
		UpdatedAt: attentionNow.Add(-5 * time.Minute),
	}
	if mutate != nil {
		mutate(&o)
	}
	return o
}

func TestClassifyAttention(t *testing.T) {
	cases := []struct {
		name    string
		order   Order
		want    AttentionCategory
		flagged bool
	}{
		{
			name:    "disputed active order",
			order:   orderWith(StatusStarted, func(o *Order) { o.IsDisputed = true }),
			want:    AttentionDisputed,
			flagged: true,
		},
		{
			name:    "disputed completed order",
			order:   orderWith(StatusCompleted, func(o *Order) { o.IsDisputed = true }),
			want:    AttentionDisputed,
			flagged: true,
		},
		{
			name:    "completed awaits payment",
			order:   orderWith(StatusCompleted, nil),
			want:    AttentionPayment,
			flagged: true,
		},
		{
			name:    "canceled by master surfaces for reopen",
			order:   orderWith(StatusCanceledByMaster, nil),
			want:    AttentionCanceled,
			flagged: true,
		},
		{
			name: "placed past threshold is stuck",
			order: orderWith(StatusPlaced, func(o *Order) {
				o.CreatedAt = attentionNow.Add(-PlacedStuckAfter - time.Minute)
			}),
			want:    AttentionStuck,
			flagged: true,
		},
		{
			name:    "fresh placed order is fine",
			order:   orderWith(StatusPlaced, nil),
			flagged: false,
		},
		{
			name: "placed exactly at threshold is fine",
			order: orderWith(StatusPlaced, func(o *Order) {
				o.CreatedAt = attentionNow.Add(-PlacedStuckAfter)
			}),
			flagged: false,
		},
		{
			name: "claimed past threshold is stuck",
			order: orderWith(StatusClaimed, func(o *Order) {
				o.UpdatedAt = attentionNow.Add(-ClaimedStuckAfter - time.Minute)
			}),
			want:    AttentionStuck,
			flagged: true,
		},
		{
			name: "recently claimed order is fine",
			order: orderWith(StatusClaimed, func(o *Order) {
				o.CreatedAt = attentionNow.Add(-2 * time.Hour)
				o.UpdatedAt = attentionNow.Add(-10 * time.Minute)
			}),
			flagged: false,
		},
		{
			name:    "canceled by client never flagged",
			order:   orderWith(StatusCanceledByClient, nil),
			flagged: false,
		},
		{
			name:    "canceled by client disputed still never flagged",
			order:   orderWith(StatusCanceledByClient, func(o *Order) { o.IsDisputed = true }),
			flagged: false,
		},
		{
			name:    "confirmed order is fine",
			order:   orderWith(StatusConfirmed, nil),
			flagged: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, flagged := ClassifyAttention(tc.order, attentionNow)
			if flagged != tc.flagged {
				t.Fatalf("flagged = %v, want %v", flagged, tc.flagged)
			}
			if flagged && got != tc.want {
				t.Errorf("category = %s, want %s", got, tc.want)
			}
		})
	}
}

// Settled orders must never surface as stuck, no matter how old.
func TestSettledNeverStuck(t *testing.T) {
	ancient := attentionNow.Add(-30 * 24 * time.Hour)
	for _, status := range []Status{StatusCompleted, StatusConfirmed} {
		o := orderWith(status, func(o *Order) {
			o.CreatedAt = ancient
			o.UpdatedAt = ancient
		})
		if category, flagged := ClassifyAttention(o, attentionNow); flagged && category == AttentionStuck {
			t.Errorf("%s order classified as stuck", status)
		}
	}
}

func TestAttentionList(t *testing.T) {
	orders := []Order{
		orderWith(StatusCompleted, nil),
		orderWith(StatusPlaced, nil),
		orderWith(StatusCanceledByMaster, nil),
		orderWith(StatusCanceledByClient, nil),
	}

	items := AttentionList(orders, attentionNow)
	if len(items) != 2 {
		t.Fatalf("expected 2 attention items, got %d", len(items))
	}
	if items[0].Category != AttentionPayment || items[1].Category != AttentionCanceled {
		t.Errorf("unexpected categories: %s, %s", items[0].Category, items[1].Category)
	}

	counts := AttentionCounts(orders, attentionNow)
	if counts[AttentionPayment] != 1 || counts[AttentionCanceled] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
