package queue

import (
	"fmt"
	"testing"
	"time"

	"orderdesk_backend/internal/orders/domain"

	"github.com/google/uuid"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

var streets = []string{
	"Chuy Avenue", "Toktogul Street", "Manas Avenue",
	"Kievskaya Street", "Moskovskaya Street", "Isanov Street",
}

var clients = []string{
	"Aibek Toktosunov", "Nurlan Kadyrov", "Gulnara Sadykova",
	"Bakyt Asanov", "Cholpon Mambetova", "Erlan Osmonov",
}

func testOrders() []domain.Order {
	mk := func(i int, status domain.Status, urgency domain.Urgency, serviceType string, mutate func(*domain.Order)) domain.Order {
		o := domain.Order{
			ID:          uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i)),
			Status:      status,
			Urgency:     urgency,
			ServiceType: serviceType,
			FullAddress: streets[i-1],
			Client:      domain.Client{Name: clients[i-1], Phone: fmt.Sprintf("+99670012340%d", i)},
			CreatedAt:   baseTime.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   baseTime.Add(time.Duration(i) * time.Hour),
		}
		if mutate != nil {
			mutate(&o)
		}
		return o
	}

	return []domain.Order{
		mk(1, domain.StatusPlaced, domain.UrgencyPlanned, "plumbing", nil),
		mk(2, domain.StatusClaimed, domain.UrgencyUrgent, "plumbing", func(o *domain.Order) {
			o.Master = &domain.MasterRef{
				ID:       uuid.MustParse("11111111-1111-1111-1111-111111111111"),
				FullName: "Azamat Usenov",
				Phone:    "+996555111222",
			}
		}),
		mk(3, domain.StatusCompleted, domain.UrgencyEmergency, "electrics", nil),
		mk(4, domain.StatusConfirmed, domain.UrgencyPlanned, "plumbing", nil),
		mk(5, domain.StatusCanceledByClient, domain.UrgencyUrgent, "heating", nil),
		mk(6, domain.StatusExpired, domain.UrgencyPlanned, "electrics", nil),
	}
}

func idsOf(orders []domain.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID.String())
	}
	return ids
}

func TestTabFilters(t *testing.T) {
	orders := testOrders()

	cases := []struct {
		tab  Tab
		want int
	}{
		{TabAll, 6},
		{TabActive, 2},
		{TabPayment, 1},
		{TabConfirmed, 1},
		{TabCanceled, 2},
	}

	for _, tc := range cases {
		got := Apply(orders, Query{Tab: tc.tab}).Total
		if got != tc.want {
			t.Errorf("tab %q: total = %d, want %d", tc.tab, got, tc.want)
		}
	}
}

func TestSearch(t *testing.T) {
	orders := testOrders()

	cases := []struct {
		name   string
		search string
		want   int
	}{
		{"client name", "gulnara", 1},
		{"master name", "azamat", 1},
		{"address", "kievskaya", 1},
		{"short id suffix", "#000002", 1},
		{"long id substring", "0000000000", 6},
		{"phone digits with formatting", "0700 123-403", 1},
		{"master phone", "555111222", 1},
		{"no match", "nonexistent", 0},
		{"empty matches all", "", 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(orders, Query{Search: tc.search}).Total
			if got != tc.want {
				t.Errorf("search %q: total = %d, want %d", tc.search, got, tc.want)
			}
		})
	}
}

func TestUrgencyAndServiceTypeFilters(t *testing.T) {
	orders := testOrders()

	if got := Apply(orders, Query{Urgency: domain.UrgencyPlanned}).Total; got != 3 {
		t.Errorf("urgency planned: total = %d, want 3", got)
	}
	if got := Apply(orders, Query{ServiceType: "Plumbing"}).Total; got != 3 {
		t.Errorf("service type plumbing (case-insensitive): total = %d, want 3", got)
	}
	if got := Apply(orders, Query{Urgency: domain.UrgencyPlanned, ServiceType: "electrics"}).Total; got != 1 {
		t.Errorf("combined filters: total = %d, want 1", got)
	}
}

func TestSortOrder(t *testing.T) {
	orders := testOrders()

	newest := Apply(orders, Query{Sort: SortNewest})
	if newest.Items[0].CreatedAt.Before(newest.Items[1].CreatedAt) {
		t.Error("newest sort: first item older than second")
	}

	oldest := Apply(orders, Query{Sort: SortOldest})
	if oldest.Items[0].CreatedAt.After(oldest.Items[1].CreatedAt) {
		t.Error("oldest sort: first item newer than second")
	}
}

func TestPagination(t *testing.T) {
	orders := testOrders()

	page1 := Apply(orders, Query{Page: 1, PerPage: 4})
	if len(page1.Items) != 4 || page1.Total != 6 || page1.TotalPages != 2 {
		t.Errorf("page 1: items=%d total=%d pages=%d", len(page1.Items), page1.Total, page1.TotalPages)
	}

	page2 := Apply(orders, Query{Page: 2, PerPage: 4})
	if len(page2.Items) != 2 {
		t.Errorf("page 2: items=%d, want 2", len(page2.Items))
	}

	beyond := Apply(orders, Query{Page: 9, PerPage: 4})
	if len(beyond.Items) != 0 {
		t.Errorf("page beyond end: items=%d, want 0", len(beyond.Items))
	}

	defaulted := Apply(orders, Query{})
	if defaulted.PerPage != PageSizeCard || defaulted.Page != 1 {
		t.Errorf("defaults: perPage=%d page=%d", defaulted.PerPage, defaulted.Page)
	}
}

// The filter predicates are independent, so any application order yields
// the same result set. Matches evaluates all four; this exercises a few
// query combinations against a brute-force re-filter.
func TestFilterComposition(t *testing.T) {
	orders := testOrders()
	q := Query{Search: "ov", Tab: TabActive, Urgency: domain.UrgencyUrgent, ServiceType: "plumbing"}

	viaApply := Apply(orders, q)

	manual := make([]domain.Order, 0)
	for _, o := range orders {
		// Reverse predicate order relative to Matches.
		if matchesServiceType(o, q.ServiceType) &&
			matchesUrgency(o, q.Urgency) &&
			matchesTab(o, q.Tab) &&
			matchesSearch(o, q.Search) {
			manual = append(manual, o)
		}
	}
	sortOrders(manual, q.Sort)

	if viaApply.Total != len(manual) {
		t.Fatalf("composition mismatch: %d vs %d", viaApply.Total, len(manual))
	}
	gotIDs := idsOf(viaApply.Items)
	wantIDs := idsOf(manual)
	for i := range gotIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("item %d: %s != %s", i, gotIDs[i], wantIDs[i])
		}
	}
}
