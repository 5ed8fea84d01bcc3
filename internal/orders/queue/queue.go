// Package queue implements the dispatcher queue engine: compound filtering,
// free-text search, stable sorting and pagination over an in-memory order
// collection. All functions are pure; the service layer feeds them the
// authoritative order set.
package queue

import (
	"sort"
	"strings"
	"unicode"

	"orderdesk_backend/internal/orders/domain"
)

// Page sizes per view mode, applied after filtering and sorting.
const (
	PageSizeCard    = 20
	PageSizeCompact = 10
)

// Tab is a status-set filter matching the dashboard tabs.
type Tab string

const (
	TabAll       Tab = ""
	TabActive    Tab = "active"
	TabPayment   Tab = "payment"
	TabConfirmed Tab = "confirmed"
	TabCanceled  Tab = "canceled"
)

// SortOrder selects the created_at sort direction.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Query is the compound filter applied to the order collection. Zero values
// mean "no constraint" for every field except Page/PerPage.
type Query struct {
	Search      string
	Tab         Tab
	Urgency     domain.Urgency
	ServiceType string
	Sort        SortOrder
	Page        int // 1-based
	PerPage     int
}

// Result is one page of the filtered, sorted collection.
type Result struct {
	Items      []domain.Order
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// Apply filters, sorts and paginates the collection. The filter predicates
// are independent, so their application order does not affect the result
// set.
func Apply(orders []domain.Order, q Query) Result {
	filtered := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if Matches(o, q) {
			filtered = append(filtered, o)
		}
	}

	sortOrders(filtered, q.Sort)

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = PageSizeCard
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return Result{
		Items:      filtered[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

// Matches reports whether a single order passes every predicate of the query.
func Matches(o domain.Order, q Query) bool {
	return matchesSearch(o, q.Search) &&
		matchesTab(o, q.Tab) &&
		matchesUrgency(o, q.Urgency) &&
		matchesServiceType(o, q.ServiceType)
}

func matchesTab(o domain.Order, tab Tab) bool {
	switch tab {
	case TabActive:
		return o.Status.IsActive()
	case TabPayment:
		return o.Status.IsPayable()
	case TabConfirmed:
		return o.Status == domain.StatusConfirmed
	case TabCanceled:
		return o.Status.IsCanceled()
	default:
		return true
	}
}

func matchesUrgency(o domain.Order, urgency domain.Urgency) bool {
	return urgency == "" || o.Urgency == urgency
}

func matchesServiceType(o domain.Order, serviceType string) bool {
	return serviceType == "" || strings.EqualFold(o.ServiceType, serviceType)
}

// matchesSearch performs case-insensitive free-text matching over the order
// id, client and master names, address and phone numbers. Short queries
// (six characters or fewer after stripping a leading '#') match the id as a
// suffix, the way dispatchers quote short order numbers; longer ones as a
// substring. When the query contains digits, phones are compared digit to
// digit.
func matchesSearch(o domain.Order, query string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}

	idQuery := strings.TrimPrefix(query, "#")
	id := strings.ToLower(o.ID.String())
	if len(idQuery) <= 6 {
		if strings.HasSuffix(id, idQuery) {
			return true
		}
	} else if strings.Contains(id, idQuery) {
		return true
	}

	if strings.Contains(strings.ToLower(o.Client.Name), query) {
		return true
	}
	if o.Master != nil && strings.Contains(strings.ToLower(o.Master.FullName), query) {
		return true
	}
	if strings.Contains(strings.ToLower(o.FullAddress), query) {
		return true
	}

	if queryDigits := digitsOf(query); queryDigits != "" {
		if phoneContains(o.Client.Phone, queryDigits) {
			return true
		}
		if o.Master != nil && phoneContains(o.Master.Phone, queryDigits) {
			return true
		}
	}

	return false
}

// phoneContains compares digits only. A leading trunk zero in the query is
// also tried without the zero, so "0700..." finds the stored "+996700..."
// form.
func phoneContains(phone, queryDigits string) bool {
	phoneDigits := digitsOf(phone)
	if strings.Contains(phoneDigits, queryDigits) {
		return true
	}
	if strings.HasPrefix(queryDigits, "0") {
		return strings.Contains(phoneDigits, strings.TrimPrefix(queryDigits, "0"))
	}
	return false
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sortOrders sorts by created_at, newest first unless oldest is requested.
// The sort is stable so equal timestamps keep their relative order.
func sortOrders(orders []domain.Order, order SortOrder) {
	if order == SortOldest {
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		})
		return
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
