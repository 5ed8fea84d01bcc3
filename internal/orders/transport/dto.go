package transport

import (
	"time"

	"orderdesk_backend/internal/orders/domain"
	"orderdesk_backend/internal/orders/queue"
	"orderdesk_backend/internal/orders/stats"

	"github.com/google/uuid"
)

// Request DTOs
type CreateOrderRequest struct {
	ClientName         string     `json:"clientName" validate:"required,min=1,max=150"`
	ClientPhone        string     `json:"clientPhone" validate:"required,kgphone"`
	Urgency            string     `json:"urgency" validate:"required,oneof=planned urgent emergency"`
	ServiceType        string     `json:"serviceType" validate:"required,min=1,max=100"`
	Area               string     `json:"area" validate:"required,min=1,max=100"`
	FullAddress        string     `json:"fullAddress" validate:"required,min=1,max=300"`
	Orientir           string     `json:"orientir,omitempty" validate:"omitempty,max=300"`
	ProblemDescription string     `json:"problemDescription" validate:"required,min=1,max=2000"`
	DispatcherNote     string     `json:"dispatcherNote,omitempty" validate:"omitempty,max=2000"`
	PreferredDate      *time.Time `json:"preferredDate,omitempty"`
	CalloutFee         *int64     `json:"calloutFee,omitempty" validate:"omitempty,min=0"`
	InitialPrice       *int64     `json:"initialPrice,omitempty" validate:"omitempty,min=0"`
	IdempotencyKey     string     `json:"idempotencyKey" validate:"required,min=8,max=128"`
}

type UpdateOrderRequest struct {
	Urgency            *string    `json:"urgency,omitempty" validate:"omitempty,oneof=planned urgent emergency"`
	ServiceType        *string    `json:"serviceType,omitempty" validate:"omitempty,min=1,max=100"`
	Area               *string    `json:"area,omitempty" validate:"omitempty,min=1,max=100"`
	FullAddress        *string    `json:"fullAddress,omitempty" validate:"omitempty,min=1,max=300"`
	Orientir           *string    `json:"orientir,omitempty" validate:"omitempty,max=300"`
	ProblemDescription *string    `json:"problemDescription,omitempty" validate:"omitempty,min=1,max=2000"`
	DispatcherNote     *string    `json:"dispatcherNote,omitempty" validate:"omitempty,max=2000"`
	PreferredDate      *time.Time `json:"preferredDate,omitempty"`
	CalloutFee         *int64     `json:"calloutFee,omitempty" validate:"omitempty,min=0"`
	InitialPrice       *int64     `json:"initialPrice,omitempty" validate:"omitempty,min=0"`
	IsDisputed         *bool      `json:"isDisputed,omitempty"`
}

type AssignRequest struct {
	MasterID uuid.UUID `json:"masterId" validate:"required"`
	Note     string    `json:"note,omitempty" validate:"omitempty,max=2000"`
}

type UnassignRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type TransferRequest struct {
	DispatcherID uuid.UUID `json:"dispatcherId" validate:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

type CompleteRequest struct {
	FinalPrice *int64 `json:"finalPrice,omitempty" validate:"omitempty,min=0"`
}

type ConfirmPaymentRequest struct {
	Method   string `json:"method" validate:"required,oneof=cash transfer card"`
	ProofURL string `json:"proofUrl,omitempty" validate:"omitempty,url,max=500"`
}

// ListOrdersQuery carries the queue filters. View selects the page size:
// "card" pages by 20, "compact" by 10.
type ListOrdersQuery struct {
	Search      string `form:"search"`
	Tab         string `form:"tab"`
	Urgency     string `form:"urgency"`
	ServiceType string `form:"serviceType"`
	Sort        string `form:"sort"`
	View        string `form:"view"`
	Page        int    `form:"page"`
	Mine        bool   `form:"mine"`
}

type StatsQuery struct {
	Window int `form:"window"`
}

// Response DTOs
type ClientResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type MasterRefResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Phone    string    `json:"phone"`
}

type OrderResponse struct {
	ID                   uuid.UUID          `json:"id"`
	Status               string             `json:"status"`
	StatusLabel          string             `json:"statusLabel"`
	StatusColor          string             `json:"statusColor"`
	IsDisputed           bool               `json:"isDisputed"`
	Urgency              string             `json:"urgency"`
	ServiceType          string             `json:"serviceType"`
	Area                 string             `json:"area"`
	FullAddress          string             `json:"fullAddress"`
	Orientir             string             `json:"orientir,omitempty"`
	ProblemDescription   string             `json:"problemDescription"`
	DispatcherNote       string             `json:"dispatcherNote,omitempty"`
	Client               ClientResponse     `json:"client"`
	Master               *MasterRefResponse `json:"master,omitempty"`
	DispatcherID         uuid.UUID          `json:"dispatcherId"`
	AssignedDispatcherID uuid.UUID          `json:"assignedDispatcherId"`
	PreferredDate        *time.Time         `json:"preferredDate,omitempty"`
	CalloutFee           *int64             `json:"calloutFee,omitempty"`
	InitialPrice         *int64             `json:"initialPrice,omitempty"`
	FinalPrice           *int64             `json:"finalPrice,omitempty"`
	PaymentMethod        string             `json:"paymentMethod,omitempty"`
	PaymentProofURL      string             `json:"paymentProofUrl,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

type OrderListResponse struct {
	Items      []OrderResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"perPage"`
	TotalPages int             `json:"totalPages"`
}

type AttentionItemResponse struct {
	Order    OrderResponse `json:"order"`
	Category string        `json:"category"`
}

type AttentionResponse struct {
	Items  []AttentionItemResponse `json:"items"`
	Counts map[string]int          `json:"counts"`
	Total  int                     `json:"total"`
}

type DayBucketResponse struct {
	Date    string `json:"date"`
	Created int    `json:"created"`
	Handled int    `json:"handled"`
}

type StatsCountsResponse struct {
	Created   int `json:"created"`
	Handled   int `json:"handled"`
	Completed int `json:"completed"`
	Canceled  int `json:"canceled"`
}

type StatsResponse struct {
	WindowDays     int                 `json:"windowDays"`
	Current        StatsCountsResponse `json:"current"`
	Previous       StatsCountsResponse `json:"previous"`
	CompletionRate float64             `json:"completionRate"`
	CancelRate     float64             `json:"cancelRate"`
	CreatedDelta   float64             `json:"createdDelta"`
	HandledDelta   float64             `json:"handledDelta"`
	CompletedDelta float64             `json:"completedDelta"`
	CanceledDelta  float64             `json:"canceledDelta"`
	Daily          []DayBucketResponse `json:"daily"`
}

func ToOrderResponse(o domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:                   o.ID,
		Status:               string(o.Status),
		StatusLabel:          o.Status.Label(),
		StatusColor:          o.Status.Color(),
		IsDisputed:           o.IsDisputed,
		Urgency:              string(o.Urgency),
		ServiceType:          o.ServiceType,
		Area:                 o.Area,
		FullAddress:          o.FullAddress,
		Orientir:             o.Orientir,
		ProblemDescription:   o.ProblemDescription,
		DispatcherNote:       o.DispatcherNote,
		Client:               ClientResponse{Name: o.Client.Name, Phone: o.Client.Phone},
		DispatcherID:         o.DispatcherID,
		AssignedDispatcherID: o.AssignedDispatcherID,
		PreferredDate:        o.PreferredDate,
		CalloutFee:           o.CalloutFee,
		InitialPrice:         o.InitialPrice,
		FinalPrice:           o.FinalPrice,
		PaymentMethod:        string(o.PaymentMethod),
		PaymentProofURL:      o.PaymentProofURL,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
	if o.Master != nil {
		resp.Master = &MasterRefResponse{
			ID:       o.Master.ID,
			FullName: o.Master.FullName,
			Phone:    o.Master.Phone,
		}
	}
	return resp
}

func ToOrderListResponse(r queue.Result) OrderListResponse {
	items := make([]OrderResponse, 0, len(r.Items))
	for _, o := range r.Items {
		items = append(items, ToOrderResponse(o))
	}
	return OrderListResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		PerPage:    r.PerPage,
		TotalPages: r.TotalPages,
	}
}

func ToAttentionResponse(items []domain.AttentionItem, counts map[domain.AttentionCategory]int) AttentionResponse {
	resp := AttentionResponse{
		Items:  make([]AttentionItemResponse, 0, len(items)),
		Counts: make(map[string]int, len(counts)),
		Total:  len(items),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, AttentionItemResponse{
			Order:    ToOrderResponse(it.Order),
			Category: string(it.Category),
		})
	}
	for cat, n := range counts {
		resp.Counts[string(cat)] = n
	}
	return resp
}

func ToStatsResponse(r stats.Report) StatsResponse {
	daily := make([]DayBucketResponse, 0, len(r.Daily))
	for _, b := range r.Daily {
		daily = append(daily, DayBucketResponse{
			Date:    b.Date.Format("2006-01-02"),
			Created: b.Created,
			Handled: b.Handled,
		})
	}
	toCounts := func(c stats.Counts) StatsCountsResponse {
		return StatsCountsResponse{
			Created:   c.Created,
			Handled:   c.Handled,
			Completed: c.Completed,
			Canceled:  c.Canceled,
		}
	}
	return StatsResponse{
		WindowDays:     r.WindowDays,
		Current:        toCounts(r.Current),
		Previous:       toCounts(r.Previous),
		CompletionRate: r.CompletionRate,
		CancelRate:     r.CancelRate,
		CreatedDelta:   r.CreatedDelta,
		HandledDelta:   r.HandledDelta,
		CompletedDelta: r.CompletedDelta,
		CanceledDelta:  r.CanceledDelta,
		Daily:          daily,
	}
}
