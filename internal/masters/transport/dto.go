package transport

import (
	"time"

	"orderdesk_backend/internal/masters/repository"

	"github.com/google/uuid"
)

// Request DTOs
type CreateMasterRequest struct {
	FullName      string `json:"fullName" validate:"required,min=1,max=150"`
	Phone         string `json:"phone" validate:"required,kgphone"`
	MaxActiveJobs int    `json:"maxActiveJobs" validate:"required,min=1,max=20"`
}

type UpdateMasterRequest struct {
	FullName      *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=150"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,kgphone"`
	Verified      *bool   `json:"verified,omitempty"`
	Active        *bool   `json:"active,omitempty"`
	MaxActiveJobs *int    `json:"maxActiveJobs,omitempty" validate:"omitempty,min=1,max=20"`
}

type ListMastersQuery struct {
	// Available narrows the list to masters that can take a new job right
	// now: verified, active and below capacity.
	Available bool `form:"available"`
}

// Response DTOs
type MasterResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"fullName"`
	Phone         string    `json:"phone"`
	Verified      bool      `json:"verified"`
	Active        bool      `json:"active"`
	ActiveJobs    int       `json:"activeJobs"`
	MaxActiveJobs int       `json:"maxActiveJobs"`
	AtCapacity    bool      `json:"atCapacity"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func ToMasterResponse(m repository.Master) MasterResponse {
	return MasterResponse{
		ID:            m.ID,
		FullName:      m.FullName,
		Phone:         m.Phone,
		Verified:      m.Verified,
		Active:        m.Active,
		ActiveJobs:    m.ActiveJobs,
		MaxActiveJobs: m.MaxActiveJobs,
		AtCapacity:    m.ActiveJobs >= m.MaxActiveJobs,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToMasterListResponse(masters []repository.Master) []MasterResponse {
	out := make([]MasterResponse, 0, len(masters))
	for _, m := range masters {
		out = append(out, ToMasterResponse(m))
	}
	return out
}
