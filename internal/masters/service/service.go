package service

import (
	"context"

	"orderdesk_backend/internal/masters/repository"
	"orderdesk_backend/internal/masters/transport"
	"orderdesk_backend/platform/apperr"
	"orderdesk_backend/platform/phone"
	"orderdesk_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service provides business logic for the master roster.
type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, onlyAvailable bool) ([]transport.MasterResponse, error) {
	masters, err := s.repo.List(ctx, onlyAvailable)
	if err != nil {
		return nil, err
	}
	return transport.ToMasterListResponse(masters), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.MasterResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.MasterResponse{}, err
	}
	return transport.ToMasterResponse(*m), nil
}

// Create registers a new master. New masters start unverified and active;
// an admin flips verified once the paperwork checks out.
func (s *Service) Create(ctx context.Context, req transport.CreateMasterRequest) (transport.MasterResponse, error) {
	normalized, err := phone.Normalize(req.Phone)
	if err != nil {
		return transport.MasterResponse{}, apperr.Validation("invalid master phone number")
	}

	m := repository.Master{
		ID:            uuid.New(),
		FullName:      sanitize.Text(req.FullName),
		Phone:         normalized,
		Verified:      false,
		Active:        true,
		MaxActiveJobs: req.MaxActiveJobs,
	}
	if err := s.repo.Create(ctx, &m); err != nil {
		return transport.MasterResponse{}, err
	}
	return s.Get(ctx, m.ID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateMasterRequest) (transport.MasterResponse, error) {
	patch := repository.Patch{
		FullName:      sanitize.TextPtr(req.FullName),
		Verified:      req.Verified,
		Active:        req.Active,
		MaxActiveJobs: req.MaxActiveJobs,
	}
	if req.Phone != nil {
		normalized, err := phone.Normalize(*req.Phone)
		if err != nil {
			return transport.MasterResponse{}, apperr.Validation("invalid master phone number")
		}
		patch.Phone = &normalized
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return transport.MasterResponse{}, err
	}
	return s.Get(ctx, id)
}
