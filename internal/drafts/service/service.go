package service

import (
	"context"
	"time"

	"orderdesk_backend/internal/drafts/repository"
	"orderdesk_backend/internal/drafts/transport"
	"orderdesk_backend/platform/debounce"
	"orderdesk_backend/platform/logger"

	"github.com/google/uuid"
)

// saveDelay coalesces the keystroke-driven autosave bursts from the intake
// form into one Redis write per pause.
const saveDelay = time.Second

// Service provides business logic for intake form drafts and address
// suggestions.
type Service struct {
	repo      *repository.Repository
	log       *logger.Logger
	debouncer *debounce.Debouncer
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		log:       log,
		debouncer: debounce.New(saveDelay),
	}
}

// Save schedules a debounced write of the dispatcher's draft. An empty
// draft discards the stored one instead of persisting a blank form.
func (s *Service) Save(userID uuid.UUID, draft transport.OrderDraft) {
	key := userID.String()
	s.debouncer.Call(key, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if draft.Empty() {
			if err := s.repo.DeleteDraft(ctx, userID); err != nil {
				s.log.DraftError("discard_empty", key, err)
			}
			return
		}
		if err := s.repo.SaveDraft(ctx, userID, draft); err != nil {
			s.log.DraftError("save", key, err)
		}
	})
}

// Get returns the dispatcher's stored draft, flushing any pending save
// first so a reload right after typing sees the latest state.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (transport.DraftResponse, error) {
	s.debouncer.Flush(userID.String())

	draft, savedAt, err := s.repo.GetDraft(ctx, userID)
	if err != nil {
		return transport.DraftResponse{}, err
	}
	resp := transport.DraftResponse{Draft: draft}
	if draft != nil {
		resp.SavedAt = &savedAt
	}
	return resp, nil
}

// Discard drops the stored draft and any pending save.
func (s *Service) Discard(ctx context.Context, userID uuid.UUID) error {
	s.debouncer.Cancel(userID.String())
	return s.repo.DeleteDraft(ctx, userID)
}

// RecordAddress remembers an address the dispatcher just used.
func (s *Service) RecordAddress(ctx context.Context, userID uuid.UUID, address transport.RecentAddress) error {
	return s.repo.RecordAddress(ctx, userID, address)
}

// RecentAddresses lists the dispatcher's last used addresses, most recent
// first.
func (s *Service) RecentAddresses(ctx context.Context, userID uuid.UUID) (transport.RecentAddressesResponse, error) {
	addresses, err := s.repo.RecentAddresses(ctx, userID)
	if err != nil {
		return transport.RecentAddressesResponse{}, err
	}
	return transport.RecentAddressesResponse{Addresses: addresses}, nil
}

// Close drops pending saves; called on shutdown.
func (s *Service) Close() {
	s.debouncer.Close()
}
