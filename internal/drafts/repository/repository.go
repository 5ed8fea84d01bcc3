package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderdesk_backend/internal/drafts/transport"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Drafts live for a day. A draft older than that is stale garbage, not a
// form worth restoring.
const DraftTTL = 24 * time.Hour

// MaxRecentAddresses caps the per-dispatcher address suggestion list.
const MaxRecentAddresses = 10

// envelope wraps the stored draft with its save time so staleness can be
// checked on read even if the key outlived its TTL (e.g. restored dump).
type envelope struct {
	SavedAt time.Time            `json:"savedAt"`
	Draft   transport.OrderDraft `json:"draft"`
}

// Repository is the Redis-backed draft and recent-address store.
type Repository struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Repository {
	return &Repository{rdb: rdb}
}

func draftKey(userID uuid.UUID) string {
	return "orderdesk:draft:order:" + userID.String()
}

func addressesKey(userID uuid.UUID) string {
	return "orderdesk:addresses:recent:" + userID.String()
}

// SaveDraft stores the draft under the dispatcher's key with a fresh TTL.
func (r *Repository) SaveDraft(ctx context.Context, userID uuid.UUID, draft transport.OrderDraft) error {
	payload, err := json.Marshal(envelope{SavedAt: time.Now(), Draft: draft})
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := r.rdb.Set(ctx, draftKey(userID), payload, DraftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// GetDraft returns the dispatcher's draft, or (nil, zero, nil) when there
// is none. A stale draft is discarded as if it never existed.
func (r *Repository) GetDraft(ctx context.Context, userID uuid.UUID) (*transport.OrderDraft, time.Time, error) {
	payload, err := r.rdb.Get(ctx, draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get draft: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		// A corrupt draft is unrecoverable; drop it.
		_ = r.rdb.Del(ctx, draftKey(userID)).Err()
		return nil, time.Time{}, nil
	}

	if time.Since(env.SavedAt) > DraftTTL {
		_ = r.rdb.Del(ctx, draftKey(userID)).Err()
		return nil, time.Time{}, nil
	}

	return &env.Draft, env.SavedAt, nil
}

// DeleteDraft discards the dispatcher's draft.
func (r *Repository) DeleteDraft(ctx context.Context, userID uuid.UUID) error {
	if err := r.rdb.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// RecordAddress pushes an address to the front of the dispatcher's
// recent list. Duplicates (case-insensitive on the full address) move to
// the front instead of appearing twice; the list is capped at
// MaxRecentAddresses.
func (r *Repository) RecordAddress(ctx context.Context, userID uuid.UUID, address transport.RecentAddress) error {
	address.Area = strings.TrimSpace(address.Area)
	address.FullAddress = strings.TrimSpace(address.FullAddress)
	if address.FullAddress == "" {
		return nil
	}

	key := addressesKey(userID)
	existing, err := r.readAddresses(ctx, key)
	if err != nil {
		return err
	}

	fresh := make([]transport.RecentAddress, 0, len(existing)+1)
	fresh = append(fresh, address)
	for _, a := range existing {
		if strings.EqualFold(strings.TrimSpace(a.FullAddress), address.FullAddress) {
			continue
		}
		fresh = append(fresh, a)
	}
	if len(fresh) > MaxRecentAddresses {
		fresh = fresh[:MaxRecentAddresses]
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key)
	for _, a := range fresh {
		payload, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to marshal address: %w", err)
		}
		pipe.RPush(ctx, key, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record address: %w", err)
	}
	return nil
}

// RecentAddresses returns the dispatcher's addresses, most recent first.
func (r *Repository) RecentAddresses(ctx context.Context, userID uuid.UUID) ([]transport.RecentAddress, error) {
	return r.readAddresses(ctx, addressesKey(userID))
}

func (r *Repository) readAddresses(ctx context.Context, key string) ([]transport.RecentAddress, error) {
	entries, err := r.rdb.LRange(ctx, key, 0, MaxRecentAddresses-1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to list recent addresses: %w", err)
	}

	addresses := make([]transport.RecentAddress, 0, len(entries))
	for _, entry := range entries {
		var a transport.RecentAddress
		if err := json.Unmarshal([]byte(entry), &a); err != nil {
			// Skip entries an older deploy may have left behind.
			continue
		}
		addresses = append(addresses, a)
	}
	return addresses, nil
}
