package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"orderdesk_backend/internal/drafts/transport"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) (*Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestSaveAndGetDraft(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	draft := transport.OrderDraft{
		ClientName:  "Aibek",
		ClientPhone: "0700123456",
		Area:        "Oktyabrsky",
	}
	if err := repo.SaveDraft(ctx, userID, draft); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	got, savedAt, err := repo.GetDraft(ctx, userID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got == nil {
		t.Fatal("expected a draft, got nil")
	}
	if got.ClientName != "Aibek" || got.Area != "Oktyabrsky" {
		t.Errorf("draft round trip mismatch: %+v", got)
	}
	if savedAt.IsZero() {
		t.Error("expected savedAt to be set")
	}
}

func TestGetDraftMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, _, err := repo.GetDraft(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil draft, got %+v", got)
	}
}

func TestGetDraftDiscardsStale(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	// Stored envelope claims a save time older than the TTL.
	stale, _ := json.Marshal(struct {
		SavedAt time.Time            `json:"savedAt"`
		Draft   transport.OrderDraft `json:"draft"`
	}{
		SavedAt: time.Now().Add(-25 * time.Hour),
		Draft:   transport.OrderDraft{ClientName: "old"},
	})
	mr.Set(draftKey(userID), string(stale))

	got, _, err := repo.GetDraft(ctx, userID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got != nil {
		t.Errorf("expected stale draft to be discarded, got %+v", got)
	}
	if mr.Exists(draftKey(userID)) {
		t.Error("expected stale draft key to be deleted")
	}
}

func TestGetDraftDiscardsCorrupt(t *testing.T) {
	repo, mr := newTestRepo(t)
	userID := uuid.New()
	mr.Set(draftKey(userID), "{not json")

	got, _, err := repo.GetDraft(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got != nil {
		t.Errorf("expected corrupt draft to be discarded, got %+v", got)
	}
}

func TestDeleteDraft(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := repo.SaveDraft(ctx, userID, transport.OrderDraft{ClientName: "x"}); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := repo.DeleteDraft(ctx, userID); err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	if mr.Exists(draftKey(userID)) {
		t.Error("expected draft key to be gone")
	}
}

func TestRecordAddressDedupAndCap(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	streets := []string{
		"Chuy Avenue 12", "Kievskaya 95", "Toktogula 4", "Moskovskaya 120",
		"Manas Avenue 40", "Baytik Baatyra 3", "Akhunbaeva 119", "Yunusalieva 80",
		"Zhibek Zholu 555", "Isanova 79", "Tynystanova 98",
	}
	for _, street := range streets {
		a := transport.RecentAddress{Area: "Center", FullAddress: street}
		if err := repo.RecordAddress(ctx, userID, a); err != nil {
			t.Fatalf("RecordAddress(%q): %v", street, err)
		}
	}

	got, err := repo.RecentAddresses(ctx, userID)
	if err != nil {
		t.Fatalf("RecentAddresses: %v", err)
	}
	if len(got) != MaxRecentAddresses {
		t.Fatalf("expected %d addresses, got %d", MaxRecentAddresses, len(got))
	}
	if got[0].FullAddress != "Tynystanova 98" {
		t.Errorf("expected most recent address first, got %q", got[0].FullAddress)
	}
	if got[0].Area != "Center" {
		t.Errorf("expected area to ride along, got %q", got[0].Area)
	}
	// The oldest entry fell off the end.
	for _, a := range got {
		if a.FullAddress == "Chuy Avenue 12" {
			t.Error("expected oldest address to be evicted")
		}
	}

	// A repeat moves to the front without duplicating, case-insensitively
	// on the full address.
	repeat := transport.RecentAddress{Area: "Asanbay", FullAddress: "kievskaya 95"}
	if err := repo.RecordAddress(ctx, userID, repeat); err != nil {
		t.Fatalf("RecordAddress repeat: %v", err)
	}
	got, err = repo.RecentAddresses(ctx, userID)
	if err != nil {
		t.Fatalf("RecentAddresses: %v", err)
	}
	if got[0].FullAddress != "kievskaya 95" || got[0].Area != "Asanbay" {
		t.Errorf("expected repeat to move to front with its area, got %+v", got[0])
	}
	seen := 0
	for _, a := range got {
		if strings.EqualFold(a.FullAddress, "Kievskaya 95") {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("expected a single entry for repeated address, got %d", seen)
	}
}

func TestRecordAddressSkipsBlank(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := repo.RecordAddress(ctx, userID, transport.RecentAddress{Area: "Center", FullAddress: "   "}); err != nil {
		t.Fatalf("RecordAddress: %v", err)
	}
	got, err := repo.RecentAddresses(ctx, userID)
	if err != nil {
		t.Fatalf("RecentAddresses: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no addresses, got %v", got)
	}
}
