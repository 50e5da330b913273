package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tabungan/internal/core"
	"tabungan/internal/store"
)

func at(day int) time.Time {
	return time.Date(2025, 1, day, 9, 0, 0, 0, time.UTC)
}

func TestMemoryStoreQueries(t *testing.T) {
	s := New(
		[]core.Group{
			{ID: "g2", Name: "Rumah", CreatedAt: at(2)},
			{ID: "g1", Name: "Liburan", CreatedAt: at(1)},
		},
		[]core.Member{
			{ID: "m2", GroupID: "g1", DisplayName: "Budi", CreatedAt: at(3)},
			{ID: "m1", GroupID: "g1", DisplayName: "Ayu", CreatedAt: at(2)},
			{ID: "m3", GroupID: "g2", DisplayName: "Citra", CreatedAt: at(1)},
		},
		[]core.Entry{
			{ID: "e1", GroupID: "g1", MemberID: "m1", Date: core.NewDate(2025, 2, 1), Type: core.Deposit},
			{ID: "e2", GroupID: "g1", MemberID: "m2", Date: core.NewDate(2025, 3, 1), Type: core.Deposit},
			{ID: "e3", GroupID: "g2", MemberID: "m3", Date: core.NewDate(2025, 4, 1), Type: core.Deposit},
		},
	)
	ctx := context.Background()

	g, err := s.FindGroupByName(ctx, "Rumah")
	if err != nil || g.ID != "g2" {
		t.Fatalf("unexpected group: %+v err=%v", g, err)
	}
	if _, err := s.FindGroupByName(ctx, "Mobil"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	g, err = s.FindEarliestGroup(ctx)
	if err != nil || g.ID != "g1" {
		t.Fatalf("expected earliest g1, got %+v err=%v", g, err)
	}

	members, _ := s.ListMembers(ctx, "g1")
	if len(members) != 2 || members[0].ID != "m1" || members[1].ID != "m2" {
		t.Fatalf("unexpected members order: %+v", members)
	}
	entries, _ := s.ListEntries(ctx, "g1")
	if len(entries) != 2 || entries[0].ID != "e2" || entries[1].ID != "e1" {
		t.Fatalf("expected newest first, got %+v", entries)
	}
}

func TestMemoryStoreEmpty(t *testing.T) {
	s := New(nil, nil, nil)
	if _, err := s.FindEarliestGroup(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	members, err := s.ListMembers(context.Background(), "g1")
	if err != nil || members == nil || len(members) != 0 {
		t.Fatalf("expected empty non-nil list, got %v err=%v", members, err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	// No file -> empty store
	s, err := NewFromFiles(dir)
	if err != nil {
		t.Fatalf("missing seed should not fail: %v", err)
	}
	if _, err := s.FindEarliestGroup(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected empty store")
	}

	mustWrite := func(content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(content), 0o644); err != nil {
			t.Fatalf("write seed: %v", err)
		}
	}
	mustWrite(`{
  "groups": [{"id": "g1", "name": "Liburan", "target_total_cents": 100000, "created_at": "2025-01-01T00:00:00Z"}],
  "members": [
    {"id": "m1", "group_id": "g1", "display_name": "Ayu", "target_amount_cents": 50000, "created_at": "2025-01-01T00:00:00Z"},
    {"id": "m2", "group_id": "g1", "display_name": "Budi", "target_amount_cents": null, "created_at": "2025-01-02T00:00:00Z"}
  ],
  "entries": [{"id": "e1", "group_id": "g1", "member_id": "m1", "transaction_date": "2025-10-05", "amount_cents": 40000, "type": "deposit", "note": " Gajian "}]
}`)
	s, err = NewFromFiles(dir)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	members, _ := s.ListMembers(context.Background(), "g1")
	if len(members) != 2 || members[0].Target.Cents != 50000 || members[1].Target.Cents != 0 {
		t.Fatalf("unexpected members: %+v", members)
	}
	entries, _ := s.ListEntries(context.Background(), "g1")
	if len(entries) != 1 || entries[0].Note != "Gajian" || entries[0].Type != core.Deposit {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	mustWrite(`{"entries": [{"id": "e1", "group_id": "g1", "member_id": "m1", "transaction_date": "2025-10-05", "amount_cents": 1, "type": "refund"}]}`)
	if _, err := NewFromFiles(dir); err == nil {
		t.Fatalf("expected error for invalid entry type")
	}
}
