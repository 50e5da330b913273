package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"tabungan/internal/core"
	"tabungan/internal/store"
)

// SeedFile is the file NewFromFiles reads inside the data directory.
const SeedFile = "seed.json"

var _ store.Reader = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	groups  []core.Group
	members []core.Member
	entries []core.Entry
}

func New(groups []core.Group, members []core.Member, entries []core.Entry) *Store {
	return &Store{
		groups:  append([]core.Group(nil), groups...),
		members: append([]core.Member(nil), members...),
		entries: append([]core.Entry(nil), entries...),
	}
}

// NewFromFiles loads base/seed.json. A missing file yields an empty store,
// which the dashboard renders as its empty state.
func NewFromFiles(base string) (*Store, error) {
	path := filepath.Join(base, SeedFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(nil, nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return seed.toStore()
}

func (s *Store) FindGroupByName(_ context.Context, name string) (core.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groupsByCreation() {
		if g.Name == name {
			return g, nil
		}
	}
	return core.Group{}, store.ErrNotFound
}

func (s *Store) FindEarliestGroup(_ context.Context) (core.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := s.groupsByCreation()
	if len(groups) == 0 {
		return core.Group{}, store.ErrNotFound
	}
	return groups[0], nil
}

func (s *Store) ListMembers(_ context.Context, groupID string) ([]core.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Member, 0)
	for _, m := range s.members {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListEntries(_ context.Context, groupID string) ([]core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Entry, 0)
	for _, e := range s.entries {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

func (s *Store) groupsByCreation() []core.Group {
	groups := append([]core.Group(nil), s.groups...)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].CreatedAt.Before(groups[j].CreatedAt) })
	return groups
}

// seedFile mirrors the column names of the saving_* tables.
type seedFile struct {
	Groups []struct {
		ID               string    `json:"id"`
		Name             string    `json:"name"`
		Description      string    `json:"description"`
		TargetTotalCents int64     `json:"target_total_cents"`
		AvatarURL        string    `json:"avatar_url"`
		CreatedAt        time.Time `json:"created_at"`
	} `json:"groups"`
	Members []struct {
		ID                string    `json:"id"`
		GroupID           string    `json:"group_id"`
		DisplayName       string    `json:"display_name"`
		TargetAmountCents *int64    `json:"target_amount_cents"`
		AvatarURL         string    `json:"avatar_url"`
		CreatedAt         time.Time `json:"created_at"`
	} `json:"members"`
	Entries []struct {
		ID              string `json:"id"`
		GroupID         string `json:"group_id"`
		MemberID        string `json:"member_id"`
		TransactionDate string `json:"transaction_date"`
		AmountCents     int64  `json:"amount_cents"`
		Type            string `json:"type"`
		Note            string `json:"note"`
	} `json:"entries"`
}

func (f seedFile) toStore() (*Store, error) {
	groups := make([]core.Group, 0, len(f.Groups))
	for _, g := range f.Groups {
		group := core.Group{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Target:      core.Money{Cents: g.TargetTotalCents},
			AvatarURL:   g.AvatarURL,
			CreatedAt:   g.CreatedAt,
		}
		if err := group.Validate(); err != nil {
			return nil, fmt.Errorf("group %q: %w", g.ID, err)
		}
		groups = append(groups, group)
	}

	members := make([]core.Member, 0, len(f.Members))
	for _, m := range f.Members {
		member := core.Member{
			ID:          m.ID,
			GroupID:     m.GroupID,
			DisplayName: m.DisplayName,
			AvatarURL:   m.AvatarURL,
			CreatedAt:   m.CreatedAt,
		}
		if m.TargetAmountCents != nil {
			member.Target = core.Money{Cents: *m.TargetAmountCents}
		}
		if err := member.Validate(); err != nil {
			return nil, fmt.Errorf("member %q: %w", m.ID, err)
		}
		members = append(members, member)
	}

	entries := make([]core.Entry, 0, len(f.Entries))
	for _, e := range f.Entries {
		date, err := core.ParseDate(e.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("entry %q: transaction_date: %w", e.ID, err)
		}
		typ, err := core.ParseEntryType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.ID, err)
		}
		entry := core.Entry{
			ID:       e.ID,
			GroupID:  e.GroupID,
			MemberID: e.MemberID,
			Date:     date,
			Amount:   core.Money{Cents: e.AmountCents},
			Type:     typ,
			Note:     strings.TrimSpace(e.Note),
		}
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.ID, err)
		}
		entries = append(entries, entry)
	}

	return New(groups, members, entries), nil
}
