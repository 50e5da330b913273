package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"tabungan/internal/core"
	"tabungan/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Reader = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) FindGroupByName(ctx context.Context, name string) (core.Group, error) {
	g, err := r.queries.GetGroupByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Group{}, store.ErrNotFound
	}
	if err != nil {
		return core.Group{}, fmt.Errorf("get group by name: %w", err)
	}
	return toGroup(g), nil
}

func (r *SQLiteRepository) FindEarliestGroup(ctx context.Context) (core.Group, error) {
	g, err := r.queries.GetEarliestGroup(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Group{}, store.ErrNotFound
	}
	if err != nil {
		return core.Group{}, fmt.Errorf("get earliest group: %w", err)
	}
	return toGroup(g), nil
}

func (r *SQLiteRepository) ListMembers(ctx context.Context, groupID string) ([]core.Member, error) {
	rows, err := r.queries.ListMembersByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]core.Member, len(rows))
	for i, m := range rows {
		members[i] = core.Member{
			ID:          m.ID,
			GroupID:     m.GroupID,
			DisplayName: m.DisplayName,
			AvatarURL:   m.AvatarUrl,
			CreatedAt:   m.CreatedAt.Time,
		}
		if m.TargetAmountCents.Valid {
			members[i].Target = core.Money{Cents: m.TargetAmountCents.Int64}
		}
	}
	return members, nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, groupID string) ([]core.Entry, error) {
	rows, err := r.queries.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	entries := make([]core.Entry, 0, len(rows))
	for _, e := range rows {
		date, err := core.ParseDate(e.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("entry %s: transaction_date: %w", e.ID, err)
		}
		typ, err := core.ParseEntryType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		entries = append(entries, core.Entry{
			ID:       e.ID,
			GroupID:  e.GroupID,
			MemberID: e.MemberID,
			Date:     date,
			Amount:   core.Money{Cents: e.AmountCents},
			Type:     typ,
			Note:     e.Note,
		})
	}
	// transaction_date is TEXT and may carry an offset, so the SQL order is
	// only a pre-sort; the final order compares instants like the other stores.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date.Time) })
	return entries, nil
}

func toGroup(g SavingGroup) core.Group {
	return core.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Target:      core.Money{Cents: g.TargetTotalCents},
		AvatarURL:   g.AvatarUrl,
		CreatedAt:   g.CreatedAt.Time,
	}
}
