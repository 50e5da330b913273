package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type SavingGroup struct {
	ID               string
	Name             string
	Description      string
	TargetTotalCents int64
	AvatarUrl        string
	CreatedAt        sql.NullTime
}

type SavingGroupMember struct {
	ID                string
	GroupID           string
	DisplayName       string
	TargetAmountCents sql.NullInt64
	AvatarUrl         string
	CreatedAt         sql.NullTime
}

type SavingGroupEntry struct {
	ID              string
	GroupID         string
	MemberID        string
	TransactionDate string
	AmountCents     int64
	Type            string
	Note            string
}

const groupColumns = `id, name, description, target_total_cents, avatar_url, created_at`

const getGroupByName = `-- name: GetGroupByName :one
SELECT ` + groupColumns + ` FROM saving_groups
WHERE name = ?
ORDER BY created_at ASC, id ASC
LIMIT 1
`

func (q *Queries) GetGroupByName(ctx context.Context, name string) (SavingGroup, error) {
	row := q.db.QueryRowContext(ctx, getGroupByName, name)
	return scanGroup(row)
}

const getEarliestGroup = `-- name: GetEarliestGroup :one
SELECT ` + groupColumns + ` FROM saving_groups
ORDER BY created_at ASC, id ASC
LIMIT 1
`

func (q *Queries) GetEarliestGroup(ctx context.Context) (SavingGroup, error) {
	row := q.db.QueryRowContext(ctx, getEarliestGroup)
	return scanGroup(row)
}

func scanGroup(row *sql.Row) (SavingGroup, error) {
	var i SavingGroup
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.TargetTotalCents,
		&i.AvatarUrl,
		&i.CreatedAt,
	)
	return i, err
}

const listMembersByGroup = `-- name: ListMembersByGroup :many
SELECT id, group_id, display_name, target_amount_cents, avatar_url, created_at
FROM saving_group_members
WHERE group_id = ?
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListMembersByGroup(ctx context.Context, groupID string) ([]SavingGroupMember, error) {
	rows, err := q.db.QueryContext(ctx, listMembersByGroup, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SavingGroupMember{}
	for rows.Next() {
		var i SavingGroupMember
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.DisplayName,
			&i.TargetAmountCents,
			&i.AvatarUrl,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEntriesByGroup = `-- name: ListEntriesByGroup :many
SELECT id, group_id, member_id, transaction_date, amount_cents, type, note
FROM saving_group_entries
WHERE group_id = ?
ORDER BY transaction_date DESC, created_at DESC, id DESC
`

func (q *Queries) ListEntriesByGroup(ctx context.Context, groupID string) ([]SavingGroupEntry, error) {
	rows, err := q.db.QueryContext(ctx, listEntriesByGroup, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SavingGroupEntry{}
	for rows.Next() {
		var i SavingGroupEntry
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.MemberID,
			&i.TransactionDate,
			&i.AmountCents,
			&i.Type,
			&i.Note,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
