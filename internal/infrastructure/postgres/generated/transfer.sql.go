package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransfer = `-- name: CreateTransfer :exec
INSERT INTO transfers (id, from_entry_id, to_entry_id, created_at)
VALUES ($1, $2, $3, $4)
`

type CreateTransferParams struct {
	ID          string             `json:"id"`
	FromEntryID string             `json:"from_entry_id"`
	ToEntryID   string             `json:"to_entry_id"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateTransfer(ctx context.Context, arg CreateTransferParams) error {
	_, err := q.db.Exec(ctx, createTransfer,
		arg.ID,
		arg.FromEntryID,
		arg.ToEntryID,
		arg.CreatedAt,
	)
	return err
}

const deleteTransfer = `-- name: DeleteTransfer :execrows
DELETE FROM transfers WHERE id = $1
`

func (q *Queries) DeleteTransfer(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTransfer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getTransferByEntryID = `-- name: GetTransferByEntryID :one
SELECT id, from_entry_id, to_entry_id, created_at FROM transfers WHERE from_entry_id = $1 OR to_entry_id = $1
`

func (q *Queries) GetTransferByEntryID(ctx context.Context, entryID string) (Transfer, error) {
	row := q.db.QueryRow(ctx, getTransferByEntryID, entryID)
	var i Transfer
	err := row.Scan(
		&i.ID,
		&i.FromEntryID,
		&i.ToEntryID,
		&i.CreatedAt,
	)
	return i, err
}

const getTransferByID = `-- name: GetTransferByID :one
SELECT id, from_entry_id, to_entry_id, created_at FROM transfers WHERE id = $1
`

func (q *Queries) GetTransferByID(ctx context.Context, id string) (Transfer, error) {
	row := q.db.QueryRow(ctx, getTransferByID, id)
	var i Transfer
	err := row.Scan(
		&i.ID,
		&i.FromEntryID,
		&i.ToEntryID,
		&i.CreatedAt,
	)
	return i, err
}

const getTransferByIDForUpdate = `-- name: GetTransferByIDForUpdate :one
SELECT id, from_entry_id, to_entry_id, created_at FROM transfers WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetTransferByIDForUpdate(ctx context.Context, id string) (Transfer, error) {
	row := q.db.QueryRow(ctx, getTransferByIDForUpdate, id)
	var i Transfer
	err := row.Scan(
		&i.ID,
		&i.FromEntryID,
		&i.ToEntryID,
		&i.CreatedAt,
	)
	return i, err
}
