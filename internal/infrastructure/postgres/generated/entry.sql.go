package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countEntriesByAccount = `-- name: CountEntriesByAccount :one
SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1
`

func (q *Queries) CountEntriesByAccount(ctx context.Context, accountID string) (int64, error) {
	row := q.db.QueryRow(ctx, countEntriesByAccount, accountID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

type CreateEntriesParams struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	EffectiveDate pgtype.Date        `json:"effective_date"`
	Description   string             `json:"description"`
	RawAmount     pgtype.Numeric     `json:"raw_amount"`
	SignedAmount  pgtype.Numeric     `json:"signed_amount"`
	CategoryID    *string            `json:"category_id"`
	IsMatched     bool               `json:"is_matched"`
	SourceLineID  *string            `json:"source_line_id"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

const createEntry = `-- name: CreateEntry :exec
INSERT INTO ledger_entries (id, account_id, effective_date, description, raw_amount, signed_amount, category_id, is_matched, source_line_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type CreateEntryParams struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	EffectiveDate pgtype.Date        `json:"effective_date"`
	Description   string             `json:"description"`
	RawAmount     pgtype.Numeric     `json:"raw_amount"`
	SignedAmount  pgtype.Numeric     `json:"signed_amount"`
	CategoryID    *string            `json:"category_id"`
	IsMatched     bool               `json:"is_matched"`
	SourceLineID  *string            `json:"source_line_id"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) error {
	_, err := q.db.Exec(ctx, createEntry,
		arg.ID,
		arg.AccountID,
		arg.EffectiveDate,
		arg.Description,
		arg.RawAmount,
		arg.SignedAmount,
		arg.CategoryID,
		arg.IsMatched,
		arg.SourceLineID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteEntry = `-- name: DeleteEntry :execrows
DELETE FROM ledger_entries WHERE id = $1
`

func (q *Queries) DeleteEntry(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteEntry, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getEntryByID = `-- name: GetEntryByID :one
SELECT id, account_id, effective_date, description, raw_amount, signed_amount, category_id, is_matched, source_line_id, created_at, updated_at FROM ledger_entries WHERE id = $1
`

func (q *Queries) GetEntryByID(ctx context.Context, id string) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, getEntryByID, id)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.EffectiveDate,
		&i.Description,
		&i.RawAmount,
		&i.SignedAmount,
		&i.CategoryID,
		&i.IsMatched,
		&i.SourceLineID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getEntryByIDForUpdate = `-- name: GetEntryByIDForUpdate :one
SELECT id, account_id, effective_date, description, raw_amount, signed_amount, category_id, is_matched, source_line_id, created_at, updated_at FROM ledger_entries WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetEntryByIDForUpdate(ctx context.Context, id string) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, getEntryByIDForUpdate, id)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.EffectiveDate,
		&i.Description,
		&i.RawAmount,
		&i.SignedAmount,
		&i.CategoryID,
		&i.IsMatched,
		&i.SourceLineID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getEntryBySourceLine = `-- name: GetEntryBySourceLine :one
SELECT id, account_id, effective_date, description, raw_amount, signed_amount, category_id, is_matched, source_line_id, created_at, updated_at FROM ledger_entries WHERE account_id = $1 AND source_line_id = $2
`

type GetEntryBySourceLineParams struct {
	AccountID    string  `json:"account_id"`
	SourceLineID *string `json:"source_line_id"`
}

func (q *Queries) GetEntryBySourceLine(ctx context.Context, arg GetEntryBySourceLineParams) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, getEntryBySourceLine, arg.AccountID, arg.SourceLineID)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.EffectiveDate,
		&i.Description,
		&i.RawAmount,
		&i.SignedAmount,
		&i.CategoryID,
		&i.IsMatched,
		&i.SourceLineID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listEntriesByAccount = `-- name: ListEntriesByAccount :many
SELECT id, account_id, effective_date, description, raw_amount, signed_amount, category_id, is_matched, source_line_id, created_at, updated_at FROM ledger_entries
WHERE account_id = $1
ORDER BY effective_date DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListEntriesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListEntriesByAccount(ctx context.Context, arg ListEntriesByAccountParams) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, listEntriesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerEntry
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.EffectiveDate,
			&i.Description,
			&i.RawAmount,
			&i.SignedAmount,
			&i.CategoryID,
			&i.IsMatched,
			&i.SourceLineID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setEntryMatched = `-- name: SetEntryMatched :execrows
UPDATE ledger_entries SET is_matched = $2, updated_at = $3 WHERE id = $1
`

type SetEntryMatchedParams struct {
	ID        string             `json:"id"`
	IsMatched bool               `json:"is_matched"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SetEntryMatched(ctx context.Context, arg SetEntryMatchedParams) (int64, error) {
	result, err := q.db.Exec(ctx, setEntryMatched, arg.ID, arg.IsMatched, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const sumSignedByAccount = `-- name: SumSignedByAccount :one
SELECT COALESCE(SUM(signed_amount), 0)::numeric AS total FROM ledger_entries WHERE account_id = $1
`

func (q *Queries) SumSignedByAccount(ctx context.Context, accountID string) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumSignedByAccount, accountID)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

const updateEntry = `-- name: UpdateEntry :execrows
UPDATE ledger_entries
SET account_id = $2, effective_date = $3, description = $4, raw_amount = $5, signed_amount = $6, category_id = $7, updated_at = $8
WHERE id = $1
`

type UpdateEntryParams struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	EffectiveDate pgtype.Date        `json:"effective_date"`
	Description   string             `json:"description"`
	RawAmount     pgtype.Numeric     `json:"raw_amount"`
	SignedAmount  pgtype.Numeric     `json:"signed_amount"`
	CategoryID    *string            `json:"category_id"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateEntry(ctx context.Context, arg UpdateEntryParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateEntry,
		arg.ID,
		arg.AccountID,
		arg.EffectiveDate,
		arg.Description,
		arg.RawAmount,
		arg.SignedAmount,
		arg.CategoryID,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateEntryDescription = `-- name: UpdateEntryDescription :execrows
UPDATE ledger_entries SET description = $2, updated_at = $3 WHERE id = $1
`

type UpdateEntryDescriptionParams struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateEntryDescription(ctx context.Context, arg UpdateEntryDescriptionParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateEntryDescription, arg.ID, arg.Description, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
