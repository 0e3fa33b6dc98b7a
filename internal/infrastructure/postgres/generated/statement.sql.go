package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createStatement = `-- name: CreateStatement :exec
INSERT INTO statements (id, account_id, period_start, period_end, opening_balance, closing_balance, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateStatementParams struct {
	ID             string             `json:"id"`
	AccountID      string             `json:"account_id"`
	PeriodStart    pgtype.Date        `json:"period_start"`
	PeriodEnd      pgtype.Date        `json:"period_end"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	ClosingBalance pgtype.Numeric     `json:"closing_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateStatement(ctx context.Context, arg CreateStatementParams) error {
	_, err := q.db.Exec(ctx, createStatement,
		arg.ID,
		arg.AccountID,
		arg.PeriodStart,
		arg.PeriodEnd,
		arg.OpeningBalance,
		arg.ClosingBalance,
		arg.CreatedAt,
	)
	return err
}

type CreateStatementLinesParams struct {
	ID             string         `json:"id"`
	StatementID    string         `json:"statement_id"`
	PostedAt       pgtype.Date    `json:"posted_at"`
	Amount         pgtype.Numeric `json:"amount"`
	Description    string         `json:"description"`
	ExternalID     string         `json:"external_id"`
	MatchedEntryID *string        `json:"matched_entry_id"`
}

const deleteStatement = `-- name: DeleteStatement :execrows
DELETE FROM statements WHERE id = $1
`

func (q *Queries) DeleteStatement(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteStatement, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getStatementByID = `-- name: GetStatementByID :one
SELECT id, account_id, period_start, period_end, opening_balance, closing_balance, created_at FROM statements WHERE id = $1
`

func (q *Queries) GetStatementByID(ctx context.Context, id string) (Statement, error) {
	row := q.db.QueryRow(ctx, getStatementByID, id)
	var i Statement
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.PeriodStart,
		&i.PeriodEnd,
		&i.OpeningBalance,
		&i.ClosingBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getStatementByIDForUpdate = `-- name: GetStatementByIDForUpdate :one
SELECT id, account_id, period_start, period_end, opening_balance, closing_balance, created_at FROM statements WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetStatementByIDForUpdate(ctx context.Context, id string) (Statement, error) {
	row := q.db.QueryRow(ctx, getStatementByIDForUpdate, id)
	var i Statement
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.PeriodStart,
		&i.PeriodEnd,
		&i.OpeningBalance,
		&i.ClosingBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getStatementLineForUpdate = `-- name: GetStatementLineForUpdate :one
SELECT l.id, l.statement_id, l.posted_at, l.amount, l.description, l.external_id, l.matched_entry_id, e.id AS realized_entry_id
FROM statement_lines l
LEFT JOIN ledger_entries e ON e.source_line_id = l.id
WHERE l.id = $1
FOR UPDATE OF l
`

type GetStatementLineForUpdateRow struct {
	ID              string         `json:"id"`
	StatementID     string         `json:"statement_id"`
	PostedAt        pgtype.Date    `json:"posted_at"`
	Amount          pgtype.Numeric `json:"amount"`
	Description     string         `json:"description"`
	ExternalID      string         `json:"external_id"`
	MatchedEntryID  *string        `json:"matched_entry_id"`
	RealizedEntryID *string        `json:"realized_entry_id"`
}

func (q *Queries) GetStatementLineForUpdate(ctx context.Context, id string) (GetStatementLineForUpdateRow, error) {
	row := q.db.QueryRow(ctx, getStatementLineForUpdate, id)
	var i GetStatementLineForUpdateRow
	err := row.Scan(
		&i.ID,
		&i.StatementID,
		&i.PostedAt,
		&i.Amount,
		&i.Description,
		&i.ExternalID,
		&i.MatchedEntryID,
		&i.RealizedEntryID,
	)
	return i, err
}

const getStatementLines = `-- name: GetStatementLines :many
SELECT l.id, l.statement_id, l.posted_at, l.amount, l.description, l.external_id, l.matched_entry_id, e.id AS realized_entry_id
FROM statement_lines l
LEFT JOIN ledger_entries e ON e.source_line_id = l.id
WHERE l.statement_id = $1
ORDER BY l.posted_at, l.id
`

type GetStatementLinesRow struct {
	ID              string         `json:"id"`
	StatementID     string         `json:"statement_id"`
	PostedAt        pgtype.Date    `json:"posted_at"`
	Amount          pgtype.Numeric `json:"amount"`
	Description     string         `json:"description"`
	ExternalID      string         `json:"external_id"`
	MatchedEntryID  *string        `json:"matched_entry_id"`
	RealizedEntryID *string        `json:"realized_entry_id"`
}

func (q *Queries) GetStatementLines(ctx context.Context, statementID string) ([]GetStatementLinesRow, error) {
	rows, err := q.db.Query(ctx, getStatementLines, statementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetStatementLinesRow
	for rows.Next() {
		var i GetStatementLinesRow
		if err := rows.Scan(
			&i.ID,
			&i.StatementID,
			&i.PostedAt,
			&i.Amount,
			&i.Description,
			&i.ExternalID,
			&i.MatchedEntryID,
			&i.RealizedEntryID,
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
