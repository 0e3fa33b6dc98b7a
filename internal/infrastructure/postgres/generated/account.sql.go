package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countAccounts = `-- name: CountAccounts :one
SELECT COUNT(*) FROM accounts
`

func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countAccounts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (id, owner_id, name, nature, subtype, currency, cached_balance, credit_limit, interest_rate_apr, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type CreateAccountParams struct {
	ID              string             `json:"id"`
	OwnerID         string             `json:"owner_id"`
	Name            string             `json:"name"`
	Nature          string             `json:"nature"`
	Subtype         string             `json:"subtype"`
	Currency        string             `json:"currency"`
	CachedBalance   pgtype.Numeric     `json:"cached_balance"`
	CreditLimit     pgtype.Numeric     `json:"credit_limit"`
	InterestRateApr pgtype.Numeric     `json:"interest_rate_apr"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.Exec(ctx, createAccount,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Nature,
		arg.Subtype,
		arg.Currency,
		arg.CachedBalance,
		arg.CreditLimit,
		arg.InterestRateApr,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteAccount = `-- name: DeleteAccount :execrows
DELETE FROM accounts WHERE id = $1
`

func (q *Queries) DeleteAccount(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAccount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, owner_id, name, nature, subtype, currency, cached_balance, credit_limit, interest_rate_apr, created_at, updated_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Nature,
		&i.Subtype,
		&i.Currency,
		&i.CachedBalance,
		&i.CreditLimit,
		&i.InterestRateApr,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByIDForUpdate = `-- name: GetAccountByIDForUpdate :one
SELECT id, owner_id, name, nature, subtype, currency, cached_balance, credit_limit, interest_rate_apr, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByIDForUpdate(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByIDForUpdate, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Nature,
		&i.Subtype,
		&i.Currency,
		&i.CachedBalance,
		&i.CreditLimit,
		&i.InterestRateApr,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountsByIDsForUpdate = `-- name: GetAccountsByIDsForUpdate :many
SELECT id, owner_id, name, nature, subtype, currency, cached_balance, credit_limit, interest_rate_apr, created_at, updated_at FROM accounts WHERE id = ANY($1::varchar[]) ORDER BY id FOR UPDATE
`

func (q *Queries) GetAccountsByIDsForUpdate(ctx context.Context, dollar_1 []string) ([]Account, error) {
	rows, err := q.db.Query(ctx, getAccountsByIDsForUpdate, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Nature,
			&i.Subtype,
			&i.Currency,
			&i.CachedBalance,
			&i.CreditLimit,
			&i.InterestRateApr,
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

const incrementAccountBalance = `-- name: IncrementAccountBalance :one
UPDATE accounts SET cached_balance = cached_balance + $2, updated_at = $3 WHERE id = $1
RETURNING cached_balance
`

type IncrementAccountBalanceParams struct {
	ID        string             `json:"id"`
	Delta     pgtype.Numeric     `json:"delta"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) IncrementAccountBalance(ctx context.Context, arg IncrementAccountBalanceParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, incrementAccountBalance, arg.ID, arg.Delta, arg.UpdatedAt)
	var cached_balance pgtype.Numeric
	err := row.Scan(&cached_balance)
	return cached_balance, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, owner_id, name, nature, subtype, currency, cached_balance, credit_limit, interest_rate_apr, created_at, updated_at FROM accounts
WHERE ($1::varchar = '' OR owner_id = $1::varchar)
ORDER BY id
LIMIT $2 OFFSET $3
`

type ListAccountsParams struct {
	OwnerID string `json:"owner_id"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts, arg.OwnerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Nature,
			&i.Subtype,
			&i.Currency,
			&i.CachedBalance,
			&i.CreditLimit,
			&i.InterestRateApr,
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

const updateAccountBalance = `-- name: UpdateAccountBalance :execrows
UPDATE accounts SET cached_balance = $2, updated_at = $3 WHERE id = $1
`

type UpdateAccountBalanceParams struct {
	ID            string             `json:"id"`
	CachedBalance pgtype.Numeric     `json:"cached_balance"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountBalance(ctx context.Context, arg UpdateAccountBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateAccountBalance, arg.ID, arg.CachedBalance, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
