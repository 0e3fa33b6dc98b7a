package generated

import (
	"context"
)

const getCategoryByID = `-- name: GetCategoryByID :one
SELECT id, owner_id, name, type FROM categories WHERE id = $1
`

func (q *Queries) GetCategoryByID(ctx context.Context, id string) (Category, error) {
	row := q.db.QueryRow(ctx, getCategoryByID, id)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Type,
	)
	return i, err
}

const upsertCategory = `-- name: UpsertCategory :one
INSERT INTO categories (id, owner_id, name, type)
VALUES ($1, $2, $3, $4)
ON CONFLICT (owner_id, name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, owner_id, name, type
`

type UpsertCategoryParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

func (q *Queries) UpsertCategory(ctx context.Context, arg UpsertCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, upsertCategory,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Type,
	)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Type,
	)
	return i, err
}
