package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/infrastructure/postgres/generated"
	"github.com/serenewealth/ledger/internal/usecase"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return newCategoryRepository(pool)
}

func newCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{queries: generated.New(db)}
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Category, error) {
	row, err := queriesFor(tx, r.queries).GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	return rowToCategory(row), nil
}

// GetOrCreate upserts on (owner, name) and returns the stored category.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, tx usecase.Transaction, category *domain.Category) (*domain.Category, error) {
	row, err := queriesFor(tx, r.queries).UpsertCategory(ctx, generated.UpsertCategoryParams{
		ID:      category.ID,
		OwnerID: category.OwnerID,
		Name:    category.Name,
		Type:    string(category.Type),
	})
	if err != nil {
		return nil, err
	}

	return rowToCategory(row), nil
}

func rowToCategory(row generated.Category) *domain.Category {
	return &domain.Category{
		ID:      row.ID,
		OwnerID: row.OwnerID,
		Name:    row.Name,
		Type:    domain.CategoryType(row.Type),
	}
}
