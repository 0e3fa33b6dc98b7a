package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/infrastructure/postgres/generated"
	"github.com/serenewealth/ledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return newTransferRepository(pool)
}

func newTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{queries: generated.New(db)}
}

// Create links two existing entries as a transfer.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	err := queriesFor(tx, r.queries).CreateTransfer(ctx, generated.CreateTransferParams{
		ID:          transfer.ID,
		FromEntryID: transfer.FromEntryID,
		ToEntryID:   transfer.ToEntryID,
		CreatedAt:   timeToPgTimestamptz(transfer.CreatedAt),
	})
	if constraintViolation(err, pgErrUniqueViolation, "") {
		return fmt.Errorf("%w: entry already linked to a transfer", domain.ErrInvalidState)
	}

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row, err := r.queries.GetTransferByID(ctx, id)
	if err != nil {
		return nil, mapTransferReadError(err)
	}

	return rowToTransfer(row), nil
}

// GetByIDForUpdate retrieves a transfer by ID with a FOR UPDATE lock.
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	row, err := queriesFor(tx, r.queries).GetTransferByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapTransferReadError(err)
	}

	return rowToTransfer(row), nil
}

// GetByEntryID retrieves the transfer that owns entryID as either leg.
func (r *TransferRepository) GetByEntryID(ctx context.Context, tx usecase.Transaction, entryID string) (*domain.Transfer, error) {
	row, err := queriesFor(tx, r.queries).GetTransferByEntryID(ctx, entryID)
	if err != nil {
		return nil, mapTransferReadError(err)
	}

	return rowToTransfer(row), nil
}

// Delete removes the transfer record. Legs are removed separately.
func (r *TransferRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx, r.queries).DeleteTransfer(ctx, id)

	return affected(n, err, domain.ErrTransferNotFound)
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:          row.ID,
		FromEntryID: row.FromEntryID,
		ToEntryID:   row.ToEntryID,
		CreatedAt:   row.CreatedAt.Time,
	}
}

func mapTransferReadError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrTransferNotFound
	}

	return err
}
