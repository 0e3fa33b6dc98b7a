package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/infrastructure/postgres/generated"
	"github.com/serenewealth/ledger/internal/usecase"
)

const entrySourceLineKey = "ledger_entries_source_line_key"

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepository(pool)
}

func newEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create creates a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	err := queriesFor(tx, r.queries).CreateEntry(ctx, generated.CreateEntryParams{
		ID:            entry.ID,
		AccountID:     entry.AccountID,
		EffectiveDate: timeToPgDate(entry.EffectiveDate),
		Description:   entry.Description,
		RawAmount:     decimalToNumeric(entry.RawAmount),
		SignedAmount:  decimalToNumeric(entry.SignedAmount),
		CategoryID:    entry.CategoryID,
		IsMatched:     entry.IsMatched,
		SourceLineID:  entry.SourceLineID,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(entry.UpdatedAt),
	})

	return mapEntryWriteError(err)
}

// CreateBatch bulk inserts entries with COPY.
func (r *EntryRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) (int64, error) {
	params := make([]generated.CreateEntriesParams, 0, len(entries))
	for _, e := range entries {
		params = append(params, generated.CreateEntriesParams{
			ID:            e.ID,
			AccountID:     e.AccountID,
			EffectiveDate: timeToPgDate(e.EffectiveDate),
			Description:   e.Description,
			RawAmount:     decimalToNumeric(e.RawAmount),
			SignedAmount:  decimalToNumeric(e.SignedAmount),
			CategoryID:    e.CategoryID,
			IsMatched:     e.IsMatched,
			SourceLineID:  e.SourceLineID,
			CreatedAt:     timeToPgTimestamptz(e.CreatedAt),
			UpdatedAt:     timeToPgTimestamptz(e.UpdatedAt),
		})
	}

	n, err := queriesFor(tx, r.queries).CreateEntries(ctx, params)
	if err != nil {
		return 0, mapEntryWriteError(err)
	}

	return n, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row, err := r.queries.GetEntryByID(ctx, id)
	if err != nil {
		return nil, mapEntryReadError(err)
	}

	return rowToEntry(row), nil
}

// GetByIDForUpdate retrieves an entry by ID with a FOR UPDATE lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error) {
	row, err := queriesFor(tx, r.queries).GetEntryByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapEntryReadError(err)
	}

	return rowToEntry(row), nil
}

// GetBySourceLine retrieves the entry materialized from a statement line.
func (r *EntryRepository) GetBySourceLine(ctx context.Context, tx usecase.Transaction, accountID, lineID string) (*domain.LedgerEntry, error) {
	row, err := queriesFor(tx, r.queries).GetEntryBySourceLine(ctx, generated.GetEntryBySourceLineParams{
		AccountID:    accountID,
		SourceLineID: &lineID,
	})
	if err != nil {
		return nil, mapEntryReadError(err)
	}

	return rowToEntry(row), nil
}

// Update writes every mutable column of entry.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	n, err := queriesFor(tx, r.queries).UpdateEntry(ctx, generated.UpdateEntryParams{
		ID:            entry.ID,
		AccountID:     entry.AccountID,
		EffectiveDate: timeToPgDate(entry.EffectiveDate),
		Description:   entry.Description,
		RawAmount:     decimalToNumeric(entry.RawAmount),
		SignedAmount:  decimalToNumeric(entry.SignedAmount),
		CategoryID:    entry.CategoryID,
		UpdatedAt:     timeToPgTimestamptz(entry.UpdatedAt),
	})

	return affected(n, err, domain.ErrEntryNotFound)
}

// UpdateDescription writes only the description of an entry.
func (r *EntryRepository) UpdateDescription(ctx context.Context, tx usecase.Transaction, id, description string, updatedAt time.Time) error {
	n, err := queriesFor(tx, r.queries).UpdateEntryDescription(ctx, generated.UpdateEntryDescriptionParams{
		ID:          id,
		Description: description,
		UpdatedAt:   timeToPgTimestamptz(updatedAt),
	})

	return affected(n, err, domain.ErrEntryNotFound)
}

// SetMatched sets the matched flag of an entry.
func (r *EntryRepository) SetMatched(ctx context.Context, tx usecase.Transaction, id string, matched bool, updatedAt time.Time) error {
	n, err := queriesFor(tx, r.queries).SetEntryMatched(ctx, generated.SetEntryMatchedParams{
		ID:        id,
		IsMatched: matched,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})

	return affected(n, err, domain.ErrEntryNotFound)
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx, r.queries).DeleteEntry(ctx, id)

	return affected(n, err, domain.ErrEntryNotFound)
}

// ListByAccount lists entries of an account, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListEntriesByAccount(ctx, generated.ListEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// SumSignedByAccount returns the sum of signed amounts of an account.
func (r *EntryRepository) SumSignedByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	total, err := queriesFor(tx, r.queries).SumSignedByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// CountByAccount returns the number of entries of an account.
func (r *EntryRepository) CountByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	return queriesFor(tx, r.queries).CountEntriesByAccount(ctx, accountID)
}

func rowToEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            row.ID,
		AccountID:     row.AccountID,
		EffectiveDate: pgDateToTime(row.EffectiveDate),
		Description:   row.Description,
		RawAmount:     numericToDecimal(row.RawAmount),
		SignedAmount:  numericToDecimal(row.SignedAmount),
		CategoryID:    row.CategoryID,
		IsMatched:     row.IsMatched,
		SourceLineID:  row.SourceLineID,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

func mapEntryReadError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEntryNotFound
	}

	return err
}

func mapEntryWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case constraintViolation(err, pgErrUniqueViolation, entrySourceLineKey):
		return fmt.Errorf("%w: statement line already materialized", domain.ErrInvalidOperation)
	case constraintViolation(err, pgErrForeignKeyViolation, "ledger_entries_account_id_fkey"):
		return domain.ErrAccountNotFound
	case constraintViolation(err, pgErrForeignKeyViolation, "ledger_entries_category_id_fkey"):
		return domain.ErrCategoryNotFound
	}

	return err
}

// affected turns a zero row count into notFound.
func affected(n int64, err error, notFound error) error {
	if err != nil {
		return err
	}

	if n == 0 {
		return notFound
	}

	return nil
}
