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

const (
	statementPeriodKey     = "statements_account_period_key"
	lineExternalIDKey      = "statement_lines_external_id_key"
	lineMatchedEntryKey    = "statement_lines_matched_entry_key"
	lineMatchedEntryFkey   = "statement_lines_matched_entry_id_fkey"
	statementAccountIDFkey = "statements_account_id_fkey"
)

// StatementRepository implements usecase.StatementRepository.
type StatementRepository struct {
	queries *generated.Queries
}

// NewStatementRepository creates a new StatementRepository.
func NewStatementRepository(pool *pgxpool.Pool) *StatementRepository {
	return newStatementRepository(pool)
}

func newStatementRepository(db generated.DBTX) *StatementRepository {
	return &StatementRepository{queries: generated.New(db)}
}

// Create stores a statement header.
func (r *StatementRepository) Create(ctx context.Context, tx usecase.Transaction, statement *domain.Statement) error {
	err := queriesFor(tx, r.queries).CreateStatement(ctx, generated.CreateStatementParams{
		ID:             statement.ID,
		AccountID:      statement.AccountID,
		PeriodStart:    timeToPgDate(statement.PeriodStart),
		PeriodEnd:      timeToPgDate(statement.PeriodEnd),
		OpeningBalance: decimalToNumeric(statement.OpeningBalance),
		ClosingBalance: decimalToNumeric(statement.ClosingBalance),
		CreatedAt:      timeToPgTimestamptz(statement.CreatedAt),
	})

	switch {
	case constraintViolation(err, pgErrUniqueViolation, statementPeriodKey):
		return domain.ErrStatementExists
	case constraintViolation(err, pgErrForeignKeyViolation, statementAccountIDFkey):
		return domain.ErrAccountNotFound
	}

	return err
}

// CreateLines bulk inserts statement lines with COPY.
func (r *StatementRepository) CreateLines(ctx context.Context, tx usecase.Transaction, lines []*domain.StatementLine) (int64, error) {
	params := make([]generated.CreateStatementLinesParams, 0, len(lines))
	for _, l := range lines {
		params = append(params, generated.CreateStatementLinesParams{
			ID:             l.ID,
			StatementID:    l.StatementID,
			PostedAt:       timeToPgDate(l.PostedAt),
			Amount:         decimalToNumeric(l.Amount),
			Description:    l.Description,
			ExternalID:     l.ExternalID,
			MatchedEntryID: l.MatchedEntryID,
		})
	}

	n, err := queriesFor(tx, r.queries).CreateStatementLines(ctx, params)
	switch {
	case err == nil:
		return n, nil
	case constraintViolation(err, pgErrUniqueViolation, lineExternalIDKey):
		return 0, fmt.Errorf("%w: duplicate external id", domain.ErrInvalidArgument)
	case constraintViolation(err, pgErrUniqueViolation, lineMatchedEntryKey):
		return 0, fmt.Errorf("%w: entry already matched by another line", domain.ErrInvalidArgument)
	case constraintViolation(err, pgErrForeignKeyViolation, lineMatchedEntryFkey):
		return 0, domain.ErrEntryNotFound
	}

	return 0, err
}

// GetByID retrieves a statement by ID.
func (r *StatementRepository) GetByID(ctx context.Context, id string) (*domain.Statement, error) {
	row, err := r.queries.GetStatementByID(ctx, id)
	if err != nil {
		return nil, mapStatementReadError(err)
	}

	return rowToStatement(row), nil
}

// GetByIDForUpdate retrieves a statement by ID with a FOR UPDATE lock.
func (r *StatementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Statement, error) {
	row, err := queriesFor(tx, r.queries).GetStatementByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapStatementReadError(err)
	}

	return rowToStatement(row), nil
}

// GetLines returns the lines of a statement in posting order, each with the
// entry materialized from it, if any.
func (r *StatementRepository) GetLines(ctx context.Context, tx usecase.Transaction, statementID string) ([]*domain.StatementLine, error) {
	rows, err := queriesFor(tx, r.queries).GetStatementLines(ctx, statementID)
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.StatementLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, &domain.StatementLine{
			ID:              row.ID,
			StatementID:     row.StatementID,
			PostedAt:        pgDateToTime(row.PostedAt),
			Amount:          numericToDecimal(row.Amount),
			Description:     row.Description,
			ExternalID:      row.ExternalID,
			MatchedEntryID:  row.MatchedEntryID,
			RealizedEntryID: row.RealizedEntryID,
		})
	}

	return lines, nil
}

// GetLineForUpdate locks a single statement line.
func (r *StatementRepository) GetLineForUpdate(ctx context.Context, tx usecase.Transaction, lineID string) (*domain.StatementLine, error) {
	row, err := queriesFor(tx, r.queries).GetStatementLineForUpdate(ctx, lineID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLineNotFound
		}

		return nil, err
	}

	return &domain.StatementLine{
		ID:              row.ID,
		StatementID:     row.StatementID,
		PostedAt:        pgDateToTime(row.PostedAt),
		Amount:          numericToDecimal(row.Amount),
		Description:     row.Description,
		ExternalID:      row.ExternalID,
		MatchedEntryID:  row.MatchedEntryID,
		RealizedEntryID: row.RealizedEntryID,
	}, nil
}

// Delete removes a statement; its lines are removed by cascade.
func (r *StatementRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx, r.queries).DeleteStatement(ctx, id)

	return affected(n, err, domain.ErrStatementNotFound)
}

func rowToStatement(row generated.Statement) *domain.Statement {
	return &domain.Statement{
		ID:             row.ID,
		AccountID:      row.AccountID,
		PeriodStart:    pgDateToTime(row.PeriodStart),
		PeriodEnd:      pgDateToTime(row.PeriodEnd),
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		ClosingBalance: numericToDecimal(row.ClosingBalance),
		CreatedAt:      row.CreatedAt.Time,
	}
}

func mapStatementReadError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrStatementNotFound
	}

	return err
}
