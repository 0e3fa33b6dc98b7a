package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/serenewealth/ledger/internal/domain"
)

func testStatement() *domain.Statement {
	return &domain.Statement{
		ID:             "stmt-1",
		AccountID:      "acc-1",
		PeriodStart:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		OpeningBalance: decimal.NewFromInt(100),
		ClosingBalance: decimal.NewFromInt(250),
		CreatedAt:      time.Now().UTC(),
	}
}

func TestStatementRepositoryCreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		wantErr error
	}{
		{
			name:    "overlapping period",
			pgErr:   &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: statementPeriodKey},
			wantErr: domain.ErrStatementExists,
		},
		{
			name:    "unknown account",
			pgErr:   &pgconn.PgError{Code: pgErrForeignKeyViolation, ConstraintName: statementAccountIDFkey},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPool := newMockPool(t)
			mockPool.ExpectExec("INSERT INTO statements").WithAnyArgs().WillReturnError(tt.pgErr)

			err := newStatementRepository(mockPool).Create(context.Background(), nil, testStatement())

			require.ErrorIs(t, err, tt.wantErr)
			assertExpectations(t, mockPool)
		})
	}
}

func TestStatementRepositoryDelete(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectExec("DELETE FROM statements").
		WithArgs("stmt-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectExec("DELETE FROM statements").
		WithArgs("stmt-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := newStatementRepository(mockPool)
	require.NoError(t, repo.Delete(context.Background(), nil, "stmt-1"))
	require.ErrorIs(t, repo.Delete(context.Background(), nil, "stmt-2"), domain.ErrStatementNotFound)

	assertExpectations(t, mockPool)
}

func TestStatementRepositoryNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM statements").WithArgs("stmt-1").WillReturnError(pgx.ErrNoRows)
	mockPool.ExpectQuery("FROM statement_lines").WithArgs("line-1").WillReturnError(pgx.ErrNoRows)

	repo := newStatementRepository(mockPool)

	_, err := repo.GetByID(context.Background(), "stmt-1")
	require.ErrorIs(t, err, domain.ErrStatementNotFound)

	_, err = repo.GetLineForUpdate(context.Background(), nil, "line-1")
	require.ErrorIs(t, err, domain.ErrLineNotFound)

	assertExpectations(t, mockPool)
}
