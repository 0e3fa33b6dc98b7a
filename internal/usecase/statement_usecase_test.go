package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/usecase"
)

var (
	verifyStatement = usecase.BatchOptions{VerifyStatementBalance: true}

	periodStart = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
)

func statementInput(accountID, opening, closing string, amounts ...string) usecase.CreateStatementInput {
	lines := make([]usecase.StatementLineInput, 0, len(amounts))
	for i, a := range amounts {
		lines = append(lines, usecase.StatementLineInput{
			PostedAt:    periodStart.AddDate(0, 0, i),
			Amount:      d(a),
			Description: "line " + a,
		})
	}

	return usecase.CreateStatementInput{
		AccountID:      accountID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		OpeningBalance: d(opening),
		ClosingBalance: d(closing),
		Lines:          lines,
	}
}

func TestStatementUseCase_BatchLandsOnClosingBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "1000.00")

	statement, err := f.statements.CreateStatement(ctx, statementInput("chk", "1000.00", "1190.00", "-50.00", "-10.00", "250.00"))
	require.NoError(t, err)
	requireDecimal(t, "1000.00", f.cached(t, "chk"), "import alone does not touch balances")

	entries, err := f.statements.ProcessStatementBatch(ctx, statement.ID, verifyStatement)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	requireDecimal(t, "1190.00", f.cached(t, "chk"))
	f.requireConsistent(t, "chk")
	for _, e := range entries {
		require.NotNil(t, e.SourceLineID)
	}

	summary, err := f.statements.GetStatement(ctx, statement.ID)
	require.NoError(t, err)
	assert.True(t, summary.IsFullyProcessed())
	requireDecimal(t, "190.00", summary.ProcessedAmount)
	requireDecimal(t, "1190.00", summary.CurrentBalance)

	events := f.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeStatementProcessed, events[0].EventType)
	assert.Equal(t, 3, events[0].Payload["lines_processed"])

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.StatementBatches.WithLabelValues("success")))
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.StatementLines))
}

func TestStatementUseCase_LiabilityBatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "card", domain.NatureLiability, domain.SubtypeCredit, "200.00")

	// charges are negative raw amounts and grow the amount owed
	statement, err := f.statements.CreateStatement(ctx, statementInput("card", "200.00", "330.00", "-80.00", "-100.00", "50.00"))
	require.NoError(t, err)

	_, err = f.statements.ProcessStatementBatch(ctx, statement.ID, verifyStatement)
	require.NoError(t, err)

	requireDecimal(t, "330.00", f.cached(t, "card"))
	f.requireConsistent(t, "card")
}

func TestStatementUseCase_MismatchKeepsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "1000.00")

	statement, err := f.statements.CreateStatement(ctx, statementInput("chk", "1000.00", "1190.00", "-50.00", "250.00"))
	require.NoError(t, err)

	_, err = f.statements.ProcessStatementBatch(ctx, statement.ID, verifyStatement)
	require.ErrorIs(t, err, domain.ErrValidationFailed)

	var mismatch *domain.BalanceMismatchError
	require.True(t, errors.As(err, &mismatch))
	requireDecimal(t, "1190.00", mismatch.Expected)
	requireDecimal(t, "1200.00", mismatch.Calculated)
	requireDecimal(t, "10.00", mismatch.Difference)

	requireDecimal(t, "1000.00", f.cached(t, "chk"))
	assert.Equal(t, 1, f.store.EntryCount())
	assert.Empty(t, f.store.Events())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.StatementBatches.WithLabelValues("failure")))

	// an explicit closing balance wins over the statement's own
	entries, err := f.statements.ProcessStatementBatch(ctx, statement.ID, usecase.BatchOptions{ClosingBalance: ptr(d("1200.00"))})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	requireDecimal(t, "1200.00", f.cached(t, "chk"))
}

func TestStatementUseCase_BatchWithinTolerance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "100.00")

	statement, err := f.statements.CreateStatement(ctx, statementInput("chk", "100.00", "110.01", "10.00"))
	require.NoError(t, err)

	_, err = f.statements.ProcessStatementBatch(ctx, statement.ID, verifyStatement)
	require.NoError(t, err)
	requireDecimal(t, "110.00", f.cached(t, "chk"))
}

func TestStatementUseCase_BulkInsertFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "100.00")

	statement, err := f.statements.CreateStatement(ctx, statementInput("chk", "100.00", "110.00", "10.00"))
	require.NoError(t, err)

	boom := errors.New("copy failed")
	f.store.Entries.CreateBatchFunc = func(context.Context, usecase.Transaction, []*domain.LedgerEntry) (int64, error) {
		return 0, boom
	}

	_, err = f.statements.ProcessStatementBatch(ctx, statement.ID, usecase.BatchOptions{})
	require.ErrorIs(t, err, boom)
	requireDecimal(t, "100.00", f.cached(t, "chk"))
}

func TestStatementUseCase_BatchSkipsRealizedAndZeroLines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "100.00")

	statement, err := f.statements.CreateStatement(ctx, statementInput("chk", "100.00", "135.00", "20.00", "0", "15.00"))
	require.NoError(t, err)

	lines, err := f.statements.ListLines(ctx, statement.ID)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	first, err := f.statements.RealizeLine(ctx, lines[0].ID)
	require.NoError(t, err)
	requireDecimal(t, "120.00", f.cached(t, "chk"))

	entries, err := f.statements.ProcessStatementBatch(ctx, statement.ID, verifyStatement)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, lines[2].ID, *entries[0].SourceLineID)
	requireDecimal(t, "135.00", f.cached(t, "chk"))
	f.requireConsistent(t, "chk")

	again, err := f.statements.RealizeLine(ctx, lines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	requireDecimal(t, "135.00", f.cached(t, "chk"))

	summary, err := f.statements.GetStatement(ctx, statement.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.UnprocessedLines(), "the zero line is never materialized")
	requireDecimal(t, "0", summary.UnprocessedAmount())
}

func TestStatementUseCase_RealizeLineIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "100.00")

	statement, err := f.statements.CreateStatement(ctx, statementInput("chk", "100.00", "75.00", "-25.00"))
	require.NoError(t, err)

	lines, err := f.statements.ListLines(ctx, statement.ID)
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 3; i++ {
		entry, err := f.statements.RealizeLine(ctx, lines[0].ID)
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, ids[0], ids[2])
	requireDecimal(t, "75.00", f.cached(t, "chk"))
	assert.Equal(t, 2, f.store.EntryCount())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.LinesRealized))

	_, err = f.statements.RealizeLine(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrLineNotFound)
}

func TestStatementUseCase_RealizeLineMarksMatchedEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "100.00")

	input := statementInput("chk", "100.00", "90.00", "-10.00")
	input.Lines[0].MatchedEntryID = ptr("seed-chk")

	statement, err := f.statements.CreateStatement(ctx, input)
	require.NoError(t, err)

	lines, err := f.statements.ListLines(ctx, statement.ID)
	require.NoError(t, err)

	_, err = f.statements.RealizeLine(ctx, lines[0].ID)
	require.NoError(t, err)

	matched, err := f.entries.GetEntry(ctx, "seed-chk")
	require.NoError(t, err)
	assert.True(t, matched.IsMatched)

	_, err = f.statements.RealizeLine(ctx, lines[0].ID)
	require.NoError(t, err)
}

func TestStatementUseCase_CreateStatementValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "0")

	_, err := f.statements.CreateStatement(ctx, statementInput("chk", "0", "0"))
	require.NoError(t, err)

	_, err = f.statements.CreateStatement(ctx, statementInput("chk", "0", "0"))
	require.ErrorIs(t, err, domain.ErrStatementExists)

	inverted := statementInput("chk", "0", "0")
	inverted.PeriodStart, inverted.PeriodEnd = periodEnd, periodStart
	_, err = f.statements.CreateStatement(ctx, inverted)
	require.ErrorIs(t, err, domain.ErrInvalidPeriod)

	dup := statementInput("chk", "0", "0", "1", "2")
	dup.PeriodStart = periodStart.AddDate(0, 1, 0)
	dup.PeriodEnd = periodEnd.AddDate(0, 1, 0)
	dup.Lines[0].ExternalID = "tx-1"
	dup.Lines[1].ExternalID = "tx-1"
	_, err = f.statements.CreateStatement(ctx, dup)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.statements.CreateStatement(ctx, statementInput("missing", "0", "0"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestStatementUseCase_DeleteStatement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "0")

	pending, err := f.statements.CreateStatement(ctx, statementInput("chk", "0", "5.00", "5.00"))
	require.NoError(t, err)
	require.NoError(t, f.statements.DeleteStatement(ctx, pending.ID))

	_, err = f.statements.GetStatement(ctx, pending.ID)
	require.ErrorIs(t, err, domain.ErrStatementNotFound)

	processed, err := f.statements.CreateStatement(ctx, statementInput("chk", "0", "5.00", "5.00"))
	require.NoError(t, err)
	_, err = f.statements.ProcessStatementBatch(ctx, processed.ID, usecase.BatchOptions{})
	require.NoError(t, err)

	err = f.statements.DeleteStatement(ctx, processed.ID)
	require.ErrorIs(t, err, domain.ErrStatementProcessed)
}

func TestStatementUseCase_EmptyBatchStillVerifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "42.00")

	statement, err := f.statements.CreateStatement(ctx, statementInput("chk", "42.00", "42.00"))
	require.NoError(t, err)

	entries, err := f.statements.ProcessStatementBatch(ctx, statement.ID, verifyStatement)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = f.statements.ProcessStatementBatch(ctx, statement.ID, usecase.BatchOptions{ClosingBalance: ptr(decimal.NewFromInt(41))})
	require.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestStatementUseCase_BatchWithoutAssertionSkipsCheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "1000.00")

	// the reported closing balance does not match the ledger at all
	statement, err := f.statements.CreateStatement(ctx, statementInput("chk", "0", "0", "50.00"))
	require.NoError(t, err)

	entries, err := f.statements.ProcessStatementBatch(ctx, statement.ID, usecase.BatchOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	requireDecimal(t, "1050.00", f.cached(t, "chk"))
	f.requireConsistent(t, "chk")
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.StatementBatches.WithLabelValues("success")))
}
