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
	"go.uber.org/mock/gomock"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/usecase"
	"github.com/serenewealth/ledger/internal/usecase/mocks"
)

// drift corrupts the committed cached balance of an account.
func (f *fixture) drift(t *testing.T, id, cached string) {
	t.Helper()

	account := f.store.Account(id)
	require.NotNil(t, account)
	account.CachedBalance = d(cached)
	f.store.SeedAccount(*account)
}

func TestBalanceUseCase_ZeroDeltaIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// no account exists: a zero delta must not even look it up
	tx, err := f.store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	require.NoError(t, f.balance.ApplyIndividual(ctx, tx, "missing", decimal.Zero))
	require.NoError(t, f.balance.ApplyBatch(ctx, tx, "missing", decimal.Zero))
}

func TestBalanceUseCase_ApplyPaths(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "100.00")

	tx, err := f.store.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, f.balance.ApplyIndividual(ctx, tx, "chk", d("25.50")))
	require.NoError(t, f.balance.ApplyBatch(ctx, tx, "chk", d("-5.25")))
	require.NoError(t, tx.Commit(ctx))

	requireDecimal(t, "120.25", f.cached(t, "chk"))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BalanceUpdates.WithLabelValues("individual")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BalanceUpdates.WithLabelValues("batch")))
}

func TestBalanceUseCase_ApplyIndividualUnknownAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tx, err := f.store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	err = f.balance.ApplyIndividual(ctx, tx, "missing", d("1"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestBalanceUseCase_Recompute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "300.00")
	f.drift(t, "chk", "12.34")

	total, err := f.balance.Recompute(ctx, "chk")
	require.NoError(t, err)

	requireDecimal(t, "300.00", total)
	requireDecimal(t, "300.00", f.cached(t, "chk"))

	_, err = f.balance.Recompute(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestBalanceUseCase_Verify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "300.00")

	ok, err := f.balance.Verify(ctx, "chk", domain.DefaultTolerance)
	require.NoError(t, err)
	assert.True(t, ok)

	f.drift(t, "chk", "300.01")
	ok, err = f.balance.Verify(ctx, "chk", domain.DefaultTolerance)
	require.NoError(t, err)
	assert.True(t, ok, "one cent is within tolerance")

	f.drift(t, "chk", "301.00")
	ok, err = f.balance.Verify(ctx, "chk", domain.DefaultTolerance)
	require.NoError(t, err)
	assert.False(t, ok)

	// Verify never repairs
	requireDecimal(t, "301.00", f.cached(t, "chk"))
}

func TestBalanceUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("within tolerance leaves cached balance", func(t *testing.T) {
		f := newFixture(t)
		f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "50.00")
		f.drift(t, "chk", "50.01")

		result, err := f.balance.Refresh(ctx, "chk")
		require.NoError(t, err)

		assert.False(t, result.WasUpdated)
		requireDecimal(t, "50.01", f.cached(t, "chk"))
		assert.Empty(t, f.store.Events())
	})

	t.Run("drift is repaired and announced", func(t *testing.T) {
		f := newFixture(t)
		f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "50.00")
		f.drift(t, "chk", "75.00")

		result, err := f.balance.Refresh(ctx, "chk")
		require.NoError(t, err)

		assert.True(t, result.WasUpdated)
		requireDecimal(t, "50.00", result.Calculated)
		requireDecimal(t, "75.00", result.Cached)
		requireDecimal(t, "-25.00", result.Difference)
		requireDecimal(t, "50.00", f.cached(t, "chk"))

		events := f.store.Events()
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventTypeBalanceRepaired, events[0].EventType)
		assert.Equal(t, "chk", events[0].AggregateID)
		assert.Equal(t, "75.00", events[0].Payload["old_balance"])
		assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BalanceRepairs))
	})
}

func TestBalanceUseCase_FindDiscrepancies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, "a", domain.NatureAsset, domain.SubtypeChecking, "10.00")
	f.seedAccount(t, "b", domain.NatureLiability, domain.SubtypeCredit, "20.00")
	f.seedAccount(t, "c", domain.NatureAsset, domain.SubtypeSavings, "30.00")
	f.drift(t, "b", "25.00")
	f.drift(t, "c", "30.01")

	discrepancies, err := f.balance.FindDiscrepancies(ctx, domain.DefaultTolerance)
	require.NoError(t, err)

	require.Len(t, discrepancies, 1)
	assert.Equal(t, "b", discrepancies[0].AccountID)
	requireDecimal(t, "-5.00", discrepancies[0].Difference)
	requireDecimal(t, "25.00", f.cached(t, "b"), "FindDiscrepancies must not repair")
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.DiscrepanciesFound))

	strict, err := f.balance.FindDiscrepancies(ctx, decimal.Zero)
	require.NoError(t, err)
	assert.Len(t, strict, 2)
}

func TestBalanceUseCase_RetrierWrapsUnitOfWork(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	transient := errors.New("deadlock detected")
	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().
		Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, op func() error) error {
			if err := op(); !errors.Is(err, transient) {
				return err
			}
			return op()
		})

	f := newFixtureWithRetrier(t, retrier)
	f.seedAccount(t, "chk", domain.NatureAsset, domain.SubtypeChecking, "40.00")
	f.drift(t, "chk", "0")

	attempts := 0
	f.store.Accounts.UpdateBalanceFunc = func(context.Context, usecase.Transaction, string, decimal.Decimal, time.Time) error {
		attempts++
		f.store.Accounts.UpdateBalanceFunc = nil
		return transient
	}

	total, err := f.balance.Recompute(ctx, "chk")
	require.NoError(t, err)

	assert.Equal(t, 1, attempts)
	requireDecimal(t, "40.00", total)
	requireDecimal(t, "40.00", f.cached(t, "chk"))
	assert.Equal(t, 1, f.store.Rollbacks)
	assert.Equal(t, 1, f.store.Commits)
}
