package usecase_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/infrastructure/metrics"
	"github.com/serenewealth/ledger/internal/usecase"
	"github.com/serenewealth/ledger/internal/usecase/mocks"
)

const owner = "owner-1"

type fixture struct {
	store      *mocks.Store
	idGen      *mocks.SequentialIDGenerator
	metrics    *metrics.Metrics
	balance    *usecase.BalanceUseCase
	entries    *usecase.EntryUseCase
	transfers  *usecase.TransferUseCase
	statements *usecase.StatementUseCase
	accounts   *usecase.AccountUseCase
	recon      *usecase.ReconciliationUseCase
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithRetrier(t, nil)
}

func newFixtureWithRetrier(t *testing.T, retrier usecase.Retrier) *fixture {
	t.Helper()

	store := mocks.NewStore()
	idGen := mocks.NewSequentialIDGenerator("id")
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	logger := zerolog.Nop()

	balance := usecase.NewBalanceUseCase(store, retrier, store.Accounts, store.Entries, store.Outbox, idGen, m, logger)

	return &fixture{
		store:   store,
		idGen:   idGen,
		metrics: m,
		balance: balance,
		entries: usecase.NewEntryUseCase(store, retrier, store.Accounts, store.Entries, store.Transfers,
			store.Categories, balance, idGen, m, logger),
		transfers: usecase.NewTransferUseCase(store, retrier, store.Accounts, store.Entries, store.Transfers,
			store.Categories, store.Outbox, balance, idGen, m, logger),
		statements: usecase.NewStatementUseCase(store, retrier, store.Accounts, store.Entries, store.Statements,
			store.Outbox, balance, idGen, m, logger),
		accounts: usecase.NewAccountUseCase(store, retrier, store.Accounts, store.Entries, store.Categories,
			store.Outbox, balance, idGen, m, logger),
		recon: usecase.NewReconciliationUseCase(balance),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

// seedAccount stores an account whose cached balance is backed by a single
// seeded entry, so recompute and cached agree from the start.
func (f *fixture) seedAccount(t *testing.T, id string, nature domain.Nature, subtype domain.Subtype, balance string) {
	t.Helper()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.store.SeedAccount(domain.Account{
		ID:            id,
		OwnerID:       owner,
		Name:          "Account " + id,
		Nature:        nature,
		Subtype:       subtype,
		Currency:      "USD",
		CachedBalance: d(balance),
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	if d(balance).IsZero() {
		return
	}

	f.store.SeedEntry(domain.LedgerEntry{
		ID:            "seed-" + id,
		AccountID:     id,
		EffectiveDate: now,
		Description:   "seed",
		RawAmount:     domain.Normalize(nature, d(balance)),
		SignedAmount:  d(balance),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (f *fixture) seedCategory(t *testing.T, id string) string {
	t.Helper()

	f.store.SeedCategory(domain.Category{ID: id, OwnerID: owner, Name: "Category " + id, Type: domain.CategoryExpense})
	return id
}

func (f *fixture) cached(t *testing.T, id string) decimal.Decimal {
	t.Helper()

	account := f.store.Account(id)
	require.NotNil(t, account, "account %s not found", id)
	return account.CachedBalance
}

// requireConsistent asserts cached == recomputed for every account id.
func (f *fixture) requireConsistent(t *testing.T, ids ...string) {
	t.Helper()

	for _, id := range ids {
		require.Truef(t, f.cached(t, id).Equal(f.store.SumSigned(id)),
			"account %s: cached %s, recomputed %s", id, f.cached(t, id), f.store.SumSigned(id))
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
