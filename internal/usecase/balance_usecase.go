package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/infrastructure/metrics"
)

// BalanceUseCase keeps Account.CachedBalance consistent with the sum of the
// account's signed entry amounts.
type BalanceUseCase struct {
	tx          txRunner
	accountRepo AccountRepository
	entryRepo   EntryRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *BalanceUseCase {
	return &BalanceUseCase{
		tx:          txRunner{txManager: txManager, retrier: retrier},
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		metrics:     metrics,
		logger:      logger.With().Str("component", "balance").Logger(),
	}
}

// RefreshResult reports the outcome of Refresh.
type RefreshResult struct {
	AccountID   string
	AccountName string
	Calculated  decimal.Decimal
	Cached      decimal.Decimal
	Difference  decimal.Decimal
	WasUpdated  bool
}

// Discrepancy describes an account whose cached balance drifted.
type Discrepancy struct {
	AccountID   string
	AccountName string
	Calculated  decimal.Decimal
	Cached      decimal.Decimal
	Difference  decimal.Decimal
}

// ApplyIndividual locks the account row and writes cached + delta.
// Used for single-entry edits and transfers.
func (uc *BalanceUseCase) ApplyIndividual(ctx context.Context, tx Transaction, accountID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, accountID, account.ApplyDelta(delta), time.Now().UTC()); err != nil {
		return fmt.Errorf("update balance of %s: %w", accountID, err)
	}

	if uc.metrics != nil {
		uc.metrics.BalanceUpdates.WithLabelValues("individual").Inc()
	}

	return nil
}

// ApplyBatch adds delta with a single atomic increment and no prior read.
func (uc *BalanceUseCase) ApplyBatch(ctx context.Context, tx Transaction, accountID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	if _, err := uc.accountRepo.IncrementBalance(ctx, tx, accountID, domain.RoundAmount(delta), time.Now().UTC()); err != nil {
		return fmt.Errorf("increment balance of %s: %w", accountID, err)
	}

	if uc.metrics != nil {
		uc.metrics.BalanceUpdates.WithLabelValues("batch").Inc()
	}

	return nil
}

// Recompute overwrites the cached balance with the sum of signed amounts.
func (uc *BalanceUseCase) Recompute(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID); err != nil {
			return err
		}

		sum, err := uc.entryRepo.SumSignedByAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		total = domain.RoundAmount(sum)

		return uc.accountRepo.UpdateBalance(ctx, tx, accountID, total, time.Now().UTC())
	})
	if err != nil {
		return decimal.Zero, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceUpdates.WithLabelValues("recompute").Inc()
	}

	return total, nil
}

// Verify reports whether the cached balance is within tolerance of the
// recomputed one. It never writes.
func (uc *BalanceUseCase) Verify(ctx context.Context, accountID string, tolerance decimal.Decimal) (bool, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return false, err
	}

	sum, err := uc.entryRepo.SumSignedByAccount(ctx, nil, accountID)
	if err != nil {
		return false, err
	}

	return domain.WithinTolerance(sum, account.CachedBalance, tolerance), nil
}

// Refresh recomputes the balance and overwrites the cached value only when
// the drift exceeds the default tolerance.
func (uc *BalanceUseCase) Refresh(ctx context.Context, accountID string) (*RefreshResult, error) {
	var result *RefreshResult

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		sum, err := uc.entryRepo.SumSignedByAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		calculated := domain.RoundAmount(sum)

		result = &RefreshResult{
			AccountID:   account.ID,
			AccountName: account.Name,
			Calculated:  calculated,
			Cached:      account.CachedBalance,
			Difference:  calculated.Sub(account.CachedBalance),
		}

		if domain.WithinTolerance(calculated, account.CachedBalance, domain.DefaultTolerance) {
			return nil
		}

		now := time.Now().UTC()
		if err := uc.accountRepo.UpdateBalance(ctx, tx, accountID, calculated, now); err != nil {
			return err
		}
		result.WasUpdated = true

		return emitEvent(ctx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypeAccount, accountID,
			domain.EventTypeBalanceRepaired, domain.BalanceRepairedEvent{
				AccountID:  accountID,
				OldBalance: account.CachedBalance.StringFixed(domain.AmountScale),
				NewBalance: calculated.StringFixed(domain.AmountScale),
				Difference: result.Difference.StringFixed(domain.AmountScale),
			}.Payload(), now)
	})
	if err != nil {
		return nil, err
	}

	if result.WasUpdated {
		uc.logger.Warn().
			Str("account_id", result.AccountID).
			Str("cached", result.Cached.StringFixed(domain.AmountScale)).
			Str("calculated", result.Calculated.StringFixed(domain.AmountScale)).
			Msg("cached balance drift repaired")

		if uc.metrics != nil {
			uc.metrics.BalanceRepairs.Inc()
			uc.metrics.BalanceDrift.Observe(result.Difference.Abs().InexactFloat64())
		}
	}

	return result, nil
}

// FindDiscrepancies scans every account and reports those whose cached
// balance differs from the recomputed one by more than tolerance.
// Nothing is repaired.
func (uc *BalanceUseCase) FindDiscrepancies(ctx context.Context, tolerance decimal.Decimal) ([]Discrepancy, error) {
	discrepancies, _, err := uc.scanDiscrepancies(ctx, tolerance)
	return discrepancies, err
}

// scanDiscrepancies pages through every account once and also returns how
// many accounts it checked.
func (uc *BalanceUseCase) scanDiscrepancies(ctx context.Context, tolerance decimal.Decimal) ([]Discrepancy, int, error) {
	discrepancies := make([]Discrepancy, 0)
	scanned := 0

	for offset := 0; ; offset += discrepancyPageSize {
		accounts, err := uc.accountRepo.List(ctx, "", discrepancyPageSize, offset)
		if err != nil {
			return nil, 0, err
		}
		scanned += len(accounts)

		for _, account := range accounts {
			sum, err := uc.entryRepo.SumSignedByAccount(ctx, nil, account.ID)
			if err != nil {
				return nil, 0, fmt.Errorf("sum entries of %s: %w", account.ID, err)
			}

			calculated := domain.RoundAmount(sum)
			if domain.WithinTolerance(calculated, account.CachedBalance, tolerance) {
				continue
			}

			discrepancies = append(discrepancies, Discrepancy{
				AccountID:   account.ID,
				AccountName: account.Name,
				Calculated:  calculated,
				Cached:      account.CachedBalance,
				Difference:  calculated.Sub(account.CachedBalance),
			})
		}

		if len(accounts) < discrepancyPageSize {
			break
		}
	}

	if uc.metrics != nil {
		uc.metrics.DiscrepanciesFound.Set(float64(len(discrepancies)))
	}

	if len(discrepancies) > 0 {
		uc.logger.Warn().Int("count", len(discrepancies)).Msg("balance discrepancies found")
	}

	return discrepancies, scanned, nil
}
