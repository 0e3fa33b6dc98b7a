package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/infrastructure/metrics"
)

// EntryUseCase handles single-entry mutations and their balance effects.
type EntryUseCase struct {
	tx           txRunner
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	transferRepo TransferRepository
	categoryRepo CategoryRepository
	balance      *BalanceUseCase
	idGen        IDGenerator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	transferRepo TransferRepository,
	categoryRepo CategoryRepository,
	balance *BalanceUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *EntryUseCase {
	return &EntryUseCase{
		tx:           txRunner{txManager: txManager, retrier: retrier},
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		categoryRepo: categoryRepo,
		balance:      balance,
		idGen:        idGen,
		metrics:      metrics,
		logger:       logger.With().Str("component", "entry").Logger(),
	}
}

// CreateEntryInput represents input for creating an entry.
type CreateEntryInput struct {
	AccountID     string
	RawAmount     decimal.Decimal
	EffectiveDate time.Time
	Description   string
	CategoryID    *string
	SourceLineID  *string
	// SkipBalanceUpdate leaves the cached balance untouched.
	SkipBalanceUpdate bool
}

// UpdateEntryInput represents a partial entry update. Nil fields are kept.
type UpdateEntryInput struct {
	AccountID         *string
	RawAmount         *decimal.Decimal
	EffectiveDate     *time.Time
	Description       *string
	CategoryID        *string
	SkipBalanceUpdate bool
}

// ListEntriesInput represents input for listing entries of an account.
type ListEntriesInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// CreateEntry persists an entry and applies its signed amount to the
// account's cached balance.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.LedgerEntry, error) {
	if err := domain.ValidateRawAmount(input.RawAmount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if input.CategoryID == nil || *input.CategoryID == "" {
		return nil, domain.ErrMissingCategory
	}

	var entry *domain.LedgerEntry

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		if _, err := uc.categoryRepo.GetByID(ctx, tx, *input.CategoryID); err != nil {
			return err
		}

		effective := input.EffectiveDate
		if effective.IsZero() {
			effective = time.Now().UTC()
		}

		entry, err = domain.NewLedgerEntry(uc.idGen.Generate(), account, input.RawAmount, effective, input.Description, time.Now().UTC())
		if err != nil {
			return err
		}
		entry.CategoryID = input.CategoryID
		entry.SourceLineID = input.SourceLineID

		return writeEntry(ctx, tx, uc.entryRepo, uc.balance, entry, input.SkipBalanceUpdate)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Inc()
	}

	uc.logger.Debug().
		Str("entry_id", entry.ID).
		Str("account_id", entry.AccountID).
		Str("signed_amount", entry.SignedAmount.String()).
		Msg("entry created")

	return entry, nil
}

// UpdateEntry applies a partial update. The signed amount is recomputed from
// the resulting account and raw amount; the cached balance moves by the
// difference, or is split across both accounts when the account changes.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, id string, input UpdateEntryInput) (*domain.LedgerEntry, error) {
	if input.RawAmount != nil {
		if err := domain.ValidateRawAmount(*input.RawAmount); err != nil {
			return nil, err
		}
	}

	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
	}

	var entry *domain.LedgerEntry

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		var err error

		entry, err = uc.entryRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		oldAccountID := entry.AccountID
		oldSigned := entry.SignedAmount

		newAccountID := oldAccountID
		if input.AccountID != nil {
			newAccountID = *input.AccountID
		}

		newRaw := entry.RawAmount
		if input.RawAmount != nil {
			newRaw = domain.RoundAmount(*input.RawAmount)
		}

		if newAccountID != oldAccountID || !newRaw.Equal(entry.RawAmount) {
			if err := uc.ensureNotTransferLeg(ctx, tx, id, domain.ErrTransferLegMutation); err != nil {
				return err
			}
		}

		accounts, err := lockAccounts(ctx, tx, uc.accountRepo, oldAccountID, newAccountID)
		if err != nil {
			return err
		}

		if err := entry.Reassign(accounts[newAccountID], newRaw); err != nil {
			return err
		}

		if input.CategoryID != nil {
			if _, err := uc.categoryRepo.GetByID(ctx, tx, *input.CategoryID); err != nil {
				return err
			}
			entry.CategoryID = input.CategoryID
		}

		if input.Description != nil {
			entry.Description = *input.Description
		}

		if input.EffectiveDate != nil {
			entry.EffectiveDate = domain.DateOnly(*input.EffectiveDate)
		}

		entry.UpdatedAt = time.Now().UTC()

		if err := uc.entryRepo.Update(ctx, tx, entry); err != nil {
			return err
		}

		if input.SkipBalanceUpdate {
			return nil
		}

		if newAccountID == oldAccountID {
			return uc.balance.ApplyIndividual(ctx, tx, oldAccountID, entry.SignedAmount.Sub(oldSigned))
		}

		if err := uc.balance.ApplyIndividual(ctx, tx, oldAccountID, oldSigned.Neg()); err != nil {
			return err
		}

		return uc.balance.ApplyIndividual(ctx, tx, newAccountID, entry.SignedAmount)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesUpdated.Inc()
	}

	return entry, nil
}

// DeleteEntry reverses the entry's balance effect and removes it.
// Transfer legs must be removed through DeleteTransfer.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id string, skipBalanceUpdate bool) error {
	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := uc.ensureNotTransferLeg(ctx, tx, id, domain.ErrTransferLegDelete); err != nil {
			return err
		}

		if !skipBalanceUpdate {
			if err := uc.balance.ApplyIndividual(ctx, tx, entry.AccountID, entry.SignedAmount.Neg()); err != nil {
				return err
			}
		}

		return uc.entryRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesDeleted.Inc()
	}

	return nil
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntriesByAccount lists entries for an account, newest first.
func (uc *EntryUseCase) ListEntriesByAccount(ctx context.Context, input ListEntriesInput) ([]*domain.LedgerEntry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, clampLimit(input.Limit), offset)
}

func (uc *EntryUseCase) ensureNotTransferLeg(ctx context.Context, tx Transaction, entryID string, refusal error) error {
	_, err := uc.transferRepo.GetByEntryID(ctx, tx, entryID)
	switch {
	case err == nil:
		return refusal
	case errors.Is(err, domain.ErrTransferNotFound):
		return nil
	default:
		return err
	}
}

// writeEntry inserts entry and, unless skipped, applies its signed amount
// through the individual balance path.
func writeEntry(ctx context.Context, tx Transaction, entryRepo EntryRepository, balance *BalanceUseCase, entry *domain.LedgerEntry, skipBalance bool) error {
	if err := entryRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	if skipBalance {
		return nil
	}

	return balance.ApplyIndividual(ctx, tx, entry.AccountID, entry.SignedAmount)
}

// lockAccounts locks the distinct accounts in sorted ID order
// (DEADLOCK PREVENTION) and returns them keyed by ID.
func lockAccounts(ctx context.Context, tx Transaction, repo AccountRepository, ids ...string) (map[string]*domain.Account, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)

	accounts, err := repo.GetByIDsForUpdate(ctx, tx, unique)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(unique) {
		return nil, domain.ErrAccountNotFound
	}

	m := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}

	return m, nil
}
