package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/infrastructure/metrics"
)

// TransferUseCase creates and removes paired transfer entries.
type TransferUseCase struct {
	tx           txRunner
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	transferRepo TransferRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	balance      *BalanceUseCase
	idGen        IDGenerator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	transferRepo TransferRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	balance *BalanceUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		tx:           txRunner{txManager: txManager, retrier: retrier},
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		balance:      balance,
		idGen:        idGen,
		metrics:      metrics,
		logger:       logger.With().Str("component", "transfer").Logger(),
	}
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	// OwnerID defaults to the owner of the source account.
	OwnerID       string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	EffectiveDate time.Time
	// PurposeCategoryID categorizes the incoming leg. When empty both legs use
	// the owner's Transfer category.
	PurposeCategoryID string
	Description       string
}

// CreateTransfer creates both legs, applies each leg's balance delta and
// links them, all in one transaction.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	// 0. Validate inputs before starting transaction
	if err := domain.ValidateTransferRequest(input.FromAccountID, input.ToAccountID, input.Amount); err != nil {
		uc.countError(err)
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	amount := domain.RoundAmount(input.Amount)
	if amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	var transfer *domain.Transfer

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		// 1. Lock accounts in sorted order
		accounts, err := lockAccounts(ctx, tx, uc.accountRepo, input.FromAccountID, input.ToAccountID)
		if err != nil {
			return err
		}
		from := accounts[input.FromAccountID]
		to := accounts[input.ToAccountID]

		ownerID := input.OwnerID
		if ownerID == "" {
			ownerID = from.OwnerID
		}

		// 2. Resolve categories
		transferCategory, err := uc.categoryRepo.GetOrCreate(ctx, tx, &domain.Category{
			ID:      uc.idGen.Generate(),
			OwnerID: ownerID,
			Name:    domain.TransferCategoryName,
			Type:    domain.CategoryTransfer,
		})
		if err != nil {
			return err
		}

		purposeID := transferCategory.ID
		if input.PurposeCategoryID != "" {
			purpose, err := uc.categoryRepo.GetByID(ctx, tx, input.PurposeCategoryID)
			if err != nil {
				return err
			}
			purposeID = purpose.ID
		}

		effective := input.EffectiveDate
		if effective.IsZero() {
			effective = time.Now().UTC()
		}
		now := time.Now().UTC()

		fromDesc, toDesc := input.Description, input.Description
		if fromDesc == "" {
			fromDesc = fmt.Sprintf("Transfer to %s", to.Name)
			toDesc = fmt.Sprintf("Transfer from %s", from.Name)
		}

		// 3. Create legs, each maintaining its own balance
		fromEntry, err := domain.NewLedgerEntry(uc.idGen.Generate(), from, amount.Neg(), effective, fromDesc, now)
		if err != nil {
			return err
		}
		fromEntry.CategoryID = &transferCategory.ID

		if err := writeEntry(ctx, tx, uc.entryRepo, uc.balance, fromEntry, false); err != nil {
			return err
		}

		toEntry, err := domain.NewLedgerEntry(uc.idGen.Generate(), to, amount, effective, toDesc, now)
		if err != nil {
			return err
		}
		toEntry.CategoryID = &purposeID

		if err := writeEntry(ctx, tx, uc.entryRepo, uc.balance, toEntry, false); err != nil {
			return err
		}

		// 4. Re-assert pairing before linking
		if err := domain.ValidateTransferLegs(fromEntry, toEntry); err != nil {
			return err
		}

		transfer = &domain.Transfer{
			ID:          uc.idGen.Generate(),
			FromEntryID: fromEntry.ID,
			ToEntryID:   toEntry.ID,
			CreatedAt:   now,
			FromEntry:   fromEntry,
			ToEntry:     toEntry,
		}

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		return emitEvent(ctx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypeTransfer, transfer.ID,
			domain.EventTypeTransferCreated, domain.TransferCreatedEvent{
				TransferID:    transfer.ID,
				FromAccountID: from.ID,
				ToAccountID:   to.ID,
				FromEntryID:   fromEntry.ID,
				ToEntryID:     toEntry.ID,
				Amount:        amount.StringFixed(domain.AmountScale),
				EffectiveDate: fromEntry.EffectiveDate.Format(time.DateOnly),
			}.Payload(), now)
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
		uc.metrics.TransferAmount.Observe(amount.InexactFloat64())
	}

	uc.logger.Debug().
		Str("transfer_id", transfer.ID).
		Str("from_account_id", input.FromAccountID).
		Str("to_account_id", input.ToAccountID).
		Str("amount", amount.String()).
		Msg("transfer created")

	return transfer, nil
}

// DeleteTransfer reverses both legs' balance effects and removes the
// transfer together with both entries.
func (uc *TransferUseCase) DeleteTransfer(ctx context.Context, id string) error {
	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		transfer, err := uc.transferRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		from, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, transfer.FromEntryID)
		if err != nil {
			return err
		}

		to, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, transfer.ToEntryID)
		if err != nil {
			return err
		}

		if _, err := lockAccounts(ctx, tx, uc.accountRepo, from.AccountID, to.AccountID); err != nil {
			return err
		}

		if err := uc.balance.ApplyIndividual(ctx, tx, from.AccountID, from.SignedAmount.Neg()); err != nil {
			return err
		}

		if err := uc.balance.ApplyIndividual(ctx, tx, to.AccountID, to.SignedAmount.Neg()); err != nil {
			return err
		}

		if err := uc.transferRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		if err := uc.entryRepo.Delete(ctx, tx, from.ID); err != nil {
			return err
		}

		if err := uc.entryRepo.Delete(ctx, tx, to.ID); err != nil {
			return err
		}

		return emitEvent(ctx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypeTransfer, id,
			domain.EventTypeTransferDeleted, domain.TransferDeletedEvent{
				TransferID:    id,
				FromAccountID: from.AccountID,
				ToAccountID:   to.AccountID,
				Amount:        to.RawAmount.Abs().StringFixed(domain.AmountScale),
			}.Payload(), time.Now().UTC())
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersDeleted.Inc()
	}

	return nil
}

// UpdateTransferDescription writes description on both legs and nothing else.
// It returns the transfer with both legs as they were committed.
func (uc *TransferUseCase) UpdateTransferDescription(ctx context.Context, id, description string) (*domain.Transfer, error) {
	if err := domain.ValidateDescription(description); err != nil {
		return nil, err
	}

	var transfer *domain.Transfer

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		var err error

		transfer, err = uc.transferRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, entryID := range []string{transfer.FromEntryID, transfer.ToEntryID} {
			if err := uc.entryRepo.UpdateDescription(ctx, tx, entryID, description, now); err != nil {
				return err
			}
		}

		if transfer.FromEntry, err = uc.entryRepo.GetByIDForUpdate(ctx, tx, transfer.FromEntryID); err != nil {
			return err
		}

		transfer.ToEntry, err = uc.entryRepo.GetByIDForUpdate(ctx, tx, transfer.ToEntryID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return transfer, nil
}

// GetTransfer retrieves a transfer with both legs loaded.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if transfer.FromEntry, err = uc.entryRepo.GetByID(ctx, transfer.FromEntryID); err != nil {
		return nil, err
	}

	if transfer.ToEntry, err = uc.entryRepo.GetByID(ctx, transfer.ToEntryID); err != nil {
		return nil, err
	}

	return transfer, nil
}

func (uc *TransferUseCase) countError(err error) {
	if uc.metrics == nil {
		return
	}

	label := "internal"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		label = "invalid_argument"
	case errors.Is(err, domain.ErrNotFound):
		label = "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		label = "pairing"
	}

	uc.metrics.TransferErrors.WithLabelValues(label).Inc()
}
