package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/infrastructure/metrics"
)

const defaultCurrency = "USD"

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	tx           txRunner
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	balance      *BalanceUseCase
	idGen        IDGenerator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	balance *BalanceUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		tx:           txRunner{txManager: txManager, retrier: retrier},
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		balance:      balance,
		idGen:        idGen,
		metrics:      metrics,
		logger:       logger.With().Str("component", "account").Logger(),
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID         string
	Name            string
	Nature          domain.Nature
	Subtype         domain.Subtype
	Currency        string
	CreditLimit     *decimal.Decimal
	InterestRateAPR *decimal.Decimal
	// OpeningBalance is expressed as the user sees it: for liabilities a
	// positive value is the amount owed.
	OpeningBalance decimal.Decimal
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	OwnerID string
	Limit   int
	Offset  int
}

// CreateAccount creates a new account, seeding a non-zero opening balance
// as a regular entry.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, domain.ErrInvalidOwner
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if !input.Nature.IsValid() {
		return nil, domain.ErrInvalidNature
	}

	if err := domain.ValidateSubtype(input.Subtype); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	opening := domain.RoundAmount(input.OpeningBalance)
	now := time.Now().UTC()

	account := &domain.Account{
		ID:              uc.idGen.Generate(),
		OwnerID:         input.OwnerID,
		Name:            strings.TrimSpace(input.Name),
		Nature:          input.Nature,
		Subtype:         input.Subtype,
		Currency:        currency,
		CachedBalance:   decimal.Zero,
		CreditLimit:     input.CreditLimit,
		InterestRateAPR: input.InterestRateAPR,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
			return err
		}

		if !opening.IsZero() {
			if err := uc.seedOpeningBalance(ctx, tx, account, opening, now); err != nil {
				return err
			}
		}

		return emitEvent(ctx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypeAccount, account.ID,
			domain.EventTypeAccountCreated, domain.AccountCreatedEvent{
				AccountID:      account.ID,
				OwnerID:        account.OwnerID,
				Name:           account.Name,
				Nature:         string(account.Nature),
				OpeningBalance: opening.StringFixed(domain.AmountScale),
			}.Payload(), now)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	if opening.IsZero() {
		return account, nil
	}

	return uc.accountRepo.GetByID(ctx, account.ID)
}

func (uc *AccountUseCase) seedOpeningBalance(ctx context.Context, tx Transaction, account *domain.Account, opening decimal.Decimal, now time.Time) error {
	category, err := uc.categoryRepo.GetOrCreate(ctx, tx, &domain.Category{
		ID:      uc.idGen.Generate(),
		OwnerID: account.OwnerID,
		Name:    domain.OpeningBalanceCategoryName,
		Type:    domain.CategoryTransfer,
	})
	if err != nil {
		return err
	}

	// A positive liability opening balance is money owed, which is a
	// negative raw amount in the liability's own terms.
	raw := opening
	if account.Nature == domain.NatureLiability {
		raw = opening.Neg()
	}

	entry, err := domain.NewLedgerEntry(uc.idGen.Generate(), account, raw, now, domain.OpeningBalanceCategoryName, now)
	if err != nil {
		return err
	}
	entry.CategoryID = &category.ID

	return writeEntry(ctx, tx, uc.entryRepo, uc.balance, entry, false)
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists accounts with pagination, optionally for one owner.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	return uc.accountRepo.List(ctx, input.OwnerID, clampLimit(input.Limit), offset)
}

// DeleteAccount removes an account that owns no entries.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	return uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id); err != nil {
			return err
		}

		count, err := uc.entryRepo.CountByAccount(ctx, tx, id)
		if err != nil {
			return err
		}

		if count > 0 {
			return domain.ErrAccountHasEntries
		}

		return uc.accountRepo.Delete(ctx, tx, id)
	})
}

// AccountHealth evaluates warning signs of an account's cached balance.
func (uc *AccountUseCase) AccountHealth(ctx context.Context, id string) (*domain.AccountHealth, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	health := account.Health()

	return &health, nil
}
