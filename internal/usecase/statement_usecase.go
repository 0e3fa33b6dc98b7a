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

// StatementUseCase imports statements and materializes their lines as
// ledger entries.
type StatementUseCase struct {
	tx            txRunner
	accountRepo   AccountRepository
	entryRepo     EntryRepository
	statementRepo StatementRepository
	outboxRepo    OutboxRepository
	balance       *BalanceUseCase
	idGen         IDGenerator
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	statementRepo StatementRepository,
	outboxRepo OutboxRepository,
	balance *BalanceUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *StatementUseCase {
	return &StatementUseCase{
		tx:            txRunner{txManager: txManager, retrier: retrier},
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		statementRepo: statementRepo,
		outboxRepo:    outboxRepo,
		balance:       balance,
		idGen:         idGen,
		metrics:       metrics,
		logger:        logger.With().Str("component", "statement").Logger(),
	}
}

// StatementLineInput is one line of an imported statement.
type StatementLineInput struct {
	PostedAt       time.Time
	Amount         decimal.Decimal
	Description    string
	ExternalID     string
	MatchedEntryID *string
}

// CreateStatementInput represents input for importing a statement.
type CreateStatementInput struct {
	AccountID      string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Lines          []StatementLineInput
}

// CreateStatement stores a statement and its lines. Lines are not
// materialized.
func (uc *StatementUseCase) CreateStatement(ctx context.Context, input CreateStatementInput) (*domain.Statement, error) {
	now := time.Now().UTC()

	statement := &domain.Statement{
		ID:             uc.idGen.Generate(),
		AccountID:      input.AccountID,
		PeriodStart:    domain.DateOnly(input.PeriodStart),
		PeriodEnd:      domain.DateOnly(input.PeriodEnd),
		OpeningBalance: domain.RoundAmount(input.OpeningBalance),
		ClosingBalance: domain.RoundAmount(input.ClosingBalance),
		CreatedAt:      now,
	}

	if err := statement.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(input.Lines))
	lines := make([]*domain.StatementLine, 0, len(input.Lines))
	for _, li := range input.Lines {
		if li.ExternalID != "" {
			if seen[li.ExternalID] {
				return nil, fmt.Errorf("%w: duplicate external id %q", domain.ErrInvalidArgument, li.ExternalID)
			}
			seen[li.ExternalID] = true
		}

		if err := domain.ValidateDescription(li.Description); err != nil {
			return nil, err
		}

		lines = append(lines, &domain.StatementLine{
			ID:             uc.idGen.Generate(),
			StatementID:    statement.ID,
			PostedAt:       domain.DateOnly(li.PostedAt),
			Amount:         domain.RoundAmount(li.Amount),
			Description:    li.Description,
			ExternalID:     li.ExternalID,
			MatchedEntryID: li.MatchedEntryID,
		})
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		if err := uc.statementRepo.Create(ctx, tx, statement); err != nil {
			return err
		}

		if len(lines) == 0 {
			return nil
		}

		_, err := uc.statementRepo.CreateLines(ctx, tx, lines)
		return err
	})
	if err != nil {
		return nil, err
	}

	return statement, nil
}

// GetStatement returns the processing summary of a statement.
func (uc *StatementUseCase) GetStatement(ctx context.Context, id string) (*domain.StatementSummary, error) {
	statement, err := uc.statementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, statement.AccountID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.statementRepo.GetLines(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	return domain.Summarize(statement, account, lines), nil
}

// ListLines returns the lines of a statement in posting order.
func (uc *StatementUseCase) ListLines(ctx context.Context, statementID string) ([]*domain.StatementLine, error) {
	if _, err := uc.statementRepo.GetByID(ctx, statementID); err != nil {
		return nil, err
	}

	return uc.statementRepo.GetLines(ctx, nil, statementID)
}

// DeleteStatement removes a statement and its lines. Statements with
// materialized lines are kept.
func (uc *StatementUseCase) DeleteStatement(ctx context.Context, id string) error {
	return uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		if _, err := uc.statementRepo.GetByIDForUpdate(ctx, tx, id); err != nil {
			return err
		}

		lines, err := uc.statementRepo.GetLines(ctx, tx, id)
		if err != nil {
			return err
		}

		for _, l := range lines {
			if l.IsRealized() {
				return domain.ErrStatementProcessed
			}
		}

		return uc.statementRepo.Delete(ctx, tx, id)
	})
}

// BatchOptions controls the closing balance check of a statement batch.
type BatchOptions struct {
	// ClosingBalance is the balance the batch must land on. Nil skips the
	// check unless VerifyStatementBalance is set.
	ClosingBalance *decimal.Decimal
	// VerifyStatementBalance asserts the statement's own closing balance
	// when ClosingBalance is nil.
	VerifyStatementBalance bool
}

func (o BatchOptions) expectedClosing(statement *domain.Statement) (decimal.Decimal, bool) {
	switch {
	case o.ClosingBalance != nil:
		return domain.RoundAmount(*o.ClosingBalance), true
	case o.VerifyStatementBalance:
		return statement.ClosingBalance, true
	default:
		return decimal.Zero, false
	}
}

// ProcessStatementBatch materializes every not yet materialized line as one
// entry, inserts them in bulk and applies their sum with a single atomic
// increment. When a closing balance is asserted the resulting cached balance
// must land within the default tolerance of it, otherwise nothing is kept.
func (uc *StatementUseCase) ProcessStatementBatch(ctx context.Context, statementID string, opts BatchOptions) ([]*domain.LedgerEntry, error) {
	start := time.Now()

	var (
		entries   []*domain.LedgerEntry
		statement *domain.Statement
	)

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		var err error

		// Serializes concurrent batches of the same statement.
		statement, err = uc.statementRepo.GetByIDForUpdate(ctx, tx, statementID)
		if err != nil {
			return err
		}

		account, err := uc.accountRepo.GetByID(ctx, statement.AccountID)
		if err != nil {
			return err
		}

		lines, err := uc.statementRepo.GetLines(ctx, tx, statementID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		entries = make([]*domain.LedgerEntry, 0, len(lines))
		total := decimal.Zero

		for _, line := range lines {
			if line.IsRealized() {
				continue
			}

			entry, err := domain.NewLedgerEntry(uc.idGen.Generate(), account, line.Amount, line.PostedAt, line.Description, now)
			if errors.Is(err, domain.ErrZeroAmount) {
				uc.logger.Debug().Str("line_id", line.ID).Msg("skipping zero amount statement line")
				continue
			}
			if err != nil {
				return err
			}

			lineID := line.ID
			entry.SourceLineID = &lineID

			entries = append(entries, entry)
			total = total.Add(entry.SignedAmount)
		}

		if len(entries) > 0 {
			if _, err := uc.entryRepo.CreateBatch(ctx, tx, entries); err != nil {
				return fmt.Errorf("bulk insert statement entries: %w", err)
			}
		}

		if err := uc.balance.ApplyBatch(ctx, tx, account.ID, total); err != nil {
			return err
		}

		updated, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, account.ID)
		if err != nil {
			return err
		}

		if expected, ok := opts.expectedClosing(statement); ok &&
			!domain.WithinTolerance(updated.CachedBalance, expected, domain.DefaultTolerance) {
			return &domain.BalanceMismatchError{
				AccountID:  account.ID,
				Expected:   expected,
				Calculated: updated.CachedBalance,
				Difference: updated.CachedBalance.Sub(expected).Abs(),
			}
		}

		return emitEvent(ctx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypeStatement, statementID,
			domain.EventTypeStatementProcessed, domain.StatementProcessedEvent{
				StatementID:    statementID,
				AccountID:      account.ID,
				LinesProcessed: len(entries),
				ClosingBalance: updated.CachedBalance.StringFixed(domain.AmountScale),
			}.Payload(), now)
	})
	if err != nil {
		var mismatch *domain.BalanceMismatchError
		if errors.As(err, &mismatch) {
			uc.logger.Warn().
				Str("statement_id", statementID).
				Str("expected", mismatch.Expected.StringFixed(domain.AmountScale)).
				Str("calculated", mismatch.Calculated.StringFixed(domain.AmountScale)).
				Msg("statement batch rejected")
		}
		uc.observeBatch("failure", start)
		return nil, err
	}

	uc.observeBatch("success", start)
	if uc.metrics != nil {
		uc.metrics.StatementLines.Add(float64(len(entries)))
	}

	uc.logger.Debug().
		Str("statement_id", statement.ID).
		Int("entries", len(entries)).
		Msg("statement batch processed")

	return entries, nil
}

// RealizeLine returns the entry materialized from lineID, creating it through
// the individual balance path when it does not exist yet. It never creates a
// second entry for the same line.
func (uc *StatementUseCase) RealizeLine(ctx context.Context, lineID string) (*domain.LedgerEntry, error) {
	var (
		entry   *domain.LedgerEntry
		created bool
	)

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		created = false

		line, err := uc.statementRepo.GetLineForUpdate(ctx, tx, lineID)
		if err != nil {
			return err
		}

		statement, err := uc.statementRepo.GetByID(ctx, line.StatementID)
		if err != nil {
			return err
		}

		account, err := uc.accountRepo.GetByID(ctx, statement.AccountID)
		if err != nil {
			return err
		}

		entry, err = uc.entryRepo.GetBySourceLine(ctx, tx, account.ID, line.ID)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrEntryNotFound):
			entry, err = domain.NewLedgerEntry(uc.idGen.Generate(), account, line.Amount, line.PostedAt, line.Description, time.Now().UTC())
			if err != nil {
				return err
			}
			entry.SourceLineID = &line.ID

			if err := writeEntry(ctx, tx, uc.entryRepo, uc.balance, entry, false); err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		if line.MatchedEntryID == nil {
			return nil
		}

		matched, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, *line.MatchedEntryID)
		if err != nil {
			return err
		}

		if matched.IsMatched {
			return nil
		}

		return uc.entryRepo.SetMatched(ctx, tx, matched.ID, true, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	if created && uc.metrics != nil {
		uc.metrics.LinesRealized.Inc()
	}

	return entry, nil
}

func (uc *StatementUseCase) observeBatch(outcome string, start time.Time) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.StatementBatches.WithLabelValues(outcome).Inc()
	uc.metrics.StatementBatchSeconds.Observe(time.Since(start).Seconds())
}
