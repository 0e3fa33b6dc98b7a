package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds. Every error returned by the engine wraps exactly one of these.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidState     = errors.New("invalid state")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
)

var (
	// Account errors
	ErrAccountNotFound     = fmt.Errorf("%w: account", ErrNotFound)
	ErrAccountHasEntries   = fmt.Errorf("%w: account still owns ledger entries", ErrInvalidOperation)
	ErrInvalidNature       = fmt.Errorf("%w: account nature must be ASSET or LIABILITY", ErrInvalidArgument)
	ErrDuplicateAccount    = fmt.Errorf("%w: account name already used by owner", ErrInvalidOperation)
	ErrCategoryNotFound    = fmt.Errorf("%w: category", ErrNotFound)
	ErrMissingCategory     = fmt.Errorf("%w: category is required", ErrInvalidArgument)
	ErrEntryNotFound       = fmt.Errorf("%w: ledger entry", ErrNotFound)
	ErrZeroAmount          = fmt.Errorf("%w: amount must not be zero", ErrInvalidArgument)
	ErrTransferLegDelete   = fmt.Errorf("%w: entry is a transfer leg, delete the transfer instead", ErrInvalidOperation)
	ErrTransferLegMutation = fmt.Errorf("%w: amount and account of a transfer leg cannot change", ErrInvalidOperation)

	// Transfer errors
	ErrSameAccount      = fmt.Errorf("%w: cannot transfer to same account", ErrInvalidArgument)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	ErrTransferNotFound = fmt.Errorf("%w: transfer", ErrNotFound)

	// Statement errors
	ErrStatementNotFound  = fmt.Errorf("%w: statement", ErrNotFound)
	ErrLineNotFound       = fmt.Errorf("%w: statement line", ErrNotFound)
	ErrInvalidPeriod      = fmt.Errorf("%w: period start must not be after period end", ErrInvalidArgument)
	ErrStatementExists    = fmt.Errorf("%w: statement already exists for this account and period", ErrInvalidOperation)
	ErrStatementProcessed = fmt.Errorf("%w: statement has materialized lines", ErrInvalidOperation)
)

// BalanceMismatchError is returned when a statement batch does not land on
// the asserted closing balance.
type BalanceMismatchError struct {
	AccountID  string
	Expected   decimal.Decimal
	Calculated decimal.Decimal
	Difference decimal.Decimal
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("balance verification failed for account %s: expected %s, calculated %s, difference %s",
		e.AccountID, e.Expected.StringFixed(2), e.Calculated.StringFixed(2), e.Difference.StringFixed(2))
}

func (e *BalanceMismatchError) Unwrap() error {
	return ErrValidationFailed
}

// TransferPairingError reports a violated transfer invariant.
type TransferPairingError struct {
	Reason        string
	FromAccountID string
	ToAccountID   string
	FromRaw       decimal.Decimal
	ToRaw         decimal.Decimal
}

func (e *TransferPairingError) Error() string {
	return fmt.Sprintf("transfer pairing violated: %s (from %s raw %s, to %s raw %s)",
		e.Reason, e.FromAccountID, e.FromRaw.StringFixed(2), e.ToAccountID, e.ToRaw.StringFixed(2))
}

func (e *TransferPairingError) Unwrap() error {
	return ErrInvalidState
}
