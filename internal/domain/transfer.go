package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferCategoryName is the neutral category used for the outgoing leg.
const TransferCategoryName = "Transfer"

// Transfer links the two ledger entries of a movement between accounts.
type Transfer struct {
	ID          string
	FromEntryID string
	ToEntryID   string
	CreatedAt   time.Time

	// Loaded legs; nil unless the repository populated them.
	FromEntry *LedgerEntry
	ToEntry   *LedgerEntry
}

// Amount is the magnitude moved by the transfer.
func (t *Transfer) Amount() decimal.Decimal {
	if t.ToEntry == nil {
		return decimal.Zero
	}
	return t.ToEntry.RawAmount.Abs()
}

// ValidateTransferRequest checks transfer request parameters before any mutation.
func ValidateTransferRequest(fromAccountID, toAccountID string, amount decimal.Decimal) error {
	if fromAccountID == toAccountID {
		return ErrSameAccount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// ValidateTransferLegs re-asserts the pairing invariants on materialized legs.
func ValidateTransferLegs(from, to *LedgerEntry) error {
	pairing := func(reason string) error {
		return &TransferPairingError{
			Reason:        reason,
			FromAccountID: from.AccountID,
			ToAccountID:   to.AccountID,
			FromRaw:       from.RawAmount,
			ToRaw:         to.RawAmount,
		}
	}

	if from.AccountID == to.AccountID {
		return pairing("legs must belong to different accounts")
	}

	if !from.RawAmount.IsNegative() || !to.RawAmount.IsPositive() {
		return pairing("from leg must be negative and to leg positive")
	}

	if !from.RawAmount.Abs().Equal(to.RawAmount.Abs()) {
		return pairing("leg magnitudes differ")
	}

	return nil
}
