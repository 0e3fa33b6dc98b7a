package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a single monetary movement attributed to one account.
// SignedAmount is derived from RawAmount and the account nature and is only
// ever set by NewLedgerEntry and Reassign.
type LedgerEntry struct {
	ID            string
	AccountID     string
	EffectiveDate time.Time
	Description   string
	RawAmount     decimal.Decimal
	SignedAmount  decimal.Decimal
	CategoryID    *string
	IsMatched     bool
	SourceLineID  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewLedgerEntry builds an entry for account, normalizing raw.
// Zero raw amounts are rejected.
func NewLedgerEntry(id string, account *Account, raw decimal.Decimal, effectiveDate time.Time, description string, now time.Time) (*LedgerEntry, error) {
	raw = RoundAmount(raw)
	if raw.IsZero() {
		return nil, ErrZeroAmount
	}

	return &LedgerEntry{
		ID:            id,
		AccountID:     account.ID,
		EffectiveDate: DateOnly(effectiveDate),
		Description:   description,
		RawAmount:     raw,
		SignedAmount:  account.Normalize(raw),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Reassign moves the entry to account with a new raw amount and recomputes
// the signed amount from the resulting pair.
func (e *LedgerEntry) Reassign(account *Account, raw decimal.Decimal) error {
	raw = RoundAmount(raw)
	if raw.IsZero() {
		return ErrZeroAmount
	}

	e.AccountID = account.ID
	e.RawAmount = raw
	e.SignedAmount = account.Normalize(raw)

	return nil
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
