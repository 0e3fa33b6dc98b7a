package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateTransferRequest(t *testing.T) {
	tests := []struct {
		name        string
		fromID      string
		toID        string
		amount      decimal.Decimal
		expectError error
	}{
		{
			name:   "valid transfer",
			fromID: "account-1",
			toID:   "account-2",
			amount: decimal.NewFromInt(100),
		},
		{
			name:        "same account",
			fromID:      "account-1",
			toID:        "account-1",
			amount:      decimal.NewFromInt(100),
			expectError: ErrSameAccount,
		},
		{
			name:        "zero amount",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.Zero,
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.NewFromInt(-100),
			expectError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransferRequest(tt.fromID, tt.toID, tt.amount)

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestValidateTransferLegs(t *testing.T) {
	leg := func(account, raw string) *LedgerEntry {
		return &LedgerEntry{AccountID: account, RawAmount: decimal.RequireFromString(raw)}
	}

	tests := []struct {
		name    string
		from    *LedgerEntry
		to      *LedgerEntry
		wantErr bool
	}{
		{"valid pair", leg("a", "-100.00"), leg("b", "100.00"), false},
		{"same account", leg("a", "-100.00"), leg("a", "100.00"), true},
		{"signs swapped", leg("a", "100.00"), leg("b", "-100.00"), true},
		{"magnitudes differ", leg("a", "-100.00"), leg("b", "99.99"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransferLegs(tt.from, tt.to)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var pairing *TransferPairingError
			if !errors.As(err, &pairing) {
				t.Fatalf("expected TransferPairingError, got %v", err)
			}
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected invalid state kind, got %v", err)
			}
		})
	}
}

func TestTransfer_Amount(t *testing.T) {
	tr := &Transfer{}
	if !tr.Amount().IsZero() {
		t.Fatalf("expected zero amount without legs, got %s", tr.Amount())
	}

	tr.ToEntry = &LedgerEntry{RawAmount: decimal.RequireFromString("250.50")}
	if !tr.Amount().Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("expected 250.50, got %s", tr.Amount())
	}
}
