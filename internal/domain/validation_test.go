package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateAccountName("Everyday Checking"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateAccountName("   ")
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected invalid argument kind, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxAccountNameLength+1)
		if err := ValidateAccountName(tooLong); !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})
}

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	if err := ValidateCurrency("usd"); err != nil {
		t.Fatalf("expected uppercase conversion to succeed, got %v", err)
	}

	if err := ValidateCurrency("XYZ"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestValidateSubtype(t *testing.T) {
	t.Parallel()

	for _, s := range []Subtype{"", SubtypeChecking, SubtypeCredit, SubtypeLoan} {
		if err := ValidateSubtype(s); err != nil {
			t.Fatalf("subtype %q: unexpected error %v", s, err)
		}
	}

	if err := ValidateSubtype("BROKERAGE"); !errors.Is(err, ErrInvalidSubtype) {
		t.Fatalf("expected ErrInvalidSubtype, got %v", err)
	}
}

func TestValidateRawAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount decimal.Decimal
		want   error
	}{
		{"positive", decimal.RequireFromString("100.25"), nil},
		{"negative", decimal.RequireFromString("-42.10"), nil},
		{"zero", decimal.Zero, ErrZeroAmount},
		{"rounds to zero", decimal.RequireFromString("0.001"), ErrZeroAmount},
		{"too large", decimal.RequireFromString(MaxAmount).Add(decimal.NewFromInt(1)), ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRawAmount(tt.amount)
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	if err := ValidateDescription("groceries"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}
}
