package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		nature Nature
		raw    string
		want   string
	}{
		{"asset inflow", NatureAsset, "100.00", "100.00"},
		{"asset outflow", NatureAsset, "-42.10", "-42.10"},
		{"liability charge", NatureLiability, "-200.00", "200.00"},
		{"liability payment", NatureLiability, "150.00", "-150.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.nature, d(tt.raw))
			if !got.Equal(d(tt.want)) {
				t.Fatalf("Normalize(%s, %s) = %s, want %s", tt.nature, tt.raw, got, tt.want)
			}
			// applying twice returns the raw value
			if back := Normalize(tt.nature, got); !back.Equal(d(tt.raw)) {
				t.Fatalf("double normalize = %s, want %s", back, tt.raw)
			}
		})
	}
}

func TestNature_IsValid(t *testing.T) {
	if !NatureAsset.IsValid() || !NatureLiability.IsValid() {
		t.Fatal("expected known natures to be valid")
	}
	if Nature("EQUITY").IsValid() {
		t.Fatal("expected EQUITY to be invalid")
	}
	if !errors.Is(ErrInvalidNature, ErrInvalidArgument) {
		t.Fatal("expected ErrInvalidNature to be an invalid argument")
	}
}

func TestAccount_ApplyDelta(t *testing.T) {
	acc := &Account{CachedBalance: d("10.00")}
	if got := acc.ApplyDelta(d("-0.105")); !got.Equal(d("9.90")) {
		t.Fatalf("expected 9.90, got %s", got)
	}
	if got := acc.ApplyDelta(d("5.25")); !got.Equal(d("15.25")) {
		t.Fatalf("expected 15.25, got %s", got)
	}
}

func TestAccount_Health(t *testing.T) {
	tests := []struct {
		name        string
		account     Account
		wantStatus  string
		wantWarning string
		wantUtil    string
	}{
		{
			name:       "healthy checking",
			account:    Account{Nature: NatureAsset, Subtype: SubtypeChecking, CachedBalance: d("500.00")},
			wantStatus: HealthHealthy,
		},
		{
			name:        "overdrawn checking",
			account:     Account{Nature: NatureAsset, Subtype: SubtypeChecking, CachedBalance: d("-20.00")},
			wantStatus:  HealthWarning,
			wantWarning: WarningNegativeBalance,
		},
		{
			name:        "credit card above high threshold",
			account:     Account{Nature: NatureLiability, Subtype: SubtypeCredit, CachedBalance: d("800.00"), CreditLimit: dp("1000.00")},
			wantStatus:  HealthCritical,
			wantWarning: WarningHighCreditUtilization,
			wantUtil:    "0.8",
		},
		{
			name:        "credit card moderate",
			account:     Account{Nature: NatureLiability, Subtype: SubtypeCredit, CachedBalance: d("400.00"), CreditLimit: dp("1000.00")},
			wantStatus:  HealthWarning,
			wantWarning: WarningModerateCreditUtilization,
			wantUtil:    "0.4",
		},
		{
			name:       "credit card low",
			account:    Account{Nature: NatureLiability, Subtype: SubtypeCredit, CachedBalance: d("100.00"), CreditLimit: dp("1000.00")},
			wantStatus: HealthHealthy,
			wantUtil:   "0.1",
		},
		{
			name:       "liability positive balance is not negative",
			account:    Account{Nature: NatureLiability, Subtype: SubtypeLoan, CachedBalance: d("12000.00")},
			wantStatus: HealthHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.account.Health()
			if h.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", h.Status, tt.wantStatus)
			}
			if tt.wantWarning == "" && len(h.Warnings) != 0 {
				t.Fatalf("expected no warnings, got %v", h.Warnings)
			}
			if tt.wantWarning != "" && (len(h.Warnings) != 1 || h.Warnings[0] != tt.wantWarning) {
				t.Fatalf("warnings = %v, want [%s]", h.Warnings, tt.wantWarning)
			}
			if tt.wantUtil == "" {
				if h.CreditUtilization != nil {
					t.Fatalf("expected no utilization, got %s", h.CreditUtilization)
				}
				return
			}
			if h.CreditUtilization == nil || !h.CreditUtilization.Equal(d(tt.wantUtil)) {
				t.Fatalf("utilization = %v, want %s", h.CreditUtilization, tt.wantUtil)
			}
		})
	}
}
