package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nature tells whether an account's balance grows with inflow or with debt.
type Nature string

const (
	NatureAsset     Nature = "ASSET"
	NatureLiability Nature = "LIABILITY"
)

// IsValid reports whether n is a known nature.
func (n Nature) IsValid() bool {
	return n == NatureAsset || n == NatureLiability
}

// Subtype is descriptive metadata only; it never changes balance rules.
type Subtype string

const (
	SubtypeChecking   Subtype = "CHECKING"
	SubtypeSavings    Subtype = "SAVINGS"
	SubtypeCredit     Subtype = "CREDIT"
	SubtypeLoan       Subtype = "LOAN"
	SubtypeInvestment Subtype = "INVESTMENT"
)

// Account represents a ledger account with a cached balance.
type Account struct {
	ID              string
	OwnerID         string
	Name            string
	Nature          Nature
	Subtype         Subtype
	Currency        string
	CachedBalance   decimal.Decimal
	CreditLimit     *decimal.Decimal
	InterestRateAPR *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplyDelta returns the cached balance after adding delta.
func (a *Account) ApplyDelta(delta decimal.Decimal) decimal.Decimal {
	return a.CachedBalance.Add(delta).Round(AmountScale)
}

// Normalize converts a raw amount into the signed amount for this account.
func (a *Account) Normalize(raw decimal.Decimal) decimal.Decimal {
	return Normalize(a.Nature, raw)
}

// Health status values.
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// Health warnings.
const (
	WarningHighCreditUtilization     = "high_credit_utilization"
	WarningModerateCreditUtilization = "moderate_credit_utilization"
	WarningNegativeBalance           = "negative_balance"
)

// AccountHealth summarises warning signs derived from the cached balance.
type AccountHealth struct {
	Status            string
	Warnings          []string
	CreditUtilization *decimal.Decimal
}

var (
	highUtilization     = decimal.RequireFromString("0.7")
	moderateUtilization = decimal.RequireFromString("0.3")
)

// Health evaluates the account. Liability balances follow the normalized
// sign convention, so only asset accounts are compared against zero.
func (a *Account) Health() AccountHealth {
	h := AccountHealth{Status: HealthHealthy, Warnings: []string{}}

	if a.Subtype == SubtypeCredit && a.CreditLimit != nil && a.CreditLimit.IsPositive() {
		utilization := a.CachedBalance.Abs().Div(*a.CreditLimit)
		switch {
		case utilization.GreaterThan(highUtilization):
			h.Warnings = append(h.Warnings, WarningHighCreditUtilization)
			h.Status = HealthCritical
		case utilization.GreaterThan(moderateUtilization):
			h.Warnings = append(h.Warnings, WarningModerateCreditUtilization)
			h.Status = HealthWarning
		}
		u := utilization.Round(4)
		h.CreditUtilization = &u
	}

	if a.Nature == NatureAsset && a.CachedBalance.IsNegative() {
		h.Warnings = append(h.Warnings, WarningNegativeBalance)
		if h.Status == HealthHealthy {
			h.Status = HealthWarning
		}
	}

	return h
}
