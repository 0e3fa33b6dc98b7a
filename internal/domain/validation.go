package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrInvalidArgument)
	ErrInvalidCurrency    = fmt.Errorf("%w: invalid currency code", ErrInvalidArgument)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds maximum allowed", ErrInvalidArgument)
	ErrInvalidOwner       = fmt.Errorf("%w: owner is required", ErrInvalidArgument)
	ErrInvalidSubtype     = fmt.Errorf("%w: unknown account subtype", ErrInvalidArgument)
	ErrDescriptionTooLong = fmt.Errorf("%w: description too long", ErrInvalidArgument)
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxDescriptionLength = 500
	MaxAmount            = "1000000000000" // 1 trillion
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "HKD": true,
}

var validSubtypes = map[Subtype]bool{
	SubtypeChecking:   true,
	SubtypeSavings:    true,
	SubtypeCredit:     true,
	SubtypeLoan:       true,
	SubtypeInvestment: true,
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateSubtype accepts the empty subtype.
func ValidateSubtype(s Subtype) error {
	if s == "" || validSubtypes[s] {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidSubtype, s)
}

// ValidateRawAmount checks a raw entry amount. Sign is free; zero is not.
func ValidateRawAmount(amount decimal.Decimal) error {
	if RoundAmount(amount).IsZero() {
		return ErrZeroAmount
	}

	if amount.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateDescription bounds free-text descriptions.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return nil
}
