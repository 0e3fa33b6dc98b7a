package dto

import (
	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	OwnerID         string           `json:"owner_id"`
	Name            string           `json:"name"`
	Nature          string           `json:"nature"`
	Subtype         string           `json:"subtype"`
	Currency        string           `json:"currency"`
	CreditLimit     *decimal.Decimal `json:"credit_limit,omitempty"`
	InterestRateAPR *decimal.Decimal `json:"interest_rate_apr,omitempty"`
	OpeningBalance  decimal.Decimal  `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:         r.OwnerID,
		Name:            r.Name,
		Nature:          domain.Nature(r.Nature),
		Subtype:         domain.Subtype(r.Subtype),
		Currency:        r.Currency,
		CreditLimit:     r.CreditLimit,
		InterestRateAPR: r.InterestRateAPR,
		OpeningBalance:  r.OpeningBalance,
	}
}

// CreateEntryRequest represents a request to record a ledger entry.
type CreateEntryRequest struct {
	AccountID     string          `json:"account_id"`
	RawAmount     decimal.Decimal `json:"raw_amount"`
	EffectiveDate *Date           `json:"effective_date,omitempty"`
	Description   string          `json:"description"`
	CategoryID    *string         `json:"category_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		AccountID:     r.AccountID,
		RawAmount:     r.RawAmount,
		EffectiveDate: dateOrZero(r.EffectiveDate),
		Description:   r.Description,
		CategoryID:    r.CategoryID,
	}
}

// UpdateEntryRequest represents a partial update of a ledger entry. Absent
// fields are left unchanged.
type UpdateEntryRequest struct {
	AccountID     *string          `json:"account_id,omitempty"`
	RawAmount     *decimal.Decimal `json:"raw_amount,omitempty"`
	EffectiveDate *Date            `json:"effective_date,omitempty"`
	Description   *string          `json:"description,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput() usecase.UpdateEntryInput {
	input := usecase.UpdateEntryInput{
		AccountID:   r.AccountID,
		RawAmount:   r.RawAmount,
		Description: r.Description,
		CategoryID:  r.CategoryID,
	}

	if r.EffectiveDate != nil {
		t := r.EffectiveDate.Time
		input.EffectiveDate = &t
	}

	return input
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	OwnerID           string          `json:"owner_id,omitempty"`
	FromAccountID     string          `json:"from_account_id"`
	ToAccountID       string          `json:"to_account_id"`
	Amount            decimal.Decimal `json:"amount"`
	EffectiveDate     *Date           `json:"effective_date,omitempty"`
	PurposeCategoryID string          `json:"purpose_category_id,omitempty"`
	Description       string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		OwnerID:           r.OwnerID,
		FromAccountID:     r.FromAccountID,
		ToAccountID:       r.ToAccountID,
		Amount:            r.Amount,
		EffectiveDate:     dateOrZero(r.EffectiveDate),
		PurposeCategoryID: r.PurposeCategoryID,
		Description:       r.Description,
	}
}

// UpdateTransferRequest changes the description of both legs.
type UpdateTransferRequest struct {
	Description string `json:"description"`
}

// StatementLineRequest is one imported statement line.
type StatementLineRequest struct {
	PostedAt       Date            `json:"posted_at"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	ExternalID     string          `json:"external_id,omitempty"`
	MatchedEntryID *string         `json:"matched_entry_id,omitempty"`
}

// CreateStatementRequest represents a statement import.
type CreateStatementRequest struct {
	AccountID      string                 `json:"account_id"`
	PeriodStart    Date                   `json:"period_start"`
	PeriodEnd      Date                   `json:"period_end"`
	OpeningBalance decimal.Decimal        `json:"opening_balance"`
	ClosingBalance decimal.Decimal        `json:"closing_balance"`
	Lines          []StatementLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateStatementRequest) ToUseCaseInput() usecase.CreateStatementInput {
	lines := make([]usecase.StatementLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.StatementLineInput{
			PostedAt:       l.PostedAt.Time,
			Amount:         l.Amount,
			Description:    l.Description,
			ExternalID:     l.ExternalID,
			MatchedEntryID: l.MatchedEntryID,
		}
	}

	return usecase.CreateStatementInput{
		AccountID:      r.AccountID,
		PeriodStart:    r.PeriodStart.Time,
		PeriodEnd:      r.PeriodEnd.Time,
		OpeningBalance: r.OpeningBalance,
		ClosingBalance: r.ClosingBalance,
		Lines:          lines,
	}
}

// ProcessBatchRequest optionally asserts the closing balance the batch must
// land on. Verify asserts the statement's own closing balance instead.
type ProcessBatchRequest struct {
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	Verify         bool             `json:"verify,omitempty"`
}

// ToUseCaseInput converts the request to batch options.
func (r ProcessBatchRequest) ToUseCaseInput() usecase.BatchOptions {
	return usecase.BatchOptions{
		ClosingBalance:         r.ClosingBalance,
		VerifyStatementBalance: r.Verify,
	}
}
