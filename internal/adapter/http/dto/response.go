package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID              string           `json:"id"`
	OwnerID         string           `json:"owner_id"`
	Name            string           `json:"name"`
	Nature          string           `json:"nature"`
	Subtype         string           `json:"subtype"`
	Currency        string           `json:"currency"`
	Balance         decimal.Decimal  `json:"balance"`
	CreditLimit     *decimal.Decimal `json:"credit_limit,omitempty"`
	InterestRateAPR *decimal.Decimal `json:"interest_rate_apr,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		OwnerID:         a.OwnerID,
		Name:            a.Name,
		Nature:          string(a.Nature),
		Subtype:         string(a.Subtype),
		Currency:        a.Currency,
		Balance:         a.CachedBalance,
		CreditLimit:     a.CreditLimit,
		InterestRateAPR: a.InterestRateAPR,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// AccountHealthResponse represents warning signs of an account.
type AccountHealthResponse struct {
	AccountID         string           `json:"account_id"`
	Status            string           `json:"status"`
	Warnings          []string         `json:"warnings"`
	CreditUtilization *decimal.Decimal `json:"credit_utilization,omitempty"`
}

// AccountHealthFromDomain converts an account health to response.
func AccountHealthFromDomain(accountID string, h *domain.AccountHealth) *AccountHealthResponse {
	warnings := h.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &AccountHealthResponse{
		AccountID:         accountID,
		Status:            h.Status,
		Warnings:          warnings,
		CreditUtilization: h.CreditUtilization,
	}
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	EffectiveDate Date            `json:"effective_date"`
	Description   string          `json:"description"`
	RawAmount     decimal.Decimal `json:"raw_amount"`
	SignedAmount  decimal.Decimal `json:"signed_amount"`
	CategoryID    *string         `json:"category_id,omitempty"`
	IsMatched     bool            `json:"is_matched"`
	SourceLineID  *string         `json:"source_line_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		EffectiveDate: Date{e.EffectiveDate},
		Description:   e.Description,
		RawAmount:     e.RawAmount,
		SignedAmount:  e.SignedAmount,
		CategoryID:    e.CategoryID,
		IsMatched:     e.IsMatched,
		SourceLineID:  e.SourceLineID,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse represents a page of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID          string         `json:"id"`
	FromEntryID string         `json:"from_entry_id"`
	ToEntryID   string         `json:"to_entry_id"`
	FromEntry   *EntryResponse `json:"from_entry,omitempty"`
	ToEntry     *EntryResponse `json:"to_entry,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	resp := &TransferResponse{
		ID:          t.ID,
		FromEntryID: t.FromEntryID,
		ToEntryID:   t.ToEntryID,
		CreatedAt:   t.CreatedAt,
	}

	if t.FromEntry != nil {
		resp.FromEntry = EntryFromDomain(t.FromEntry)
	}
	if t.ToEntry != nil {
		resp.ToEntry = EntryFromDomain(t.ToEntry)
	}

	return resp
}

// StatementResponse represents a statement header.
type StatementResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	PeriodStart    Date            `json:"period_start"`
	PeriodEnd      Date            `json:"period_end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// StatementFromDomain converts domain statement to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	return &StatementResponse{
		ID:             s.ID,
		AccountID:      s.AccountID,
		PeriodStart:    Date{s.PeriodStart},
		PeriodEnd:      Date{s.PeriodEnd},
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		CreatedAt:      s.CreatedAt,
	}
}

// StatementSummaryResponse reports processing progress of a statement.
type StatementSummaryResponse struct {
	*StatementResponse

	CurrentBalance   decimal.Decimal `json:"current_balance"`
	TotalLines       int             `json:"total_lines"`
	ProcessedLines   int             `json:"processed_lines"`
	UnprocessedLines int             `json:"unprocessed_lines"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ProcessedAmount  decimal.Decimal `json:"processed_amount"`
}

// StatementSummaryFromDomain converts a statement summary to response.
func StatementSummaryFromDomain(s *domain.StatementSummary) *StatementSummaryResponse {
	return &StatementSummaryResponse{
		StatementResponse: StatementFromDomain(s.Statement),
		CurrentBalance:    s.CurrentBalance,
		TotalLines:        s.TotalLines,
		ProcessedLines:    s.ProcessedLines,
		UnprocessedLines:  s.UnprocessedLines(),
		TotalAmount:       s.TotalAmount,
		ProcessedAmount:   s.ProcessedAmount,
	}
}

// StatementLineResponse represents a statement line.
type StatementLineResponse struct {
	ID              string          `json:"id"`
	StatementID     string          `json:"statement_id"`
	PostedAt        Date            `json:"posted_at"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	ExternalID      string          `json:"external_id,omitempty"`
	MatchedEntryID  *string         `json:"matched_entry_id,omitempty"`
	RealizedEntryID *string         `json:"realized_entry_id,omitempty"`
}

// StatementLinesFromDomain converts statement lines to responses.
func StatementLinesFromDomain(lines []*domain.StatementLine) []*StatementLineResponse {
	result := make([]*StatementLineResponse, len(lines))
	for i, l := range lines {
		result[i] = &StatementLineResponse{
			ID:              l.ID,
			StatementID:     l.StatementID,
			PostedAt:        Date{l.PostedAt},
			Amount:          l.Amount,
			Description:     l.Description,
			ExternalID:      l.ExternalID,
			MatchedEntryID:  l.MatchedEntryID,
			RealizedEntryID: l.RealizedEntryID,
		}
	}
	return result
}

// BatchResultResponse reports the entries materialized by a batch.
type BatchResultResponse struct {
	StatementID    string           `json:"statement_id"`
	LinesProcessed int              `json:"lines_processed"`
	Entries        []*EntryResponse `json:"entries"`
}

// RecomputeResponse reports a recomputed balance.
type RecomputeResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// VerifyResponse reports whether the cached balance is consistent.
type VerifyResponse struct {
	AccountID  string          `json:"account_id"`
	Consistent bool            `json:"consistent"`
	Tolerance  decimal.Decimal `json:"tolerance"`
}

// RefreshResponse reports the outcome of a balance refresh.
type RefreshResponse struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Calculated  decimal.Decimal `json:"calculated"`
	Cached      decimal.Decimal `json:"cached"`
	Difference  decimal.Decimal `json:"difference"`
	WasUpdated  bool            `json:"was_updated"`
}

// RefreshFromUseCase converts a refresh result to response.
func RefreshFromUseCase(r *usecase.RefreshResult) *RefreshResponse {
	return &RefreshResponse{
		AccountID:   r.AccountID,
		AccountName: r.AccountName,
		Calculated:  r.Calculated,
		Cached:      r.Cached,
		Difference:  r.Difference,
		WasUpdated:  r.WasUpdated,
	}
}

// DiscrepancyResponse represents one drifted account.
type DiscrepancyResponse struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Calculated  decimal.Decimal `json:"calculated"`
	Cached      decimal.Decimal `json:"cached"`
	Difference  decimal.Decimal `json:"difference"`
}

// DiscrepanciesFromUseCase converts discrepancies to responses.
func DiscrepanciesFromUseCase(ds []usecase.Discrepancy) []*DiscrepancyResponse {
	result := make([]*DiscrepancyResponse, len(ds))
	for i, d := range ds {
		result[i] = &DiscrepancyResponse{
			AccountID:   d.AccountID,
			AccountName: d.AccountName,
			Calculated:  d.Calculated,
			Cached:      d.Cached,
			Difference:  d.Difference,
		}
	}
	return result
}

// ListDiscrepanciesResponse wraps the discrepancy scan result.
type ListDiscrepanciesResponse struct {
	Discrepancies []*DiscrepancyResponse `json:"discrepancies"`
	Tolerance     decimal.Decimal        `json:"tolerance"`
}

// ReconciliationReportResponse represents a ledger-wide report.
type ReconciliationReportResponse struct {
	TotalAccounts      int                    `json:"total_accounts"`
	ReconciledAccounts int                    `json:"reconciled_accounts"`
	Discrepancies      []*DiscrepancyResponse `json:"discrepancies"`
	Repaired           []*RefreshResponse     `json:"repaired"`
	CheckedAt          time.Time              `json:"checked_at"`
}

// ReportFromUseCase converts a reconciliation report to response.
func ReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	repaired := make([]*RefreshResponse, len(r.Repaired))
	for i, res := range r.Repaired {
		repaired[i] = RefreshFromUseCase(res)
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      DiscrepanciesFromUseCase(r.Discrepancies),
		Repaired:           repaired,
		CheckedAt:          r.CheckedAt,
	}
}
