package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/adapter/http/dto"
	"github.com/serenewealth/ledger/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	Recompute(ctx context.Context, accountID string) (decimal.Decimal, error)
	Verify(ctx context.Context, accountID string, tolerance decimal.Decimal) (bool, error)
	Refresh(ctx context.Context, accountID string) (*usecase.RefreshResult, error)
	FindDiscrepancies(ctx context.Context, tolerance decimal.Decimal) ([]usecase.Discrepancy, error)
}

// ReportService defines the behavior needed to build reconciliation reports.
type ReportService interface {
	GenerateReport(ctx context.Context, tolerance decimal.Decimal, repair bool) (*usecase.ReconciliationReport, error)
}

// BalanceHandler exposes cached balance maintenance.
type BalanceHandler struct {
	balanceUC BalanceService
	reportUC  ReportService
	tolerance decimal.Decimal
}

// NewBalanceHandler creates a new BalanceHandler. tolerance is used when a
// request does not set one.
func NewBalanceHandler(balanceUC BalanceService, reportUC ReportService, tolerance decimal.Decimal) *BalanceHandler {
	return &BalanceHandler{
		balanceUC: balanceUC,
		reportUC:  reportUC,
		tolerance: tolerance,
	}
}

// Recompute returns the balance derived from the account's entries.
func (h *BalanceHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	balance, err := h.balanceUC.Recompute(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to recompute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecomputeResponse{AccountID: id, Balance: balance})
}

// Verify checks the cached balance against the recomputed one.
func (h *BalanceHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tolerance, err := parseToleranceQuery(r, h.tolerance)
	if err != nil {
		writeDomainError(w, "invalid tolerance", err)
		return
	}

	id := chi.URLParam(r, "id")

	ok, err := h.balanceUC.Verify(r.Context(), id, tolerance)
	if err != nil {
		writeDomainError(w, "failed to verify balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyResponse{AccountID: id, Consistent: ok, Tolerance: tolerance})
}

// Refresh repairs the cached balance when it drifted.
func (h *BalanceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.balanceUC.Refresh(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to refresh balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RefreshFromUseCase(result))
}

// Discrepancies lists every account whose cached balance drifted.
func (h *BalanceHandler) Discrepancies(w http.ResponseWriter, r *http.Request) {
	tolerance, err := parseToleranceQuery(r, h.tolerance)
	if err != nil {
		writeDomainError(w, "invalid tolerance", err)
		return
	}

	ds, err := h.balanceUC.FindDiscrepancies(r.Context(), tolerance)
	if err != nil {
		writeDomainError(w, "failed to find discrepancies", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListDiscrepanciesResponse{
		Discrepancies: dto.DiscrepanciesFromUseCase(ds),
		Tolerance:     tolerance,
	})
}

// Report builds a ledger-wide reconciliation report. repair=true refreshes
// every discrepant account.
func (h *BalanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	tolerance, err := parseToleranceQuery(r, h.tolerance)
	if err != nil {
		writeDomainError(w, "invalid tolerance", err)
		return
	}

	report, err := h.reportUC.GenerateReport(r.Context(), tolerance, parseBoolQuery(r, "repair"))
	if err != nil {
		writeDomainError(w, "failed to build reconciliation report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}
