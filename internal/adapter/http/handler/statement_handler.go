package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/serenewealth/ledger/internal/adapter/http/dto"
	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	CreateStatement(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error)
	GetStatement(ctx context.Context, id string) (*domain.StatementSummary, error)
	ListLines(ctx context.Context, statementID string) ([]*domain.StatementLine, error)
	DeleteStatement(ctx context.Context, id string) error
	ProcessStatementBatch(ctx context.Context, statementID string, opts usecase.BatchOptions) ([]*domain.LedgerEntry, error)
	RealizeLine(ctx context.Context, lineID string) (*domain.LedgerEntry, error)
}

// StatementHandler handles statement import and reconciliation requests.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Create imports a statement with its lines.
func (h *StatementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStatementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	statement, err := h.statementUC.CreateStatement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create statement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.StatementFromDomain(statement))
}

// Get returns the processing summary of a statement.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statementUC.GetStatement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementSummaryFromDomain(summary))
}

// Lines lists the lines of a statement.
func (h *StatementHandler) Lines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.statementUC.ListLines(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list statement lines", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lines": dto.StatementLinesFromDomain(lines),
	})
}

// Delete removes an unprocessed statement.
func (h *StatementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.statementUC.DeleteStatement(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete statement", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ProcessBatch materializes the statement's lines in one batch. The body is
// optional.
func (h *StatementHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessBatchRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id := chi.URLParam(r, "id")

	entries, err := h.statementUC.ProcessStatementBatch(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to process statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchResultResponse{
		StatementID:    id,
		LinesProcessed: len(entries),
		Entries:        dto.EntriesFromDomain(entries),
	})
}

// RealizeLine materializes a single statement line.
func (h *StatementHandler) RealizeLine(w http.ResponseWriter, r *http.Request) {
	entry, err := h.statementUC.RealizeLine(r.Context(), chi.URLParam(r, "lineID"))
	if err != nil {
		writeDomainError(w, "failed to realize statement line", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
