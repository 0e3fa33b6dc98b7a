package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/adapter/http/dto"
	"github.com/serenewealth/ledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status code and writes it with its kind.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status, code := mapDomainError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, message, "internal error")
		return
	}

	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
		Code:    code,
	})
}

// mapDomainError maps an error kind to an HTTP status code.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, domain.ErrInvalidOperation):
		return http.StatusConflict, "invalid_operation"
	case errors.Is(err, domain.ErrValidationFailed):
		return http.StatusUnprocessableEntity, "validation_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseBoolQuery reports whether a query flag is set to a true value.
func parseBoolQuery(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && b
}

// parseToleranceQuery reads the tolerance query parameter, falling back to
// defaultValue. Negative tolerances are rejected.
func parseToleranceQuery(r *http.Request, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	val := r.URL.Query().Get("tolerance")
	if val == "" {
		return defaultValue, nil
	}

	tolerance, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: tolerance %q is not a number", domain.ErrInvalidArgument, val)
	}

	if tolerance.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: tolerance must not be negative", domain.ErrInvalidArgument)
	}

	return tolerance, nil
}
