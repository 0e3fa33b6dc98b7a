package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenewealth/ledger/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", domain.ErrAccountNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrEntryNotFound), http.StatusNotFound, "not_found"},
		{"invalid argument", domain.ErrZeroAmount, http.StatusBadRequest, "invalid_argument"},
		{"invalid operation", domain.ErrTransferLegDelete, http.StatusConflict, "invalid_operation"},
		{"mismatch", &domain.BalanceMismatchError{AccountID: "a"}, http.StatusUnprocessableEntity, "validation_failed"},
		{"invalid state", domain.ErrInvalidState, http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := mapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestWriteDomainError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	writeDomainError(rec, "failed", errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestParseToleranceQuery(t *testing.T) {
	def := decimal.RequireFromString("0.01")

	tests := []struct {
		query   string
		want    string
		wantErr bool
	}{
		{"", "0.01", false},
		{"?tolerance=0.5", "0.5", false},
		{"?tolerance=0", "0", false},
		{"?tolerance=-1", "", true},
		{"?tolerance=abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)

			got, err := parseToleranceQuery(r, def)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), got.String())
		})
	}
}

func TestParseQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?limit=5&bad=x&repair=true&off=0", nil)

	assert.Equal(t, 5, parseIntQuery(r, "limit", 20))
	assert.Equal(t, 20, parseIntQuery(r, "bad", 20))
	assert.Equal(t, 20, parseIntQuery(r, "missing", 20))
	assert.True(t, parseBoolQuery(r, "repair"))
	assert.False(t, parseBoolQuery(r, "off"))
	assert.False(t, parseBoolQuery(r, "missing"))
}
