package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        string
}

func newAPI(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*rec = recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBalanceVerify(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		srv, req := newAPI(t, http.StatusOK, `{"account_id":"a-1","consistent":true,"tolerance":"0.01"}`)

		out, err := execute(t, "--url", srv.URL, "balance", "verify", "a-1", "--tolerance", "0.5")

		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/api/v1/accounts/a-1/balance/verify", req.Path)
		assert.Equal(t, "tolerance=0.5", req.Query)
		assert.Contains(t, out, `"consistent": true`)
	})

	t.Run("drift fails the command", func(t *testing.T) {
		srv, _ := newAPI(t, http.StatusOK, `{"account_id":"a-1","consistent":false,"tolerance":"0.01"}`)

		_, err := execute(t, "--url", srv.URL, "balance", "verify", "a-1")

		assert.ErrorIs(t, err, errDrift)
	})

	t.Run("api error", func(t *testing.T) {
		srv, _ := newAPI(t, http.StatusNotFound, `{"error":"failed to verify balance","message":"not found: account","code":"not_found"}`)

		_, err := execute(t, "--url", srv.URL, "balance", "verify", "missing")

		var apiErr *apiError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "not_found", apiErr.Code)
		assert.Contains(t, err.Error(), "not found: account")
	})
}

func TestBalanceRefresh(t *testing.T) {
	srv, req := newAPI(t, http.StatusOK, `{"account_id":"a-1","was_updated":true}`)

	out, err := execute(t, "--url", srv.URL, "balance", "refresh", "a-1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/accounts/a-1/balance/refresh", req.Path)
	assert.Empty(t, req.ContentType)
	assert.Contains(t, out, `"was_updated": true`)
}

func TestBalanceRecompute(t *testing.T) {
	srv, req := newAPI(t, http.StatusOK, `{"account_id":"a-1","balance":"10.00"}`)

	out, err := execute(t, "--url", srv.URL, "balance", "recompute", "a-1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/accounts/a-1/balance/recompute", req.Path)
	assert.Contains(t, out, `"account_id": "a-1"`)
}

func TestReconcile(t *testing.T) {
	t.Run("discrepancies found", func(t *testing.T) {
		srv, req := newAPI(t, http.StatusOK, `{"discrepancies":[{"account_id":"a-1"}],"tolerance":"0.01"}`)

		_, err := execute(t, "--url", srv.URL, "reconcile", "discrepancies")

		assert.ErrorIs(t, err, errDrift)
		assert.Equal(t, "/api/v1/reconciliation/discrepancies", req.Path)
	})

	t.Run("report with repair", func(t *testing.T) {
		srv, req := newAPI(t, http.StatusOK,
			`{"total_accounts":3,"reconciled_accounts":2,"discrepancies":[{"account_id":"a-1"}],"repaired":[{"account_id":"a-1"}]}`)

		out, err := execute(t, "--url", srv.URL, "reconcile", "report", "--repair")

		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "repair=true", req.Query)
		assert.Contains(t, out, `"total_accounts": 3`)
	})
}

func TestStatementProcess(t *testing.T) {
	srv, req := newAPI(t, http.StatusOK, `{"statement_id":"s-1","lines_processed":4,"entries":[]}`)

	out, err := execute(t, "--url", srv.URL, "statement", "process", "s-1", "--closing-balance", "812.40")

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/statements/s-1/batch", req.Path)
	assert.Equal(t, "application/json", req.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	assert.Equal(t, "812.40", body["closing_balance"])
	assert.Contains(t, out, "Processed 4 line(s) of statement s-1")
}

func TestStatementProcessVerify(t *testing.T) {
	srv, req := newAPI(t, http.StatusOK, `{"statement_id":"s-1","lines_processed":0,"entries":[]}`)

	_, err := execute(t, "--url", srv.URL, "statement", "process", "s-1", "--verify")

	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	assert.Equal(t, true, body["verify"])
	assert.NotContains(t, body, "closing_balance")
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "migrate", "version")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestToleranceQuery(t *testing.T) {
	assert.Equal(t, "", toleranceQuery("", false))
	assert.Equal(t, "?tolerance=0.1", toleranceQuery("0.1", false))
	assert.Equal(t, "?repair=true&tolerance=0.1", toleranceQuery("0.1", true))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
