package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/serenewealth/ledger/internal/adapter/http/dto"
	"github.com/serenewealth/ledger/internal/infrastructure/postgres"
)

// errDrift is returned when a check finds cached balances out of tolerance.
var errDrift = errors.New("balance drift detected")

type options struct {
	baseURL     string
	timeout     time.Duration
	tolerance   string
	databaseURL string
	migrations  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Ledger operations tool",
		Long:          `A command line interface for checking and repairing ledger balances.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(balanceCmd(opts), reconcileCmd(opts), statementCmd(opts), migrateCmd(opts))

	return rootCmd
}

func balanceCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Per-account balance operations",
	}

	verify := &cobra.Command{
		Use:   "verify <account-id>",
		Short: "Compare the cached balance with the recomputed one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.VerifyResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/balance/verify" + toleranceQuery(opts.tolerance, false)
			if err := client(opts).do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.Consistent {
				return errDrift
			}
			return nil
		},
	}
	verify.Flags().StringVar(&opts.tolerance, "tolerance", "", "Allowed difference (server default when empty)")

	recompute := &cobra.Command{
		Use:   "recompute <account-id>",
		Short: "Recompute the balance from entries and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.RecomputeResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/balance/recompute"
			if err := client(opts).do(cmd.Context(), http.MethodPost, path, nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh <account-id>",
		Short: "Overwrite the cached balance with the recomputed one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.RefreshResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/balance/refresh"
			if err := client(opts).do(cmd.Context(), http.MethodPost, path, nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.AddCommand(verify, recompute, refresh)

	return cmd
}

func reconcileCmd(opts *options) *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Ledger-wide reconciliation",
	}

	discrepancies := &cobra.Command{
		Use:   "discrepancies",
		Short: "List accounts whose cached balance drifted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListDiscrepanciesResponse
			path := "/api/v1/reconciliation/discrepancies" + toleranceQuery(opts.tolerance, false)
			if err := client(opts).do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if len(resp.Discrepancies) > 0 {
				return fmt.Errorf("%w: %d account(s)", errDrift, len(resp.Discrepancies))
			}
			return nil
		},
	}
	discrepancies.Flags().StringVar(&opts.tolerance, "tolerance", "", "Allowed difference (server default when empty)")

	report := &cobra.Command{
		Use:   "report",
		Short: "Produce a reconciliation report, optionally repairing drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReconciliationReportResponse
			path := "/api/v1/reconciliation/report" + toleranceQuery(opts.tolerance, repair)
			if err := client(opts).do(cmd.Context(), http.MethodPost, path, nil, &resp); err != nil {
				return err
			}

			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !repair && len(resp.Discrepancies) > 0 {
				return fmt.Errorf("%w: %d account(s)", errDrift, len(resp.Discrepancies))
			}
			return nil
		},
	}
	report.Flags().StringVar(&opts.tolerance, "tolerance", "", "Allowed difference (server default when empty)")
	report.Flags().BoolVar(&repair, "repair", false, "Refresh every drifted account")

	cmd.AddCommand(discrepancies, report)

	return cmd
}

func statementCmd(opts *options) *cobra.Command {
	var (
		closing string
		verify  bool
	)

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Statement processing",
	}

	process := &cobra.Command{
		Use:   "process <statement-id>",
		Short: "Materialize every pending line of a statement in one batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			switch {
			case closing != "":
				body = map[string]any{"closing_balance": closing}
			case verify:
				body = map[string]any{"verify": true}
			}

			var resp dto.BatchResultResponse
			path := "/api/v1/statements/" + url.PathEscape(args[0]) + "/batch"
			if err := client(opts).do(cmd.Context(), http.MethodPost, path, body, &resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d line(s) of statement %s\n", resp.LinesProcessed, resp.StatementID)
			return nil
		},
	}
	process.Flags().StringVar(&closing, "closing-balance", "", "Closing balance the batch must land on")
	process.Flags().BoolVar(&verify, "verify", false, "Check the batch against the statement's own closing balance")

	cmd.AddCommand(process)

	return cmd
}

func migrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&opts.migrations, "path", "migrations", "Directory holding migration files")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDatabaseURL(opts); err != nil {
				return err
			}
			if err := postgres.RunMigrations(opts.databaseURL, opts.migrations); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDatabaseURL(opts); err != nil {
				return err
			}
			if err := postgres.RunMigrationsDown(opts.databaseURL, opts.migrations); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations rolled back")
			return nil
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDatabaseURL(opts); err != nil {
				return err
			}
			v, dirty, err := postgres.MigrationVersion(opts.databaseURL, opts.migrations)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %d\nDirty: %v\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)

	return cmd
}

func requireDatabaseURL(opts *options) error {
	if opts.databaseURL == "" {
		return errors.New("database URL is required (--database-url or DATABASE_URL)")
	}
	return nil
}

func client(opts *options) *apiClient {
	return newAPIClient(opts.baseURL, opts.timeout)
}

func toleranceQuery(tolerance string, repair bool) string {
	q := url.Values{}
	if tolerance != "" {
		q.Set("tolerance", tolerance)
	}
	if repair {
		q.Set("repair", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
