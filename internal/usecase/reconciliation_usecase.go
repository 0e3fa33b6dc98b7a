package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationUseCase produces ledger-wide balance reports on top of the
// balance maintainer.
type ReconciliationUseCase struct {
	balance *BalanceUseCase
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(balance *BalanceUseCase) *ReconciliationUseCase {
	return &ReconciliationUseCase{balance: balance}
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []Discrepancy
	Repaired           []*RefreshResult
	CheckedAt          time.Time
}

// GenerateReport scans all accounts once. When repair is set every
// discrepant account is refreshed and reported in Repaired.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context, tolerance decimal.Decimal, repair bool) (*ReconciliationReport, error) {
	discrepancies, total, err := uc.balance.scanDiscrepancies(ctx, tolerance)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts:      total,
		ReconciledAccounts: total - len(discrepancies),
		Discrepancies:      discrepancies,
		Repaired:           make([]*RefreshResult, 0),
		CheckedAt:          time.Now().UTC(),
	}

	if !repair {
		return report, nil
	}

	for _, d := range discrepancies {
		result, err := uc.balance.Refresh(ctx, d.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh account %s: %w", d.AccountID, err)
		}
		if result.WasUpdated {
			report.Repaired = append(report.Repaired, result)
		}
	}

	return report, nil
}
