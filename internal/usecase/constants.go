package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one unit of work, Begin to Commit.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is the fallback lifetime of a stored idempotent response.
	IdempotencyKeyTTL = 24 * time.Hour

	defaultListLimit = 20
	maxListLimit     = 100

	// discrepancyPageSize bounds each account page scanned by FindDiscrepancies.
	discrepancyPageSize = 500
)

// clampLimit applies the default page size and caps it at maxListLimit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
