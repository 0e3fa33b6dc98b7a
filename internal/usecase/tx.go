package usecase

import "context"

// txRunner runs a unit of work in one transaction bounded by
// DefaultTransactionTimeout. When a Retrier is set the whole unit, including
// Begin and Commit, is re-run on transient failures.
type txRunner struct {
	txManager TransactionManager
	retrier   Retrier
}

func (r txRunner) run(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	unit := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := r.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if r.retrier == nil {
		return unit()
	}

	return r.retrier.Retry(ctx, unit)
}
