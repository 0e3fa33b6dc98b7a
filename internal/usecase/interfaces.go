package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
)

// Methods taking a Transaction run inside it. Read methods documented as
// accepting a nil Transaction fall back to a plain connection.

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	// IncrementBalance adds delta in a single statement and returns the new balance.
	IncrementBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	// CreateBatch bulk inserts entries and returns the number written.
	CreateBatch(ctx context.Context, tx Transaction, entries []*domain.LedgerEntry) (int64, error)
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LedgerEntry, error)
	GetBySourceLine(ctx context.Context, tx Transaction, accountID, lineID string) (*domain.LedgerEntry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	UpdateDescription(ctx context.Context, tx Transaction, id, description string, updatedAt time.Time) error
	SetMatched(ctx context.Context, tx Transaction, id string, matched bool, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	// SumSignedByAccount accepts a nil Transaction.
	SumSignedByAccount(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error)
	// CountByAccount accepts a nil Transaction.
	CountByAccount(ctx context.Context, tx Transaction, accountID string) (int64, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transfer, error)
	GetByEntryID(ctx context.Context, tx Transaction, entryID string) (*domain.Transfer, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Category, error)
	// GetOrCreate returns the owner's category with the same name, creating
	// category when none exists.
	GetOrCreate(ctx context.Context, tx Transaction, category *domain.Category) (*domain.Category, error)
}

// StatementRepository defines data access for statements and their lines.
type StatementRepository interface {
	Create(ctx context.Context, tx Transaction, statement *domain.Statement) error
	CreateLines(ctx context.Context, tx Transaction, lines []*domain.StatementLine) (int64, error)
	GetByID(ctx context.Context, id string) (*domain.Statement, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Statement, error)
	// GetLines accepts a nil Transaction.
	GetLines(ctx context.Context, tx Transaction, statementID string) ([]*domain.StatementLine, error)
	GetLineForUpdate(ctx context.Context, tx Transaction, lineID string) (*domain.StatementLine, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks . Retrier,IdempotencyStore

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not succeed so it can be retried.
	Release(ctx context.Context, key string) error
}
