package domain

import "time"

// Event types
const (
	EventTypeTransferCreated    = "transfer.created"
	EventTypeTransferDeleted    = "transfer.deleted"
	EventTypeStatementProcessed = "statement.processed"
	EventTypeBalanceRepaired    = "balance.repaired"
	EventTypeAccountCreated     = "account.created"
)

// Aggregate types
const (
	AggregateTypeTransfer  = "transfer"
	AggregateTypeStatement = "statement"
	AggregateTypeAccount   = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransferCreatedEvent payload
type TransferCreatedEvent struct {
	TransferID    string `json:"transfer_id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	FromEntryID   string `json:"from_entry_id"`
	ToEntryID     string `json:"to_entry_id"`
	Amount        string `json:"amount"`
	EffectiveDate string `json:"effective_date"`
}

// TransferDeletedEvent payload
type TransferDeletedEvent struct {
	TransferID    string `json:"transfer_id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
}

// StatementProcessedEvent payload
type StatementProcessedEvent struct {
	StatementID    string `json:"statement_id"`
	AccountID      string `json:"account_id"`
	LinesProcessed int    `json:"lines_processed"`
	ClosingBalance string `json:"closing_balance"`
}

// BalanceRepairedEvent payload
type BalanceRepairedEvent struct {
	AccountID  string `json:"account_id"`
	OldBalance string `json:"old_balance"`
	NewBalance string `json:"new_balance"`
	Difference string `json:"difference"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID      string `json:"account_id"`
	OwnerID        string `json:"owner_id"`
	Name           string `json:"name"`
	Nature         string `json:"nature"`
	OpeningBalance string `json:"opening_balance"`
}

// Payload converts an event struct to the generic outbox payload form.
func (e TransferCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"transfer_id":     e.TransferID,
		"from_account_id": e.FromAccountID,
		"to_account_id":   e.ToAccountID,
		"from_entry_id":   e.FromEntryID,
		"to_entry_id":     e.ToEntryID,
		"amount":          e.Amount,
		"effective_date":  e.EffectiveDate,
	}
}

func (e TransferDeletedEvent) Payload() map[string]any {
	return map[string]any{
		"transfer_id":     e.TransferID,
		"from_account_id": e.FromAccountID,
		"to_account_id":   e.ToAccountID,
		"amount":          e.Amount,
	}
}

func (e StatementProcessedEvent) Payload() map[string]any {
	return map[string]any{
		"statement_id":    e.StatementID,
		"account_id":      e.AccountID,
		"lines_processed": e.LinesProcessed,
		"closing_balance": e.ClosingBalance,
	}
}

func (e BalanceRepairedEvent) Payload() map[string]any {
	return map[string]any{
		"account_id":  e.AccountID,
		"old_balance": e.OldBalance,
		"new_balance": e.NewBalance,
		"difference":  e.Difference,
	}
}

func (e AccountCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"account_id":      e.AccountID,
		"owner_id":        e.OwnerID,
		"name":            e.Name,
		"nature":          e.Nature,
		"opening_balance": e.OpeningBalance,
	}
}
