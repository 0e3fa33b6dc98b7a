package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID              string             `json:"id"`
	OwnerID         string             `json:"owner_id"`
	Name            string             `json:"name"`
	Nature          string             `json:"nature"`
	Subtype         string             `json:"subtype"`
	Currency        string             `json:"currency"`
	CachedBalance   pgtype.Numeric     `json:"cached_balance"`
	CreditLimit     pgtype.Numeric     `json:"credit_limit"`
	InterestRateApr pgtype.Numeric     `json:"interest_rate_apr"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type Category struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

type LedgerEntry struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	EffectiveDate pgtype.Date        `json:"effective_date"`
	Description   string             `json:"description"`
	RawAmount     pgtype.Numeric     `json:"raw_amount"`
	SignedAmount  pgtype.Numeric     `json:"signed_amount"`
	CategoryID    *string            `json:"category_id"`
	IsMatched     bool               `json:"is_matched"`
	SourceLineID  *string            `json:"source_line_id"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type Statement struct {
	ID             string             `json:"id"`
	AccountID      string             `json:"account_id"`
	PeriodStart    pgtype.Date        `json:"period_start"`
	PeriodEnd      pgtype.Date        `json:"period_end"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	ClosingBalance pgtype.Numeric     `json:"closing_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

type StatementLine struct {
	ID             string         `json:"id"`
	StatementID    string         `json:"statement_id"`
	PostedAt       pgtype.Date    `json:"posted_at"`
	Amount         pgtype.Numeric `json:"amount"`
	Description    string         `json:"description"`
	ExternalID     string         `json:"external_id"`
	MatchedEntryID *string        `json:"matched_entry_id"`
}

type Transfer struct {
	ID          string             `json:"id"`
	FromEntryID string             `json:"from_entry_id"`
	ToEntryID   string             `json:"to_entry_id"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}
