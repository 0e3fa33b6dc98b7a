package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is an externally sourced account statement for a period.
type Statement struct {
	ID             string
	AccountID      string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	CreatedAt      time.Time
}

// Validate checks the statement period.
func (s *Statement) Validate() error {
	if s.PeriodStart.After(s.PeriodEnd) {
		return ErrInvalidPeriod
	}
	return nil
}

// StatementLine is one posted line of a statement.
type StatementLine struct {
	ID             string
	StatementID    string
	PostedAt       time.Time
	Amount         decimal.Decimal
	Description    string
	ExternalID     string
	MatchedEntryID *string

	// RealizedEntryID is set once the line has been materialized.
	RealizedEntryID *string
}

// IsRealized reports whether an entry was materialized from the line.
func (l *StatementLine) IsRealized() bool {
	return l.RealizedEntryID != nil
}

// StatementSummary aggregates processing progress of a statement.
type StatementSummary struct {
	Statement       *Statement
	CurrentBalance  decimal.Decimal
	TotalLines      int
	ProcessedLines  int
	TotalAmount     decimal.Decimal
	ProcessedAmount decimal.Decimal
}

// UnprocessedLines is the number of lines not yet materialized.
func (s *StatementSummary) UnprocessedLines() int {
	return s.TotalLines - s.ProcessedLines
}

// UnprocessedAmount is the sum of line amounts not yet materialized.
func (s *StatementSummary) UnprocessedAmount() decimal.Decimal {
	return s.TotalAmount.Sub(s.ProcessedAmount)
}

// IsFullyProcessed reports whether every line has been materialized.
func (s *StatementSummary) IsFullyProcessed() bool {
	return s.UnprocessedLines() == 0
}

// Summarize builds a summary from lines.
func Summarize(statement *Statement, account *Account, lines []*StatementLine) *StatementSummary {
	summary := &StatementSummary{
		Statement:      statement,
		CurrentBalance: account.CachedBalance,
		TotalLines:     len(lines),
	}

	for _, l := range lines {
		summary.TotalAmount = summary.TotalAmount.Add(l.Amount)
		if l.IsRealized() {
			summary.ProcessedLines++
			summary.ProcessedAmount = summary.ProcessedAmount.Add(l.Amount)
		}
	}

	return summary
}
