package generated

import (
	"context"
)

// iteratorForCreateEntries implements pgx.CopyFromSource.
type iteratorForCreateEntries struct {
	rows                 []CreateEntriesParams
	skippedFirstNextCall bool
}

func (r *iteratorForCreateEntries) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForCreateEntries) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].ID,
		r.rows[0].AccountID,
		r.rows[0].EffectiveDate,
		r.rows[0].Description,
		r.rows[0].RawAmount,
		r.rows[0].SignedAmount,
		r.rows[0].CategoryID,
		r.rows[0].IsMatched,
		r.rows[0].SourceLineID,
		r.rows[0].CreatedAt,
		r.rows[0].UpdatedAt,
	}, nil
}

func (r iteratorForCreateEntries) Err() error {
	return nil
}

func (q *Queries) CreateEntries(ctx context.Context, arg []CreateEntriesParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"ledger_entries"}, []string{"id", "account_id", "effective_date", "description", "raw_amount", "signed_amount", "category_id", "is_matched", "source_line_id", "created_at", "updated_at"}, &iteratorForCreateEntries{rows: arg})
}

// iteratorForCreateStatementLines implements pgx.CopyFromSource.
type iteratorForCreateStatementLines struct {
	rows                 []CreateStatementLinesParams
	skippedFirstNextCall bool
}

func (r *iteratorForCreateStatementLines) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForCreateStatementLines) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].ID,
		r.rows[0].StatementID,
		r.rows[0].PostedAt,
		r.rows[0].Amount,
		r.rows[0].Description,
		r.rows[0].ExternalID,
		r.rows[0].MatchedEntryID,
	}, nil
}

func (r iteratorForCreateStatementLines) Err() error {
	return nil
}

func (q *Queries) CreateStatementLines(ctx context.Context, arg []CreateStatementLinesParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"statement_lines"}, []string{"id", "statement_id", "posted_at", "amount", "description", "external_id", "matched_entry_id"}, &iteratorForCreateStatementLines{rows: arg})
}
