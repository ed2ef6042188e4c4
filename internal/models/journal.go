package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingEntry is a row of accounting_entries.
type AccountingEntry struct {
	EntryID             string    `db:"entry_id"`
	PeriodID            string    `db:"period_id"`
	EntryDate           time.Time `db:"entry_date"`
	Memo                string    `db:"memo"`
	Status              string    `db:"status"`
	ReversalOfEntryID   *string   `db:"reversal_of_entry_id"`  // Nullable
	ReversedByEntryID   *string   `db:"reversed_by_entry_id"`  // Nullable
	SourceTransactionID *string   `db:"source_transaction_id"` // Nullable
	AuditFields
}

// Posting is a row of postings, a child of accounting_entries.
type Posting struct {
	PostingID string          `db:"posting_id"`
	EntryID   string          `db:"entry_id"`
	LineNo    int             `db:"line_no"`
	AccountID string          `db:"account_id"`
	Side      string          `db:"side"`
	Amount    decimal.Decimal `db:"amount"`
}

// AccountingPeriod is a row of accounting_periods.
type AccountingPeriod struct {
	PeriodID  string     `db:"period_id"`
	Name      string     `db:"name"`
	StartDate time.Time  `db:"start_date"`
	EndDate   time.Time  `db:"end_date"`
	Status    string     `db:"status"`
	ClosedAt  *time.Time `db:"closed_at"` // Nullable
	ClosedBy  *string    `db:"closed_by"` // Nullable
	AuditFields
}
