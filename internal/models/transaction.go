package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationalTransaction is a row of operational_transactions.
type OperationalTransaction struct {
	TransactionID     string          `db:"transaction_id"`
	TransactionNumber string          `db:"transaction_number"`
	TransactionType   string          `db:"transaction_type"`
	Status            string          `db:"status"`
	SourceAccountID   *string         `db:"source_account_id"` // Nullable
	TargetAccountID   *string         `db:"target_account_id"` // Nullable
	Amount            decimal.Decimal `db:"amount"`
	CurrencyCode      string          `db:"currency_code"`
	CategoryID        *string         `db:"category_id"` // Nullable
	TransactionDate   time.Time       `db:"transaction_date"`
	Description       string          `db:"description"`
	EntryID           *string         `db:"entry_id"`      // Nullable
	VoidEntryID       *string         `db:"void_entry_id"` // Nullable
	AuditFields
}
