package models

import (
	"github.com/shopspring/decimal"
)

// OperationalAccount is a row of operational_accounts.
type OperationalAccount struct {
	AccountID       string          `db:"account_id"`
	Name            string          `db:"name"`
	AccountType     string          `db:"account_type"`
	CurrencyCode    string          `db:"currency_code"`
	StartingBalance decimal.Decimal `db:"starting_balance"`
	IsActive        bool            `db:"is_active"`
	IsDeleted       bool            `db:"is_deleted"`
	AuditFields
}

// AccountingAccount is a row of accounting_accounts.
type AccountingAccount struct {
	AccountID   string `db:"account_id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
	AccountType string `db:"account_type"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// Category is a row of categories.
type Category struct {
	CategoryID string  `db:"category_id"`
	ParentID   *string `db:"parent_id"` // Nullable
	Name       string  `db:"name"`
	Kind       string  `db:"kind"`
	IsSystem   bool    `db:"is_system"`
	IsActive   bool    `db:"is_active"`
	IsDeleted  bool    `db:"is_deleted"`
	AuditFields
}
