package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the signed balance of one account at a point in time.
type Balance struct {
	AccountID string          `json:"accountID"`
	Kind      AccountKind     `json:"kind"`
	AsOf      *time.Time      `json:"asOf,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// AccountSummary aggregates an operational account's activity over a date range.
type AccountSummary struct {
	AccountID        string          `json:"accountID"`
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	OpeningBalance   decimal.Decimal `json:"openingBalance"`
	ClosingBalance   decimal.Decimal `json:"closingBalance"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	TransactionCount int             `json:"transactionCount"`
}

// BalancePoint is one sample of a balance history.
type BalancePoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// TotalBalance is the sum of active operational account balances in one currency.
type TotalBalance struct {
	CurrencyCode string          `json:"currencyCode"`
	AsOf         *time.Time      `json:"asOf,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	AccountCount int             `json:"accountCount"`
}
