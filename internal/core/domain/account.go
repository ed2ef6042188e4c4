package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountKind distinguishes the two account families held by the registry.
type AccountKind string

const (
	KindOperational AccountKind = "OPERATIONAL"
	KindAccounting  AccountKind = "ACCOUNTING"
)

// OperationalAccountType is the kind of money container an operational account models.
type OperationalAccountType string

const (
	Cash   OperationalAccountType = "CASH"
	Bank   OperationalAccountType = "BANK"
	Wallet OperationalAccountType = "WALLET"
)

// Valid reports whether t is one of the known operational account types.
func (t OperationalAccountType) Valid() bool {
	switch t {
	case Cash, Bank, Wallet:
		return true
	}
	return false
}

// AccountType defines the fundamental accounting type of a chart-of-accounts entry.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the known accounting account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalSide returns the side on which balances of this type are positive.
func (t AccountType) NormalSide() (Side, error) {
	switch t {
	case Asset, Expense:
		return Debit, nil
	case Liability, Equity, Revenue:
		return Credit, nil
	}
	return "", fmt.Errorf("unknown account type %q", t)
}

// Account is either an *OperationalAccount or an *AccountingAccount.
type Account interface {
	ID() string
	Kind() AccountKind
	Active() bool
	isAccount()
}

// OperationalAccount is a cash, bank or wallet account used for day-to-day money movement.
type OperationalAccount struct {
	AccountID       string                 `json:"accountID"`
	Name            string                 `json:"name"`
	AccountType     OperationalAccountType `json:"accountType"`
	CurrencyCode    string                 `json:"currencyCode"`
	StartingBalance decimal.Decimal        `json:"startingBalance"`
	IsActive        bool                   `json:"isActive"`
	IsDeleted       bool                   `json:"isDeleted"` // soft delete, kept for history
	AuditFields
}

func (a *OperationalAccount) ID() string        { return a.AccountID }
func (a *OperationalAccount) Kind() AccountKind { return KindOperational }
func (a *OperationalAccount) isAccount()        {}

// Active reports whether the account may be referenced by new transactions.
func (a *OperationalAccount) Active() bool {
	return a.IsActive && !a.IsDeleted
}

// AccountingAccount is a chart-of-accounts entry used in double-entry postings.
type AccountingAccount struct {
	AccountID   string      `json:"accountID"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

func (a *AccountingAccount) ID() string        { return a.AccountID }
func (a *AccountingAccount) Kind() AccountKind { return KindAccounting }
func (a *AccountingAccount) Active() bool      { return a.IsActive }
func (a *AccountingAccount) isAccount()        {}

// NormalSide is the side on which this account's balance is positive.
func (a *AccountingAccount) NormalSide() (Side, error) {
	return a.AccountType.NormalSide()
}
