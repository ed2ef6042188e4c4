package dto

import (
	"time"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateOperationalAccountRequest defines the data needed to create a cash, bank or wallet account.
type CreateOperationalAccountRequest struct {
	Name            string                        `json:"name" binding:"required,max=100"`
	AccountType     domain.OperationalAccountType `json:"accountType" binding:"required,oneof=CASH BANK WALLET"`
	CurrencyCode    string                        `json:"currencyCode" binding:"required,len=3,uppercase"`
	StartingBalance decimal.Decimal               `json:"startingBalance"`
}

// CreateAccountingAccountRequest defines the data needed to create a chart-of-accounts entry.
type CreateAccountingAccountRequest struct {
	Code        string             `json:"code" binding:"required,max=20"`
	Name        string             `json:"name" binding:"required,max=100"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
}

// UpdateOperationalAccountRequest carries the mutable fields of an operational account.
// Absent fields are left unchanged.
type UpdateOperationalAccountRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=100"`
	StartingBalance *decimal.Decimal `json:"startingBalance"`
}

// UpdateAccountingAccountRequest renames a chart-of-accounts entry.
type UpdateAccountingAccountRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// OperationalAccountResponse defines the data returned for an operational account.
type OperationalAccountResponse struct {
	AccountID       string                        `json:"accountID"`
	Kind            domain.AccountKind            `json:"kind"`
	Name            string                        `json:"name"`
	AccountType     domain.OperationalAccountType `json:"accountType"`
	CurrencyCode    string                        `json:"currencyCode"`
	StartingBalance decimal.Decimal               `json:"startingBalance"`
	IsActive        bool                          `json:"isActive"`
	IsDeleted       bool                          `json:"isDeleted"`
	CreatedAt       time.Time                     `json:"createdAt"`
	CreatedBy       string                        `json:"createdBy"`
	LastUpdatedAt   time.Time                     `json:"lastUpdatedAt"`
	LastUpdatedBy   string                        `json:"lastUpdatedBy"`
}

// AccountingAccountResponse defines the data returned for an accounting account.
type AccountingAccountResponse struct {
	AccountID     string             `json:"accountID"`
	Kind          domain.AccountKind `json:"kind"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	NormalSide    domain.Side        `json:"normalSide"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToOperationalAccountResponse converts a domain.OperationalAccount to its response DTO
func ToOperationalAccountResponse(acc *domain.OperationalAccount) OperationalAccountResponse {
	return OperationalAccountResponse{
		AccountID:       acc.AccountID,
		Kind:            acc.Kind(),
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		CurrencyCode:    acc.CurrencyCode,
		StartingBalance: acc.StartingBalance,
		IsActive:        acc.IsActive,
		IsDeleted:       acc.IsDeleted,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToAccountingAccountResponse converts a domain.AccountingAccount to its response DTO
func ToAccountingAccountResponse(acc *domain.AccountingAccount) AccountingAccountResponse {
	side, _ := acc.NormalSide()
	return AccountingAccountResponse{
		AccountID:     acc.AccountID,
		Kind:          acc.Kind(),
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalSide:    side,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToAccountResponse converts either account family to its response DTO.
func ToAccountResponse(acc domain.Account) any {
	switch a := acc.(type) {
	case *domain.OperationalAccount:
		return ToOperationalAccountResponse(a)
	case *domain.AccountingAccount:
		return ToAccountingAccountResponse(a)
	}
	return nil
}

// ToListOperationalAccountResponse converts a slice of operational accounts
func ToListOperationalAccountResponse(accounts []domain.OperationalAccount) []OperationalAccountResponse {
	res := make([]OperationalAccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToOperationalAccountResponse(&accounts[i])
	}
	return res
}

// ToListAccountingAccountResponse converts a slice of accounting accounts
func ToListAccountingAccountResponse(accounts []domain.AccountingAccount) []AccountingAccountResponse {
	res := make([]AccountingAccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountingAccountResponse(&accounts[i])
	}
	return res
}

// ListOperationalAccountsParams defines query parameters for listing operational accounts.
type ListOperationalAccountsParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// BalanceParams defines query parameters for a balance lookup.
type BalanceParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// SummaryParams defines the date range of an account summary.
type SummaryParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// HistoryParams defines the date range and sampling interval of a balance history.
type HistoryParams struct {
	From         time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To           time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
	IntervalDays int       `form:"intervalDays,default=1" binding:"min=1,max=366"`
}

// TotalBalanceParams defines query parameters for the per-currency total.
type TotalBalanceParams struct {
	CurrencyCode string     `form:"currency" binding:"required,len=3"`
	AsOf         *time.Time `form:"asOf" time_format:"2006-01-02"`
}
