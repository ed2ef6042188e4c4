package dto

import (
	"time"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordTransactionRequest defines the data needed to record an operational transaction.
type RecordTransactionRequest struct {
	Type            domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	SourceAccountID *string                `json:"sourceAccountID"`
	TargetAccountID *string                `json:"targetAccountID"`
	Amount          decimal.Decimal        `json:"amount" binding:"required,dgt0"`
	CurrencyCode    string                 `json:"currencyCode" binding:"required,len=3"`
	CategoryID      *string                `json:"categoryID"`
	TransactionDate time.Time              `json:"transactionDate" binding:"required"`
	Description     string                 `json:"description" binding:"max=500"`
}

// ListTransactionsParams defines query parameters for listing an account's transactions.
type ListTransactionsParams struct {
	Limit     int        `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string    `form:"nextToken"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []domain.OperationalTransaction `json:"transactions"`
	NextToken    *string                         `json:"nextToken,omitempty"`
}
