package services

import (
	"context"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/dto"
)

// TransactionReaderSvc defines read operations for operational transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error)

	// ListTransactionsByAccount retrieves a page of transactions for an operational account.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc is the only entry point for operational money movement.
type TransactionWriterSvc interface {
	// RecordTransaction persists the transaction and its accounting entry atomically.
	RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, mapping domain.AccountMapping, userID string) (*domain.OperationalTransaction, error)

	// VoidTransaction reverses a posted transaction's entry and marks it voided.
	VoidTransaction(ctx context.Context, transactionID string, userID string) (*domain.OperationalTransaction, error)
}

// TransactionSvcFacade combines all operational transaction service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
