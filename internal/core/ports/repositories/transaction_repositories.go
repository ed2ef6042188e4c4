package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
)

// TransactionFilter narrows a per-account transaction listing.
type TransactionFilter struct {
	From      *time.Time // inclusive day
	To        *time.Time // inclusive day
	Limit     int
	NextToken *string
}

// TransactionReader defines read operations for operational transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error)

	// ListTransactionsByAccount returns a page ordered newest first and a token for the next page.
	ListTransactionsByAccount(ctx context.Context, accountID string, filter TransactionFilter) ([]domain.OperationalTransaction, *string, error)

	// ListPostedTransactionsByAccount returns every posted transaction touching the account
	// dated up to asOf (inclusive, nil for all), oldest first.
	ListPostedTransactionsByAccount(ctx context.Context, accountID string, asOf *time.Time) ([]domain.OperationalTransaction, error)

	// CountPendingByAccount counts persisted pending transactions referencing the account.
	CountPendingByAccount(ctx context.Context, accountID string) (int, error)

	// CountTransactionsByAccount counts transactions of any status referencing the account.
	CountTransactionsByAccount(ctx context.Context, accountID string) (int, error)

	// CountTransactionsByCategory counts transactions of any status classified under the category.
	CountTransactionsByCategory(ctx context.Context, categoryID string) (int, error)

	// OperationalActivityVersion counts the accounting entries ever produced for the account's
	// transactions. It only grows.
	OperationalActivityVersion(ctx context.Context, accountID string) (int64, error)
}

// TransactionWriter defines write operations for operational transactions
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.OperationalTransaction) error

	// UpdateTransactionState persists status, entry links and audit fields.
	UpdateTransactionState(ctx context.Context, txn domain.OperationalTransaction) error

	// FindTransactionByIDForUpdate loads and locks a transaction row.
	FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error)

	// NextTransactionSequence returns the next per-day sequence for transaction numbers.
	NextTransactionSequence(ctx context.Context, day time.Time) (int, error)
}

// TransactionRepositoryFacade combines all operational transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
