package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindOperationalAccountByID retrieves an operational account, soft-deleted ones included.
	FindOperationalAccountByID(ctx context.Context, accountID string) (*domain.OperationalAccount, error)

	// FindAccountingAccountByID retrieves a chart-of-accounts entry.
	FindAccountingAccountByID(ctx context.Context, accountID string) (*domain.AccountingAccount, error)

	// FindAccountingAccountByCode retrieves a chart-of-accounts entry by its unique code.
	FindAccountingAccountByCode(ctx context.Context, code string) (*domain.AccountingAccount, error)

	// ListOperationalAccounts lists operational accounts. Soft-deleted accounts are never listed.
	ListOperationalAccounts(ctx context.Context, includeInactive bool) ([]domain.OperationalAccount, error)

	// ListAccountingAccounts lists the chart of accounts ordered by code.
	ListAccountingAccounts(ctx context.Context) ([]domain.AccountingAccount, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	SaveOperationalAccount(ctx context.Context, account domain.OperationalAccount) error
	SaveAccountingAccount(ctx context.Context, account domain.AccountingAccount) error

	// UpdateOperationalAccountState persists the activity and soft-delete flags.
	UpdateOperationalAccountState(ctx context.Context, accountID string, isActive, isDeleted bool, userID string, now time.Time) error

	// UpdateAccountingAccountState persists the activity flag.
	UpdateAccountingAccountState(ctx context.Context, accountID string, isActive bool, userID string, now time.Time) error

	// UpdateOperationalAccountDetails persists the name and starting balance.
	UpdateOperationalAccountDetails(ctx context.Context, accountID, name string, startingBalance decimal.Decimal, userID string, now time.Time) error

	// UpdateAccountingAccountName persists a new display name. Codes never change.
	UpdateAccountingAccountName(ctx context.Context, accountID, name string, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// FindOperationalAccountsForUpdate selects accounts and locks them for update within a transaction.
	// Missing ids are absent from the result map.
	FindOperationalAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.OperationalAccount, error)

	// FindAccountingAccountsForUpdate selects accounts and locks them for update within a transaction.
	FindAccountingAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.AccountingAccount, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// CategoryRepositoryFacade holds transaction categories.
type CategoryRepositoryFacade interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	FindCategoryByName(ctx context.Context, kind domain.CategoryKind, name string) (*domain.Category, error)
	ListCategories(ctx context.Context, kind *domain.CategoryKind) ([]domain.Category, error)

	// UpdateCategory persists name, parent, activity and soft-delete flags.
	UpdateCategory(ctx context.Context, category domain.Category) error
}
