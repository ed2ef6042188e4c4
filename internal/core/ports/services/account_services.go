package services

import (
	"context"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount retrieves an account of either family by id.
	GetAccount(ctx context.Context, accountID string) (domain.Account, error)

	GetOperationalAccount(ctx context.Context, accountID string) (*domain.OperationalAccount, error)
	GetAccountingAccount(ctx context.Context, accountID string) (*domain.AccountingAccount, error)

	// ListOperationalAccounts lists operational accounts, optionally including inactive ones.
	ListOperationalAccounts(ctx context.Context, includeInactive bool) ([]domain.OperationalAccount, error)

	// ListAccountingAccounts lists the chart of accounts.
	ListAccountingAccounts(ctx context.Context) ([]domain.AccountingAccount, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateOperationalAccount(ctx context.Context, req dto.CreateOperationalAccountRequest, userID string) (*domain.OperationalAccount, error)
	CreateAccountingAccount(ctx context.Context, req dto.CreateAccountingAccountRequest, userID string) (*domain.AccountingAccount, error)

	// DeactivateAccount marks an account inactive. It fails with a conflict while
	// pending transactions reference the account.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// DeleteAccount soft-deletes an operational account.
	DeleteAccount(ctx context.Context, accountID string, userID string) error

	// ActivateAccount reopens an inactive account. Soft-deleted accounts stay retired.
	ActivateAccount(ctx context.Context, accountID string, userID string) error

	// UpdateOperationalAccount renames an operational account and, while it has
	// no transactions, changes its starting balance.
	UpdateOperationalAccount(ctx context.Context, accountID string, req dto.UpdateOperationalAccountRequest, userID string) (*domain.OperationalAccount, error)

	// UpdateAccountingAccount renames a chart-of-accounts entry.
	UpdateAccountingAccount(ctx context.Context, accountID string, req dto.UpdateAccountingAccountRequest, userID string) (*domain.AccountingAccount, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// CategorySvcFacade manages transaction categories.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)
	GetCategory(ctx context.Context, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, kind *domain.CategoryKind) ([]domain.Category, error)

	// GetCategoryTree nests live categories under their parents.
	GetCategoryTree(ctx context.Context, kind *domain.CategoryKind) ([]domain.CategoryNode, error)

	// GetCategoryPath returns the category and its ancestors, root first.
	GetCategoryPath(ctx context.Context, categoryID string) ([]domain.Category, error)

	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error)

	// MoveCategory re-parents a category. A nil parent makes it a root.
	MoveCategory(ctx context.Context, categoryID string, parentID *string, userID string) (*domain.Category, error)

	// DeleteCategory soft-deletes a category that no transaction or live child references.
	DeleteCategory(ctx context.Context, categoryID string, userID string) error

	// EnsureSystemCategories seeds the system transfer category when missing.
	EnsureSystemCategories(ctx context.Context) error
}
