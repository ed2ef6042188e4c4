package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Account), args.Error(1)
}
func (m *MockAccountService) GetOperationalAccount(ctx context.Context, accountID string) (*domain.OperationalAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationalAccount), args.Error(1)
}
func (m *MockAccountService) GetAccountingAccount(ctx context.Context, accountID string) (*domain.AccountingAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingAccount), args.Error(1)
}
func (m *MockAccountService) ListOperationalAccounts(ctx context.Context, includeInactive bool) ([]domain.OperationalAccount, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OperationalAccount), args.Error(1)
}
func (m *MockAccountService) ListAccountingAccounts(ctx context.Context) ([]domain.AccountingAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingAccount), args.Error(1)
}
func (m *MockAccountService) CreateOperationalAccount(ctx context.Context, req dto.CreateOperationalAccountRequest, userID string) (*domain.OperationalAccount, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationalAccount), args.Error(1)
}
func (m *MockAccountService) CreateAccountingAccount(ctx context.Context, req dto.CreateAccountingAccountRequest, userID string) (*domain.AccountingAccount, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingAccount), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) ActivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}
func (m *MockAccountService) UpdateOperationalAccount(ctx context.Context, accountID string, req dto.UpdateOperationalAccountRequest, userID string) (*domain.OperationalAccount, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationalAccount), args.Error(1)
}
func (m *MockAccountService) UpdateAccountingAccount(ctx context.Context, accountID string, req dto.UpdateAccountingAccountRequest, userID string) (*domain.AccountingAccount, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingAccount), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock CategoryService ---
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryService) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryService) ListCategories(ctx context.Context, kind *domain.CategoryKind) ([]domain.Category, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockCategoryService) GetCategoryTree(ctx context.Context, kind *domain.CategoryKind) ([]domain.CategoryNode, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryNode), args.Error(1)
}
func (m *MockCategoryService) GetCategoryPath(ctx context.Context, categoryID string) ([]domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockCategoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryService) MoveCategory(ctx context.Context, categoryID string, parentID *string, userID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID, parentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryService) DeleteCategory(ctx context.Context, categoryID string, userID string) error {
	args := m.Called(ctx, categoryID, userID)
	return args.Error(0)
}
func (m *MockCategoryService) EnsureSystemCategories(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ portssvc.CategorySvcFacade = (*MockCategoryService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) BalanceOf(ctx context.Context, accountID string, asOf *time.Time) (*domain.Balance, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}
func (m *MockBalanceService) AccountSummary(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountSummary, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSummary), args.Error(1)
}
func (m *MockBalanceService) BalanceHistory(ctx context.Context, accountID string, from, to time.Time, intervalDays int) ([]domain.BalancePoint, error) {
	args := m.Called(ctx, accountID, from, to, intervalDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalancePoint), args.Error(1)
}
func (m *MockBalanceService) TotalBalance(ctx context.Context, currencyCode string, asOf *time.Time) (*domain.TotalBalance, error) {
	args := m.Called(ctx, currencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TotalBalance), args.Error(1)
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationalTransaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockTransactionService) RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, mapping domain.AccountMapping, userID string) (*domain.OperationalTransaction, error) {
	args := m.Called(ctx, req, mapping, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationalTransaction), args.Error(1)
}
func (m *MockTransactionService) VoidTransaction(ctx context.Context, transactionID string, userID string) (*domain.OperationalTransaction, error) {
	args := m.Called(ctx, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationalTransaction), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntry(ctx context.Context, entryID string) (*domain.AccountingEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingEntry), args.Error(1)
}
func (m *MockJournalService) ListEntriesByPeriod(ctx context.Context, periodID string) ([]domain.AccountingEntry, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingEntry), args.Error(1)
}
func (m *MockJournalService) PostEntry(ctx context.Context, req dto.PostEntryRequest, userID string) (*domain.AccountingEntry, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingEntry), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) OpenPeriod(ctx context.Context, req dto.OpenPeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, periodID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) GetPeriod(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) FindPeriodFor(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)
