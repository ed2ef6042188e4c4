package services_test

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/dto"
)

func (s *LedgerTestSuite) TestActivateAccount() {
	require.NoError(s.T(), s.svc.Account.DeactivateAccount(s.ctx, s.bankA.AccountID, testUser))
	_, err := s.income(s.bankA, "10", day(2024, 3, 5))
	assert.ErrorIs(s.T(), err, apperrors.ErrInactiveAccount)

	require.NoError(s.T(), s.svc.Account.ActivateAccount(s.ctx, s.bankA.AccountID, testUser))
	require.NoError(s.T(), s.svc.Account.ActivateAccount(s.ctx, s.bankA.AccountID, testUser), "activation is idempotent")
	_, err = s.income(s.bankA, "10", day(2024, 3, 5))
	require.NoError(s.T(), err)
	s.assertBalance("1010", s.bankA.AccountID)

	require.NoError(s.T(), s.svc.Account.DeactivateAccount(s.ctx, s.revenue.AccountID, testUser))
	require.NoError(s.T(), s.svc.Account.ActivateAccount(s.ctx, s.revenue.AccountID, testUser))
	revenue, err := s.svc.Account.GetAccountingAccount(s.ctx, s.revenue.AccountID)
	require.NoError(s.T(), err)
	assert.True(s.T(), revenue.IsActive)

	err = s.svc.Account.ActivateAccount(s.ctx, "no-such-account", testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestActivateRefusesDeletedAccount() {
	require.NoError(s.T(), s.svc.Account.DeleteAccount(s.ctx, s.cashB.AccountID, testUser))

	err := s.svc.Account.ActivateAccount(s.ctx, s.cashB.AccountID, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	cash, err := s.svc.Account.GetOperationalAccount(s.ctx, s.cashB.AccountID)
	require.NoError(s.T(), err)
	assert.False(s.T(), cash.IsActive)
	assert.True(s.T(), cash.IsDeleted)
	_, err = s.transfer(s.bankA, s.cashB, "5", day(2024, 3, 5))
	assert.ErrorIs(s.T(), err, apperrors.ErrInactiveAccount)
}

func (s *LedgerTestSuite) TestUpdateOperationalAccount_StartingBalance() {
	savings := s.operationalAccount("Savings", domain.Bank, "100")
	s.assertBalance("100", savings.AccountID)

	updated, err := s.svc.Account.UpdateOperationalAccount(s.ctx, savings.AccountID, dto.UpdateOperationalAccountRequest{
		StartingBalance: ptr(dec("250")),
	}, testUser)
	require.NoError(s.T(), err)
	assert.True(s.T(), dec("250").Equal(updated.StartingBalance))
	s.assertBalance("250", savings.AccountID)
	assert.True(s.T(), dec("250").Equal(s.recomputed(savings.AccountID)))

	s.mapping.OperationalAccounts[savings.AccountID] = s.bankAcc.AccountID
	_, err = s.transfer(s.bankA, savings, "50", day(2024, 3, 6))
	require.NoError(s.T(), err)

	_, err = s.svc.Account.UpdateOperationalAccount(s.ctx, savings.AccountID, dto.UpdateOperationalAccountRequest{
		StartingBalance: ptr(dec("0")),
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)

	renamed, err := s.svc.Account.UpdateOperationalAccount(s.ctx, savings.AccountID, dto.UpdateOperationalAccountRequest{
		Name:            ptr("  Rainy day  "),
		StartingBalance: ptr(dec("250.00")),
	}, testUser)
	require.NoError(s.T(), err, "an unchanged starting balance is not a change")
	assert.Equal(s.T(), "Rainy day", renamed.Name)
	assert.Equal(s.T(), domain.Bank, renamed.AccountType)
	s.assertBalance("300", savings.AccountID)
}

func (s *LedgerTestSuite) TestUpdateOperationalAccount_Validation() {
	_, err := s.svc.Account.UpdateOperationalAccount(s.ctx, s.bankA.AccountID, dto.UpdateOperationalAccountRequest{Name: ptr(" ")}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	_, err = s.svc.Account.UpdateOperationalAccount(s.ctx, s.cashB.AccountID, dto.UpdateOperationalAccountRequest{
		StartingBalance: ptr(dec("1.00001")),
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	_, err = s.svc.Account.UpdateOperationalAccount(s.ctx, s.revenue.AccountID, dto.UpdateOperationalAccountRequest{Name: ptr("x")}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	require.NoError(s.T(), s.svc.Account.DeleteAccount(s.ctx, s.cashB.AccountID, testUser))
	_, err = s.svc.Account.UpdateOperationalAccount(s.ctx, s.cashB.AccountID, dto.UpdateOperationalAccountRequest{Name: ptr("x")}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *LedgerTestSuite) TestUpdateAccountingAccount() {
	acc, err := s.svc.Account.UpdateAccountingAccount(s.ctx, s.cashAcc.AccountID, dto.UpdateAccountingAccountRequest{Name: "Petty Cash"}, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Petty Cash", acc.Name)
	assert.Equal(s.T(), "1000", acc.Code)

	stored, err := s.svc.Account.GetAccountingAccount(s.ctx, s.cashAcc.AccountID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Petty Cash", stored.Name)

	_, err = s.svc.Account.UpdateAccountingAccount(s.ctx, s.cashAcc.AccountID, dto.UpdateAccountingAccountRequest{Name: ""}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	_, err = s.svc.Account.UpdateAccountingAccount(s.ctx, s.bankA.AccountID, dto.UpdateAccountingAccountRequest{Name: "x"}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestCategoryTree() {
	food := s.category("Food", domain.CategoryExpense)
	moved, err := s.svc.Category.MoveCategory(s.ctx, s.groceries.CategoryID, &food.CategoryID, testUser)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), moved.ParentID)
	assert.Equal(s.T(), food.CategoryID, *moved.ParentID)

	snacks, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "Snacks", Kind: domain.CategoryExpense, ParentID: &s.groceries.CategoryID,
	}, testUser)
	require.NoError(s.T(), err)

	path, err := s.svc.Category.GetCategoryPath(s.ctx, snacks.CategoryID)
	require.NoError(s.T(), err)
	names := make([]string, 0, len(path))
	for _, c := range path {
		names = append(names, c.Name)
	}
	assert.Equal(s.T(), []string{"Food", "Groceries", "Snacks"}, names)

	expense := domain.CategoryExpense
	tree, err := s.svc.Category.GetCategoryTree(s.ctx, &expense)
	require.NoError(s.T(), err)
	require.Len(s.T(), tree, 1)
	assert.Equal(s.T(), "Food", tree[0].Name)
	require.Len(s.T(), tree[0].Children, 1)
	require.Len(s.T(), tree[0].Children[0].Children, 1)
	assert.Equal(s.T(), "Snacks", tree[0].Children[0].Children[0].Name)

	_, err = s.svc.Category.MoveCategory(s.ctx, food.CategoryID, &snacks.CategoryID, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation, "a category cannot move under its own descendant")
	_, err = s.svc.Category.MoveCategory(s.ctx, food.CategoryID, &food.CategoryID, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	_, err = s.svc.Category.MoveCategory(s.ctx, snacks.CategoryID, &s.salary.CategoryID, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation, "kinds cannot mix")

	rooted, err := s.svc.Category.MoveCategory(s.ctx, snacks.CategoryID, nil, testUser)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), rooted.ParentID)
	tree, err = s.svc.Category.GetCategoryTree(s.ctx, &expense)
	require.NoError(s.T(), err)
	assert.Len(s.T(), tree, 2)
}

func (s *LedgerTestSuite) TestCategoryParentMustBeLiveAndSameKind() {
	_, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "Bonus", Kind: domain.CategoryIncome, ParentID: &s.groceries.CategoryID,
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	_, err = s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "Bonus", Kind: domain.CategoryIncome, ParentID: ptr("00000000-0000-0000-0000-000000000000"),
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	_, err = s.svc.Category.GetCategory(s.ctx, "no-such-category")
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
	list, err := s.svc.Category.ListCategories(s.ctx, ptr(domain.CategoryIncome))
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1, "failed creates persist nothing")
}

func (s *LedgerTestSuite) TestUpdateCategory() {
	renamed, err := s.svc.Category.UpdateCategory(s.ctx, s.groceries.CategoryID, dto.UpdateCategoryRequest{Name: "Supermarket"}, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Supermarket", renamed.Name)

	s.category("Dining", domain.CategoryExpense)
	_, err = s.svc.Category.UpdateCategory(s.ctx, s.groceries.CategoryID, dto.UpdateCategoryRequest{Name: "Dining"}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicate)

	transfer, err := s.store.Repositories().CategoryRepo.FindCategoryByName(s.ctx, domain.CategoryTransfer, domain.SystemTransferCategoryName)
	require.NoError(s.T(), err)
	_, err = s.svc.Category.UpdateCategory(s.ctx, transfer.CategoryID, dto.UpdateCategoryRequest{Name: "Moves"}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	_, err = s.svc.Category.MoveCategory(s.ctx, transfer.CategoryID, nil, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	assert.ErrorIs(s.T(), s.svc.Category.DeleteCategory(s.ctx, transfer.CategoryID, testUser), apperrors.ErrValidation)
}

func (s *LedgerTestSuite) TestDeleteCategory() {
	_, err := s.expenseFrom(s.bankA, "20", &s.groceries.CategoryID, day(2024, 3, 4))
	require.NoError(s.T(), err)
	err = s.svc.Category.DeleteCategory(s.ctx, s.groceries.CategoryID, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict, "categories in use are kept")

	food := s.category("Food", domain.CategoryExpense)
	snacks, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "Snacks", Kind: domain.CategoryExpense, ParentID: &food.CategoryID,
	}, testUser)
	require.NoError(s.T(), err)
	assert.ErrorIs(s.T(), s.svc.Category.DeleteCategory(s.ctx, food.CategoryID, testUser), apperrors.ErrConflict)

	require.NoError(s.T(), s.svc.Category.DeleteCategory(s.ctx, snacks.CategoryID, testUser))
	require.NoError(s.T(), s.svc.Category.DeleteCategory(s.ctx, food.CategoryID, testUser), "deleted children no longer block")

	stored, err := s.svc.Category.GetCategory(s.ctx, snacks.CategoryID)
	require.NoError(s.T(), err)
	assert.True(s.T(), stored.IsDeleted)

	expense := domain.CategoryExpense
	live, err := s.svc.Category.ListCategories(s.ctx, &expense)
	require.NoError(s.T(), err)
	require.Len(s.T(), live, 1)
	assert.Equal(s.T(), s.groceries.CategoryID, live[0].CategoryID)

	_, err = s.expenseFrom(s.bankA, "5", &snacks.CategoryID, day(2024, 3, 5))
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	_, err = s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "Chips", Kind: domain.CategoryExpense, ParentID: &snacks.CategoryID,
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	assert.ErrorIs(s.T(), s.svc.Category.DeleteCategory(s.ctx, snacks.CategoryID, testUser), apperrors.ErrValidation)
}
