package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
)

var (
	_ portsrepo.AccountRepositoryFacade  = (*repo)(nil)
	_ portsrepo.CategoryRepositoryFacade = (*repo)(nil)
)

func (r *repo) SaveOperationalAccount(ctx context.Context, account domain.OperationalAccount) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.operational[account.AccountID]; ok {
			return fmt.Errorf("%w: operational account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		st.operational[account.AccountID] = account
		return nil
	})
}

func (r *repo) SaveAccountingAccount(ctx context.Context, account domain.AccountingAccount) error {
	return r.write(ctx, func(st *state) error {
		for _, a := range st.accounting {
			if a.Code == account.Code {
				return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
			}
		}
		st.accounting[account.AccountID] = account
		return nil
	})
}

func (r *repo) FindOperationalAccountByID(ctx context.Context, accountID string) (*domain.OperationalAccount, error) {
	var out *domain.OperationalAccount
	err := r.read(func(st *state) error {
		a, ok := st.operational[accountID]
		if !ok {
			return apperrors.NewNotFoundError("operational account " + accountID)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *repo) FindAccountingAccountByID(ctx context.Context, accountID string) (*domain.AccountingAccount, error) {
	var out *domain.AccountingAccount
	err := r.read(func(st *state) error {
		a, ok := st.accounting[accountID]
		if !ok {
			return apperrors.NewNotFoundError("accounting account " + accountID)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *repo) FindAccountingAccountByCode(ctx context.Context, code string) (*domain.AccountingAccount, error) {
	var out *domain.AccountingAccount
	err := r.read(func(st *state) error {
		for _, a := range st.accounting {
			if a.Code == code {
				a := a
				out = &a
				return nil
			}
		}
		return apperrors.NewNotFoundError("accounting account with code " + code)
	})
	return out, err
}

func (r *repo) ListOperationalAccounts(ctx context.Context, includeInactive bool) ([]domain.OperationalAccount, error) {
	out := make([]domain.OperationalAccount, 0)
	err := r.read(func(st *state) error {
		for _, a := range st.operational {
			if a.IsDeleted || (!includeInactive && !a.IsActive) {
				continue
			}
			out = append(out, a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, err
}

func (r *repo) ListAccountingAccounts(ctx context.Context) ([]domain.AccountingAccount, error) {
	out := make([]domain.AccountingAccount, 0)
	err := r.read(func(st *state) error {
		for _, a := range st.accounting {
			out = append(out, a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *repo) UpdateOperationalAccountState(ctx context.Context, accountID string, isActive, isDeleted bool, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		a, ok := st.operational[accountID]
		if !ok {
			return apperrors.NewNotFoundError("operational account " + accountID)
		}
		a.IsActive = isActive
		a.IsDeleted = isDeleted
		a.Touch(now, userID)
		st.operational[accountID] = a
		return nil
	})
}

func (r *repo) UpdateAccountingAccountState(ctx context.Context, accountID string, isActive bool, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		a, ok := st.accounting[accountID]
		if !ok {
			return apperrors.NewNotFoundError("accounting account " + accountID)
		}
		a.IsActive = isActive
		a.Touch(now, userID)
		st.accounting[accountID] = a
		return nil
	})
}

func (r *repo) UpdateOperationalAccountDetails(ctx context.Context, accountID, name string, startingBalance decimal.Decimal, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		a, ok := st.operational[accountID]
		if !ok {
			return apperrors.NewNotFoundError("operational account " + accountID)
		}
		a.Name = name
		a.StartingBalance = startingBalance
		a.Touch(now, userID)
		st.operational[accountID] = a
		return nil
	})
}

func (r *repo) UpdateAccountingAccountName(ctx context.Context, accountID, name string, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		a, ok := st.accounting[accountID]
		if !ok {
			return apperrors.NewNotFoundError("accounting account " + accountID)
		}
		a.Name = name
		a.Touch(now, userID)
		st.accounting[accountID] = a
		return nil
	})
}

// FindOperationalAccountsForUpdate needs no row locks here; units of work are serialized.
func (r *repo) FindOperationalAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.OperationalAccount, error) {
	out := make(map[string]domain.OperationalAccount, len(accountIDs))
	err := r.read(func(st *state) error {
		for _, id := range accountIDs {
			if a, ok := st.operational[id]; ok {
				out[id] = a
			}
		}
		return nil
	})
	return out, err
}

func (r *repo) FindAccountingAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.AccountingAccount, error) {
	out := make(map[string]domain.AccountingAccount, len(accountIDs))
	err := r.read(func(st *state) error {
		for _, id := range accountIDs {
			if a, ok := st.accounting[id]; ok {
				out[id] = a
			}
		}
		return nil
	})
	return out, err
}

func (r *repo) SaveCategory(ctx context.Context, category domain.Category) error {
	return r.write(ctx, func(st *state) error {
		for _, c := range st.categories {
			if c.Kind == category.Kind && c.Name == category.Name {
				return fmt.Errorf("%w: %s category %q", apperrors.ErrDuplicate, c.Kind, c.Name)
			}
		}
		st.categories[category.CategoryID] = category
		return nil
	})
}

func (r *repo) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	var out *domain.Category
	err := r.read(func(st *state) error {
		c, ok := st.categories[categoryID]
		if !ok {
			return apperrors.NewNotFoundError("category " + categoryID)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *repo) FindCategoryByName(ctx context.Context, kind domain.CategoryKind, name string) (*domain.Category, error) {
	var out *domain.Category
	err := r.read(func(st *state) error {
		for _, c := range st.categories {
			if c.Kind == kind && c.Name == name {
				c := c
				out = &c
				return nil
			}
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("%s category %q", kind, name))
	})
	return out, err
}

func (r *repo) ListCategories(ctx context.Context, kind *domain.CategoryKind) ([]domain.Category, error) {
	out := make([]domain.Category, 0)
	err := r.read(func(st *state) error {
		for _, c := range st.categories {
			if kind != nil && c.Kind != *kind {
				continue
			}
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out, err
}

func (r *repo) UpdateCategory(ctx context.Context, category domain.Category) error {
	return r.write(ctx, func(st *state) error {
		current, ok := st.categories[category.CategoryID]
		if !ok {
			return apperrors.NewNotFoundError("category " + category.CategoryID)
		}
		for id, c := range st.categories {
			if id != category.CategoryID && c.Kind == current.Kind && c.Name == category.Name {
				return fmt.Errorf("%w: %s category %q", apperrors.ErrDuplicate, c.Kind, c.Name)
			}
		}
		current.Name = category.Name
		current.ParentID = category.ParentID
		current.IsActive = category.IsActive
		current.IsDeleted = category.IsDeleted
		current.LastUpdatedAt = category.LastUpdatedAt
		current.LastUpdatedBy = category.LastUpdatedBy
		st.categories[category.CategoryID] = current
		return nil
	})
}
