package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
)

// accountService implements the account registry.
type accountService struct {
	BaseService
	store  portsrepo.Store
	locker *AccountLocker

	// balanceChanged runs under the account lock after a committed starting balance change.
	balanceChanged func(accountID string)
}

// NewAccountService creates a new account registry service.
func NewAccountService(store portsrepo.Store, locker *AccountLocker) portssvc.AccountSvcFacade {
	return newAccountService(store, locker)
}

func newAccountService(store portsrepo.Store, locker *AccountLocker) *accountService {
	return &accountService{store: store, locker: locker, balanceChanged: func(string) {}}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) repo() portsrepo.AccountRepositoryFacade {
	return s.store.Repositories().AccountRepo
}

func (s *accountService) CreateOperationalAccount(ctx context.Context, req dto.CreateOperationalAccountRequest, userID string) (*domain.OperationalAccount, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown operational account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if len(req.CurrencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency code must have 3 letters", apperrors.ErrValidation)
	}
	if err := domain.CheckScale(req.StartingBalance); err != nil {
		return nil, fmt.Errorf("%w: starting balance: %v", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	account := domain.OperationalAccount{
		AccountID:       uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		CurrencyCode:    strings.ToUpper(req.CurrencyCode),
		StartingBalance: req.StartingBalance,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(now, userID),
	}

	if err := s.repo().SaveOperationalAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save operational account", slog.String("name", account.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Operational account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)),
		slog.String("currency_code", account.CurrencyCode))
	return &account, nil
}

func (s *accountService) CreateAccountingAccount(ctx context.Context, req dto.CreateAccountingAccountRequest, userID string) (*domain.AccountingAccount, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if existing, err := s.repo().FindAccountingAccountByCode(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s is already used by %s", apperrors.ErrDuplicate, code, existing.AccountID)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.AccountingAccount{
		AccountID:   uuid.NewString(),
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		AccountType: req.AccountType,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(now, userID),
	}

	if err := s.repo().SaveAccountingAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save accounting account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Accounting account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	op, err := s.repo().FindOperationalAccountByID(ctx, accountID)
	if err == nil {
		return op, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	acc, err := s.repo().FindAccountingAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *accountService) GetOperationalAccount(ctx context.Context, accountID string) (*domain.OperationalAccount, error) {
	return s.repo().FindOperationalAccountByID(ctx, accountID)
}

func (s *accountService) GetAccountingAccount(ctx context.Context, accountID string) (*domain.AccountingAccount, error) {
	return s.repo().FindAccountingAccountByID(ctx, accountID)
}

func (s *accountService) ListOperationalAccounts(ctx context.Context, includeInactive bool) ([]domain.OperationalAccount, error) {
	return s.repo().ListOperationalAccounts(ctx, includeInactive)
}

func (s *accountService) ListAccountingAccounts(ctx context.Context) ([]domain.AccountingAccount, error) {
	return s.repo().ListAccountingAccounts(ctx)
}

// DeactivateAccount holds the account lock so it cannot interleave with a
// record or post touching the same account.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	return s.retire(ctx, accountID, userID, false)
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	return s.retire(ctx, accountID, userID, true)
}

func (s *accountService) retire(ctx context.Context, accountID, userID string, softDelete bool) error {
	unlock, err := s.locker.Lock(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock account", slog.String("account_id", accountID))
		return err
	}
	defer unlock()

	now := time.Now().UTC()
	err = s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		ops, err := repos.AccountRepo.FindOperationalAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		if op, ok := ops[accountID]; ok {
			pending, err := repos.TransactionRepo.CountPendingByAccount(ctx, accountID)
			if err != nil {
				return err
			}
			if pending > 0 {
				return fmt.Errorf("%w: account %s has %d pending transactions", apperrors.ErrConflict, accountID, pending)
			}
			isDeleted := op.IsDeleted || softDelete
			if !op.IsActive && isDeleted == op.IsDeleted {
				return nil
			}
			return repos.AccountRepo.UpdateOperationalAccountState(ctx, accountID, false, isDeleted, userID, now)
		}

		accs, err := repos.AccountRepo.FindAccountingAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		acc, ok := accs[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		if softDelete {
			return fmt.Errorf("%w: accounting account %s cannot be deleted, deactivate it instead", apperrors.ErrValidation, accountID)
		}
		if !acc.IsActive {
			return nil
		}
		return repos.AccountRepo.UpdateAccountingAccountState(ctx, accountID, false, userID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retire account",
			slog.String("account_id", accountID),
			slog.Bool("soft_delete", softDelete))
		return err
	}

	s.LogInfo(ctx, "Account retired",
		slog.String("account_id", accountID),
		slog.Bool("soft_delete", softDelete))
	return nil
}

// ActivateAccount takes the account lock like retire does.
func (s *accountService) ActivateAccount(ctx context.Context, accountID string, userID string) error {
	unlock, err := s.locker.Lock(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock account", slog.String("account_id", accountID))
		return err
	}
	defer unlock()

	now := time.Now().UTC()
	err = s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		ops, err := repos.AccountRepo.FindOperationalAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		if op, ok := ops[accountID]; ok {
			if op.IsDeleted {
				return fmt.Errorf("%w: account %s is deleted and cannot be reactivated", apperrors.ErrValidation, accountID)
			}
			if op.IsActive {
				return nil
			}
			return repos.AccountRepo.UpdateOperationalAccountState(ctx, accountID, true, false, userID, now)
		}

		accs, err := repos.AccountRepo.FindAccountingAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		acc, ok := accs[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		if acc.IsActive {
			return nil
		}
		return repos.AccountRepo.UpdateAccountingAccountState(ctx, accountID, true, userID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to activate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account activated", slog.String("account_id", accountID))
	return nil
}

// UpdateOperationalAccount keeps the type and currency fixed. The starting
// balance is frozen once any transaction references the account.
func (s *accountService) UpdateOperationalAccount(ctx context.Context, accountID string, req dto.UpdateOperationalAccountRequest, userID string) (*domain.OperationalAccount, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: account name cannot be blank", apperrors.ErrValidation)
	}
	if req.StartingBalance != nil {
		if err := domain.CheckScale(*req.StartingBalance); err != nil {
			return nil, fmt.Errorf("%w: starting balance: %v", apperrors.ErrValidation, err)
		}
	}

	unlock, err := s.locker.Lock(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock account", slog.String("account_id", accountID))
		return nil, err
	}
	defer unlock()

	now := time.Now().UTC()
	var updated domain.OperationalAccount
	balanceMoved := false
	err = s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		ops, err := repos.AccountRepo.FindOperationalAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		op, ok := ops[accountID]
		if !ok {
			return apperrors.NewNotFoundError("operational account " + accountID)
		}
		if op.IsDeleted {
			return fmt.Errorf("%w: account %s is deleted", apperrors.ErrValidation, accountID)
		}

		if req.Name != nil {
			op.Name = strings.TrimSpace(*req.Name)
		}
		if req.StartingBalance != nil && !req.StartingBalance.Equal(op.StartingBalance) {
			n, err := repos.TransactionRepo.CountTransactionsByAccount(ctx, accountID)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: starting balance of account %s is fixed once it has transactions", apperrors.ErrConflict, accountID)
			}
			op.StartingBalance = *req.StartingBalance
			balanceMoved = true
		}

		if err := repos.AccountRepo.UpdateOperationalAccountDetails(ctx, accountID, op.Name, op.StartingBalance, userID, now); err != nil {
			return err
		}
		op.Touch(now, userID)
		updated = op
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update operational account", slog.String("account_id", accountID))
		return nil, err
	}
	if balanceMoved {
		s.balanceChanged(accountID)
	}

	s.LogInfo(ctx, "Operational account updated",
		slog.String("account_id", accountID),
		slog.Bool("starting_balance_changed", balanceMoved))
	return &updated, nil
}

func (s *accountService) UpdateAccountingAccount(ctx context.Context, accountID string, req dto.UpdateAccountingAccountRequest, userID string) (*domain.AccountingAccount, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	var updated domain.AccountingAccount
	err := s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		accs, err := repos.AccountRepo.FindAccountingAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		acc, ok := accs[accountID]
		if !ok {
			return apperrors.NewNotFoundError("accounting account " + accountID)
		}
		if err := repos.AccountRepo.UpdateAccountingAccountName(ctx, accountID, name, userID, now); err != nil {
			return err
		}
		acc.Name = name
		acc.Touch(now, userID)
		updated = acc
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update accounting account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Accounting account updated", slog.String("account_id", accountID))
	return &updated, nil
}
