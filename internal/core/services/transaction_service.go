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

// transactionService is the transaction processor, the only entry point for
// operational money movement.
type transactionService struct {
	BaseService
	store    portsrepo.Store
	locker   *AccountLocker
	barrier  *PeriodBarrier
	journal  *journalService
	periods  *periodService
	balances *balanceService
}

func newTransactionService(store portsrepo.Store, locker *AccountLocker, barrier *PeriodBarrier, journal *journalService, periods *periodService, balances *balanceService) *transactionService {
	return &transactionService{
		store:    store,
		locker:   locker,
		barrier:  barrier,
		journal:  journal,
		periods:  periods,
		balances: balances,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// TransactionNumber formats the human readable number of the seq-th transaction of a day.
func TransactionNumber(day time.Time, seq int) string {
	return fmt.Sprintf("TRN-%s-%04d", day.Format("20060102"), seq)
}

func (s *transactionService) RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, mapping domain.AccountMapping, userID string) (*domain.OperationalTransaction, error) {
	now := time.Now().UTC()
	txn := domain.OperationalTransaction{
		TransactionID:   uuid.NewString(),
		Type:            req.Type,
		Status:          domain.Pending,
		SourceAccountID: nonEmpty(req.SourceAccountID),
		TargetAccountID: nonEmpty(req.TargetAccountID),
		Amount:          req.Amount,
		CurrencyCode:    strings.ToUpper(req.CurrencyCode),
		CategoryID:      nonEmpty(req.CategoryID),
		TransactionDate: domain.DateOf(req.TransactionDate),
		Description:     req.Description,
		AuditFields:     domain.NewAuditFields(now, userID),
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	postings, err := mapping.PostingsFor(&txn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	period, err := s.periods.FindPeriodFor(ctx, txn.TransactionDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return nil, err
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: period %s covering %s", apperrors.ErrPeriodClosed,
			period.PeriodID, txn.TransactionDate.Format(time.DateOnly))
	}

	release, err := s.barrier.Admit(period.PeriodID)
	if err != nil {
		return nil, err
	}
	defer release()

	lockIDs := append(txn.AccountIDs(), domain.PostingAccountIDs(postings)...)
	unlock, err := s.locker.Lock(ctx, lockIDs...)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock accounts for transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}
	defer unlock()

	var posted *postedEntry
	err = s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if err := s.checkAccounts(ctx, repos, &txn); err != nil {
			return err
		}
		if err := s.checkCategory(ctx, repos, &txn); err != nil {
			return err
		}

		seq, err := repos.TransactionRepo.NextTransactionSequence(ctx, txn.TransactionDate)
		if err != nil {
			return err
		}
		txn.TransactionNumber = TransactionNumber(txn.TransactionDate, seq)

		if err := repos.TransactionRepo.SaveTransaction(ctx, txn); err != nil {
			return err
		}

		posted, err = s.journal.postInTx(ctx, repos, entryInput{
			PeriodID:            period.PeriodID,
			EntryDate:           txn.TransactionDate,
			Memo:                entryMemo(&txn),
			Postings:            postings,
			SourceTransactionID: &txn.TransactionID,
			UserID:              userID,
		})
		if err != nil {
			return err
		}

		txn.Status = domain.Posted
		txn.EntryID = &posted.entry.EntryID
		txn.Touch(time.Now().UTC(), userID)
		return repos.TransactionRepo.UpdateTransactionState(ctx, txn)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record transaction",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("type", string(txn.Type)))
		return nil, err
	}

	s.balances.applyTransaction(&txn, 1)
	s.balances.applyEntry(posted)

	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber),
		slog.String("entry_id", posted.entry.EntryID))
	return &txn, nil
}

func (s *transactionService) checkAccounts(ctx context.Context, repos portsrepo.RepositoryProvider, txn *domain.OperationalTransaction) error {
	ids := txn.AccountIDs()
	accounts, err := repos.AccountRepo.FindOperationalAccountsForUpdate(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: operational account %s", apperrors.ErrNotFound, id)
		}
		if !acc.Active() {
			return fmt.Errorf("%w: operational account %s", apperrors.ErrInactiveAccount, id)
		}
		if acc.CurrencyCode != txn.CurrencyCode {
			return fmt.Errorf("%w: transaction currency %s does not match account %s currency %s",
				apperrors.ErrValidation, txn.CurrencyCode, id, acc.CurrencyCode)
		}
	}
	return nil
}

// checkCategory requires a category on expenses, checks its kind against the
// transaction type and tags transfers with the system transfer category.
func (s *transactionService) checkCategory(ctx context.Context, repos portsrepo.RepositoryProvider, txn *domain.OperationalTransaction) error {
	if txn.CategoryID == nil {
		switch txn.Type {
		case domain.Outgoing:
			return fmt.Errorf("%w: expense transactions require a category", apperrors.ErrValidation)
		case domain.Transfer:
			cat, err := repos.CategoryRepo.FindCategoryByName(ctx, domain.CategoryTransfer, domain.SystemTransferCategoryName)
			if err == nil {
				txn.CategoryID = &cat.CategoryID
			} else if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
		}
		return nil
	}

	cat, err := repos.CategoryRepo.FindCategoryByID(ctx, *txn.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, *txn.CategoryID)
		}
		return err
	}
	if !cat.Usable() {
		return fmt.Errorf("%w: category %s is inactive or deleted", apperrors.ErrValidation, cat.CategoryID)
	}
	if !cat.Kind.Matches(txn.Type) {
		return fmt.Errorf("%w: %s category %s cannot be used on a %s transaction",
			apperrors.ErrValidation, cat.Kind, cat.CategoryID, txn.Type)
	}
	return nil
}

func (s *transactionService) VoidTransaction(ctx context.Context, transactionID string, userID string) (*domain.OperationalTransaction, error) {
	repos := s.store.Repositories()
	txn, err := repos.TransactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := checkVoidable(txn); err != nil {
		return nil, err
	}
	entry, err := repos.EntryRepo.FindEntryByID(ctx, *txn.EntryID)
	if err != nil {
		return nil, err
	}
	period, err := repos.PeriodRepo.FindPeriodByID(ctx, entry.PeriodID)
	if err != nil {
		return nil, err
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: transaction %s belongs to closed period %s",
			apperrors.ErrPeriodClosed, transactionID, period.PeriodID)
	}

	release, err := s.barrier.Admit(period.PeriodID)
	if err != nil {
		return nil, err
	}
	defer release()

	unlock, err := s.locker.Lock(ctx, append(txn.AccountIDs(), entry.AccountIDs()...)...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var voided domain.OperationalTransaction
	var reversal *postedEntry
	err = s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		current, err := repos.TransactionRepo.FindTransactionByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if err := checkVoidable(current); err != nil {
			return err
		}

		reversal, err = s.journal.reverseInTx(ctx, repos, *current.EntryID, userID)
		if err != nil {
			return err
		}

		current.Status = domain.Voided
		current.VoidEntryID = &reversal.entry.EntryID
		current.Touch(time.Now().UTC(), userID)
		if err := repos.TransactionRepo.UpdateTransactionState(ctx, *current); err != nil {
			return err
		}
		voided = *current
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to void transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.balances.applyTransaction(&voided, -1)
	s.balances.applyEntry(reversal)

	s.LogInfo(ctx, "Transaction voided",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_entry_id", reversal.entry.EntryID))
	return &voided, nil
}

func checkVoidable(txn *domain.OperationalTransaction) error {
	switch txn.Status {
	case domain.Posted:
		if txn.EntryID == nil {
			return fmt.Errorf("%w: transaction %s has no accounting entry", apperrors.ErrInternal, txn.TransactionID)
		}
		return nil
	case domain.Voided:
		return fmt.Errorf("%w: transaction %s is already voided", apperrors.ErrValidation, txn.TransactionID)
	default:
		return fmt.Errorf("%w: transaction %s is %s and cannot be voided", apperrors.ErrValidation, txn.TransactionID, txn.Status)
	}
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error) {
	return s.store.Repositories().TransactionRepo.FindTransactionByID(ctx, transactionID)
}

func (s *transactionService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	repos := s.store.Repositories()
	if _, err := repos.AccountRepo.FindOperationalAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, fmt.Errorf("%w: from date is after to date", apperrors.ErrValidation)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, next, err := repos.TransactionRepo.ListTransactionsByAccount(ctx, accountID, portsrepo.TransactionFilter{
		From:      params.From,
		To:        params.To,
		Limit:     limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, err
	}
	if txns == nil {
		txns = []domain.OperationalTransaction{}
	}
	return &dto.ListTransactionsResponse{Transactions: txns, NextToken: next}, nil
}

func entryMemo(txn *domain.OperationalTransaction) string {
	if txn.Description != "" {
		return txn.Description
	}
	return strings.ToLower(string(txn.Type)) + " " + txn.TransactionNumber
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
