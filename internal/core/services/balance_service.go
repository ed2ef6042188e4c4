package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/utils/accounting"
)

// balanceService is the balance calculator. Full-history balances are cached per
// account together with the store's activity version for that account.
type balanceService struct {
	BaseService
	store    portsrepo.Store
	locker   *AccountLocker
	accounts portssvc.AccountReaderSvc
	cache    *balanceCache
}

func newBalanceService(store portsrepo.Store, locker *AccountLocker, accounts portssvc.AccountReaderSvc) *balanceService {
	return &balanceService{
		store:    store,
		locker:   locker,
		accounts: accounts,
		cache:    newBalanceCache(),
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) BalanceOf(ctx context.Context, accountID string, asOf *time.Time) (*domain.Balance, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var amount decimal.Decimal
	if asOf != nil {
		day := domain.DateOf(*asOf)
		asOf = &day
		amount, err = s.compute(ctx, account, asOf)
	} else {
		amount, err = s.current(ctx, account)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance", slog.String("account_id", accountID))
		return nil, err
	}

	return &domain.Balance{
		AccountID: accountID,
		Kind:      account.Kind(),
		AsOf:      asOf,
		Amount:    amount,
	}, nil
}

// current serves the full-history balance from cache when the cached version
// still matches the store, recomputing otherwise.
func (s *balanceService) current(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	unlock, err := s.locker.Lock(ctx, account.ID())
	if err != nil {
		return decimal.Zero, err
	}
	defer unlock()

	version, err := s.version(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	if cached, ok := s.cache.get(account.ID()); ok {
		if cached.version == version {
			return cached.balance, nil
		}
		s.LogDebug(ctx, "Balance cache stale, recomputing",
			slog.String("account_id", account.ID()),
			slog.Int64("cached_version", cached.version),
			slog.Int64("store_version", version))
		s.cache.invalidate(account.ID())
	}

	amount, err := s.compute(ctx, account, nil)
	if err != nil {
		return decimal.Zero, err
	}
	s.cache.put(account.ID(), amount, version)
	return amount, nil
}

func (s *balanceService) version(ctx context.Context, account domain.Account) (int64, error) {
	repos := s.store.Repositories()
	switch account.Kind() {
	case domain.KindOperational:
		return repos.TransactionRepo.OperationalActivityVersion(ctx, account.ID())
	case domain.KindAccounting:
		return repos.EntryRepo.CountPostingsByAccount(ctx, account.ID())
	}
	return 0, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrInternal, account.Kind())
}

// compute derives the balance from history up to asOf (nil for all history).
func (s *balanceService) compute(ctx context.Context, account domain.Account, asOf *time.Time) (decimal.Decimal, error) {
	repos := s.store.Repositories()
	switch acc := account.(type) {
	case *domain.OperationalAccount:
		txns, err := repos.TransactionRepo.ListPostedTransactionsByAccount(ctx, acc.AccountID, asOf)
		if err != nil {
			return decimal.Zero, err
		}
		balance := acc.StartingBalance
		for i := range txns {
			balance = balance.Add(txns[i].EffectOn(acc.AccountID))
		}
		return balance, nil
	case *domain.AccountingAccount:
		postings, err := repos.EntryRepo.ListPostingsByAccount(ctx, acc.AccountID, asOf)
		if err != nil {
			return decimal.Zero, err
		}
		return accounting.SignedBalance(postings, acc.AccountType)
	}
	return decimal.Zero, fmt.Errorf("%w: unsupported account %T", apperrors.ErrInternal, account)
}

// applyTransaction moves cached operational balances after a committed record
// (direction 1) or void (direction -1). Each produces one accounting entry.
func (s *balanceService) applyTransaction(txn *domain.OperationalTransaction, direction int64) {
	for _, id := range txn.AccountIDs() {
		delta := txn.EffectOn(id)
		if direction < 0 {
			delta = delta.Neg()
		}
		s.cache.applyDelta(id, delta, 1)
	}
}

// applyEntry moves cached accounting balances after a committed entry.
func (s *balanceService) applyEntry(posted *postedEntry) {
	if posted == nil {
		return
	}
	deltas := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for _, p := range posted.entry.Postings {
		signed, err := accounting.CalculateSignedAmount(p, posted.accountTypes[p.AccountID])
		if err != nil {
			s.cache.invalidate(p.AccountID)
			continue
		}
		deltas[p.AccountID] = deltas[p.AccountID].Add(signed)
		counts[p.AccountID]++
	}
	for id, delta := range deltas {
		s.cache.applyDelta(id, delta, counts[id])
	}
}

func (s *balanceService) AccountSummary(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountSummary, error) {
	from, to = domain.DateOf(from), domain.DateOf(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: from date is after to date", apperrors.ErrValidation)
	}
	acc, txns, err := s.operationalHistory(ctx, accountID, &to)
	if err != nil {
		return nil, err
	}

	summary := domain.AccountSummary{
		AccountID:      accountID,
		From:           from,
		To:             to,
		OpeningBalance: acc.StartingBalance,
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
	}
	inRange := decimal.Zero
	for i := range txns {
		t := &txns[i]
		effect := t.EffectOn(accountID)
		if t.TransactionDate.Before(from) {
			summary.OpeningBalance = summary.OpeningBalance.Add(effect)
			continue
		}
		summary.TransactionCount++
		inRange = inRange.Add(effect)
		switch t.Type {
		case domain.Income:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case domain.Outgoing:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
		}
	}
	summary.ClosingBalance = summary.OpeningBalance.Add(inRange)
	return &summary, nil
}

func (s *balanceService) BalanceHistory(ctx context.Context, accountID string, from, to time.Time, intervalDays int) ([]domain.BalancePoint, error) {
	from, to = domain.DateOf(from), domain.DateOf(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: from date is after to date", apperrors.ErrValidation)
	}
	if intervalDays < 1 {
		return nil, fmt.Errorf("%w: interval must be at least one day", apperrors.ErrValidation)
	}
	acc, txns, err := s.operationalHistory(ctx, accountID, &to)
	if err != nil {
		return nil, err
	}

	points := make([]domain.BalancePoint, 0)
	balance := acc.StartingBalance
	i := 0
	for day := from; ; day = day.AddDate(0, 0, intervalDays) {
		if day.After(to) {
			day = to
		}
		for i < len(txns) && !txns[i].TransactionDate.After(day) {
			balance = balance.Add(txns[i].EffectOn(accountID))
			i++
		}
		points = append(points, domain.BalancePoint{Date: day, Balance: balance})
		if !day.Before(to) {
			break
		}
	}
	return points, nil
}

func (s *balanceService) operationalHistory(ctx context.Context, accountID string, until *time.Time) (*domain.OperationalAccount, []domain.OperationalTransaction, error) {
	repos := s.store.Repositories()
	acc, err := repos.AccountRepo.FindOperationalAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	txns, err := repos.TransactionRepo.ListPostedTransactionsByAccount(ctx, accountID, until)
	if err != nil {
		return nil, nil, err
	}
	return acc, txns, nil
}

func (s *balanceService) TotalBalance(ctx context.Context, currencyCode string, asOf *time.Time) (*domain.TotalBalance, error) {
	accounts, err := s.store.Repositories().AccountRepo.ListOperationalAccounts(ctx, false)
	if err != nil {
		return nil, err
	}
	total := domain.TotalBalance{CurrencyCode: currencyCode, AsOf: asOf, Amount: decimal.Zero}
	for i := range accounts {
		acc := &accounts[i]
		if acc.CurrencyCode != currencyCode || !acc.Active() {
			continue
		}
		var amount decimal.Decimal
		if asOf != nil {
			day := domain.DateOf(*asOf)
			amount, err = s.compute(ctx, acc, &day)
		} else {
			amount, err = s.current(ctx, acc)
		}
		if err != nil {
			return nil, err
		}
		total.Amount = total.Amount.Add(amount)
		total.AccountCount++
	}
	return &total, nil
}
