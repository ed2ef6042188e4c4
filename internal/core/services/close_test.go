package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/dto"
	"github.com/SscSPs/dual_ledger/internal/repositories/database/memory"
)

func gateState(b *PeriodBarrier, periodID string) (inflight int, closing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if g, ok := b.gates[periodID]; ok {
		return g.inflight, g.closing
	}
	return 0, false
}

func TestClosePeriod_DrainsAdmittedRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	locker := NewAccountLocker(5 * time.Second)
	barrier := NewPeriodBarrier()
	accounts := NewAccountService(store, locker)
	balances := newBalanceService(store, locker, accounts)
	periods := newPeriodService(store, barrier, 5*time.Second, nil)
	journal := newJournalService(store, locker, barrier, balances)
	transactions := newTransactionService(store, locker, barrier, journal, periods, balances)

	bank, err := accounts.CreateAccountingAccount(ctx, dto.CreateAccountingAccountRequest{Code: "1010", Name: "Bank", AccountType: domain.Asset}, "user-1")
	require.NoError(t, err)
	revenue, err := accounts.CreateAccountingAccount(ctx, dto.CreateAccountingAccountRequest{Code: "4000", Name: "Revenue", AccountType: domain.Revenue}, "user-1")
	require.NoError(t, err)
	checking, err := accounts.CreateOperationalAccount(ctx, dto.CreateOperationalAccountRequest{
		Name: "Checking", AccountType: domain.Bank, CurrencyCode: "USD",
	}, "user-1")
	require.NoError(t, err)
	march, err := periods.OpenPeriod(ctx, dto.OpenPeriodRequest{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}, "user-1")
	require.NoError(t, err)

	mapping := domain.AccountMapping{
		OperationalAccounts: map[string]string{checking.AccountID: bank.AccountID},
		IncomeAccountID:     revenue.AccountID,
	}
	income := func(amount int64) (*domain.OperationalTransaction, error) {
		return transactions.RecordTransaction(ctx, dto.RecordTransactionRequest{
			Type:            domain.Income,
			TargetAccountID: &checking.AccountID,
			Amount:          decimal.NewFromInt(amount),
			CurrencyCode:    "USD",
			TransactionDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		}, mapping, "user-1")
	}

	unlock, err := locker.Lock(ctx, checking.AccountID)
	require.NoError(t, err)

	var g errgroup.Group
	var first *domain.OperationalTransaction
	g.Go(func() error {
		var err error
		first, err = income(100)
		return err
	})
	require.Eventually(t, func() bool {
		inflight, _ := gateState(barrier, march.PeriodID)
		return inflight == 1
	}, 2*time.Second, 5*time.Millisecond, "record is admitted and waiting on the account lock")

	var closed *domain.AccountingPeriod
	g.Go(func() error {
		var err error
		closed, err = periods.ClosePeriod(ctx, march.PeriodID, "user-1")
		return err
	})
	require.Eventually(t, func() bool {
		_, closing := gateState(barrier, march.PeriodID)
		return closing
	}, 2*time.Second, 5*time.Millisecond)

	_, err = income(7)
	assert.ErrorIs(t, err, apperrors.ErrPeriodClosed, "no admissions while the close drains")

	unlock()
	require.NoError(t, g.Wait())

	require.NotNil(t, first)
	assert.Equal(t, domain.Posted, first.Status)
	require.NotNil(t, closed)
	assert.Equal(t, domain.PeriodClosed, closed.Status)

	entries, err := journal.ListEntriesByPeriod(ctx, march.PeriodID)
	require.NoError(t, err)
	require.Len(t, entries, 1, "the admitted record landed before the close")
	require.NotNil(t, entries[0].SourceTransactionID)
	assert.Equal(t, first.TransactionID, *entries[0].SourceTransactionID)

	_, err = income(5)
	assert.ErrorIs(t, err, apperrors.ErrPeriodClosed)

	bal, err := balances.BalanceOf(ctx, checking.AccountID, nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(bal.Amount))
}
