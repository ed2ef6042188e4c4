package services

import (
	"context"
	"time"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
)

// BalanceSvcFacade computes account balances.
type BalanceSvcFacade interface {
	// BalanceOf returns the signed balance of any account, up to asOf when given.
	BalanceOf(ctx context.Context, accountID string, asOf *time.Time) (*domain.Balance, error)

	// AccountSummary aggregates an operational account's activity in [from, to].
	AccountSummary(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountSummary, error)

	// BalanceHistory samples an operational account's balance every intervalDays in [from, to].
	BalanceHistory(ctx context.Context, accountID string, from, to time.Time, intervalDays int) ([]domain.BalancePoint, error)

	// TotalBalance sums active operational accounts in one currency.
	TotalBalance(ctx context.Context, currencyCode string, asOf *time.Time) (*domain.TotalBalance, error)
}
