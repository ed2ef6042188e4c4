package services

import (
	"time"

	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
)

// Options tunes the ledger core.
type Options struct {
	// LockWait bounds waiting for per-account locks.
	LockWait time.Duration
	// CloseWait bounds waiting for in-flight postings when a period closes.
	CloseWait time.Duration
	// Policy is consulted before closing a period; nil closes structurally.
	Policy portssvc.ReconciliationPolicy
}

// ServiceOption is a functional option for configuring the service container
type ServiceOption func(*Options)

// WithLockWait sets the per-account lock wait.
func WithLockWait(d time.Duration) ServiceOption {
	return func(o *Options) {
		o.LockWait = d
	}
}

// WithCloseWait sets the period close drain wait.
func WithCloseWait(d time.Duration) ServiceOption {
	return func(o *Options) {
		o.CloseWait = d
	}
}

// WithReconciliationPolicy installs a policy consulted before every period close.
func WithReconciliationPolicy(p portssvc.ReconciliationPolicy) ServiceOption {
	return func(o *Options) {
		o.Policy = p
	}
}

// NewServiceContainer wires the ledger services around one store. The account
// locker and period barrier are shared so every writer serializes on them.
func NewServiceContainer(store portsrepo.Store, options ...ServiceOption) *portssvc.ServiceContainer {
	opts := Options{LockWait: DefaultLockWait, CloseWait: DefaultCloseWait}
	for _, option := range options {
		option(&opts)
	}

	locker := NewAccountLocker(opts.LockWait)
	barrier := NewPeriodBarrier()

	accounts := newAccountService(store, locker)
	balances := newBalanceService(store, locker, accounts)
	accounts.balanceChanged = balances.cache.invalidate
	periods := newPeriodService(store, barrier, opts.CloseWait, opts.Policy)
	journal := newJournalService(store, locker, barrier, balances)

	return &portssvc.ServiceContainer{
		Account:     accounts,
		Category:    NewCategoryService(store),
		Transaction: newTransactionService(store, locker, barrier, journal, periods, balances),
		Journal:     journal,
		Period:      periods,
		Balance:     balances,
	}
}
