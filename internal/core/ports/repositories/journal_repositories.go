package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
)

// EntryReader defines read operations for accounting entries
type EntryReader interface {
	// FindEntryByID retrieves an entry with its postings in line order.
	FindEntryByID(ctx context.Context, entryID string) (*domain.AccountingEntry, error)

	// ListEntriesByPeriod lists a period's entries with postings, ordered by date then creation.
	ListEntriesByPeriod(ctx context.Context, periodID string) ([]domain.AccountingEntry, error)

	// ListPostingsByAccount returns all postings on the account from entries dated up to asOf
	// (inclusive, nil for all).
	ListPostingsByAccount(ctx context.Context, accountID string, asOf *time.Time) ([]domain.Posting, error)

	// CountPostingsByAccount is the accounting account's activity version.
	CountPostingsByAccount(ctx context.Context, accountID string) (int64, error)
}

// EntryWriter defines write operations for accounting entries
type EntryWriter interface {
	// SaveEntry persists the entry header and its postings together.
	SaveEntry(ctx context.Context, entry domain.AccountingEntry) error

	// UpdateEntryStatus updates the status and reversal link of an entry.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, reversedByEntryID *string, userID string, now time.Time) error
}

// EntryRepositoryFacade combines all entry repository interfaces
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// PeriodReader defines read operations for accounting periods
type PeriodReader interface {
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodByDate returns the period containing the day, or a not-found error.
	FindPeriodByDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods lists all periods ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods
type PeriodWriter interface {
	// SavePeriod persists a new period. Intersecting an existing period fails with apperrors.ErrOverlap.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriodStatus persists the status and closing stamp.
	UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod) error

	// FindPeriodByIDForShare loads a period and holds a shared lock on it until the transaction ends,
	// so a concurrent close waits for posting transactions.
	FindPeriodByIDForShare(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodByIDForUpdate loads a period and locks it exclusively.
	FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
}

// PeriodRepositoryFacade combines all period repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
