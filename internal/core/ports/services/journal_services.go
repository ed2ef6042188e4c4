package services

import (
	"context"
	"time"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for accounting entries
type JournalReaderSvc interface {
	GetEntry(ctx context.Context, entryID string) (*domain.AccountingEntry, error)
	ListEntriesByPeriod(ctx context.Context, periodID string) ([]domain.AccountingEntry, error)
}

// JournalWriterSvc defines write operations for accounting entries
type JournalWriterSvc interface {
	// PostEntry validates and persists a balanced entry into an open period.
	PostEntry(ctx context.Context, req dto.PostEntryRequest, userID string) (*domain.AccountingEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}

// PeriodSvcFacade manages accounting periods.
type PeriodSvcFacade interface {
	OpenPeriod(ctx context.Context, req dto.OpenPeriodRequest, userID string) (*domain.AccountingPeriod, error)

	// ClosePeriod closes an open period. Closing is terminal.
	ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.AccountingPeriod, error)

	GetPeriod(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)

	// FindPeriodFor returns the period containing date.
	FindPeriodFor(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)
}

// ReconciliationPolicy is consulted before a period is closed. A non-nil error refuses the close.
type ReconciliationPolicy interface {
	Reconcile(ctx context.Context, period domain.AccountingPeriod, entries []domain.AccountingEntry) error
}
