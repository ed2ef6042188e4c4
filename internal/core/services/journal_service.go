package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
	"github.com/SscSPs/dual_ledger/internal/utils/accounting"
)

// entryInput is everything needed to post one entry.
type entryInput struct {
	PeriodID            string
	EntryDate           time.Time
	Memo                string
	Postings            []domain.Posting
	ReversalOf          *string
	SourceTransactionID *string
	UserID              string
}

func (in entryInput) isReversal() bool {
	return in.ReversalOf != nil
}

// postedEntry is a committed-to-be entry with the types of the accounts it touched.
type postedEntry struct {
	entry        domain.AccountingEntry
	accountTypes map[string]domain.AccountType
}

// journalService is the journal engine: the only writer of entries and postings.
type journalService struct {
	BaseService
	store    portsrepo.Store
	locker   *AccountLocker
	barrier  *PeriodBarrier
	balances *balanceService
}

// newJournalService creates the journal engine.
func newJournalService(store portsrepo.Store, locker *AccountLocker, barrier *PeriodBarrier, balances *balanceService) *journalService {
	return &journalService{
		store:    store,
		locker:   locker,
		barrier:  barrier,
		balances: balances,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// PostEntry posts a manual entry. It takes the same period admission and account
// locks as a recorded transaction.
func (s *journalService) PostEntry(ctx context.Context, req dto.PostEntryRequest, userID string) (*domain.AccountingEntry, error) {
	in := entryInput{
		PeriodID:  req.PeriodID,
		EntryDate: domain.DateOf(req.EntryDate),
		Memo:      req.Memo,
		Postings:  req.ToDomainPostings(),
		UserID:    userID,
	}
	if err := validateEntryShape(in.Postings); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	release, err := s.barrier.Admit(in.PeriodID)
	if err != nil {
		return nil, err
	}
	defer release()

	unlock, err := s.locker.Lock(ctx, domain.PostingAccountIDs(in.Postings)...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var posted *postedEntry
	err = s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		var err error
		posted, err = s.postInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post entry", slog.String("period_id", in.PeriodID))
		return nil, err
	}

	s.balances.applyEntry(posted)
	entry := &posted.entry
	s.LogInfo(ctx, "Entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("period_id", entry.PeriodID),
		slog.Int("postings", len(entry.Postings)))
	return entry, nil
}

// checkReferences rejects unknown periods and accounts before any barrier or lock
// state is created for them. postInTx checks again under the locks.
func (s *journalService) checkReferences(ctx context.Context, in entryInput) error {
	repos := s.store.Repositories()
	period, err := repos.PeriodRepo.FindPeriodByID(ctx, in.PeriodID)
	if err != nil {
		return err
	}
	if !period.IsOpen() {
		return fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.PeriodID)
	}
	for _, id := range domain.PostingAccountIDs(in.Postings) {
		if _, err := repos.AccountRepo.FindAccountingAccountByID(ctx, id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: accounting account %s", apperrors.ErrNotFound, id)
			}
			return err
		}
	}
	return nil
}

func validateEntryShape(postings []domain.Posting) error {
	if err := accounting.ValidatePostings(postings); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	debits, credits := domain.Totals(postings)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits %s do not equal credits %s",
			apperrors.ErrUnbalancedEntry, debits.String(), credits.String())
	}
	return nil
}

// postInTx validates and persists an entry using repositories bound to the caller's
// store transaction. Callers hold the period admission and the account locks.
func (s *journalService) postInTx(ctx context.Context, repos portsrepo.RepositoryProvider, in entryInput) (*postedEntry, error) {
	if err := validateEntryShape(in.Postings); err != nil {
		return nil, err
	}

	period, err := repos.PeriodRepo.FindPeriodByIDForShare(ctx, in.PeriodID)
	if err != nil {
		return nil, err
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.PeriodID)
	}
	if !period.Contains(in.EntryDate) {
		return nil, fmt.Errorf("%w: entry date %s is outside period %s (%s to %s)", apperrors.ErrValidation,
			in.EntryDate.Format(time.DateOnly), period.PeriodID,
			period.StartDate.Format(time.DateOnly), period.EndDate.Format(time.DateOnly))
	}

	accountIDs := domain.PostingAccountIDs(in.Postings)
	accounts, err := repos.AccountRepo.FindAccountingAccountsForUpdate(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	types := make(map[string]domain.AccountType, len(accountIDs))
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: accounting account %s", apperrors.ErrNotFound, id)
		}
		// Reversals restore prior state and may touch accounts deactivated since.
		if !in.isReversal() && !acc.Active() {
			return nil, fmt.Errorf("%w: accounting account %s (%s)", apperrors.ErrInactiveAccount, id, acc.Code)
		}
		types[id] = acc.AccountType
	}

	now := time.Now().UTC()
	entry := domain.AccountingEntry{
		EntryID:             uuid.NewString(),
		PeriodID:            period.PeriodID,
		EntryDate:           domain.DateOf(in.EntryDate),
		Memo:                in.Memo,
		Status:              domain.EntryPosted,
		ReversalOfEntryID:   in.ReversalOf,
		SourceTransactionID: in.SourceTransactionID,
		Postings:            make([]domain.Posting, len(in.Postings)),
		AuditFields:         domain.NewAuditFields(now, in.UserID),
	}
	for i, p := range in.Postings {
		p.PostingID = uuid.NewString()
		p.EntryID = entry.EntryID
		p.LineNo = i + 1
		entry.Postings[i] = p
	}

	if err := repos.EntryRepo.SaveEntry(ctx, entry); err != nil {
		return nil, err
	}
	return &postedEntry{entry: entry, accountTypes: types}, nil
}

// reverseInTx posts the mirror of an entry dated like the original and marks the original reversed.
func (s *journalService) reverseInTx(ctx context.Context, repos portsrepo.RepositoryProvider, entryID, userID string) (*postedEntry, error) {
	original, err := repos.EntryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status == domain.EntryReversed {
		return nil, fmt.Errorf("%w: entry %s is already reversed", apperrors.ErrValidation, entryID)
	}

	reversal, err := s.postInTx(ctx, repos, entryInput{
		PeriodID:            original.PeriodID,
		EntryDate:           original.EntryDate,
		Memo:                "Reversal of " + original.EntryID,
		Postings:            original.ReversalPostings(),
		ReversalOf:          &original.EntryID,
		SourceTransactionID: original.SourceTransactionID,
		UserID:              userID,
	})
	if err != nil {
		return nil, err
	}

	if err := repos.EntryRepo.UpdateEntryStatus(ctx, original.EntryID, domain.EntryReversed, &reversal.entry.EntryID, userID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return reversal, nil
}

func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.AccountingEntry, error) {
	return s.store.Repositories().EntryRepo.FindEntryByID(ctx, entryID)
}

func (s *journalService) ListEntriesByPeriod(ctx context.Context, periodID string) ([]domain.AccountingEntry, error) {
	if _, err := s.store.Repositories().PeriodRepo.FindPeriodByID(ctx, periodID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: period %s", apperrors.ErrNotFound, periodID)
		}
		return nil, err
	}
	return s.store.Repositories().EntryRepo.ListEntriesByPeriod(ctx, periodID)
}
