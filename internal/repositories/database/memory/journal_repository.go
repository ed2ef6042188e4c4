package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
)

var (
	_ portsrepo.EntryRepositoryFacade  = (*repo)(nil)
	_ portsrepo.PeriodRepositoryFacade = (*repo)(nil)
)

func copyEntry(e domain.AccountingEntry) domain.AccountingEntry {
	postings := make([]domain.Posting, len(e.Postings))
	copy(postings, e.Postings)
	e.Postings = postings
	return e
}

func (r *repo) SaveEntry(ctx context.Context, entry domain.AccountingEntry) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.entries[entry.EntryID]; ok {
			return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		st.entries[entry.EntryID] = copyEntry(entry)
		return nil
	})
}

func (r *repo) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, reversedByEntryID *string, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.NewNotFoundError("entry " + entryID)
		}
		e.Status = status
		e.ReversedByEntryID = reversedByEntryID
		e.Touch(now, userID)
		st.entries[entryID] = e
		return nil
	})
}

func (r *repo) FindEntryByID(ctx context.Context, entryID string) (*domain.AccountingEntry, error) {
	var out *domain.AccountingEntry
	err := r.read(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.NewNotFoundError("entry " + entryID)
		}
		e = copyEntry(e)
		out = &e
		return nil
	})
	return out, err
}

func (r *repo) ListEntriesByPeriod(ctx context.Context, periodID string) ([]domain.AccountingEntry, error) {
	out := make([]domain.AccountingEntry, 0)
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			if e.PeriodID == periodID {
				out = append(out, copyEntry(e))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *repo) ListPostingsByAccount(ctx context.Context, accountID string, asOf *time.Time) ([]domain.Posting, error) {
	out := make([]domain.Posting, 0)
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			if asOf != nil && e.EntryDate.After(domain.DateOf(*asOf)) {
				continue
			}
			for _, p := range e.Postings {
				if p.AccountID == accountID {
					out = append(out, p)
				}
			}
		}
		return nil
	})
	return out, err
}

func (r *repo) CountPostingsByAccount(ctx context.Context, accountID string) (int64, error) {
	var n int64
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			for _, p := range e.Postings {
				if p.AccountID == accountID {
					n++
				}
			}
		}
		return nil
	})
	return n, err
}

func (r *repo) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	return r.write(ctx, func(st *state) error {
		for _, p := range st.periods {
			if p.Overlaps(period.StartDate, period.EndDate) {
				return fmt.Errorf("%w: intersects period %s", apperrors.ErrOverlap, p.PeriodID)
			}
		}
		st.periods[period.PeriodID] = period
		return nil
	})
}

func (r *repo) UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod) error {
	return r.write(ctx, func(st *state) error {
		p, ok := st.periods[period.PeriodID]
		if !ok {
			return apperrors.NewNotFoundError("period " + period.PeriodID)
		}
		p.Status = period.Status
		p.ClosedAt = period.ClosedAt
		p.ClosedBy = period.ClosedBy
		p.LastUpdatedAt = period.LastUpdatedAt
		p.LastUpdatedBy = period.LastUpdatedBy
		st.periods[period.PeriodID] = p
		return nil
	})
}

func (r *repo) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	var out *domain.AccountingPeriod
	err := r.read(func(st *state) error {
		p, ok := st.periods[periodID]
		if !ok {
			return apperrors.NewNotFoundError("period " + periodID)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *repo) FindPeriodByIDForShare(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return r.FindPeriodByID(ctx, periodID)
}

func (r *repo) FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return r.FindPeriodByID(ctx, periodID)
}

func (r *repo) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	var out *domain.AccountingPeriod
	err := r.read(func(st *state) error {
		for _, p := range st.periods {
			if p.Contains(date) {
				p := p
				out = &p
				return nil
			}
		}
		return apperrors.NewNotFoundError("period covering " + date.Format(time.DateOnly))
	})
	return out, err
}

func (r *repo) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	out := make([]domain.AccountingPeriod, 0)
	err := r.read(func(st *state) error {
		for _, p := range st.periods {
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, err
}
