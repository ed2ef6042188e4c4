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

// periodService is the period manager; it is the only writer of period status.
type periodService struct {
	BaseService
	store     portsrepo.Store
	barrier   *PeriodBarrier
	closeWait time.Duration
	policy    portssvc.ReconciliationPolicy
}

func newPeriodService(store portsrepo.Store, barrier *PeriodBarrier, closeWait time.Duration, policy portssvc.ReconciliationPolicy) *periodService {
	if closeWait <= 0 {
		closeWait = DefaultCloseWait
	}
	return &periodService{store: store, barrier: barrier, closeWait: closeWait, policy: policy}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) OpenPeriod(ctx context.Context, req dto.OpenPeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	start, end := domain.DateOf(req.StartDate), domain.DateOf(req.EndDate)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s", apperrors.ErrValidation,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = start.Format(time.DateOnly) + ".." + end.Format(time.DateOnly)
	}
	period := domain.AccountingPeriod{
		PeriodID:    uuid.NewString(),
		Name:        name,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(time.Now().UTC(), userID),
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		existing, err := repos.PeriodRepo.ListPeriods(ctx)
		if err != nil {
			return err
		}
		for _, p := range existing {
			if p.Overlaps(start, end) {
				return fmt.Errorf("%w: %s to %s intersects period %s (%s to %s)", apperrors.ErrOverlap,
					start.Format(time.DateOnly), end.Format(time.DateOnly), p.PeriodID,
					p.StartDate.Format(time.DateOnly), p.EndDate.Format(time.DateOnly))
			}
		}
		return repos.PeriodRepo.SavePeriod(ctx, period)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to open period",
			slog.String("start_date", start.Format(time.DateOnly)),
			slog.String("end_date", end.Format(time.DateOnly)))
		return nil, err
	}

	s.LogInfo(ctx, "Period opened", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// ClosePeriod drains in-flight postings through the barrier, consults the
// reconciliation policy and then persists the closed status.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.AccountingPeriod, error) {
	period, err := s.store.Repositories().PeriodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: period %s is already closed", apperrors.ErrPeriodClosed, periodID)
	}

	if err := s.barrier.BeginClose(ctx, periodID, s.closeWait); err != nil {
		s.LogError(ctx, err, "Failed to drain period before close", slog.String("period_id", periodID))
		return nil, err
	}
	closed := false
	defer func() { s.barrier.EndClose(periodID, closed) }()

	if s.policy != nil {
		entries, err := s.store.Repositories().EntryRepo.ListEntriesByPeriod(ctx, periodID)
		if err != nil {
			return nil, err
		}
		if err := s.policy.Reconcile(ctx, *period, entries); err != nil {
			err = fmt.Errorf("%w: period %s failed reconciliation: %v", apperrors.ErrConflict, periodID, err)
			s.LogError(ctx, err, "Period close refused")
			return nil, err
		}
	}

	var result domain.AccountingPeriod
	err = s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		p, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, periodID)
		if err != nil {
			return err
		}
		if !p.IsOpen() {
			return fmt.Errorf("%w: period %s is already closed", apperrors.ErrPeriodClosed, periodID)
		}
		now := time.Now().UTC()
		p.Status = domain.PeriodClosed
		p.ClosedAt = &now
		p.ClosedBy = &userID
		p.Touch(now, userID)
		if err := repos.PeriodRepo.UpdatePeriodStatus(ctx, *p); err != nil {
			return err
		}
		result = *p
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close period", slog.String("period_id", periodID))
		return nil, err
	}
	closed = true

	s.LogInfo(ctx, "Period closed", slog.String("period_id", periodID))
	return &result, nil
}

func (s *periodService) GetPeriod(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return s.store.Repositories().PeriodRepo.FindPeriodByID(ctx, periodID)
}

func (s *periodService) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	return s.store.Repositories().PeriodRepo.ListPeriods(ctx)
}

func (s *periodService) FindPeriodFor(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	p, err := s.store.Repositories().PeriodRepo.FindPeriodByDate(ctx, domain.DateOf(date))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no accounting period covers %s", apperrors.ErrNotFound, date.Format(time.DateOnly))
		}
		return nil, err
	}
	return p, nil
}

// BalancedEntriesPolicy refuses to close a period holding an unbalanced entry.
type BalancedEntriesPolicy struct{}

func (BalancedEntriesPolicy) Reconcile(_ context.Context, _ domain.AccountingPeriod, entries []domain.AccountingEntry) error {
	for _, e := range entries {
		if !e.IsBalanced() {
			return fmt.Errorf("entry %s is unbalanced", e.EntryID)
		}
	}
	return nil
}
