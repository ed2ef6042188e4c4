package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dual_ledger/internal/models"
	"github.com/SscSPs/dual_ledger/internal/utils/mapping"
)

type pgxPeriodRepository struct {
	q querier
}

var _ portsrepo.PeriodRepositoryFacade = (*pgxPeriodRepository)(nil)

const periodColumns = `period_id, name, start_date, end_date, status, closed_at, closed_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row rowScanner) (domain.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return mapping.ToDomainPeriod(m), err
}

// SavePeriod inserts a period. The exclusion constraint on the date range reports overlaps.
func (r *pgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.q.Exec(ctx, query,
		m.PeriodID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.ClosedAt,
		m.ClosedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapPgError(err, "failed to save period "+m.Name)
}

func (r *pgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		UPDATE accounting_periods
		SET status = $2, closed_at = $3, closed_by = $4, last_updated_at = $5, last_updated_by = $6
		WHERE period_id = $1;
	`
	ct, err := r.q.Exec(ctx, query, m.PeriodID, m.Status, m.ClosedAt, m.ClosedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "failed to update period "+m.PeriodID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("period " + m.PeriodID)
	}
	return nil
}

func (r *pgxPeriodRepository) findOne(ctx context.Context, query string, arg any, what string) (*domain.AccountingPeriod, error) {
	p, err := scanPeriod(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(what)
		}
		return nil, mapPgError(err, "failed to find "+what)
	}
	return &p, nil
}

func (r *pgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM accounting_periods WHERE period_id = $1;`,
		periodID, "period "+periodID)
}

func (r *pgxPeriodRepository) FindPeriodByIDForShare(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM accounting_periods WHERE period_id = $1 FOR SHARE;`,
		periodID, "period "+periodID)
}

func (r *pgxPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM accounting_periods WHERE period_id = $1 FOR UPDATE;`,
		periodID, "period "+periodID)
}

func (r *pgxPeriodRepository) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	day := domain.DateOf(date)
	return r.findOne(ctx,
		`SELECT `+periodColumns+` FROM accounting_periods WHERE start_date <= $1 AND end_date >= $1;`,
		day, "period covering "+day.Format(time.DateOnly))
}

func (r *pgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	rows, err := r.q.Query(ctx, `SELECT `+periodColumns+` FROM accounting_periods ORDER BY start_date;`)
	if err != nil {
		return nil, mapPgError(err, "failed to list periods")
	}
	defer rows.Close()

	out := make([]domain.AccountingPeriod, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan period")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate periods")
	}
	return out, nil
}
