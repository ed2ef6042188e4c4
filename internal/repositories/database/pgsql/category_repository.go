package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dual_ledger/internal/models"
	"github.com/SscSPs/dual_ledger/internal/utils/mapping"
)

type pgxCategoryRepository struct {
	q querier
}

var _ portsrepo.CategoryRepositoryFacade = (*pgxCategoryRepository)(nil)

const categoryColumns = `category_id, parent_id, name, kind, is_system, is_active, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCategory(row rowScanner) (domain.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID,
		&m.ParentID,
		&m.Name,
		&m.Kind,
		&m.IsSystem,
		&m.IsActive,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return mapping.ToDomainCategory(m), err
}

func (r *pgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.q.Exec(ctx, query,
		m.CategoryID, m.ParentID, m.Name, m.Kind, m.IsSystem, m.IsActive, m.IsDeleted,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "failed to save category "+m.Name)
}

func (r *pgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1;`
	c, err := scanCategory(r.q.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category " + categoryID)
		}
		return nil, mapPgError(err, "failed to find category "+categoryID)
	}
	return &c, nil
}

func (r *pgxCategoryRepository) FindCategoryByName(ctx context.Context, kind domain.CategoryKind, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE kind = $1 AND name = $2;`
	c, err := scanCategory(r.q.QueryRow(ctx, query, string(kind), name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s category %q", kind, name))
		}
		return nil, mapPgError(err, "failed to find category "+name)
	}
	return &c, nil
}

func (r *pgxCategoryRepository) ListCategories(ctx context.Context, kind *domain.CategoryKind) ([]domain.Category, error) {
	var kindArg *string
	if kind != nil {
		k := string(*kind)
		kindArg = &k
	}
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE ($1::text IS NULL OR kind = $1)
		ORDER BY kind, name;
	`
	rows, err := r.q.Query(ctx, query, kindArg)
	if err != nil {
		return nil, mapPgError(err, "failed to list categories")
	}
	defer rows.Close()

	out := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan category")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate categories")
	}
	return out, nil
}

// UpdateCategory persists name, parent and the activity flags.
func (r *pgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		UPDATE categories
		SET name = $2, parent_id = $3, is_active = $4, is_deleted = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE category_id = $1;
	`
	ct, err := r.q.Exec(ctx, query,
		m.CategoryID, m.Name, m.ParentID, m.IsActive, m.IsDeleted,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update category "+m.CategoryID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + m.CategoryID)
	}
	return nil
}
