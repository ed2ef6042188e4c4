package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// works inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Store is the Postgres implementation of portsrepo.Store.
type Store struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLockTimeout makes every transaction give up waiting on row locks after d.
func WithLockTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// NewStore creates a store on top of a connection pool.
func NewStore(pool *pgxpool.Pool, opts ...StoreOption) *Store {
	s := &Store{pool: pool}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portsrepo.Store = (*Store)(nil)

// Repositories returns repositories that run each statement on its own.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return newRepositoryProvider(s.pool)
}

// WithTx runs fn in a pgx transaction and commits when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer rollback(ctx, tx) // no-op once committed

	if s.lockTimeout > 0 {
		// SET does not take bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return mapPgError(err, "failed to set lock timeout")
		}
	}

	if err := fn(ctx, newRepositoryProvider(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "failed to commit transaction")
	}
	return nil
}

// rollback rolls back a transaction that was not committed.
func rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

func newRepositoryProvider(q querier) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     &pgxAccountRepository{q: q},
		CategoryRepo:    &pgxCategoryRepository{q: q},
		TransactionRepo: &pgxTransactionRepository{q: q},
		EntryRepo:       &pgxEntryRepository{q: q},
		PeriodRepo:      &pgxPeriodRepository{q: q},
	}
}

// Postgres SQLSTATE codes the ledger maps to its own error kinds.
const (
	codeUniqueViolation    = "23505"
	codeForeignKey         = "23503"
	codeCheckViolation     = "23514"
	codeExclusionViolation = "23P01"
	codeLockNotAvailable   = "55P03"
	codeSerialization      = "40001"
	codeDeadlock           = "40P01"
)

// mapPgError converts driver errors into apperrors kinds. Unknown failures are
// wrapped in an AppError.
func mapPgError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, msg, pgErr.ConstraintName)
		case codeExclusionViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrOverlap, msg)
		case codeForeignKey:
			return fmt.Errorf("%w: %s references a missing row (%s)", apperrors.ErrNotFound, msg, pgErr.ConstraintName)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrValidation, msg, pgErr.ConstraintName)
		case codeLockNotAvailable, codeSerialization, codeDeadlock:
			return fmt.Errorf("%w: %s", apperrors.ErrContention, msg)
		}
	}
	return apperrors.NewAppError(500, msg, err)
}
