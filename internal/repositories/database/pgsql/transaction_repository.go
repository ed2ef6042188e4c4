package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dual_ledger/internal/models"
	"github.com/SscSPs/dual_ledger/internal/utils/mapping"
	"github.com/SscSPs/dual_ledger/internal/utils/pagination"
)

type pgxTransactionRepository struct {
	q querier
}

var _ portsrepo.TransactionRepositoryFacade = (*pgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, transaction_number, transaction_type, status,
	source_account_id, target_account_id, amount, currency_code, category_id,
	transaction_date, description, entry_id, void_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row rowScanner) (domain.OperationalTransaction, error) {
	var m models.OperationalTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionNumber,
		&m.TransactionType,
		&m.Status,
		&m.SourceAccountID,
		&m.TargetAccountID,
		&m.Amount,
		&m.CurrencyCode,
		&m.CategoryID,
		&m.TransactionDate,
		&m.Description,
		&m.EntryID,
		&m.VoidEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return mapping.ToDomainTransaction(m), err
}

func collectTransactions(rows pgx.Rows) ([]domain.OperationalTransaction, error) {
	defer rows.Close()
	out := make([]domain.OperationalTransaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan transaction")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate transactions")
	}
	return out, nil
}

func (r *pgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.OperationalTransaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO operational_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.q.Exec(ctx, query,
		m.TransactionID,
		m.TransactionNumber,
		m.TransactionType,
		m.Status,
		m.SourceAccountID,
		m.TargetAccountID,
		m.Amount,
		m.CurrencyCode,
		m.CategoryID,
		m.TransactionDate,
		m.Description,
		m.EntryID,
		m.VoidEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapPgError(err, "failed to save transaction "+m.TransactionNumber)
}

func (r *pgxTransactionRepository) UpdateTransactionState(ctx context.Context, txn domain.OperationalTransaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE operational_transactions
		SET status = $2, entry_id = $3, void_entry_id = $4, category_id = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1;
	`
	ct, err := r.q.Exec(ctx, query,
		m.TransactionID, m.Status, m.EntryID, m.VoidEntryID, m.CategoryID, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update transaction "+m.TransactionID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + m.TransactionID)
	}
	return nil
}

func (r *pgxTransactionRepository) findOne(ctx context.Context, query, transactionID string) (*domain.OperationalTransaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID)
		}
		return nil, mapPgError(err, "failed to find transaction "+transactionID)
	}
	return &t, nil
}

func (r *pgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error) {
	return r.findOne(ctx,
		`SELECT `+transactionColumns+` FROM operational_transactions WHERE transaction_id = $1;`,
		transactionID)
}

func (r *pgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error) {
	return r.findOne(ctx,
		`SELECT `+transactionColumns+` FROM operational_transactions WHERE transaction_id = $1 FOR UPDATE;`,
		transactionID)
}

// NextTransactionSequence bumps the per-day counter. The upsert holds the row lock until commit,
// so concurrent recorders on the same day get distinct numbers.
func (r *pgxTransactionRepository) NextTransactionSequence(ctx context.Context, day time.Time) (int, error) {
	query := `
		INSERT INTO transaction_sequences (day, last_value)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_value = transaction_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int
	if err := r.q.QueryRow(ctx, query, domain.DateOf(day)).Scan(&seq); err != nil {
		return 0, mapPgError(err, "failed to allocate transaction number")
	}
	return seq, nil
}

// ListTransactionsByAccount implements keyset pagination over (transaction_date, created_at, transaction_id).
func (r *pgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, filter portsrepo.TransactionFilter) ([]domain.OperationalTransaction, *string, error) {
	args := []any{accountID}
	query := `
		SELECT ` + transactionColumns + `
		FROM operational_transactions
		WHERE (source_account_id = $1 OR target_account_id = $1)`

	if filter.From != nil {
		args = append(args, domain.DateOf(*filter.From))
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, domain.DateOf(*filter.To))
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
		n := len(args)
		query += fmt.Sprintf(" AND (transaction_date, created_at, transaction_id) < ($%d, $%d, $%d)", n-2, n-1, n)
	}
	query += " ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC"
	if filter.Limit > 0 {
		// one extra row tells us whether another page exists
		args = append(args, filter.Limit+1)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to list transactions for account "+accountID)
	}
	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if filter.Limit > 0 && len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

func (r *pgxTransactionRepository) ListPostedTransactionsByAccount(ctx context.Context, accountID string, asOf *time.Time) ([]domain.OperationalTransaction, error) {
	var asOfArg *time.Time
	if asOf != nil {
		d := domain.DateOf(*asOf)
		asOfArg = &d
	}
	query := `
		SELECT ` + transactionColumns + `
		FROM operational_transactions
		WHERE (source_account_id = $1 OR target_account_id = $1)
			AND status = $2
			AND ($3::date IS NULL OR transaction_date <= $3)
		ORDER BY transaction_date, created_at;
	`
	rows, err := r.q.Query(ctx, query, accountID, string(domain.Posted), asOfArg)
	if err != nil {
		return nil, mapPgError(err, "failed to list posted transactions for account "+accountID)
	}
	return collectTransactions(rows)
}

func (r *pgxTransactionRepository) CountPendingByAccount(ctx context.Context, accountID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM operational_transactions
		WHERE (source_account_id = $1 OR target_account_id = $1) AND status = $2;
	`
	var n int
	if err := r.q.QueryRow(ctx, query, accountID, string(domain.Pending)).Scan(&n); err != nil {
		return 0, mapPgError(err, "failed to count pending transactions for account "+accountID)
	}
	return n, nil
}

func (r *pgxTransactionRepository) CountTransactionsByAccount(ctx context.Context, accountID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM operational_transactions
		WHERE source_account_id = $1 OR target_account_id = $1;
	`
	var n int
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&n); err != nil {
		return 0, mapPgError(err, "failed to count transactions for account "+accountID)
	}
	return n, nil
}

func (r *pgxTransactionRepository) CountTransactionsByCategory(ctx context.Context, categoryID string) (int, error) {
	query := `SELECT COUNT(*) FROM operational_transactions WHERE category_id = $1;`
	var n int
	if err := r.q.QueryRow(ctx, query, categoryID).Scan(&n); err != nil {
		return 0, mapPgError(err, "failed to count transactions for category "+categoryID)
	}
	return n, nil
}

func (r *pgxTransactionRepository) OperationalActivityVersion(ctx context.Context, accountID string) (int64, error) {
	query := `
		SELECT COUNT(entry_id) + COUNT(void_entry_id)
		FROM operational_transactions
		WHERE source_account_id = $1 OR target_account_id = $1;
	`
	var v int64
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&v); err != nil {
		return 0, mapPgError(err, "failed to read activity version for account "+accountID)
	}
	return v, nil
}
