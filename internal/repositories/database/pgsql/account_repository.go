package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dual_ledger/internal/models"
	"github.com/SscSPs/dual_ledger/internal/utils/mapping"
)

type pgxAccountRepository struct {
	q querier
}

var _ portsrepo.AccountRepositoryFacade = (*pgxAccountRepository)(nil)

const operationalColumns = `account_id, name, account_type, currency_code, starting_balance, is_active, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

const accountingColumns = `account_id, code, name, account_type, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanOperational(row rowScanner) (domain.OperationalAccount, error) {
	var m models.OperationalAccount
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.StartingBalance,
		&m.IsActive,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return mapping.ToDomainOperationalAccount(m), err
}

func scanAccounting(row rowScanner) (domain.AccountingAccount, error) {
	var m models.AccountingAccount
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return mapping.ToDomainAccountingAccount(m), err
}

// SaveOperationalAccount inserts a new operational account.
func (r *pgxAccountRepository) SaveOperationalAccount(ctx context.Context, account domain.OperationalAccount) error {
	m := mapping.ToModelOperationalAccount(account)
	query := `
		INSERT INTO operational_accounts (` + operationalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.q.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.AccountType,
		m.CurrencyCode,
		m.StartingBalance,
		m.IsActive,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapPgError(err, "failed to save operational account "+m.AccountID)
}

// SaveAccountingAccount inserts a chart-of-accounts entry. Codes are unique.
func (r *pgxAccountRepository) SaveAccountingAccount(ctx context.Context, account domain.AccountingAccount) error {
	m := mapping.ToModelAccountingAccount(account)
	query := `
		INSERT INTO accounting_accounts (` + accountingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.q.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapPgError(err, "failed to save accounting account "+m.Code)
}

func (r *pgxAccountRepository) FindOperationalAccountByID(ctx context.Context, accountID string) (*domain.OperationalAccount, error) {
	query := `SELECT ` + operationalColumns + ` FROM operational_accounts WHERE account_id = $1;`
	acc, err := scanOperational(r.q.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("operational account " + accountID)
		}
		return nil, mapPgError(err, "failed to find operational account "+accountID)
	}
	return &acc, nil
}

func (r *pgxAccountRepository) FindAccountingAccountByID(ctx context.Context, accountID string) (*domain.AccountingAccount, error) {
	query := `SELECT ` + accountingColumns + ` FROM accounting_accounts WHERE account_id = $1;`
	acc, err := scanAccounting(r.q.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("accounting account " + accountID)
		}
		return nil, mapPgError(err, "failed to find accounting account "+accountID)
	}
	return &acc, nil
}

func (r *pgxAccountRepository) FindAccountingAccountByCode(ctx context.Context, code string) (*domain.AccountingAccount, error) {
	query := `SELECT ` + accountingColumns + ` FROM accounting_accounts WHERE code = $1;`
	acc, err := scanAccounting(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("accounting account with code " + code)
		}
		return nil, mapPgError(err, "failed to find accounting account "+code)
	}
	return &acc, nil
}

func (r *pgxAccountRepository) ListOperationalAccounts(ctx context.Context, includeInactive bool) ([]domain.OperationalAccount, error) {
	query := `
		SELECT ` + operationalColumns + `
		FROM operational_accounts
		WHERE NOT is_deleted AND (is_active OR $1)
		ORDER BY name, account_id;
	`
	rows, err := r.q.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, mapPgError(err, "failed to list operational accounts")
	}
	defer rows.Close()

	accounts := make([]domain.OperationalAccount, 0)
	for rows.Next() {
		acc, err := scanOperational(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan operational account")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate operational accounts")
	}
	return accounts, nil
}

func (r *pgxAccountRepository) ListAccountingAccounts(ctx context.Context) ([]domain.AccountingAccount, error) {
	query := `SELECT ` + accountingColumns + ` FROM accounting_accounts ORDER BY code;`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err, "failed to list accounting accounts")
	}
	defer rows.Close()

	accounts := make([]domain.AccountingAccount, 0)
	for rows.Next() {
		acc, err := scanAccounting(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan accounting account")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate accounting accounts")
	}
	return accounts, nil
}

func (r *pgxAccountRepository) UpdateOperationalAccountState(ctx context.Context, accountID string, isActive, isDeleted bool, userID string, now time.Time) error {
	query := `
		UPDATE operational_accounts
		SET is_active = $2, is_deleted = $3, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1;
	`
	ct, err := r.q.Exec(ctx, query, accountID, isActive, isDeleted, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update operational account "+accountID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("operational account " + accountID)
	}
	return nil
}

func (r *pgxAccountRepository) UpdateAccountingAccountState(ctx context.Context, accountID string, isActive bool, userID string, now time.Time) error {
	query := `
		UPDATE accounting_accounts
		SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	ct, err := r.q.Exec(ctx, query, accountID, isActive, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update accounting account "+accountID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("accounting account " + accountID)
	}
	return nil
}

func (r *pgxAccountRepository) UpdateOperationalAccountDetails(ctx context.Context, accountID, name string, startingBalance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE operational_accounts
		SET name = $2, starting_balance = $3, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1;
	`
	ct, err := r.q.Exec(ctx, query, accountID, name, startingBalance, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update operational account "+accountID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("operational account " + accountID)
	}
	return nil
}

func (r *pgxAccountRepository) UpdateAccountingAccountName(ctx context.Context, accountID, name string, userID string, now time.Time) error {
	query := `
		UPDATE accounting_accounts
		SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	ct, err := r.q.Exec(ctx, query, accountID, name, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update accounting account "+accountID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("accounting account " + accountID)
	}
	return nil
}

// FindOperationalAccountsForUpdate selects accounts and locks them for update within a transaction.
// Rows are locked in id order.
func (r *pgxAccountRepository) FindOperationalAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.OperationalAccount, error) {
	out := make(map[string]domain.OperationalAccount, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT ` + operationalColumns + `
		FROM operational_accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := r.q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to lock operational accounts")
	}
	defer rows.Close()
	for rows.Next() {
		acc, err := scanOperational(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan operational account")
		}
		out[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to lock operational accounts")
	}
	return out, nil
}

// FindAccountingAccountsForUpdate selects accounts and locks them for update within a transaction.
func (r *pgxAccountRepository) FindAccountingAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.AccountingAccount, error) {
	out := make(map[string]domain.AccountingAccount, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT ` + accountingColumns + `
		FROM accounting_accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := r.q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to lock accounting accounts")
	}
	defer rows.Close()
	for rows.Next() {
		acc, err := scanAccounting(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan accounting account")
		}
		out[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to lock accounting accounts")
	}
	return out, nil
}
