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
)

type pgxEntryRepository struct {
	q querier
}

var _ portsrepo.EntryRepositoryFacade = (*pgxEntryRepository)(nil)

const entryColumns = `entry_id, period_id, entry_date, memo, status,
	reversal_of_entry_id, reversed_by_entry_id, source_transaction_id,
	created_at, created_by, last_updated_at, last_updated_by`

const postingColumns = `posting_id, entry_id, line_no, account_id, side, amount`

func scanEntry(row rowScanner) (models.AccountingEntry, error) {
	var m models.AccountingEntry
	err := row.Scan(
		&m.EntryID,
		&m.PeriodID,
		&m.EntryDate,
		&m.Memo,
		&m.Status,
		&m.ReversalOfEntryID,
		&m.ReversedByEntryID,
		&m.SourceTransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanPosting(row rowScanner) (models.Posting, error) {
	var m models.Posting
	err := row.Scan(&m.PostingID, &m.EntryID, &m.LineNo, &m.AccountID, &m.Side, &m.Amount)
	return m, err
}

// SaveEntry inserts the entry header, then its postings in one batch.
func (r *pgxEntryRepository) SaveEntry(ctx context.Context, entry domain.AccountingEntry) error {
	header, postings := mapping.ToModelEntry(entry)

	entryQuery := `
		INSERT INTO accounting_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.q.Exec(ctx, entryQuery,
		header.EntryID,
		header.PeriodID,
		header.EntryDate,
		header.Memo,
		header.Status,
		header.ReversalOfEntryID,
		header.ReversedByEntryID,
		header.SourceTransactionID,
		header.CreatedAt,
		header.CreatedBy,
		header.LastUpdatedAt,
		header.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save entry "+header.EntryID)
	}

	postingQuery := `
		INSERT INTO postings (` + postingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, p := range postings {
		batch.Queue(postingQuery, p.PostingID, p.EntryID, p.LineNo, p.AccountID, p.Side, p.Amount)
	}

	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < len(postings); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapPgError(err, fmt.Sprintf("failed to save posting %d of entry %s", postings[i].LineNo, header.EntryID))
		}
	}
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to close posting batch for entry "+header.EntryID)
	}
	return nil
}

func (r *pgxEntryRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, reversedByEntryID *string, userID string, now time.Time) error {
	query := `
		UPDATE accounting_entries
		SET status = $2, reversed_by_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1;
	`
	ct, err := r.q.Exec(ctx, query, entryID, string(status), reversedByEntryID, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update entry "+entryID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entryID)
	}
	return nil
}

func (r *pgxEntryRepository) postingsFor(ctx context.Context, entryIDs []string) (map[string][]models.Posting, error) {
	out := make(map[string][]models.Posting, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT ` + postingColumns + `
		FROM postings
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_no;
	`
	rows, err := r.q.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to load postings")
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan posting")
		}
		out[p.EntryID] = append(out[p.EntryID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate postings")
	}
	return out, nil
}

func (r *pgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.AccountingEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM accounting_entries WHERE entry_id = $1;`
	header, err := scanEntry(r.q.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("entry " + entryID)
		}
		return nil, mapPgError(err, "failed to find entry "+entryID)
	}
	postings, err := r.postingsFor(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainEntry(header, postings[entryID])
	return &entry, nil
}

func (r *pgxEntryRepository) ListEntriesByPeriod(ctx context.Context, periodID string) ([]domain.AccountingEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounting_entries
		WHERE period_id = $1
		ORDER BY entry_date, created_at;
	`
	rows, err := r.q.Query(ctx, query, periodID)
	if err != nil {
		return nil, mapPgError(err, "failed to list entries for period "+periodID)
	}
	headers := make([]models.AccountingEntry, 0)
	for rows.Next() {
		h, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, mapPgError(err, "failed to scan entry")
		}
		headers = append(headers, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate entries")
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	postings, err := r.postingsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.AccountingEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainEntry(h, postings[h.EntryID])
	}
	return entries, nil
}

func (r *pgxEntryRepository) ListPostingsByAccount(ctx context.Context, accountID string, asOf *time.Time) ([]domain.Posting, error) {
	var asOfArg *time.Time
	if asOf != nil {
		d := domain.DateOf(*asOf)
		asOfArg = &d
	}
	query := `
		SELECT p.posting_id, p.entry_id, p.line_no, p.account_id, p.side, p.amount
		FROM postings p
		JOIN accounting_entries e ON e.entry_id = p.entry_id
		WHERE p.account_id = $1 AND ($2::date IS NULL OR e.entry_date <= $2)
		ORDER BY e.entry_date, e.created_at, p.line_no;
	`
	rows, err := r.q.Query(ctx, query, accountID, asOfArg)
	if err != nil {
		return nil, mapPgError(err, "failed to list postings for account "+accountID)
	}
	defer rows.Close()

	out := make([]domain.Posting, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan posting")
		}
		out = append(out, mapping.ToDomainPosting(p))
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate postings")
	}
	return out, nil
}

func (r *pgxEntryRepository) CountPostingsByAccount(ctx context.Context, accountID string) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM postings WHERE account_id = $1;`, accountID).Scan(&n); err != nil {
		return 0, mapPgError(err, "failed to count postings for account "+accountID)
	}
	return n, nil
}
