package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dual_ledger/internal/utils/pagination"
)

var _ portsrepo.TransactionRepositoryFacade = (*repo)(nil)

func touches(t domain.OperationalTransaction, accountID string) bool {
	return (t.SourceAccountID != nil && *t.SourceAccountID == accountID) ||
		(t.TargetAccountID != nil && *t.TargetAccountID == accountID)
}

func (r *repo) SaveTransaction(ctx context.Context, txn domain.OperationalTransaction) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.transactions[txn.TransactionID]; ok {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		for _, t := range st.transactions {
			if t.TransactionNumber == txn.TransactionNumber {
				return fmt.Errorf("%w: transaction number %s", apperrors.ErrDuplicate, txn.TransactionNumber)
			}
		}
		st.transactions[txn.TransactionID] = txn
		return nil
	})
}

func (r *repo) UpdateTransactionState(ctx context.Context, txn domain.OperationalTransaction) error {
	return r.write(ctx, func(st *state) error {
		current, ok := st.transactions[txn.TransactionID]
		if !ok {
			return apperrors.NewNotFoundError("transaction " + txn.TransactionID)
		}
		current.Status = txn.Status
		current.EntryID = txn.EntryID
		current.VoidEntryID = txn.VoidEntryID
		current.CategoryID = txn.CategoryID
		current.LastUpdatedAt = txn.LastUpdatedAt
		current.LastUpdatedBy = txn.LastUpdatedBy
		st.transactions[txn.TransactionID] = current
		return nil
	})
}

func (r *repo) FindTransactionByID(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error) {
	var out *domain.OperationalTransaction
	err := r.read(func(st *state) error {
		t, ok := st.transactions[transactionID]
		if !ok {
			return apperrors.NewNotFoundError("transaction " + transactionID)
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *repo) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.OperationalTransaction, error) {
	return r.FindTransactionByID(ctx, transactionID)
}

func (r *repo) NextTransactionSequence(ctx context.Context, day time.Time) (int, error) {
	key := domain.DateOf(day).Format("20060102")
	var seq int
	err := r.write(ctx, func(st *state) error {
		st.sequences[key]++
		seq = st.sequences[key]
		return nil
	})
	return seq, err
}

func (r *repo) ListTransactionsByAccount(ctx context.Context, accountID string, filter portsrepo.TransactionFilter) ([]domain.OperationalTransaction, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	matched := make([]domain.OperationalTransaction, 0)
	err := r.read(func(st *state) error {
		for _, t := range st.transactions {
			if !touches(t, accountID) {
				continue
			}
			if filter.From != nil && t.TransactionDate.Before(domain.DateOf(*filter.From)) {
				continue
			}
			if filter.To != nil && t.TransactionDate.After(domain.DateOf(*filter.To)) {
				continue
			}
			if cursor != nil && !cursor.After(t.TransactionDate, t.CreatedAt, t.TransactionID) {
				continue
			}
			matched = append(matched, t)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.After(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})

	var next *string
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
		last := matched[len(matched)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt, last.TransactionID)
		next = &token
	}
	return matched, next, nil
}

func (r *repo) ListPostedTransactionsByAccount(ctx context.Context, accountID string, asOf *time.Time) ([]domain.OperationalTransaction, error) {
	out := make([]domain.OperationalTransaction, 0)
	err := r.read(func(st *state) error {
		for _, t := range st.transactions {
			if !t.Counts() || !touches(t, accountID) {
				continue
			}
			if asOf != nil && t.TransactionDate.After(domain.DateOf(*asOf)) {
				continue
			}
			out = append(out, t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *repo) CountPendingByAccount(ctx context.Context, accountID string) (int, error) {
	n := 0
	err := r.read(func(st *state) error {
		for _, t := range st.transactions {
			if t.Status == domain.Pending && touches(t, accountID) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *repo) CountTransactionsByAccount(ctx context.Context, accountID string) (int, error) {
	n := 0
	err := r.read(func(st *state) error {
		for _, t := range st.transactions {
			if touches(t, accountID) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *repo) CountTransactionsByCategory(ctx context.Context, categoryID string) (int, error) {
	n := 0
	err := r.read(func(st *state) error {
		for _, t := range st.transactions {
			if t.CategoryID != nil && *t.CategoryID == categoryID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *repo) OperationalActivityVersion(ctx context.Context, accountID string) (int64, error) {
	var v int64
	err := r.read(func(st *state) error {
		for _, t := range st.transactions {
			if !touches(t, accountID) {
				continue
			}
			if t.EntryID != nil {
				v++
			}
			if t.VoidEntryID != nil {
				v++
			}
		}
		return nil
	})
	return v, err
}
