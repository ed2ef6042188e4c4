package domain

import (
	"errors"
	"fmt"
)

// ErrMappingMissing is returned when a transaction cannot be translated into postings.
var ErrMappingMissing = errors.New("account mapping missing")

// AccountMapping translates operational activity into accounting postings.
// It is configuration owned by the caller and passed to each record call.
type AccountMapping struct {
	// OperationalAccounts maps an operational account id to its accounting (asset or liability) account id.
	OperationalAccounts map[string]string
	// IncomeAccountID is the default revenue account credited by income.
	IncomeAccountID string
	// ExpenseAccountID is the default expense account debited by expenses.
	ExpenseAccountID string
	// CategoryAccounts overrides the revenue/expense account per category id.
	CategoryAccounts map[string]string
}

func (m AccountMapping) operational(id *string) (string, error) {
	if id == nil {
		return "", fmt.Errorf("%w: no operational account given", ErrMappingMissing)
	}
	acc, ok := m.OperationalAccounts[*id]
	if !ok || acc == "" {
		return "", fmt.Errorf("%w: operational account %s has no accounting account", ErrMappingMissing, *id)
	}
	return acc, nil
}

func (m AccountMapping) nominal(categoryID *string, fallback string, what string) (string, error) {
	if categoryID != nil {
		if acc, ok := m.CategoryAccounts[*categoryID]; ok && acc != "" {
			return acc, nil
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("%w: no %s account configured", ErrMappingMissing, what)
	}
	return fallback, nil
}

// PostingsFor returns the two postings that record txn in the accounting layer.
//
//	income:   debit mapped(target), credit revenue
//	expense:  debit expense,        credit mapped(source)
//	transfer: debit mapped(target), credit mapped(source)
func (m AccountMapping) PostingsFor(txn *OperationalTransaction) ([]Posting, error) {
	var debitAcc, creditAcc string
	var err error
	switch txn.Type {
	case Income:
		if debitAcc, err = m.operational(txn.TargetAccountID); err != nil {
			return nil, err
		}
		if creditAcc, err = m.nominal(txn.CategoryID, m.IncomeAccountID, "revenue"); err != nil {
			return nil, err
		}
	case Outgoing:
		if debitAcc, err = m.nominal(txn.CategoryID, m.ExpenseAccountID, "expense"); err != nil {
			return nil, err
		}
		if creditAcc, err = m.operational(txn.SourceAccountID); err != nil {
			return nil, err
		}
	case Transfer:
		if debitAcc, err = m.operational(txn.TargetAccountID); err != nil {
			return nil, err
		}
		if creditAcc, err = m.operational(txn.SourceAccountID); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown transaction type %q", txn.Type)
	}
	return []Posting{
		{LineNo: 1, AccountID: debitAcc, Side: Debit, Amount: txn.Amount},
		{LineNo: 2, AccountID: creditAcc, Side: Credit, Amount: txn.Amount},
	}, nil
}
