package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the debit or credit side of a posting.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// Valid reports whether s is debit or credit.
func (s Side) Valid() bool {
	return s == Debit || s == Credit
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// EntryStatus indicates the state of an accounting entry.
type EntryStatus string

const (
	EntryPosted   EntryStatus = "POSTED"
	EntryReversed EntryStatus = "REVERSED"
)

// Posting is a single debit or credit line of an accounting entry.
type Posting struct {
	PostingID string          `json:"postingID"`
	EntryID   string          `json:"entryID"`
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Side      Side            `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
}

// AccountingEntry is a balanced group of postings dated inside one accounting period.
type AccountingEntry struct {
	EntryID             string      `json:"entryID"`
	PeriodID            string      `json:"periodID"`
	EntryDate           time.Time   `json:"entryDate"`
	Memo                string      `json:"memo"`
	Status              EntryStatus `json:"status"`
	ReversalOfEntryID   *string     `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID   *string     `json:"reversedByEntryID,omitempty"`
	SourceTransactionID *string     `json:"sourceTransactionID,omitempty"`
	Postings            []Posting   `json:"postings"`
	AuditFields
}

// Totals returns the debit and credit sums of the postings.
func Totals(postings []Posting) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, p := range postings {
		switch p.Side {
		case Debit:
			debits = debits.Add(p.Amount)
		case Credit:
			credits = credits.Add(p.Amount)
		}
	}
	return debits, credits
}

// IsBalanced reports whether debits equal credits exactly.
func (e *AccountingEntry) IsBalanced() bool {
	d, c := Totals(e.Postings)
	return d.Equal(c)
}

// AccountIDs returns the distinct accounts referenced by the entry, in posting order.
func (e *AccountingEntry) AccountIDs() []string {
	return PostingAccountIDs(e.Postings)
}

// PostingAccountIDs returns the distinct account ids of postings, in order of first use.
func PostingAccountIDs(postings []Posting) []string {
	seen := make(map[string]struct{}, len(postings))
	ids := make([]string, 0, len(postings))
	for _, p := range postings {
		if _, ok := seen[p.AccountID]; ok {
			continue
		}
		seen[p.AccountID] = struct{}{}
		ids = append(ids, p.AccountID)
	}
	return ids
}

// ReversalPostings returns postings with sides swapped, ready to be posted as a new entry.
func (e *AccountingEntry) ReversalPostings() []Posting {
	out := make([]Posting, len(e.Postings))
	for i, p := range e.Postings {
		out[i] = Posting{
			LineNo:    p.LineNo,
			AccountID: p.AccountID,
			Side:      p.Side.Opposite(),
			Amount:    p.Amount,
		}
	}
	return out
}
