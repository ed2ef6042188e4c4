package dto

import (
	"time"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingRequest is one line of a manual entry.
type PostingRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Side      domain.Side     `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// PostEntryRequest defines the data needed to post a balanced accounting entry directly.
type PostEntryRequest struct {
	PeriodID  string           `json:"periodID" binding:"required"`
	EntryDate time.Time        `json:"entryDate" binding:"required"`
	Memo      string           `json:"memo" binding:"max=500"`
	Postings  []PostingRequest `json:"postings" binding:"required,min=2,dive"`
}

// ToDomainPostings converts request lines to unsaved postings.
func (r PostEntryRequest) ToDomainPostings() []domain.Posting {
	postings := make([]domain.Posting, len(r.Postings))
	for i, p := range r.Postings {
		postings[i] = domain.Posting{
			LineNo:    i + 1,
			AccountID: p.AccountID,
			Side:      p.Side,
			Amount:    p.Amount,
		}
	}
	return postings
}

// OpenPeriodRequest defines the data needed to open an accounting period.
type OpenPeriodRequest struct {
	Name      string    `json:"name" binding:"max=100"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}
