package mapping

import (
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/models"
)

// ToModelEntry converts a domain AccountingEntry to its header row and posting rows.
func ToModelEntry(d domain.AccountingEntry) (models.AccountingEntry, []models.Posting) {
	postings := make([]models.Posting, len(d.Postings))
	for i, p := range d.Postings {
		postings[i] = ToModelPosting(p)
	}
	return models.AccountingEntry{
		EntryID:             d.EntryID,
		PeriodID:            d.PeriodID,
		EntryDate:           d.EntryDate,
		Memo:                d.Memo,
		Status:              string(d.Status),
		ReversalOfEntryID:   d.ReversalOfEntryID,
		ReversedByEntryID:   d.ReversedByEntryID,
		SourceTransactionID: d.SourceTransactionID,
		AuditFields:         toModelAudit(d.AuditFields),
	}, postings
}

// ToDomainEntry converts an entry row and its posting rows to the domain type.
func ToDomainEntry(m models.AccountingEntry, ps []models.Posting) domain.AccountingEntry {
	postings := make([]domain.Posting, len(ps))
	for i, p := range ps {
		postings[i] = ToDomainPosting(p)
	}
	return domain.AccountingEntry{
		EntryID:             m.EntryID,
		PeriodID:            m.PeriodID,
		EntryDate:           m.EntryDate,
		Memo:                m.Memo,
		Status:              domain.EntryStatus(m.Status),
		ReversalOfEntryID:   m.ReversalOfEntryID,
		ReversedByEntryID:   m.ReversedByEntryID,
		SourceTransactionID: m.SourceTransactionID,
		Postings:            postings,
		AuditFields:         toDomainAudit(m.AuditFields),
	}
}

// ToModelPosting converts a domain Posting to a model Posting
func ToModelPosting(d domain.Posting) models.Posting {
	return models.Posting{
		PostingID: d.PostingID,
		EntryID:   d.EntryID,
		LineNo:    d.LineNo,
		AccountID: d.AccountID,
		Side:      string(d.Side),
		Amount:    d.Amount,
	}
}

// ToDomainPosting converts a model Posting to a domain Posting
func ToDomainPosting(m models.Posting) domain.Posting {
	return domain.Posting{
		PostingID: m.PostingID,
		EntryID:   m.EntryID,
		LineNo:    m.LineNo,
		AccountID: m.AccountID,
		Side:      domain.Side(m.Side),
		Amount:    m.Amount,
	}
}

// ToModelPeriod converts a domain AccountingPeriod to a model AccountingPeriod
func ToModelPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:    d.PeriodID,
		Name:        d.Name,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Status:      string(d.Status),
		ClosedAt:    d.ClosedAt,
		ClosedBy:    d.ClosedBy,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainPeriod converts a model AccountingPeriod to a domain AccountingPeriod
func ToDomainPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:    m.PeriodID,
		Name:        m.Name,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Status:      domain.PeriodStatus(m.Status),
		ClosedAt:    m.ClosedAt,
		ClosedBy:    m.ClosedBy,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}
