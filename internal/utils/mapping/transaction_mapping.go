package mapping

import (
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/models"
)

// ToModelTransaction converts a domain OperationalTransaction to its row.
func ToModelTransaction(d domain.OperationalTransaction) models.OperationalTransaction {
	return models.OperationalTransaction{
		TransactionID:     d.TransactionID,
		TransactionNumber: d.TransactionNumber,
		TransactionType:   string(d.Type),
		Status:            string(d.Status),
		SourceAccountID:   d.SourceAccountID,
		TargetAccountID:   d.TargetAccountID,
		Amount:            d.Amount,
		CurrencyCode:      d.CurrencyCode,
		CategoryID:        d.CategoryID,
		TransactionDate:   d.TransactionDate,
		Description:       d.Description,
		EntryID:           d.EntryID,
		VoidEntryID:       d.VoidEntryID,
		AuditFields:       toModelAudit(d.AuditFields),
	}
}

// ToDomainTransaction converts a transaction row to the domain type.
func ToDomainTransaction(m models.OperationalTransaction) domain.OperationalTransaction {
	return domain.OperationalTransaction{
		TransactionID:     m.TransactionID,
		TransactionNumber: m.TransactionNumber,
		Type:              domain.TransactionType(m.TransactionType),
		Status:            domain.TransactionStatus(m.Status),
		SourceAccountID:   m.SourceAccountID,
		TargetAccountID:   m.TargetAccountID,
		Amount:            m.Amount,
		CurrencyCode:      m.CurrencyCode,
		CategoryID:        m.CategoryID,
		TransactionDate:   m.TransactionDate,
		Description:       m.Description,
		EntryID:           m.EntryID,
		VoidEntryID:       m.VoidEntryID,
		AuditFields:       toDomainAudit(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of transaction rows.
func ToDomainTransactionSlice(ms []models.OperationalTransaction) []domain.OperationalTransaction {
	ds := make([]domain.OperationalTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
