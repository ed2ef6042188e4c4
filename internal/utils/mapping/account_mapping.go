package mapping

import (
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/models"
)

// ToModelOperationalAccount converts a domain OperationalAccount to a model OperationalAccount
func ToModelOperationalAccount(d domain.OperationalAccount) models.OperationalAccount {
	return models.OperationalAccount{
		AccountID:       d.AccountID,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		CurrencyCode:    d.CurrencyCode,
		StartingBalance: d.StartingBalance,
		IsActive:        d.IsActive,
		IsDeleted:       d.IsDeleted,
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

// ToDomainOperationalAccount converts a model OperationalAccount to a domain OperationalAccount
func ToDomainOperationalAccount(m models.OperationalAccount) domain.OperationalAccount {
	return domain.OperationalAccount{
		AccountID:       m.AccountID,
		Name:            m.Name,
		AccountType:     domain.OperationalAccountType(m.AccountType),
		CurrencyCode:    m.CurrencyCode,
		StartingBalance: m.StartingBalance,
		IsActive:        m.IsActive,
		IsDeleted:       m.IsDeleted,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

// ToModelAccountingAccount converts a domain AccountingAccount to a model AccountingAccount
func ToModelAccountingAccount(d domain.AccountingAccount) models.AccountingAccount {
	return models.AccountingAccount{
		AccountID:   d.AccountID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: string(d.AccountType),
		IsActive:    d.IsActive,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainAccountingAccount converts a model AccountingAccount to a domain AccountingAccount
func ToDomainAccountingAccount(m models.AccountingAccount) domain.AccountingAccount {
	return domain.AccountingAccount{
		AccountID:   m.AccountID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		IsActive:    m.IsActive,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

// ToModelCategory converts a domain Category to a model Category
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		ParentID:    d.ParentID,
		Name:        d.Name,
		Kind:        string(d.Kind),
		IsSystem:    d.IsSystem,
		IsActive:    d.IsActive,
		IsDeleted:   d.IsDeleted,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		ParentID:    m.ParentID,
		Name:        m.Name,
		Kind:        domain.CategoryKind(m.Kind),
		IsSystem:    m.IsSystem,
		IsActive:    m.IsActive,
		IsDeleted:   m.IsDeleted,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}
