package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		CompanyID:       d.CompanyID,
		AccountNumber:   d.AccountNumber,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		AccountCategory: d.AccountCategory,
		NormalBalance:   string(d.NormalBalance),
		ParentAccountID: d.ParentAccountID,
		HierarchyLevel:  d.HierarchyLevel,
		CurrencyCode:    d.CurrencyCode,
		Description:     d.Description,
		IsPostable:      d.IsPostable,
		IsActive:        d.IsActive,
		DeactivatedAt:   d.DeactivatedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		CompanyID:       m.CompanyID,
		AccountNumber:   m.AccountNumber,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		AccountCategory: m.AccountCategory,
		NormalBalance:   domain.NormalBalance(m.NormalBalance),
		ParentAccountID: m.ParentAccountID,
		HierarchyLevel:  m.HierarchyLevel,
		CurrencyCode:    m.CurrencyCode,
		Description:     m.Description,
		IsPostable:      m.IsPostable,
		IsActive:        m.IsActive,
		DeactivatedAt:   m.DeactivatedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
