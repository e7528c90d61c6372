package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:              d.CompanyID,
		OrganizationID:         d.OrganizationID,
		Name:                   d.Name,
		LegalName:              d.LegalName,
		FunctionalCurrencyCode: d.FunctionalCurrencyCode,
		CountryCode:            d.CountryCode,
		IsActive:               d.IsActive,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:              m.CompanyID,
		OrganizationID:         m.OrganizationID,
		Name:                   m.Name,
		LegalName:              m.LegalName,
		FunctionalCurrencyCode: m.FunctionalCurrencyCode,
		CountryCode:            m.CountryCode,
		IsActive:               m.IsActive,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}
