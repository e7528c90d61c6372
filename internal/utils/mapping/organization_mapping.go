package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelOrganization converts a domain Organization to a model Organization
func ToModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Description:    d.Description,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrganization converts a model Organization to a domain Organization
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Description:    m.Description,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUserOrganization converts a domain membership to its model form
func ToModelUserOrganization(d domain.UserOrganization) models.UserOrganization {
	return models.UserOrganization{
		UserID:          d.UserID,
		UserName:        d.UserName,
		OrganizationID:  d.OrganizationID,
		Role:            string(d.Role),
		FunctionalRoles: d.FunctionalRoles,
		JoinedAt:        d.JoinedAt,
	}
}

// ToDomainUserOrganization converts a model membership to its domain form
func ToDomainUserOrganization(m models.UserOrganization) domain.UserOrganization {
	return domain.UserOrganization{
		UserID:          m.UserID,
		UserName:        m.UserName,
		OrganizationID:  m.OrganizationID,
		Role:            domain.OrganizationRole(m.Role),
		FunctionalRoles: m.FunctionalRoles,
		JoinedAt:        m.JoinedAt,
	}
}
