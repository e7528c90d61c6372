package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelConsolidationGroup converts a domain group to its model form.
// Membership rows are handled separately by the repository.
func ToModelConsolidationGroup(d domain.ConsolidationGroup) models.ConsolidationGroup {
	return models.ConsolidationGroup{
		GroupID:                  d.GroupID,
		OrganizationID:           d.OrganizationID,
		Name:                     d.Name,
		Description:              d.Description,
		PresentationCurrencyCode: d.PresentationCurrencyCode,
		IsActive:                 d.IsActive,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainConsolidationGroup converts a model group to its domain form
func ToDomainConsolidationGroup(m models.ConsolidationGroup) domain.ConsolidationGroup {
	return domain.ConsolidationGroup{
		GroupID:                  m.GroupID,
		OrganizationID:           m.OrganizationID,
		Name:                     m.Name,
		Description:              m.Description,
		PresentationCurrencyCode: m.PresentationCurrencyCode,
		IsActive:                 m.IsActive,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
}
