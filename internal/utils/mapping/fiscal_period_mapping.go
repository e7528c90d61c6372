package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelFiscalPeriod converts a domain FiscalPeriod to a model FiscalPeriod
func ToModelFiscalPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		FiscalPeriodID: d.FiscalPeriodID,
		CompanyID:      d.CompanyID,
		Year:           d.Year,
		Period:         d.Period,
		Name:           d.Name,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalPeriod converts a model FiscalPeriod to a domain FiscalPeriod
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		FiscalPeriodID: m.FiscalPeriodID,
		CompanyID:      m.CompanyID,
		Year:           m.Year,
		Period:         m.Period,
		Name:           m.Name,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		Status:         domain.PeriodStatus(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
