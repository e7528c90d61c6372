package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CreateFiscalPeriodRequest defines the data needed to create a fiscal period.
type CreateFiscalPeriodRequest struct {
	Year      int       `json:"year" binding:"required,gte=1900"`
	Period    int       `json:"period" binding:"required,gte=1,lte=13"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// TransitionPeriodRequest moves a period to a new lifecycle status.
type TransitionPeriodRequest struct {
	Status domain.PeriodStatus `json:"status" binding:"required,oneof=FUTURE OPEN SOFT_CLOSE CLOSED LOCKED"`
}

// FiscalPeriodResponse defines the data returned for a fiscal period.
type FiscalPeriodResponse struct {
	FiscalPeriodID string              `json:"fiscalPeriodID"`
	CompanyID      string              `json:"companyID"`
	Year           int                 `json:"year"`
	Period         int                 `json:"period"`
	Name           string              `json:"name"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	Status         domain.PeriodStatus `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// ToFiscalPeriodResponse converts a domain fiscal period to its response DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		FiscalPeriodID: p.FiscalPeriodID,
		CompanyID:      p.CompanyID,
		Year:           p.Year,
		Period:         p.Period,
		Name:           p.Name,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	}
}

// ToFiscalPeriodResponses converts a slice of domain periods to response DTOs.
func ToFiscalPeriodResponses(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	responses := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return responses
}
