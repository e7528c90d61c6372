package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a company.
type CreateCompanyRequest struct {
	Name                   string `json:"name" binding:"required"`
	LegalName              string `json:"legalName"`
	FunctionalCurrencyCode string `json:"functionalCurrencyCode" binding:"required,len=3"`
	CountryCode            string `json:"countryCode" binding:"omitempty,len=2"`
}

// UpdateCompanyRequest defines the data allowed for updating a company.
type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	LegalName   *string `json:"legalName"`
	CountryCode *string `json:"countryCode" binding:"omitempty,len=2"`
	IsActive    *bool   `json:"isActive"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID              string    `json:"companyID"`
	OrganizationID         string    `json:"organizationID"`
	Name                   string    `json:"name"`
	LegalName              string    `json:"legalName,omitempty"`
	FunctionalCurrencyCode string    `json:"functionalCurrencyCode"`
	CountryCode            string    `json:"countryCode,omitempty"`
	IsActive               bool      `json:"isActive"`
	CreatedAt              time.Time `json:"createdAt"`
	CreatedBy              string    `json:"createdBy"`
}

// ToCompanyResponse converts a domain company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:              c.CompanyID,
		OrganizationID:         c.OrganizationID,
		Name:                   c.Name,
		LegalName:              c.LegalName,
		FunctionalCurrencyCode: c.FunctionalCurrencyCode,
		CountryCode:            c.CountryCode,
		IsActive:               c.IsActive,
		CreatedAt:              c.CreatedAt,
		CreatedBy:              c.CreatedBy,
	}
}

// ToCompanyResponses converts a slice of domain companies to response DTOs.
func ToCompanyResponses(companies []domain.Company) []CompanyResponse {
	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses
}
