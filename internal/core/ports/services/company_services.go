package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// CompanySvcFacade defines operations for companies within an organization.
type CompanySvcFacade interface {
	// CreateCompany persists a new company in the organization.
	CreateCompany(ctx context.Context, organizationID string, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// GetCompanyByID retrieves a company, verifying organization ownership.
	GetCompanyByID(ctx context.Context, organizationID string, companyID string, requestingUserID string) (*domain.Company, error)

	// GetCompany resolves a company without an organization hint (internal use).
	GetCompany(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies retrieves the companies of an organization.
	ListCompanies(ctx context.Context, organizationID string, requestingUserID string) ([]domain.Company, error)

	// UpdateCompany updates company details.
	UpdateCompany(ctx context.Context, organizationID string, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error)
}
