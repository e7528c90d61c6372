package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// companyService manages legal entities within an organization.
type companyService struct {
	companyRepo  portsrepo.CompanyRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	orgRepo      portsrepo.OrganizationRepositoryFacade
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade, orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo, currencyRepo: currencyRepo, orgRepo: orgRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) requireMembership(ctx context.Context, organizationID, userID string) (*domain.UserOrganization, error) {
	membership, err := s.orgRepo.FindUserOrganizationRole(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership.Role == domain.RoleRemoved {
		return nil, apperrors.ErrNotFound
	}
	return membership, nil
}

// CreateCompany persists a new company. The functional currency must exist
// and is immutable afterwards.
func (s *companyService) CreateCompany(ctx context.Context, organizationID string, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.requireMembership(ctx, organizationID, creatorUserID)
	if err != nil {
		return nil, err
	}
	if membership.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only organization admins may create companies", apperrors.ErrForbidden)
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.FunctionalCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency code %s", apperrors.ErrValidation, req.FunctionalCurrencyCode)
		}
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}

	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:              uuid.NewString(),
		OrganizationID:         organizationID,
		Name:                   req.Name,
		LegalName:              req.LegalName,
		FunctionalCurrencyCode: req.FunctionalCurrencyCode,
		CountryCode:            req.CountryCode,
		IsActive:               true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		logger.Error("Failed to save company", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save company: %w", err)
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID), slog.String("name", company.Name))
	return &company, nil
}

// GetCompanyByID retrieves a company, verifying organization ownership.
func (s *companyService) GetCompanyByID(ctx context.Context, organizationID string, companyID string, requestingUserID string) (*domain.Company, error) {
	if _, err := s.requireMembership(ctx, organizationID, requestingUserID); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return company, nil
}

// GetCompany resolves a company without an organization hint. Used internally
// by services that hold only a company ID.
func (s *companyService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// ListCompanies retrieves the companies of an organization.
func (s *companyService) ListCompanies(ctx context.Context, organizationID string, requestingUserID string) ([]domain.Company, error) {
	if _, err := s.requireMembership(ctx, organizationID, requestingUserID); err != nil {
		return nil, err
	}
	companies, err := s.companyRepo.ListCompaniesByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// UpdateCompany updates company details. The functional currency cannot change.
func (s *companyService) UpdateCompany(ctx context.Context, organizationID string, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.requireMembership(ctx, organizationID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if membership.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only organization admins may update companies", apperrors.ErrForbidden)
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.LegalName != nil {
		company.LegalName = *req.LegalName
	}
	if req.CountryCode != nil {
		company.CountryCode = *req.CountryCode
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	company.LastUpdatedAt = now
	company.LastUpdatedBy = requestingUserID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		logger.Error("Failed to update company", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	logger.Info("Company updated", slog.String("company_id", companyID))
	return company, nil
}
