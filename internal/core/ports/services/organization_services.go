package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// OrganizationReaderSvc defines read operations for organization data
type OrganizationReaderSvc interface {
	// GetOrganizationByID retrieves an organization visible to the user.
	GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error)

	// ListUserOrganizations retrieves the organizations the user belongs to.
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)

	// GetMembership retrieves a user's membership in an organization.
	GetMembership(ctx context.Context, userID string, organizationID string) (*domain.UserOrganization, error)
}

// OrganizationWriterSvc defines write operations for organization data
type OrganizationWriterSvc interface {
	// CreateOrganization creates an organization with the creator as admin and
	// seeds its system policies.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)

	// UpdateOrganization updates organization details.
	UpdateOrganization(ctx context.Context, organizationID string, req dto.UpdateOrganizationRequest, requestingUserID string) (*domain.Organization, error)

	// AddMember adds a user to the organization with a role.
	AddMember(ctx context.Context, organizationID string, req dto.AddMemberRequest, requestingUserID string) error

	// UpdateMemberRole changes a member's role or functional roles.
	UpdateMemberRole(ctx context.Context, organizationID string, memberUserID string, req dto.UpdateMemberRequest, requestingUserID string) error
}

// OrganizationSvcFacade combines all organization-related service interfaces
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
}
