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

// organizationService manages tenants and their memberships.
type organizationService struct {
	orgRepo  portsrepo.OrganizationRepositoryFacade
	userRepo portsrepo.UserRepositoryFacade
	authzSvc portssvc.AuthorizationSvc
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, authzSvc portssvc.AuthorizationSvc) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo, userRepo: userRepo, authzSvc: authzSvc}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// requireMembership ensures the user belongs to the organization and returns
// their membership.
func (s *organizationService) requireMembership(ctx context.Context, organizationID, userID string) (*domain.UserOrganization, error) {
	membership, err := s.orgRepo.FindUserOrganizationRole(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Obscure the organization's existence from non-members.
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership.Role == domain.RoleRemoved {
		return nil, apperrors.ErrNotFound
	}
	return membership, nil
}

// CreateOrganization creates an organization, makes the creator its admin,
// and seeds the system policy band.
func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}

	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		logger.Error("Failed to save organization", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save organization: %w", err)
	}

	membership := domain.UserOrganization{
		UserID:         creatorUserID,
		UserName:       creator.Name,
		OrganizationID: org.OrganizationID,
		Role:           domain.RoleAdmin,
		JoinedAt:       now,
	}
	if err := s.orgRepo.AddUserToOrganization(ctx, membership); err != nil {
		logger.Error("Failed to add creator as admin", slog.String("error", err.Error()), slog.String("organization_id", org.OrganizationID))
		return nil, fmt.Errorf("failed to add creator as admin: %w", err)
	}

	if s.authzSvc != nil {
		if err := s.authzSvc.EnsureSystemPolicies(ctx, org.OrganizationID, creatorUserID); err != nil {
			return nil, err
		}
	}

	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID), slog.String("name", org.Name))
	return &org, nil
}

// GetOrganizationByID retrieves an organization visible to the user.
func (s *organizationService) GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error) {
	if _, err := s.requireMembership(ctx, organizationID, requestingUserID); err != nil {
		return nil, err
	}
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

// ListUserOrganizations retrieves the organizations the user belongs to.
func (s *organizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	orgs, err := s.orgRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// GetMembership retrieves a user's membership in an organization.
func (s *organizationService) GetMembership(ctx context.Context, userID string, organizationID string) (*domain.UserOrganization, error) {
	return s.orgRepo.FindUserOrganizationRole(ctx, userID, organizationID)
}

// UpdateOrganization updates organization details. Admins only.
func (s *organizationService) UpdateOrganization(ctx context.Context, organizationID string, req dto.UpdateOrganizationRequest, requestingUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.requireMembership(ctx, organizationID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if membership.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only organization admins may update the organization", apperrors.ErrForbidden)
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Description != nil {
		org.Description = *req.Description
	}

	now := time.Now().UTC()
	org.LastUpdatedAt = now
	org.LastUpdatedBy = requestingUserID

	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		logger.Error("Failed to update organization", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	logger.Info("Organization updated", slog.String("organization_id", organizationID))
	return org, nil
}

// AddMember adds a user to the organization with a role. Admins only.
func (s *organizationService) AddMember(ctx context.Context, organizationID string, req dto.AddMemberRequest, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.requireMembership(ctx, organizationID, requestingUserID)
	if err != nil {
		return err
	}
	if membership.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only organization admins may add members", apperrors.ErrForbidden)
	}

	user, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s does not exist", apperrors.ErrValidation, req.UserID)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	existing, err := s.orgRepo.FindUserOrganizationRole(ctx, req.UserID, organizationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check existing membership: %w", err)
	}
	if existing != nil && existing.Role != domain.RoleRemoved {
		return fmt.Errorf("%w: user %s is already a member", apperrors.ErrDuplicate, req.UserID)
	}

	newMembership := domain.UserOrganization{
		UserID:          req.UserID,
		UserName:        user.Name,
		OrganizationID:  organizationID,
		Role:            req.Role,
		FunctionalRoles: req.FunctionalRoles,
		JoinedAt:        time.Now().UTC(),
	}
	if existing != nil {
		// Re-adding a removed member updates the row instead of inserting.
		if err := s.orgRepo.UpdateUserOrganizationRole(ctx, newMembership); err != nil {
			return fmt.Errorf("failed to restore membership: %w", err)
		}
	} else if err := s.orgRepo.AddUserToOrganization(ctx, newMembership); err != nil {
		logger.Error("Failed to add member", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to add member: %w", err)
	}

	logger.Info("Member added", slog.String("organization_id", organizationID), slog.String("member_user_id", req.UserID), slog.String("role", string(req.Role)))
	return nil
}

// UpdateMemberRole changes a member's role or functional roles. Admins only.
// An admin cannot demote themselves, so an organization always keeps at least
// one admin.
func (s *organizationService) UpdateMemberRole(ctx context.Context, organizationID string, memberUserID string, req dto.UpdateMemberRequest, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.requireMembership(ctx, organizationID, requestingUserID)
	if err != nil {
		return err
	}
	if membership.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only organization admins may change member roles", apperrors.ErrForbidden)
	}
	if memberUserID == requestingUserID && req.Role != nil && *req.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admins cannot change their own role", apperrors.ErrConflict)
	}

	target, err := s.orgRepo.FindUserOrganizationRole(ctx, memberUserID, organizationID)
	if err != nil {
		return err
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	if req.FunctionalRoles != nil {
		target.FunctionalRoles = *req.FunctionalRoles
	}

	if err := s.orgRepo.UpdateUserOrganizationRole(ctx, *target); err != nil {
		logger.Error("Failed to update member role", slog.String("error", err.Error()), slog.String("member_user_id", memberUserID))
		return fmt.Errorf("failed to update member role: %w", err)
	}

	logger.Info("Member role updated", slog.String("organization_id", organizationID), slog.String("member_user_id", memberUserID))
	return nil
}
