package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// consolidationService manages consolidation groups, which bundle companies
// of one organization for combined reporting.
type consolidationService struct {
	consolidationRepo portsrepo.ConsolidationRepositoryFacade
	companyRepo       portsrepo.CompanyRepositoryFacade
	currencyRepo      portsrepo.CurrencyRepositoryFacade
	orgRepo           portsrepo.OrganizationRepositoryFacade
}

// NewConsolidationService creates a new consolidation service.
func NewConsolidationService(
	consolidationRepo portsrepo.ConsolidationRepositoryFacade,
	companyRepo portsrepo.CompanyRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	orgRepo portsrepo.OrganizationRepositoryFacade,
) portssvc.ConsolidationSvcFacade {
	return &consolidationService{
		consolidationRepo: consolidationRepo,
		companyRepo:       companyRepo,
		currencyRepo:      currencyRepo,
		orgRepo:           orgRepo,
	}
}

var _ portssvc.ConsolidationSvcFacade = (*consolidationService)(nil)

func (s *consolidationService) requireMembership(ctx context.Context, organizationID, userID string) (*domain.UserOrganization, error) {
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

// validateMembers ensures every member company exists and belongs to the
// organization, and that the list holds no duplicates.
func (s *consolidationService) validateMembers(ctx context.Context, organizationID string, memberCompanyIDs []string) error {
	if len(memberCompanyIDs) == 0 {
		return fmt.Errorf("%w: a consolidation group requires at least one member company", apperrors.ErrValidation)
	}
	seen := make(map[string]struct{}, len(memberCompanyIDs))
	for _, companyID := range memberCompanyIDs {
		if _, dup := seen[companyID]; dup {
			return fmt.Errorf("%w: duplicate member company %s", apperrors.ErrValidation, companyID)
		}
		seen[companyID] = struct{}{}

		company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: company %s not found", apperrors.ErrValidation, companyID)
			}
			return fmt.Errorf("failed to look up member company %s: %w", companyID, err)
		}
		if company.OrganizationID != organizationID {
			return fmt.Errorf("%w: company %s not found", apperrors.ErrValidation, companyID)
		}
	}
	return nil
}

func (s *consolidationService) CreateGroup(ctx context.Context, organizationID string, req dto.CreateConsolidationGroupRequest, creatorUserID string) (*domain.ConsolidationGroup, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.requireMembership(ctx, organizationID, creatorUserID)
	if err != nil {
		return nil, err
	}
	if membership.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only organization admins may manage consolidation groups", apperrors.ErrForbidden)
	}

	currencyCode := strings.ToUpper(req.PresentationCurrencyCode)
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency code %s", apperrors.ErrValidation, currencyCode)
		}
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}

	if err := s.validateMembers(ctx, organizationID, req.MemberCompanyIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	group := domain.ConsolidationGroup{
		GroupID:                  uuid.NewString(),
		OrganizationID:           organizationID,
		Name:                     req.Name,
		Description:              req.Description,
		PresentationCurrencyCode: currencyCode,
		IsActive:                 true,
		MemberCompanyIDs:         req.MemberCompanyIDs,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.consolidationRepo.SaveGroup(ctx, group); err != nil {
		logger.Error("Failed to save consolidation group", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save consolidation group: %w", err)
	}

	logger.Info("Consolidation group created",
		slog.String("group_id", group.GroupID),
		slog.Int("members", len(group.MemberCompanyIDs)))
	return &group, nil
}

func (s *consolidationService) GetGroupByID(ctx context.Context, organizationID string, groupID string, requestingUserID string) (*domain.ConsolidationGroup, error) {
	if _, err := s.requireMembership(ctx, organizationID, requestingUserID); err != nil {
		return nil, err
	}

	group, err := s.consolidationRepo.FindGroupByID(ctx, organizationID, groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: consolidation group %s not found", apperrors.ErrNotFound, groupID)
		}
		return nil, fmt.Errorf("failed to find consolidation group %s: %w", groupID, err)
	}

	if len(group.MemberCompanyIDs) == 0 {
		members, err := s.consolidationRepo.ListMemberCompanyIDs(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("failed to list group members: %w", err)
		}
		group.MemberCompanyIDs = members
	}
	return group, nil
}

func (s *consolidationService) ListGroups(ctx context.Context, organizationID string, requestingUserID string) ([]domain.ConsolidationGroup, error) {
	if _, err := s.requireMembership(ctx, organizationID, requestingUserID); err != nil {
		return nil, err
	}

	groups, err := s.consolidationRepo.ListGroupsByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consolidation groups: %w", err)
	}
	if groups == nil {
		groups = []domain.ConsolidationGroup{}
	}
	return groups, nil
}

func (s *consolidationService) UpdateGroup(ctx context.Context, organizationID string, groupID string, req dto.UpdateConsolidationGroupRequest, requestingUserID string) (*domain.ConsolidationGroup, error) {
	membership, err := s.requireMembership(ctx, organizationID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if membership.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only organization admins may manage consolidation groups", apperrors.ErrForbidden)
	}

	group, err := s.GetGroupByID(ctx, organizationID, groupID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.IsActive != nil {
		group.IsActive = *req.IsActive
	}
	if req.MemberCompanyIDs != nil {
		if err := s.validateMembers(ctx, organizationID, *req.MemberCompanyIDs); err != nil {
			return nil, err
		}
		group.MemberCompanyIDs = *req.MemberCompanyIDs
	}
	group.LastUpdatedAt = time.Now().UTC()
	group.LastUpdatedBy = requestingUserID

	if err := s.consolidationRepo.UpdateGroup(ctx, *group); err != nil {
		return nil, fmt.Errorf("failed to update consolidation group %s: %w", groupID, err)
	}
	return group, nil
}

func (s *consolidationService) DeleteGroup(ctx context.Context, organizationID string, groupID string, requestingUserID string) error {
	membership, err := s.requireMembership(ctx, organizationID, requestingUserID)
	if err != nil {
		return err
	}
	if membership.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only organization admins may manage consolidation groups", apperrors.ErrForbidden)
	}

	if _, err := s.consolidationRepo.FindGroupByID(ctx, organizationID, groupID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: consolidation group %s not found", apperrors.ErrNotFound, groupID)
		}
		return fmt.Errorf("failed to find consolidation group %s: %w", groupID, err)
	}

	if err := s.consolidationRepo.DeleteGroup(ctx, organizationID, groupID); err != nil {
		return fmt.Errorf("failed to delete consolidation group %s: %w", groupID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Consolidation group deleted", slog.String("group_id", groupID))
	return nil
}
