package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// ConsolidationSvcFacade defines operations for consolidation groups.
type ConsolidationSvcFacade interface {
	// CreateGroup persists a new consolidation group with its member companies.
	CreateGroup(ctx context.Context, organizationID string, req dto.CreateConsolidationGroupRequest, creatorUserID string) (*domain.ConsolidationGroup, error)

	// GetGroupByID retrieves a group, verifying organization ownership.
	GetGroupByID(ctx context.Context, organizationID string, groupID string, requestingUserID string) (*domain.ConsolidationGroup, error)

	// ListGroups retrieves the groups of an organization.
	ListGroups(ctx context.Context, organizationID string, requestingUserID string) ([]domain.ConsolidationGroup, error)

	// UpdateGroup updates a group's details and membership.
	UpdateGroup(ctx context.Context, organizationID string, groupID string, req dto.UpdateConsolidationGroupRequest, requestingUserID string) (*domain.ConsolidationGroup, error)

	// DeleteGroup removes a group.
	DeleteGroup(ctx context.Context, organizationID string, groupID string, requestingUserID string) error
}
