package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ConsolidationReader defines read operations for consolidation group data
type ConsolidationReader interface {
	// FindGroupByID retrieves a group by ID within an organization.
	FindGroupByID(ctx context.Context, organizationID string, groupID string) (*domain.ConsolidationGroup, error)

	// ListGroupsByOrganization retrieves all groups of an organization.
	ListGroupsByOrganization(ctx context.Context, organizationID string) ([]domain.ConsolidationGroup, error)

	// ListMemberCompanyIDs retrieves the company IDs belonging to a group.
	ListMemberCompanyIDs(ctx context.Context, groupID string) ([]string, error)
}

// ConsolidationWriter defines write operations for consolidation group data
type ConsolidationWriter interface {
	// SaveGroup persists a new group together with its initial members.
	SaveGroup(ctx context.Context, group domain.ConsolidationGroup) error

	// UpdateGroup updates a group's details and replaces its membership.
	UpdateGroup(ctx context.Context, group domain.ConsolidationGroup) error

	// DeleteGroup removes a group and its membership rows.
	DeleteGroup(ctx context.Context, organizationID string, groupID string) error
}

// ConsolidationRepositoryFacade combines all consolidation repository interfaces
type ConsolidationRepositoryFacade interface {
	ConsolidationReader
	ConsolidationWriter
}
