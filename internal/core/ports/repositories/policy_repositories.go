package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// PolicyReader defines read operations for authorization policy data.
// All lookups are organization-scoped; a policy belonging to a different
// organization must surface as not found, never as a visible policy.
type PolicyReader interface {
	// FindPolicyByID retrieves a policy by ID within an organization.
	FindPolicyByID(ctx context.Context, organizationID string, policyID string) (*domain.AuthorizationPolicy, error)

	// ListPoliciesByOrganization retrieves all policies of an organization.
	ListPoliciesByOrganization(ctx context.Context, organizationID string) ([]domain.AuthorizationPolicy, error)

	// ListActivePoliciesByOrganization retrieves the active policies of an organization.
	ListActivePoliciesByOrganization(ctx context.Context, organizationID string) ([]domain.AuthorizationPolicy, error)
}

// PolicyWriter defines write operations for authorization policy data
type PolicyWriter interface {
	// SavePolicy persists a new policy.
	SavePolicy(ctx context.Context, policy domain.AuthorizationPolicy) error

	// UpdatePolicy updates an existing non-system policy.
	UpdatePolicy(ctx context.Context, policy domain.AuthorizationPolicy) error

	// DeletePolicy removes a non-system policy.
	DeletePolicy(ctx context.Context, organizationID string, policyID string) error
}

// PolicyRepositoryFacade combines all policy-related repository interfaces
type PolicyRepositoryFacade interface {
	PolicyReader
	PolicyWriter
}
