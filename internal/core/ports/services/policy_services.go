package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// PolicyReaderSvc defines read operations for authorization policies
type PolicyReaderSvc interface {
	// GetPolicyByID retrieves a policy within an organization.
	GetPolicyByID(ctx context.Context, organizationID string, policyID string, requestingUserID string) (*domain.AuthorizationPolicy, error)

	// ListPolicies retrieves all policies of an organization.
	ListPolicies(ctx context.Context, organizationID string, requestingUserID string) ([]domain.AuthorizationPolicy, error)
}

// PolicyWriterSvc defines write operations for authorization policies
type PolicyWriterSvc interface {
	// CreatePolicy persists a new user policy (priority must stay below the system band).
	CreatePolicy(ctx context.Context, organizationID string, req dto.CreatePolicyRequest, creatorUserID string) (*domain.AuthorizationPolicy, error)

	// UpdatePolicy updates an existing non-system policy.
	UpdatePolicy(ctx context.Context, organizationID string, policyID string, req dto.UpdatePolicyRequest, requestingUserID string) (*domain.AuthorizationPolicy, error)

	// DeletePolicy removes a non-system policy.
	DeletePolicy(ctx context.Context, organizationID string, policyID string, requestingUserID string) error
}

// PolicySvcFacade combines all policy-related service interfaces
type PolicySvcFacade interface {
	PolicyReaderSvc
	PolicyWriterSvc
}

// AuthorizationSvc evaluates the organization's policy set for a request.
type AuthorizationSvc interface {
	// Authorize builds the evaluation context for the user in the organization
	// and evaluates the active policy set. It returns the decision, and an
	// error wrapping apperrors.ErrForbidden when the decision is a denial.
	Authorize(ctx context.Context, userID string, organizationID string, resource domain.Resource, action string) (*domain.Decision, error)

	// Evaluate runs the engine against an explicit context without side effects.
	Evaluate(ctx context.Context, organizationID string, ec domain.EvaluationContext) (*domain.Decision, error)

	// EnsureSystemPolicies seeds the immutable system policies for an organization.
	EnsureSystemPolicies(ctx context.Context, organizationID string, createdBy string) error
}
