package services

import (
	"context"
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

// policyService manages user-administered authorization policies.
type policyService struct {
	policyRepo portsrepo.PolicyRepositoryFacade
	orgRepo    portsrepo.OrganizationRepositoryFacade
}

// NewPolicyService creates a new policy management service.
func NewPolicyService(policyRepo portsrepo.PolicyRepositoryFacade, orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.PolicySvcFacade {
	return &policyService{policyRepo: policyRepo, orgRepo: orgRepo}
}

var _ portssvc.PolicySvcFacade = (*policyService)(nil)

// requireAdmin ensures the requesting user is an organization admin. Policy
// management is the one surface that bypasses the policy engine itself, so
// the engine cannot be locked out by a bad policy.
func (s *policyService) requireAdmin(ctx context.Context, organizationID, userID string) error {
	membership, err := s.orgRepo.FindUserOrganizationRole(ctx, userID, organizationID)
	if err != nil {
		return fmt.Errorf("%w: user is not a member of this organization", apperrors.ErrForbidden)
	}
	if membership.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only organization admins may manage policies", apperrors.ErrForbidden)
	}
	return nil
}

func validateSubject(req dto.ConditionRequest) (domain.SubjectCondition, error) {
	switch m := domain.SubjectMatch(req.Match); m {
	case domain.SubjectAny, domain.SubjectPlatformAdmin:
		return domain.SubjectCondition{Match: m}, nil
	case domain.SubjectUserIn, domain.SubjectRoleIn, domain.SubjectFunctionalRoleIn:
		if len(req.Values) == 0 {
			return domain.SubjectCondition{}, fmt.Errorf("%w: subject match %s requires values", apperrors.ErrValidation, m)
		}
		return domain.SubjectCondition{Match: m, Values: req.Values}, nil
	default:
		return domain.SubjectCondition{}, fmt.Errorf("%w: unknown subject match %q", apperrors.ErrValidation, req.Match)
	}
}

func validateResource(req dto.ConditionRequest) (domain.ResourceCondition, error) {
	switch m := domain.ResourceMatch(req.Match); m {
	case domain.ResourceAny:
		return domain.ResourceCondition{Match: m}, nil
	case domain.ResourceTypeEquals:
		if len(req.Values) != 1 {
			return domain.ResourceCondition{}, fmt.Errorf("%w: resource match %s requires exactly one value", apperrors.ErrValidation, m)
		}
		return domain.ResourceCondition{Match: m, Values: req.Values}, nil
	case domain.ResourceTypeIn, domain.ResourceIDIn:
		if len(req.Values) == 0 {
			return domain.ResourceCondition{}, fmt.Errorf("%w: resource match %s requires values", apperrors.ErrValidation, m)
		}
		return domain.ResourceCondition{Match: m, Values: req.Values}, nil
	default:
		return domain.ResourceCondition{}, fmt.Errorf("%w: unknown resource match %q", apperrors.ErrValidation, req.Match)
	}
}

func validateAction(req dto.ConditionRequest) (domain.ActionCondition, error) {
	switch m := domain.ActionMatch(req.Match); m {
	case domain.ActionAny:
		return domain.ActionCondition{Match: m}, nil
	case domain.ActionIn:
		if len(req.Values) == 0 {
			return domain.ActionCondition{}, fmt.Errorf("%w: action match %s requires values", apperrors.ErrValidation, m)
		}
		return domain.ActionCondition{Match: m, Values: req.Values}, nil
	default:
		return domain.ActionCondition{}, fmt.Errorf("%w: unknown action match %q", apperrors.ErrValidation, req.Match)
	}
}

func validateEnvironment(req *dto.ConditionRequest) (domain.EnvironmentCondition, error) {
	if req == nil {
		return domain.EnvironmentCondition{Match: domain.EnvironmentAny}, nil
	}
	switch m := domain.EnvironmentMatch(req.Match); m {
	case domain.EnvironmentAny:
		return domain.EnvironmentCondition{Match: m}, nil
	case domain.EnvironmentAttributeEquals:
		if req.Key == "" {
			return domain.EnvironmentCondition{}, fmt.Errorf("%w: environment match %s requires a key", apperrors.ErrValidation, m)
		}
		return domain.EnvironmentCondition{Match: m, Key: req.Key, Value: req.Value}, nil
	default:
		return domain.EnvironmentCondition{}, fmt.Errorf("%w: unknown environment match %q", apperrors.ErrValidation, req.Match)
	}
}

// CreatePolicy persists a new user policy. User policies must keep their
// priority below the reserved system band.
func (s *policyService) CreatePolicy(ctx context.Context, organizationID string, req dto.CreatePolicyRequest, creatorUserID string) (*domain.AuthorizationPolicy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, organizationID, creatorUserID); err != nil {
		return nil, err
	}
	if req.Priority > domain.MaxUserPolicyPriority {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodePolicyPriorityTooHigh,
			"priority %d exceeds the user policy maximum of %d", req.Priority, domain.MaxUserPolicyPriority)
	}

	subject, err := validateSubject(req.Subject)
	if err != nil {
		return nil, err
	}
	resource, err := validateResource(req.Resource)
	if err != nil {
		return nil, err
	}
	action, err := validateAction(req.Action)
	if err != nil {
		return nil, err
	}
	environment, err := validateEnvironment(req.Environment)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	policy := domain.AuthorizationPolicy{
		PolicyID:       uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		Description:    req.Description,
		Subject:        subject,
		Resource:       resource,
		Action:         action,
		Environment:    environment,
		Effect:         req.Effect,
		Priority:       req.Priority,
		IsSystemPolicy: false,
		IsActive:       isActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.policyRepo.SavePolicy(ctx, policy); err != nil {
		logger.Error("Failed to save policy", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save policy: %w", err)
	}

	logger.Info("Policy created", slog.String("policy_id", policy.PolicyID), slog.String("name", policy.Name))
	return &policy, nil
}

// GetPolicyByID retrieves a policy within an organization.
func (s *policyService) GetPolicyByID(ctx context.Context, organizationID string, policyID string, requestingUserID string) (*domain.AuthorizationPolicy, error) {
	if err := s.requireAdmin(ctx, organizationID, requestingUserID); err != nil {
		return nil, err
	}
	return s.policyRepo.FindPolicyByID(ctx, organizationID, policyID)
}

// ListPolicies retrieves all policies of an organization, system ones included.
func (s *policyService) ListPolicies(ctx context.Context, organizationID string, requestingUserID string) ([]domain.AuthorizationPolicy, error) {
	if err := s.requireAdmin(ctx, organizationID, requestingUserID); err != nil {
		return nil, err
	}
	policies, err := s.policyRepo.ListPoliciesByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	return policies, nil
}

// UpdatePolicy updates an existing non-system policy.
func (s *policyService) UpdatePolicy(ctx context.Context, organizationID string, policyID string, req dto.UpdatePolicyRequest, requestingUserID string) (*domain.AuthorizationPolicy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, organizationID, requestingUserID); err != nil {
		return nil, err
	}

	policy, err := s.policyRepo.FindPolicyByID(ctx, organizationID, policyID)
	if err != nil {
		return nil, err
	}
	if policy.IsSystemPolicy {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodeSystemPolicyImmutable,
			"system policy %s cannot be modified", policyID)
	}

	if req.Name != nil {
		policy.Name = *req.Name
	}
	if req.Description != nil {
		policy.Description = *req.Description
	}
	if req.Subject != nil {
		subject, err := validateSubject(*req.Subject)
		if err != nil {
			return nil, err
		}
		policy.Subject = subject
	}
	if req.Resource != nil {
		resource, err := validateResource(*req.Resource)
		if err != nil {
			return nil, err
		}
		policy.Resource = resource
	}
	if req.Action != nil {
		action, err := validateAction(*req.Action)
		if err != nil {
			return nil, err
		}
		policy.Action = action
	}
	if req.Environment != nil {
		environment, err := validateEnvironment(req.Environment)
		if err != nil {
			return nil, err
		}
		policy.Environment = environment
	}
	if req.Effect != nil {
		policy.Effect = *req.Effect
	}
	if req.Priority != nil {
		if *req.Priority > domain.MaxUserPolicyPriority {
			return nil, apperrors.NewBusinessRuleError(apperrors.CodePolicyPriorityTooHigh,
				"priority %d exceeds the user policy maximum of %d", *req.Priority, domain.MaxUserPolicyPriority)
		}
		policy.Priority = *req.Priority
	}
	if req.IsActive != nil {
		policy.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	policy.LastUpdatedAt = now
	policy.LastUpdatedBy = requestingUserID

	if err := s.policyRepo.UpdatePolicy(ctx, *policy); err != nil {
		logger.Error("Failed to update policy", slog.String("error", err.Error()), slog.String("policy_id", policyID))
		return nil, fmt.Errorf("failed to update policy: %w", err)
	}

	logger.Info("Policy updated", slog.String("policy_id", policyID))
	return policy, nil
}

// DeletePolicy removes a non-system policy.
func (s *policyService) DeletePolicy(ctx context.Context, organizationID string, policyID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, organizationID, requestingUserID); err != nil {
		return err
	}

	policy, err := s.policyRepo.FindPolicyByID(ctx, organizationID, policyID)
	if err != nil {
		return err
	}
	if policy.IsSystemPolicy {
		return apperrors.NewBusinessRuleError(apperrors.CodeSystemPolicyImmutable,
			"system policy %s cannot be deleted", policyID)
	}

	if err := s.policyRepo.DeletePolicy(ctx, organizationID, policyID); err != nil {
		logger.Error("Failed to delete policy", slog.String("error", err.Error()), slog.String("policy_id", policyID))
		return fmt.Errorf("failed to delete policy: %w", err)
	}

	logger.Info("Policy deleted", slog.String("policy_id", policyID))
	return nil
}
