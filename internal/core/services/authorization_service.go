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
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// authorizationService runs the policy engine for authenticated requests and
// seeds the system policy band for new organizations.
type authorizationService struct {
	policyRepo portsrepo.PolicyRepositoryFacade
	orgRepo    portsrepo.OrganizationRepositoryFacade
	userRepo   portsrepo.UserRepositoryFacade
}

// NewAuthorizationService creates the policy evaluation service.
func NewAuthorizationService(policyRepo portsrepo.PolicyRepositoryFacade, orgRepo portsrepo.OrganizationRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.AuthorizationSvc {
	return &authorizationService{policyRepo: policyRepo, orgRepo: orgRepo, userRepo: userRepo}
}

var _ portssvc.AuthorizationSvc = (*authorizationService)(nil)

// buildSubject resolves the user's organization membership and platform-admin
// flag into the subject the engine matches against.
func (s *authorizationService) buildSubject(ctx context.Context, userID, organizationID string) (domain.Subject, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Subject{}, fmt.Errorf("%w: unknown user", apperrors.ErrForbidden)
		}
		return domain.Subject{}, fmt.Errorf("failed to look up user: %w", err)
	}

	subject := domain.Subject{
		UserID:          userID,
		IsPlatformAdmin: user.IsPlatformAdmin,
	}

	membership, err := s.orgRepo.FindUserOrganizationRole(ctx, userID, organizationID)
	switch {
	case err == nil:
		subject.Role = membership.Role
		subject.FunctionalRoles = membership.FunctionalRoles
	case errors.Is(err, apperrors.ErrNotFound):
		// Platform admins may act in organizations they are not members of;
		// everyone else carries no role and relies on the default deny.
		if !user.IsPlatformAdmin {
			return domain.Subject{}, fmt.Errorf("%w: user is not a member of this organization", apperrors.ErrForbidden)
		}
	default:
		return domain.Subject{}, fmt.Errorf("failed to look up membership: %w", err)
	}

	if subject.Role == domain.RoleRemoved {
		return domain.Subject{}, fmt.Errorf("%w: membership has been removed", apperrors.ErrForbidden)
	}
	return subject, nil
}

// Authorize evaluates the organization's active policies for the request. A
// denial comes back as an error wrapping apperrors.ErrForbidden so callers can
// map it uniformly.
func (s *authorizationService) Authorize(ctx context.Context, userID string, organizationID string, resource domain.Resource, action string) (*domain.Decision, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	subject, err := s.buildSubject(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			middleware.RecordAuthorizationDenial(action)
		}
		return nil, err
	}

	ec := domain.EvaluationContext{
		Subject:  subject,
		Resource: resource,
		Action:   action,
	}
	decision, err := s.Evaluate(ctx, organizationID, ec)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		middleware.RecordAuthorizationDenial(action)
		logger.Warn("Authorization denied",
			slog.String("organization_id", organizationID),
			slog.String("action", action),
			slog.String("resource_type", resource.Type),
			slog.String("reason", decision.Reason))
		return decision, fmt.Errorf("%w: %s", apperrors.ErrForbidden, decision.Reason)
	}
	return decision, nil
}

// Evaluate runs the engine against an explicit context without side effects.
func (s *authorizationService) Evaluate(ctx context.Context, organizationID string, ec domain.EvaluationContext) (*domain.Decision, error) {
	policies, err := s.policyRepo.ListActivePoliciesByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	decision := domain.EvaluatePolicies(policies, ec)
	return &decision, nil
}

// systemPolicies is the seed set for every organization. Admins get a blanket
// allow at the bottom of the system band, members get the day-to-day
// accounting actions, and a deny-all catch-all closes the band.
func systemPolicies(organizationID, createdBy string, now time.Time) []domain.AuthorizationPolicy {
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     createdBy,
		LastUpdatedAt: now,
		LastUpdatedBy: createdBy,
	}
	return []domain.AuthorizationPolicy{
		{
			PolicyID:       uuid.NewString(),
			OrganizationID: organizationID,
			Name:           "system-admin-allow-all",
			Description:    "Organization admins may perform any action",
			Subject:        domain.SubjectCondition{Match: domain.SubjectRoleIn, Values: []string{string(domain.RoleAdmin)}},
			Resource:       domain.ResourceCondition{Match: domain.ResourceAny},
			Action:         domain.ActionCondition{Match: domain.ActionAny},
			Environment:    domain.EnvironmentCondition{Match: domain.EnvironmentAny},
			Effect:         domain.EffectAllow,
			Priority:       domain.SystemPolicyPriorityMin,
			IsSystemPolicy: true,
			IsActive:       true,
			AuditFields:    audit,
		},
		{
			PolicyID:       uuid.NewString(),
			OrganizationID: organizationID,
			Name:           "system-member-standard-actions",
			Description:    "Members may read and work with entries, accounts, periods, and reports",
			Subject:        domain.SubjectCondition{Match: domain.SubjectRoleIn, Values: []string{string(domain.RoleMember)}},
			Resource:       domain.ResourceCondition{Match: domain.ResourceTypeIn, Values: []string{"journal_entry", "account", "fiscal_period", "report"}},
			Action: domain.ActionCondition{Match: domain.ActionIn, Values: []string{
				"journal_entry:create", "journal_entry:read", "journal_entry:update", "journal_entry:submit", "journal_entry:delete",
				"account:read", "fiscal_period:read", "report:read",
			}},
			Environment:    domain.EnvironmentCondition{Match: domain.EnvironmentAny},
			Effect:         domain.EffectAllow,
			Priority:       domain.SystemPolicyPriorityMin + 10,
			IsSystemPolicy: true,
			IsActive:       true,
			AuditFields:    audit,
		},
		{
			PolicyID:       uuid.NewString(),
			OrganizationID: organizationID,
			Name:           "system-readonly-read-actions",
			Description:    "Read-only members may read entries, accounts, periods, and reports",
			Subject:        domain.SubjectCondition{Match: domain.SubjectRoleIn, Values: []string{string(domain.RoleReadOnly)}},
			Resource:       domain.ResourceCondition{Match: domain.ResourceTypeIn, Values: []string{"journal_entry", "account", "fiscal_period", "report"}},
			Action: domain.ActionCondition{Match: domain.ActionIn, Values: []string{
				"journal_entry:read", "account:read", "fiscal_period:read", "report:read",
			}},
			Environment:    domain.EnvironmentCondition{Match: domain.EnvironmentAny},
			Effect:         domain.EffectAllow,
			Priority:       domain.SystemPolicyPriorityMin + 20,
			IsSystemPolicy: true,
			IsActive:       true,
			AuditFields:    audit,
		},
		{
			PolicyID:       uuid.NewString(),
			OrganizationID: organizationID,
			Name:           "system-default-deny",
			Description:    "Deny anything no earlier policy allowed",
			Subject:        domain.SubjectCondition{Match: domain.SubjectAny},
			Resource:       domain.ResourceCondition{Match: domain.ResourceAny},
			Action:         domain.ActionCondition{Match: domain.ActionAny},
			Environment:    domain.EnvironmentCondition{Match: domain.EnvironmentAny},
			Effect:         domain.EffectDeny,
			Priority:       domain.SystemPolicyPriorityMax,
			IsSystemPolicy: true,
			IsActive:       true,
			AuditFields:    audit,
		},
	}
}

// EnsureSystemPolicies seeds the system policy band for an organization.
// Seeding is idempotent: if any system policy already exists, nothing is done.
func (s *authorizationService) EnsureSystemPolicies(ctx context.Context, organizationID string, createdBy string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.policyRepo.ListPoliciesByOrganization(ctx, organizationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check existing policies: %w", err)
	}
	for _, p := range existing {
		if p.IsSystemPolicy {
			return nil
		}
	}

	now := time.Now().UTC()
	for _, policy := range systemPolicies(organizationID, createdBy, now) {
		if err := s.policyRepo.SavePolicy(ctx, policy); err != nil {
			logger.Error("Failed to seed system policy", slog.String("error", err.Error()), slog.String("name", policy.Name))
			return fmt.Errorf("failed to seed system policy %s: %w", policy.Name, err)
		}
	}

	logger.Info("System policies seeded", slog.String("organization_id", organizationID))
	return nil
}
