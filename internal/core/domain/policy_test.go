package domain_test

import (
	"testing"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowPolicy(id string, priority int) domain.AuthorizationPolicy {
	return domain.AuthorizationPolicy{
		PolicyID:       id,
		OrganizationID: "org-1",
		Name:           "allow-" + id,
		Subject:        domain.SubjectCondition{Match: domain.SubjectAny},
		Resource:       domain.ResourceCondition{Match: domain.ResourceAny},
		Action:         domain.ActionCondition{Match: domain.ActionAny},
		Environment:    domain.EnvironmentCondition{Match: domain.EnvironmentAny},
		Effect:         domain.EffectAllow,
		Priority:       priority,
		IsActive:       true,
	}
}

func memberContext(action string) domain.EvaluationContext {
	return domain.EvaluationContext{
		Subject: domain.Subject{
			UserID:          "user-1",
			Role:            domain.RoleMember,
			FunctionalRoles: []string{"APPROVER"},
		},
		Resource: domain.Resource{Type: "journal_entry", ID: "je-1"},
		Action:   action,
	}
}

func TestEvaluatePolicies_DefaultDeny(t *testing.T) {
	decision := domain.EvaluatePolicies(nil, memberContext("journal:post"))

	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.EffectDeny, decision.Effect)
	assert.Nil(t, decision.DecidedBy)
	assert.Contains(t, decision.Reason, "denied by default")
}

func TestEvaluatePolicies_LowestPriorityWins(t *testing.T) {
	deny := allowPolicy("p-deny", 10)
	deny.Effect = domain.EffectDeny
	allow := allowPolicy("p-allow", 20)

	decision := domain.EvaluatePolicies([]domain.AuthorizationPolicy{allow, deny}, memberContext("journal:post"))

	assert.False(t, decision.Allowed)
	require.NotNil(t, decision.DecidedBy)
	assert.Equal(t, "p-deny", decision.DecidedBy.PolicyID)
	assert.Len(t, decision.MatchedPolicies, 2)
}

func TestEvaluatePolicies_SystemBandRanksLast(t *testing.T) {
	systemDeny := allowPolicy("p-system", domain.SystemPolicyPriorityMin)
	systemDeny.Effect = domain.EffectDeny
	systemDeny.IsSystemPolicy = true
	userAllow := allowPolicy("p-user", domain.MaxUserPolicyPriority)

	decision := domain.EvaluatePolicies([]domain.AuthorizationPolicy{systemDeny, userAllow}, memberContext("journal:post"))

	// A user policy at the cap still beats the system band.
	assert.True(t, decision.Allowed)
	require.NotNil(t, decision.DecidedBy)
	assert.Equal(t, "p-user", decision.DecidedBy.PolicyID)
}

func TestEvaluatePolicies_InactivePoliciesIgnored(t *testing.T) {
	p := allowPolicy("p-1", 1)
	p.IsActive = false

	decision := domain.EvaluatePolicies([]domain.AuthorizationPolicy{p}, memberContext("journal:post"))

	assert.False(t, decision.Allowed)
	assert.Empty(t, decision.MatchedPolicies)
}

func TestEvaluatePolicies_TieBrokenByPolicyID(t *testing.T) {
	b := allowPolicy("p-b", 50)
	a := allowPolicy("p-a", 50)
	a.Effect = domain.EffectDeny

	decision := domain.EvaluatePolicies([]domain.AuthorizationPolicy{b, a}, memberContext("journal:post"))

	require.NotNil(t, decision.DecidedBy)
	assert.Equal(t, "p-a", decision.DecidedBy.PolicyID)
	assert.False(t, decision.Allowed)
}

func TestEvaluatePolicies_SubjectConditions(t *testing.T) {
	ctx := memberContext("journal:approve")

	tests := []struct {
		name      string
		condition domain.SubjectCondition
		wantMatch bool
	}{
		{"any", domain.SubjectCondition{Match: domain.SubjectAny}, true},
		{"user in set", domain.SubjectCondition{Match: domain.SubjectUserIn, Values: []string{"user-1", "user-2"}}, true},
		{"user not in set", domain.SubjectCondition{Match: domain.SubjectUserIn, Values: []string{"user-9"}}, false},
		{"role in set", domain.SubjectCondition{Match: domain.SubjectRoleIn, Values: []string{"MEMBER"}}, true},
		{"role not in set", domain.SubjectCondition{Match: domain.SubjectRoleIn, Values: []string{"ADMIN"}}, false},
		{"functional role", domain.SubjectCondition{Match: domain.SubjectFunctionalRoleIn, Values: []string{"APPROVER"}}, true},
		{"missing functional role", domain.SubjectCondition{Match: domain.SubjectFunctionalRoleIn, Values: []string{"CONTROLLER"}}, false},
		{"platform admin flag unset", domain.SubjectCondition{Match: domain.SubjectPlatformAdmin}, false},
		{"unknown variant never matches", domain.SubjectCondition{Match: "SOMETHING_ELSE"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := allowPolicy("p-1", 10)
			p.Subject = tt.condition
			decision := domain.EvaluatePolicies([]domain.AuthorizationPolicy{p}, ctx)
			assert.Equal(t, tt.wantMatch, decision.Allowed)
		})
	}
}

func TestEvaluatePolicies_ResourceAndActionConditions(t *testing.T) {
	ctx := memberContext("journal:post")

	tests := []struct {
		name      string
		mutate    func(*domain.AuthorizationPolicy)
		wantMatch bool
	}{
		{"resource type equals", func(p *domain.AuthorizationPolicy) {
			p.Resource = domain.ResourceCondition{Match: domain.ResourceTypeEquals, Values: []string{"journal_entry"}}
		}, true},
		{"resource type differs", func(p *domain.AuthorizationPolicy) {
			p.Resource = domain.ResourceCondition{Match: domain.ResourceTypeEquals, Values: []string{"account"}}
		}, false},
		{"resource id in set", func(p *domain.AuthorizationPolicy) {
			p.Resource = domain.ResourceCondition{Match: domain.ResourceIDIn, Values: []string{"je-1"}}
		}, true},
		{"action in set", func(p *domain.AuthorizationPolicy) {
			p.Action = domain.ActionCondition{Match: domain.ActionIn, Values: []string{"journal:post", "journal:reverse"}}
		}, true},
		{"action not in set", func(p *domain.AuthorizationPolicy) {
			p.Action = domain.ActionCondition{Match: domain.ActionIn, Values: []string{"journal:approve"}}
		}, false},
		{"environment attribute equals", func(p *domain.AuthorizationPolicy) {
			p.Environment = domain.EnvironmentCondition{Match: domain.EnvironmentAttributeEquals, Key: "channel", Value: "api"}
		}, false}, // context has no environment attributes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := allowPolicy("p-1", 10)
			tt.mutate(&p)
			decision := domain.EvaluatePolicies([]domain.AuthorizationPolicy{p}, ctx)
			assert.Equal(t, tt.wantMatch, decision.Allowed)
		})
	}
}

func TestEvaluatePolicies_EnvironmentAttribute(t *testing.T) {
	p := allowPolicy("p-1", 10)
	p.Environment = domain.EnvironmentCondition{Match: domain.EnvironmentAttributeEquals, Key: "channel", Value: "api"}

	ctx := memberContext("journal:post")
	ctx.Environment = map[string]string{"channel": "api"}

	decision := domain.EvaluatePolicies([]domain.AuthorizationPolicy{p}, ctx)
	assert.True(t, decision.Allowed)
}
