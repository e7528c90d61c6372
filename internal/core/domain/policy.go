package domain

import (
	"fmt"
	"sort"
)

// PolicyEffect is the outcome a matching policy produces.
type PolicyEffect string

const (
	EffectAllow PolicyEffect = "ALLOW"
	EffectDeny  PolicyEffect = "DENY"
)

// Priority bands. User-managed policies must stay below the system band so
// seeded system policies always resolve after them.
const (
	MaxUserPolicyPriority   = 899
	SystemPolicyPriorityMin = 900
	SystemPolicyPriorityMax = 999
)

// SubjectMatch enumerates the closed set of subject condition variants.
type SubjectMatch string

const (
	SubjectAny              SubjectMatch = "ANY"
	SubjectUserIn           SubjectMatch = "USER_IN"
	SubjectRoleIn           SubjectMatch = "ROLE_IN"
	SubjectFunctionalRoleIn SubjectMatch = "FUNCTIONAL_ROLE_IN"
	SubjectPlatformAdmin    SubjectMatch = "PLATFORM_ADMIN"
)

// SubjectCondition matches against the authenticated subject.
type SubjectCondition struct {
	Match  SubjectMatch `json:"match"`
	Values []string     `json:"values,omitempty"`
}

// ResourceMatch enumerates the closed set of resource condition variants.
type ResourceMatch string

const (
	ResourceAny        ResourceMatch = "ANY"
	ResourceTypeEquals ResourceMatch = "TYPE_EQUALS"
	ResourceTypeIn     ResourceMatch = "TYPE_IN"
	ResourceIDIn       ResourceMatch = "ID_IN"
)

// ResourceCondition matches against the target resource.
type ResourceCondition struct {
	Match  ResourceMatch `json:"match"`
	Values []string      `json:"values,omitempty"`
}

// ActionMatch enumerates the closed set of action condition variants.
type ActionMatch string

const (
	ActionAny ActionMatch = "ANY"
	ActionIn  ActionMatch = "IN"
)

// ActionCondition matches against the requested action (e.g. "journal:post").
type ActionCondition struct {
	Match  ActionMatch `json:"match"`
	Values []string    `json:"values,omitempty"`
}

// EnvironmentMatch enumerates the closed set of environment condition variants.
type EnvironmentMatch string

const (
	EnvironmentAny             EnvironmentMatch = "ANY"
	EnvironmentAttributeEquals EnvironmentMatch = "ATTRIBUTE_EQUALS"
)

// EnvironmentCondition matches against request environment attributes.
type EnvironmentCondition struct {
	Match EnvironmentMatch `json:"match"`
	Key   string           `json:"key,omitempty"`
	Value string           `json:"value,omitempty"`
}

// AuthorizationPolicy is a declarative allow/deny rule scoped to one
// organization. System policies are seeded, immutable, and occupy the
// reserved priority band.
type AuthorizationPolicy struct {
	PolicyID       string               `json:"policyID"` // Primary Key (UUID)
	OrganizationID string               `json:"organizationID"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Subject        SubjectCondition     `json:"subject"`
	Resource       ResourceCondition    `json:"resource"`
	Action         ActionCondition      `json:"action"`
	Environment    EnvironmentCondition `json:"environment"`
	Effect         PolicyEffect         `json:"effect"`
	Priority       int                  `json:"priority"` // Lower values are evaluated first
	IsSystemPolicy bool                 `json:"isSystemPolicy"`
	IsActive       bool                 `json:"isActive"`
	AuditFields
}

// Subject is the authenticated principal a policy decision is made for.
type Subject struct {
	UserID          string           `json:"userID"`
	Role            OrganizationRole `json:"role"`
	FunctionalRoles []string         `json:"functionalRoles"`
	IsPlatformAdmin bool             `json:"isPlatformAdmin"`
}

// Resource identifies the target of a request.
type Resource struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// EvaluationContext carries everything a policy may be matched against.
// The subject is always explicit; there is no ambient current-user state.
type EvaluationContext struct {
	Subject     Subject           `json:"subject"`
	Resource    Resource          `json:"resource"`
	Action      string            `json:"action"`
	Environment map[string]string `json:"environment,omitempty"`
}

// Decision is the outcome of evaluating a policy set against a context.
type Decision struct {
	Allowed         bool                  `json:"allowed"`
	Effect          PolicyEffect          `json:"effect"`
	MatchedPolicies []AuthorizationPolicy `json:"matchedPolicies,omitempty"`
	DecidedBy       *AuthorizationPolicy  `json:"decidedBy,omitempty"`
	Reason          string                `json:"reason"`
}

// EvaluatePolicies evaluates the policy set against the context. Matching is a
// conjunction of the four conditions; among matching active policies the one
// with the lowest priority number wins (policy ID breaks ties to keep the
// result deterministic). No match means deny.
func EvaluatePolicies(policies []AuthorizationPolicy, ec EvaluationContext) Decision {
	matched := make([]AuthorizationPolicy, 0, len(policies))
	for _, p := range policies {
		if !p.IsActive {
			continue
		}
		if policyMatches(p, ec) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		return Decision{
			Allowed: false,
			Effect:  EffectDeny,
			Reason:  fmt.Sprintf("no policy matched action %q on resource %q; denied by default", ec.Action, ec.Resource.Type),
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority < matched[j].Priority
		}
		return matched[i].PolicyID < matched[j].PolicyID
	})

	winner := matched[0]
	return Decision{
		Allowed:         winner.Effect == EffectAllow,
		Effect:          winner.Effect,
		MatchedPolicies: matched,
		DecidedBy:       &winner,
		Reason:          fmt.Sprintf("policy %q (priority %d) %s action %q", winner.Name, winner.Priority, verbFor(winner.Effect), ec.Action),
	}
}

func verbFor(effect PolicyEffect) string {
	if effect == EffectAllow {
		return "allowed"
	}
	return "denied"
}

func policyMatches(p AuthorizationPolicy, ec EvaluationContext) bool {
	return matchSubject(p.Subject, ec.Subject) &&
		matchResource(p.Resource, ec.Resource) &&
		matchAction(p.Action, ec.Action) &&
		matchEnvironment(p.Environment, ec.Environment)
}

func matchSubject(c SubjectCondition, s Subject) bool {
	switch c.Match {
	case SubjectAny, "":
		return true
	case SubjectUserIn:
		return containsString(c.Values, s.UserID)
	case SubjectRoleIn:
		return containsString(c.Values, string(s.Role))
	case SubjectFunctionalRoleIn:
		for _, fr := range s.FunctionalRoles {
			if containsString(c.Values, fr) {
				return true
			}
		}
		return false
	case SubjectPlatformAdmin:
		return s.IsPlatformAdmin
	default:
		// Unknown variant never matches; keeps evaluation deterministic.
		return false
	}
}

func matchResource(c ResourceCondition, r Resource) bool {
	switch c.Match {
	case ResourceAny, "":
		return true
	case ResourceTypeEquals:
		return len(c.Values) == 1 && c.Values[0] == r.Type
	case ResourceTypeIn:
		return containsString(c.Values, r.Type)
	case ResourceIDIn:
		return r.ID != "" && containsString(c.Values, r.ID)
	default:
		return false
	}
}

func matchAction(c ActionCondition, action string) bool {
	switch c.Match {
	case ActionAny, "":
		return true
	case ActionIn:
		return containsString(c.Values, action)
	default:
		return false
	}
}

func matchEnvironment(c EnvironmentCondition, env map[string]string) bool {
	switch c.Match {
	case EnvironmentAny, "":
		return true
	case EnvironmentAttributeEquals:
		return env[c.Key] == c.Value
	default:
		return false
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
