package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ConditionRequest is the wire shape shared by the four condition slots.
type ConditionRequest struct {
	Match  string   `json:"match" binding:"required"`
	Values []string `json:"values"`
	Key    string   `json:"key"`
	Value  string   `json:"value"`
}

// CreatePolicyRequest defines the data needed to create a user policy.
type CreatePolicyRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Subject     ConditionRequest    `json:"subject" binding:"required"`
	Resource    ConditionRequest    `json:"resource" binding:"required"`
	Action      ConditionRequest    `json:"action" binding:"required"`
	Environment *ConditionRequest   `json:"environment"`
	Effect      domain.PolicyEffect `json:"effect" binding:"required,oneof=ALLOW DENY"`
	Priority    int                 `json:"priority" binding:"required,gte=0"`
	IsActive    *bool               `json:"isActive"`
}

// UpdatePolicyRequest defines the data allowed when updating a policy.
type UpdatePolicyRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Subject     *ConditionRequest    `json:"subject"`
	Resource    *ConditionRequest    `json:"resource"`
	Action      *ConditionRequest    `json:"action"`
	Environment *ConditionRequest    `json:"environment"`
	Effect      *domain.PolicyEffect `json:"effect" binding:"omitempty,oneof=ALLOW DENY"`
	Priority    *int                 `json:"priority" binding:"omitempty,gte=0"`
	IsActive    *bool                `json:"isActive"`
}

// EvaluateRequest lets administrators dry-run the policy engine.
type EvaluateRequest struct {
	UserID      string            `json:"userID" binding:"required"`
	Resource    domain.Resource   `json:"resource" binding:"required"`
	Action      string            `json:"action" binding:"required"`
	Environment map[string]string `json:"environment"`
}

// PolicyResponse defines the data returned for a policy.
type PolicyResponse struct {
	PolicyID       string                      `json:"policyID"`
	OrganizationID string                      `json:"organizationID"`
	Name           string                      `json:"name"`
	Description    string                      `json:"description,omitempty"`
	Subject        domain.SubjectCondition     `json:"subject"`
	Resource       domain.ResourceCondition    `json:"resource"`
	Action         domain.ActionCondition      `json:"action"`
	Environment    domain.EnvironmentCondition `json:"environment"`
	Effect         domain.PolicyEffect         `json:"effect"`
	Priority       int                         `json:"priority"`
	IsSystemPolicy bool                        `json:"isSystemPolicy"`
	IsActive       bool                        `json:"isActive"`
	CreatedAt      time.Time                   `json:"createdAt"`
	CreatedBy      string                      `json:"createdBy"`
}

// ToPolicyResponse converts a domain policy to its response DTO.
func ToPolicyResponse(p *domain.AuthorizationPolicy) PolicyResponse {
	return PolicyResponse{
		PolicyID:       p.PolicyID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Description:    p.Description,
		Subject:        p.Subject,
		Resource:       p.Resource,
		Action:         p.Action,
		Environment:    p.Environment,
		Effect:         p.Effect,
		Priority:       p.Priority,
		IsSystemPolicy: p.IsSystemPolicy,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		CreatedBy:      p.CreatedBy,
	}
}

// ToPolicyResponses converts a slice of domain policies to response DTOs.
func ToPolicyResponses(policies []domain.AuthorizationPolicy) []PolicyResponse {
	responses := make([]PolicyResponse, len(policies))
	for i := range policies {
		responses[i] = ToPolicyResponse(&policies[i])
	}
	return responses
}
