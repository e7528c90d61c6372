package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CreateOrganizationRequest defines the data needed to create an organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateOrganizationRequest defines the data allowed for updating an organization.
type UpdateOrganizationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AddMemberRequest adds a user to an organization.
type AddMemberRequest struct {
	UserID          string                  `json:"userID" binding:"required"`
	Role            domain.OrganizationRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
	FunctionalRoles []string                `json:"functionalRoles"`
}

// UpdateMemberRequest changes a member's role or functional roles.
type UpdateMemberRequest struct {
	Role            *domain.OrganizationRole `json:"role" binding:"omitempty,oneof=ADMIN MEMBER READONLY REMOVED"`
	FunctionalRoles *[]string                `json:"functionalRoles"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
}

// ToOrganizationResponse converts a domain organization to its response DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: o.OrganizationID,
		Name:           o.Name,
		Description:    o.Description,
		IsActive:       o.IsActive,
		CreatedAt:      o.CreatedAt,
		CreatedBy:      o.CreatedBy,
	}
}

// ToOrganizationResponses converts a slice of domain organizations to response DTOs.
func ToOrganizationResponses(orgs []domain.Organization) []OrganizationResponse {
	responses := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		responses[i] = ToOrganizationResponse(&orgs[i])
	}
	return responses
}
