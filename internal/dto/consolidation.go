package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CreateConsolidationGroupRequest defines the data needed to create a group.
type CreateConsolidationGroupRequest struct {
	Name                     string   `json:"name" binding:"required"`
	Description              string   `json:"description"`
	PresentationCurrencyCode string   `json:"presentationCurrencyCode" binding:"required,len=3"`
	MemberCompanyIDs         []string `json:"memberCompanyIDs" binding:"required,min=1"`
}

// UpdateConsolidationGroupRequest defines the data allowed for updating a group.
type UpdateConsolidationGroupRequest struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	MemberCompanyIDs *[]string `json:"memberCompanyIDs" binding:"omitempty,min=1"`
	IsActive         *bool     `json:"isActive"`
}

// ConsolidationGroupResponse defines the data returned for a group.
type ConsolidationGroupResponse struct {
	GroupID                  string    `json:"groupID"`
	OrganizationID           string    `json:"organizationID"`
	Name                     string    `json:"name"`
	Description              string    `json:"description,omitempty"`
	PresentationCurrencyCode string    `json:"presentationCurrencyCode"`
	IsActive                 bool      `json:"isActive"`
	MemberCompanyIDs         []string  `json:"memberCompanyIDs"`
	CreatedAt                time.Time `json:"createdAt"`
	CreatedBy                string    `json:"createdBy"`
}

// ToConsolidationGroupResponse converts a domain group to its response DTO.
func ToConsolidationGroupResponse(g *domain.ConsolidationGroup) ConsolidationGroupResponse {
	return ConsolidationGroupResponse{
		GroupID:                  g.GroupID,
		OrganizationID:           g.OrganizationID,
		Name:                     g.Name,
		Description:              g.Description,
		PresentationCurrencyCode: g.PresentationCurrencyCode,
		IsActive:                 g.IsActive,
		MemberCompanyIDs:         g.MemberCompanyIDs,
		CreatedAt:                g.CreatedAt,
		CreatedBy:                g.CreatedBy,
	}
}
