package domain

import "time"

// Organization is the top-level tenant. Companies, policies, and memberships
// are all scoped to exactly one organization.
type Organization struct {
	OrganizationID string `json:"organizationID"` // Primary Key (UUID)
	Name           string `json:"name"`
	Description    string `json:"description"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}

// OrganizationRole defines the possible roles a user can have within an organization.
type OrganizationRole string

const (
	RoleAdmin    OrganizationRole = "ADMIN"
	RoleMember   OrganizationRole = "MEMBER"
	RoleReadOnly OrganizationRole = "READONLY"
	RoleRemoved  OrganizationRole = "REMOVED" // Users who have been removed from the organization
)

// UserOrganization represents the membership of a User in an Organization.
// FunctionalRoles are finer-grained capabilities (e.g. "APPROVER", "CONTROLLER")
// consumed by the policy engine's subject conditions.
type UserOrganization struct {
	UserID          string           `json:"userID"`
	UserName        string           `json:"userName"`
	OrganizationID  string           `json:"organizationID"`
	Role            OrganizationRole `json:"role"`
	FunctionalRoles []string         `json:"functionalRoles"`
	JoinedAt        time.Time        `json:"joinedAt"`
}
