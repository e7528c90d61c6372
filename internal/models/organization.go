package models

import "time"

// Organization represents a row in the organizations table.
type Organization struct {
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	Description    string `db:"description"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}

// UserOrganization represents a row in the user_organizations membership table.
type UserOrganization struct {
	UserID          string    `db:"user_id"`
	UserName        string    `db:"user_name"`
	OrganizationID  string    `db:"organization_id"`
	Role            string    `db:"role"`
	FunctionalRoles []string  `db:"functional_roles"`
	JoinedAt        time.Time `db:"joined_at"`
}
