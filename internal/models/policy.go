package models

// AuthorizationPolicy represents a row in the authorization_policies table.
// The four condition columns are JSONB documents.
type AuthorizationPolicy struct {
	PolicyID       string `db:"policy_id"`
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	Description    string `db:"description"`
	Subject        []byte `db:"subject_condition"`
	Resource       []byte `db:"resource_condition"`
	Action         []byte `db:"action_condition"`
	Environment    []byte `db:"environment_condition"`
	Effect         string `db:"effect"`
	Priority       int    `db:"priority"`
	IsSystemPolicy bool   `db:"is_system_policy"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}
