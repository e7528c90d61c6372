package models

// ConsolidationGroup represents a row in the consolidation_groups table.
// Membership rows live in consolidation_group_members.
type ConsolidationGroup struct {
	GroupID                  string `db:"group_id"`
	OrganizationID           string `db:"organization_id"`
	Name                     string `db:"name"`
	Description              string `db:"description"`
	PresentationCurrencyCode string `db:"presentation_currency_code"`
	IsActive                 bool   `db:"is_active"`
	AuditFields
}
