package domain

// ConsolidationGroup bundles companies of one organization for combined
// reporting. The presentation currency is the currency consolidated figures
// are reported in.
type ConsolidationGroup struct {
	GroupID                  string `json:"groupID"` // Primary Key (UUID)
	OrganizationID           string `json:"organizationID"`
	Name                     string `json:"name"`
	Description              string `json:"description"`
	PresentationCurrencyCode string `json:"presentationCurrencyCode"`
	IsActive                 bool   `json:"isActive"`
	AuditFields
	MemberCompanyIDs []string `json:"memberCompanyIDs,omitempty"` // Often loaded separately
}
