package domain

// Company is a legal entity inside an organization that keeps its own books.
// All accounts, journal entries, and fiscal periods belong to a company.
type Company struct {
	CompanyID              string `json:"companyID"` // Primary Key (UUID)
	OrganizationID         string `json:"organizationID"`
	Name                   string `json:"name"`
	LegalName              string `json:"legalName"`
	FunctionalCurrencyCode string `json:"functionalCurrencyCode"` // Currency the books are kept in
	CountryCode            string `json:"countryCode"`
	IsActive               bool   `json:"isActive"`
	AuditFields
}
