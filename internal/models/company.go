package models

// Company represents a row in the companies table.
type Company struct {
	CompanyID              string `db:"company_id"`
	OrganizationID         string `db:"organization_id"`
	Name                   string `db:"name"`
	LegalName              string `db:"legal_name"`
	FunctionalCurrencyCode string `db:"functional_currency_code"`
	CountryCode            string `db:"country_code"`
	IsActive               bool   `db:"is_active"`
	AuditFields
}
