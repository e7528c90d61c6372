package models

import "time"

// Account represents a row in the accounts table.
type Account struct {
	AccountID       string  `db:"account_id"`
	CompanyID       string  `db:"company_id"`
	AccountNumber   string  `db:"account_number"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	AccountCategory string  `db:"account_category"`
	NormalBalance   string  `db:"normal_balance"`
	ParentAccountID *string `db:"parent_account_id"`
	HierarchyLevel  int     `db:"hierarchy_level"`
	CurrencyCode    string  `db:"currency_code"`
	Description     string  `db:"description"`
	IsPostable      bool    `db:"is_postable"`
	IsActive        bool    `db:"is_active"`
	DeactivatedAt   *time.Time `db:"deactivated_at"`
	AuditFields
}
