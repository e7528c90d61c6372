package domain

import "time"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance indicates which side increases an account.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// Account is a node in a company's chart of accounts. Accounts form a tree via
// ParentAccountID; only postable (leaf-usable) accounts may appear on journal
// entry lines, non-postable accounts are summary nodes.
type Account struct {
	AccountID       string        `json:"accountID"` // Primary Key (UUID)
	CompanyID       string        `json:"companyID"`
	AccountNumber   string        `json:"accountNumber"` // Unique within the company
	Name            string        `json:"name"`
	AccountType     AccountType   `json:"accountType"`
	AccountCategory string        `json:"accountCategory"` // e.g. "CURRENT_ASSET", "OPERATING_EXPENSE"
	NormalBalance   NormalBalance `json:"normalBalance"`
	ParentAccountID *string       `json:"parentAccountID"` // Nullable self-reference, same company only
	HierarchyLevel  int           `json:"hierarchyLevel"`  // 1 for roots, parent level + 1 otherwise
	CurrencyCode    string        `json:"currencyCode"`    // Natural currency of the account
	Description     string        `json:"description"`
	IsPostable      bool          `json:"isPostable"`
	IsActive        bool          `json:"isActive"`
	DeactivatedAt   *time.Time    `json:"deactivatedAt,omitempty"`
	AuditFields
}
