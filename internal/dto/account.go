package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountNumber   string               `json:"accountNumber" binding:"required"`
	Name            string               `json:"name" binding:"required"`
	AccountType     domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	AccountCategory string               `json:"accountCategory"`
	NormalBalance   domain.NormalBalance `json:"normalBalance" binding:"required,oneof=DEBIT CREDIT"`
	ParentAccountID *string              `json:"parentAccountID"`
	CurrencyCode    string               `json:"currencyCode" binding:"required,len=3"`
	Description     string               `json:"description"`
	IsPostable      bool                 `json:"isPostable"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name            *string `json:"name"`
	AccountCategory *string `json:"accountCategory"`
	ParentAccountID *string `json:"parentAccountID"`
	Description     *string `json:"description"`
	IsPostable      *bool   `json:"isPostable"`
}

// ListAccountsParams holds query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string               `json:"accountID"`
	CompanyID       string               `json:"companyID"`
	AccountNumber   string               `json:"accountNumber"`
	Name            string               `json:"name"`
	AccountType     domain.AccountType   `json:"accountType"`
	AccountCategory string               `json:"accountCategory,omitempty"`
	NormalBalance   domain.NormalBalance `json:"normalBalance"`
	ParentAccountID *string              `json:"parentAccountID,omitempty"`
	HierarchyLevel  int                  `json:"hierarchyLevel"`
	CurrencyCode    string               `json:"currencyCode"`
	Description     string               `json:"description,omitempty"`
	IsPostable      bool                 `json:"isPostable"`
	IsActive        bool                 `json:"isActive"`
	DeactivatedAt   *time.Time           `json:"deactivatedAt,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		CompanyID:       acc.CompanyID,
		AccountNumber:   acc.AccountNumber,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		AccountCategory: acc.AccountCategory,
		NormalBalance:   acc.NormalBalance,
		ParentAccountID: acc.ParentAccountID,
		HierarchyLevel:  acc.HierarchyLevel,
		CurrencyCode:    acc.CurrencyCode,
		Description:     acc.Description,
		IsPostable:      acc.IsPostable,
		IsActive:        acc.IsActive,
		DeactivatedAt:   acc.DeactivatedAt,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
