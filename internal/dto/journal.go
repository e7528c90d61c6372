package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest defines one line of a journal entry being created.
// Exactly one of debitAmount/creditAmount should carry a positive value.
type CreateEntryLineRequest struct {
	LineNumber            int                  `json:"lineNumber" binding:"required,gt=0"`
	AccountID             string               `json:"accountID" binding:"required"`
	DebitAmount           *decimal.Decimal     `json:"debitAmount" binding:"omitempty,decimalgtzero"`
	CreditAmount          *decimal.Decimal     `json:"creditAmount" binding:"omitempty,decimalgtzero"`
	CurrencyCode          string               `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate          *decimal.Decimal     `json:"exchangeRate"` // Optional; looked up when absent
	Memo                  string               `json:"memo"`
	Dimensions            map[string]string    `json:"dimensions"`
	IntercompanyPartnerID *string              `json:"intercompanyPartnerID"`
}

// CreateJournalEntryRequest defines the data needed to create a draft entry.
type CreateJournalEntryRequest struct {
	ReferenceNumber string                   `json:"referenceNumber"`
	Description     string                   `json:"description" binding:"required"`
	TransactionDate time.Time                `json:"transactionDate" binding:"required"`
	DocumentDate    *time.Time               `json:"documentDate"`
	FiscalYear      int                      `json:"fiscalYear" binding:"required"`
	FiscalPeriod    int                      `json:"fiscalPeriod" binding:"required,gte=1,lte=13"`
	EntryType       domain.EntryType         `json:"entryType" binding:"omitempty,oneof=STANDARD ADJUSTING CLOSING OPENING"`
	SourceModule    string                   `json:"sourceModule"`
	Lines           []CreateEntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateJournalEntryRequest defines the data allowed for updating a draft entry.
// A non-nil Lines slice replaces the entire line set and re-runs validation.
type UpdateJournalEntryRequest struct {
	ReferenceNumber *string                   `json:"referenceNumber"`
	Description     *string                   `json:"description"`
	TransactionDate *time.Time                `json:"transactionDate"`
	DocumentDate    *time.Time                `json:"documentDate"`
	Lines           *[]CreateEntryLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

// RejectEntryRequest carries the optional rejection reason.
type RejectEntryRequest struct {
	Reason string `json:"reason"`
}

// PostEntryRequest carries the optional posting date; it defaults to the
// entry's transaction date.
type PostEntryRequest struct {
	PostingDate *time.Time `json:"postingDate"`
}

// ReverseEntryRequest carries the optional reversal date and description.
type ReverseEntryRequest struct {
	ReversalDate *time.Time `json:"reversalDate"`
	Description  *string    `json:"description"`
}

// ListEntriesParams holds query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeLines     bool    `form:"includeLines"`
}

// ListLinesParams holds query parameters for listing lines by account.
type ListLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// EntryLineResponse defines the data returned for an entry line.
type EntryLineResponse struct {
	LineID                         string            `json:"lineID"`
	LineNumber                     int               `json:"lineNumber"`
	AccountID                      string            `json:"accountID"`
	DebitAmount                    decimal.Decimal   `json:"debitAmount"`
	CreditAmount                   decimal.Decimal   `json:"creditAmount"`
	CurrencyCode                   string            `json:"currencyCode"`
	ExchangeRate                   decimal.Decimal   `json:"exchangeRate"`
	FunctionalCurrencyDebitAmount  decimal.Decimal   `json:"functionalCurrencyDebitAmount"`
	FunctionalCurrencyCreditAmount decimal.Decimal   `json:"functionalCurrencyCreditAmount"`
	Memo                           string            `json:"memo,omitempty"`
	Dimensions                     map[string]string `json:"dimensions,omitempty"`
	IntercompanyPartnerID          *string           `json:"intercompanyPartnerID,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string              `json:"entryID"`
	CompanyID        string              `json:"companyID"`
	EntryNumber      string              `json:"entryNumber"`
	ReferenceNumber  string              `json:"referenceNumber,omitempty"`
	Description      string              `json:"description"`
	TransactionDate  time.Time           `json:"transactionDate"`
	DocumentDate     *time.Time          `json:"documentDate,omitempty"`
	FiscalYear       int                 `json:"fiscalYear"`
	FiscalPeriod     int                 `json:"fiscalPeriod"`
	EntryType        domain.EntryType    `json:"entryType"`
	SourceModule     string              `json:"sourceModule,omitempty"`
	IsMultiCurrency  bool                `json:"isMultiCurrency"`
	Status           domain.EntryStatus  `json:"status"`
	IsReversing      bool                `json:"isReversing"`
	ReversedEntryID  *string             `json:"reversedEntryID,omitempty"`
	ReversingEntryID *string             `json:"reversingEntryID,omitempty"`
	RejectionReason  string              `json:"rejectionReason,omitempty"`
	PostingDate      *time.Time          `json:"postingDate,omitempty"`
	PostedBy         *string             `json:"postedBy,omitempty"`
	PostedAt         *time.Time          `json:"postedAt,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	CreatedBy        string              `json:"createdBy"`
	Lines            []EntryLineResponse `json:"lines,omitempty"`
}

// ListEntriesResponse wraps a page of journal entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ListLinesResponse wraps a page of entry lines.
type ListLinesResponse struct {
	Lines     []EntryLineResponse `json:"lines"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain line to its response DTO.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:                         l.LineID,
		LineNumber:                     l.LineNumber,
		AccountID:                      l.AccountID,
		DebitAmount:                    l.DebitAmount,
		CreditAmount:                   l.CreditAmount,
		CurrencyCode:                   l.CurrencyCode,
		ExchangeRate:                   l.ExchangeRate,
		FunctionalCurrencyDebitAmount:  l.FunctionalCurrencyDebitAmount,
		FunctionalCurrencyCreditAmount: l.FunctionalCurrencyCreditAmount,
		Memo:                           l.Memo,
		Dimensions:                     l.Dimensions,
		IntercompanyPartnerID:          l.IntercompanyPartnerID,
	}
}

// ToEntryLineResponses converts a slice of domain lines to response DTOs.
func ToEntryLineResponses(lines []domain.JournalEntryLine) []EntryLineResponse {
	responses := make([]EntryLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToEntryLineResponse(&lines[i])
	}
	return responses
}

// ToJournalEntryResponse converts a domain entry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          e.EntryID,
		CompanyID:        e.CompanyID,
		EntryNumber:      e.EntryNumber,
		ReferenceNumber:  e.ReferenceNumber,
		Description:      e.Description,
		TransactionDate:  e.TransactionDate,
		DocumentDate:     e.DocumentDate,
		FiscalYear:       e.FiscalPeriod.Year,
		FiscalPeriod:     e.FiscalPeriod.Period,
		EntryType:        e.EntryType,
		SourceModule:     e.SourceModule,
		IsMultiCurrency:  e.IsMultiCurrency,
		Status:           e.Status,
		IsReversing:      e.IsReversing,
		ReversedEntryID:  e.ReversedEntryID,
		ReversingEntryID: e.ReversingEntryID,
		RejectionReason:  e.RejectionReason,
		PostingDate:      e.PostingDate,
		PostedBy:         e.PostedBy,
		PostedAt:         e.PostedAt,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = ToEntryLineResponses(e.Lines)
	}
	return resp
}
