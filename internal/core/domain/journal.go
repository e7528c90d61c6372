package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates where a journal entry sits in its approval lifecycle.
type EntryStatus string

const (
	Draft           EntryStatus = "DRAFT"
	PendingApproval EntryStatus = "PENDING_APPROVAL"
	Approved        EntryStatus = "APPROVED"
	Posted          EntryStatus = "POSTED"
	Reversed        EntryStatus = "REVERSED"
)

// entryTransitions is the closed set of allowed status transitions.
// Reject (PendingApproval -> Draft) is the only backwards edge.
var entryTransitions = map[EntryStatus][]EntryStatus{
	Draft:           {PendingApproval},
	PendingApproval: {Approved, Draft},
	Approved:        {Posted},
	Posted:          {Reversed},
	Reversed:        {},
}

// CanTransition reports whether an entry may move between the two statuses.
func CanTransition(from, to EntryStatus) bool {
	for _, next := range entryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EntryType distinguishes the bookkeeping purpose of a journal entry.
type EntryType string

const (
	EntryStandard  EntryType = "STANDARD"
	EntryAdjusting EntryType = "ADJUSTING"
	EntryClosing   EntryType = "CLOSING"
	EntryOpening   EntryType = "OPENING"
	EntryReversing EntryType = "REVERSING"
)

// FiscalPeriodRef addresses a fiscal period by year and period number.
type FiscalPeriodRef struct {
	Year   int `json:"year"`
	Period int `json:"period"`
}

// JournalEntry is a double-entry bookkeeping record composed of balanced lines.
// Posted entries are immutable history; corrections go through reversal entries.
type JournalEntry struct {
	EntryID          string          `json:"entryID"` // Primary Key (UUID)
	CompanyID        string          `json:"companyID"`
	EntryNumber      string          `json:"entryNumber"` // Sequential per company + fiscal year, assigned at creation
	ReferenceNumber  string          `json:"referenceNumber"`
	Description      string          `json:"description"`
	TransactionDate  time.Time       `json:"transactionDate"`
	DocumentDate     *time.Time      `json:"documentDate,omitempty"`
	FiscalPeriod     FiscalPeriodRef `json:"fiscalPeriod"`
	EntryType        EntryType       `json:"entryType"`
	SourceModule     string          `json:"sourceModule"` // e.g. "GL", "AP", "AR"
	IsMultiCurrency  bool            `json:"isMultiCurrency"` // Derived: line currencies span more than one code
	Status           EntryStatus     `json:"status"`
	IsReversing      bool            `json:"isReversing"`
	ReversedEntryID  *string         `json:"reversedEntryID,omitempty"`  // Set on the reversal, points at the original
	ReversingEntryID *string         `json:"reversingEntryID,omitempty"` // Set on the original, points at the reversal
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	PostingDate      *time.Time      `json:"postingDate,omitempty"`
	PostedBy         *string         `json:"postedBy,omitempty"`
	PostedAt         *time.Time      `json:"postedAt,omitempty"`
	AuditFields
	Lines []JournalEntryLine `json:"lines,omitempty"` // Often loaded separately
}

// JournalEntryLine is a single debit or credit within a journal entry.
// Natural-currency amounts are converted to the company's functional currency
// via ExchangeRate; the functional amounts are what must balance.
type JournalEntryLine struct {
	LineID                          string            `json:"lineID"` // Primary Key (UUID)
	EntryID                         string            `json:"entryID"`
	LineNumber                      int               `json:"lineNumber"` // 1..N, unique within the entry
	AccountID                       string            `json:"accountID"`
	DebitAmount                     decimal.Decimal   `json:"debitAmount"`
	CreditAmount                    decimal.Decimal   `json:"creditAmount"`
	CurrencyCode                    string            `json:"currencyCode"`
	ExchangeRate                    decimal.Decimal   `json:"exchangeRate"` // Natural -> functional; 1 for same-currency lines
	FunctionalCurrencyDebitAmount   decimal.Decimal   `json:"functionalCurrencyDebitAmount"`
	FunctionalCurrencyCreditAmount  decimal.Decimal   `json:"functionalCurrencyCreditAmount"`
	Memo                            string            `json:"memo"`
	Dimensions                      map[string]string `json:"dimensions,omitempty"` // Free-form reporting tags
	IntercompanyPartnerID           *string           `json:"intercompanyPartnerID,omitempty"`
	MatchingLineID                  *string           `json:"matchingLineID,omitempty"`
	AuditFields
}
