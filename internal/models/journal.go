package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a row in the journal_entries table.
type JournalEntry struct {
	EntryID          string     `db:"entry_id"`
	CompanyID        string     `db:"company_id"`
	EntryNumber      string     `db:"entry_number"`
	ReferenceNumber  string     `db:"reference_number"`
	Description      string     `db:"description"`
	TransactionDate  time.Time  `db:"transaction_date"`
	DocumentDate     *time.Time `db:"document_date"`
	FiscalYear       int        `db:"fiscal_year"`
	FiscalPeriod     int        `db:"fiscal_period"`
	EntryType        string     `db:"entry_type"`
	SourceModule     string     `db:"source_module"`
	IsMultiCurrency  bool       `db:"is_multi_currency"`
	Status           string     `db:"status"`
	IsReversing      bool       `db:"is_reversing"`
	ReversedEntryID  *string    `db:"reversed_entry_id"`
	ReversingEntryID *string    `db:"reversing_entry_id"`
	RejectionReason  string     `db:"rejection_reason"`
	PostingDate      *time.Time `db:"posting_date"`
	PostedBy         *string    `db:"posted_by"`
	PostedAt         *time.Time `db:"posted_at"`
	AuditFields
}

// JournalEntryLine represents a row in the journal_entry_lines table.
// Dimensions are stored as a JSONB column.
type JournalEntryLine struct {
	LineID                         string            `db:"line_id"`
	EntryID                        string            `db:"entry_id"`
	LineNumber                     int               `db:"line_number"`
	AccountID                      string            `db:"account_id"`
	DebitAmount                    decimal.Decimal   `db:"debit_amount"`
	CreditAmount                   decimal.Decimal   `db:"credit_amount"`
	CurrencyCode                   string            `db:"currency_code"`
	ExchangeRate                   decimal.Decimal   `db:"exchange_rate"`
	FunctionalCurrencyDebitAmount  decimal.Decimal   `db:"functional_debit_amount"`
	FunctionalCurrencyCreditAmount decimal.Decimal   `db:"functional_credit_amount"`
	Memo                           string            `db:"memo"`
	Dimensions                     map[string]string `db:"dimensions"`
	IntercompanyPartnerID          *string           `db:"intercompany_partner_id"`
	MatchingLineID                 *string           `db:"matching_line_id"`
	AuditFields
}
