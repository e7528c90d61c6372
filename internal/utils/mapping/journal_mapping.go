package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		CompanyID:        d.CompanyID,
		EntryNumber:      d.EntryNumber,
		ReferenceNumber:  d.ReferenceNumber,
		Description:      d.Description,
		TransactionDate:  d.TransactionDate,
		DocumentDate:     d.DocumentDate,
		FiscalYear:       d.FiscalPeriod.Year,
		FiscalPeriod:     d.FiscalPeriod.Period,
		EntryType:        string(d.EntryType),
		SourceModule:     d.SourceModule,
		IsMultiCurrency:  d.IsMultiCurrency,
		Status:           string(d.Status),
		IsReversing:      d.IsReversing,
		ReversedEntryID:  d.ReversedEntryID,
		ReversingEntryID: d.ReversingEntryID,
		RejectionReason:  d.RejectionReason,
		PostingDate:      d.PostingDate,
		PostedBy:         d.PostedBy,
		PostedAt:         d.PostedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		CompanyID:        m.CompanyID,
		EntryNumber:      m.EntryNumber,
		ReferenceNumber:  m.ReferenceNumber,
		Description:      m.Description,
		TransactionDate:  m.TransactionDate,
		DocumentDate:     m.DocumentDate,
		FiscalPeriod:     domain.FiscalPeriodRef{Year: m.FiscalYear, Period: m.FiscalPeriod},
		EntryType:        domain.EntryType(m.EntryType),
		SourceModule:     m.SourceModule,
		IsMultiCurrency:  m.IsMultiCurrency,
		Status:           domain.EntryStatus(m.Status),
		IsReversing:      m.IsReversing,
		ReversedEntryID:  m.ReversedEntryID,
		ReversingEntryID: m.ReversingEntryID,
		RejectionReason:  m.RejectionReason,
		PostingDate:      m.PostingDate,
		PostedBy:         m.PostedBy,
		PostedAt:         m.PostedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryLine converts a domain line to its model form
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:                         d.LineID,
		EntryID:                        d.EntryID,
		LineNumber:                     d.LineNumber,
		AccountID:                      d.AccountID,
		DebitAmount:                    d.DebitAmount,
		CreditAmount:                   d.CreditAmount,
		CurrencyCode:                   d.CurrencyCode,
		ExchangeRate:                   d.ExchangeRate,
		FunctionalCurrencyDebitAmount:  d.FunctionalCurrencyDebitAmount,
		FunctionalCurrencyCreditAmount: d.FunctionalCurrencyCreditAmount,
		Memo:                           d.Memo,
		Dimensions:                     d.Dimensions,
		IntercompanyPartnerID:          d.IntercompanyPartnerID,
		MatchingLineID:                 d.MatchingLineID,
		AuditFields:                    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntryLine converts a model line to its domain form
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:                         m.LineID,
		EntryID:                        m.EntryID,
		LineNumber:                     m.LineNumber,
		AccountID:                      m.AccountID,
		DebitAmount:                    m.DebitAmount,
		CreditAmount:                   m.CreditAmount,
		CurrencyCode:                   m.CurrencyCode,
		ExchangeRate:                   m.ExchangeRate,
		FunctionalCurrencyDebitAmount:  m.FunctionalCurrencyDebitAmount,
		FunctionalCurrencyCreditAmount: m.FunctionalCurrencyCreditAmount,
		Memo:                           m.Memo,
		Dimensions:                     m.Dimensions,
		IntercompanyPartnerID:          m.IntercompanyPartnerID,
		MatchingLineID:                 m.MatchingLineID,
		AuditFields:                    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntryLineSlice converts a slice of model lines to domain lines
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}
