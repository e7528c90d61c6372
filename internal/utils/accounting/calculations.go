package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// FunctionalTotals sums the functional-currency debit and credit sides of a
// line set. The two totals must be equal for an entry to be postable.
func FunctionalTotals(lines []domain.JournalEntryLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.FunctionalCurrencyDebitAmount)
		credits = credits.Add(line.FunctionalCurrencyCreditAmount)
	}
	return debits, credits
}

// SumNetAmounts totals the net amounts of one section of a financial report.
func SumNetAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}
