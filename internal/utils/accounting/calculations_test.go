package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

func TestFunctionalTotals(t *testing.T) {
	lines := []domain.JournalEntryLine{
		{FunctionalCurrencyDebitAmount: decimal.NewFromInt(100)},
		{FunctionalCurrencyDebitAmount: decimal.NewFromFloat(50.25)},
		{FunctionalCurrencyCreditAmount: decimal.NewFromFloat(150.25)},
	}

	debits, credits := FunctionalTotals(lines)

	assert.True(t, debits.Equal(decimal.NewFromFloat(150.25)), "debits = %s", debits)
	assert.True(t, credits.Equal(decimal.NewFromFloat(150.25)), "credits = %s", credits)
}

func TestFunctionalTotals_Empty(t *testing.T) {
	debits, credits := FunctionalTotals(nil)

	assert.True(t, debits.IsZero())
	assert.True(t, credits.IsZero())
}

func TestSumNetAmounts(t *testing.T) {
	amounts := []domain.AccountAmount{
		{NetAmount: decimal.NewFromInt(1000)},
		{NetAmount: decimal.NewFromInt(-250)},
	}

	assert.True(t, SumNetAmounts(amounts).Equal(decimal.NewFromInt(750)))
}
