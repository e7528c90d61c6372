package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ReportingRepository defines aggregation queries over posted journal entries.
// All amounts are functional-currency sums.
type ReportingRepository interface {
	// GetTrialBalanceData aggregates functional debits and credits per account
	// for a company up to and including the given fiscal period.
	GetTrialBalanceData(ctx context.Context, companyID string, through domain.FiscalPeriodRef) ([]domain.TrialBalanceRow, error)

	// GetIncomeStatementData retrieves net revenue and expense amounts for a
	// fiscal period range.
	GetIncomeStatementData(ctx context.Context, companyID string, from, to domain.FiscalPeriodRef) ([]domain.AccountAmount, []domain.AccountAmount, error)

	// GetBalanceSheetData retrieves net asset, liability, and equity amounts
	// through the given fiscal period.
	GetBalanceSheetData(ctx context.Context, companyID string, through domain.FiscalPeriodRef) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error)
}
