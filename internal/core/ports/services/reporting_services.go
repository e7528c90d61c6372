package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ReportingSvcFacade defines financial report generation over posted entries.
type ReportingSvcFacade interface {
	// TrialBalance generates a trial balance through the given fiscal period.
	TrialBalance(ctx context.Context, companyID string, through domain.FiscalPeriodRef, userID string) ([]domain.TrialBalanceRow, error)

	// IncomeStatement generates an income statement for a fiscal period range.
	IncomeStatement(ctx context.Context, companyID string, from, to domain.FiscalPeriodRef, userID string) (*domain.IncomeStatementReport, error)

	// BalanceSheet generates a balance sheet through the given fiscal period.
	BalanceSheet(ctx context.Context, companyID string, through domain.FiscalPeriodRef, userID string) (*domain.BalanceSheetReport, error)

	// ConsolidatedTrialBalance aggregates trial balances across the member
	// companies of a consolidation group.
	ConsolidatedTrialBalance(ctx context.Context, organizationID string, groupID string, through domain.FiscalPeriodRef, userID string) ([]domain.TrialBalanceRow, error)
}
