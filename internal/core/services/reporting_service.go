package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/accounting"
)

// reportingService generates financial reports from posted journal entries.
// All single-company figures are in the company's functional currency.
type reportingService struct {
	reportingRepo     portsrepo.ReportingRepository
	consolidationRepo portsrepo.ConsolidationRepositoryFacade
	companySvc        portssvc.CompanySvcFacade
	periodSvc         portssvc.FiscalPeriodSvcFacade
	rateSvc           portssvc.ExchangeRateSvcFacade
	authzSvc          portssvc.AuthorizationSvc
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	reportingRepo portsrepo.ReportingRepository,
	consolidationRepo portsrepo.ConsolidationRepositoryFacade,
	companySvc portssvc.CompanySvcFacade,
	periodSvc portssvc.FiscalPeriodSvcFacade,
	rateSvc portssvc.ExchangeRateSvcFacade,
	authzSvc portssvc.AuthorizationSvc,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo:     reportingRepo,
		consolidationRepo: consolidationRepo,
		companySvc:        companySvc,
		periodSvc:         periodSvc,
		rateSvc:           rateSvc,
		authzSvc:          authzSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) authorizeRead(ctx context.Context, companyID, userID string) (*domain.Company, error) {
	company, err := s.companySvc.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if s.authzSvc != nil {
		resource := domain.Resource{Type: "report", ID: companyID}
		if _, err := s.authzSvc.Authorize(ctx, userID, company.OrganizationID, resource, "report:read"); err != nil {
			return nil, err
		}
	}
	return company, nil
}

func (s *reportingService) TrialBalance(ctx context.Context, companyID string, through domain.FiscalPeriodRef, userID string) ([]domain.TrialBalanceRow, error) {
	if _, err := s.authorizeRead(ctx, companyID, userID); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, companyID, through)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trial balance: %w", err)
	}
	if rows == nil {
		rows = []domain.TrialBalanceRow{}
	}
	return rows, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, companyID string, from, to domain.FiscalPeriodRef, userID string) (*domain.IncomeStatementReport, error) {
	if _, err := s.authorizeRead(ctx, companyID, userID); err != nil {
		return nil, err
	}
	if from.Year > to.Year || (from.Year == to.Year && from.Period > to.Period) {
		return nil, fmt.Errorf("%w: report range start is after end", apperrors.ErrValidation)
	}

	revenue, expenses, err := s.reportingRepo.GetIncomeStatementData(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate income statement: %w", err)
	}

	report := &domain.IncomeStatementReport{
		Revenue:  revenue,
		Expenses: expenses,
	}
	totalRevenue := accounting.SumNetAmounts(revenue)
	totalExpenses := accounting.SumNetAmounts(expenses)
	report.NetIncome = totalRevenue.Sub(totalExpenses)
	return report, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, through domain.FiscalPeriodRef, userID string) (*domain.BalanceSheetReport, error) {
	if _, err := s.authorizeRead(ctx, companyID, userID); err != nil {
		return nil, err
	}

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, companyID, through)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balance sheet: %w", err)
	}

	return &domain.BalanceSheetReport{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      accounting.SumNetAmounts(assets),
		TotalLiabilities: accounting.SumNetAmounts(liabilities),
		TotalEquity:      accounting.SumNetAmounts(equity),
	}, nil
}

// ConsolidatedTrialBalance merges the trial balances of a group's member
// companies, translating each into the group's presentation currency.
func (s *reportingService) ConsolidatedTrialBalance(ctx context.Context, organizationID string, groupID string, through domain.FiscalPeriodRef, userID string) ([]domain.TrialBalanceRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	group, err := s.consolidationRepo.FindGroupByID(ctx, organizationID, groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: consolidation group %s not found", apperrors.ErrNotFound, groupID)
		}
		return nil, fmt.Errorf("failed to find consolidation group %s: %w", groupID, err)
	}

	memberIDs := group.MemberCompanyIDs
	if len(memberIDs) == 0 {
		memberIDs, err = s.consolidationRepo.ListMemberCompanyIDs(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("failed to list group members: %w", err)
		}
	}

	var combined []domain.TrialBalanceRow
	for _, companyID := range memberIDs {
		company, err := s.companySvc.GetCompany(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve member company %s: %w", companyID, err)
		}
		if s.authzSvc != nil {
			resource := domain.Resource{Type: "report", ID: companyID}
			if _, err := s.authzSvc.Authorize(ctx, userID, company.OrganizationID, resource, "report:read"); err != nil {
				return nil, err
			}
		}

		rows, err := s.reportingRepo.GetTrialBalanceData(ctx, companyID, through)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate trial balance for company %s: %w", companyID, err)
		}

		rate := decimal.NewFromInt(1)
		if company.FunctionalCurrencyCode != group.PresentationCurrencyCode {
			rateDate := s.rateDateFor(ctx, companyID, through)
			rate, err = s.rateSvc.GetEffectiveRate(ctx, company.FunctionalCurrencyCode, group.PresentationCurrencyCode, rateDate)
			if err != nil {
				logger.Warn("No translation rate for consolidation member",
					slog.String("company_id", companyID),
					slog.String("from", company.FunctionalCurrencyCode),
					slog.String("to", group.PresentationCurrencyCode))
				return nil, fmt.Errorf("failed to translate company %s into %s: %w", companyID, group.PresentationCurrencyCode, err)
			}
		}

		for _, row := range rows {
			row.Debit = row.Debit.Mul(rate)
			row.Credit = row.Credit.Mul(rate)
			combined = append(combined, row)
		}
	}

	if combined == nil {
		combined = []domain.TrialBalanceRow{}
	}
	return combined, nil
}

// rateDateFor picks the translation date for a member company: the end of its
// reporting period when known, otherwise today.
func (s *reportingService) rateDateFor(ctx context.Context, companyID string, through domain.FiscalPeriodRef) time.Time {
	period, err := s.periodSvc.GetPeriod(ctx, companyID, through)
	if err != nil {
		return time.Now()
	}
	return period.EndDate
}

