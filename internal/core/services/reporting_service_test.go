package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, through domain.FiscalPeriodRef) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, companyID, through)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetIncomeStatementData(ctx context.Context, companyID string, from, to domain.FiscalPeriodRef) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, from, to)
	var revenue, expenses []domain.AccountAmount
	if args.Get(0) != nil {
		revenue = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		expenses = args.Get(1).([]domain.AccountAmount)
	}
	return revenue, expenses, args.Error(2)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, through domain.FiscalPeriodRef) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, through)
	var assets, liabilities, equity []domain.AccountAmount
	if args.Get(0) != nil {
		assets = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		liabilities = args.Get(1).([]domain.AccountAmount)
	}
	if args.Get(2) != nil {
		equity = args.Get(2).([]domain.AccountAmount)
	}
	return assets, liabilities, equity, args.Error(3)
}

// --- Mock ConsolidationRepository ---
type MockConsolidationRepository struct {
	mock.Mock
}

func (m *MockConsolidationRepository) FindGroupByID(ctx context.Context, organizationID string, groupID string) (*domain.ConsolidationGroup, error) {
	args := m.Called(ctx, organizationID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsolidationGroup), args.Error(1)
}

func (m *MockConsolidationRepository) ListGroupsByOrganization(ctx context.Context, organizationID string) ([]domain.ConsolidationGroup, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConsolidationGroup), args.Error(1)
}

func (m *MockConsolidationRepository) ListMemberCompanyIDs(ctx context.Context, groupID string) ([]string, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockConsolidationRepository) SaveGroup(ctx context.Context, group domain.ConsolidationGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockConsolidationRepository) UpdateGroup(ctx context.Context, group domain.ConsolidationGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockConsolidationRepository) DeleteGroup(ctx context.Context, organizationID string, groupID string) error {
	args := m.Called(ctx, organizationID, groupID)
	return args.Error(0)
}

// --- Test Suite ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockConsolRepo    *MockConsolidationRepository
	mockCompanySvc    *MockCompanyService
	mockPeriodSvc     *MockFiscalPeriodService
	mockRateSvc       *MockExchangeRateService
	service           portssvc.ReportingSvcFacade
	ctx               context.Context

	orgID     string
	companyID string
	userID    string
	through   domain.FiscalPeriodRef
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockConsolRepo = new(MockConsolidationRepository)
	suite.mockCompanySvc = new(MockCompanyService)
	suite.mockPeriodSvc = new(MockFiscalPeriodService)
	suite.mockRateSvc = new(MockExchangeRateService)
	// Authorization has its own suite; nil skips the policy check here.
	suite.service = services.NewReportingService(
		suite.mockReportingRepo,
		suite.mockConsolRepo,
		suite.mockCompanySvc,
		suite.mockPeriodSvc,
		suite.mockRateSvc,
		nil,
	)
	suite.ctx = context.Background()
	suite.orgID = uuid.NewString()
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.through = domain.FiscalPeriodRef{Year: 2026, Period: 3}
}

func (suite *ReportingServiceTestSuite) company(currency string) *domain.Company {
	return &domain.Company{
		CompanyID:              suite.companyID,
		OrganizationID:         suite.orgID,
		Name:                   "Acme GmbH",
		FunctionalCurrencyCode: currency,
		IsActive:               true,
	}
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_Success() {
	rows := []domain.TrialBalanceRow{
		{AccountID: "a1", AccountNumber: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: dec("1500.00"), Credit: dec("0")},
		{AccountID: "a2", AccountNumber: "4000", AccountName: "Revenue", AccountType: domain.Revenue, Debit: dec("0"), Credit: dec("1500.00")},
	}
	suite.mockCompanySvc.On("GetCompany", suite.ctx, suite.companyID).Return(suite.company("EUR"), nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", suite.ctx, suite.companyID, suite.through).Return(rows, nil).Once()

	got, err := suite.service.TrialBalance(suite.ctx, suite.companyID, suite.through, suite.userID)

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.True(got[0].Debit.Equal(dec("1500.00")))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_NetIncome() {
	from := domain.FiscalPeriodRef{Year: 2026, Period: 1}
	revenue := []domain.AccountAmount{{AccountID: "r1", Name: "Sales", NetAmount: dec("5000.00")}}
	expenses := []domain.AccountAmount{
		{AccountID: "e1", Name: "Rent", NetAmount: dec("1200.00")},
		{AccountID: "e2", Name: "Payroll", NetAmount: dec("2300.00")},
	}
	suite.mockCompanySvc.On("GetCompany", suite.ctx, suite.companyID).Return(suite.company("EUR"), nil).Once()
	suite.mockReportingRepo.On("GetIncomeStatementData", suite.ctx, suite.companyID, from, suite.through).Return(revenue, expenses, nil).Once()

	report, err := suite.service.IncomeStatement(suite.ctx, suite.companyID, from, suite.through, suite.userID)

	suite.Require().NoError(err)
	suite.True(report.NetIncome.Equal(dec("1500.00")))
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_InvalidRange() {
	from := domain.FiscalPeriodRef{Year: 2026, Period: 6}
	suite.mockCompanySvc.On("GetCompany", suite.ctx, suite.companyID).Return(suite.company("EUR"), nil).Once()

	_, err := suite.service.IncomeStatement(suite.ctx, suite.companyID, from, suite.through, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetIncomeStatementData", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_Totals() {
	assets := []domain.AccountAmount{{AccountID: "a1", Name: "Cash", NetAmount: dec("10000.00")}}
	liabilities := []domain.AccountAmount{{AccountID: "l1", Name: "Loans", NetAmount: dec("4000.00")}}
	equity := []domain.AccountAmount{{AccountID: "q1", Name: "Share Capital", NetAmount: dec("6000.00")}}
	suite.mockCompanySvc.On("GetCompany", suite.ctx, suite.companyID).Return(suite.company("EUR"), nil).Once()
	suite.mockReportingRepo.On("GetBalanceSheetData", suite.ctx, suite.companyID, suite.through).Return(assets, liabilities, equity, nil).Once()

	report, err := suite.service.BalanceSheet(suite.ctx, suite.companyID, suite.through, suite.userID)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(dec("10000.00")))
	suite.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)))
}

func (suite *ReportingServiceTestSuite) TestConsolidatedTrialBalance_TranslatesMembers() {
	groupID := uuid.NewString()
	memberEUR := suite.companyID
	memberUSD := uuid.NewString()
	group := &domain.ConsolidationGroup{
		GroupID:                  groupID,
		OrganizationID:           suite.orgID,
		Name:                     "Europe Group",
		PresentationCurrencyCode: "EUR",
		IsActive:                 true,
		MemberCompanyIDs:         []string{memberEUR, memberUSD},
	}
	usdCompany := &domain.Company{
		CompanyID:              memberUSD,
		OrganizationID:         suite.orgID,
		Name:                   "Acme Inc",
		FunctionalCurrencyCode: "USD",
		IsActive:               true,
	}
	periodEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	suite.mockConsolRepo.On("FindGroupByID", suite.ctx, suite.orgID, groupID).Return(group, nil).Once()
	suite.mockCompanySvc.On("GetCompany", suite.ctx, memberEUR).Return(suite.company("EUR"), nil).Once()
	suite.mockCompanySvc.On("GetCompany", suite.ctx, memberUSD).Return(usdCompany, nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", suite.ctx, memberEUR, suite.through).Return([]domain.TrialBalanceRow{
		{AccountID: "a1", AccountNumber: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: dec("100.00"), Credit: dec("0")},
	}, nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", suite.ctx, memberUSD, suite.through).Return([]domain.TrialBalanceRow{
		{AccountID: "b1", AccountNumber: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: dec("200.00"), Credit: dec("0")},
	}, nil).Once()
	suite.mockPeriodSvc.On("GetPeriod", suite.ctx, memberUSD, suite.through).Return(&domain.FiscalPeriod{EndDate: periodEnd}, nil).Once()
	suite.mockRateSvc.On("GetEffectiveRate", suite.ctx, "USD", "EUR", periodEnd).Return(dec("0.9"), nil).Once()

	rows, err := suite.service.ConsolidatedTrialBalance(suite.ctx, suite.orgID, groupID, suite.through, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.True(rows[0].Debit.Equal(dec("100.00")))
	suite.True(rows[1].Debit.Equal(dec("180.00")), "USD figures should be translated at 0.9")
	suite.mockRateSvc.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestConsolidatedTrialBalance_GroupNotFound() {
	groupID := uuid.NewString()
	suite.mockConsolRepo.On("FindGroupByID", suite.ctx, suite.orgID, groupID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ConsolidatedTrialBalance(suite.ctx, suite.orgID, groupID, suite.through, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
