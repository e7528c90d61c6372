package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// --- Mock JournalEntryRepository ---
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, includeReversals)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, rejectionReason string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, status, rejectionReason, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkEntryPosted(ctx context.Context, entryID string, postingDate time.Time, postedBy string, postedAt time.Time) error {
	args := m.Called(ctx, entryID, postingDate, postedBy, postedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, originalEntryID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, originalEntryID, reversal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context, companyID string, fiscalYear int) (string, error) {
	args := m.Called(ctx, companyID, fiscalYear)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.JournalEntryLine, *string, error) {
	args := m.Called(ctx, companyID, accountID, limit, nextToken)
	var lines []domain.JournalEntryLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.JournalEntryLine)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return lines, token, args.Error(2)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, userID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, companyID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error {
	args := m.Called(ctx, companyID, accountID, requestingUserID)
	return args.Error(0)
}

// --- Mock CompanyService ---
type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) CreateCompany(ctx context.Context, organizationID string, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	args := m.Called(ctx, organizationID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) GetCompanyByID(ctx context.Context, organizationID string, companyID string, requestingUserID string) (*domain.Company, error) {
	args := m.Called(ctx, organizationID, companyID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) ListCompanies(ctx context.Context, organizationID string, requestingUserID string) ([]domain.Company, error) {
	args := m.Called(ctx, organizationID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyService) UpdateCompany(ctx context.Context, organizationID string, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	args := m.Called(ctx, organizationID, companyID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

// --- Mock FiscalPeriodService ---
type MockFiscalPeriodService struct {
	mock.Mock
}

func (m *MockFiscalPeriodService) CreatePeriod(ctx context.Context, companyID string, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) GetPeriod(ctx context.Context, companyID string, ref domain.FiscalPeriodRef) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) ListPeriods(ctx context.Context, companyID string, year *int, requestingUserID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, year, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) TransitionPeriod(ctx context.Context, companyID string, fiscalPeriodID string, target domain.PeriodStatus, requestingUserID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, fiscalPeriodID, target, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) EnsurePeriodOpen(ctx context.Context, companyID string, ref domain.FiscalPeriodRef) error {
	args := m.Called(ctx, companyID, ref)
	return args.Error(0)
}

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) CreateRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) GetEffectiveRate(ctx context.Context, fromCode, toCode string, onDate time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, onDate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateService) ListRates(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockJournalRepository
	mockAccountSvc *MockAccountService
	mockCompanySvc *MockCompanyService
	mockPeriodSvc  *MockFiscalPeriodService
	mockRateSvc    *MockExchangeRateService
	service        portssvc.JournalSvcFacade

	companyID string
	userID    string
	company   *domain.Company
	periodRef domain.FiscalPeriodRef
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockCompanySvc = new(MockCompanyService)
	suite.mockPeriodSvc = new(MockFiscalPeriodService)
	suite.mockRateSvc = new(MockExchangeRateService)
	// Authorization is exercised in its own suite; nil skips the policy check here.
	suite.service = services.NewJournalService(
		suite.mockRepo,
		suite.mockAccountSvc,
		suite.mockCompanySvc,
		suite.mockPeriodSvc,
		suite.mockRateSvc,
		nil,
	)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.company = &domain.Company{
		CompanyID:              suite.companyID,
		OrganizationID:         uuid.NewString(),
		Name:                   "Acme GmbH",
		FunctionalCurrencyCode: "EUR",
		IsActive:               true,
	}
	suite.periodRef = domain.FiscalPeriodRef{Year: 2026, Period: 3}
}

func (suite *JournalServiceTestSuite) expectCompany() {
	suite.mockCompanySvc.On("GetCompany", mock.Anything, suite.companyID).Return(suite.company, nil)
}

func (suite *JournalServiceTestSuite) postableAccount(id string) domain.Account {
	return domain.Account{
		AccountID:     id,
		CompanyID:     suite.companyID,
		AccountNumber: "1000",
		AccountType:   domain.Asset,
		NormalBalance: domain.NormalDebit,
		CurrencyCode:  "EUR",
		IsPostable:    true,
		IsActive:      true,
	}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (suite *JournalServiceTestSuite) balancedRequest(debitAcc, creditAcc string) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		Description:     "Office rent March",
		TransactionDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		FiscalYear:      2026,
		FiscalPeriod:    3,
		Lines: []dto.CreateEntryLineRequest{
			{LineNumber: 1, AccountID: debitAcc, DebitAmount: decPtr("1200.00"), CurrencyCode: "EUR"},
			{LineNumber: 2, AccountID: creditAcc, CreditAmount: decPtr("1200.00"), CurrencyCode: "EUR"},
		},
	}
}

// --- Create ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	debitAcc := uuid.NewString()
	creditAcc := uuid.NewString()
	req := suite.balancedRequest(debitAcc, creditAcc)

	suite.expectCompany()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{
		debitAcc:  suite.postableAccount(debitAcc),
		creditAcc: suite.postableAccount(creditAcc),
	}, nil).Once()
	suite.mockRepo.On("NextEntryNumber", ctx, suite.companyID, 2026).Return("JE-2026-000042", nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.CompanyID == suite.companyID &&
			e.Status == domain.Draft &&
			e.EntryNumber == "JE-2026-000042" &&
			e.EntryType == domain.EntryStandard &&
			!e.IsMultiCurrency
	}), mock.MatchedBy(func(lines []domain.JournalEntryLine) bool {
		return len(lines) == 2 &&
			lines[0].FunctionalCurrencyDebitAmount.Equal(dec("1200.00")) &&
			lines[1].FunctionalCurrencyCreditAmount.Equal(dec("1200.00")) &&
			lines[0].ExchangeRate.Equal(dec("1"))
	})).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal("JE-2026-000042", entry.EntryNumber)
	suite.Len(entry.Lines, 2)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPeriodSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	debitAcc := uuid.NewString()
	creditAcc := uuid.NewString()
	req := suite.balancedRequest(debitAcc, creditAcc)
	req.Lines[1].CreditAmount = decPtr("1100.00")

	suite.expectCompany()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{
		debitAcc:  suite.postableAccount(debitAcc),
		creditAcc: suite.postableAccount(creditAcc),
	}, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	var unbalanced *services.UnbalancedEntryError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.True(unbalanced.Debits.Equal(dec("1200.00")))
	suite.True(unbalanced.Credits.Equal(dec("1100.00")))
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_DuplicateLineNumber() {
	ctx := context.Background()
	debitAcc := uuid.NewString()
	creditAcc := uuid.NewString()
	req := suite.balancedRequest(debitAcc, creditAcc)
	req.Lines[1].LineNumber = 1

	suite.expectCompany()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeDuplicateLineNumber, coded.Code())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_BothDebitAndCredit() {
	ctx := context.Background()
	debitAcc := uuid.NewString()
	creditAcc := uuid.NewString()
	req := suite.balancedRequest(debitAcc, creditAcc)
	req.Lines[0].CreditAmount = decPtr("5.00")

	suite.expectCompany()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_PeriodNotOpen() {
	ctx := context.Background()
	req := suite.balancedRequest(uuid.NewString(), uuid.NewString())
	periodErr := apperrors.NewBusinessRuleError(apperrors.CodePeriodNotOpen, "period 2026-3 has status CLOSED")

	suite.expectCompany()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(periodErr).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodePeriodNotOpen, coded.Code())
	suite.mockRepo.AssertNotCalled(suite.T(), "NextEntryNumber", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_AccountNotPostable() {
	ctx := context.Background()
	debitAcc := uuid.NewString()
	creditAcc := uuid.NewString()
	req := suite.balancedRequest(debitAcc, creditAcc)

	summary := suite.postableAccount(debitAcc)
	summary.IsPostable = false

	suite.expectCompany()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{
		debitAcc:  summary,
		creditAcc: suite.postableAccount(creditAcc),
	}, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeAccountNotPostable, coded.Code())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ForeignCurrencyRateLookup() {
	ctx := context.Background()
	debitAcc := uuid.NewString()
	creditAcc := uuid.NewString()
	txDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	req := dto.CreateJournalEntryRequest{
		Description:     "USD invoice",
		TransactionDate: txDate,
		FiscalYear:      2026,
		FiscalPeriod:    3,
		Lines: []dto.CreateEntryLineRequest{
			{LineNumber: 1, AccountID: debitAcc, DebitAmount: decPtr("100.00"), CurrencyCode: "USD"},
			{LineNumber: 2, AccountID: creditAcc, CreditAmount: decPtr("90.00"), CurrencyCode: "EUR"},
		},
	}

	suite.expectCompany()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()
	suite.mockRateSvc.On("GetEffectiveRate", ctx, "USD", "EUR", txDate).Return(dec("0.9"), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{
		debitAcc:  suite.postableAccount(debitAcc),
		creditAcc: suite.postableAccount(creditAcc),
	}, nil).Once()
	suite.mockRepo.On("NextEntryNumber", ctx, suite.companyID, 2026).Return("JE-2026-000001", nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.IsMultiCurrency
	}), mock.MatchedBy(func(lines []domain.JournalEntryLine) bool {
		return lines[0].ExchangeRate.Equal(dec("0.9")) &&
			lines[0].FunctionalCurrencyDebitAmount.Equal(dec("90.00"))
	})).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(entry.IsMultiCurrency)
	suite.mockRateSvc.AssertExpectations(suite.T())
}

// --- Lifecycle transitions ---

func (suite *JournalServiceTestSuite) draftEntry(entryID string) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    suite.companyID,
		EntryNumber:  "JE-2026-000007",
		Status:       domain.Draft,
		FiscalPeriod: suite.periodRef,
	}
}

func (suite *JournalServiceTestSuite) TestSubmitEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(suite.draftEntry(entryID), nil).Once()
	suite.mockRepo.On("UpdateEntryStatus", ctx, entryID, domain.PendingApproval, "", suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := suite.service.SubmitEntry(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PendingApproval, entry.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestApproveEntry_FromDraftRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(suite.draftEntry(entryID), nil).Once()

	entry, err := suite.service.ApproveEntry(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeInvalidStatusTransition, coded.Code())
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestRejectEntry_RecordsReason() {
	ctx := context.Background()
	entryID := uuid.NewString()
	pending := suite.draftEntry(entryID)
	pending.Status = domain.PendingApproval

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(pending, nil).Once()
	suite.mockRepo.On("UpdateEntryStatus", ctx, entryID, domain.Draft, "missing receipt", suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := suite.service.RejectEntry(ctx, suite.companyID, entryID, "missing receipt", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal("missing receipt", entry.RejectionReason)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetEntry_CrossCompanyObscured() {
	ctx := context.Background()
	entryID := uuid.NewString()
	foreign := suite.draftEntry(entryID)
	foreign.CompanyID = uuid.NewString()

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(foreign, nil).Once()

	entry, err := suite.service.GetEntryByID(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Posting ---

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	approved := suite.draftEntry(entryID)
	approved.Status = domain.Approved
	approved.TransactionDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(approved, nil).Once()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()
	suite.mockRepo.On("MarkEntryPosted", ctx, entryID, approved.TransactionDate, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := suite.service.PostEntry(ctx, suite.companyID, entryID, dto.PostEntryRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.Require().NotNil(entry.PostingDate)
	suite.Equal(approved.TransactionDate, *entry.PostingDate)
	suite.Equal(suite.userID, *entry.PostedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_PeriodClosedBetweenApprovalAndPosting() {
	ctx := context.Background()
	entryID := uuid.NewString()
	approved := suite.draftEntry(entryID)
	approved.Status = domain.Approved
	periodErr := apperrors.NewBusinessRuleError(apperrors.CodePeriodNotOpen, "period 2026-3 has status SOFT_CLOSE")

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(approved, nil).Once()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(periodErr).Once()

	entry, err := suite.service.PostEntry(ctx, suite.companyID, entryID, dto.PostEntryRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodePeriodNotOpen, coded.Code())
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Reversal ---

func (suite *JournalServiceTestSuite) postedEntryWithLines(entryID string) (*domain.JournalEntry, []domain.JournalEntryLine) {
	posted := suite.draftEntry(entryID)
	posted.Status = domain.Posted
	posted.EntryNumber = "JE-2026-000010"
	posted.Description = "Office rent March"
	posted.TransactionDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	lines := []domain.JournalEntryLine{
		{
			LineID: uuid.NewString(), EntryID: entryID, LineNumber: 1,
			AccountID: uuid.NewString(), DebitAmount: dec("1200.00"), CreditAmount: decimal.Zero,
			CurrencyCode: "EUR", ExchangeRate: dec("1"),
			FunctionalCurrencyDebitAmount: dec("1200.00"), FunctionalCurrencyCreditAmount: decimal.Zero,
		},
		{
			LineID: uuid.NewString(), EntryID: entryID, LineNumber: 2,
			AccountID: uuid.NewString(), DebitAmount: decimal.Zero, CreditAmount: dec("1200.00"),
			CurrencyCode: "EUR", ExchangeRate: dec("1"),
			FunctionalCurrencyDebitAmount: decimal.Zero, FunctionalCurrencyCreditAmount: dec("1200.00"),
		},
	}
	return posted, lines
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted, lines := suite.postedEntryWithLines(entryID)

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()
	suite.mockRepo.On("NextEntryNumber", ctx, suite.companyID, 2026).Return("JE-2026-000011", nil).Once()
	suite.mockRepo.On("SaveReversal", ctx, entryID, mock.MatchedBy(func(r domain.JournalEntry) bool {
		return r.Status == domain.Posted &&
			r.IsReversing &&
			r.EntryType == domain.EntryReversing &&
			r.ReversedEntryID != nil && *r.ReversedEntryID == entryID
	}), mock.MatchedBy(func(rl []domain.JournalEntryLine) bool {
		return len(rl) == 2 &&
			rl[0].CreditAmount.Equal(dec("1200.00")) && rl[0].DebitAmount.IsZero() &&
			rl[1].DebitAmount.Equal(dec("1200.00")) && rl[1].CreditAmount.IsZero() &&
			rl[0].AccountID == lines[0].AccountID
	})).Return(nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, suite.companyID, entryID, dto.ReverseEntryRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.Posted, reversal.Status)
	suite.Contains(reversal.Description, "JE-2026-000010")
	suite.Len(reversal.Lines, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted, _ := suite.postedEntryWithLines(entryID)
	existing := uuid.NewString()
	posted.ReversingEntryID = &existing

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, suite.companyID, entryID, dto.ReverseEntryRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeAlreadyReversed, coded.Code())
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ConcurrentReversalLosesWithCode() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted, lines := suite.postedEntryWithLines(entryID)

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()
	suite.mockPeriodSvc.On("EnsurePeriodOpen", ctx, suite.companyID, suite.periodRef).Return(nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()
	suite.mockRepo.On("NextEntryNumber", ctx, suite.companyID, 2026).Return("JE-2026-000011", nil).Once()
	// A racing reversal committed between the status read and the link update.
	suite.mockRepo.On("SaveReversal", ctx, entryID, mock.Anything, mock.Anything).
		Return(apperrors.NewBusinessRuleError(apperrors.CodeAlreadyReversed,
			"entry %s is no longer POSTED or was reversed concurrently", entryID)).Once()

	reversal, err := suite.service.ReverseEntry(ctx, suite.companyID, entryID, dto.ReverseEntryRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeAlreadyReversed, coded.Code())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_NotPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(suite.draftEntry(entryID), nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, suite.companyID, entryID, dto.ReverseEntryRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeInvalidStatusTransition, coded.Code())
}

// --- Update / Delete ---

func (suite *JournalServiceTestSuite) TestUpdateEntry_NonDraftConflict() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted, _ := suite.postedEntryWithLines(entryID)

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()

	newDesc := "changed"
	entry, err := suite.service.UpdateEntry(ctx, suite.companyID, entryID, dto.UpdateJournalEntryRequest{Description: &newDesc}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_DraftOnly() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(suite.draftEntry(entryID), nil).Once()
	suite.mockRepo.On("DeleteEntry", ctx, entryID).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_PostedRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted, _ := suite.postedEntryWithLines(entryID)

	suite.expectCompany()
	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

// --- Listing ---

func (suite *JournalServiceTestSuite) TestListEntries_Paginated() {
	ctx := context.Background()
	next := "b64token"
	entries := []domain.JournalEntry{
		*suite.draftEntry(uuid.NewString()),
		*suite.draftEntry(uuid.NewString()),
	}

	suite.expectCompany()
	suite.mockRepo.On("ListEntriesByCompany", ctx, suite.companyID, 20, (*string)(nil), false).Return(entries, &next, nil).Once()

	resp, err := suite.service.ListEntries(ctx, suite.companyID, suite.userID, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListEntries_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.expectCompany()
	suite.mockRepo.On("ListEntriesByCompany", ctx, suite.companyID, 20, (*string)(nil), false).Return(nil, nil, expectedErr).Once()

	resp, err := suite.service.ListEntries(ctx, suite.companyID, suite.userID, dto.ListEntriesParams{})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, expectedErr)
}

// --- Run Suite ---
func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
