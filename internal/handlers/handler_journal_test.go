package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/handlers"
	"github.com/ledgerkeep/ledgerkeep/internal/platform/config"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) GetEntryByID(ctx context.Context, companyID string, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListEntries(ctx context.Context, companyID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockJournalService) ListLinesByAccount(ctx context.Context, companyID string, accountID string, userID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	args := m.Called(ctx, companyID, accountID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLinesResponse), args.Error(1)
}
func (m *MockJournalService) UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) SubmitEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ApproveEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) RejectEntry(ctx context.Context, companyID string, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) PostEntry(ctx context.Context, companyID string, entryID string, req dto.PostEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseEntry(ctx context.Context, companyID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) DeleteEntry(ctx context.Context, companyID string, entryID string, userID string) error {
	args := m.Called(ctx, companyID, entryID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type JournalHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockJournalService *MockJournalService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *JournalHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledgerkeep-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockJournalService = new(MockJournalService)

	cfg := &config.Config{
		JWTSecret:              suite.jwtSecret,
		RateLimitPerMinute:     1000,
		RefreshTokenCookieName: "rtid",
		RefreshTokenCookiePath: "/api/v1/auth",
	}
	services := &portssvc.ServiceContainer{Journal: suite.mockJournalService}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *JournalHandlerTestSuite) entriesURL(organizationID, companyID string) string {
	return fmt.Sprintf("/api/v1/organizations/%s/companies/%s/journal-entries", organizationID, companyID)
}

// --- Test Cases ---

func (suite *JournalHandlerTestSuite) TestCreateEntry_Success() {
	organizationID := uuid.NewString()
	companyID := uuid.NewString()
	requestingUserID := uuid.NewString()

	debit := decimal.NewFromInt(500)
	credit := decimal.NewFromInt(500)
	reqBody := dto.CreateJournalEntryRequest{
		Description:     "Opening cash balance",
		TransactionDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		FiscalYear:      2025,
		FiscalPeriod:    3,
		Lines: []dto.CreateEntryLineRequest{
			{LineNumber: 1, AccountID: uuid.NewString(), DebitAmount: &debit, CurrencyCode: "USD"},
			{LineNumber: 2, AccountID: uuid.NewString(), CreditAmount: &credit, CurrencyCode: "USD"},
		},
	}

	expectedEntry := &domain.JournalEntry{
		EntryID:         uuid.NewString(),
		CompanyID:       companyID,
		EntryNumber:     "JE-2025-000042",
		Description:     reqBody.Description,
		TransactionDate: reqBody.TransactionDate,
		FiscalPeriod:    domain.FiscalPeriodRef{Year: 2025, Period: 3},
		Status:          domain.Draft,
	}

	suite.mockJournalService.On("CreateEntry",
		mock.Anything,
		companyID,
		mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool {
			return r.Description == reqBody.Description && len(r.Lines) == 2
		}),
		requestingUserID,
	).Return(expectedEntry, nil).Once()

	bodyBytes, err := json.Marshal(reqBody)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, suite.entriesURL(organizationID, companyID), bytes.NewReader(bodyBytes))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.JournalEntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(expectedEntry.EntryID, responseBody.EntryID)
	suite.Equal("JE-2025-000042", responseBody.EntryNumber)
	suite.Equal(domain.Draft, responseBody.Status)

	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_MissingToken() {
	organizationID := uuid.NewString()
	companyID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodPost, suite.entriesURL(organizationID, companyID), bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateEntry")
}

func (suite *JournalHandlerTestSuite) TestGetEntry_NotFound() {
	organizationID := uuid.NewString()
	companyID := uuid.NewString()
	entryID := uuid.NewString()
	requestingUserID := uuid.NewString()

	suite.mockJournalService.On("GetEntryByID", mock.Anything, companyID, entryID, requestingUserID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := suite.entriesURL(organizationID, companyID) + "/" + entryID
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestPostEntry_ClosedPeriod() {
	organizationID := uuid.NewString()
	companyID := uuid.NewString()
	entryID := uuid.NewString()
	requestingUserID := uuid.NewString()

	ruleErr := apperrors.NewBusinessRuleError("PERIOD_CLOSED", "fiscal period 2025-02 is closed")
	suite.mockJournalService.On("PostEntry", mock.Anything, companyID, entryID, mock.Anything, requestingUserID).
		Return(nil, ruleErr).Once()

	url := suite.entriesURL(organizationID, companyID) + "/" + entryID + "/post"
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var responseBody map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal("PERIOD_CLOSED", responseBody["code"])

	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestListEntries_Success() {
	organizationID := uuid.NewString()
	companyID := uuid.NewString()
	requestingUserID := uuid.NewString()
	limit := 10

	nextToken := "opaque-token"
	expectedResponse := &dto.ListEntriesResponse{
		Entries: []dto.JournalEntryResponse{
			{EntryID: uuid.NewString(), CompanyID: companyID, EntryNumber: "JE-2025-000001", Status: domain.Posted},
			{EntryID: uuid.NewString(), CompanyID: companyID, EntryNumber: "JE-2025-000002", Status: domain.Draft},
		},
		NextToken: &nextToken,
	}

	suite.mockJournalService.On("ListEntries",
		mock.Anything,
		companyID,
		requestingUserID,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool {
			return p.Limit == limit
		}),
	).Return(expectedResponse, nil).Once()

	url := fmt.Sprintf("%s?limit=%d", suite.entriesURL(organizationID, companyID), limit)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.ListEntriesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Len(responseBody.Entries, 2)
	suite.Require().NotNil(responseBody.NextToken)
	suite.Equal(nextToken, *responseBody.NextToken)

	suite.mockJournalService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
