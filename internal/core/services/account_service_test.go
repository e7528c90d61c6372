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
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, companyID string, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindChildren(ctx context.Context, accountID string) ([]domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// --- Test Suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade

	companyID string
	userID    string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo, nil, nil)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) account(id, number string, level int, parentID *string) *domain.Account {
	return &domain.Account{
		AccountID:       id,
		CompanyID:       suite.companyID,
		AccountNumber:   number,
		Name:            "Account " + number,
		AccountType:     domain.Asset,
		NormalBalance:   domain.NormalDebit,
		ParentAccountID: parentID,
		HierarchyLevel:  level,
		CurrencyCode:    "EUR",
		IsPostable:      true,
		IsActive:        true,
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		AccountNumber: "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
		NormalBalance: domain.NormalDebit,
		CurrencyCode:  "EUR",
		IsPostable:    true,
	}

	suite.mockRepo.On("FindAccountByNumber", ctx, suite.companyID, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.CompanyID == suite.companyID && a.AccountNumber == "1000" && a.IsActive && a.HierarchyLevel == 1
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(account.IsActive)
	suite.Equal(1, account.HierarchyLevel)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateNumber() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		AccountNumber: "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
		NormalBalance: domain.NormalDebit,
		CurrencyCode:  "EUR",
	}

	suite.mockRepo.On("FindAccountByNumber", ctx, suite.companyID, "1000").Return(suite.account(uuid.NewString(), "1000", 1, nil), nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ChildLevelDerivedFromParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	parent := suite.account(parentID, "1000", 2, nil)
	req := dto.CreateAccountRequest{
		AccountNumber:   "1010",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		NormalBalance:   domain.NormalDebit,
		CurrencyCode:    "EUR",
		ParentAccountID: &parentID,
		IsPostable:      true,
	}

	suite.mockRepo.On("FindAccountByNumber", ctx, suite.companyID, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.HierarchyLevel == 3 && a.ParentAccountID != nil && *a.ParentAccountID == parentID
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(3, account.HierarchyLevel)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentDifferentCompany() {
	ctx := context.Background()
	parentID := uuid.NewString()
	parent := suite.account(parentID, "1000", 1, nil)
	parent.CompanyID = uuid.NewString()
	req := dto.CreateAccountRequest{
		AccountNumber:   "1010",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		NormalBalance:   domain.NormalDebit,
		CurrencyCode:    "EUR",
		ParentAccountID: &parentID,
	}

	suite.mockRepo.On("FindAccountByNumber", ctx, suite.companyID, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(account)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeParentDifferentCompany, coded.Code())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ReparentCycleRejected() {
	ctx := context.Background()
	// a is the root, b is a's child; re-parenting a under b is a cycle.
	aID := uuid.NewString()
	bID := uuid.NewString()
	a := suite.account(aID, "1000", 1, nil)
	b := suite.account(bID, "1010", 2, &aID)

	suite.mockRepo.On("FindAccountByID", ctx, aID).Return(a, nil)
	suite.mockRepo.On("FindAccountByID", ctx, bID).Return(b, nil)

	req := dto.UpdateAccountRequest{ParentAccountID: &bID}
	updated, err := suite.service.UpdateAccount(ctx, suite.companyID, aID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeCircularReference, coded.Code())
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParentRejected() {
	ctx := context.Background()
	aID := uuid.NewString()
	a := suite.account(aID, "1000", 1, nil)

	suite.mockRepo.On("FindAccountByID", ctx, aID).Return(a, nil).Once()

	req := dto.UpdateAccountRequest{ParentAccountID: &aID}
	updated, err := suite.service.UpdateAccount(ctx, suite.companyID, aID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeCircularReference, coded.Code())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	aID := uuid.NewString()
	a := suite.account(aID, "1000", 1, nil)
	inactiveChild := suite.account(uuid.NewString(), "1010", 2, &aID)
	inactiveChild.IsActive = false

	suite.mockRepo.On("FindAccountByID", ctx, aID).Return(a, nil).Once()
	suite.mockRepo.On("FindChildren", ctx, aID).Return([]domain.Account{*inactiveChild}, nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, aID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.companyID, aID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_ActiveChildrenRejected() {
	ctx := context.Background()
	aID := uuid.NewString()
	a := suite.account(aID, "1000", 1, nil)
	child := suite.account(uuid.NewString(), "1010", 2, &aID)

	suite.mockRepo.On("FindAccountByID", ctx, aID).Return(a, nil).Once()
	suite.mockRepo.On("FindChildren", ctx, aID).Return([]domain.Account{*child}, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.companyID, aID, suite.userID)

	suite.Require().Error(err)
	var coded apperrors.Coded
	suite.Require().ErrorAs(err, &coded)
	suite.Equal(apperrors.CodeHasActiveChildren, coded.Code())
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountsByIDs_FiltersForeignCompany() {
	ctx := context.Background()
	ownID := uuid.NewString()
	foreignID := uuid.NewString()
	own := suite.account(ownID, "1000", 1, nil)
	foreign := suite.account(foreignID, "2000", 1, nil)
	foreign.CompanyID = uuid.NewString()

	suite.mockRepo.On("FindAccountsByIDs", ctx, []string{ownID, foreignID}).Return(map[string]domain.Account{
		ownID:     *own,
		foreignID: *foreign,
	}, nil).Once()

	accounts, err := suite.service.GetAccountsByIDs(ctx, suite.companyID, []string{ownID, foreignID})

	suite.Require().NoError(err)
	suite.Contains(accounts, ownID)
	suite.NotContains(accounts, foreignID)
}

// --- Run Suite ---
func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
