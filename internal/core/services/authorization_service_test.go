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

// --- Mock PolicyRepository ---
type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) FindPolicyByID(ctx context.Context, organizationID string, policyID string) (*domain.AuthorizationPolicy, error) {
	args := m.Called(ctx, organizationID, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationPolicy), args.Error(1)
}

func (m *MockPolicyRepository) ListPoliciesByOrganization(ctx context.Context, organizationID string) ([]domain.AuthorizationPolicy, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuthorizationPolicy), args.Error(1)
}

func (m *MockPolicyRepository) ListActivePoliciesByOrganization(ctx context.Context, organizationID string) ([]domain.AuthorizationPolicy, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuthorizationPolicy), args.Error(1)
}

func (m *MockPolicyRepository) SavePolicy(ctx context.Context, policy domain.AuthorizationPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockPolicyRepository) UpdatePolicy(ctx context.Context, policy domain.AuthorizationPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockPolicyRepository) DeletePolicy(ctx context.Context, organizationID string, policyID string) error {
	args := m.Called(ctx, organizationID, policyID)
	return args.Error(0)
}

// --- Mock OrganizationRepository ---
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) SaveOrganization(ctx context.Context, organization domain.Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateOrganization(ctx context.Context, organization domain.Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}

func (m *MockOrganizationRepository) AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindUserOrganizationRole(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error) {
	args := m.Called(ctx, userID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserOrganization), args.Error(1)
}

func (m *MockOrganizationRepository) UpdateUserOrganizationRole(ctx context.Context, membership domain.UserOrganization) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID string, hash *string, expiresAt *time.Time) error {
	args := m.Called(ctx, userID, hash, expiresAt)
	return args.Error(0)
}

// --- Test Suite ---
type AuthorizationServiceTestSuite struct {
	suite.Suite
	mockPolicyRepo *MockPolicyRepository
	mockOrgRepo    *MockOrganizationRepository
	mockUserRepo   *MockUserRepository
	service        portssvc.AuthorizationSvc

	orgID  string
	userID string
}

func (suite *AuthorizationServiceTestSuite) SetupTest() {
	suite.mockPolicyRepo = new(MockPolicyRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewAuthorizationService(suite.mockPolicyRepo, suite.mockOrgRepo, suite.mockUserRepo)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AuthorizationServiceTestSuite) expectUser(platformAdmin bool) {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(&domain.User{
		UserID:          suite.userID,
		IsPlatformAdmin: platformAdmin,
	}, nil)
}

func (suite *AuthorizationServiceTestSuite) expectMembership(role domain.OrganizationRole, functionalRoles ...string) {
	suite.mockOrgRepo.On("FindUserOrganizationRole", mock.Anything, suite.userID, suite.orgID).Return(&domain.UserOrganization{
		UserID:          suite.userID,
		OrganizationID:  suite.orgID,
		Role:            role,
		FunctionalRoles: functionalRoles,
	}, nil)
}

func allowPolicy(orgID string, priority int, role domain.OrganizationRole) domain.AuthorizationPolicy {
	return domain.AuthorizationPolicy{
		PolicyID:       uuid.NewString(),
		OrganizationID: orgID,
		Name:           "allow",
		Subject:        domain.SubjectCondition{Match: domain.SubjectRoleIn, Values: []string{string(role)}},
		Resource:       domain.ResourceCondition{Match: domain.ResourceAny},
		Action:         domain.ActionCondition{Match: domain.ActionAny},
		Environment:    domain.EnvironmentCondition{Match: domain.EnvironmentAny},
		Effect:         domain.EffectAllow,
		Priority:       priority,
		IsActive:       true,
	}
}

func (suite *AuthorizationServiceTestSuite) TestAuthorize_AllowedByRolePolicy() {
	ctx := context.Background()
	suite.expectUser(false)
	suite.expectMembership(domain.RoleMember)
	suite.mockPolicyRepo.On("ListActivePoliciesByOrganization", ctx, suite.orgID).Return([]domain.AuthorizationPolicy{
		allowPolicy(suite.orgID, 100, domain.RoleMember),
	}, nil).Once()

	decision, err := suite.service.Authorize(ctx, suite.userID, suite.orgID, domain.Resource{Type: "journal_entry"}, "journal_entry:create")

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.Require().NotNil(decision.DecidedBy)
	suite.Equal(100, decision.DecidedBy.Priority)
}

func (suite *AuthorizationServiceTestSuite) TestAuthorize_DefaultDeny() {
	ctx := context.Background()
	suite.expectUser(false)
	suite.expectMembership(domain.RoleReadOnly)
	suite.mockPolicyRepo.On("ListActivePoliciesByOrganization", ctx, suite.orgID).Return([]domain.AuthorizationPolicy{}, nil).Once()

	decision, err := suite.service.Authorize(ctx, suite.userID, suite.orgID, domain.Resource{Type: "journal_entry"}, "journal_entry:post")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Require().NotNil(decision)
	suite.False(decision.Allowed)
}

func (suite *AuthorizationServiceTestSuite) TestAuthorize_ExplicitDenyBeatsLaterAllow() {
	ctx := context.Background()
	suite.expectUser(false)
	suite.expectMembership(domain.RoleMember)

	deny := allowPolicy(suite.orgID, 10, domain.RoleMember)
	deny.Effect = domain.EffectDeny
	allow := allowPolicy(suite.orgID, 500, domain.RoleMember)

	suite.mockPolicyRepo.On("ListActivePoliciesByOrganization", ctx, suite.orgID).Return([]domain.AuthorizationPolicy{allow, deny}, nil).Once()

	_, err := suite.service.Authorize(ctx, suite.userID, suite.orgID, domain.Resource{Type: "journal_entry"}, "journal_entry:create")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthorizationServiceTestSuite) TestAuthorize_NonMemberForbidden() {
	ctx := context.Background()
	suite.expectUser(false)
	suite.mockOrgRepo.On("FindUserOrganizationRole", mock.Anything, suite.userID, suite.orgID).Return(nil, apperrors.ErrNotFound).Once()

	decision, err := suite.service.Authorize(ctx, suite.userID, suite.orgID, domain.Resource{Type: "journal_entry"}, "journal_entry:read")

	suite.Require().Error(err)
	suite.Nil(decision)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockPolicyRepo.AssertNotCalled(suite.T(), "ListActivePoliciesByOrganization", mock.Anything, mock.Anything)
}

func (suite *AuthorizationServiceTestSuite) TestAuthorize_PlatformAdminWithoutMembership() {
	ctx := context.Background()
	suite.expectUser(true)
	suite.mockOrgRepo.On("FindUserOrganizationRole", mock.Anything, suite.userID, suite.orgID).Return(nil, apperrors.ErrNotFound).Once()

	adminPolicy := domain.AuthorizationPolicy{
		PolicyID:       uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "platform-admin",
		Subject:        domain.SubjectCondition{Match: domain.SubjectPlatformAdmin},
		Resource:       domain.ResourceCondition{Match: domain.ResourceAny},
		Action:         domain.ActionCondition{Match: domain.ActionAny},
		Environment:    domain.EnvironmentCondition{Match: domain.EnvironmentAny},
		Effect:         domain.EffectAllow,
		Priority:       50,
		IsActive:       true,
	}
	suite.mockPolicyRepo.On("ListActivePoliciesByOrganization", ctx, suite.orgID).Return([]domain.AuthorizationPolicy{adminPolicy}, nil).Once()

	decision, err := suite.service.Authorize(ctx, suite.userID, suite.orgID, domain.Resource{Type: "account"}, "account:read")

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
}

func (suite *AuthorizationServiceTestSuite) TestAuthorize_RemovedMembershipForbidden() {
	ctx := context.Background()
	suite.expectUser(false)
	suite.expectMembership(domain.RoleRemoved)

	decision, err := suite.service.Authorize(ctx, suite.userID, suite.orgID, domain.Resource{Type: "journal_entry"}, "journal_entry:read")

	suite.Require().Error(err)
	suite.Nil(decision)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthorizationServiceTestSuite) TestEnsureSystemPolicies_SeedsBand() {
	ctx := context.Background()
	creator := uuid.NewString()

	suite.mockPolicyRepo.On("ListPoliciesByOrganization", ctx, suite.orgID).Return([]domain.AuthorizationPolicy{}, nil).Once()
	suite.mockPolicyRepo.On("SavePolicy", ctx, mock.MatchedBy(func(p domain.AuthorizationPolicy) bool {
		return p.IsSystemPolicy &&
			p.Priority >= domain.SystemPolicyPriorityMin &&
			p.Priority <= domain.SystemPolicyPriorityMax &&
			p.OrganizationID == suite.orgID
	})).Return(nil).Times(4)

	err := suite.service.EnsureSystemPolicies(ctx, suite.orgID, creator)

	suite.Require().NoError(err)
	suite.mockPolicyRepo.AssertExpectations(suite.T())
}

func (suite *AuthorizationServiceTestSuite) TestEnsureSystemPolicies_Idempotent() {
	ctx := context.Background()
	existing := allowPolicy(suite.orgID, domain.SystemPolicyPriorityMin, domain.RoleAdmin)
	existing.IsSystemPolicy = true

	suite.mockPolicyRepo.On("ListPoliciesByOrganization", ctx, suite.orgID).Return([]domain.AuthorizationPolicy{existing}, nil).Once()

	err := suite.service.EnsureSystemPolicies(ctx, suite.orgID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockPolicyRepo.AssertNotCalled(suite.T(), "SavePolicy", mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestAuthorizationService(t *testing.T) {
	suite.Run(t, new(AuthorizationServiceTestSuite))
}
