package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/platform/config"
	"github.com/ledgerkeep/ledgerkeep/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.AuthSvcFacade
	ctx          context.Context

	userID       string
	password     string
	passwordHash string
}

func (suite *AuthServiceTestSuite) SetupSuite() {
	suite.password = "correct-horse-battery"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)
	suite.passwordHash = hash
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "ledgerkeep-test",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
	suite.service = services.NewAuthService(cfg, suite.mockUserRepo)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *AuthServiceTestSuite) user() *domain.User {
	return &domain.User{
		UserID:       suite.userID,
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: suite.passwordHash,
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@example.com").Return(suite.user(), nil).Once()
	suite.mockUserRepo.On("UpdateRefreshTokenHash", suite.ctx, suite.userID,
		mock.AnythingOfType("*string"), mock.AnythingOfType("*time.Time")).Return(nil).Once()

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "Ada@Example.com", Password: suite.password})

	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.True(strings.HasPrefix(resp.RefreshToken, suite.userID+"."))
	suite.Equal(int64(3600), resp.ExpiresIn)
	suite.Equal(suite.userID, resp.User.UserID)

	claims, err := utils.ParseAndValidateJWT(resp.AccessToken, "test-secret")
	suite.Require().NoError(err)
	suite.Equal(suite.userID, claims.Subject)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@example.com").Return(suite.user(), nil).Once()

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ada@example.com", Password: "nope"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(resp)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateRefreshTokenHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmailObscured() {
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestRefresh_RotatesToken() {
	refreshToken := suite.userID + ".deadbeef"
	hash := utils.HashRefreshToken(refreshToken)
	expiry := time.Now().Add(time.Hour)

	user := suite.user()
	user.RefreshTokenHash = &hash
	user.RefreshTokenExpiryTime = &expiry

	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.userID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateRefreshTokenHash", suite.ctx, suite.userID,
		mock.AnythingOfType("*string"), mock.AnythingOfType("*time.Time")).Return(nil).Once()

	resp, err := suite.service.Refresh(suite.ctx, refreshToken)

	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.NotEqual(refreshToken, resp.RefreshToken)
	suite.True(strings.HasPrefix(resp.RefreshToken, suite.userID+"."))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRefresh_ExpiredToken() {
	refreshToken := suite.userID + ".deadbeef"
	hash := utils.HashRefreshToken(refreshToken)
	expiry := time.Now().Add(-time.Minute)

	user := suite.user()
	user.RefreshTokenHash = &hash
	user.RefreshTokenExpiryTime = &expiry

	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.userID).Return(user, nil).Once()

	_, err := suite.service.Refresh(suite.ctx, refreshToken)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Contains(err.Error(), "expired")
}

func (suite *AuthServiceTestSuite) TestRefresh_HashMismatch() {
	stored := utils.HashRefreshToken(suite.userID + ".other")
	expiry := time.Now().Add(time.Hour)

	user := suite.user()
	user.RefreshTokenHash = &stored
	user.RefreshTokenExpiryTime = &expiry

	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.userID).Return(user, nil).Once()

	_, err := suite.service.Refresh(suite.ctx, suite.userID+".deadbeef")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_MalformedToken() {
	_, err := suite.service.Refresh(suite.ctx, "no-separator")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogout_ClearsStoredHash() {
	suite.mockUserRepo.On("UpdateRefreshTokenHash", suite.ctx, suite.userID,
		(*string)(nil), (*time.Time)(nil)).Return(nil).Once()

	err := suite.service.Logout(suite.ctx, suite.userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
