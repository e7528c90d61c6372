package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// maxHierarchyDepth caps the account tree so a corrupt parent chain cannot
// loop the ancestor walk forever.
const maxHierarchyDepth = 50

// accountService manages the chart of accounts, including hierarchy rules.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	companySvc  portssvc.CompanySvcFacade
	authzSvc    portssvc.AuthorizationSvc
}

// NewAccountService creates a new account service. Account writes are single
// statements, so the service only needs the plain repository facade.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, companySvc portssvc.CompanySvcFacade, authzSvc portssvc.AuthorizationSvc) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, companySvc: companySvc, authzSvc: authzSvc}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) authorize(ctx context.Context, companyID, userID, action, resourceID string) error {
	if s.authzSvc == nil {
		return nil
	}
	company, err := s.companySvc.GetCompany(ctx, companyID)
	if err != nil {
		return err
	}
	resource := domain.Resource{Type: "account", ID: resourceID}
	_, err = s.authzSvc.Authorize(ctx, userID, company.OrganizationID, resource, action)
	return err
}

// validateParent checks a prospective parent account: it must exist in the
// same company and be active. It returns the parent for hierarchy-level math.
func (s *accountService) validateParent(ctx context.Context, companyID, parentID string) (*domain.Account, error) {
	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBusinessRuleError(apperrors.CodeAccountNotFound, "parent account %s does not exist", parentID)
		}
		return nil, fmt.Errorf("failed to look up parent account: %w", err)
	}
	if parent.CompanyID != companyID {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodeParentDifferentCompany, "parent account %s belongs to a different company", parentID)
	}
	if !parent.IsActive {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodeAccountNotActive, "parent account %s (%s) is not active", parent.AccountNumber, parentID)
	}
	return parent, nil
}

// ensureNoCycle walks the ancestor chain from the prospective parent and fails
// if it reaches the account being re-parented.
func (s *accountService) ensureNoCycle(ctx context.Context, accountID string, parent *domain.Account) error {
	current := parent
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if current.AccountID == accountID {
			return apperrors.NewBusinessRuleError(apperrors.CodeCircularReference,
				"account %s cannot be its own ancestor", accountID)
		}
		if current.ParentAccountID == nil {
			return nil
		}
		next, err := s.accountRepo.FindAccountByID(ctx, *current.ParentAccountID)
		if err != nil {
			return fmt.Errorf("failed to walk account hierarchy: %w", err)
		}
		current = next
	}
	return apperrors.NewBusinessRuleError(apperrors.CodeCircularReference,
		"account hierarchy exceeds maximum depth of %d", maxHierarchyDepth)
}

// CreateAccount validates hierarchy rules and persists a new account.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, companyID, creatorUserID, "account:create", ""); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.FindAccountByNumber(ctx, companyID, req.AccountNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing account number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account number %s already exists in this company", apperrors.ErrDuplicate, req.AccountNumber)
	}

	hierarchyLevel := 1
	if req.ParentAccountID != nil {
		parent, err := s.validateParent(ctx, companyID, *req.ParentAccountID)
		if err != nil {
			return nil, err
		}
		hierarchyLevel = parent.HierarchyLevel + 1
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		AccountNumber:   req.AccountNumber,
		Name:            req.Name,
		AccountType:     req.AccountType,
		AccountCategory: req.AccountCategory,
		NormalBalance:   req.NormalBalance,
		ParentAccountID: req.ParentAccountID,
		HierarchyLevel:  hierarchyLevel,
		CurrencyCode:    req.CurrencyCode,
		Description:     req.Description,
		IsPostable:      req.IsPostable,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return &account, nil
}

// GetAccountByID retrieves a specific account, obscuring cross-company IDs.
func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string, requestingUserID string) (*domain.Account, error) {
	if err := s.authorize(ctx, companyID, requestingUserID, "account:read", accountID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID. Accounts belonging
// to other companies are omitted from the result rather than surfaced.
func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, acc := range accounts {
		if acc.CompanyID != companyID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of accounts for a company.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, userID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	if err := s.authorize(ctx, companyID, userID, "account:read", ""); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return &dto.ListAccountsResponse{Accounts: dto.ToAccountResponses(accounts)}, nil
}

// UpdateAccount updates account details. Re-parenting walks the full ancestor
// chain of the new parent to reject cycles.
func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, companyID, requestingUserID, "account:update", accountID); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountCategory != nil {
		account.AccountCategory = *req.AccountCategory
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsPostable != nil {
		account.IsPostable = *req.IsPostable
	}
	if req.ParentAccountID != nil {
		newParentID := *req.ParentAccountID
		if newParentID == accountID {
			return nil, apperrors.NewBusinessRuleError(apperrors.CodeCircularReference, "account %s cannot be its own parent", accountID)
		}
		parent, err := s.validateParent(ctx, companyID, newParentID)
		if err != nil {
			return nil, err
		}
		if err := s.ensureNoCycle(ctx, accountID, parent); err != nil {
			return nil, err
		}
		account.ParentAccountID = &newParentID
		account.HierarchyLevel = parent.HierarchyLevel + 1
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account inactive. Accounts with active children
// cannot be deactivated.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, companyID, requestingUserID, "account:deactivate", accountID); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.CompanyID != companyID {
		return apperrors.ErrNotFound
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrConflict, accountID)
	}

	children, err := s.accountRepo.FindChildren(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to fetch child accounts: %w", err)
	}
	for _, child := range children {
		if child.IsActive {
			return apperrors.NewBusinessRuleError(apperrors.CodeHasActiveChildren,
				"account %s still has active child %s", account.AccountNumber, child.AccountNumber)
		}
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, now); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
