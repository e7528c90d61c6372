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

// fiscalPeriodService manages the fiscal period lifecycle and the posting gate.
type fiscalPeriodService struct {
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
	companySvc portssvc.CompanySvcFacade
	authzSvc   portssvc.AuthorizationSvc
}

// NewFiscalPeriodService creates a new fiscal period service.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepositoryFacade, companySvc portssvc.CompanySvcFacade, authzSvc portssvc.AuthorizationSvc) portssvc.FiscalPeriodSvcFacade {
	return &fiscalPeriodService{periodRepo: periodRepo, companySvc: companySvc, authzSvc: authzSvc}
}

var _ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)

func (s *fiscalPeriodService) authorize(ctx context.Context, companyID, userID, action, resourceID string) error {
	if s.authzSvc == nil {
		return nil
	}
	company, err := s.companySvc.GetCompany(ctx, companyID)
	if err != nil {
		return err
	}
	resource := domain.Resource{Type: "fiscal_period", ID: resourceID}
	_, err = s.authzSvc.Authorize(ctx, userID, company.OrganizationID, resource, action)
	return err
}

// CreatePeriod persists a new fiscal period in Future status.
func (s *fiscalPeriodService) CreatePeriod(ctx context.Context, companyID string, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, companyID, creatorUserID, "fiscal_period:create", ""); err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	ref := domain.FiscalPeriodRef{Year: req.Year, Period: req.Period}
	existing, err := s.periodRepo.FindPeriod(ctx, companyID, ref)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing period: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: fiscal period %d-%d already exists for this company", apperrors.ErrDuplicate, req.Year, req.Period)
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("%d-%02d", req.Year, req.Period)
	}

	now := time.Now().UTC()
	period := domain.FiscalPeriod{
		FiscalPeriodID: uuid.NewString(),
		CompanyID:      companyID,
		Year:           req.Year,
		Period:         req.Period,
		Name:           name,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         domain.PeriodFuture,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save fiscal period", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	logger.Info("Fiscal period created", slog.String("fiscal_period_id", period.FiscalPeriodID), slog.String("name", name))
	return &period, nil
}

// GetPeriod retrieves a company's period by year and period number.
func (s *fiscalPeriodService) GetPeriod(ctx context.Context, companyID string, ref domain.FiscalPeriodRef) (*domain.FiscalPeriod, error) {
	return s.periodRepo.FindPeriod(ctx, companyID, ref)
}

// ListPeriods retrieves a company's fiscal periods, optionally filtered by year.
func (s *fiscalPeriodService) ListPeriods(ctx context.Context, companyID string, year *int, requestingUserID string) ([]domain.FiscalPeriod, error) {
	if err := s.authorize(ctx, companyID, requestingUserID, "fiscal_period:read", ""); err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.ListPeriodsByCompany(ctx, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	return periods, nil
}

// TransitionPeriod moves a period through its lifecycle, validating the
// transition table.
func (s *fiscalPeriodService) TransitionPeriod(ctx context.Context, companyID string, fiscalPeriodID string, target domain.PeriodStatus, requestingUserID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, companyID, requestingUserID, "fiscal_period:transition", fiscalPeriodID); err != nil {
		return nil, err
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, fiscalPeriodID)
	if err != nil {
		return nil, err
	}
	if period.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	if !domain.CanTransitionPeriod(period.Status, target) {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodeInvalidPeriodTransition,
			"cannot move period %s from %s to %s", period.Name, period.Status, target)
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, fiscalPeriodID, target, requestingUserID, now); err != nil {
		logger.Error("Failed to update period status", slog.String("error", err.Error()), slog.String("fiscal_period_id", fiscalPeriodID))
		return nil, fmt.Errorf("failed to update period status: %w", err)
	}

	period.Status = target
	period.LastUpdatedAt = now
	period.LastUpdatedBy = requestingUserID
	logger.Info("Fiscal period transitioned", slog.String("fiscal_period_id", fiscalPeriodID), slog.String("status", string(target)))
	return period, nil
}

// EnsurePeriodOpen is the posting gate. It fails with PERIOD_NOT_FOUND when
// the period does not exist, and with PERIOD_NOT_OPEN carrying the actual
// status for any status other than Open.
func (s *fiscalPeriodService) EnsurePeriodOpen(ctx context.Context, companyID string, ref domain.FiscalPeriodRef) error {
	period, err := s.periodRepo.FindPeriod(ctx, companyID, ref)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewBusinessRuleError(apperrors.CodePeriodNotFound,
				"fiscal period %d-%d does not exist for this company", ref.Year, ref.Period)
		}
		return fmt.Errorf("failed to look up fiscal period: %w", err)
	}
	if period.Status != domain.PeriodOpen {
		return apperrors.NewBusinessRuleError(apperrors.CodePeriodNotOpen,
			"fiscal period %s has status %s", period.Name, period.Status)
	}
	return nil
}
