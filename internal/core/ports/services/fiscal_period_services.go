package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// FiscalPeriodSvcFacade defines operations for fiscal period management.
type FiscalPeriodSvcFacade interface {
	// CreatePeriod persists a new fiscal period in Future status.
	CreatePeriod(ctx context.Context, companyID string, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error)

	// GetPeriod retrieves a company's period by year and period number.
	GetPeriod(ctx context.Context, companyID string, ref domain.FiscalPeriodRef) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves a company's fiscal periods, optionally filtered by year.
	ListPeriods(ctx context.Context, companyID string, year *int, requestingUserID string) ([]domain.FiscalPeriod, error)

	// TransitionPeriod moves a period through its lifecycle (open, soft close,
	// close, lock, reopen).
	TransitionPeriod(ctx context.Context, companyID string, fiscalPeriodID string, target domain.PeriodStatus, requestingUserID string) (*domain.FiscalPeriod, error)

	// EnsurePeriodOpen is the posting gate: it fails with a coded business-rule
	// error unless the period exists and is Open.
	EnsurePeriodOpen(ctx context.Context, companyID string, ref domain.FiscalPeriodRef) error
}
