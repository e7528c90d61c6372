package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal period data
type FiscalPeriodReader interface {
	// FindPeriodByID retrieves a specific fiscal period by its unique identifier.
	FindPeriodByID(ctx context.Context, fiscalPeriodID string) (*domain.FiscalPeriod, error)

	// FindPeriod retrieves a company's fiscal period by year and period number.
	FindPeriod(ctx context.Context, companyID string, ref domain.FiscalPeriodRef) (*domain.FiscalPeriod, error)

	// ListPeriodsByCompany retrieves all fiscal periods of a company, optionally filtered by year.
	ListPeriodsByCompany(ctx context.Context, companyID string, year *int) ([]domain.FiscalPeriod, error)
}

// FiscalPeriodWriter defines write operations for fiscal period data
type FiscalPeriodWriter interface {
	// SavePeriod persists a new fiscal period.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// UpdatePeriodStatus moves a fiscal period to a new lifecycle status.
	UpdatePeriodStatus(ctx context.Context, fiscalPeriodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error
}

// FiscalPeriodRepositoryFacade combines all fiscal-period repository interfaces
type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}
