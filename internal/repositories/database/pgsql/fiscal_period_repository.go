package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/mapping"
)

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal period data.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepositoryFacade {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

const fiscalPeriodColumns = `
	fiscal_period_id, company_id, year, period, name, start_date, end_date, status,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanFiscalPeriod(row pgx.Row) (*models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.FiscalPeriodID,
		&m.CompanyID,
		&m.Year,
		&m.Period,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, fiscalPeriodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE fiscal_period_id = $1;`

	m, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, fiscalPeriodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fiscal period "+fiscalPeriodID, err)
	}

	period := mapping.ToDomainFiscalPeriod(*m)
	return &period, nil
}

func (r *PgxFiscalPeriodRepository) FindPeriod(ctx context.Context, companyID string, ref domain.FiscalPeriodRef) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE company_id = $1 AND year = $2 AND period = $3;`

	m, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, companyID, ref.Year, ref.Period))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find fiscal period %d-%d", ref.Year, ref.Period), err)
	}

	period := mapping.ToDomainFiscalPeriod(*m)
	return &period, nil
}

func (r *PgxFiscalPeriodRepository) ListPeriodsByCompany(ctx context.Context, companyID string, year *int) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE company_id = $1`
	args := []any{companyID}
	if year != nil {
		query += ` AND year = $2`
		args = append(args, *year)
	}
	query += ` ORDER BY year, period;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list fiscal periods for company "+companyID, err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		m, err := scanFiscalPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal period row", err)
		}
		periods = append(periods, mapping.ToDomainFiscalPeriod(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fiscal period rows", err)
	}
	return periods, nil
}

func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `
		INSERT INTO fiscal_periods (
			fiscal_period_id, company_id, year, period, name, start_date, end_date, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FiscalPeriodID,
		m.CompanyID,
		m.Year,
		m.Period,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert fiscal period "+m.FiscalPeriodID, err)
	}
	return nil
}

func (r *PgxFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, fiscalPeriodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE fiscal_period_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, fiscalPeriodID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of fiscal period "+fiscalPeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
