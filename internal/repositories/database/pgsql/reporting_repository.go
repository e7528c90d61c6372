package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for report aggregation queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// Only posted entries contribute to reports. Periods are compared as
// (fiscal_year, fiscal_period) tuples so a through-filter covers earlier
// years in full.

func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, through domain.FiscalPeriodRef) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.account_number, a.name, a.account_type,
		       COALESCE(SUM(l.functional_debit_amount), 0) AS debit,
		       COALESCE(SUM(l.functional_credit_amount), 0) AS credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.company_id = $1
		  AND e.status = 'POSTED'
		  AND (e.fiscal_year, e.fiscal_period) <= ($2, $3)
		GROUP BY a.account_id, a.account_number, a.name, a.account_type
		ORDER BY a.account_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, through.Year, through.Period)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate trial balance for company "+companyID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountNumber, &row.AccountName, &row.AccountType, &row.Debit, &row.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}
	return result, nil
}

func (r *PgxReportingRepository) GetIncomeStatementData(ctx context.Context, companyID string, from, to domain.FiscalPeriodRef) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	// Revenue accounts carry credit balances, so revenue nets credit minus
	// debit. Expenses net the other way around.
	query := `
		SELECT a.account_id, a.account_number, a.name, a.account_type,
		       CASE WHEN a.account_type = 'REVENUE'
		            THEN COALESCE(SUM(l.functional_credit_amount - l.functional_debit_amount), 0)
		            ELSE COALESCE(SUM(l.functional_debit_amount - l.functional_credit_amount), 0)
		       END AS net_amount
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.company_id = $1
		  AND e.status = 'POSTED'
		  AND a.account_type IN ('REVENUE', 'EXPENSE')
		  AND (e.fiscal_year, e.fiscal_period) >= ($2, $3)
		  AND (e.fiscal_year, e.fiscal_period) <= ($4, $5)
		GROUP BY a.account_id, a.account_number, a.name, a.account_type
		ORDER BY a.account_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from.Year, from.Period, to.Year, to.Period)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to aggregate income statement for company "+companyID, err)
	}
	defer rows.Close()

	revenue := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}
	for rows.Next() {
		var amount domain.AccountAmount
		var accountType string
		if err := rows.Scan(&amount.AccountID, &amount.AccountNumber, &amount.Name, &accountType, &amount.NetAmount); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan income statement row", err)
		}
		if domain.AccountType(accountType) == domain.Revenue {
			revenue = append(revenue, amount)
		} else {
			expenses = append(expenses, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating income statement rows", err)
	}
	return revenue, expenses, nil
}

func (r *PgxReportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, through domain.FiscalPeriodRef) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	// Assets net debit minus credit; liabilities and equity net credit minus
	// debit, matching each side's normal balance.
	query := `
		SELECT a.account_id, a.account_number, a.name, a.account_type,
		       CASE WHEN a.account_type = 'ASSET'
		            THEN COALESCE(SUM(l.functional_debit_amount - l.functional_credit_amount), 0)
		            ELSE COALESCE(SUM(l.functional_credit_amount - l.functional_debit_amount), 0)
		       END AS net_amount
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.company_id = $1
		  AND e.status = 'POSTED'
		  AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		  AND (e.fiscal_year, e.fiscal_period) <= ($2, $3)
		GROUP BY a.account_id, a.account_number, a.name, a.account_type
		ORDER BY a.account_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, through.Year, through.Period)
	if err != nil {
		return nil, nil, nil, apperrors.NewAppError(500, "failed to aggregate balance sheet for company "+companyID, err)
	}
	defer rows.Close()

	assets := []domain.AccountAmount{}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{}
	for rows.Next() {
		var amount domain.AccountAmount
		var accountType string
		if err := rows.Scan(&amount.AccountID, &amount.AccountNumber, &amount.Name, &accountType, &amount.NetAmount); err != nil {
			return nil, nil, nil, apperrors.NewAppError(500, "failed to scan balance sheet row", err)
		}
		switch domain.AccountType(accountType) {
		case domain.Asset:
			assets = append(assets, amount)
		case domain.Liability:
			liabilities = append(liabilities, amount)
		default:
			equity = append(equity, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, apperrors.NewAppError(500, "error iterating balance sheet rows", err)
	}
	return assets, liabilities, equity, nil
}
