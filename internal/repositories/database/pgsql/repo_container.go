package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

// NewRepositoryProvider constructs every pgsql-backed repository over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:       newPgxAccountRepository(dbPool),
		CompanyRepo:       newPgxCompanyRepository(dbPool),
		ConsolidationRepo: newPgxConsolidationRepository(dbPool),
		CurrencyRepo:      newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo:  newPgxExchangeRateRepository(dbPool),
		FiscalPeriodRepo:  newPgxFiscalPeriodRepository(dbPool),
		JournalRepo:       newPgxJournalEntryRepository(dbPool),
		OrganizationRepo:  newPgxOrganizationRepository(dbPool),
		PolicyRepo:        newPgxPolicyRepository(dbPool),
		ReportingRepo:     newPgxReportingRepository(dbPool),
		UserRepo:          newPgxUserRepository(dbPool),
	}
}
