package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo       AccountRepositoryFacade
	CompanyRepo       CompanyRepositoryFacade
	ConsolidationRepo ConsolidationRepositoryFacade
	CurrencyRepo      CurrencyRepositoryFacade
	ExchangeRateRepo  ExchangeRateRepositoryFacade
	FiscalPeriodRepo  FiscalPeriodRepositoryFacade
	JournalRepo       JournalEntryRepositoryWithTx
	OrganizationRepo  OrganizationRepositoryFacade
	PolicyRepo        PolicyRepositoryFacade
	ReportingRepo     ReportingRepository
	UserRepo          UserRepositoryFacade
}
