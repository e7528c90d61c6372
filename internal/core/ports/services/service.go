package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account       AccountSvcFacade
	Auth          AuthSvcFacade
	Authorization AuthorizationSvc
	Company       CompanySvcFacade
	Consolidation ConsolidationSvcFacade
	Currency      CurrencySvcFacade
	ExchangeRate  ExchangeRateSvcFacade
	FiscalPeriod  FiscalPeriodSvcFacade
	Journal       JournalSvcFacade
	Organization  OrganizationSvcFacade
	Policy        PolicySvcFacade
	Reporting     ReportingSvcFacade
	User          UserSvcFacade
}
