package services

import (
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/platform/config"
)

// NewServiceContainer wires all services against the repository provider.
// Ordering matters: the authorization service is built first because the
// journal, account, period, and reporting services consult it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	authzSvc := NewAuthorizationService(repos.PolicyRepo, repos.OrganizationRepo, repos.UserRepo)

	userSvc := NewUserService(repos.UserRepo)
	authSvc := NewAuthService(cfg, repos.UserRepo)
	orgSvc := NewOrganizationService(repos.OrganizationRepo, repos.UserRepo, authzSvc)
	companySvc := NewCompanyService(repos.CompanyRepo, repos.CurrencyRepo, repos.OrganizationRepo)
	currencySvc := NewCurrencyService(repos.CurrencyRepo)
	rateSvc := NewExchangeRateService(repos.ExchangeRateRepo, repos.CurrencyRepo)
	accountSvc := NewAccountService(repos.AccountRepo, companySvc, authzSvc)
	periodSvc := NewFiscalPeriodService(repos.FiscalPeriodRepo, companySvc, authzSvc)
	policySvc := NewPolicyService(repos.PolicyRepo, repos.OrganizationRepo)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc, companySvc, periodSvc, rateSvc, authzSvc)
	consolidationSvc := NewConsolidationService(repos.ConsolidationRepo, repos.CompanyRepo, repos.CurrencyRepo, repos.OrganizationRepo)
	reportingSvc := NewReportingService(repos.ReportingRepo, repos.ConsolidationRepo, companySvc, periodSvc, rateSvc, authzSvc)

	return &portssvc.ServiceContainer{
		Account:       accountSvc,
		Auth:          authSvc,
		Authorization: authzSvc,
		Company:       companySvc,
		Consolidation: consolidationSvc,
		Currency:      currencySvc,
		ExchangeRate:  rateSvc,
		FiscalPeriod:  periodSvc,
		Journal:       journalSvc,
		Organization:  orgSvc,
		Policy:        policySvc,
		Reporting:     reportingSvc,
		User:          userSvc,
	}
}
