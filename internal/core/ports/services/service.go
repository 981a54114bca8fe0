package services

// ServiceContainer holds instances of all the application services.
// It is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Payment        PaymentSvcFacade
	Submission     SubmissionSvc
	Ledger         LedgerSvcFacade
	Currency       CurrencySvcFacade
	ExchangeRate   ExchangeRateSvcFacade
	AccountMapping AccountMappingSvcFacade
	TokenService   TokenSvcFacade
}
