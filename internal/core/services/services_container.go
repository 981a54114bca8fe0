package services

import (
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, client ledger.Client, keys ledger.KeyResolver, listener TransmissionListener) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.AccountMapping = NewAccountMappingService(repos.AccountMappingRepo, client.Ledger().ID)
	container.TokenService = NewTokenService(cfg)

	resolverCfg := DefaultResolverConfig()
	resolverCfg.MaxIterations = cfg.Resolver.MaxIterations
	resolverCfg.Tolerance = cfg.Resolver.Tolerance
	resolverCfg.ReferenceInterval = cfg.Resolver.ReferenceInterval
	resolverCfg.ProbeStep = cfg.Resolver.ProbeStep
	resolverCfg.ProbeAttempts = cfg.Resolver.ProbeAttempts
	resolverCfg.AvgCloseTime = cfg.Resolver.AvgCloseTime
	container.Ledger = NewLedgerService(client, resolverCfg, NewLedgerTimeCache())

	var submissionOpts []SubmissionOption
	if listener != nil {
		submissionOpts = append(submissionOpts, WithTransmissionListener(listener))
	}
	container.Submission = NewSubmissionService(client, keys, SubmissionConfig{
		ValidityMargin:   cfg.Ledger.ValidityMargin,
		SendMaxTolerance: cfg.Ledger.SendMaxTolerance,
	}, submissionOpts...)

	container.Payment = NewPaymentService(
		client,
		container.Submission,
		container.Ledger,
		WithExchangeRates(container.ExchangeRate),
		WithCurrencyCatalog(container.Currency),
		WithAccountMappings(container.AccountMapping),
		WithTargetCurrency(cfg.TargetCurrency),
		WithMaxPages(cfg.AccountTxMaxPages),
	)

	return container
}
