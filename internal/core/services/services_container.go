package services

import (
	"github.com/openstay/folio-engine/internal/core/events"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
)

// NewServiceContainer wires the repositories into the full service set shared
// by the HTTP server and the batch binaries.
func NewServiceContainer(
	folioRepo portsrepo.FolioRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	taxRateRepo portsrepo.TaxRateReader,
	mealPlanRepo portsrepo.MealPlanReader,
	publisher events.Publisher,
) *portssvc.ServiceContainer {
	taxRateSvc := NewTaxRateService(taxRateRepo)
	ledgerSvc := NewLedgerService(folioRepo, ledgerRepo, taxRateSvc, mealPlanRepo, publisher)
	balanceSvc := NewBalanceService(folioRepo, ledgerRepo)
	return &portssvc.ServiceContainer{
		Folio:    NewFolioService(folioRepo),
		Ledger:   ledgerSvc,
		Balance:  balanceSvc,
		Transfer: NewTransferService(folioRepo, ledgerRepo, publisher),
		TaxRate:  taxRateSvc,
		Audit:    NewAuditService(folioRepo, ledgerRepo, balanceSvc, ledgerSvc),
	}
}
