package services

// ServiceContainer holds all service facades for dependency injection into
// the HTTP layer and the batch binaries.
type ServiceContainer struct {
	Folio    FolioSvcFacade
	Ledger   LedgerSvcFacade
	Balance  BalanceSvcFacade
	Transfer TransferSvcFacade
	TaxRate  TaxRateSvcFacade
	Audit    AuditSvcFacade
}
