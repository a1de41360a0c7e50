package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// layer.
type RepositoryProvider struct {
	FolioRepo    FolioRepositoryFacade
	LedgerRepo   LedgerRepositoryFacade
	TaxRateRepo  TaxRateReader
	MealPlanRepo MealPlanReader
}
