package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		FolioRepo:    newPgxFolioRepository(dbPool),
		LedgerRepo:   newPgxLedgerRepository(dbPool),
		TaxRateRepo:  newPgxTaxRateRepository(dbPool),
		MealPlanRepo: newPgxMealPlanRepository(dbPool),
	}
}
