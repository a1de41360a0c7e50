package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/openstay/folio-engine/internal/core/events"
	"github.com/openstay/folio-engine/internal/core/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
	"github.com/openstay/folio-engine/internal/platform/config"
	"github.com/openstay/folio-engine/internal/repositories/database/pgsql"
	"github.com/openstay/folio-engine/pkg/database"
)

// folio_audit re-derives balances and room-rate splits offline and reports
// mismatches. Without -fix it is a dry run: nothing is written.
func main() {
	var (
		hotelID = flag.String("hotel", "", "audit every folio of this hotel")
		folioID = flag.String("folio", "", "audit a single folio")
		fix     = flag.Bool("fix", false, "repair fixable mismatches through the ledger contracts")
		actorID = flag.String("actor", "system-audit", "actor recorded on repairs")
		limit   = flag.Int("limit", 100, "page size for hotel sweeps")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if (*hotelID == "") == (*folioID == "") {
		logger.Error("Exactly one of -hotel or -folio is required")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := middleware.WithLogger(context.Background(), logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(
		repos.FolioRepo,
		repos.LedgerRepo,
		repos.TaxRateRepo,
		repos.MealPlanRepo,
		events.NopPublisher{},
	)

	var reports []dto.FolioAuditReport
	if *folioID != "" {
		var report *dto.FolioAuditReport
		if *fix {
			report, err = serviceContainer.Audit.AuditAndFix(ctx, *folioID, *actorID)
		} else {
			report, err = serviceContainer.Audit.AuditFolio(ctx, *folioID)
		}
		if err != nil {
			logger.Error("Audit failed", slog.String("folio_id", *folioID), slog.String("error", err.Error()))
			os.Exit(1)
		}
		reports = []dto.FolioAuditReport{*report}
	} else {
		params := dto.ListFoliosParams{Limit: *limit}
		reports, err = serviceContainer.Audit.AuditHotel(ctx, *hotelID, params, *fix, *actorID)
		if err != nil {
			logger.Error("Audit failed", slog.String("hotel_id", *hotelID), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	dirty := 0
	for _, r := range reports {
		if !r.Clean() {
			dirty++
		}
	}
	logger.Info("Audit complete",
		slog.Int("folios_audited", len(reports)),
		slog.Int("folios_with_mismatches", dirty),
		slog.Bool("fix", *fix))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		logger.Error("Failed to write reports", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dirty > 0 {
		os.Exit(3)
	}
}
