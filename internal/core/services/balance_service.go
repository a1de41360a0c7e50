package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openstay/folio-engine/internal/core/domain"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
)

// balanceService re-derives folio totals from the full transaction set. The
// fold itself is pure; only Recompute writes the cached balance back.
type balanceService struct {
	folioRepo  portsrepo.FolioReader
	ledgerRepo portsrepo.LedgerRepositoryFacade
	policy     domain.AggregationPolicy
}

// NewBalanceService creates a balance aggregator over the given repositories.
func NewBalanceService(folioRepo portsrepo.FolioReader, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		folioRepo:  folioRepo,
		ledgerRepo: ledgerRepo,
		policy:     domain.DefaultAggregationPolicy(),
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// Peek folds the folio's transactions without touching the cache. Safe to run
// concurrently with ledger writes; it only ever reads.
func (s *balanceService) Peek(ctx context.Context, folioID string) (*domain.BalanceSnapshot, error) {
	if _, err := s.folioRepo.FindFolioByID(ctx, folioID); err != nil {
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	txns, err := s.ledgerRepo.FindTransactionsByFolioID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for folio %s: %w", folioID, err)
	}
	snapshot := domain.Aggregate(txns, s.policy)
	return &snapshot, nil
}

// Recompute folds the full transaction set and replaces the cached balance
// with the derived value.
func (s *balanceService) Recompute(ctx context.Context, folioID string, actorID string) (*dto.BalanceSnapshotResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	snapshot, err := s.Peek(ctx, folioID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.UpdateFolioBalance(ctx, folioID, snapshot.Balance, actorID, now); err != nil {
		logger.Error("Failed to store recomputed balance", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to store recomputed balance: %w", err)
	}

	logger.Info("Folio balance recomputed",
		slog.String("folio_id", folioID),
		slog.String("balance", snapshot.Balance.String()))
	return &dto.BalanceSnapshotResponse{
		FolioID:            folioID,
		TotalCharges:       snapshot.TotalCharges,
		TotalPayments:      snapshot.TotalPayments,
		TotalAdjustments:   snapshot.TotalAdjustments,
		TotalTax:           snapshot.TotalTax,
		TotalServiceCharge: snapshot.TotalServiceCharge,
		TotalDiscount:      snapshot.TotalDiscount,
		Balance:            snapshot.Balance,
		RecomputedAt:       now,
	}, nil
}
