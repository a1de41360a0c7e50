package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
	"github.com/openstay/folio-engine/internal/utils/taxation"
)

// auditService re-derives balances and splits from the raw transaction sets
// and reports drift. It never writes directly: fix mode goes through the
// public ledger and balance contracts, the same code paths runtime callers
// use.
type auditService struct {
	folioRepo  portsrepo.FolioReader
	ledgerRepo portsrepo.LedgerRepositoryFacade
	balanceSvc portssvc.BalanceSvcFacade
	ledgerSvc  portssvc.LedgerSvcFacade
	policy     domain.AggregationPolicy
}

// NewAuditService creates a consistency auditor.
func NewAuditService(
	folioRepo portsrepo.FolioReader,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
) portssvc.AuditSvcFacade {
	return &auditService{
		folioRepo:  folioRepo,
		ledgerRepo: ledgerRepo,
		balanceSvc: balanceSvc,
		ledgerSvc:  ledgerSvc,
		policy:     domain.DefaultAggregationPolicy(),
	}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// AuditFolio independently recomputes the folio's balance and tax splits and
// reports every epsilon-exceeding mismatch. Read-only; safe to run
// concurrently with live postings.
func (s *auditService) AuditFolio(ctx context.Context, folioID string) (*dto.FolioAuditReport, error) {
	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	txns, err := s.ledgerRepo.FindTransactionsByFolioID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for folio %s: %w", folioID, err)
	}

	report := &dto.FolioAuditReport{
		FolioID:   folio.FolioID,
		HotelID:   folio.HotelID,
		AuditedAt: time.Now().UTC(),
	}

	derived := domain.Aggregate(txns, s.policy)
	if drift := folio.Balance.Sub(derived.Balance); drift.Abs().GreaterThan(taxation.Epsilon) {
		report.Mismatches = append(report.Mismatches, dto.AuditMismatch{
			Kind:    dto.MismatchBalanceDrift,
			Stored:  folio.Balance,
			Derived: derived.Balance,
			Delta:   drift,
			Detail:  "cached folio balance disagrees with the transaction fold",
		})
	}

	for i := range txns {
		s.checkRoomSplit(report, &txns[i])
	}
	s.checkTransferPairing(ctx, report, txns)

	return report, nil
}

// checkRoomSplit verifies roomFinalNetAmount + roomFinalRateTax ~ roomFinalRate.
func (s *auditService) checkRoomSplit(report *dto.FolioAuditReport, t *domain.FolioTransaction) {
	if t.Type != domain.TypeRoomPosting || t.IsVoided() {
		return
	}
	reconstructed := t.RoomFinalNetAmount.Add(t.RoomFinalRateTax)
	if drift := reconstructed.Sub(t.RoomFinalRate); drift.Abs().GreaterThan(taxation.Epsilon) {
		report.Mismatches = append(report.Mismatches, dto.AuditMismatch{
			Kind:          dto.MismatchRoomSplitDrift,
			TransactionID: t.TransactionID,
			Stored:        t.RoomFinalRate,
			Derived:       reconstructed,
			Delta:         drift,
			Detail:        "net + tax does not reconstruct the room rate",
		})
	}
}

// checkTransferPairing verifies every transfer leg has exactly one live
// counterpart with equal absolute amount.
func (s *auditService) checkTransferPairing(ctx context.Context, report *dto.FolioAuditReport, txns []domain.FolioTransaction) {
	logger := middleware.GetLoggerFromCtx(ctx)
	for i := range txns {
		t := &txns[i]
		if !t.IsTransferLeg() || t.IsVoided() {
			continue
		}
		switch t.Category {
		case domain.CategoryTransferOut:
			in, err := s.ledgerRepo.FindTransferLegByOriginal(ctx, t.TransactionID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					report.Mismatches = append(report.Mismatches, dto.AuditMismatch{
						Kind:          dto.MismatchOrphanTransferOut,
						TransactionID: t.TransactionID,
						Stored:        t.TotalAmount,
						Detail:        "transfer_out has no transfer_in counterpart",
					})
				} else {
					logger.Error("Failed to resolve transfer counterpart", slog.String("error", err.Error()), slog.String("transaction_id", t.TransactionID))
				}
				continue
			}
			if in.IsVoided() {
				report.Mismatches = append(report.Mismatches, dto.AuditMismatch{
					Kind:          dto.MismatchTransferVoidSkew,
					TransactionID: t.TransactionID,
					Stored:        t.TotalAmount,
					Detail:        "transfer_in leg is voided while transfer_out is active",
				})
				continue
			}
			if !in.TotalAmount.Abs().Equal(t.TotalAmount.Abs()) {
				report.Mismatches = append(report.Mismatches, dto.AuditMismatch{
					Kind:          dto.MismatchTransferAmount,
					TransactionID: t.TransactionID,
					Stored:        t.TotalAmount,
					Derived:       in.TotalAmount,
					Delta:         t.TotalAmount.Abs().Sub(in.TotalAmount.Abs()),
					Detail:        "transfer legs carry different amounts",
				})
			}
		case domain.CategoryTransferIn:
			if t.OriginalTransactionID == nil {
				report.Mismatches = append(report.Mismatches, dto.AuditMismatch{
					Kind:          dto.MismatchOrphanTransferIn,
					TransactionID: t.TransactionID,
					Stored:        t.TotalAmount,
					Detail:        "transfer_in carries no back-reference",
				})
				continue
			}
			out, err := s.ledgerRepo.FindTransactionByID(ctx, *t.OriginalTransactionID)
			if err != nil || out.Category != domain.CategoryTransferOut {
				report.Mismatches = append(report.Mismatches, dto.AuditMismatch{
					Kind:          dto.MismatchOrphanTransferIn,
					TransactionID: t.TransactionID,
					Stored:        t.TotalAmount,
					Detail:        "transfer_in back-reference does not resolve to a transfer_out",
				})
			}
		}
	}
}

// AuditAndFix audits and then repairs what can be repaired through the public
// contracts: balance drift is fixed by recomputing the cache, void skew and
// orphaned transfer_out legs by voiding the remaining leg. Room split drift is
// report-only because monetary fields are immutable once posted.
func (s *auditService) AuditAndFix(ctx context.Context, folioID string, actorID string) (*dto.FolioAuditReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report, err := s.AuditFolio(ctx, folioID)
	if err != nil {
		return nil, err
	}

	for _, m := range report.Mismatches {
		switch m.Kind {
		case dto.MismatchBalanceDrift:
			if _, err := s.balanceSvc.Recompute(ctx, folioID, actorID); err != nil {
				logger.Error("Failed to fix balance drift", slog.String("error", err.Error()), slog.String("folio_id", folioID))
				continue
			}
			report.Fixed = append(report.Fixed, m.Kind)
		case dto.MismatchTransferVoidSkew, dto.MismatchOrphanTransferOut:
			if _, err := s.ledgerSvc.VoidTransaction(ctx, m.TransactionID, "consistency audit: unpaired transfer leg", actorID); err != nil {
				logger.Error("Failed to void unpaired transfer leg", slog.String("error", err.Error()), slog.String("transaction_id", m.TransactionID))
				continue
			}
			report.Fixed = append(report.Fixed, m.Kind)
		}
	}

	if len(report.Fixed) > 0 {
		logger.Info("Audit fixes applied", slog.String("folio_id", folioID), slog.Int("fixed", len(report.Fixed)))
	}
	return report, nil
}

// AuditHotel audits every folio of a hotel within the optional date range.
// Reconciliation warnings never abort the sweep; folios that fail to load are
// logged and skipped.
func (s *auditService) AuditHotel(ctx context.Context, hotelID string, params dto.ListFoliosParams, fix bool, actorID string) ([]dto.FolioAuditReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	var reports []dto.FolioAuditReport
	nextToken := params.NextToken
	for {
		folios, token, err := s.folioRepo.ListFoliosByHotel(ctx, hotelID, params.From, params.To, limit, nextToken)
		if err != nil {
			return reports, fmt.Errorf("failed to list folios for hotel %s: %w", hotelID, err)
		}
		for _, f := range folios {
			var report *dto.FolioAuditReport
			if fix {
				report, err = s.AuditAndFix(ctx, f.FolioID, actorID)
			} else {
				report, err = s.AuditFolio(ctx, f.FolioID)
			}
			if err != nil {
				logger.Error("Folio audit failed", slog.String("error", err.Error()), slog.String("folio_id", f.FolioID))
				continue
			}
			reports = append(reports, *report)
		}
		if token == nil {
			break
		}
		nextToken = token
	}
	return reports, nil
}
