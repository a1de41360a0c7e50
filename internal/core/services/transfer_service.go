package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/openstay/folio-engine/internal/core/events"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
)

var (
	ErrTransferSourceVoided = errors.New("cannot transfer a voided transaction")
	ErrTransferSelf         = errors.New("cannot transfer a transaction onto its own folio")
	ErrTransferOfTransfer   = errors.New("transfer legs cannot be transferred again")
)

// transferService creates linked transaction pairs across two folios: a
// transfer_out on the source and a transfer_in on the target, one economic
// movement. Idempotent retries are the failure-recovery mechanism: if the pair
// already exists it is returned unchanged.
type transferService struct {
	folioRepo  portsrepo.FolioReader
	ledgerRepo portsrepo.LedgerRepositoryFacade
	publisher  events.Publisher
}

// NewTransferService creates a transfer coordinator.
func NewTransferService(folioRepo portsrepo.FolioReader, ledgerRepo portsrepo.LedgerRepositoryFacade, publisher events.Publisher) portssvc.TransferSvcFacade {
	return &transferService{folioRepo: folioRepo, ledgerRepo: ledgerRepo, publisher: publisher}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// Transfer moves the economic value of a recorded transaction to the target
// folio. The transfer_out references the source transaction; the transfer_in
// references the transfer_out.
func (s *transferService) Transfer(ctx context.Context, sourceTransactionID string, targetFolioID string, actorID string) (*dto.TransferPairResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.ledgerRepo.FindTransactionByID(ctx, sourceTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find source transaction %s: %w", sourceTransactionID, err)
	}
	if source.IsVoided() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTransferSourceVoided)
	}
	if source.IsTransferLeg() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTransferOfTransfer)
	}
	if source.FolioID == targetFolioID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTransferSelf)
	}

	// Existing-pair check makes retries no-ops.
	existingOut, err := s.ledgerRepo.FindTransferLegByOriginal(ctx, sourceTransactionID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing transfer: %w", err)
	}
	if existingOut != nil {
		existingIn, err := s.ledgerRepo.FindTransferLegByOriginal(ctx, existingOut.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing transfer pair: %w", err)
		}
		logger.Info("Transfer already exists, returning existing pair",
			slog.String("source_transaction_id", sourceTransactionID),
			slog.String("transfer_out_id", existingOut.TransactionID))
		return &dto.TransferPairResponse{
			Parent: dto.ToTransactionResponse(existingOut),
			Child:  dto.ToTransactionResponse(existingIn),
		}, nil
	}

	sourceFolio, err := s.folioRepo.FindFolioByID(ctx, source.FolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find source folio %s: %w", source.FolioID, err)
	}
	targetFolio, err := s.folioRepo.FindFolioByID(ctx, targetFolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: target folio %s", apperrors.ErrNotFound, targetFolioID)
		}
		return nil, fmt.Errorf("failed to find target folio %s: %w", targetFolioID, err)
	}
	if targetFolio.HotelID != sourceFolio.HotelID {
		return nil, fmt.Errorf("%w: target folio belongs to a different hotel", apperrors.ErrTransferTargetMismatch)
	}
	if targetFolio.CurrencyCode != sourceFolio.CurrencyCode {
		return nil, fmt.Errorf("%w: target folio uses currency %s, source uses %s",
			apperrors.ErrTransferTargetMismatch, targetFolio.CurrencyCode, sourceFolio.CurrencyCode)
	}
	if !targetFolio.AcceptsPostings() {
		return nil, fmt.Errorf("%w: target folio %s", ErrFolioClosed, targetFolioID)
	}

	// The pair moves the full economic value of the source transaction:
	// charge component plus tax and service charge.
	amount := source.GrossValue().Abs()
	now := time.Now().UTC()

	out := domain.FolioTransaction{
		TransactionID:         uuid.NewString(),
		FolioID:               sourceFolio.FolioID,
		HotelID:               sourceFolio.HotelID,
		Type:                  domain.TypeTransfer,
		Category:              domain.CategoryTransferOut,
		Description:           fmt.Sprintf("Transfer to folio %s", targetFolio.FolioID),
		Amount:                amount,
		TotalAmount:           amount,
		OriginalTransactionID: &source.TransactionID,
		Status:                domain.StatusActive,
		AuditFields:           auditFieldsFor(actorID, now),
	}
	in := domain.FolioTransaction{
		TransactionID:         uuid.NewString(),
		FolioID:               targetFolio.FolioID,
		HotelID:               targetFolio.HotelID,
		Type:                  domain.TypeTransfer,
		Category:              domain.CategoryTransferIn,
		Description:           fmt.Sprintf("Transfer from folio %s", sourceFolio.FolioID),
		Amount:                amount,
		TotalAmount:           amount,
		OriginalTransactionID: &out.TransactionID,
		Status:                domain.StatusActive,
		AuditFields:           auditFieldsFor(actorID, now),
	}

	policy := domain.DefaultAggregationPolicy()
	sourceDelta := domain.Contribution(out, policy)
	targetDelta := domain.Contribution(in, policy)

	if err := s.ledgerRepo.SaveTransferPair(ctx, out, in, sourceDelta, targetDelta); err != nil {
		logger.Error("Failed to save transfer pair",
			slog.String("error", err.Error()),
			slog.String("source_folio_id", sourceFolio.FolioID),
			slog.String("target_folio_id", targetFolio.FolioID))
		return nil, fmt.Errorf("failed to save transfer pair: %w", err)
	}

	s.publisher.Publish(ctx, events.Event{
		Kind:          events.TransferCreated,
		HotelID:       sourceFolio.HotelID,
		FolioID:       sourceFolio.FolioID,
		TransactionID: out.TransactionID,
		OccurredAt:    now,
	})
	logger.Info("Transfer pair created",
		slog.String("transfer_out_id", out.TransactionID),
		slog.String("transfer_in_id", in.TransactionID),
		slog.String("amount", amount.String()))
	return &dto.TransferPairResponse{
		Parent: dto.ToTransactionResponse(&out),
		Child:  dto.ToTransactionResponse(&in),
	}, nil
}
