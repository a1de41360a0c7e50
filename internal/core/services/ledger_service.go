package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/openstay/folio-engine/internal/core/events"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
	"github.com/openstay/folio-engine/internal/utils/taxation"
)

var (
	ErrFolioClosed        = errors.New("folio is closed to new postings")
	ErrAmountNotPositive  = errors.New("amount must be positive")
	ErrMealPlanNotAllowed = errors.New("mealPlanID is only allowed on meal-plan-sourced postings")
	ErrVoidReasonMissing  = errors.New("void reason is required")
	ErrMealPlanMismatch   = errors.New("meal plan belongs to a different hotel")
)

// ledgerService is the append-only transaction ledger. All folio financial
// events enter through it; historical rows are never edited or reordered, the
// only mutation is the active -> voided status transition.
type ledgerService struct {
	folioRepo    portsrepo.FolioReader
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	taxRateSvc   portssvc.TaxRateSvcFacade
	mealPlanRepo portsrepo.MealPlanReader
	publisher    events.Publisher
	policy       domain.AggregationPolicy
}

// NewLedgerService creates the ledger around its repositories and the tax
// rate resolver.
func NewLedgerService(
	folioRepo portsrepo.FolioReader,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	taxRateSvc portssvc.TaxRateSvcFacade,
	mealPlanRepo portsrepo.MealPlanReader,
	publisher events.Publisher,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		folioRepo:    folioRepo,
		ledgerRepo:   ledgerRepo,
		taxRateSvc:   taxRateSvc,
		mealPlanRepo: mealPlanRepo,
		publisher:    publisher,
		policy:       domain.DefaultAggregationPolicy(),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// loadOpenFolio fetches a folio and verifies it still accepts postings.
func (s *ledgerService) loadOpenFolio(ctx context.Context, folioID string) (*domain.Folio, error) {
	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	if !folio.AcceptsPostings() {
		return nil, fmt.Errorf("%w: folio %s", ErrFolioClosed, folioID)
	}
	return folio, nil
}

// AppendCharge posts a charge onto a folio, resolving and recording its tax
// breakdown.
func (s *ledgerService) AppendCharge(ctx context.Context, folioID string, req dto.AppendChargeRequest, actorID string) (*domain.FolioTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}
	switch req.Category {
	case domain.CategoryTransferIn, domain.CategoryTransferOut:
		return nil, fmt.Errorf("%w: transfer categories are created by the transfer coordinator", apperrors.ErrValidation)
	}
	if req.MealPlanID != nil && req.Category != domain.CategoryPosting {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrMealPlanNotAllowed)
	}

	folio, err := s.loadOpenFolio(ctx, folioID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.FolioTransaction{
		TransactionID: uuid.NewString(),
		FolioID:       folio.FolioID,
		HotelID:       folio.HotelID,
		Type:          domain.TypeCharge,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        req.Amount,
		TotalAmount:   req.Amount,
		TaxAmount:     decimal.Zero,
		MealPlanID:    req.MealPlanID,
		Status:        domain.StatusActive,
		AuditFields:   auditFieldsFor(actorID, now),
	}

	if req.TaxContext != nil {
		rates, err := s.resolveRates(ctx, folio.HotelID, req.TaxContext)
		if err != nil {
			return nil, err
		}

		policy := taxation.TaxExclusive
		if req.TaxContext.UnitPrice.IsPositive() && req.TaxContext.Quantity > 0 {
			theoretical := req.TaxContext.UnitPrice.Mul(decimal.NewFromInt(int64(req.TaxContext.Quantity)))
			policy = taxation.InferPolicy(req.Amount, theoretical)
		}

		breakdown := taxation.ComputeTaxForHotel(folio.HotelID, req.Amount, rates, policy)
		txn.TaxAmount = breakdown.Total
		if policy == taxation.TaxInclusive {
			// The recorded amount already contains the tax; the charge
			// component is what remains after backing it out.
			txn.TotalAmount = req.Amount.Sub(breakdown.Total)
		}
		for _, line := range breakdown.Lines {
			txn.TaxLines = append(txn.TaxLines, domain.TaxLine{
				TaxLineID:     uuid.NewString(),
				TransactionID: txn.TransactionID,
				TaxRateID:     line.TaxRateID,
				Percentage:    line.Percentage,
				Amount:        line.Amount,
			})
		}
	}

	delta := domain.Contribution(txn, s.policy)
	if err := s.ledgerRepo.AppendTransactions(ctx, folio.FolioID, []domain.FolioTransaction{txn}, delta); err != nil {
		logger.Error("Failed to append charge", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to append charge: %w", err)
	}

	s.publisher.Publish(ctx, events.Event{
		Kind:          events.TransactionAppended,
		HotelID:       folio.HotelID,
		FolioID:       folio.FolioID,
		TransactionID: txn.TransactionID,
		OccurredAt:    now,
	})
	logger.Info("Charge appended", slog.String("transaction_id", txn.TransactionID), slog.String("folio_id", folioID))
	return &txn, nil
}

// resolveRates picks the rate source implied by the tax context.
func (s *ledgerService) resolveRates(ctx context.Context, hotelID string, tc *dto.TaxContext) ([]domain.TaxRate, error) {
	switch {
	case tc.RoomID != "" && tc.ExtraChargeItemID != "":
		return nil, fmt.Errorf("%w: tax context may reference a room or an extra charge, not both", apperrors.ErrValidation)
	case tc.RoomID != "":
		return s.taxRateSvc.ResolveForRoom(ctx, hotelID, tc.RoomID)
	case tc.ExtraChargeItemID != "":
		return s.taxRateSvc.ResolveForExtraCharge(ctx, hotelID, tc.ExtraChargeItemID)
	default:
		return s.taxRateSvc.ResolveHotelDefaults(ctx, hotelID)
	}
}

// AppendPayment posts a payment onto a folio.
func (s *ledgerService) AppendPayment(ctx context.Context, folioID string, req dto.AppendPaymentRequest, actorID string) (*domain.FolioTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	folio, err := s.loadOpenFolio(ctx, folioID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.FolioTransaction{
		TransactionID: uuid.NewString(),
		FolioID:       folio.FolioID,
		HotelID:       folio.HotelID,
		Type:          domain.TypePayment,
		Category:      domain.CategoryPayment,
		Description:   req.Description,
		Amount:        req.Amount,
		TotalAmount:   req.Amount,
		PaymentMethod: req.Method,
		Status:        domain.StatusActive,
		AuditFields:   auditFieldsFor(actorID, now),
	}

	delta := domain.Contribution(txn, s.policy)
	if err := s.ledgerRepo.AppendTransactions(ctx, folio.FolioID, []domain.FolioTransaction{txn}, delta); err != nil {
		logger.Error("Failed to append payment", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to append payment: %w", err)
	}

	s.publisher.Publish(ctx, events.Event{
		Kind:          events.TransactionAppended,
		HotelID:       folio.HotelID,
		FolioID:       folio.FolioID,
		TransactionID: txn.TransactionID,
		OccurredAt:    now,
	})
	logger.Info("Payment appended", slog.String("transaction_id", txn.TransactionID), slog.String("folio_id", folioID))
	return &txn, nil
}

// AppendRoomPosting posts one night of a bundled room rate: the room posting
// itself carries the room/tax split, and each bundled meal-plan component is
// recorded as a meal-plan-sourced detail row. Detail rows duplicate value that
// is already inside the room posting's gross, which is why the default
// aggregation policy excludes them.
func (s *ledgerService) AppendRoomPosting(ctx context.Context, folioID string, req dto.AppendRoomPostingRequest, actorID string) ([]domain.FolioTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PackageGrossDailyRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	folio, err := s.loadOpenFolio(ctx, folioID)
	if err != nil {
		return nil, err
	}

	rates, err := s.taxRateSvc.ResolveForRoom(ctx, folio.HotelID, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve room tax stack: %w", err)
	}

	var plan *domain.MealPlan
	guests := domain.GuestCounts{}
	if req.MealPlan != nil {
		plan, err = s.mealPlanRepo.FindMealPlanByID(ctx, req.MealPlan.MealPlanID)
		if err != nil {
			return nil, fmt.Errorf("failed to find meal plan %s: %w", req.MealPlan.MealPlanID, err)
		}
		if plan.HotelID != folio.HotelID {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrMealPlanMismatch)
		}
		guests = req.MealPlan.Guests
	}

	split := taxation.SplitRoomCharge(taxation.SplitInput{
		PackageGrossDailyRate: req.PackageGrossDailyRate,
		MealPlan:              plan,
		Guests:                guests,
		HotelTaxStack:         rates,
	})

	now := time.Now().UTC()
	roomTxn := domain.FolioTransaction{
		TransactionID:      uuid.NewString(),
		FolioID:            folio.FolioID,
		HotelID:            folio.HotelID,
		Type:               domain.TypeRoomPosting,
		Category:           domain.CategoryRoom,
		Description:        req.Description,
		Amount:             req.PackageGrossDailyRate,
		TotalAmount:        req.PackageGrossDailyRate.Sub(split.RoomFinalRateTax),
		TaxAmount:          split.RoomFinalRateTax,
		RoomFinalRate:      split.RoomFinalRate,
		RoomFinalNetAmount: split.RoomFinalNetAmount,
		RoomFinalRateTax:   split.RoomFinalRateTax,
		Status:             domain.StatusActive,
		AuditFields:        auditFieldsFor(actorID, now),
	}

	txns := []domain.FolioTransaction{roomTxn}
	if plan != nil && plan.IncludedInRate {
		for _, component := range plan.Components {
			gross := taxation.ComponentDailyGross(component, guests)
			if !gross.IsPositive() {
				continue
			}
			planID := plan.MealPlanID
			txns = append(txns, domain.FolioTransaction{
				TransactionID:         uuid.NewString(),
				FolioID:               folio.FolioID,
				HotelID:               folio.HotelID,
				Type:                  domain.TypeCharge,
				Category:              domain.CategoryPosting,
				Description:           component.Name,
				Amount:                gross,
				TotalAmount:           gross,
				MealPlanID:            &planID,
				OriginalTransactionID: &roomTxn.TransactionID,
				Status:                domain.StatusActive,
				AuditFields:           auditFieldsFor(actorID, now),
			})
		}
	}

	delta := decimal.Zero
	for _, t := range txns {
		delta = delta.Add(domain.Contribution(t, s.policy))
	}

	if err := s.ledgerRepo.AppendTransactions(ctx, folio.FolioID, txns, delta); err != nil {
		logger.Error("Failed to append room posting", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to append room posting: %w", err)
	}

	s.publisher.Publish(ctx, events.Event{
		Kind:          events.TransactionAppended,
		HotelID:       folio.HotelID,
		FolioID:       folio.FolioID,
		TransactionID: roomTxn.TransactionID,
		OccurredAt:    now,
	})
	logger.Info("Room posting appended",
		slog.String("transaction_id", roomTxn.TransactionID),
		slog.String("folio_id", folioID),
		slog.Int("detail_rows", len(txns)-1))
	return txns, nil
}

// VoidTransaction performs the single allowed status transition. Voiding a
// transfer leg voids its paired leg as well so the pair stays mutually
// consistent.
func (s *ledgerService) VoidTransaction(ctx context.Context, transactionID string, reason string, actorID string) (*domain.FolioTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrVoidReasonMissing)
	}

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.IsVoided() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAlreadyVoided, transactionID)
	}

	now := time.Now().UTC()
	voided := *txn
	voided.Status = domain.StatusVoided
	voided.VoidReason = reason
	voided.VoidedBy = actorID
	voided.VoidedAt = &now
	voided.LastUpdatedAt = now
	voided.LastUpdatedBy = actorID

	delta := domain.Contribution(*txn, s.policy).Neg()

	if txn.IsTransferLeg() {
		pair, pairErr := s.findTransferPair(ctx, txn)
		if pairErr != nil && !errors.Is(pairErr, apperrors.ErrNotFound) {
			return nil, pairErr
		}
		if pair != nil && !pair.IsVoided() {
			voidedPair := *pair
			voidedPair.Status = domain.StatusVoided
			voidedPair.VoidReason = reason
			voidedPair.VoidedBy = actorID
			voidedPair.VoidedAt = &now
			voidedPair.LastUpdatedAt = now
			voidedPair.LastUpdatedBy = actorID
			pairDelta := domain.Contribution(*pair, s.policy).Neg()

			if err := s.ledgerRepo.MarkTransferPairVoided(ctx, voided, voidedPair, delta, pairDelta); err != nil {
				logger.Error("Failed to void transfer pair", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
				return nil, fmt.Errorf("failed to void transfer pair: %w", err)
			}
			s.publishVoid(ctx, voided, now)
			s.publishVoid(ctx, voidedPair, now)
			logger.Info("Transfer pair voided",
				slog.String("transaction_id", voided.TransactionID),
				slog.String("paired_transaction_id", voidedPair.TransactionID))
			return &voided, nil
		}
	}

	if err := s.ledgerRepo.MarkTransactionVoided(ctx, voided, delta); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyVoided) {
			return nil, err
		}
		logger.Error("Failed to void transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to void transaction: %w", err)
	}

	s.publishVoid(ctx, voided, now)
	logger.Info("Transaction voided", slog.String("transaction_id", transactionID), slog.String("reason", reason))
	return &voided, nil
}

// findTransferPair locates the other leg of a transfer. The transfer_in leg
// points at the transfer_out via OriginalTransactionID; the out leg's pair is
// found by that back-reference.
func (s *ledgerService) findTransferPair(ctx context.Context, leg *domain.FolioTransaction) (*domain.FolioTransaction, error) {
	if leg.Category == domain.CategoryTransferOut {
		return s.ledgerRepo.FindTransferLegByOriginal(ctx, leg.TransactionID)
	}
	if leg.OriginalTransactionID == nil {
		return nil, apperrors.ErrNotFound
	}
	return s.ledgerRepo.FindTransactionByID(ctx, *leg.OriginalTransactionID)
}

func (s *ledgerService) publishVoid(ctx context.Context, txn domain.FolioTransaction, at time.Time) {
	s.publisher.Publish(ctx, events.Event{
		Kind:          events.TransactionVoided,
		HotelID:       txn.HotelID,
		FolioID:       txn.FolioID,
		TransactionID: txn.TransactionID,
		OccurredAt:    at,
	})
}

// GetTransactionByID retrieves a single transaction with its tax lines.
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.FolioTransaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a paginated slice of a folio's transactions.
func (s *ledgerService) ListTransactions(ctx context.Context, folioID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactionsByFolioID(ctx, folioID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// auditFieldsFor stamps creation metadata with a consistent timestamp.
func auditFieldsFor(actorID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}
