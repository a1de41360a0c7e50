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
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
)

var ErrFolioOwnerMissing = errors.New("guest folios require a reservation, company folios a company")

// folioService manages folio lifecycle. Folios start open with a zero cached
// balance; closing is terminal for postings but the transaction history stays
// readable forever.
type folioService struct {
	folioRepo portsrepo.FolioRepositoryFacade
}

// NewFolioService creates a folio lifecycle service.
func NewFolioService(folioRepo portsrepo.FolioRepositoryFacade) portssvc.FolioSvcFacade {
	return &folioService{folioRepo: folioRepo}
}

var _ portssvc.FolioSvcFacade = (*folioService)(nil)

// CreateFolio opens a new folio.
func (s *folioService) CreateFolio(ctx context.Context, req dto.CreateFolioRequest, creatorUserID string) (*domain.Folio, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch req.FolioType {
	case domain.FolioTypeGuest:
		if req.ReservationID == "" {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrFolioOwnerMissing)
		}
	case domain.FolioTypeCompany:
		if req.CompanyID == "" {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrFolioOwnerMissing)
		}
	}

	now := time.Now().UTC()
	folio := domain.Folio{
		FolioID:       uuid.NewString(),
		HotelID:       req.HotelID,
		ReservationID: req.ReservationID,
		CompanyID:     req.CompanyID,
		FolioType:     req.FolioType,
		CurrencyCode:  req.CurrencyCode,
		Status:        domain.FolioOpen,
		Balance:       decimal.Zero,
		AuditFields:   auditFieldsFor(creatorUserID, now),
	}

	if err := s.folioRepo.SaveFolio(ctx, folio); err != nil {
		logger.Error("Failed to save folio", slog.String("error", err.Error()), slog.String("hotel_id", req.HotelID))
		return nil, fmt.Errorf("failed to save folio: %w", err)
	}

	logger.Info("Folio created", slog.String("folio_id", folio.FolioID), slog.String("hotel_id", folio.HotelID))
	return &folio, nil
}

// GetFolioByID retrieves a folio.
func (s *folioService) GetFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	return folio, nil
}

// ListFolios retrieves a paginated list of a hotel's folios.
func (s *folioService) ListFolios(ctx context.Context, hotelID string, params dto.ListFoliosParams) (*dto.ListFoliosResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	folios, nextToken, err := s.folioRepo.ListFoliosByHotel(ctx, hotelID, params.From, params.To, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list folios", slog.String("error", err.Error()), slog.String("hotel_id", hotelID))
		return nil, fmt.Errorf("failed to retrieve folios: %w", err)
	}

	responses := make([]dto.FolioResponse, len(folios))
	for i := range folios {
		responses[i] = dto.ToFolioResponse(&folios[i])
	}
	return &dto.ListFoliosResponse{Folios: responses, NextToken: nextToken}, nil
}

// CloseFolio stops a folio from accepting new postings.
func (s *folioService) CloseFolio(ctx context.Context, folioID string, actorID string) (*domain.Folio, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	if folio.Status == domain.FolioClosed {
		return nil, fmt.Errorf("%w: folio %s is already closed", apperrors.ErrConflict, folioID)
	}

	now := time.Now().UTC()
	if err := s.folioRepo.UpdateFolioStatus(ctx, folioID, domain.FolioClosed, actorID, now); err != nil {
		logger.Error("Failed to close folio", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to close folio: %w", err)
	}

	folio.Status = domain.FolioClosed
	folio.LastUpdatedAt = now
	folio.LastUpdatedBy = actorID
	logger.Info("Folio closed", slog.String("folio_id", folioID))
	return folio, nil
}
