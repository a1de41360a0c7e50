package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openstay/folio-engine/internal/core/domain"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/middleware"
)

// taxRateService resolves the applicable tax rate set for a taxable object.
// Hotel-level defaults apply only when the object defines no rates of its own.
type taxRateService struct {
	taxRateRepo portsrepo.TaxRateReader
}

// NewTaxRateService creates a new tax rate resolver.
func NewTaxRateService(taxRateRepo portsrepo.TaxRateReader) portssvc.TaxRateSvcFacade {
	return &taxRateService{taxRateRepo: taxRateRepo}
}

var _ portssvc.TaxRateSvcFacade = (*taxRateService)(nil)

// ResolveForRoom returns the rate set for a room, falling back to the hotel's
// room-charge defaults when the room defines none.
func (s *taxRateService) ResolveForRoom(ctx context.Context, hotelID, roomID string) ([]domain.TaxRate, error) {
	rates, err := s.taxRateRepo.FindRatesForOwner(ctx, hotelID, domain.OwnerRoom, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rates for room %s: %w", roomID, err)
	}
	if len(rates) == 0 {
		return s.ResolveHotelDefaults(ctx, hotelID)
	}
	return s.sanitize(ctx, hotelID, rates), nil
}

// ResolveForExtraCharge returns the rate set for an extra-charge item. Extra
// charges without their own rates are untaxed; the room-charge defaults do
// not apply to them.
func (s *taxRateService) ResolveForExtraCharge(ctx context.Context, hotelID, itemID string) ([]domain.TaxRate, error) {
	rates, err := s.taxRateRepo.FindRatesForOwner(ctx, hotelID, domain.OwnerExtraChargeItem, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rates for extra charge %s: %w", itemID, err)
	}
	return s.sanitize(ctx, hotelID, rates), nil
}

// ResolveHotelDefaults returns the hotel-level default room-charge stack.
func (s *taxRateService) ResolveHotelDefaults(ctx context.Context, hotelID string) ([]domain.TaxRate, error) {
	rates, err := s.taxRateRepo.FindHotelRoomChargeDefaults(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hotel default rates for %s: %w", hotelID, err)
	}
	return s.sanitize(ctx, hotelID, rates), nil
}

// sanitize de-duplicates by rate ID preserving order and drops rates owned by
// a different hotel.
func (s *taxRateService) sanitize(ctx context.Context, hotelID string, rates []domain.TaxRate) []domain.TaxRate {
	logger := middleware.GetLoggerFromCtx(ctx)
	seen := make(map[string]struct{}, len(rates))
	out := make([]domain.TaxRate, 0, len(rates))
	for _, r := range rates {
		if r.HotelID != hotelID {
			logger.Warn("Dropping tax rate owned by a different hotel",
				slog.String("tax_rate_id", r.TaxRateID),
				slog.String("rate_hotel_id", r.HotelID),
				slog.String("hotel_id", hotelID))
			continue
		}
		if _, ok := seen[r.TaxRateID]; ok {
			continue
		}
		seen[r.TaxRateID] = struct{}{}
		out = append(out, r)
	}
	return out
}
