package repositories

import (
	"context"

	"github.com/openstay/folio-engine/internal/core/domain"
)

// TaxRateReader defines read operations for tax rate sets.
type TaxRateReader interface {
	// FindRatesForOwner retrieves the rate set attached to a taxable object
	// (a room, an extra-charge item) in attachment order.
	FindRatesForOwner(ctx context.Context, hotelID string, owner domain.TaxRateOwner, ownerID string) ([]domain.TaxRate, error)

	// FindHotelRoomChargeDefaults retrieves the hotel-level default room-charge
	// rate stack.
	FindHotelRoomChargeDefaults(ctx context.Context, hotelID string) ([]domain.TaxRate, error)
}

// MealPlanReader defines read operations for meal plans.
type MealPlanReader interface {
	// FindMealPlanByID retrieves a meal plan with its components.
	FindMealPlanByID(ctx context.Context, mealPlanID string) (*domain.MealPlan, error)
}
