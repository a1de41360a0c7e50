package taxation

import (
	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitInput describes one night of a bundled room rate.
type SplitInput struct {
	PackageGrossDailyRate decimal.Decimal
	MealPlan              *domain.MealPlan // nil when the rate bundles no meal plan
	Guests                domain.GuestCounts
	HotelTaxStack         []domain.TaxRate // the room-charge tax rates in effect
}

// SplitResult is the room/meal decomposition of a nightly package rate.
type SplitResult struct {
	RoomFinalRate       decimal.Decimal
	RoomFinalNetAmount  decimal.Decimal
	RoomFinalRateTax    decimal.Decimal
	MealPlanGrossPerDay decimal.Decimal
}

// ComponentDailyGross prices one day of a single meal-plan component for the
// given occupancy. Components targeting a specific guest type multiply by
// that count unless flagged fixed-price. Returns zero for non-positive
// quantities or gross.
func ComponentDailyGross(c domain.MealPlanComponent, guests domain.GuestCounts) decimal.Decimal {
	quantity := c.QuantityPerDay
	if !c.FixedPrice {
		quantity = c.QuantityPerDay * guests.ForGuestType(c.TargetGuestType)
	}
	if quantity <= 0 {
		return decimal.Zero
	}
	gross := c.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if gross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return gross
}

// MealPlanDailyGross prices one day of a meal plan for the given occupancy.
func MealPlanDailyGross(plan *domain.MealPlan, guests domain.GuestCounts) decimal.Decimal {
	gross := decimal.Zero
	if plan == nil {
		return gross
	}
	for _, c := range plan.Components {
		gross = gross.Add(ComponentDailyGross(c, guests))
	}
	return gross
}

// SplitRoomCharge decomposes a bundled nightly rate into its room-only and
// meal-plan portions and backs the tax out of the room portion using the
// hotel's room-charge tax stack. All outputs are rounded to 2 decimal places
// and are never negative.
func SplitRoomCharge(in SplitInput) SplitResult {
	mealGross := decimal.Zero
	if in.MealPlan != nil && in.MealPlan.IncludedInRate {
		mealGross = MealPlanDailyGross(in.MealPlan, in.Guests)
	}

	totalRoomAmount := in.PackageGrossDailyRate
	if mealGross.IsPositive() {
		totalRoomAmount = in.PackageGrossDailyRate.Sub(mealGross)
		if totalRoomAmount.IsNegative() {
			totalRoomAmount = decimal.Zero
		}
	}

	flatSum := decimal.Zero
	percSum := decimal.Zero
	for _, r := range in.HotelTaxStack {
		if r.IsPercentage() {
			percSum = percSum.Add(r.Percentage)
		} else {
			flatSum = flatSum.Add(r.Amount)
		}
	}

	adjustedGross := totalRoomAmount.Sub(flatSum)
	if adjustedGross.IsNegative() {
		adjustedGross = decimal.Zero
	}

	netWithoutTax := adjustedGross
	if percSum.IsPositive() {
		netWithoutTax = adjustedGross.Div(one.Add(percSum.Div(hundred)))
	}

	tax := totalRoomAmount.Sub(netWithoutTax)

	return SplitResult{
		RoomFinalRate:       clampRound2(totalRoomAmount),
		RoomFinalNetAmount:  clampRound2(netWithoutTax),
		RoomFinalRateTax:    clampRound2(tax),
		MealPlanGrossPerDay: clampRound2(mealGross),
	}
}

func clampRound2(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}
