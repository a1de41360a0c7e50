package taxation

import (
	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaxPolicy states whether a recorded amount already contains tax.
type TaxPolicy string

const (
	TaxInclusive TaxPolicy = "INCLUSIVE"
	TaxExclusive TaxPolicy = "EXCLUSIVE"
)

// Epsilon is the tolerance used for monetary comparisons across the engine:
// policy inference, net+tax reconstruction checks and audit drift.
var Epsilon = decimal.RequireFromString("0.05")

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// RateLine is the computed share of one tax rate.
type RateLine struct {
	TaxRateID  string
	Percentage decimal.Decimal
	Amount     decimal.Decimal
}

// Breakdown is the full per-rate tax decomposition of an amount.
type Breakdown struct {
	Lines []RateLine
	Total decimal.Decimal
}

// InferPolicy implements the caller-side heuristic: when the recorded amount
// matches the theoretical gross (unit price times quantity) within Epsilon the
// amount already contains tax, otherwise tax must be added on top.
func InferPolicy(recorded, theoreticalGross decimal.Decimal) TaxPolicy {
	if recorded.Sub(theoreticalGross).Abs().LessThanOrEqual(Epsilon) {
		return TaxInclusive
	}
	return TaxExclusive
}

// FilterRatesForHotel drops rates owned by a different hotel. A rate set
// referencing another hotel is an ownership violation and is excluded rather
// than applied.
func FilterRatesForHotel(hotelID string, rates []domain.TaxRate) []domain.TaxRate {
	out := make([]domain.TaxRate, 0, len(rates))
	for _, r := range rates {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out
}

// ComputeTax decomposes the tax carried by (or owed on) amount under the given
// rate set and policy. Zero or negative taxable amounts clamp to zero tax.
//
// Exclusive: each percentage rate taxes the full amount; flat rates apply as-is.
// Inclusive: the amount already contains tax, so each percentage rate's share
// is backed out of the net base amount/(1+totalPercentage/100). Flat-amount
// rates under an inclusive policy are treated as already-deducted flat shares;
// this mirrors historical postings and is an approximation.
func ComputeTax(amount decimal.Decimal, rates []domain.TaxRate, policy TaxPolicy) Breakdown {
	b := Breakdown{Total: decimal.Zero}
	if amount.LessThanOrEqual(decimal.Zero) || len(rates) == 0 {
		return b
	}

	if policy == TaxInclusive {
		totalPercentage := decimal.Zero
		for _, r := range rates {
			if r.IsPercentage() {
				totalPercentage = totalPercentage.Add(r.Percentage)
			}
		}
		netBase := amount
		if totalPercentage.IsPositive() {
			netBase = amount.Div(one.Add(totalPercentage.Div(hundred)))
		}
		for _, r := range rates {
			var share decimal.Decimal
			if r.IsPercentage() {
				share = netBase.Mul(r.Percentage.Div(hundred)).Round(2)
			} else {
				share = r.Amount.Round(2)
			}
			b.Lines = append(b.Lines, RateLine{TaxRateID: r.TaxRateID, Percentage: r.Percentage, Amount: share})
			b.Total = b.Total.Add(share)
		}
		return b
	}

	for _, r := range rates {
		var share decimal.Decimal
		if r.IsPercentage() {
			share = amount.Mul(r.Percentage.Div(hundred)).Round(2)
		} else {
			share = r.Amount.Round(2)
		}
		b.Lines = append(b.Lines, RateLine{TaxRateID: r.TaxRateID, Percentage: r.Percentage, Amount: share})
		b.Total = b.Total.Add(share)
	}
	return b
}

// ComputeTaxForHotel excludes foreign-hotel rates before computing.
func ComputeTaxForHotel(hotelID string, amount decimal.Decimal, rates []domain.TaxRate, policy TaxPolicy) Breakdown {
	return ComputeTax(amount, FilterRatesForHotel(hotelID, rates), policy)
}
