package domain

import "github.com/shopspring/decimal"

// BalanceSnapshot is the result of folding a folio's transaction set.
type BalanceSnapshot struct {
	TotalCharges       decimal.Decimal `json:"totalCharges"`
	TotalPayments      decimal.Decimal `json:"totalPayments"`
	TotalAdjustments   decimal.Decimal `json:"totalAdjustments"`
	TotalTax           decimal.Decimal `json:"totalTax"`
	TotalServiceCharge decimal.Decimal `json:"totalServiceCharge"`
	TotalDiscount      decimal.Decimal `json:"totalDiscount"`
	Balance            decimal.Decimal `json:"balance"`
}

// AggregationPolicy pins down the two historically ambiguous readings of the
// folio fold. The defaults match the live balance calculation; the auditor can
// run the alternate reading to quantify the difference.
type AggregationPolicy struct {
	// ExcludeMealPlanPostings drops transactions whose MealPlanID is set.
	// The bundled meal component is already inside the room posting's gross,
	// so counting the per-component detail rows would double-charge the stay.
	ExcludeMealPlanPostings bool
}

// DefaultAggregationPolicy returns the policy used by the live balance cache.
func DefaultAggregationPolicy() AggregationPolicy {
	return AggregationPolicy{ExcludeMealPlanPostings: true}
}

// Included reports whether a transaction participates in aggregation under
// the given policy. Voided transactions are retained in storage but never
// contribute.
func (p AggregationPolicy) Included(t FolioTransaction) bool {
	if t.IsVoided() {
		return false
	}
	if p.ExcludeMealPlanPostings && t.MealPlanID != nil {
		return false
	}
	return true
}

// Contribution returns the signed effect one transaction has on the folio
// balance under the given policy. Aggregate's Balance equals the sum of
// Contribution over the same set, which lets cached balances be maintained by
// delta under a folio lock without re-reading the full history.
func Contribution(t FolioTransaction, policy AggregationPolicy) decimal.Decimal {
	if !policy.Included(t) {
		return decimal.Zero
	}
	c := t.TaxAmount.Add(t.ServiceChargeAmount)
	switch t.Type {
	case TypeCharge, TypeRoomPosting:
		c = c.Add(t.TotalAmount)
	case TypePayment:
		c = c.Sub(t.TotalAmount.Abs())
	case TypeAdjustment:
		// Sign carries intent: negative adjustments reduce the balance.
		c = c.Add(t.TotalAmount)
	case TypeTransfer:
		if t.Category == CategoryTransferOut {
			c = c.Sub(t.TotalAmount.Abs())
		} else {
			c = c.Add(t.TotalAmount.Abs())
		}
	case TypeRefund:
		// A refund is a negative payment.
		c = c.Add(t.TotalAmount.Abs())
	}
	return c
}

// Aggregate deterministically folds a folio's transactions into a balance
// snapshot. It is pure: running it twice over the same set yields the same
// result, and the outcome does not depend on the order of the input.
func Aggregate(txns []FolioTransaction, policy AggregationPolicy) BalanceSnapshot {
	s := BalanceSnapshot{
		TotalCharges:       decimal.Zero,
		TotalPayments:      decimal.Zero,
		TotalAdjustments:   decimal.Zero,
		TotalTax:           decimal.Zero,
		TotalServiceCharge: decimal.Zero,
		TotalDiscount:      decimal.Zero,
		Balance:            decimal.Zero,
	}
	for _, t := range txns {
		if !policy.Included(t) {
			continue
		}
		switch t.Type {
		case TypeCharge, TypeRoomPosting:
			s.TotalCharges = s.TotalCharges.Add(t.TotalAmount)
		case TypePayment:
			s.TotalPayments = s.TotalPayments.Add(t.TotalAmount.Abs())
		case TypeAdjustment:
			s.TotalAdjustments = s.TotalAdjustments.Add(t.TotalAmount)
		case TypeTransfer:
			if t.Category == CategoryTransferOut {
				s.TotalPayments = s.TotalPayments.Add(t.TotalAmount.Abs())
			} else {
				s.TotalCharges = s.TotalCharges.Add(t.TotalAmount.Abs())
			}
		case TypeRefund:
			s.TotalPayments = s.TotalPayments.Sub(t.TotalAmount.Abs())
		}
		s.TotalTax = s.TotalTax.Add(t.TaxAmount)
		s.TotalServiceCharge = s.TotalServiceCharge.Add(t.ServiceChargeAmount)
		s.TotalDiscount = s.TotalDiscount.Add(t.DiscountAmount)
	}
	s.Balance = s.TotalCharges.
		Add(s.TotalTax).
		Add(s.TotalServiceCharge).
		Add(s.TotalAdjustments).
		Sub(s.TotalPayments)
	return s
}
