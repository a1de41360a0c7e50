package mapping

import (
	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/openstay/folio-engine/internal/models"
)

// ToDomainTaxRate converts a model TaxRate to a domain TaxRate
func ToDomainTaxRate(m models.TaxRate) domain.TaxRate {
	return domain.TaxRate{
		TaxRateID:   m.TaxRateID,
		HotelID:     m.HotelID,
		Name:        m.Name,
		PostingType: domain.TaxPostingType(m.PostingType),
		Percentage:  m.Percentage,
		Amount:      m.Amount,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaxRateSlice converts a slice of model TaxRates to domain
func ToDomainTaxRateSlice(ms []models.TaxRate) []domain.TaxRate {
	ds := make([]domain.TaxRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTaxRate(m)
	}
	return ds
}

// ToDomainMealPlan converts a model MealPlan and its component rows to a domain MealPlan
func ToDomainMealPlan(m models.MealPlan, components []models.MealPlanComponent) domain.MealPlan {
	cs := make([]domain.MealPlanComponent, len(components))
	for i, c := range components {
		cs[i] = domain.MealPlanComponent{
			ComponentID:     c.ComponentID,
			MealPlanID:      c.MealPlanID,
			Name:            c.Name,
			UnitPrice:       c.UnitPrice,
			QuantityPerDay:  c.QuantityPerDay,
			TargetGuestType: domain.GuestType(c.TargetGuestType),
			FixedPrice:      c.FixedPrice,
		}
	}
	return domain.MealPlan{
		MealPlanID:     m.MealPlanID,
		HotelID:        m.HotelID,
		Name:           m.Name,
		IncludedInRate: m.IncludedInRate,
		Components:     cs,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
