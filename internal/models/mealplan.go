package models

import "github.com/shopspring/decimal"

// GuestType selects which guest count a meal-plan component is priced against.
type GuestType string

// MealPlanComponent represents a row of the meal_plan_components table.
type MealPlanComponent struct {
	ComponentID     string          `json:"componentID"` // Primary Key (UUID)
	MealPlanID      string          `json:"mealPlanID"`  // FK -> MealPlan.mealPlanID (Not Null)
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	QuantityPerDay  int             `json:"quantityPerDay"`
	TargetGuestType GuestType       `json:"targetGuestType"`
	FixedPrice      bool            `json:"fixedPrice"`
}

// MealPlan represents a row of the meal_plans table.
type MealPlan struct {
	MealPlanID     string `json:"mealPlanID"` // Primary Key (UUID)
	HotelID        string `json:"hotelID"`
	Name           string `json:"name"`
	IncludedInRate bool   `json:"includedInRate"`
	AuditFields
}
