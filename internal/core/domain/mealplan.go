package domain

import "github.com/shopspring/decimal"

// GuestType selects which guest count a meal-plan component is priced against.
type GuestType string

const (
	GuestAdult  GuestType = "ADULT"
	GuestChild  GuestType = "CHILD"
	GuestInfant GuestType = "INFANT"
	GuestAll    GuestType = "ALL"
)

// GuestCounts is the occupancy of a stay for one night.
type GuestCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// Total returns the combined guest count.
func (g GuestCounts) Total() int {
	return g.Adults + g.Children + g.Infants
}

// ForGuestType resolves the count a component's quantity is multiplied by.
// Unknown or unspecified guest types count everyone.
func (g GuestCounts) ForGuestType(t GuestType) int {
	switch t {
	case GuestAdult:
		return g.Adults
	case GuestChild:
		return g.Children
	case GuestInfant:
		return g.Infants
	default:
		return g.Total()
	}
}

// MealPlanComponent is one extra-charge item bundled into a meal plan.
type MealPlanComponent struct {
	ComponentID     string          `json:"componentID"`
	MealPlanID      string          `json:"mealPlanID"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	QuantityPerDay  int             `json:"quantityPerDay"`
	TargetGuestType GuestType       `json:"targetGuestType"`
	// FixedPrice means the quantity is independent of the guest count.
	FixedPrice bool `json:"fixedPrice"`
}

// MealPlan bundles extra-charge components priced per day and per guest,
// sometimes embedded in a room rate rather than billed separately.
type MealPlan struct {
	MealPlanID     string              `json:"mealPlanID"` // Primary Key (UUID)
	HotelID        string              `json:"hotelID"`
	Name           string              `json:"name"`
	IncludedInRate bool                `json:"includedInRate"`
	Components     []MealPlanComponent `json:"components"`
	AuditFields
}
