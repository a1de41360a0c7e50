package domain

import "github.com/shopspring/decimal"

// TaxPostingType distinguishes percentage rates from flat per-posting amounts.
type TaxPostingType string

const (
	PostingFlatPercentage TaxPostingType = "FLAT_PERCENTAGE"
	PostingFlatAmount     TaxPostingType = "FLAT_AMOUNT"
)

// TaxRate is a single tax component. Rate sets attach to a room, to a hotel's
// room-charge default stack, or to an extra-charge item.
type TaxRate struct {
	TaxRateID   string          `json:"taxRateID"` // Primary Key (UUID)
	HotelID     string          `json:"hotelID"`
	Name        string          `json:"name"`
	PostingType TaxPostingType  `json:"postingType"`
	Percentage  decimal.Decimal `json:"percentage"` // e.g. 10 for 10%; zero for flat-amount rates
	Amount      decimal.Decimal `json:"amount"`     // flat amount per posting; zero for percentage rates
	AuditFields
}

// IsPercentage reports whether the rate applies as a percentage of the amount.
func (r TaxRate) IsPercentage() bool {
	return r.PostingType == PostingFlatPercentage
}

// TaxRateOwner identifies what a rate set is attached to.
type TaxRateOwner string

const (
	OwnerRoom              TaxRateOwner = "ROOM"
	OwnerHotelRoomCharge   TaxRateOwner = "HOTEL_ROOM_CHARGE"
	OwnerExtraChargeItem   TaxRateOwner = "EXTRA_CHARGE_ITEM"
)
