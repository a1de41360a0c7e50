package models

import "github.com/shopspring/decimal"

// TaxPostingType distinguishes percentage rates from flat per-posting amounts.
type TaxPostingType string

const (
	PostingFlatPercentage TaxPostingType = "FLAT_PERCENTAGE"
	PostingFlatAmount     TaxPostingType = "FLAT_AMOUNT"
)

// TaxRate represents a row of the tax_rates table.
type TaxRate struct {
	TaxRateID   string          `json:"taxRateID"` // Primary Key (UUID)
	HotelID     string          `json:"hotelID"`
	Name        string          `json:"name"`
	PostingType TaxPostingType  `json:"postingType"`
	Percentage  decimal.Decimal `json:"percentage"`
	Amount      decimal.Decimal `json:"amount"`
	AuditFields
}
