package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FolioType distinguishes who owns a folio.
type FolioType string

const (
	FolioTypeGuest   FolioType = "GUEST"
	FolioTypeCompany FolioType = "COMPANY"
	FolioTypeHouse   FolioType = "HOUSE"
)

// FolioStatus indicates whether a folio still accepts postings.
type FolioStatus string

const (
	FolioOpen   FolioStatus = "OPEN"
	FolioClosed FolioStatus = "CLOSED"
)

// Folio represents a row of the folios table.
type Folio struct {
	FolioID       string      `json:"folioID"` // Primary Key (UUID)
	HotelID       string      `json:"hotelID"`
	ReservationID *string     `json:"reservationID"` // Nullable; set for guest folios
	CompanyID     *string     `json:"companyID"`     // Nullable; set for city-ledger folios
	FolioType     FolioType   `json:"folioType"`
	CurrencyCode  string      `json:"currencyCode"`
	Status        FolioStatus `json:"status"`
	AuditFields

	Balance          decimal.Decimal `json:"balance"`
	LastRecomputedAt *time.Time      `json:"lastRecomputedAt"`
}
