package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FolioType distinguishes who owns a folio.
type FolioType string

const (
	FolioTypeGuest   FolioType = "GUEST"
	FolioTypeCompany FolioType = "COMPANY" // city ledger
	FolioTypeHouse   FolioType = "HOUSE"
)

// FolioStatus indicates whether a folio still accepts postings.
type FolioStatus string

const (
	FolioOpen   FolioStatus = "OPEN"
	FolioClosed FolioStatus = "CLOSED"
)

// Folio is a running account that accumulates transactions for a stay or a
// billing entity. Balance is a cached derived value; the transaction set is
// the source of truth.
type Folio struct {
	FolioID       string      `json:"folioID"`       // Primary Key (UUID)
	HotelID       string      `json:"hotelID"`       // Owning hotel (Not Null)
	ReservationID string      `json:"reservationID"` // Nullable; set for guest folios
	CompanyID     string      `json:"companyID"`     // Nullable; set for city-ledger folios
	FolioType     FolioType   `json:"folioType"`
	CurrencyCode  string      `json:"currencyCode"`
	Status        FolioStatus `json:"status"`
	AuditFields

	Balance          decimal.Decimal `json:"balance"` // Cached; refreshed on every mutation
	LastRecomputedAt *time.Time      `json:"lastRecomputedAt"`
}

// AcceptsPostings reports whether new transactions may be appended.
func (f Folio) AcceptsPostings() bool {
	return f.Status == FolioOpen
}
