package dto

import (
	"time"

	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFolioRequest opens a new folio for a stay or a billing entity.
type CreateFolioRequest struct {
	HotelID       string           `json:"hotelID" binding:"required"`
	FolioType     domain.FolioType `json:"folioType" binding:"required,oneof=GUEST COMPANY HOUSE"`
	CurrencyCode  string           `json:"currencyCode" binding:"required,len=3"`
	ReservationID string           `json:"reservationID"`
	CompanyID     string           `json:"companyID"`
}

// FolioResponse is the API representation of a folio.
type FolioResponse struct {
	FolioID          string             `json:"folioID"`
	HotelID          string             `json:"hotelID"`
	ReservationID    string             `json:"reservationID,omitempty"`
	CompanyID        string             `json:"companyID,omitempty"`
	FolioType        domain.FolioType   `json:"folioType"`
	CurrencyCode     string             `json:"currencyCode"`
	Status           domain.FolioStatus `json:"status"`
	Balance          decimal.Decimal    `json:"balance"`
	LastRecomputedAt *time.Time         `json:"lastRecomputedAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// ToFolioResponse converts a domain Folio to its API representation.
func ToFolioResponse(f *domain.Folio) FolioResponse {
	return FolioResponse{
		FolioID:          f.FolioID,
		HotelID:          f.HotelID,
		ReservationID:    f.ReservationID,
		CompanyID:        f.CompanyID,
		FolioType:        f.FolioType,
		CurrencyCode:     f.CurrencyCode,
		Status:           f.Status,
		Balance:          f.Balance,
		LastRecomputedAt: f.LastRecomputedAt,
		CreatedAt:        f.CreatedAt,
	}
}

// ListFoliosParams holds parameters for listing folios.
type ListFoliosParams struct {
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// ListFoliosResponse is a page of folios.
type ListFoliosResponse struct {
	Folios    []FolioResponse `json:"folios"`
	NextToken *string         `json:"nextToken,omitempty"`
}
