package dto

import (
	"time"

	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaxContext tells the ledger how to resolve and apply tax for a charge.
// Exactly one of RoomID / ExtraChargeItemID may be set; when neither is set
// the hotel's room-charge defaults apply. UnitPrice and Quantity, when
// provided, drive the inclusive/exclusive inference against the recorded
// amount.
type TaxContext struct {
	RoomID            string          `json:"roomID"`
	ExtraChargeItemID string          `json:"extraChargeItemID"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	Quantity          int             `json:"quantity"`
}

// MealPlanContext describes the bundled meal plan of a room posting.
type MealPlanContext struct {
	MealPlanID string             `json:"mealPlanID" binding:"required"`
	Guests     domain.GuestCounts `json:"guests"`
}

// AppendChargeRequest posts a charge onto a folio.
type AppendChargeRequest struct {
	Amount      decimal.Decimal            `json:"amount" binding:"required"`
	Category    domain.TransactionCategory `json:"category" binding:"required"`
	Description string                     `json:"description"`
	TaxContext  *TaxContext                `json:"taxContext"`
	// MealPlanID marks the charge as meal-plan-sourced (a detail row of a
	// bundled rate). Rejected on any other kind of charge.
	MealPlanID *string `json:"mealPlanID"`
}

// AppendPaymentRequest posts a payment onto a folio.
type AppendPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required"`
	Description string          `json:"description"`
}

// AppendRoomPostingRequest posts one night of a (possibly bundled) room rate.
type AppendRoomPostingRequest struct {
	RoomID                string           `json:"roomID" binding:"required"`
	PackageGrossDailyRate decimal.Decimal  `json:"packageGrossDailyRate" binding:"required"`
	MealPlan              *MealPlanContext `json:"mealPlan"`
	Description           string           `json:"description"`
}

// VoidTransactionRequest voids an active transaction.
type VoidTransactionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TransferRequest moves a recorded charge to another folio.
type TransferRequest struct {
	SourceTransactionID string `json:"sourceTransactionID" binding:"required"`
	TargetFolioID       string `json:"targetFolioID" binding:"required"`
}

// TransferPairResponse returns both legs of a transfer.
type TransferPairResponse struct {
	Parent TransactionResponse `json:"parent"`
	Child  TransactionResponse `json:"child"`
}

// TaxLineResponse is the API representation of a per-rate tax share.
type TaxLineResponse struct {
	TaxRateID  string          `json:"taxRateID"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

// TransactionResponse is the API representation of a folio transaction.
type TransactionResponse struct {
	TransactionID         string                     `json:"transactionID"`
	FolioID               string                     `json:"folioID"`
	HotelID               string                     `json:"hotelID"`
	Type                  domain.TransactionType     `json:"transactionType"`
	Category              domain.TransactionCategory `json:"category"`
	Description           string                     `json:"description,omitempty"`
	Amount                decimal.Decimal            `json:"amount"`
	TotalAmount           decimal.Decimal            `json:"totalAmount"`
	TaxAmount             decimal.Decimal            `json:"taxAmount"`
	ServiceChargeAmount   decimal.Decimal            `json:"serviceChargeAmount"`
	DiscountAmount        decimal.Decimal            `json:"discountAmount"`
	RoomFinalRate         decimal.Decimal            `json:"roomFinalRate"`
	RoomFinalNetAmount    decimal.Decimal            `json:"roomFinalNetAmount"`
	RoomFinalRateTax      decimal.Decimal            `json:"roomFinalRateTax"`
	MealPlanID            *string                    `json:"mealPlanID,omitempty"`
	OriginalTransactionID *string                    `json:"originalTransactionID,omitempty"`
	PaymentMethod         string                     `json:"paymentMethod,omitempty"`
	Status                domain.TransactionStatus   `json:"status"`
	VoidReason            string                     `json:"voidReason,omitempty"`
	VoidedBy              string                     `json:"voidedBy,omitempty"`
	VoidedAt              *time.Time                 `json:"voidedAt,omitempty"`
	TaxLines              []TaxLineResponse          `json:"taxLines,omitempty"`
	CreatedAt             time.Time                  `json:"createdAt"`
	CreatedBy             string                     `json:"createdBy"`
}

// ToTransactionResponse converts a domain transaction to its API representation.
func ToTransactionResponse(t *domain.FolioTransaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:         t.TransactionID,
		FolioID:               t.FolioID,
		HotelID:               t.HotelID,
		Type:                  t.Type,
		Category:              t.Category,
		Description:           t.Description,
		Amount:                t.Amount,
		TotalAmount:           t.TotalAmount,
		TaxAmount:             t.TaxAmount,
		ServiceChargeAmount:   t.ServiceChargeAmount,
		DiscountAmount:        t.DiscountAmount,
		RoomFinalRate:         t.RoomFinalRate,
		RoomFinalNetAmount:    t.RoomFinalNetAmount,
		RoomFinalRateTax:      t.RoomFinalRateTax,
		MealPlanID:            t.MealPlanID,
		OriginalTransactionID: t.OriginalTransactionID,
		PaymentMethod:         t.PaymentMethod,
		Status:                t.Status,
		VoidReason:            t.VoidReason,
		VoidedBy:              t.VoidedBy,
		VoidedAt:              t.VoidedAt,
		CreatedAt:             t.CreatedAt,
		CreatedBy:             t.CreatedBy,
	}
	for _, l := range t.TaxLines {
		resp.TaxLines = append(resp.TaxLines, TaxLineResponse{
			TaxRateID:  l.TaxRateID,
			Percentage: l.Percentage,
			Amount:     l.Amount,
		})
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.FolioTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// ListTransactionsParams holds pagination parameters for transaction listing.
type ListTransactionsParams struct {
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
