package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the financial intent of a folio transaction.
type TransactionType string

const (
	TypeCharge      TransactionType = "CHARGE"
	TypePayment     TransactionType = "PAYMENT"
	TypeAdjustment  TransactionType = "ADJUSTMENT"
	TypeTransfer    TransactionType = "TRANSFER"
	TypeRefund      TransactionType = "REFUND"
	TypeRoomPosting TransactionType = "ROOM_POSTING"
)

// TransactionCategory refines the type for aggregation and reporting.
type TransactionCategory string

const (
	CategoryRoom        TransactionCategory = "ROOM"
	CategoryTax         TransactionCategory = "TAX"
	CategoryCityTax     TransactionCategory = "CITY_TAX"
	CategoryPosting     TransactionCategory = "POSTING"
	CategoryService     TransactionCategory = "SERVICE"
	CategoryPayment     TransactionCategory = "PAYMENT"
	CategoryTransferIn  TransactionCategory = "TRANSFER_IN"
	CategoryTransferOut TransactionCategory = "TRANSFER_OUT"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusActive TransactionStatus = "ACTIVE"
	StatusVoided TransactionStatus = "VOIDED"
)

// TaxLine represents a row of the transaction_tax_lines table.
type TaxLine struct {
	TaxLineID     string          `json:"taxLineID"` // Primary Key (UUID)
	TransactionID string          `json:"transactionID"`
	TaxRateID     string          `json:"taxRateID"`
	Percentage    decimal.Decimal `json:"percentage"`
	Amount        decimal.Decimal `json:"amount"`
}

// FolioTransaction represents a row of the folio_transactions table. Monetary
// columns are written once at insert; only void metadata is updated afterwards.
type FolioTransaction struct {
	TransactionID string              `json:"transactionID"` // Primary Key (UUID)
	FolioID       string              `json:"folioID"`       // FK -> Folio.folioID (Not Null)
	HotelID       string              `json:"hotelID"`
	Type          TransactionType     `json:"transactionType"`
	Category      TransactionCategory `json:"category"`
	Description   string              `json:"description"`

	Amount              decimal.Decimal `json:"amount"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	ServiceChargeAmount decimal.Decimal `json:"serviceChargeAmount"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`

	RoomFinalRate      decimal.Decimal `json:"roomFinalRate"`
	RoomFinalNetAmount decimal.Decimal `json:"roomFinalNetAmount"`
	RoomFinalRateTax   decimal.Decimal `json:"roomFinalRateTax"`

	MealPlanID            *string `json:"mealPlanID"`            // Nullable
	OriginalTransactionID *string `json:"originalTransactionID"` // Nullable; transfer/void lineage
	PaymentMethod         string  `json:"paymentMethod"`

	Status     TransactionStatus `json:"status"`
	VoidReason string            `json:"voidReason"`
	VoidedBy   string            `json:"voidedBy"`
	VoidedAt   *time.Time        `json:"voidedAt"` // Nullable

	AuditFields
}
