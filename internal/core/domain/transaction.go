package domain

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

// TransactionStatus is the lifecycle state of a transaction. The only allowed
// transition is ACTIVE -> VOIDED and it is irreversible.
type TransactionStatus string

const (
	StatusActive TransactionStatus = "ACTIVE"
	StatusVoided TransactionStatus = "VOIDED"
)

// TaxLine is the per-rate share of a transaction's tax amount, captured at
// posting time so the breakdown survives later rate changes.
type TaxLine struct {
	TaxLineID     string          `json:"taxLineID"`
	TransactionID string          `json:"transactionID"`
	TaxRateID     string          `json:"taxRateID"`
	Percentage    decimal.Decimal `json:"percentage"` // zero for flat-amount rates
	Amount        decimal.Decimal `json:"amount"`
}

// FolioTransaction is a single financial event on a folio. Monetary fields are
// immutable once created; only the void metadata may be set afterwards.
//
// Amount conventions:
//   - TotalAmount is the charge component excluding tax. Tax posted together
//     with the charge lives in TaxAmount on the same transaction; tax posted
//     independently is its own CategoryTax transaction with zero TotalAmount.
//   - Payments and refunds record the paid amount in TotalAmount; the sign is
//     normalized during aggregation.
type FolioTransaction struct {
	TransactionID string              `json:"transactionID"` // Primary Key (UUID)
	FolioID       string              `json:"folioID"`
	HotelID       string              `json:"hotelID"`
	Type          TransactionType     `json:"transactionType"`
	Category      TransactionCategory `json:"category"`
	Description   string              `json:"description"`

	Amount              decimal.Decimal `json:"amount"` // as recorded by the producer
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	ServiceChargeAmount decimal.Decimal `json:"serviceChargeAmount"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`

	// Room posting split, set only on ROOM_POSTING transactions.
	RoomFinalRate      decimal.Decimal `json:"roomFinalRate"`
	RoomFinalNetAmount decimal.Decimal `json:"roomFinalNetAmount"`
	RoomFinalRateTax   decimal.Decimal `json:"roomFinalRateTax"`

	MealPlanID            *string `json:"mealPlanID"`            // set only on meal-plan-sourced transactions
	OriginalTransactionID *string `json:"originalTransactionID"` // transfer/void lineage
	PaymentMethod         string  `json:"paymentMethod"`         // set on payments/refunds

	Status     TransactionStatus `json:"status"`
	VoidReason string            `json:"voidReason"`
	VoidedBy   string            `json:"voidedBy"`
	VoidedAt   *time.Time        `json:"voidedAt"`

	TaxLines []TaxLine `json:"taxLines,omitempty"`
	AuditFields
}

// IsVoided reports whether the transaction has been voided.
func (t FolioTransaction) IsVoided() bool {
	return t.Status == StatusVoided
}

// IsTransferLeg reports whether the transaction is one half of a transfer pair.
func (t FolioTransaction) IsTransferLeg() bool {
	return t.Type == TypeTransfer
}

// GrossValue is the full economic value the transaction carries: charge
// component plus tax and service charge. Transfers move this value between
// folios.
func (t FolioTransaction) GrossValue() decimal.Decimal {
	return t.TotalAmount.Add(t.TaxAmount).Add(t.ServiceChargeAmount)
}
