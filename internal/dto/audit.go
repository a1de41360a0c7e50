package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MismatchKind classifies a reconciliation warning found by the auditor.
type MismatchKind string

const (
	MismatchBalanceDrift      MismatchKind = "BALANCE_DRIFT"
	MismatchRoomSplitDrift    MismatchKind = "ROOM_SPLIT_DRIFT"
	MismatchOrphanTransferOut MismatchKind = "ORPHAN_TRANSFER_OUT"
	MismatchOrphanTransferIn  MismatchKind = "ORPHAN_TRANSFER_IN"
	MismatchTransferAmount    MismatchKind = "TRANSFER_AMOUNT_MISMATCH"
	MismatchTransferVoidSkew  MismatchKind = "TRANSFER_VOID_SKEW"
)

// AuditMismatch is one epsilon-exceeding discrepancy. Mismatches are
// reconciliation warnings: they are reported, never thrown.
type AuditMismatch struct {
	Kind          MismatchKind    `json:"kind"`
	TransactionID string          `json:"transactionID,omitempty"`
	Stored        decimal.Decimal `json:"stored"`
	Derived       decimal.Decimal `json:"derived"`
	Delta         decimal.Decimal `json:"delta"`
	Detail        string          `json:"detail,omitempty"`
}

// FolioAuditReport is the structured result of auditing one folio.
type FolioAuditReport struct {
	FolioID    string          `json:"folioID"`
	HotelID    string          `json:"hotelID"`
	AuditedAt  time.Time       `json:"auditedAt"`
	Mismatches []AuditMismatch `json:"mismatches"`
	Fixed      []MismatchKind  `json:"fixed,omitempty"`
}

// Clean reports whether the audit found no drift.
func (r FolioAuditReport) Clean() bool {
	return len(r.Mismatches) == 0
}

// BalanceSnapshotResponse is the API representation of a recomputed balance.
type BalanceSnapshotResponse struct {
	FolioID            string          `json:"folioID"`
	TotalCharges       decimal.Decimal `json:"totalCharges"`
	TotalPayments      decimal.Decimal `json:"totalPayments"`
	TotalAdjustments   decimal.Decimal `json:"totalAdjustments"`
	TotalTax           decimal.Decimal `json:"totalTax"`
	TotalServiceCharge decimal.Decimal `json:"totalServiceCharge"`
	TotalDiscount      decimal.Decimal `json:"totalDiscount"`
	Balance            decimal.Decimal `json:"balance"`
	RecomputedAt       time.Time       `json:"recomputedAt"`
}
