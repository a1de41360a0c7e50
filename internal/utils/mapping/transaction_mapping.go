package mapping

import (
	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/openstay/folio-engine/internal/models"
)

// ToModelTransaction converts a domain FolioTransaction to a model FolioTransaction
func ToModelTransaction(d domain.FolioTransaction) models.FolioTransaction {
	return models.FolioTransaction{
		TransactionID:         d.TransactionID,
		FolioID:               d.FolioID,
		HotelID:               d.HotelID,
		Type:                  models.TransactionType(d.Type),
		Category:              models.TransactionCategory(d.Category),
		Description:           d.Description,
		Amount:                d.Amount,
		TotalAmount:           d.TotalAmount,
		TaxAmount:             d.TaxAmount,
		ServiceChargeAmount:   d.ServiceChargeAmount,
		DiscountAmount:        d.DiscountAmount,
		RoomFinalRate:         d.RoomFinalRate,
		RoomFinalNetAmount:    d.RoomFinalNetAmount,
		RoomFinalRateTax:      d.RoomFinalRateTax,
		MealPlanID:            d.MealPlanID,
		OriginalTransactionID: d.OriginalTransactionID,
		PaymentMethod:         d.PaymentMethod,
		Status:                models.TransactionStatus(d.Status),
		VoidReason:            d.VoidReason,
		VoidedBy:              d.VoidedBy,
		VoidedAt:              d.VoidedAt,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model FolioTransaction to a domain FolioTransaction.
// Tax lines are attached separately by the repository.
func ToDomainTransaction(m models.FolioTransaction) domain.FolioTransaction {
	return domain.FolioTransaction{
		TransactionID:         m.TransactionID,
		FolioID:               m.FolioID,
		HotelID:               m.HotelID,
		Type:                  domain.TransactionType(m.Type),
		Category:              domain.TransactionCategory(m.Category),
		Description:           m.Description,
		Amount:                m.Amount,
		TotalAmount:           m.TotalAmount,
		TaxAmount:             m.TaxAmount,
		ServiceChargeAmount:   m.ServiceChargeAmount,
		DiscountAmount:        m.DiscountAmount,
		RoomFinalRate:         m.RoomFinalRate,
		RoomFinalNetAmount:    m.RoomFinalNetAmount,
		RoomFinalRateTax:      m.RoomFinalRateTax,
		MealPlanID:            m.MealPlanID,
		OriginalTransactionID: m.OriginalTransactionID,
		PaymentMethod:         m.PaymentMethod,
		Status:                domain.TransactionStatus(m.Status),
		VoidReason:            m.VoidReason,
		VoidedBy:              m.VoidedBy,
		VoidedAt:              m.VoidedAt,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model FolioTransactions to domain
func ToDomainTransactionSlice(ms []models.FolioTransaction) []domain.FolioTransaction {
	ds := make([]domain.FolioTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTaxLine converts a domain TaxLine to a model TaxLine
func ToModelTaxLine(d domain.TaxLine) models.TaxLine {
	return models.TaxLine{
		TaxLineID:     d.TaxLineID,
		TransactionID: d.TransactionID,
		TaxRateID:     d.TaxRateID,
		Percentage:    d.Percentage,
		Amount:        d.Amount,
	}
}

// ToDomainTaxLine converts a model TaxLine to a domain TaxLine
func ToDomainTaxLine(m models.TaxLine) domain.TaxLine {
	return domain.TaxLine{
		TaxLineID:     m.TaxLineID,
		TransactionID: m.TransactionID,
		TaxRateID:     m.TaxRateID,
		Percentage:    m.Percentage,
		Amount:        m.Amount,
	}
}
