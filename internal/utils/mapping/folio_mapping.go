package mapping

import (
	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/openstay/folio-engine/internal/models"
)

// ToModelFolio converts a domain Folio to a model Folio. Empty owner
// references become NULL columns.
func ToModelFolio(d domain.Folio) models.Folio {
	return models.Folio{
		FolioID:          d.FolioID,
		HotelID:          d.HotelID,
		ReservationID:    nilIfEmpty(d.ReservationID),
		CompanyID:        nilIfEmpty(d.CompanyID),
		FolioType:        models.FolioType(d.FolioType),
		CurrencyCode:     d.CurrencyCode,
		Status:           models.FolioStatus(d.Status),
		Balance:          d.Balance,
		LastRecomputedAt: d.LastRecomputedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFolio converts a model Folio to a domain Folio
func ToDomainFolio(m models.Folio) domain.Folio {
	return domain.Folio{
		FolioID:          m.FolioID,
		HotelID:          m.HotelID,
		ReservationID:    emptyIfNil(m.ReservationID),
		CompanyID:        emptyIfNil(m.CompanyID),
		FolioType:        domain.FolioType(m.FolioType),
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.FolioStatus(m.Status),
		Balance:          m.Balance,
		LastRecomputedAt: m.LastRecomputedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFolioSlice converts a slice of model Folios to a slice of domain Folios
func ToDomainFolioSlice(ms []models.Folio) []domain.Folio {
	ds := make([]domain.Folio, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFolio(m)
	}
	return ds
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func emptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
