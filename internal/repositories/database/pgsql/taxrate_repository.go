package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	"github.com/openstay/folio-engine/internal/models"
	"github.com/openstay/folio-engine/internal/utils/mapping"
)

type PgxTaxRateRepository struct {
	BaseRepository
}

// newPgxTaxRateRepository creates a new repository for tax rate data.
func newPgxTaxRateRepository(pool *pgxpool.Pool) portsrepo.TaxRateReader {
	return &PgxTaxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaxRateReader = (*PgxTaxRateRepository)(nil)

// FindRatesForOwner retrieves the rate set attached to a taxable object in
// attachment order. Rate sets link through tax_rate_links so the same rate can
// serve many rooms and items.
func (r *PgxTaxRateRepository) FindRatesForOwner(ctx context.Context, hotelID string, owner domain.TaxRateOwner, ownerID string) ([]domain.TaxRate, error) {
	query := `
		SELECT tr.tax_rate_id, tr.hotel_id, tr.name, tr.posting_type, tr.percentage, tr.amount,
		       tr.created_at, tr.created_by, tr.last_updated_at, tr.last_updated_by
		FROM tax_rates tr
		JOIN tax_rate_links l ON l.tax_rate_id = tr.tax_rate_id
		WHERE tr.hotel_id = $1 AND l.owner_type = $2 AND l.owner_id = $3
		ORDER BY l.position, tr.tax_rate_id;
	`
	rows, err := r.Pool.Query(ctx, query, hotelID, string(owner), ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax rates for owner "+ownerID, err)
	}
	defer rows.Close()

	ms := []models.TaxRate{}
	for rows.Next() {
		var m models.TaxRate
		err := rows.Scan(
			&m.TaxRateID,
			&m.HotelID,
			&m.Name,
			&m.PostingType,
			&m.Percentage,
			&m.Amount,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax rate row for owner "+ownerID, err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax rate rows for owner "+ownerID, err)
	}

	return mapping.ToDomainTaxRateSlice(ms), nil
}

// FindHotelRoomChargeDefaults retrieves the hotel-level default room-charge
// rate stack.
func (r *PgxTaxRateRepository) FindHotelRoomChargeDefaults(ctx context.Context, hotelID string) ([]domain.TaxRate, error) {
	return r.FindRatesForOwner(ctx, hotelID, domain.OwnerHotelRoomCharge, hotelID)
}
