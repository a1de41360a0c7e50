package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	"github.com/openstay/folio-engine/internal/models"
	"github.com/openstay/folio-engine/internal/utils/mapping"
	"github.com/openstay/folio-engine/internal/utils/pagination"
)

const folioColumns = `
	folio_id, hotel_id, reservation_id, company_id, folio_type, currency_code, status,
	balance, last_recomputed_at,
	created_at, created_by, last_updated_at, last_updated_by
`

type PgxFolioRepository struct {
	BaseRepository
}

// newPgxFolioRepository creates a new repository for folio data.
func newPgxFolioRepository(pool *pgxpool.Pool) portsrepo.FolioRepositoryFacade {
	return &PgxFolioRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FolioRepositoryFacade = (*PgxFolioRepository)(nil)

// SaveFolio persists a new folio.
func (r *PgxFolioRepository) SaveFolio(ctx context.Context, folio domain.Folio) error {
	m := mapping.ToModelFolio(folio)
	query := `
		INSERT INTO folios (
			folio_id, hotel_id, reservation_id, company_id, folio_type, currency_code, status,
			balance, last_recomputed_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FolioID,
		m.HotelID,
		m.ReservationID,
		m.CompanyID,
		m.FolioType,
		m.CurrencyCode,
		m.Status,
		m.Balance,
		m.LastRecomputedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert folio "+m.FolioID, err)
	}
	return nil
}

// FindFolioByID retrieves a folio by its ID.
func (r *PgxFolioRepository) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE folio_id = $1;`

	m, err := scanFolioRow(r.Pool.QueryRow(ctx, query, folioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find folio by ID "+folioID, err)
	}

	folio := mapping.ToDomainFolio(*m)
	return &folio, nil
}

// ListFoliosByHotel retrieves a paginated list of folios for a hotel using
// token-based pagination over (created_at, folio_id) descending.
func (r *PgxFolioRepository) ListFoliosByHotel(ctx context.Context, hotelID string, from, to *time.Time, limit int, nextToken *string) ([]domain.Folio, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + folioColumns + ` FROM folios WHERE hotel_id = $1`
	args := []interface{}{hotelID}

	if from != nil {
		args = append(args, *from)
		baseQuery += " AND created_at >= $" + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		baseQuery += " AND created_at <= $" + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastCreatedAt, parseErr := pagination.ParseTokenTime(fields[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		args = append(args, lastCreatedAt, fields[1])
		baseQuery += " AND (created_at, folio_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}

	args = append(args, fetchLimit)
	query := baseQuery + " ORDER BY created_at DESC, folio_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query folios for hotel "+hotelID, err)
	}
	defer rows.Close()

	folios := []models.Folio{}
	for rows.Next() {
		m, scanErr := scanFolioRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan folio row for hotel "+hotelID, scanErr)
		}
		folios = append(folios, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating folio rows for hotel "+hotelID, err)
	}

	var next *string
	if len(folios) > limit {
		folios = folios[:limit]
		last := folios[len(folios)-1]
		token := pagination.EncodeMultiFieldToken(pagination.FormatTokenTime(last.CreatedAt), last.FolioID)
		next = &token
	}

	return mapping.ToDomainFolioSlice(folios), next, nil
}

// UpdateFolioStatus transitions a folio between OPEN and CLOSED.
func (r *PgxFolioRepository) UpdateFolioStatus(ctx context.Context, folioID string, status domain.FolioStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE folios
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE folio_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, folioID, models.FolioStatus(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of folio "+folioID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanFolioRow scans a single folio row in folioColumns order.
func scanFolioRow(row pgx.Row) (*models.Folio, error) {
	var m models.Folio
	err := row.Scan(
		&m.FolioID,
		&m.HotelID,
		&m.ReservationID,
		&m.CompanyID,
		&m.FolioType,
		&m.CurrencyCode,
		&m.Status,
		&m.Balance,
		&m.LastRecomputedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
