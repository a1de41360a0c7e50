package repositories

import (
	"context"
	"time"

	"github.com/openstay/folio-engine/internal/core/domain"
)

// FolioReader defines read operations for folio data
type FolioReader interface {
	// FindFolioByID retrieves a specific folio by its unique identifier.
	FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error)

	// ListFoliosByHotel retrieves a paginated list of folios for a hotel using
	// token-based pagination, optionally bounded by creation date.
	ListFoliosByHotel(ctx context.Context, hotelID string, from, to *time.Time, limit int, nextToken *string) ([]domain.Folio, *string, error)
}

// FolioWriter defines write operations for folio data
type FolioWriter interface {
	// SaveFolio persists a new folio.
	SaveFolio(ctx context.Context, folio domain.Folio) error

	// UpdateFolioStatus transitions a folio between OPEN and CLOSED.
	UpdateFolioStatus(ctx context.Context, folioID string, status domain.FolioStatus, updatedBy string, updatedAt time.Time) error
}

// FolioRepositoryFacade combines all folio repository interfaces.
type FolioRepositoryFacade interface {
	FolioReader
	FolioWriter
}
