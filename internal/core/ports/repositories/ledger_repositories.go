package repositories

import (
	"context"
	"time"

	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for folio transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a single transaction with its tax lines.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.FolioTransaction, error)

	// FindTransactionsByFolioID retrieves the full transaction set of a folio
	// ordered by creation time, voided rows included.
	FindTransactionsByFolioID(ctx context.Context, folioID string) ([]domain.FolioTransaction, error)

	// ListTransactionsByFolioID retrieves a paginated slice of a folio's
	// transactions using token-based pagination.
	ListTransactionsByFolioID(ctx context.Context, folioID string, limit int, nextToken *string) ([]domain.FolioTransaction, *string, error)

	// FindTransferLegByOriginal retrieves the transfer leg whose
	// OriginalTransactionID equals the given transaction ID, if any.
	FindTransferLegByOriginal(ctx context.Context, originalTransactionID string) (*domain.FolioTransaction, error)
}

// LedgerWriter defines the append-only write operations of the ledger.
// Every method runs inside a single database transaction that locks the
// affected folio row(s) and maintains the cached balance by delta, so partial
// failure rolls back the whole unit of work.
type LedgerWriter interface {
	// AppendTransactions inserts one economic event (one or more rows, e.g. a
	// room posting plus its meal-plan detail rows) onto a folio and applies
	// balanceDelta to the folio's cached balance.
	AppendTransactions(ctx context.Context, folioID string, txns []domain.FolioTransaction, balanceDelta decimal.Decimal) error

	// MarkTransactionVoided sets the void metadata on an active transaction and
	// applies balanceDelta to its folio. Returns apperrors.ErrAlreadyVoided if
	// the row is no longer active. Monetary fields are never touched.
	MarkTransactionVoided(ctx context.Context, txn domain.FolioTransaction, balanceDelta decimal.Decimal) error

	// MarkTransferPairVoided voids both legs of a transfer atomically, locking
	// the two folios in ascending folio-id order.
	MarkTransferPairVoided(ctx context.Context, legA, legB domain.FolioTransaction, deltaA, deltaB decimal.Decimal) error

	// SaveTransferPair inserts a transfer_out/transfer_in pair across two
	// folios atomically, locking the folios in ascending folio-id order.
	SaveTransferPair(ctx context.Context, out, in domain.FolioTransaction, sourceDelta, targetDelta decimal.Decimal) error

	// UpdateFolioBalance replaces a folio's cached balance with a freshly
	// recomputed value under the folio lock.
	UpdateFolioBalance(ctx context.Context, folioID string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// LedgerRepositoryFacade combines read and write ledger operations.
type LedgerRepositoryFacade interface {
	TransactionReader
	LedgerWriter
}
