package services

import (
	"context"

	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/openstay/folio-engine/internal/dto"
)

// FolioSvcFacade manages folio lifecycle.
type FolioSvcFacade interface {
	CreateFolio(ctx context.Context, req dto.CreateFolioRequest, creatorUserID string) (*domain.Folio, error)
	GetFolioByID(ctx context.Context, folioID string) (*domain.Folio, error)
	ListFolios(ctx context.Context, hotelID string, params dto.ListFoliosParams) (*dto.ListFoliosResponse, error)
	CloseFolio(ctx context.Context, folioID string, actorID string) (*domain.Folio, error)
}

// LedgerSvcFacade is the append-only transaction ledger: the single write
// path for folio financial events.
type LedgerSvcFacade interface {
	AppendCharge(ctx context.Context, folioID string, req dto.AppendChargeRequest, actorID string) (*domain.FolioTransaction, error)
	AppendPayment(ctx context.Context, folioID string, req dto.AppendPaymentRequest, actorID string) (*domain.FolioTransaction, error)
	AppendRoomPosting(ctx context.Context, folioID string, req dto.AppendRoomPostingRequest, actorID string) ([]domain.FolioTransaction, error)
	VoidTransaction(ctx context.Context, transactionID string, reason string, actorID string) (*domain.FolioTransaction, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.FolioTransaction, error)
	ListTransactions(ctx context.Context, folioID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// BalanceSvcFacade recomputes folio totals from the transaction set.
type BalanceSvcFacade interface {
	// Recompute folds the folio's full transaction set, refreshes the cached
	// balance and returns the snapshot.
	Recompute(ctx context.Context, folioID string, actorID string) (*dto.BalanceSnapshotResponse, error)

	// Peek folds without writing the cache, for read-only verification.
	Peek(ctx context.Context, folioID string) (*domain.BalanceSnapshot, error)
}

// TransferSvcFacade creates linked transaction pairs across two folios.
type TransferSvcFacade interface {
	// Transfer moves the economic value of a recorded transaction to the
	// target folio. Re-invoking with the same source transaction returns the
	// existing pair unchanged.
	Transfer(ctx context.Context, sourceTransactionID string, targetFolioID string, actorID string) (*dto.TransferPairResponse, error)
}

// TaxRateSvcFacade resolves the applicable tax rate set for a taxable object.
type TaxRateSvcFacade interface {
	ResolveForRoom(ctx context.Context, hotelID, roomID string) ([]domain.TaxRate, error)
	ResolveForExtraCharge(ctx context.Context, hotelID, itemID string) ([]domain.TaxRate, error)
	ResolveHotelDefaults(ctx context.Context, hotelID string) ([]domain.TaxRate, error)
}

// AuditSvcFacade re-derives balances and tax splits offline and reports
// mismatches beyond epsilon.
type AuditSvcFacade interface {
	AuditFolio(ctx context.Context, folioID string) (*dto.FolioAuditReport, error)
	AuditAndFix(ctx context.Context, folioID string, actorID string) (*dto.FolioAuditReport, error)
	AuditHotel(ctx context.Context, hotelID string, params dto.ListFoliosParams, fix bool, actorID string) ([]dto.FolioAuditReport, error)
}
