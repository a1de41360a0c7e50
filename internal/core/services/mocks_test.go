package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/openstay/folio-engine/internal/core/domain"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/dto"
)

// MockFolioRepository is a mock type for the FolioRepositoryFacade interface
type MockFolioRepository struct {
	mock.Mock
}

var _ portsrepo.FolioRepositoryFacade = (*MockFolioRepository)(nil)

func (m *MockFolioRepository) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}

func (m *MockFolioRepository) ListFoliosByHotel(ctx context.Context, hotelID string, from, to *time.Time, limit int, nextToken *string) ([]domain.Folio, *string, error) {
	args := m.Called(ctx, hotelID, from, to, limit, nextToken)
	var folios []domain.Folio
	if args.Get(0) != nil {
		folios = args.Get(0).([]domain.Folio)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return folios, token, args.Error(2)
}

func (m *MockFolioRepository) SaveFolio(ctx context.Context, folio domain.Folio) error {
	args := m.Called(ctx, folio)
	return args.Error(0)
}

func (m *MockFolioRepository) UpdateFolioStatus(ctx context.Context, folioID string, status domain.FolioStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, folioID, status, updatedBy, updatedAt)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}

func (m *MockLedgerRepository) FindTransactionsByFolioID(ctx context.Context, folioID string) ([]domain.FolioTransaction, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FolioTransaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByFolioID(ctx context.Context, folioID string, limit int, nextToken *string) ([]domain.FolioTransaction, *string, error) {
	args := m.Called(ctx, folioID, limit, nextToken)
	var txns []domain.FolioTransaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.FolioTransaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockLedgerRepository) FindTransferLegByOriginal(ctx context.Context, originalTransactionID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, originalTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}

func (m *MockLedgerRepository) AppendTransactions(ctx context.Context, folioID string, txns []domain.FolioTransaction, balanceDelta decimal.Decimal) error {
	args := m.Called(ctx, folioID, txns, balanceDelta)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkTransactionVoided(ctx context.Context, txn domain.FolioTransaction, balanceDelta decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceDelta)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkTransferPairVoided(ctx context.Context, legA, legB domain.FolioTransaction, deltaA, deltaB decimal.Decimal) error {
	args := m.Called(ctx, legA, legB, deltaA, deltaB)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveTransferPair(ctx context.Context, out, in domain.FolioTransaction, sourceDelta, targetDelta decimal.Decimal) error {
	args := m.Called(ctx, out, in, sourceDelta, targetDelta)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateFolioBalance(ctx context.Context, folioID string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, folioID, balance, updatedBy, updatedAt)
	return args.Error(0)
}

// MockTaxRateRepository is a mock type for the TaxRateReader interface
type MockTaxRateRepository struct {
	mock.Mock
}

var _ portsrepo.TaxRateReader = (*MockTaxRateRepository)(nil)

func (m *MockTaxRateRepository) FindRatesForOwner(ctx context.Context, hotelID string, owner domain.TaxRateOwner, ownerID string) ([]domain.TaxRate, error) {
	args := m.Called(ctx, hotelID, owner, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindHotelRoomChargeDefaults(ctx context.Context, hotelID string) ([]domain.TaxRate, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

// MockMealPlanRepository is a mock type for the MealPlanReader interface
type MockMealPlanRepository struct {
	mock.Mock
}

var _ portsrepo.MealPlanReader = (*MockMealPlanRepository)(nil)

func (m *MockMealPlanRepository) FindMealPlanByID(ctx context.Context, mealPlanID string) (*domain.MealPlan, error) {
	args := m.Called(ctx, mealPlanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MealPlan), args.Error(1)
}

// MockBalanceService is a mock type for the BalanceSvcFacade interface
type MockBalanceService struct {
	mock.Mock
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

func (m *MockBalanceService) Recompute(ctx context.Context, folioID string, actorID string) (*dto.BalanceSnapshotResponse, error) {
	args := m.Called(ctx, folioID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceSnapshotResponse), args.Error(1)
}

func (m *MockBalanceService) Peek(ctx context.Context, folioID string) (*domain.BalanceSnapshot, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSnapshot), args.Error(1)
}

// MockLedgerService is a mock type for the LedgerSvcFacade interface
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) AppendCharge(ctx context.Context, folioID string, req dto.AppendChargeRequest, actorID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, folioID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}

func (m *MockLedgerService) AppendPayment(ctx context.Context, folioID string, req dto.AppendPaymentRequest, actorID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, folioID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}

func (m *MockLedgerService) AppendRoomPosting(ctx context.Context, folioID string, req dto.AppendRoomPostingRequest, actorID string) ([]domain.FolioTransaction, error) {
	args := m.Called(ctx, folioID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FolioTransaction), args.Error(1)
}

func (m *MockLedgerService) VoidTransaction(ctx context.Context, transactionID string, reason string, actorID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, transactionID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}

func (m *MockLedgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, folioID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, folioID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
