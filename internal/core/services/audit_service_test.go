package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/core/services"
	"github.com/openstay/folio-engine/internal/dto"
)

type AuditServiceTestSuite struct {
	suite.Suite
	mockFolioRepo  *MockFolioRepository
	mockLedgerRepo *MockLedgerRepository
	mockBalanceSvc *MockBalanceService
	mockLedgerSvc  *MockLedgerService
	service        portssvc.AuditSvcFacade
	ctx            context.Context
	actorID        string
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockFolioRepo = new(MockFolioRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.service = services.NewAuditService(
		suite.mockFolioRepo,
		suite.mockLedgerRepo,
		suite.mockBalanceSvc,
		suite.mockLedgerSvc,
	)
	suite.ctx = context.Background()
	suite.actorID = uuid.NewString()
}

func (suite *AuditServiceTestSuite) folioWithBalance(balance decimal.Decimal) *domain.Folio {
	return &domain.Folio{
		FolioID:      uuid.NewString(),
		HotelID:      "hotel-1",
		CurrencyCode: "USD",
		Status:       domain.FolioOpen,
		Balance:      balance,
	}
}

func (suite *AuditServiceTestSuite) charge(folioID string, amount int64) domain.FolioTransaction {
	return domain.FolioTransaction{
		TransactionID: uuid.NewString(),
		FolioID:       folioID,
		HotelID:       "hotel-1",
		Type:          domain.TypeCharge,
		Category:      domain.CategoryService,
		TotalAmount:   decimal.NewFromInt(amount),
		Status:        domain.StatusActive,
	}
}

func (suite *AuditServiceTestSuite) TestAuditFolio_Clean() {
	folio := suite.folioWithBalance(decimal.NewFromInt(100))
	txns := []domain.FolioTransaction{suite.charge(folio.FolioID, 100)}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).Return(txns, nil).Once()

	report, err := suite.service.AuditFolio(suite.ctx, folio.FolioID)

	suite.Require().NoError(err)
	suite.True(report.Clean())
	suite.Equal(folio.FolioID, report.FolioID)
	suite.Equal("hotel-1", report.HotelID)
}

func (suite *AuditServiceTestSuite) TestAuditFolio_BalanceDrift() {
	folio := suite.folioWithBalance(decimal.NewFromInt(150))
	txns := []domain.FolioTransaction{suite.charge(folio.FolioID, 100)}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).Return(txns, nil).Once()

	report, err := suite.service.AuditFolio(suite.ctx, folio.FolioID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Mismatches, 1)
	m := report.Mismatches[0]
	suite.Equal(dto.MismatchBalanceDrift, m.Kind)
	suite.True(m.Stored.Equal(decimal.NewFromInt(150)))
	suite.True(m.Derived.Equal(decimal.NewFromInt(100)))
	suite.True(m.Delta.Equal(decimal.NewFromInt(50)))
}

func (suite *AuditServiceTestSuite) TestAuditFolio_DriftWithinEpsilonIgnored() {
	folio := suite.folioWithBalance(decimal.RequireFromString("100.04"))
	txns := []domain.FolioTransaction{suite.charge(folio.FolioID, 100)}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).Return(txns, nil).Once()

	report, err := suite.service.AuditFolio(suite.ctx, folio.FolioID)

	suite.Require().NoError(err)
	suite.True(report.Clean())
}

func (suite *AuditServiceTestSuite) TestAuditFolio_RoomSplitDrift() {
	folio := suite.folioWithBalance(decimal.NewFromInt(100))
	room := domain.FolioTransaction{
		TransactionID:      uuid.NewString(),
		FolioID:            folio.FolioID,
		HotelID:            "hotel-1",
		Type:               domain.TypeRoomPosting,
		Category:           domain.CategoryRoom,
		TotalAmount:        decimal.RequireFromString("90.91"),
		TaxAmount:          decimal.RequireFromString("9.09"),
		RoomFinalRate:      decimal.NewFromInt(100),
		RoomFinalNetAmount: decimal.NewFromInt(85), // corrupted: 85 + 9.09 != 100
		RoomFinalRateTax:   decimal.RequireFromString("9.09"),
		Status:             domain.StatusActive,
	}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).
		Return([]domain.FolioTransaction{room}, nil).Once()

	report, err := suite.service.AuditFolio(suite.ctx, folio.FolioID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Mismatches, 1)
	suite.Equal(dto.MismatchRoomSplitDrift, report.Mismatches[0].Kind)
	suite.Equal(room.TransactionID, report.Mismatches[0].TransactionID)
}

func (suite *AuditServiceTestSuite) TestAuditFolio_OrphanTransferOut() {
	folio := suite.folioWithBalance(decimal.NewFromInt(-40))
	out := domain.FolioTransaction{
		TransactionID: uuid.NewString(),
		FolioID:       folio.FolioID,
		HotelID:       "hotel-1",
		Type:          domain.TypeTransfer,
		Category:      domain.CategoryTransferOut,
		TotalAmount:   decimal.NewFromInt(40),
		Status:        domain.StatusActive,
	}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).
		Return([]domain.FolioTransaction{out}, nil).Once()
	suite.mockLedgerRepo.On("FindTransferLegByOriginal", suite.ctx, out.TransactionID).
		Return(nil, apperrors.ErrNotFound).Once()

	report, err := suite.service.AuditFolio(suite.ctx, folio.FolioID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Mismatches, 1)
	suite.Equal(dto.MismatchOrphanTransferOut, report.Mismatches[0].Kind)
}

func (suite *AuditServiceTestSuite) TestAuditFolio_TransferVoidSkew() {
	now := time.Now().UTC()
	folio := suite.folioWithBalance(decimal.NewFromInt(-40))
	out := domain.FolioTransaction{
		TransactionID: uuid.NewString(),
		FolioID:       folio.FolioID,
		HotelID:       "hotel-1",
		Type:          domain.TypeTransfer,
		Category:      domain.CategoryTransferOut,
		TotalAmount:   decimal.NewFromInt(40),
		Status:        domain.StatusActive,
	}
	voidedIn := &domain.FolioTransaction{
		TransactionID:         uuid.NewString(),
		Type:                  domain.TypeTransfer,
		Category:              domain.CategoryTransferIn,
		TotalAmount:           decimal.NewFromInt(40),
		OriginalTransactionID: &out.TransactionID,
		Status:                domain.StatusVoided,
		VoidedAt:              &now,
	}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).
		Return([]domain.FolioTransaction{out}, nil).Once()
	suite.mockLedgerRepo.On("FindTransferLegByOriginal", suite.ctx, out.TransactionID).
		Return(voidedIn, nil).Once()

	report, err := suite.service.AuditFolio(suite.ctx, folio.FolioID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Mismatches, 1)
	suite.Equal(dto.MismatchTransferVoidSkew, report.Mismatches[0].Kind)
}

func (suite *AuditServiceTestSuite) TestAuditFolio_OrphanTransferInWithoutBackReference() {
	folio := suite.folioWithBalance(decimal.NewFromInt(40))
	in := domain.FolioTransaction{
		TransactionID: uuid.NewString(),
		FolioID:       folio.FolioID,
		HotelID:       "hotel-1",
		Type:          domain.TypeTransfer,
		Category:      domain.CategoryTransferIn,
		TotalAmount:   decimal.NewFromInt(40),
		Status:        domain.StatusActive,
	}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).
		Return([]domain.FolioTransaction{in}, nil).Once()

	report, err := suite.service.AuditFolio(suite.ctx, folio.FolioID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Mismatches, 1)
	suite.Equal(dto.MismatchOrphanTransferIn, report.Mismatches[0].Kind)
}

func (suite *AuditServiceTestSuite) TestAuditAndFix_RecomputesDriftedBalance() {
	folio := suite.folioWithBalance(decimal.NewFromInt(999))
	txns := []domain.FolioTransaction{suite.charge(folio.FolioID, 100)}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).Return(txns, nil).Once()
	suite.mockBalanceSvc.On("Recompute", suite.ctx, folio.FolioID, suite.actorID).
		Return(&dto.BalanceSnapshotResponse{FolioID: folio.FolioID, Balance: decimal.NewFromInt(100)}, nil).Once()

	report, err := suite.service.AuditAndFix(suite.ctx, folio.FolioID, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Fixed, 1)
	suite.Equal(dto.MismatchBalanceDrift, report.Fixed[0])
	suite.mockBalanceSvc.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestAuditAndFix_VoidsUnpairedTransferLeg() {
	folio := suite.folioWithBalance(decimal.NewFromInt(-40))
	out := domain.FolioTransaction{
		TransactionID: uuid.NewString(),
		FolioID:       folio.FolioID,
		HotelID:       "hotel-1",
		Type:          domain.TypeTransfer,
		Category:      domain.CategoryTransferOut,
		TotalAmount:   decimal.NewFromInt(40),
		Status:        domain.StatusActive,
	}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).
		Return([]domain.FolioTransaction{out}, nil).Once()
	suite.mockLedgerRepo.On("FindTransferLegByOriginal", suite.ctx, out.TransactionID).
		Return(nil, apperrors.ErrNotFound).Once()
	voided := out
	voided.Status = domain.StatusVoided
	suite.mockLedgerSvc.On("VoidTransaction", suite.ctx, out.TransactionID, mock.Anything, suite.actorID).
		Return(&voided, nil).Once()

	report, err := suite.service.AuditAndFix(suite.ctx, folio.FolioID, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Fixed, 1)
	suite.Equal(dto.MismatchOrphanTransferOut, report.Fixed[0])
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestAuditAndFix_RoomSplitDriftIsReportOnly() {
	folio := suite.folioWithBalance(decimal.NewFromInt(100))
	room := domain.FolioTransaction{
		TransactionID:      uuid.NewString(),
		FolioID:            folio.FolioID,
		HotelID:            "hotel-1",
		Type:               domain.TypeRoomPosting,
		Category:           domain.CategoryRoom,
		TotalAmount:        decimal.RequireFromString("90.91"),
		TaxAmount:          decimal.RequireFromString("9.09"),
		RoomFinalRate:      decimal.NewFromInt(100),
		RoomFinalNetAmount: decimal.NewFromInt(85),
		RoomFinalRateTax:   decimal.RequireFromString("9.09"),
		Status:             domain.StatusActive,
	}
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).
		Return([]domain.FolioTransaction{room}, nil).Once()

	report, err := suite.service.AuditAndFix(suite.ctx, folio.FolioID, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(report.Mismatches, 1)
	suite.Empty(report.Fixed)
	suite.mockBalanceSvc.AssertNotCalled(suite.T(), "Recompute", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "VoidTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestAuditHotel_SweepsAllPages() {
	folioA := suite.folioWithBalance(decimal.Zero)
	folioB := suite.folioWithBalance(decimal.Zero)
	token := "page-2"

	suite.mockFolioRepo.On("ListFoliosByHotel", suite.ctx, "hotel-1", (*time.Time)(nil), (*time.Time)(nil), 100, (*string)(nil)).
		Return([]domain.Folio{*folioA}, &token, nil).Once()
	suite.mockFolioRepo.On("ListFoliosByHotel", suite.ctx, "hotel-1", (*time.Time)(nil), (*time.Time)(nil), 100, &token).
		Return([]domain.Folio{*folioB}, nil, nil).Once()
	for _, f := range []*domain.Folio{folioA, folioB} {
		suite.mockFolioRepo.On("FindFolioByID", suite.ctx, f.FolioID).Return(f, nil).Once()
		suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, f.FolioID).
			Return([]domain.FolioTransaction{}, nil).Once()
	}

	reports, err := suite.service.AuditHotel(suite.ctx, "hotel-1", dto.ListFoliosParams{}, false, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(reports, 2)
	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestAuditHotel_SkipsFoliosThatFailToLoad() {
	folioA := suite.folioWithBalance(decimal.Zero)
	folioB := suite.folioWithBalance(decimal.Zero)

	suite.mockFolioRepo.On("ListFoliosByHotel", suite.ctx, "hotel-1", (*time.Time)(nil), (*time.Time)(nil), 100, (*string)(nil)).
		Return([]domain.Folio{*folioA, *folioB}, nil, nil).Once()
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folioA.FolioID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folioB.FolioID).Return(folioB, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folioB.FolioID).
		Return([]domain.FolioTransaction{}, nil).Once()

	reports, err := suite.service.AuditHotel(suite.ctx, "hotel-1", dto.ListFoliosParams{}, false, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(reports, 1)
	suite.Equal(folioB.FolioID, reports[0].FolioID)
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
