package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/core/services"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockFolioRepo  *MockFolioRepository
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.BalanceSvcFacade
	ctx            context.Context
	actorID        string
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockFolioRepo = new(MockFolioRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewBalanceService(suite.mockFolioRepo, suite.mockLedgerRepo)
	suite.ctx = context.Background()
	suite.actorID = uuid.NewString()
}

func (suite *BalanceServiceTestSuite) folioAndHistory() (*domain.Folio, []domain.FolioTransaction) {
	folio := &domain.Folio{
		FolioID: uuid.NewString(),
		HotelID: "hotel-1",
		Status:  domain.FolioOpen,
		Balance: decimal.Zero,
	}
	txns := []domain.FolioTransaction{
		{
			TransactionID: uuid.NewString(),
			FolioID:       folio.FolioID,
			Type:          domain.TypeCharge,
			Category:      domain.CategoryService,
			TotalAmount:   decimal.NewFromInt(100),
			TaxAmount:     decimal.NewFromInt(10),
			Status:        domain.StatusActive,
		},
		{
			TransactionID: uuid.NewString(),
			FolioID:       folio.FolioID,
			Type:          domain.TypePayment,
			Category:      domain.CategoryPayment,
			TotalAmount:   decimal.NewFromInt(50),
			Status:        domain.StatusActive,
		},
	}
	return folio, txns
}

func (suite *BalanceServiceTestSuite) TestPeek_FoldsWithoutWriting() {
	folio, txns := suite.folioAndHistory()
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).Return(txns, nil).Once()

	snapshot, err := suite.service.Peek(suite.ctx, folio.FolioID)

	suite.Require().NoError(err)
	suite.True(snapshot.TotalCharges.Equal(decimal.NewFromInt(100)))
	suite.True(snapshot.TotalTax.Equal(decimal.NewFromInt(10)))
	suite.True(snapshot.TotalPayments.Equal(decimal.NewFromInt(50)))
	suite.True(snapshot.Balance.Equal(decimal.NewFromInt(60)))
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "UpdateFolioBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestRecompute_StoresDerivedBalance() {
	folio, txns := suite.folioAndHistory()
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionsByFolioID", suite.ctx, folio.FolioID).Return(txns, nil).Once()
	suite.mockLedgerRepo.On("UpdateFolioBalance", suite.ctx, folio.FolioID,
		decimalMatches(decimal.NewFromInt(60)), suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := suite.service.Recompute(suite.ctx, folio.FolioID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(folio.FolioID, resp.FolioID)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(60)))
	suite.False(resp.RecomputedAt.IsZero())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestPeek_FolioNotFound() {
	id := uuid.NewString()
	suite.mockFolioRepo.On("FindFolioByID", suite.ctx, id).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Peek(suite.ctx, id)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindTransactionsByFolioID", mock.Anything, mock.Anything)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
