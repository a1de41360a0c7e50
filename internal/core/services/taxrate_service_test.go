package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/openstay/folio-engine/internal/core/domain"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/core/services"
)

type TaxRateServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTaxRateRepository
	service  portssvc.TaxRateSvcFacade
	ctx      context.Context
}

func (suite *TaxRateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTaxRateRepository)
	suite.service = services.NewTaxRateService(suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *TaxRateServiceTestSuite) rate(id, hotelID string) domain.TaxRate {
	return domain.TaxRate{
		TaxRateID:   id,
		HotelID:     hotelID,
		PostingType: domain.PostingFlatPercentage,
		Percentage:  decimal.NewFromInt(10),
	}
}

func (suite *TaxRateServiceTestSuite) TestResolveForRoom_RoomOwnsRates() {
	roomRates := []domain.TaxRate{suite.rate("vat", "hotel-1")}
	suite.mockRepo.On("FindRatesForOwner", suite.ctx, "hotel-1", domain.OwnerRoom, "room-101").
		Return(roomRates, nil).Once()

	rates, err := suite.service.ResolveForRoom(suite.ctx, "hotel-1", "room-101")

	suite.Require().NoError(err)
	suite.Require().Len(rates, 1)
	suite.Equal("vat", rates[0].TaxRateID)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindHotelRoomChargeDefaults", suite.ctx, "hotel-1")
}

func (suite *TaxRateServiceTestSuite) TestResolveForRoom_FallsBackToHotelDefaults() {
	suite.mockRepo.On("FindRatesForOwner", suite.ctx, "hotel-1", domain.OwnerRoom, "room-101").
		Return([]domain.TaxRate{}, nil).Once()
	suite.mockRepo.On("FindHotelRoomChargeDefaults", suite.ctx, "hotel-1").
		Return([]domain.TaxRate{suite.rate("default-vat", "hotel-1")}, nil).Once()

	rates, err := suite.service.ResolveForRoom(suite.ctx, "hotel-1", "room-101")

	suite.Require().NoError(err)
	suite.Require().Len(rates, 1)
	suite.Equal("default-vat", rates[0].TaxRateID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxRateServiceTestSuite) TestResolveForExtraCharge_NoFallback() {
	suite.mockRepo.On("FindRatesForOwner", suite.ctx, "hotel-1", domain.OwnerExtraChargeItem, "minibar").
		Return([]domain.TaxRate{}, nil).Once()

	rates, err := suite.service.ResolveForExtraCharge(suite.ctx, "hotel-1", "minibar")

	suite.Require().NoError(err)
	suite.Empty(rates)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindHotelRoomChargeDefaults", suite.ctx, "hotel-1")
}

func (suite *TaxRateServiceTestSuite) TestResolveHotelDefaults_DeduplicatesPreservingOrder() {
	suite.mockRepo.On("FindHotelRoomChargeDefaults", suite.ctx, "hotel-1").
		Return([]domain.TaxRate{
			suite.rate("vat", "hotel-1"),
			suite.rate("city", "hotel-1"),
			suite.rate("vat", "hotel-1"),
		}, nil).Once()

	rates, err := suite.service.ResolveHotelDefaults(suite.ctx, "hotel-1")

	suite.Require().NoError(err)
	suite.Require().Len(rates, 2)
	suite.Equal("vat", rates[0].TaxRateID)
	suite.Equal("city", rates[1].TaxRateID)
}

func (suite *TaxRateServiceTestSuite) TestResolveHotelDefaults_DropsForeignRates() {
	suite.mockRepo.On("FindHotelRoomChargeDefaults", suite.ctx, "hotel-1").
		Return([]domain.TaxRate{
			suite.rate("own", "hotel-1"),
			suite.rate("foreign", "hotel-2"),
		}, nil).Once()

	rates, err := suite.service.ResolveHotelDefaults(suite.ctx, "hotel-1")

	suite.Require().NoError(err)
	suite.Require().Len(rates, 1)
	suite.Equal("own", rates[0].TaxRateID)
}

func TestTaxRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaxRateServiceTestSuite))
}
