package common

import (
	"context"
	"gsc/src/db"
	"gsc/src/lib"
	"gsc/src/lifecycle"
	"gsc/src/models"
	"gsc/src/types"
	"gsc/src/utils"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ExchangeTestSuite struct {
	suite.Suite
	ctx context.Context
	db  *gorm.DB
}

func TestExchangeTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeTestSuite))
}

func (s *ExchangeTestSuite) SetupTest() {
	s.ctx = context.Background()
	gdb, err := db.OpenMemory()
	s.Require().NoError(err)
	s.Require().NoError(gdb.AutoMigrate(&models.ExchangeRate{}))
	s.db = gdb
	lib.NewRedisClient(nil)
}

func (s *ExchangeTestSuite) TearDownTest() {
	lib.NewRedisClient(nil)
}

func (s *ExchangeTestSuite) rate(from, to, rate string, active bool) models.ExchangeRate {
	r := models.ExchangeRate{
		FromCurrency:  from,
		ToCurrency:    to,
		Rate:          decimal.RequireFromString(rate),
		FeePercentage: decimal.NewFromInt(2),
		IsActive:      true,
	}
	s.Require().NoError(s.db.Create(&r).Error)
	if !active {
		s.Require().NoError(s.db.Model(&r).Update("is_active", false).Error)
	}
	return r
}

func (s *ExchangeTestSuite) TestDirectRate() {
	s.rate("EUR", "XAF", "655.957", true)

	quote, err := GetRate(s.ctx, s.db, " eur", "xaf ")
	s.Require().NoError(err)
	s.Equal("EUR", quote.From)
	s.Equal("XAF", quote.To)
	s.True(quote.Rate.Equal(decimal.RequireFromString("655.957")))
	s.False(quote.Inverse)
}

func (s *ExchangeTestSuite) TestInverseRate() {
	s.rate("EUR", "XAF", "655.957", true)

	quote, err := GetRate(s.ctx, s.db, "XAF", "EUR")
	s.Require().NoError(err)
	s.True(quote.Inverse)
	s.Equal("0.001524", quote.Rate.String())
}

func (s *ExchangeTestSuite) TestInactiveAndMissingRates() {
	s.rate("USD", "XAF", "650", false)

	_, err := GetRate(s.ctx, s.db, "USD", "XAF")
	s.ErrorIs(err, lifecycle.ErrNotFound)
	_, err = GetRate(s.ctx, s.db, "XAF", "USD")
	s.ErrorIs(err, lifecycle.ErrNotFound)
	_, err = GetRate(s.ctx, s.db, "USD", "usd")
	s.ErrorIs(err, lifecycle.ErrValidation)
}

func (s *ExchangeTestSuite) TestCachedRate() {
	rdb, mock := redismock.NewClientMock()
	lib.NewRedisClient(rdb)

	// no row in the database, the quote can only come from the cache
	mock.ExpectGet("exchange_rate:GBP:XAF").SetVal(`{"from_currency":"GBP","to_currency":"XAF","rate":"835","fee_percentage":"1.5","inverse":false}`)
	quote, err := GetRate(s.ctx, s.db, "GBP", "XAF")
	s.Require().NoError(err)
	s.Equal("835", quote.Rate.String())
	s.Equal("1.5", quote.FeePercentage.String())
	s.NoError(mock.ExpectationsWereMet())
}

func (s *ExchangeTestSuite) TestCacheMissFallsBackToDatabase() {
	s.rate("CAD", "XAF", "485", true)
	rdb, mock := redismock.NewClientMock()
	lib.NewRedisClient(rdb)

	mock.ExpectGet("exchange_rate:CAD:XAF").RedisNil()
	quote, err := GetRate(s.ctx, s.db, "CAD", "XAF")
	s.Require().NoError(err)
	s.Equal("485", quote.Rate.String())
	s.NoError(mock.ExpectationsWereMet())
}

func (s *ExchangeTestSuite) TestSaveRateInvalidatesCache() {
	rdb, mock := redismock.NewClientMock()
	lib.NewRedisClient(rdb)
	mock.ExpectDel("exchange_rate:EUR:USD", "exchange_rate:USD:EUR").SetVal(0)

	rate, err := SaveRate(s.ctx, s.db, 0, &types.ExchangeRateRequestBody{From: "eur", To: "usd", Rate: decimal.RequireFromString("1.09")})
	s.Require().NoError(err)
	s.Equal("EUR", rate.FromCurrency)
	s.True(rate.FeePercentage.Equal(DefaultFeePercentage))
	s.True(rate.IsActive)
	s.NoError(mock.ExpectationsWereMet())

	lib.NewRedisClient(nil)
	fee := decimal.NewFromInt(3)
	updated, err := SaveRate(s.ctx, s.db, rate.ID, &types.ExchangeRateRequestBody{
		From:          "EUR",
		To:            "USD",
		Rate:          decimal.RequireFromString("1.10"),
		FeePercentage: &fee,
		IsActive:      utils.Ptr(false),
	})
	s.Require().NoError(err)
	s.Equal(rate.ID, updated.ID)
	s.False(updated.IsActive)
	s.True(updated.FeePercentage.Equal(fee))
}

func (s *ExchangeTestSuite) TestSaveRateValidation() {
	_, err := SaveRate(s.ctx, s.db, 0, &types.ExchangeRateRequestBody{From: "EUR", To: "USD", Rate: decimal.Zero})
	s.ErrorIs(err, lifecycle.ErrValidation)

	_, err = SaveRate(s.ctx, s.db, 42, &types.ExchangeRateRequestBody{From: "EUR", To: "USD", Rate: decimal.NewFromInt(1)})
	s.ErrorIs(err, lifecycle.ErrNotFound)

	s.rate("EUR", "USD", "1.09", true)
	_, err = SaveRate(s.ctx, s.db, 0, &types.ExchangeRateRequestBody{From: "EUR", To: "USD", Rate: decimal.NewFromInt(1)})
	s.ErrorIs(err, lifecycle.ErrValidation)
}

func (s *ExchangeTestSuite) TestDeleteRate() {
	r := s.rate("EUR", "GBP", "0.85", true)
	s.Require().NoError(DeleteRate(s.ctx, s.db, r.ID))
	s.ErrorIs(DeleteRate(s.ctx, s.db, r.ID), lifecycle.ErrNotFound)

	_, err := GetRate(s.ctx, s.db, "EUR", "GBP")
	s.ErrorIs(err, lifecycle.ErrNotFound)
}

func (s *ExchangeTestSuite) TestBuildExchangeRequest() {
	s.rate("EUR", "XAF", "655.957", true)
	clientID := uint(5)

	exchange, err := BuildExchangeRequest(s.ctx, s.db, &types.CreateExchangeRequestBody{
		ClientID:        &clientID,
		From:            "EUR",
		To:              "XAF",
		AmountSent:      decimal.NewFromInt(100),
		ReceptionMethod: "mobile_money",
		MobileOperator:  "MTN",
		MobileNumber:    "+237670000000",
	})
	s.Require().NoError(err)
	s.Equal(clientID, exchange.ClientID)
	s.Equal("65595.7", exchange.AmountReceived.Add(exchange.FeeAmount).String())
	s.Equal("1311.91", exchange.FeeAmount.String())
	s.Equal("64283.79", exchange.AmountReceived.String())
	s.Equal("MTN", exchange.MobileOperator)

	_, err = BuildExchangeRequest(s.ctx, s.db, &types.CreateExchangeRequestBody{From: "EUR", To: "XAF", AmountSent: decimal.NewFromInt(-5)})
	s.ErrorIs(err, lifecycle.ErrValidation)
}

func TestConvert(t *testing.T) {
	quote := Quote{From: "USD", To: "XAF", Rate: decimal.NewFromInt(650), FeePercentage: decimal.RequireFromString("2.5")}
	sim := Convert(quote, decimal.RequireFromString("19.99"))

	assert.Equal(t, "12993.5", sim.ConvertedAmount.String())
	assert.Equal(t, "324.84", sim.FeeAmount.String())
	assert.Equal(t, "12668.66", sim.NetAmount.String())
	assert.Equal(t, "USD", sim.From)
}
