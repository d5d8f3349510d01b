package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gsc/src/config"
	"gsc/src/lib"
	"gsc/src/lifecycle"
	"gsc/src/models"
	"gsc/src/types"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var SupportedCurrencies = []string{"XAF", "USD", "EUR", "CAD", "GBP"}

var DefaultFeePercentage = decimal.NewFromFloat(2.0)

// Quote is the active rate for a currency pair. Inverse is set when it was
// derived from the reverse pair.
type Quote struct {
	From          string          `json:"from_currency"`
	To            string          `json:"to_currency"`
	Rate          decimal.Decimal `json:"rate"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	Inverse       bool            `json:"inverse"`
}

type Simulation struct {
	Quote
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	FeeAmount       decimal.Decimal `json:"fee_amount"`
	NetAmount       decimal.Decimal `json:"net_amount"`
}

func rateKey(from string, to string) string {
	return fmt.Sprintf("exchange_rate:%s:%s", from, to)
}

func normalizePair(from string, to string) (string, string, error) {
	from, to = strings.ToUpper(strings.TrimSpace(from)), strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return "", "", fmt.Errorf("%w: currencies must differ", lifecycle.ErrValidation)
	}
	return from, to, nil
}

// GetRate resolves the active rate for a pair, going through the redis cache
// when one is configured.
func GetRate(ctx context.Context, tx *gorm.DB, from string, to string) (*Quote, error) {
	from, to, err := normalizePair(from, to)
	if err != nil {
		return nil, err
	}
	rd := lib.GetRedisClient()
	if rd != nil {
		if cached, err := rd.Get(ctx, rateKey(from, to)).Result(); err == nil {
			var quote Quote
			if err := json.Unmarshal([]byte(cached), &quote); err == nil {
				return &quote, nil
			}
		}
	}

	quote, err := lookupRate(tx.WithContext(ctx), from, to)
	if err != nil {
		return nil, err
	}
	if rd != nil {
		payload, _ := json.Marshal(quote)
		if err := rd.Set(ctx, rateKey(from, to), payload, config.RateCacheTTL()).Err(); err != nil {
			log.Printf("[redis] Error caching rate %s/%s: %s\n", from, to, err.Error())
		}
	}
	return quote, nil
}

func lookupRate(tx *gorm.DB, from string, to string) (*Quote, error) {
	var rate models.ExchangeRate
	err := tx.Where("from_currency = ? AND to_currency = ? AND is_active = ?", from, to, true).First(&rate).Error
	if err == nil {
		return &Quote{From: from, To: to, Rate: rate.Rate, FeePercentage: rate.FeePercentage}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	err = tx.Where("from_currency = ? AND to_currency = ? AND is_active = ?", to, from, true).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && rate.Rate.IsZero()) {
		return nil, fmt.Errorf("%w: no active rate for %s/%s", lifecycle.ErrNotFound, from, to)
	}
	if err != nil {
		return nil, err
	}
	return &Quote{
		From:          from,
		To:            to,
		Rate:          decimal.NewFromInt(1).DivRound(rate.Rate, 6),
		FeePercentage: rate.FeePercentage,
		Inverse:       true,
	}, nil
}

// InvalidateRate drops both directions of a pair from the cache.
func InvalidateRate(ctx context.Context, from string, to string) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(ctx, rateKey(from, to), rateKey(to, from)).Err(); err != nil {
		log.Printf("[redis] Error invalidating rate %s/%s: %s\n", from, to, err.Error())
	}
}

// Convert applies a quote: the fee is taken on the converted amount.
func Convert(quote Quote, amount decimal.Decimal) Simulation {
	converted := amount.Mul(quote.Rate).Round(2)
	fee := converted.Mul(quote.FeePercentage).Div(decimal.NewFromInt(100)).Round(2)
	return Simulation{
		Quote:           quote,
		Amount:          amount,
		ConvertedAmount: converted,
		FeeAmount:       fee,
		NetAmount:       converted.Sub(fee),
	}
}

func Simulate(ctx context.Context, tx *gorm.DB, from string, to string, amount decimal.Decimal) (*Simulation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", lifecycle.ErrValidation)
	}
	quote, err := GetRate(ctx, tx, from, to)
	if err != nil {
		return nil, err
	}
	sim := Convert(*quote, amount)
	return &sim, nil
}

// BuildExchangeRequest snapshots the current rate and fee into a new request.
func BuildExchangeRequest(ctx context.Context, tx *gorm.DB, body *types.CreateExchangeRequestBody) (*models.CurrencyExchangeRequest, error) {
	sim, err := Simulate(ctx, tx, body.From, body.To, body.AmountSent)
	if err != nil {
		return nil, err
	}
	var clientID uint
	if body.ClientID != nil {
		clientID = *body.ClientID
	}
	return &models.CurrencyExchangeRequest{
		ClientID:          clientID,
		FromCurrency:      sim.From,
		ToCurrency:        sim.To,
		AmountSent:        sim.Amount,
		ExchangeRate:      sim.Rate,
		FeePercentage:     sim.FeePercentage,
		FeeAmount:         sim.FeeAmount,
		AmountReceived:    sim.NetAmount,
		ReceptionMethod:   body.ReceptionMethod,
		Notes:             body.Notes,
		BankName:          body.BankName,
		AccountHolderName: body.AccountHolderName,
		IBAN:              body.IBAN,
		BIC:               body.BIC,
		MobileOperator:    body.MobileOperator,
		MobileNumber:      body.MobileNumber,
		PickupAgency:      body.PickupAgency,
	}, nil
}

// SaveRate creates or updates the rate of a pair.
func SaveRate(ctx context.Context, tx *gorm.DB, id uint, body *types.ExchangeRateRequestBody) (*models.ExchangeRate, error) {
	from, to, err := normalizePair(body.From, body.To)
	if err != nil {
		return nil, err
	}
	if !body.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive", lifecycle.ErrValidation)
	}
	rate := models.ExchangeRate{FeePercentage: DefaultFeePercentage, IsActive: true}
	if id != 0 {
		if err := tx.WithContext(ctx).First(&rate, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: exchange rate %d", lifecycle.ErrNotFound, id)
			}
			return nil, err
		}
		InvalidateRate(ctx, rate.FromCurrency, rate.ToCurrency)
	}
	rate.FromCurrency = from
	rate.ToCurrency = to
	rate.Rate = body.Rate
	if body.FeePercentage != nil {
		rate.FeePercentage = *body.FeePercentage
	}
	if body.IsActive != nil {
		rate.IsActive = *body.IsActive
	}
	if err := tx.WithContext(ctx).Save(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a rate for %s/%s already exists", lifecycle.ErrValidation, from, to)
		}
		return nil, err
	}
	InvalidateRate(ctx, from, to)
	return &rate, nil
}

func DeleteRate(ctx context.Context, tx *gorm.DB, id uint) error {
	var rate models.ExchangeRate
	if err := tx.WithContext(ctx).First(&rate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: exchange rate %d", lifecycle.ErrNotFound, id)
		}
		return err
	}
	if err := tx.WithContext(ctx).Delete(&rate).Error; err != nil {
		return err
	}
	InvalidateRate(ctx, rate.FromCurrency, rate.ToCurrency)
	return nil
}

// ExchangeReport gathers what the printable receipt of an exchange shows.
func ExchangeReport(tx *gorm.DB, exchange *models.CurrencyExchangeRequest) (map[string]any, error) {
	history, err := models.ListHistory(tx, types.KIND_CURRENCY_EXCHANGE, exchange.ID)
	if err != nil {
		return nil, err
	}
	reference := ""
	if exchange.Reference != nil {
		reference = *exchange.Reference
	}
	client := map[string]any{}
	if exchange.Client != nil {
		client = map[string]any{
			"name":      exchange.Client.FullName(),
			"email":     exchange.Client.Email,
			"telephone": exchange.Client.Phone,
		}
	}
	return map[string]any{
		"reference":        reference,
		"status":           exchange.Status,
		"submitted_at":     exchange.SubmittedAt,
		"completed_at":     exchange.CompletedAt,
		"client":           client,
		"from_currency":    exchange.FromCurrency,
		"to_currency":      exchange.ToCurrency,
		"amount_sent":      exchange.AmountSent,
		"exchange_rate":    exchange.ExchangeRate,
		"fee_percentage":   exchange.FeePercentage,
		"fee_amount":       exchange.FeeAmount,
		"amount_received":  exchange.AmountReceived,
		"reception_method": exchange.ReceptionMethod,
		"history":          history,
	}, nil
}
