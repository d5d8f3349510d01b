package lib

import (
	"context"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

// GetStripeClient returns nil when no secret key is configured.
func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	if apiKey == "" {
		return nil
	}
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// zeroDecimal lists currencies Stripe expects in major units.
var zeroDecimal = map[string]bool{"XAF": true, "XOF": true, "JPY": true}

func StripeAmount(amount decimal.Decimal, currency string) int64 {
	if zeroDecimal[strings.ToUpper(currency)] {
		return amount.Round(0).IntPart()
	}
	return amount.Shift(2).Round(0).IntPart()
}

// CreatePaymentIntent mirrors a card payment on Stripe and returns the intent id.
func CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, reference string) (string, error) {
	sc := GetStripeClient()
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(StripeAmount(amount, currency)),
		Currency: stripe.String(strings.ToLower(currency)),
		Metadata: map[string]string{"reference": reference},
	}
	pi, err := sc.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}
