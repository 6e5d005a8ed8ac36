package payments

import (
	"context"
	"fmt"
	"os"
	"time"

	"bitbucket.org/voltride/fieldops_backend/workflow"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeGateway implements workflow.PaymentGateway over the Stripe payment
// intent API. The stored payment authorization reference is the payment
// intent id captured at booking creation.
type StripeGateway struct{}

func NewStripeGateway() (*StripeGateway, error) {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	stripe.Key = key
	return &StripeGateway{}, nil
}

func (g *StripeGateway) RetrieveAuthorization(ctx context.Context, ref string) (*workflow.ChargeDetails, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge")

	pi, err := paymentintent.Get(ref, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent %s: %w", ref, err)
	}

	details := &workflow.ChargeDetails{
		Amount:   decimal.NewFromInt(pi.Amount).Div(decimal.NewFromInt(100)),
		Currency: string(pi.Currency),
	}

	charge := pi.LatestCharge
	if charge == nil {
		return details, nil
	}
	details.ChargeId = charge.ID
	details.ReceiptUrl = charge.ReceiptURL
	if charge.Amount > 0 {
		details.Amount = decimal.NewFromInt(charge.Amount).Div(decimal.NewFromInt(100))
	}
	if charge.Currency != "" {
		details.Currency = string(charge.Currency)
	}
	if charge.Captured && charge.Created > 0 {
		t := time.Unix(charge.Created, 0).UTC()
		details.CapturedAt = &t
	}
	if charge.PaymentMethodDetails != nil && charge.PaymentMethodDetails.Card != nil {
		card := charge.PaymentMethodDetails.Card
		details.CardBrand = string(card.Brand)
		details.CardCountry = card.Country
		details.CardLast4 = card.Last4
		details.CardExpMonth = int(card.ExpMonth)
		details.CardExpYear = int(card.ExpYear)
		if card.ThreeDSecure != nil {
			details.ThreeDSecureTxnId = card.ThreeDSecure.TransactionID
		}
	}
	return details, nil
}
