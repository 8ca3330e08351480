package payment

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/fairyhunter13/printshop/internal/model"
)

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	webhookSecret string
}

// NewStripeGateway sets the account's secret key on the Stripe client and
// returns a gateway bound to the webhook signing secret.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

// CreateIntent registers a PaymentIntent for the given amount.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, model.Errorf(model.EGATEWAY, "payment provider error: %v", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// VerifyEvent checks the Stripe-Signature header against the signing secret
// and extracts the payment intent id for intent events.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*Event, error) {
	ev, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, model.ErrSignatureInvalid
	}
	out := &Event{Type: string(ev.Type)}
	if out.Type == EventPaymentSucceeded {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return nil, model.Errorf(model.EINVALID, "malformed event payload: %v", err)
		}
		out.IntentID = pi.ID
	}
	return out, nil
}

// Refund refunds the full charge behind the intent.
func (g *StripeGateway) Refund(ctx context.Context, intentID string) error {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(intentID)}
	params.Context = ctx
	if _, err := refund.New(params); err != nil {
		return model.Errorf(model.EGATEWAY, "Refund failed: %v", err)
	}
	return nil
}
