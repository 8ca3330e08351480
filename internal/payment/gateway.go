// Package payment integrates the shop with its card payment provider.
package payment

import "context"

// EventPaymentSucceeded is the provider event emitted when a payment clears.
const EventPaymentSucceeded = "payment_intent.succeeded"

// Intent is a payment intent registered with the provider. ClientSecret is
// handed to the browser to complete the payment.
type Intent struct {
	ID           string
	ClientSecret string
}

// Event is a verified webhook notification. IntentID is set for payment
// intent events.
type Event struct {
	Type     string
	IntentID string
}

// Gateway abstracts the payment provider so the shop can be exercised
// without network access.
type Gateway interface {
	// CreateIntent registers a payment of amount minor units with the
	// provider. Metadata is attached verbatim for reconciliation.
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)

	// VerifyEvent authenticates a webhook payload against its signature
	// header and decodes the event.
	VerifyEvent(payload []byte, signature string) (*Event, error)

	// Refund returns the full charge behind the intent to the customer.
	Refund(ctx context.Context, intentID string) error
}
