package payment

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/fairyhunter13/printshop/internal/model"
)

const testSecret = "whsec_test_secret"

func signedHeader(t *testing.T, payload []byte) string {
	t.Helper()
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func eventPayload(eventType, intentID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {"object": {"id": %q, "object": "payment_intent"}}
	}`, stripe.APIVersion, eventType, intentID))
}

func TestVerifyEventRoundTrip(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testSecret)
	payload := eventPayload("payment_intent.succeeded", "pi_123")

	ev, err := g.VerifyEvent(payload, signedHeader(t, payload))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ev.Type != EventPaymentSucceeded {
		t.Fatalf("unexpected type %q", ev.Type)
	}
	if ev.IntentID != "pi_123" {
		t.Fatalf("unexpected intent %q", ev.IntentID)
	}
}

func TestVerifyEventOtherTypes(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testSecret)
	payload := eventPayload("payment_intent.created", "pi_123")

	ev, err := g.VerifyEvent(payload, signedHeader(t, payload))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ev.Type != "payment_intent.created" {
		t.Fatalf("unexpected type %q", ev.Type)
	}
	if ev.IntentID != "" {
		t.Fatalf("intent should be empty, got %q", ev.IntentID)
	}
}

func TestVerifyEventBadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testSecret)
	payload := eventPayload("payment_intent.succeeded", "pi_123")

	_, err := g.VerifyEvent(payload, "t=1,v1=deadbeef")
	if err == nil {
		t.Fatalf("expected error")
	}
	if model.ErrorCode(err) != model.ESIGNATURE {
		t.Fatalf("unexpected code %v", model.ErrorCode(err))
	}
}

func TestVerifyEventTamperedPayload(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testSecret)
	payload := eventPayload("payment_intent.succeeded", "pi_123")
	header := signedHeader(t, payload)

	tampered := eventPayload("payment_intent.succeeded", "pi_999")
	if _, err := g.VerifyEvent(tampered, header); err == nil {
		t.Fatalf("expected signature error")
	}
}
