package payments

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"stagedoor/internal/shared/apperrors"

	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string, ts time.Time) string {
	t.Helper()
	sig := webhook.ComputeSignature(ts, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func newTestProvider() *stripeProvider {
	return &stripeProvider{webhookSecret: testWebhookSecret}
}

func succeededEventPayload(paymentRef string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2023-10-16",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": %q,
				"object": "payment_intent",
				"metadata": {
					"show_id": "6f1b54a0-4c62-4f31-9dc8-5a2f8a2e9b11",
					"customer_name": "Dana Whitfield",
					"ticket_count": "2",
					"total_cents": "15000"
				}
			}
		}
	}`, paymentRef))
}

func TestVerifyEventSucceededPayment(t *testing.T) {
	provider := newTestProvider()
	payload := succeededEventPayload("pi_12345")
	header := signPayload(t, payload, testWebhookSecret, time.Now())

	event, err := provider.VerifyEvent(payload, header)
	if err != nil {
		t.Fatalf("VerifyEvent: %v", err)
	}
	if event.Kind != EventPaymentSucceeded {
		t.Errorf("Kind = %s, want %s", event.Kind, EventPaymentSucceeded)
	}
	if event.PaymentRef != "pi_12345" {
		t.Errorf("PaymentRef = %q, want pi_12345", event.PaymentRef)
	}
	if event.Metadata[MetaCustomerName] != "Dana Whitfield" {
		t.Errorf("metadata not carried through: %v", event.Metadata)
	}
}

func TestVerifyEventRefund(t *testing.T) {
	provider := newTestProvider()
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "charge.refunded",
		"data": {
			"object": {
				"id": "ch_1",
				"object": "charge",
				"payment_intent": "pi_98765"
			}
		}
	}`)
	header := signPayload(t, payload, testWebhookSecret, time.Now())

	event, err := provider.VerifyEvent(payload, header)
	if err != nil {
		t.Fatalf("VerifyEvent: %v", err)
	}
	if event.Kind != EventPaymentRefunded {
		t.Errorf("Kind = %s, want %s", event.Kind, EventPaymentRefunded)
	}
	if event.PaymentRef != "pi_98765" {
		t.Errorf("PaymentRef = %q, want pi_98765", event.PaymentRef)
	}
}

func TestVerifyEventUnhandledTypeIgnored(t *testing.T) {
	provider := newTestProvider()
	payload := []byte(`{
		"id": "evt_3",
		"object": "event",
		"type": "customer.created",
		"data": {"object": {"id": "cus_1", "object": "customer"}}
	}`)
	header := signPayload(t, payload, testWebhookSecret, time.Now())

	event, err := provider.VerifyEvent(payload, header)
	if err != nil {
		t.Fatalf("VerifyEvent: %v", err)
	}
	if event.Kind != EventIgnored {
		t.Errorf("Kind = %s, want %s", event.Kind, EventIgnored)
	}
}

func TestVerifyEventRejectsBadSignatures(t *testing.T) {
	provider := newTestProvider()
	payload := succeededEventPayload("pi_12345")

	tests := []struct {
		name   string
		header string
	}{
		{"wrong secret", signPayload(t, payload, "whsec_other_secret", time.Now())},
		{"stale timestamp", signPayload(t, payload, testWebhookSecret, time.Now().Add(-time.Hour))},
		{"garbage header", "t=abc,v1=zzzz"},
		{"empty header", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.VerifyEvent(payload, tt.header)
			if !errors.Is(err, apperrors.ErrInvalidSignature) {
				t.Fatalf("expected ErrInvalidSignature, got %v", err)
			}
		})
	}
}

func TestVerifyEventRejectsTamperedPayload(t *testing.T) {
	provider := newTestProvider()
	payload := succeededEventPayload("pi_12345")
	header := signPayload(t, payload, testWebhookSecret, time.Now())

	tampered := succeededEventPayload("pi_attacker")
	if _, err := provider.VerifyEvent(tampered, header); !errors.Is(err, apperrors.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for tampered payload, got %v", err)
	}
}
