package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stagedoor/internal/shared/apperrors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// IntentParams carries everything needed to create a provider-side payment
// authorization.
type IntentParams struct {
	AmountCents  int64
	Currency     string
	Description  string
	ReceiptEmail string
	Metadata     map[string]string
}

// IntentResult is the client-usable output of a created authorization
type IntentResult struct {
	ProviderRef  string
	ClientSecret string
}

// Provider abstracts the external payment provider so the orchestrator and
// webhook handler can be tested without network calls.
type Provider interface {
	CreateIntent(ctx context.Context, params IntentParams) (*IntentResult, error)
	VerifyEvent(payload []byte, signatureHeader string) (*PaymentEvent, error)
	// GetIntentMetadata retrieves the metadata attached to an existing
	// payment intent. Used by the post-checkout confirmation lookup while
	// the webhook is still in flight.
	GetIntentMetadata(ctx context.Context, providerRef string) (map[string]string, error)
}

type stripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider creates the Stripe-backed payment provider
func NewStripeProvider(apiKey, webhookSecret string) Provider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &stripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (p *stripeProvider) CreateIntent(ctx context.Context, params IntentParams) (*IntentResult, error) {
	piParams := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(params.AmountCents),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if params.Description != "" {
		piParams.Description = stripe.String(params.Description)
	}
	if params.ReceiptEmail != "" {
		piParams.ReceiptEmail = stripe.String(params.ReceiptEmail)
	}
	for key, value := range params.Metadata {
		piParams.AddMetadata(key, value)
	}

	intent, err := p.api.PaymentIntents.New(piParams)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("payment intent creation timed out: %w", apperrors.ErrTimeout)
		}
		return nil, fmt.Errorf("payment intent creation failed: %v: %w", err, apperrors.ErrUpstream)
	}

	return &IntentResult{
		ProviderRef:  intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (p *stripeProvider) GetIntentMetadata(ctx context.Context, providerRef string) (map[string]string, error) {
	intent, err := p.api.PaymentIntents.Get(providerRef, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, fmt.Errorf("payment intent %s: %w", providerRef, apperrors.ErrNotFound)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("payment intent lookup timed out: %w", apperrors.ErrTimeout)
		}
		return nil, fmt.Errorf("payment intent lookup failed: %v: %w", err, apperrors.ErrUpstream)
	}
	return intent.Metadata, nil
}

// VerifyEvent checks the provider signature over the raw payload and decodes
// the event into the tagged PaymentEvent variant. Fails closed: any signature
// problem rejects the event.
func (p *stripeProvider) VerifyEvent(payload []byte, signatureHeader string) (*PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		if isSignatureError(err) {
			return nil, fmt.Errorf("webhook verification failed: %w", apperrors.ErrInvalidSignature)
		}
		return nil, fmt.Errorf("webhook payload unparsable: %w", apperrors.ErrMalformedEvent)
	}

	return decodeStripeEvent(&event)
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrTooOld) ||
		errors.Is(err, webhook.ErrNoValidSignature)
}

// decodeStripeEvent maps the provider event taxonomy onto ours. Events we do
// not handle decode to EventIgnored rather than an error so the handler can
// acknowledge them.
func decodeStripeEvent(event *stripe.Event) (*PaymentEvent, error) {
	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("payment_intent payload: %w", apperrors.ErrMalformedEvent)
		}
		return &PaymentEvent{
			Kind:       EventPaymentSucceeded,
			PaymentRef: intent.ID,
			Metadata:   intent.Metadata,
		}, nil

	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("checkout_session payload: %w", apperrors.ErrMalformedEvent)
		}
		if session.PaymentIntent == nil {
			return &PaymentEvent{Kind: EventIgnored}, nil
		}
		return &PaymentEvent{
			Kind:       EventPaymentSucceeded,
			PaymentRef: session.PaymentIntent.ID,
			Metadata:   session.Metadata,
		}, nil

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("charge payload: %w", apperrors.ErrMalformedEvent)
		}
		if charge.PaymentIntent == nil {
			return &PaymentEvent{Kind: EventIgnored}, nil
		}
		return &PaymentEvent{
			Kind:       EventPaymentRefunded,
			PaymentRef: charge.PaymentIntent.ID,
		}, nil

	default:
		return &PaymentEvent{Kind: EventIgnored}, nil
	}
}
