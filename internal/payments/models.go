package payments

import (
	"fmt"
	"strconv"

	"stagedoor/internal/shared/apperrors"
)

// EventKind is the tagged variant of a decoded provider webhook event.
// Unrecognized provider event types decode to EventIgnored and are
// acknowledged without processing.
type EventKind string

const (
	EventPaymentSucceeded EventKind = "payment_succeeded"
	EventPaymentRefunded  EventKind = "payment_refunded"
	EventIgnored          EventKind = "ignored"
)

// PaymentEvent is a verified, decoded webhook event. PaymentRef is the
// provider-issued payment-intent identifier and serves as the idempotency key
// for the reconciler.
type PaymentEvent struct {
	Kind       EventKind
	PaymentRef string
	Metadata   map[string]string
}

// Metadata keys attached to the payment intent at authorization time and
// echoed back on webhook events.
const (
	MetaShowID            = "show_id"
	MetaExperienceSlug    = "experience_slug"
	MetaCustomerName      = "customer_name"
	MetaCustomerEmail     = "customer_email"
	MetaCustomerPhone     = "customer_phone"
	MetaContactPreference = "contact_preference"
	MetaTicketCount       = "ticket_count"
	MetaTotalCents        = "total_cents"
)

// BookingMetadata is the parsed form of the booking details carried on a
// successful-payment event.
type BookingMetadata struct {
	ShowID            string
	ExperienceSlug    string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	ContactPreference string
	TicketCount       int
	TotalCents        int64
}

// ParseBookingMetadata validates and parses the metadata map from a
// payment_succeeded event. Missing or unparsable required fields fail with
// ErrMalformedEvent.
func ParseBookingMetadata(meta map[string]string) (*BookingMetadata, error) {
	if meta == nil {
		return nil, fmt.Errorf("event carries no metadata: %w", apperrors.ErrMalformedEvent)
	}

	required := []string{MetaShowID, MetaCustomerName, MetaTicketCount, MetaTotalCents}
	for _, key := range required {
		if meta[key] == "" {
			return nil, fmt.Errorf("metadata field %q is missing: %w", key, apperrors.ErrMalformedEvent)
		}
	}

	ticketCount, err := strconv.Atoi(meta[MetaTicketCount])
	if err != nil || ticketCount < 1 {
		return nil, fmt.Errorf("invalid ticket_count %q: %w", meta[MetaTicketCount], apperrors.ErrMalformedEvent)
	}

	totalCents, err := strconv.ParseInt(meta[MetaTotalCents], 10, 64)
	if err != nil || totalCents < 0 {
		return nil, fmt.Errorf("invalid total_cents %q: %w", meta[MetaTotalCents], apperrors.ErrMalformedEvent)
	}

	contactPreference := meta[MetaContactPreference]
	if contactPreference == "" {
		contactPreference = "both"
	}

	return &BookingMetadata{
		ShowID:            meta[MetaShowID],
		ExperienceSlug:    meta[MetaExperienceSlug],
		CustomerName:      meta[MetaCustomerName],
		CustomerEmail:     meta[MetaCustomerEmail],
		CustomerPhone:     meta[MetaCustomerPhone],
		ContactPreference: contactPreference,
		TicketCount:       ticketCount,
		TotalCents:        totalCents,
	}, nil
}
