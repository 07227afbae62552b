package payments

import (
	"errors"
	"testing"

	"stagedoor/internal/shared/apperrors"
)

func validMetadata() map[string]string {
	return map[string]string{
		MetaShowID:            "6f1b54a0-4c62-4f31-9dc8-5a2f8a2e9b11",
		MetaExperienceSlug:    "secret-ballads",
		MetaCustomerName:      "Dana Whitfield",
		MetaCustomerEmail:     "dana@example.com",
		MetaCustomerPhone:     "+12125550142",
		MetaContactPreference: "email",
		MetaTicketCount:       "2",
		MetaTotalCents:        "15000",
	}
}

func TestParseBookingMetadata(t *testing.T) {
	t.Run("full metadata", func(t *testing.T) {
		meta, err := ParseBookingMetadata(validMetadata())
		if err != nil {
			t.Fatalf("ParseBookingMetadata: %v", err)
		}
		if meta.TicketCount != 2 {
			t.Errorf("TicketCount = %d, want 2", meta.TicketCount)
		}
		if meta.TotalCents != 15000 {
			t.Errorf("TotalCents = %d, want 15000", meta.TotalCents)
		}
		if meta.ContactPreference != "email" {
			t.Errorf("ContactPreference = %q, want email", meta.ContactPreference)
		}
	})

	t.Run("contact preference defaults to both", func(t *testing.T) {
		m := validMetadata()
		delete(m, MetaContactPreference)
		meta, err := ParseBookingMetadata(m)
		if err != nil {
			t.Fatalf("ParseBookingMetadata: %v", err)
		}
		if meta.ContactPreference != "both" {
			t.Errorf("ContactPreference = %q, want both", meta.ContactPreference)
		}
	})

	malformed := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing show_id", func(m map[string]string) { delete(m, MetaShowID) }},
		{"missing customer_name", func(m map[string]string) { delete(m, MetaCustomerName) }},
		{"missing ticket_count", func(m map[string]string) { delete(m, MetaTicketCount) }},
		{"missing total_cents", func(m map[string]string) { delete(m, MetaTotalCents) }},
		{"ticket_count not a number", func(m map[string]string) { m[MetaTicketCount] = "two" }},
		{"ticket_count zero", func(m map[string]string) { m[MetaTicketCount] = "0" }},
		{"negative total", func(m map[string]string) { m[MetaTotalCents] = "-100" }},
	}

	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			m := validMetadata()
			tt.mutate(m)
			if _, err := ParseBookingMetadata(m); !errors.Is(err, apperrors.ErrMalformedEvent) {
				t.Fatalf("expected ErrMalformedEvent, got %v", err)
			}
		})
	}

	t.Run("nil metadata", func(t *testing.T) {
		if _, err := ParseBookingMetadata(nil); !errors.Is(err, apperrors.ErrMalformedEvent) {
			t.Fatalf("expected ErrMalformedEvent, got %v", err)
		}
	})
}
