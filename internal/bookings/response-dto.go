package bookings

import (
	"time"

	"stagedoor/internal/payments"

	"github.com/google/uuid"
)

// ConfirmationShow is the show summary embedded in a confirmation lookup
type ConfirmationShow struct {
	ID           uuid.UUID `json:"id"`
	ShowDate     string    `json:"show_date"`
	ShowTime     string    `json:"show_time"`
	DoorsTime    string    `json:"doors_time,omitempty"`
	VenueName    string    `json:"venue_name"`
	VenueAddress string    `json:"venue_address,omitempty"`
	VenueCity    string    `json:"venue_city"`
	VenueState   string    `json:"venue_state"`
	VenueNotes   string    `json:"venue_notes,omitempty"`
}

// ConfirmationExperience is the experience summary embedded in a confirmation
// lookup
type ConfirmationExperience struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// ConfirmationResponse is the post-checkout confirmation page payload. While
// the provider webhook is still in flight the status is "pending" and the
// ticket code is not yet assigned.
type ConfirmationResponse struct {
	Status            string                  `json:"status"`
	TicketCode        string                  `json:"ticket_code,omitempty"`
	CustomerName      string                  `json:"customer_name"`
	CustomerEmail     string                  `json:"customer_email,omitempty"`
	ContactPreference string                  `json:"contact_preference"`
	TicketCount       int                     `json:"ticket_count"`
	TotalCents        int64                   `json:"total_cents"`
	Show              *ConfirmationShow       `json:"show,omitempty"`
	Experience        *ConfirmationExperience `json:"experience,omitempty"`
}

// ToConfirmationResponse builds the confirmation payload from a booking with
// its show and experience preloaded.
func (b *Booking) ToConfirmationResponse() *ConfirmationResponse {
	resp := &ConfirmationResponse{
		Status:            b.PaymentStatus.String(),
		TicketCode:        b.TicketCode,
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		ContactPreference: string(b.ContactPreference),
		TicketCount:       b.TicketCount,
		TotalCents:        b.TotalCents,
	}
	if b.Show != nil {
		resp.Show = &ConfirmationShow{
			ID:           b.Show.ID,
			ShowDate:     b.Show.ShowDate.Format(time.DateOnly),
			ShowTime:     b.Show.ShowTime,
			DoorsTime:    b.Show.DoorsTime,
			VenueName:    b.Show.VenueName,
			VenueAddress: b.Show.VenueAddress,
			VenueCity:    b.Show.VenueCity,
			VenueState:   b.Show.VenueState,
			VenueNotes:   b.Show.VenueNotes,
		}
		if b.Show.Experience != nil {
			resp.Experience = &ConfirmationExperience{
				Slug:  b.Show.Experience.Slug,
				Title: b.Show.Experience.Title,
			}
		}
	}
	return resp
}

// pendingConfirmation builds the payload for a payment whose webhook has not
// landed yet, echoing the intent metadata so the page can render.
func pendingConfirmation(meta *payments.BookingMetadata) *ConfirmationResponse {
	return &ConfirmationResponse{
		Status:            "pending",
		CustomerName:      meta.CustomerName,
		CustomerEmail:     meta.CustomerEmail,
		ContactPreference: meta.ContactPreference,
		TicketCount:       meta.TicketCount,
		TotalCents:        meta.TotalCents,
	}
}
