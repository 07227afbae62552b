package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"stagedoor/internal/bookings"

	"github.com/google/uuid"
)

// ConfirmationMessage is the channel-independent content of a booking
// confirmation. Both the email and SMS renderers consume it.
type ConfirmationMessage struct {
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	ExperienceTitle string
	ShowDate        string
	ShowTime        string
	DoorsTime       string
	VenueName       string
	VenueAddress    string
	VenueCity       string
	VenueState      string
	VenueNotes      string
	TicketCount     int
	TotalDisplay    string
	TicketCode      string
	TicketURL       string
}

// NewConfirmationMessage flattens a booking with its show and experience
// preloaded into renderable content.
func NewConfirmationMessage(booking *bookings.Booking, publicBaseURL string) (*ConfirmationMessage, error) {
	if booking.Show == nil || booking.Show.Experience == nil {
		return nil, fmt.Errorf("booking %s is missing show or experience details", booking.ID)
	}

	show := booking.Show
	msg := &ConfirmationMessage{
		GuestName:       booking.CustomerName,
		GuestEmail:      booking.CustomerEmail,
		GuestPhone:      booking.CustomerPhone,
		ExperienceTitle: show.Experience.Title,
		ShowDate:        show.ShowDate.Format("Monday, January 2, 2006"),
		ShowTime:        show.ShowTime,
		DoorsTime:       show.DoorsTime,
		VenueName:       show.VenueName,
		VenueAddress:    show.VenueAddress,
		VenueCity:       show.VenueCity,
		VenueState:      show.VenueState,
		VenueNotes:      show.VenueNotes,
		TicketCount:     booking.TicketCount,
		TotalDisplay:    formatCents(booking.TotalCents),
		TicketCode:      booking.TicketCode,
	}
	if publicBaseURL != "" {
		msg.TicketURL = fmt.Sprintf("%s/api/v1/tickets/%s/pdf", publicBaseURL, booking.TicketCode)
	}
	return msg, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// ConfirmationRetry is the Kafka message queued when a confirmation channel
// fails. The consumer redelivers only the failed channels.
type ConfirmationRetry struct {
	BookingID  uuid.UUID `json:"booking_id"`
	RetryEmail bool      `json:"retry_email"`
	RetrySMS   bool      `json:"retry_sms"`
	Attempt    int       `json:"attempt"`
	QueuedAt   time.Time `json:"queued_at"`
}

// ToJSON serializes the retry message for the Kafka payload
func (r *ConfirmationRetry) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
