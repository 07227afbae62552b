package notifications

import (
	"context"

	"stagedoor/internal/bookings"
	"stagedoor/pkg/logger"
)

// Dispatcher fans a booking confirmation out to the guest's requested
// channels. It implements bookings.Notifier. Channel failures are
// independent: an email failure never blocks the SMS and vice versa.
type Dispatcher struct {
	email         EmailSender
	sms           SMSSender
	publicBaseURL string
	log           *logger.Logger
}

func NewDispatcher(email EmailSender, sms SMSSender, publicBaseURL string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		email:         email,
		sms:           sms,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

func (d *Dispatcher) SendConfirmation(ctx context.Context, booking *bookings.Booking) bookings.NotificationOutcome {
	// Channels the guest did not request count as delivered
	outcome := bookings.NotificationOutcome{Email: true, SMS: true}

	msg, err := NewConfirmationMessage(booking, d.publicBaseURL)
	if err != nil {
		d.log.WithError(err).Error("cannot build confirmation message", "booking_id", booking.ID.String())
		return bookings.NotificationOutcome{}
	}

	if booking.ContactPreference.WantsEmail() {
		outcome.Email = d.sendEmail(ctx, booking, msg)
	}
	if booking.ContactPreference.WantsSMS() {
		outcome.SMS = d.sendSMS(ctx, booking, msg)
	}

	return outcome
}

func (d *Dispatcher) sendEmail(ctx context.Context, booking *bookings.Booking, msg *ConfirmationMessage) bool {
	if d.email == nil {
		d.log.Warn("email sender not configured", "booking_id", booking.ID.String())
		return false
	}
	if err := d.email.SendConfirmation(ctx, msg); err != nil {
		d.log.WithError(err).Error("confirmation email failed",
			"booking_id", booking.ID.String(),
			"channel", "email",
		)
		return false
	}
	return true
}

func (d *Dispatcher) sendSMS(ctx context.Context, booking *bookings.Booking, msg *ConfirmationMessage) bool {
	if d.sms == nil {
		d.log.Warn("sms sender not configured", "booking_id", booking.ID.String())
		return false
	}
	if err := d.sms.SendConfirmation(ctx, msg); err != nil {
		d.log.WithError(err).Error("confirmation sms failed",
			"booking_id", booking.ID.String(),
			"channel", "sms",
		)
		return false
	}
	return true
}
