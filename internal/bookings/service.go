package bookings

import (
	"context"
	"errors"
	"fmt"

	"stagedoor/internal/payments"
	"stagedoor/internal/shared/apperrors"
	"stagedoor/internal/shows"
	"stagedoor/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ticketCodeRetries bounds the retry loop on ticket code collisions. The code
// space is 32^8 so even one collision is rare.
const ticketCodeRetries = 3

// NotificationOutcome reports per-channel delivery results. Channels the
// guest did not request count as successful.
type NotificationOutcome struct {
	Email bool
	SMS   bool
}

// Notifier delivers booking confirmations over the guest's requested
// channels. Implementations must not fail the booking; they report the
// outcome and the caller decides what to retry.
type Notifier interface {
	SendConfirmation(ctx context.Context, booking *Booking) NotificationOutcome
}

// RetryPublisher queues failed confirmation deliveries for out-of-band retry
type RetryPublisher interface {
	PublishConfirmationRetry(ctx context.Context, bookingID uuid.UUID, email, sms bool) error
}

// Service reconciles verified payment events into bookings and serves
// post-checkout lookups. It implements payments.Reconciler.
type Service interface {
	payments.Reconciler
	SetNotifier(notifier Notifier)
	SetRetryPublisher(retries RetryPublisher)
	ConfirmLookup(ctx context.Context, paymentRef string) (*ConfirmationResponse, error)
	GetByTicketCode(ctx context.Context, ticketCode string) (*Booking, error)
}

type service struct {
	repo        Repository
	showService shows.Service
	provider    payments.Provider
	notifier    Notifier
	retries     RetryPublisher
	log         *logger.Logger
}

func NewService(repo Repository, showService shows.Service, provider payments.Provider, log *logger.Logger) Service {
	return &service{
		repo:        repo,
		showService: showService,
		provider:    provider,
		log:         log,
	}
}

// SetNotifier wires the confirmation dispatcher. Optional; without it
// bookings are still created, just never notified.
func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// SetRetryPublisher wires the out-of-band confirmation retry queue
func (s *service) SetRetryPublisher(retries RetryPublisher) {
	s.retries = retries
}

// HandlePaymentSucceeded materializes a booking from a verified
// successful-payment event. Replayed events for the same payment reference
// are acknowledged without side effects.
func (s *service) HandlePaymentSucceeded(ctx context.Context, event *payments.PaymentEvent) error {
	meta, err := payments.ParseBookingMetadata(event.Metadata)
	if err != nil {
		return err
	}

	showID, err := uuid.Parse(meta.ShowID)
	if err != nil {
		return fmt.Errorf("metadata show_id %q is not a uuid: %w", meta.ShowID, apperrors.ErrMalformedEvent)
	}

	if _, err := s.repo.GetByPaymentRef(ctx, event.PaymentRef); err == nil {
		s.log.LogDuplicateWebhook(ctx, string(event.Kind), event.PaymentRef)
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	booking, err := s.createBooking(ctx, showID, event.PaymentRef, meta)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicatePayment):
			s.log.LogDuplicateWebhook(ctx, string(event.Kind), event.PaymentRef)
			return nil
		case errors.Is(err, apperrors.ErrInsufficientInventory), errors.Is(err, apperrors.ErrNotFound):
			// Payment captured but seats are gone. Never booked, never
			// auto-refunded; an operator resolves it.
			s.log.LogSeatReservationConflict(ctx, showID.String(), event.PaymentRef, meta.TicketCount)
			return nil
		default:
			return err
		}
	}

	s.log.LogBookingConfirmed(ctx, booking.ID.String(), showID.String(), event.PaymentRef, booking.TicketCount)
	s.showService.InvalidateListings(ctx)

	s.dispatchConfirmation(ctx, booking.ID)
	return nil
}

func (s *service) createBooking(ctx context.Context, showID uuid.UUID, paymentRef string, meta *payments.BookingMetadata) (*Booking, error) {
	contactPreference := ContactPreference(meta.ContactPreference)
	if !contactPreference.IsValid() {
		contactPreference = ContactBoth
	}

	for attempt := 0; attempt < ticketCodeRetries; attempt++ {
		code, err := GenerateTicketCode()
		if err != nil {
			return nil, err
		}

		booking := &Booking{
			ShowID:            showID,
			CustomerName:      meta.CustomerName,
			CustomerEmail:     meta.CustomerEmail,
			CustomerPhone:     meta.CustomerPhone,
			ContactPreference: contactPreference,
			TicketCount:       meta.TicketCount,
			TotalCents:        meta.TotalCents,
			PaymentRef:        paymentRef,
			PaymentStatus:     PaymentStatusSucceeded,
			TicketCode:        code,
		}

		err = s.repo.CreateWithReservation(ctx, booking)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		// Unique violation: either a concurrent delivery of the same payment
		// won the race, or the ticket code collided. Re-check, then retry
		// with a fresh code.
		if _, lookupErr := s.repo.GetByPaymentRef(ctx, paymentRef); lookupErr == nil {
			return nil, ErrDuplicatePayment
		}
	}

	return nil, fmt.Errorf("could not allocate unique ticket code after %d attempts", ticketCodeRetries)
}

// HandlePaymentRefunded marks the booking refunded and restores its seats.
// Refunds for unknown payments and repeat deliveries are no-ops.
func (s *service) HandlePaymentRefunded(ctx context.Context, event *payments.PaymentEvent) error {
	booking, err := s.repo.RefundWithRelease(ctx, event.PaymentRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.log.LogDuplicateWebhook(ctx, string(event.Kind), event.PaymentRef)
			return nil
		}
		return err
	}

	s.log.LogBookingRefunded(ctx, booking.ID.String(), event.PaymentRef, booking.TicketCount)
	s.showService.InvalidateListings(ctx)
	return nil
}

// dispatchConfirmation sends the confirmation over the requested channels.
// Delivery failure never surfaces as a webhook error; failed channels are
// queued for out-of-band retry.
func (s *service) dispatchConfirmation(ctx context.Context, bookingID uuid.UUID) {
	if s.notifier == nil {
		return
	}

	// Reload with show and experience for the message content
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		s.log.WithError(err).Error("failed to load booking for confirmation", "booking_id", bookingID.String())
		return
	}

	outcome := s.notifier.SendConfirmation(ctx, booking)
	s.log.LogNotificationOutcome(ctx, booking.ID.String(), outcome.Email, outcome.SMS)

	emailFailed := booking.ContactPreference.WantsEmail() && !outcome.Email
	smsFailed := booking.ContactPreference.WantsSMS() && !outcome.SMS

	if !emailFailed && !smsFailed {
		if err := s.repo.MarkConfirmationSent(ctx, booking.ID); err != nil {
			s.log.WithError(err).Error("failed to mark confirmation sent", "booking_id", booking.ID.String())
		}
		return
	}

	if s.retries != nil {
		if err := s.retries.PublishConfirmationRetry(ctx, booking.ID, emailFailed, smsFailed); err != nil {
			s.log.WithError(err).Error("failed to queue confirmation retry", "booking_id", booking.ID.String())
		}
	}
}

// ConfirmLookup serves the post-checkout confirmation page. When the webhook
// has not landed yet it falls back to the provider's intent metadata and
// reports the booking as pending.
func (s *service) ConfirmLookup(ctx context.Context, paymentRef string) (*ConfirmationResponse, error) {
	booking, err := s.repo.GetByPaymentRef(ctx, paymentRef)
	if err == nil {
		full, loadErr := s.repo.GetByID(ctx, booking.ID)
		if loadErr != nil {
			return nil, loadErr
		}
		return full.ToConfirmationResponse(), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	metaMap, err := s.provider.GetIntentMetadata(ctx, paymentRef)
	if err != nil {
		return nil, err
	}
	meta, err := payments.ParseBookingMetadata(metaMap)
	if err != nil {
		return nil, fmt.Errorf("payment %s carries no booking details: %w", paymentRef, apperrors.ErrNotFound)
	}

	return pendingConfirmation(meta), nil
}

func (s *service) GetByTicketCode(ctx context.Context, ticketCode string) (*Booking, error) {
	return s.repo.GetByTicketCode(ctx, ticketCode)
}
