package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/internal/shared/apperrors"
	"stagedoor/internal/shows"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicatePayment signals that a booking for the payment reference
// already exists. Replayed webhook deliveries hit this instead of creating a
// second booking.
var ErrDuplicatePayment = errors.New("booking already exists for payment reference")

type Repository interface {
	// CreateWithReservation decrements the show's seat inventory and inserts
	// the booking in one transaction. Either both happen or neither does.
	CreateWithReservation(ctx context.Context, booking *Booking) error
	// RefundWithRelease marks the booking refunded and restores its seats in
	// one transaction. Already-refunded bookings are left untouched.
	RefundWithRelease(ctx context.Context, paymentRef string) (*Booking, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (*Booking, error)
	GetByTicketCode(ctx context.Context, ticketCode string) (*Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListRecent(ctx context.Context, limit int) ([]Booking, error)
	ListByShow(ctx context.Context, showID uuid.UUID) ([]Booking, error)
	MarkConfirmationSent(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithReservation(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := shows.ReserveSeatsTx(tx, booking.ShowID, booking.TicketCount); err != nil {
			return err
		}
		if err := tx.Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Unique violation on payment_ref or ticket_code. The caller
				// distinguishes by re-checking the payment reference.
				return fmt.Errorf("booking insert conflict: %w", gorm.ErrDuplicatedKey)
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

func (r *repository) RefundWithRelease(ctx context.Context, paymentRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the row so concurrent refund deliveries cannot both release
		result := tx.Model(&Booking{}).
			Where("payment_ref = ? AND payment_status = ?", paymentRef, PaymentStatusSucceeded).
			Updates(map[string]interface{}{
				"payment_status": PaymentStatusRefunded,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark booking refunded: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Unknown payment ref or already refunded; both are no-ops
			return apperrors.ErrNotFound
		}

		if err := tx.Where("payment_ref = ?", paymentRef).First(&booking).Error; err != nil {
			return fmt.Errorf("failed to load refunded booking: %w", err)
		}

		return shows.ReleaseSeatsTx(tx, booking.ShowID, booking.TicketCount)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByPaymentRef(ctx context.Context, paymentRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("payment_ref = ?", paymentRef).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking by payment ref: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetByTicketCode(ctx context.Context, ticketCode string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Show").
		Preload("Show.Experience").
		Where("ticket_code = ?", ticketCode).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ticket code: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Show").
		Preload("Show.Experience").
		First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Show").
		Preload("Show.Experience").
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent bookings: %w", err)
	}
	return bookings, nil
}

func (r *repository) ListByShow(ctx context.Context, showID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("show_id = ? AND payment_status = ?", showID, PaymentStatusSucceeded).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for show: %w", err)
	}
	return bookings, nil
}

func (r *repository) MarkConfirmationSent(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"confirmation_sent": true,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark confirmation sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
