package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, show *Show) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	ListUpcoming(ctx context.Context, experienceID *uuid.UUID, includeSoldOut bool) ([]Show, error)

	// Seat inventory primitives. Both operate through conditional updates,
	// never read-then-write.
	ReserveSeats(ctx context.Context, showID uuid.UUID, count int) error
	ReleaseSeats(ctx context.Context, showID uuid.UUID, count int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, show *Show) error {
	return r.db.WithContext(ctx).Create(show).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).
		Preload("Experience").
		Where("id = ?", id).
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("show %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) ListUpcoming(ctx context.Context, experienceID *uuid.UUID, includeSoldOut bool) ([]Show, error) {
	var list []Show

	statuses := []Status{StatusScheduled}
	if includeSoldOut {
		statuses = append(statuses, StatusSoldOut)
	}

	query := r.db.WithContext(ctx).
		Preload("Experience").
		Where("status IN ?", statuses).
		Where("show_date >= ?", time.Now().Format("2006-01-02"))

	if experienceID != nil {
		query = query.Where("experience_id = ?", *experienceID)
	}

	err := query.
		Order("show_date ASC").
		Order("show_time ASC").
		Find(&list).Error

	return list, err
}

func (r *repository) ReserveSeats(ctx context.Context, showID uuid.UUID, count int) error {
	return ReserveSeatsTx(r.db.WithContext(ctx), showID, count)
}

func (r *repository) ReleaseSeats(ctx context.Context, showID uuid.UUID, count int) error {
	return ReleaseSeatsTx(r.db.WithContext(ctx), showID, count)
}

// ReserveSeatsTx atomically decrements available_seats by count, guarded by
// "available_seats >= count" in the UPDATE itself so two concurrent
// reservations for the last seats cannot both succeed. Runs against tx so the
// reconciler can bundle it with the booking insert.
func ReserveSeatsTx(tx *gorm.DB, showID uuid.UUID, count int) error {
	if count <= 0 {
		return fmt.Errorf("ticket count must be positive: %w", apperrors.ErrValidation)
	}

	result := tx.Model(&Show{}).
		Where("id = ? AND status <> ? AND available_seats >= ?", showID, StatusCancelled, count).
		Updates(map[string]interface{}{
			"available_seats": gorm.Expr("available_seats - ?", count),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reserve seats: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// The guard rejected the update; find out why
		var show Show
		err := tx.Select("id", "status", "available_seats").Where("id = ?", showID).First(&show).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("show %s: %w", showID, apperrors.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to inspect show after rejected reservation: %w", err)
		}
		if show.Status == StatusCancelled {
			return fmt.Errorf("show %s is cancelled: %w", showID, apperrors.ErrInsufficientInventory)
		}
		return fmt.Errorf("requested %d seats, %d available: %w", count, show.AvailableSeats, apperrors.ErrInsufficientInventory)
	}

	// Flip to sold_out when the decrement drained the inventory
	return tx.Model(&Show{}).
		Where("id = ? AND available_seats = 0 AND status = ?", showID, StatusScheduled).
		Update("status", StatusSoldOut).Error
}

// ReleaseSeatsTx unconditionally restores count seats and reverts a sold_out
// show to scheduled. Idempotency is the caller's responsibility.
func ReleaseSeatsTx(tx *gorm.DB, showID uuid.UUID, count int) error {
	if count <= 0 {
		return fmt.Errorf("ticket count must be positive: %w", apperrors.ErrValidation)
	}

	result := tx.Model(&Show{}).
		Where("id = ?", showID).
		Updates(map[string]interface{}{
			"available_seats": gorm.Expr("available_seats + ?", count),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to release seats: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("show %s: %w", showID, apperrors.ErrNotFound)
	}

	return tx.Model(&Show{}).
		Where("id = ? AND status = ?", showID, StatusSoldOut).
		Update("status", StatusScheduled).Error
}
