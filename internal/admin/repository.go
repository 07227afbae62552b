package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetOverallTotals(ctx context.Context) (bookingsCount, revenueCents, tickets int64, err error)
	GetUpcomingShowStats(ctx context.Context) ([]ShowStats, error)
	GetRecentBookings(ctx context.Context, limit int) ([]RecentBooking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOverallTotals(ctx context.Context) (int64, int64, int64, error) {
	var bookingsCount int64
	err := r.db.WithContext(ctx).Table("bookings").
		Where("payment_status = ?", "succeeded").
		Count(&bookingsCount).Error
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var totals struct {
		Revenue int64
		Tickets int64
	}
	err = r.db.WithContext(ctx).Table("bookings").
		Select("COALESCE(SUM(total_cents), 0) as revenue, COALESCE(SUM(ticket_count), 0) as tickets").
		Where("payment_status = ?", "succeeded").
		Scan(&totals).Error
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to sum booking totals: %w", err)
	}

	return bookingsCount, totals.Revenue, totals.Tickets, nil
}

func (r *repository) GetUpcomingShowStats(ctx context.Context) ([]ShowStats, error) {
	type row struct {
		ID              string
		ExperienceTitle string
		ExperienceSlug  string
		ShowDate        time.Time
		ShowTime        string
		VenueName       string
		Status          string
		AvailableSeats  int
		TicketsSold     int64
		RevenueCents    int64
	}

	var rows []row
	err := r.db.WithContext(ctx).Table("shows s").
		Select(`s.id, e.title as experience_title, e.slug as experience_slug,
			s.show_date, s.show_time, s.venue_name, s.status, s.available_seats,
			COALESCE(SUM(b.ticket_count) FILTER (WHERE b.payment_status = 'succeeded'), 0) as tickets_sold,
			COALESCE(SUM(b.total_cents) FILTER (WHERE b.payment_status = 'succeeded'), 0) as revenue_cents`).
		Joins("JOIN experiences e ON e.id = s.experience_id").
		Joins("LEFT JOIN bookings b ON b.show_id = s.id").
		Where("s.show_date >= CURRENT_DATE AND s.status <> ?", "cancelled").
		Group("s.id, e.title, e.slug").
		Order("s.show_date ASC, s.show_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load show stats: %w", err)
	}

	stats := make([]ShowStats, 0, len(rows))
	for _, rw := range rows {
		stat := ShowStats{
			ExperienceTitle: rw.ExperienceTitle,
			ExperienceSlug:  rw.ExperienceSlug,
			ShowDate:        rw.ShowDate.Format(time.DateOnly),
			ShowTime:        rw.ShowTime,
			VenueName:       rw.VenueName,
			Status:          rw.Status,
			AvailableSeats:  rw.AvailableSeats,
			TicketsSold:     rw.TicketsSold,
			RevenueCents:    rw.RevenueCents,
		}
		if id, parseErr := uuid.Parse(rw.ID); parseErr == nil {
			stat.ID = id
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (r *repository) GetRecentBookings(ctx context.Context, limit int) ([]RecentBooking, error) {
	type row struct {
		ID              string
		CustomerName    string
		CustomerEmail   string
		TicketCount     int
		TotalCents      int64
		PaymentStatus   string
		TicketCode      string
		ExperienceTitle string
		ShowDate        time.Time
		CreatedAt       time.Time
	}

	var rows []row
	err := r.db.WithContext(ctx).Table("bookings b").
		Select(`b.id, b.customer_name, b.customer_email, b.ticket_count, b.total_cents,
			b.payment_status, b.ticket_code, e.title as experience_title,
			s.show_date, b.created_at`).
		Joins("JOIN shows s ON s.id = b.show_id").
		Joins("JOIN experiences e ON e.id = s.experience_id").
		Order("b.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent bookings: %w", err)
	}

	recent := make([]RecentBooking, 0, len(rows))
	for _, rw := range rows {
		booking := RecentBooking{
			CustomerName:    rw.CustomerName,
			CustomerEmail:   rw.CustomerEmail,
			TicketCount:     rw.TicketCount,
			TotalCents:      rw.TotalCents,
			PaymentStatus:   rw.PaymentStatus,
			TicketCode:      rw.TicketCode,
			ExperienceTitle: rw.ExperienceTitle,
			ShowDate:        rw.ShowDate.Format(time.DateOnly),
			CreatedAt:       rw.CreatedAt,
		}
		if id, parseErr := uuid.Parse(rw.ID); parseErr == nil {
			booking.ID = id
		}
		recent = append(recent, booking)
	}
	return recent, nil
}
