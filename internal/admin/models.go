package admin

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// LoginRequest is the admin password login payload
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SessionClaims are the JWT claims on an admin session token
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ShowStats is one upcoming show enriched with booking aggregates
type ShowStats struct {
	ID              uuid.UUID `json:"id"`
	ExperienceTitle string    `json:"experience_title"`
	ExperienceSlug  string    `json:"experience_slug"`
	ShowDate        string    `json:"show_date"`
	ShowTime        string    `json:"show_time"`
	VenueName       string    `json:"venue_name"`
	Status          string    `json:"status"`
	AvailableSeats  int       `json:"available_seats"`
	TicketsSold     int64     `json:"tickets_sold"`
	RevenueCents    int64     `json:"revenue_cents"`
}

// RecentBooking is one row of the recent-bookings feed
type RecentBooking struct {
	ID              uuid.UUID `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email,omitempty"`
	TicketCount     int       `json:"ticket_count"`
	TotalCents      int64     `json:"total_cents"`
	PaymentStatus   string    `json:"payment_status"`
	TicketCode      string    `json:"ticket_code"`
	ExperienceTitle string    `json:"experience_title"`
	ShowDate        string    `json:"show_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// StatsResponse is the admin dashboard payload. Refunded bookings are
// excluded from the revenue and ticket totals.
type StatsResponse struct {
	TotalBookings     int64           `json:"total_bookings"`
	TotalRevenueCents int64           `json:"total_revenue_cents"`
	TotalTickets      int64           `json:"total_tickets"`
	UpcomingShows     int64           `json:"upcoming_shows"`
	Shows             []ShowStats     `json:"shows"`
	RecentBookings    []RecentBooking `json:"recent_bookings"`
}

// GuestEntry is one row of a show's door list
type GuestEntry struct {
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	TicketCount   int       `json:"ticket_count"`
	TicketCode    string    `json:"ticket_code"`
	BookedAt      time.Time `json:"booked_at"`
}

// GuestListResponse is the door list for one show
type GuestListResponse struct {
	ShowID       uuid.UUID    `json:"show_id"`
	ShowDate     string       `json:"show_date"`
	ShowTime     string       `json:"show_time"`
	VenueName    string       `json:"venue_name"`
	TotalGuests  int          `json:"total_guests"`
	TotalTickets int          `json:"total_tickets"`
	Guests       []GuestEntry `json:"guests"`
}
