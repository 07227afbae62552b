package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"stagedoor/internal/bookings"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/constants"
	"stagedoor/internal/shows"
	"stagedoor/pkg/cache"
	"stagedoor/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong admin password
var ErrInvalidCredentials = errors.New("invalid credentials")

const recentBookingsLimit = 20

type Service interface {
	Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResponse, error)
	SetCacheService(cacheService cache.Service)
	GetStats(ctx context.Context) (*StatsResponse, error)
	GetGuestList(ctx context.Context, showID uuid.UUID) (*GuestListResponse, error)
}

type service struct {
	cfg          *config.Config
	repo         Repository
	showService  shows.Service
	bookingRepo  bookings.Repository
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(cfg *config.Config, repo Repository, showService shows.Service, bookingRepo bookings.Repository, log *logger.Logger) Service {
	return &service{
		cfg:         cfg,
		repo:        repo,
		showService: showService,
		bookingRepo: bookingRepo,
		log:         log,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// Login verifies the shared admin password and issues a session token
func (s *service) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResponse, error) {
	if !s.verifyPassword(req.Password) {
		s.log.LogAuthFailure(ctx, "wrong admin password", clientIP)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := SessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Admin.SessionTTL)),
			Issuer:    "stagedoor",
			Subject:   "admin",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Admin.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.cfg.Admin.SessionTTL.Seconds()),
	}, nil
}

func (s *service) verifyPassword(password string) bool {
	if s.cfg.Admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(password)) == nil
	}
	if s.cfg.Admin.Password != "" {
		return subtle.ConstantTimeCompare([]byte(s.cfg.Admin.Password), []byte(password)) == 1
	}
	return false
}

// GetStats builds the dashboard aggregates, cached briefly to keep repeated
// dashboard refreshes off the database.
func (s *service) GetStats(ctx context.Context) (*StatsResponse, error) {
	if s.cacheService != nil {
		var cached StatsResponse
		err := s.cacheService.GetOrSet(ctx, constants.AdminStatsKey(), s.cfg.Redis.StatsTTL,
			func() (interface{}, error) {
				return s.buildStats(ctx)
			}, &cached)
		if err == nil {
			return &cached, nil
		}
		s.log.WithError(err).Warn("stats cache unavailable, serving from database")
	}
	return s.buildStats(ctx)
}

func (s *service) buildStats(ctx context.Context) (*StatsResponse, error) {
	totalBookings, revenue, tickets, err := s.repo.GetOverallTotals(ctx)
	if err != nil {
		return nil, err
	}

	showStats, err := s.repo.GetUpcomingShowStats(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.GetRecentBookings(ctx, recentBookingsLimit)
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		TotalBookings:     totalBookings,
		TotalRevenueCents: revenue,
		TotalTickets:      tickets,
		UpcomingShows:     int64(len(showStats)),
		Shows:             showStats,
		RecentBookings:    recent,
	}, nil
}

// GetGuestList builds the door list for one show
func (s *service) GetGuestList(ctx context.Context, showID uuid.UUID) (*GuestListResponse, error) {
	show, err := s.showService.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	bookingRows, err := s.bookingRepo.ListByShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	guests := make([]GuestEntry, 0, len(bookingRows))
	totalTickets := 0
	for _, b := range bookingRows {
		guests = append(guests, GuestEntry{
			CustomerName:  b.CustomerName,
			CustomerEmail: b.CustomerEmail,
			CustomerPhone: b.CustomerPhone,
			TicketCount:   b.TicketCount,
			TicketCode:    b.TicketCode,
			BookedAt:      b.CreatedAt,
		})
		totalTickets += b.TicketCount
	}

	return &GuestListResponse{
		ShowID:       show.ID,
		ShowDate:     show.ShowDate.Format(time.DateOnly),
		ShowTime:     show.ShowTime,
		VenueName:    show.VenueName,
		TotalGuests:  len(guests),
		TotalTickets: totalTickets,
		Guests:       guests,
	}, nil
}
