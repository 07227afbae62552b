package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"stagedoor/internal/shared/config"
	"stagedoor/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepository struct {
	bookings int64
	revenue  int64
	tickets  int64
	shows    []ShowStats
	recent   []RecentBooking
}

func (r *fakeRepository) GetOverallTotals(ctx context.Context) (int64, int64, int64, error) {
	return r.bookings, r.revenue, r.tickets, nil
}

func (r *fakeRepository) GetUpcomingShowStats(ctx context.Context) ([]ShowStats, error) {
	return r.shows, nil
}

func (r *fakeRepository) GetRecentBookings(ctx context.Context, limit int) ([]RecentBooking, error) {
	return r.recent, nil
}

func testConfig(password, hash string) *config.Config {
	return &config.Config{
		Admin: config.AdminConfig{
			Password:     password,
			PasswordHash: hash,
			JWTSecret:    "test-secret",
			SessionTTL:   time.Hour,
		},
	}
}

func TestLoginWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cfg := testConfig("", string(hash))
	svc := NewService(cfg, &fakeRepository{}, nil, nil, logger.GetDefault())

	t.Run("correct password issues admin token", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), LoginRequest{Password: "open-sesame"}, "127.0.0.1")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.ExpiresIn != 3600 {
			t.Errorf("ExpiresIn = %d, want 3600", resp.ExpiresIn)
		}

		claims := &SessionClaims{}
		token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.Admin.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			t.Fatalf("issued token does not validate: %v", err)
		}
		if claims.Role != "admin" {
			t.Errorf("Role = %q, want admin", claims.Role)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{Password: "guess"}, "127.0.0.1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestLoginPlaintextFallback(t *testing.T) {
	svc := NewService(testConfig("dev-password", ""), &fakeRepository{}, nil, nil, logger.GetDefault())

	if _, err := svc.Login(context.Background(), LoginRequest{Password: "dev-password"}, "127.0.0.1"); err != nil {
		t.Fatalf("Login with plaintext fallback: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Password: "wrong"}, "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWithNoPasswordConfigured(t *testing.T) {
	svc := NewService(testConfig("", ""), &fakeRepository{}, nil, nil, logger.GetDefault())

	// An empty configured password never matches, even an empty guess
	if _, err := svc.Login(context.Background(), LoginRequest{Password: ""}, "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGetStatsAssemblesTotals(t *testing.T) {
	repo := &fakeRepository{
		bookings: 42,
		revenue:  315000,
		tickets:  87,
		shows: []ShowStats{
			{ExperienceSlug: "secret-ballads", TicketsSold: 30},
			{ExperienceSlug: "heart-of-harry", TicketsSold: 12},
		},
		recent: []RecentBooking{{CustomerName: "Dana Whitfield"}},
	}
	svc := NewService(testConfig("x", ""), repo, nil, nil, logger.GetDefault())

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalBookings != 42 || stats.TotalRevenueCents != 315000 || stats.TotalTickets != 87 {
		t.Errorf("totals = %d/%d/%d", stats.TotalBookings, stats.TotalRevenueCents, stats.TotalTickets)
	}
	if stats.UpcomingShows != 2 {
		t.Errorf("UpcomingShows = %d, want 2", stats.UpcomingShows)
	}
	if len(stats.RecentBookings) != 1 {
		t.Errorf("RecentBookings = %d, want 1", len(stats.RecentBookings))
	}
}
