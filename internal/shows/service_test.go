package shows

import (
	"context"
	"errors"
	"sync"
	"testing"

	"stagedoor/internal/experiences"
	"stagedoor/internal/shared/apperrors"

	"github.com/google/uuid"
)

type fakeRepository struct {
	mu    sync.Mutex
	shows map[uuid.UUID]*Show
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{shows: make(map[uuid.UUID]*Show)}
}

func (r *fakeRepository) add(show *Show) *Show {
	r.mu.Lock()
	defer r.mu.Unlock()
	if show.ID == uuid.Nil {
		show.ID = uuid.New()
	}
	r.shows[show.ID] = show
	return show
}

func (r *fakeRepository) Create(ctx context.Context, show *Show) error {
	r.add(show)
	return nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	show, ok := r.shows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *show
	return &copied, nil
}

func (r *fakeRepository) ListUpcoming(ctx context.Context, experienceID *uuid.UUID, includeSoldOut bool) ([]Show, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []Show
	for _, show := range r.shows {
		if experienceID != nil && show.ExperienceID != *experienceID {
			continue
		}
		if !includeSoldOut && show.Status == StatusSoldOut {
			continue
		}
		list = append(list, *show)
	}
	return list, nil
}

func (r *fakeRepository) ReserveSeats(ctx context.Context, showID uuid.UUID, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	show, ok := r.shows[showID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if show.Status == StatusCancelled || show.AvailableSeats < count {
		return apperrors.ErrInsufficientInventory
	}
	show.AvailableSeats -= count
	if show.AvailableSeats == 0 {
		show.Status = StatusSoldOut
	}
	return nil
}

func (r *fakeRepository) ReleaseSeats(ctx context.Context, showID uuid.UUID, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	show, ok := r.shows[showID]
	if !ok {
		return apperrors.ErrNotFound
	}
	show.AvailableSeats += count
	if show.Status == StatusSoldOut {
		show.Status = StatusScheduled
	}
	return nil
}

type fakeCatalog struct {
	experiences map[string]*experiences.Experience
}

func (c *fakeCatalog) GetBySlug(ctx context.Context, slug string) (*experiences.Experience, error) {
	experience, ok := c.experiences[slug]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return experience, nil
}

func newTestCatalog() *fakeCatalog {
	return &fakeCatalog{experiences: map[string]*experiences.Experience{
		"secret-ballads": {
			ID:         uuid.New(),
			Slug:       "secret-ballads",
			Title:      "Secret Ballads",
			PriceCents: 7500,
		},
	}}
}

func TestCreateShowDefaultsAndSlugValidation(t *testing.T) {
	repo := newFakeRepository()
	catalog := newTestCatalog()
	svc := NewService(repo, catalog)

	t.Run("unknown slug rejected", func(t *testing.T) {
		_, err := svc.CreateShow(context.Background(), CreateShowRequest{
			ExperienceSlug: "not-a-show",
			ShowDate:       "2026-10-01",
			ShowTime:       "8:00 PM",
			VenueName:      "The Parlor Room",
			AvailableSeats: 40,
		})
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("city and state default", func(t *testing.T) {
		resp, err := svc.CreateShow(context.Background(), CreateShowRequest{
			ExperienceSlug: "secret-ballads",
			ShowDate:       "2026-10-01",
			ShowTime:       "8:00 PM",
			VenueName:      "The Parlor Room",
			AvailableSeats: 40,
		})
		if err != nil {
			t.Fatalf("CreateShow: %v", err)
		}
		if resp.VenueCity != "New York" || resp.VenueState != "NY" {
			t.Errorf("expected default venue city/state, got %s/%s", resp.VenueCity, resp.VenueState)
		}
		if resp.Status != StatusScheduled.String() {
			t.Errorf("expected scheduled status, got %s", resp.Status)
		}
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		_, err := svc.CreateShow(context.Background(), CreateShowRequest{
			ExperienceSlug: "secret-ballads",
			ShowDate:       "October 1st",
			ShowTime:       "8:00 PM",
			VenueName:      "The Parlor Room",
			AvailableSeats: 40,
		})
		if err == nil {
			t.Fatal("expected error for unparsable date")
		}
	})
}

func TestCheckAvailability(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, newTestCatalog())

	scheduled := repo.add(&Show{AvailableSeats: 5, Status: StatusScheduled})
	soldOut := repo.add(&Show{AvailableSeats: 0, Status: StatusSoldOut})
	cancelled := repo.add(&Show{AvailableSeats: 20, Status: StatusCancelled})

	tests := []struct {
		name    string
		showID  uuid.UUID
		count   int
		wantErr error
	}{
		{"seats available", scheduled.ID, 5, nil},
		{"not enough seats", scheduled.ID, 6, apperrors.ErrInsufficientInventory},
		{"sold out", soldOut.ID, 1, apperrors.ErrInsufficientInventory},
		{"cancelled show not bookable", cancelled.ID, 1, apperrors.ErrInsufficientInventory},
		{"unknown show", uuid.New(), 1, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CheckAvailability(context.Background(), tt.showID, tt.count)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckAvailabilityNeverReserves(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, newTestCatalog())
	show := repo.add(&Show{AvailableSeats: 5, Status: StatusScheduled})

	for i := 0; i < 3; i++ {
		if _, err := svc.CheckAvailability(context.Background(), show.ID, 5); err != nil {
			t.Fatalf("CheckAvailability: %v", err)
		}
	}

	got, _ := repo.GetByID(context.Background(), show.ID)
	if got.AvailableSeats != 5 {
		t.Errorf("availability check mutated inventory: %d seats left", got.AvailableSeats)
	}
}

func TestReserveAndReleaseRoundTrip(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, newTestCatalog())
	show := repo.add(&Show{AvailableSeats: 2, Status: StatusScheduled})

	if err := svc.ReserveSeats(context.Background(), show.ID, 2); err != nil {
		t.Fatalf("ReserveSeats: %v", err)
	}
	got, _ := repo.GetByID(context.Background(), show.ID)
	if got.Status != StatusSoldOut || got.AvailableSeats != 0 {
		t.Fatalf("expected sold_out with 0 seats, got %s with %d", got.Status, got.AvailableSeats)
	}

	if err := svc.ReserveSeats(context.Background(), show.ID, 1); !errors.Is(err, apperrors.ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory on sold-out show, got %v", err)
	}

	if err := svc.ReleaseSeats(context.Background(), show.ID, 2); err != nil {
		t.Fatalf("ReleaseSeats: %v", err)
	}
	got, _ = repo.GetByID(context.Background(), show.ID)
	if got.Status != StatusScheduled || got.AvailableSeats != 2 {
		t.Fatalf("expected scheduled with 2 seats after release, got %s with %d", got.Status, got.AvailableSeats)
	}
}
