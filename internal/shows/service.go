package shows

import (
	"context"
	"fmt"
	"time"

	"stagedoor/internal/experiences"
	"stagedoor/internal/shared/apperrors"
	"stagedoor/internal/shared/constants"
	"stagedoor/pkg/cache"

	"github.com/google/uuid"
)

// ExperienceLookup is the slice of the experience catalog the show service
// needs (avoids depending on the full catalog service).
type ExperienceLookup interface {
	GetBySlug(ctx context.Context, slug string) (*experiences.Experience, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service, listTTL time.Duration)

	CreateShow(ctx context.Context, req CreateShowRequest) (*ShowResponse, error)
	ListUpcoming(ctx context.Context, query ListShowsQuery) (*ListShowsResponse, error)
	GetShow(ctx context.Context, id uuid.UUID) (*Show, error)

	// CheckAvailability is the read-only pre-check used before creating a
	// payment authorization. It never reserves.
	CheckAvailability(ctx context.Context, showID uuid.UUID, count int) (*Show, error)

	ReserveSeats(ctx context.Context, showID uuid.UUID, count int) error
	ReleaseSeats(ctx context.Context, showID uuid.UUID, count int) error

	// InvalidateListings drops cached listings after inventory mutations that
	// happen outside this service (the webhook reconciler).
	InvalidateListings(ctx context.Context)
}

type service struct {
	repo         Repository
	catalog      ExperienceLookup
	cacheService cache.Service
	listTTL      time.Duration
}

func NewService(repo Repository, catalog ExperienceLookup) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		listTTL: 5 * time.Minute,
	}
}

func (s *service) SetCacheService(cacheService cache.Service, listTTL time.Duration) {
	s.cacheService = cacheService
	if listTTL > 0 {
		s.listTTL = listTTL
	}
}

func (s *service) CreateShow(ctx context.Context, req CreateShowRequest) (*ShowResponse, error) {
	experience, err := s.catalog.GetBySlug(ctx, req.ExperienceSlug)
	if err != nil {
		return nil, err
	}

	showDate, err := time.Parse("2006-01-02", req.ShowDate)
	if err != nil {
		return nil, fmt.Errorf("invalid show date %q: %w", req.ShowDate, err)
	}

	show := &Show{
		ExperienceID:   experience.ID,
		ShowDate:       showDate,
		ShowTime:       req.ShowTime,
		DoorsTime:      req.DoorsTime,
		VenueName:      req.VenueName,
		VenueAddress:   req.VenueAddress,
		VenueCity:      req.VenueCity,
		VenueState:     req.VenueState,
		VenueNotes:     req.VenueNotes,
		PriceCents:     req.PriceCents,
		AvailableSeats: req.AvailableSeats,
		Status:         StatusScheduled,
	}
	if show.VenueCity == "" {
		show.VenueCity = "New York"
	}
	if show.VenueState == "" {
		show.VenueState = "NY"
	}

	if err := s.repo.Create(ctx, show); err != nil {
		return nil, fmt.Errorf("failed to create show: %w", err)
	}

	show.Experience = experience
	s.InvalidateListings(ctx)

	resp := show.ToResponse()
	return &resp, nil
}

func (s *service) ListUpcoming(ctx context.Context, query ListShowsQuery) (*ListShowsResponse, error) {
	var experienceID *uuid.UUID
	if query.Experience != "" {
		experience, err := s.catalog.GetBySlug(ctx, query.Experience)
		if err != nil {
			return nil, err
		}
		experienceID = &experience.ID
	}

	fetch := func() (*ListShowsResponse, error) {
		list, err := s.repo.ListUpcoming(ctx, experienceID, query.IncludeSoldOut)
		if err != nil {
			return nil, err
		}

		responses := make([]ShowResponse, 0, len(list))
		for i := range list {
			responses = append(responses, list[i].ToResponse())
		}
		return &ListShowsResponse{
			Experience: query.Experience,
			Shows:      responses,
			FetchedAt:  time.Now().UTC(),
		}, nil
	}

	// The sold-out variant is only used by the admin dashboard; cache just
	// the public listing.
	if s.cacheService == nil || query.IncludeSoldOut {
		return fetch()
	}

	key := constants.ShowListAllKey()
	if query.Experience != "" {
		key = constants.ShowListKey(query.Experience)
	}

	var cached ListShowsResponse
	err := s.cacheService.GetOrSet(ctx, key, s.listTTL, func() (interface{}, error) {
		return fetch()
	}, &cached)
	if err != nil {
		return nil, err
	}
	return &cached, nil
}

func (s *service) GetShow(ctx context.Context, id uuid.UUID) (*Show, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CheckAvailability(ctx context.Context, showID uuid.UUID, count int) (*Show, error) {
	show, err := s.repo.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}

	if !show.Status.IsBookable() || show.AvailableSeats < count {
		return nil, fmt.Errorf("requested %d seats, %d available: %w",
			count, show.AvailableSeats, apperrors.ErrInsufficientInventory)
	}

	return show, nil
}

func (s *service) ReserveSeats(ctx context.Context, showID uuid.UUID, count int) error {
	if err := s.repo.ReserveSeats(ctx, showID, count); err != nil {
		return err
	}
	s.InvalidateListings(ctx)
	return nil
}

func (s *service) ReleaseSeats(ctx context.Context, showID uuid.UUID, count int) error {
	if err := s.repo.ReleaseSeats(ctx, showID, count); err != nil {
		return err
	}
	s.InvalidateListings(ctx)
	return nil
}

func (s *service) InvalidateListings(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	// Listing caches are an optimization; ignore invalidation failures
	_ = s.cacheService.DeletePattern(ctx, constants.ShowCachePattern)
}
