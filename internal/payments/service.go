package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stagedoor/internal/shared/apperrors"
	"stagedoor/internal/shows"

	"github.com/google/uuid"
)

// Service creates provider-side payment authorizations. It never reserves
// seats or creates bookings; reservation happens only once the provider
// confirms the payment, so abandoned checkouts never hold inventory.
type Service interface {
	CreateAuthorization(ctx context.Context, req CreateAuthorizationRequest) (*AuthorizationResponse, error)
}

type service struct {
	provider        Provider
	showService     shows.Service
	upstreamTimeout time.Duration
}

func NewService(provider Provider, showService shows.Service) Service {
	return &service{
		provider:        provider,
		showService:     showService,
		upstreamTimeout: 10 * time.Second,
	}
}

func (s *service) CreateAuthorization(ctx context.Context, req CreateAuthorizationRequest) (*AuthorizationResponse, error) {
	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("invalid show id %q: %w", req.ShowID, apperrors.ErrValidation)
	}

	// Read-only availability pre-check; the authoritative reservation
	// happens in the webhook reconciler.
	show, err := s.showService.CheckAvailability(ctx, showID, req.TicketCount)
	if err != nil {
		return nil, err
	}

	if show.Experience == nil || show.Experience.Slug != req.ExperienceSlug {
		return nil, fmt.Errorf("experience slug %q does not match show: %w", req.ExperienceSlug, apperrors.ErrValidation)
	}

	// Never trust the client-quoted price
	unitPrice := show.EffectivePriceCents()
	if req.UnitPriceCents != unitPrice {
		return nil, fmt.Errorf("quoted price %d does not match current price %d: %w",
			req.UnitPriceCents, unitPrice, apperrors.ErrValidation)
	}

	contactPreference := req.ContactPreference
	if contactPreference == "" {
		contactPreference = "both"
	}

	totalCents := unitPrice * int64(req.TicketCount)

	description := fmt.Sprintf("%s - %d ticket", show.Experience.Title, req.TicketCount)
	if req.TicketCount > 1 {
		description += "s"
	}

	callCtx, cancel := context.WithTimeout(ctx, s.upstreamTimeout)
	defer cancel()

	result, err := s.provider.CreateIntent(callCtx, IntentParams{
		AmountCents:  totalCents,
		Currency:     "usd",
		Description:  description,
		ReceiptEmail: req.CustomerEmail,
		Metadata: map[string]string{
			MetaShowID:            show.ID.String(),
			MetaExperienceSlug:    show.Experience.Slug,
			MetaCustomerName:      req.CustomerName,
			MetaCustomerEmail:     req.CustomerEmail,
			MetaCustomerPhone:     req.CustomerPhone,
			MetaContactPreference: contactPreference,
			MetaTicketCount:       strconv.Itoa(req.TicketCount),
			MetaTotalCents:        strconv.FormatInt(totalCents, 10),
		},
	})
	if err != nil {
		return nil, err
	}

	return &AuthorizationResponse{
		ClientSecret:      result.ClientSecret,
		ExternalReference: result.ProviderRef,
		TotalCents:        totalCents,
	}, nil
}
