package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"stagedoor/internal/experiences"
	"stagedoor/internal/shared/apperrors"
	"stagedoor/internal/shows"
	"stagedoor/pkg/cache"

	"github.com/google/uuid"
)

type fakeShowService struct {
	show     *shows.Show
	checkErr error
}

func (f *fakeShowService) SetCacheService(cache.Service, time.Duration) {}
func (f *fakeShowService) CreateShow(context.Context, shows.CreateShowRequest) (*shows.ShowResponse, error) {
	return nil, nil
}
func (f *fakeShowService) ListUpcoming(context.Context, shows.ListShowsQuery) (*shows.ListShowsResponse, error) {
	return nil, nil
}
func (f *fakeShowService) GetShow(context.Context, uuid.UUID) (*shows.Show, error) {
	return f.show, nil
}
func (f *fakeShowService) CheckAvailability(ctx context.Context, showID uuid.UUID, count int) (*shows.Show, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	return f.show, nil
}
func (f *fakeShowService) ReserveSeats(context.Context, uuid.UUID, int) error { return nil }
func (f *fakeShowService) ReleaseSeats(context.Context, uuid.UUID, int) error { return nil }
func (f *fakeShowService) InvalidateListings(context.Context)                 {}

type fakeProvider struct {
	lastParams IntentParams
	createErr  error
}

func (f *fakeProvider) CreateIntent(ctx context.Context, params IntentParams) (*IntentResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastParams = params
	return &IntentResult{ProviderRef: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (f *fakeProvider) VerifyEvent([]byte, string) (*PaymentEvent, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProvider) GetIntentMetadata(context.Context, string) (map[string]string, error) {
	return nil, apperrors.ErrNotFound
}

func testShow() *shows.Show {
	return &shows.Show{
		ID:             uuid.New(),
		AvailableSeats: 10,
		Status:         shows.StatusScheduled,
		Experience: &experiences.Experience{
			ID:         uuid.New(),
			Slug:       "secret-ballads",
			Title:      "Secret Ballads",
			PriceCents: 7500,
		},
	}
}

func validRequest(show *shows.Show) CreateAuthorizationRequest {
	return CreateAuthorizationRequest{
		ShowID:            show.ID.String(),
		ExperienceSlug:    "secret-ballads",
		CustomerName:      "Dana Whitfield",
		CustomerEmail:     "dana@example.com",
		ContactPreference: "email",
		TicketCount:       2,
		UnitPriceCents:    7500,
	}
}

func TestCreateAuthorization(t *testing.T) {
	show := testShow()
	provider := &fakeProvider{}
	svc := NewService(provider, &fakeShowService{show: show})

	result, err := svc.CreateAuthorization(context.Background(), validRequest(show))
	if err != nil {
		t.Fatalf("CreateAuthorization: %v", err)
	}

	if result.TotalCents != 15000 {
		t.Errorf("TotalCents = %d, want 15000", result.TotalCents)
	}
	if result.ClientSecret != "pi_test_secret" {
		t.Errorf("ClientSecret = %q", result.ClientSecret)
	}

	params := provider.lastParams
	if params.AmountCents != 15000 {
		t.Errorf("intent amount = %d, want 15000", params.AmountCents)
	}
	for _, key := range []string{MetaShowID, MetaExperienceSlug, MetaCustomerName, MetaTicketCount, MetaTotalCents, MetaContactPreference} {
		if params.Metadata[key] == "" {
			t.Errorf("metadata missing %q", key)
		}
	}
	if params.Metadata[MetaTotalCents] != "15000" {
		t.Errorf("metadata total = %q, want 15000", params.Metadata[MetaTotalCents])
	}
}

func TestCreateAuthorizationRejectsStalePrice(t *testing.T) {
	show := testShow()
	svc := NewService(&fakeProvider{}, &fakeShowService{show: show})

	req := validRequest(show)
	req.UnitPriceCents = 6000

	_, err := svc.CreateAuthorization(context.Background(), req)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation for stale price, got %v", err)
	}
}

func TestCreateAuthorizationRejectsSlugMismatch(t *testing.T) {
	show := testShow()
	svc := NewService(&fakeProvider{}, &fakeShowService{show: show})

	req := validRequest(show)
	req.ExperienceSlug = "heart-of-harry"

	_, err := svc.CreateAuthorization(context.Background(), req)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation for slug mismatch, got %v", err)
	}
}

func TestCreateAuthorizationPropagatesAvailability(t *testing.T) {
	svc := NewService(&fakeProvider{}, &fakeShowService{checkErr: apperrors.ErrInsufficientInventory})

	req := validRequest(testShow())
	_, err := svc.CreateAuthorization(context.Background(), req)
	if !errors.Is(err, apperrors.ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
}

func TestCreateAuthorizationInvalidShowID(t *testing.T) {
	svc := NewService(&fakeProvider{}, &fakeShowService{show: testShow()})

	req := validRequest(testShow())
	req.ShowID = "not-a-uuid"

	_, err := svc.CreateAuthorization(context.Background(), req)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
