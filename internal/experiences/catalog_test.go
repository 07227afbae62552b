package experiences

import (
	"context"
	"testing"

	"stagedoor/internal/shared/apperrors"

	"github.com/google/uuid"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) != 4 {
		t.Fatalf("catalog size = %d, want 4", len(catalog))
	}

	wantPrices := map[string]int64{
		"secret-ballads":            7500,
		"everybody-knows-this-song": 6000,
		"heart-of-harry":            6500,
		"private-concerts":          25000,
	}

	seen := make(map[string]bool)
	for _, exp := range catalog {
		if seen[exp.Slug] {
			t.Errorf("duplicate slug %q", exp.Slug)
		}
		seen[exp.Slug] = true

		want, ok := wantPrices[exp.Slug]
		if !ok {
			t.Errorf("unexpected slug %q", exp.Slug)
			continue
		}
		if exp.PriceCents != want {
			t.Errorf("%s price = %d, want %d", exp.Slug, exp.PriceCents, want)
		}
		if exp.Title == "" || exp.Description == "" || exp.ImageURL == "" {
			t.Errorf("%s has empty display fields", exp.Slug)
		}
	}
}

type fakeRepository struct {
	items []Experience
}

func (r *fakeRepository) Create(ctx context.Context, exp *Experience) error {
	exp.ID = uuid.New()
	r.items = append(r.items, *exp)
	return nil
}

func (r *fakeRepository) List(ctx context.Context) ([]Experience, error) {
	return r.items, nil
}

func (r *fakeRepository) GetBySlug(ctx context.Context, slug string) (*Experience, error) {
	for i := range r.items {
		if r.items[i].Slug == slug {
			return &r.items[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Experience, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func TestListCatalogMapsResponses(t *testing.T) {
	repo := &fakeRepository{}
	for _, exp := range DefaultCatalog() {
		e := exp
		if err := repo.Create(context.Background(), &e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewService(repo)
	list, err := svc.ListCatalog(context.Background())
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("len = %d, want 4", len(list))
	}
	for _, resp := range list {
		if resp.Slug == "" || resp.Title == "" {
			t.Errorf("response missing slug or title: %+v", resp)
		}
	}
}
