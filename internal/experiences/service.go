package experiences

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	ListCatalog(ctx context.Context) ([]ExperienceResponse, error)
	GetBySlug(ctx context.Context, slug string) (*Experience, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Experience, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListCatalog(ctx context.Context) ([]ExperienceResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ExperienceResponse, 0, len(list))
	for i := range list {
		responses = append(responses, list[i].ToResponse())
	}
	return responses, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Experience, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Experience, error) {
	return s.repo.GetByID(ctx, id)
}
