package experiences

import (
	"context"
	"errors"
	"fmt"

	"stagedoor/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetBySlug(ctx context.Context, slug string) (*Experience, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Experience, error)
	List(ctx context.Context) ([]Experience, error)
	Create(ctx context.Context, experience *Experience) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Experience, error) {
	var experience Experience
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&experience).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("experience %q: %w", slug, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &experience, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Experience, error) {
	var experience Experience
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&experience).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("experience %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &experience, nil
}

func (r *repository) List(ctx context.Context) ([]Experience, error) {
	var list []Experience
	err := r.db.WithContext(ctx).Order("title ASC").Find(&list).Error
	return list, err
}

func (r *repository) Create(ctx context.Context, experience *Experience) error {
	return r.db.WithContext(ctx).Create(experience).Error
}
