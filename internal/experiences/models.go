package experiences

import (
	"time"

	"github.com/google/uuid"
)

// Experience is an immutable catalog entry for a bookable experience type.
// Seeded once by cmd/seed; read-only at runtime.
type Experience struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Subtitle    string    `gorm:"size:255" json:"subtitle"`
	Description string    `gorm:"type:text" json:"description"`
	PriceCents  int64     `gorm:"not null;check:price_cents >= 0" json:"price_cents"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName sets the table name for Experience
func (Experience) TableName() string {
	return "experiences"
}

type ExperienceResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
}

func (e *Experience) ToResponse() ExperienceResponse {
	return ExperienceResponse{
		ID:          e.ID.String(),
		Slug:        e.Slug,
		Title:       e.Title,
		Subtitle:    e.Subtitle,
		Description: e.Description,
		PriceCents:  e.PriceCents,
		ImageURL:    e.ImageURL,
	}
}
