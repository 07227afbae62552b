package shows

import (
	"time"

	"stagedoor/internal/experiences"

	"github.com/google/uuid"
)

// Show is a scheduled, bookable instance of an experience with its own seat
// inventory. Shows are never deleted once bookings reference them.
type Show struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExperienceID uuid.UUID `gorm:"type:uuid;index;not null" json:"experience_id"`

	ShowDate  time.Time `gorm:"type:date;not null;index" json:"show_date"`
	ShowTime  string    `gorm:"size:10;not null" json:"show_time"`
	DoorsTime string    `gorm:"size:10" json:"doors_time,omitempty"`

	VenueName    string `gorm:"not null;size:255" json:"venue_name"`
	VenueAddress string `gorm:"size:255" json:"venue_address,omitempty"`
	VenueCity    string `gorm:"size:100;default:'New York'" json:"venue_city"`
	VenueState   string `gorm:"size:50;default:'NY'" json:"venue_state"`
	VenueNotes   string `gorm:"type:text" json:"venue_notes,omitempty"`

	// PriceCents overrides the experience base price when set
	PriceCents *int64 `gorm:"check:price_cents >= 0" json:"price_cents,omitempty"`

	AvailableSeats int    `gorm:"not null;check:available_seats >= 0" json:"available_seats"`
	Status         Status `gorm:"type:varchar(20);default:'scheduled';check:status IN ('scheduled', 'sold_out', 'cancelled')" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Experience *experiences.Experience `json:"experience,omitempty" gorm:"foreignKey:ExperienceID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Show
func (Show) TableName() string {
	return "shows"
}

// EffectivePriceCents returns the per-ticket price, falling back to the
// experience base price when no override is set.
func (s *Show) EffectivePriceCents() int64 {
	if s.PriceCents != nil {
		return *s.PriceCents
	}
	if s.Experience != nil {
		return s.Experience.PriceCents
	}
	return 0
}

// IsSoldOut reports whether the show has no seats left
func (s *Show) IsSoldOut() bool {
	return s.Status == StatusSoldOut || s.AvailableSeats == 0
}
