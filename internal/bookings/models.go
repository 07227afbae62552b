package bookings

import (
	"time"

	"stagedoor/internal/shows"

	"github.com/google/uuid"
)

// Booking is a confirmed reservation materialized from a successful payment.
// PaymentRef is unique: replayed provider events for the same payment can
// never create a second booking.
type Booking struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowID uuid.UUID `gorm:"type:uuid;index;not null" json:"show_id"`

	CustomerName      string            `gorm:"not null;size:255" json:"customer_name"`
	CustomerEmail     string            `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerPhone     string            `gorm:"size:50" json:"customer_phone,omitempty"`
	ContactPreference ContactPreference `gorm:"type:varchar(10);default:'both'" json:"contact_preference"`

	TicketCount int   `gorm:"not null;check:ticket_count > 0" json:"ticket_count"`
	TotalCents  int64 `gorm:"not null;check:total_cents >= 0" json:"total_cents"`

	PaymentRef    string        `gorm:"uniqueIndex;not null;size:255" json:"payment_ref"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending';check:payment_status IN ('pending', 'succeeded', 'refunded')" json:"payment_status"`

	TicketCode       string `gorm:"uniqueIndex;not null;size:12" json:"ticket_code"`
	ConfirmationSent bool   `gorm:"default:false" json:"confirmation_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Show *shows.Show `json:"show,omitempty" gorm:"foreignKey:ShowID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// IsRefunded reports whether the backing payment has been refunded
func (b *Booking) IsRefunded() bool {
	return b.PaymentStatus == PaymentStatusRefunded
}
