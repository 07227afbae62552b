package database

import (
	"stagedoor/internal/bookings"
	"stagedoor/internal/experiences"
	"stagedoor/internal/shows"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&experiences.Experience{},
		&shows.Show{},
		&bookings.Booking{},
	)
}
