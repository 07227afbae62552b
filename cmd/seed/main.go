package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"stagedoor/internal/experiences"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/database"
	"stagedoor/internal/shows"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Stagedoor database seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned")

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Database is ready.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"bookings",
		"shows",
		"experiences",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds the experience catalog and a round of upcoming shows
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	experienceIDs, err := s.SeedExperiences(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed experiences: %w", err)
	}

	if err := s.SeedShows(ctx, experienceIDs); err != nil {
		return fmt.Errorf("failed to seed shows: %w", err)
	}

	return nil
}

// SeedExperiences inserts the standing catalog
func (s *Seeder) SeedExperiences(ctx context.Context) (map[string]uuid.UUID, error) {
	repo := experiences.NewRepository(s.db.GetPostgreSQL())

	ids := make(map[string]uuid.UUID)
	for _, experience := range experiences.DefaultCatalog() {
		exp := experience
		if err := repo.Create(ctx, &exp); err != nil {
			return nil, err
		}
		ids[exp.Slug] = exp.ID
		fmt.Printf("  Created experience: %s\n", exp.Slug)
	}

	return ids, nil
}

// SeedShows schedules one upcoming show per experience over the next month
func (s *Seeder) SeedShows(ctx context.Context, experienceIDs map[string]uuid.UUID) error {
	repo := shows.NewRepository(s.db.GetPostgreSQL())

	type showSeed struct {
		slug      string
		daysOut   int
		showTime  string
		doorsTime string
		venueName string
		address   string
		notes     string
		seats     int
	}

	seeds := []showSeed{
		{
			slug: "secret-ballads", daysOut: 7,
			showTime: "8:00 PM", doorsTime: "7:30 PM",
			venueName: "The Parlor Room", address: "114 Mulberry St",
			notes: "Unmarked green door. Ring twice.", seats: 40,
		},
		{
			slug: "everybody-knows-this-song", daysOut: 14,
			showTime: "9:00 PM", doorsTime: "8:30 PM",
			venueName: "Basement East", address: "42 Orchard St",
			notes: "Enter through the record shop.", seats: 60,
		},
		{
			slug: "heart-of-harry", daysOut: 21,
			showTime: "7:30 PM", doorsTime: "7:00 PM",
			venueName: "The Velvet Note", address: "551 W 21st St",
			seats: 50,
		},
		{
			slug: "private-concerts", daysOut: 28,
			showTime: "6:00 PM",
			venueName: "Private Loft", notes: "Address shared after booking.",
			seats: 12,
		},
	}

	for _, seed := range seeds {
		experienceID, ok := experienceIDs[seed.slug]
		if !ok {
			return fmt.Errorf("unknown experience slug %q", seed.slug)
		}

		show := &shows.Show{
			ExperienceID:   experienceID,
			ShowDate:       time.Now().AddDate(0, 0, seed.daysOut),
			ShowTime:       seed.showTime,
			DoorsTime:      seed.doorsTime,
			VenueName:      seed.venueName,
			VenueAddress:   seed.address,
			VenueCity:      "New York",
			VenueState:     "NY",
			VenueNotes:     seed.notes,
			AvailableSeats: seed.seats,
			Status:         shows.StatusScheduled,
		}

		if err := repo.Create(ctx, show); err != nil {
			return err
		}
		fmt.Printf("  Created show: %s on %s at %s\n", seed.slug, show.ShowDate.Format("2006-01-02"), seed.venueName)
	}

	return nil
}
