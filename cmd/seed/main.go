package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Baro-rgb/CINEBOOK/internal/shared/config"
	"github.com/Baro-rgb/CINEBOOK/internal/shared/database"
	"github.com/Baro-rgb/CINEBOOK/internal/shows"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CINEBOOK Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"bookings",
		"shows",
		"movies",
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

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	movieIDs, err := s.SeedMovies()
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	if err := s.SeedShows(movieIDs); err != nil {
		return fmt.Errorf("failed to seed shows: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedMovies creates the movie catalog
func (s *Seeder) SeedMovies() ([]uuid.UUID, error) {
	fmt.Println("  🎬 Seeding movies...")

	var movieIDs []uuid.UUID

	moviesData := []struct {
		title       string
		overview    string
		genres      string
		runtime     int
		releaseDate time.Time
		voteAverage float64
	}{
		{"Interstellar", "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.", "Adventure, Drama, Sci-Fi", 169, time.Date(2014, 11, 7, 0, 0, 0, 0, time.UTC), 8.7},
		{"Dune: Part Two", "Paul Atreides unites with Chani and the Fremen while seeking revenge against the conspirators who destroyed his family.", "Action, Adventure, Drama", 166, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 8.5},
		{"The Grand Budapest Hotel", "A writer encounters the owner of an aging high-class hotel, who tells him of his early years serving as a lobby boy.", "Adventure, Comedy, Crime", 99, time.Date(2014, 3, 28, 0, 0, 0, 0, time.UTC), 8.1},
		{"Parasite", "Greed and class discrimination threaten the newly formed symbiotic relationship between the wealthy Park family and the destitute Kim clan.", "Drama, Thriller", 132, time.Date(2019, 5, 30, 0, 0, 0, 0, time.UTC), 8.5},
		{"Spirited Away", "During her family's move to the suburbs, a sullen 10-year-old girl wanders into a world ruled by gods, witches, and spirits.", "Animation, Adventure, Family", 125, time.Date(2001, 7, 20, 0, 0, 0, 0, time.UTC), 8.6},
	}

	for _, movieData := range moviesData {
		movie := shows.Movie{
			ID:             uuid.New(),
			Title:          movieData.title,
			Overview:       movieData.overview,
			Genres:         movieData.genres,
			RuntimeMinutes: movieData.runtime,
			ReleaseDate:    movieData.releaseDate,
			VoteAverage:    movieData.voteAverage,
		}

		if err := s.db.PostgreSQL.Create(&movie).Error; err != nil {
			return nil, fmt.Errorf("failed to create movie %s: %w", movieData.title, err)
		}

		movieIDs = append(movieIDs, movie.ID)
		fmt.Printf("    ✅ Created movie: %s\n", movie.Title)
	}

	return movieIDs, nil
}

// SeedShows schedules showtimes for every movie over the next week
func (s *Seeder) SeedShows(movieIDs []uuid.UUID) error {
	fmt.Println("  🎟️ Seeding shows...")

	prices := []float64{9.50, 12.00, 14.50}
	showtimes := []int{14, 18, 21}

	for _, movieID := range movieIDs {
		for day := 1; day <= 7; day++ {
			for i, hour := range showtimes {
				showDate := time.Now().AddDate(0, 0, day)
				show := shows.Show{
					ID:            uuid.New(),
					MovieID:       movieID,
					ShowDateTime:  time.Date(showDate.Year(), showDate.Month(), showDate.Day(), hour, 0, 0, 0, time.Local),
					ShowPrice:     prices[i],
					OccupiedSeats: shows.SeatMap{},
				}

				if err := s.db.PostgreSQL.Create(&show).Error; err != nil {
					return fmt.Errorf("failed to create show: %w", err)
				}
			}
		}
	}

	fmt.Printf("    ✅ Created %d shows across %d movies\n", len(movieIDs)*7*len(showtimes), len(movieIDs))
	return nil
}
