package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"quickshow/internal/bookings"
	"quickshow/internal/movies"
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/database"
	"quickshow/internal/shows"
	"quickshow/internal/users"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting QuickShow database seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
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

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"bookings",
		"shows",
		"movies",
		"users",
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

// SeedAll seeds a demo user, a movie and a week of shows for it.
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	movieID, err := s.SeedMovie(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed movie: %w", err)
	}

	if err := s.SeedShows(ctx, movieID); err != nil {
		return fmt.Errorf("failed to seed shows: %w", err)
	}

	return nil
}

func (s *Seeder) SeedUsers(ctx context.Context) error {
	repo := users.NewRepository(s.db.GetPostgreSQL())

	demo := []*users.User{
		{
			ID:    "user_demo_admin",
			Name:  "Demo Admin",
			Email: "admin@quickshow.dev",
		},
		{
			ID:    "user_demo_viewer",
			Name:  "Demo Viewer",
			Email: "viewer@quickshow.dev",
		},
	}

	for _, user := range demo {
		if err := repo.Upsert(ctx, user); err != nil {
			return err
		}
		fmt.Printf("  Seeded user: %s (%s)\n", user.Name, user.ID)
	}

	return nil
}

func (s *Seeder) SeedMovie(ctx context.Context) (string, error) {
	repo := movies.NewRepository(s.db.GetPostgreSQL())

	movie := &movies.Movie{
		ID:       "324544",
		Title:    "In the Lost Lands",
		Overview: "A queen sends the powerful and feared sorceress Gray Alys to the ghostly wilderness of the Lost Lands.",
		Genres: movies.GenreList{
			{ID: 14, Name: "Fantasy"},
			{ID: 28, Name: "Action"},
		},
		Casts: movies.CastList{
			{Name: "Milla Jovovich", ProfilePath: "/usWnHCzbADijULREZYSJ0qfM00y.jpg"},
			{Name: "Dave Bautista", ProfilePath: "/snk6JiXOOoRjPtHU5VMoy6qbd32.jpg"},
		},
		ReleaseDate:      "2025-02-27",
		OriginalLanguage: "en",
		Tagline:          "Her magic. His gun. Their last hope.",
		VoteAverage:      6.4,
		Runtime:          102,
	}

	if err := repo.Create(ctx, movie); err != nil {
		return "", err
	}
	fmt.Printf("  Seeded movie: %s (%s)\n", movie.Title, movie.ID)

	return movie.ID, nil
}

func (s *Seeder) SeedShows(ctx context.Context, movieID string) error {
	repo := shows.NewRepository(s.db.GetPostgreSQL())

	var batch []shows.Show
	base := time.Now().Truncate(time.Hour).Add(24 * time.Hour)
	for day := 0; day < 7; day++ {
		for _, hour := range []int{14, 18, 21} {
			showTime := base.AddDate(0, 0, day)
			showTime = time.Date(showTime.Year(), showTime.Month(), showTime.Day(), hour, 0, 0, 0, showTime.Location())
			batch = append(batch, shows.Show{
				ID:            uuid.New(),
				MovieID:       movieID,
				ShowDateTime:  showTime,
				ShowPrice:     59,
				OccupiedSeats: shows.SeatMap{},
			})
		}
	}

	if err := repo.CreateBatch(ctx, batch); err != nil {
		return err
	}
	fmt.Printf("  Seeded %d shows for movie %s\n", len(batch), movieID)

	// One paid booking so the seat picker has occupied seats to render.
	bookingRepo := bookings.NewRepository(s.db.GetPostgreSQL())
	booking, _, err := bookingRepo.ReserveSeats(ctx, "user_demo_viewer", batch[0].ID, []string{"A1", "A2"})
	if err != nil {
		return err
	}
	if _, _, err := bookingRepo.MarkPaid(ctx, booking.ID); err != nil {
		return err
	}
	fmt.Printf("  Seeded paid booking %s (seats A1, A2)\n", booking.ID)

	return nil
}
