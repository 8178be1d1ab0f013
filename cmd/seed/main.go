// Command seed resets the catalog tables and loads sample theatres,
// movies and shows for local development.  It never touches users or
// existing bookings' tables beyond the catalog wipe below.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/niksalehi/movie-ticket-booking/internal/config"
	"github.com/niksalehi/movie-ticket-booking/internal/database"
)

type theatreRow struct {
	name     string
	location string
}

type movieRow struct {
	title       string
	description string
	duration    uint32
	language    string
	genre       string
	rating      float64
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := seed(ctx, db); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seed complete")
}

func seed(ctx context.Context, db *sql.DB) error {
	// Wipe in FK order: seats and bookings first, then shows, then catalog.
	for _, table := range []string{"booking_seats", "bookings", "show_booked_seats", "shows", "movies", "theatres"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	theatres := []theatreRow{
		{"PVR Cinemas", "Inorbit Mall, Mumbai"},
		{"INOX Megaplex", "Phoenix Marketcity, Bangalore"},
		{"Cinepolis", "DLF Mall, Delhi"},
	}
	theatreIDs := make([]uint64, 0, len(theatres))
	for _, t := range theatres {
		res, err := db.ExecContext(ctx,
			"INSERT INTO theatres (name, location) VALUES (?, ?)", t.name, t.location)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		theatreIDs = append(theatreIDs, uint64(id))
	}

	movies := []movieRow{
		{"Jawan", "A man driven by a personal vendetta takes on a corrupt system.", 169, "Hindi", "Action", 4.5},
		{"Pathaan", "An exiled agent returns to stop a mercenary group's attack.", 146, "Hindi", "Action", 4.3},
		{"3 Idiots", "Two friends search for their long-lost college companion.", 170, "Hindi", "Comedy", 4.8},
	}
	movieIDs := make([]uint64, 0, len(movies))
	for _, m := range movies {
		res, err := db.ExecContext(ctx,
			"INSERT INTO movies (title, description, duration_min, language, genre, rating) VALUES (?, ?, ?, ?, ?, ?)",
			m.title, m.description, m.duration, m.language, m.genre, m.rating)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		movieIDs = append(movieIDs, uint64(id))
	}

	// Two shows per movie spread over the next few evenings, rotating
	// through the theatres.
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	showNum := 0
	for i, movieID := range movieIDs {
		for j := 0; j < 2; j++ {
			theatreID := theatreIDs[(i+j)%len(theatreIDs)]
			showTime := base.Add(time.Duration(showNum*3) * time.Hour)
			if _, err := db.ExecContext(ctx,
				"INSERT INTO shows (movie_id, theatre_id, show_time, total_seats) VALUES (?, ?, ?, ?)",
				movieID, theatreID, showTime, 100); err != nil {
				return err
			}
			showNum++
		}
	}
	return nil
}
