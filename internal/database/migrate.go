package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists DDL statements executed in order on startup.  Every
// statement is idempotent so repeated runs are harmless.
//
// The unique key on show_booked_seats(show_id, seat_number) is what makes
// seat claiming safe under concurrency: a multi-row INSERT against it
// either adds every requested seat or fails as a whole with a duplicate
// key error, so two racing bookings can never share a seat.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS movies (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title        VARCHAR(255) NOT NULL,
		description  TEXT,
		duration_min INT UNSIGNED NOT NULL,
		language     VARCHAR(64) NOT NULL DEFAULT 'English',
		genre        VARCHAR(64) NOT NULL DEFAULT 'Drama',
		rating       DECIMAL(3,1) NOT NULL DEFAULT 0,
		image_url    VARCHAR(512) NOT NULL DEFAULT '',
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS theatres (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		location   VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS shows (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		movie_id    BIGINT UNSIGNED NOT NULL,
		theatre_id  BIGINT UNSIGNED NOT NULL,
		show_time   DATETIME NOT NULL,
		total_seats INT UNSIGNED NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_shows_movie (movie_id),
		CONSTRAINT fk_shows_movie FOREIGN KEY (movie_id) REFERENCES movies (id),
		CONSTRAINT fk_shows_theatre FOREIGN KEY (theatre_id) REFERENCES theatres (id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS show_booked_seats (
		show_id     BIGINT UNSIGNED NOT NULL,
		seat_number INT UNSIGNED NOT NULL,
		booked_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_show_seat (show_id, seat_number),
		CONSTRAINT fk_booked_seats_show FOREIGN KEY (show_id) REFERENCES shows (id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id     BIGINT UNSIGNED NOT NULL,
		show_id     BIGINT UNSIGNED NOT NULL,
		total_price INT UNSIGNED NOT NULL,
		status      ENUM('CONFIRMED','CANCELLED') NOT NULL DEFAULT 'CONFIRMED',
		booked_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_show (show_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_bookings_show FOREIGN KEY (show_id) REFERENCES shows (id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS booking_seats (
		booking_id  BIGINT UNSIGNED NOT NULL,
		seat_number INT UNSIGNED NOT NULL,
		PRIMARY KEY (booking_id, seat_number),
		CONSTRAINT fk_booking_seats_booking FOREIGN KEY (booking_id) REFERENCES bookings (id)
	) ENGINE=InnoDB`,
}

// Migrate applies the schema statements one by one.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
