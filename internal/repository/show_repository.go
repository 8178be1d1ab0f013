package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/niksalehi/movie-ticket-booking/internal/model"
)

// mysqlDupEntry is the server error number MySQL raises when an insert
// violates a unique key.
const mysqlDupEntry = 1062

// ShowRepo is the seat ledger.  It owns all reads and writes of the
// per-show booked seat set.  Claiming seats relies on the unique key on
// show_booked_seats(show_id, seat_number): a multi-row INSERT either adds
// every requested seat or fails atomically with a duplicate key error, so
// the availability check and the mutation are one indivisible step at the
// storage layer.  This holds across any number of server processes
// sharing the database; no application-side locking is involved.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// GetByID retrieves a show with its booked seat set.  It returns
// ErrShowNotFound when no matching row exists.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, theatre_id, show_time, total_seats, created_at FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.TheatreID, &s.ShowTime, &s.TotalSeats, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if s.BookedSeats, err = r.bookedSeats(ctx, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

// ClaimSeats atomically adds the requested seat numbers to the show's
// booked set.  Either every seat is newly claimed or none is:
//
//   - ErrShowNotFound when the show does not exist.
//   - ErrInvalidSeat when any seat lies outside [1, totalSeats]; nothing
//     is written.
//   - ErrSeatConflict when any seat is already booked at the moment the
//     INSERT executes.  The duplicate key on (show_id, seat_number) rejects
//     the whole statement, so partial claims cannot happen and a
//     concurrent caller can never observe a read-check-write gap.
//
// On success the updated show is returned.  The primitive never retries;
// conflict handling belongs to the caller.
func (r *ShowRepo) ClaimSeats(ctx context.Context, showID uint64, seats []uint32) (*model.Show, error) {
	const q = `SELECT id, movie_id, theatre_id, show_time, total_seats, created_at FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, showID).Scan(
		&s.ID, &s.MovieID, &s.TheatreID, &s.ShowTime, &s.TotalSeats, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if len(seats) == 0 || seatsOutOfRange(seats, s.TotalSeats) {
		return nil, ErrInvalidSeat
	}

	// One statement, all seats.  InnoDB rolls the whole insert back on a
	// duplicate key, which is exactly the claim contract.
	query := `INSERT INTO show_booked_seats (show_id, seat_number) VALUES ` + placeholders(len(seats))
	args := make([]interface{}, 0, len(seats)*2)
	for _, n := range seats {
		args = append(args, showID, n)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return nil, ErrSeatConflict
		}
		return nil, err
	}

	if s.BookedSeats, err = r.bookedSeats(ctx, showID); err != nil {
		return nil, err
	}
	return &s, nil
}

// ShowtimeInfo is a show row enriched with theatre display data and the
// number of seats still available.  It is returned by ListByMovie for the
// public showtimes endpoint.
type ShowtimeInfo struct {
	ID              uint64    `json:"id"`
	MovieID         uint64    `json:"movie_id"`
	TheatreID       uint64    `json:"theatre_id"`
	TheatreName     string    `json:"theatre_name"`
	TheatreLocation string    `json:"theatre_location"`
	ShowTime        time.Time `json:"show_time"`
	TotalSeats      uint32    `json:"total_seats"`
	SeatsAvailable  uint32    `json:"seats_available"`
}

// ListByMovie returns upcoming shows for a movie ordered by start time
// ascending.  The available seat count is derived from the ledger in the
// same query.
func (r *ShowRepo) ListByMovie(ctx context.Context, movieID uint64) ([]ShowtimeInfo, error) {
	const q = `SELECT s.id, s.movie_id, s.theatre_id, t.name, t.location, s.show_time, s.total_seats,
	                  (SELECT COUNT(*) FROM show_booked_seats bs WHERE bs.show_id = s.id)
	           FROM shows s
	           JOIN theatres t ON t.id = s.theatre_id
	           WHERE s.movie_id = ?
	           ORDER BY s.show_time ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]ShowtimeInfo, 0)
	for rows.Next() {
		var st ShowtimeInfo
		var booked uint32
		if err := rows.Scan(&st.ID, &st.MovieID, &st.TheatreID, &st.TheatreName, &st.TheatreLocation,
			&st.ShowTime, &st.TotalSeats, &booked); err != nil {
			return nil, err
		}
		st.SeatsAvailable = st.TotalSeats - booked
		items = append(items, st)
	}
	return items, rows.Err()
}

// bookedSeats loads the booked set for a show in ascending seat order.
func (r *ShowRepo) bookedSeats(ctx context.Context, showID uint64) ([]uint32, error) {
	const q = `SELECT seat_number FROM show_booked_seats WHERE show_id = ? ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		seats = append(seats, n)
	}
	return seats, rows.Err()
}

// seatsOutOfRange reports whether any seat number falls outside
// [1, totalSeats].
func seatsOutOfRange(seats []uint32, totalSeats uint32) bool {
	for _, n := range seats {
		if n < 1 || n > totalSeats {
			return true
		}
	}
	return false
}

// placeholders builds "(?, ?),(?, ?),..." for n two-column rows.
func placeholders(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?)")
	}
	return b.String()
}
