package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/niksalehi/movie-ticket-booking/internal/model"
)

// BookingRepo persists booking records and their seat lists.  A booking's
// seats live in booking_seats; writing the booking and its seats happens
// in one transaction.  Note that this transaction is separate from the
// seat claim itself: if the booking insert fails after a successful
// claim, the seats stay claimed (see the booking service).
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a booking together with its seat rows and populates the
// generated ID and DB timestamp on the passed struct.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO bookings (user_id, show_id, total_price, status, booked_at) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, b.UserID, b.ShowID, b.TotalPrice, b.Status, b.BookedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(b.Seats) > 0 {
		query := `INSERT INTO booking_seats (booking_id, seat_number) VALUES `
		args := make([]interface{}, 0, len(b.Seats)*2)
		for i, n := range b.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, b.ID, n)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// BookingDetail is a booking enriched with denormalized show, movie and
// theatre display data.  It is returned by ListByUser; the enrichment is
// presentation only and never feeds back into booking logic.
type BookingDetail struct {
	ID              uint64    `json:"id"`
	ShowID          uint64    `json:"show_id"`
	Seats           []uint32  `json:"seats"`
	TotalPrice      uint32    `json:"total_price"`
	Status          string    `json:"status"`
	BookedAt        time.Time `json:"booked_at"`
	ShowTime        time.Time `json:"show_time"`
	MovieTitle      string    `json:"movie_title"`
	TheatreName     string    `json:"theatre_name"`
	TheatreLocation string    `json:"theatre_location"`
}

// ListByUser returns the user's bookings newest first, each with its seat
// list and show/movie/theatre details.  Seats for all bookings are
// fetched in a single follow-up query.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.show_id, b.total_price, b.status, b.booked_at,
	                  s.show_time, m.title, t.name, t.location
	           FROM bookings b
	           JOIN shows s ON s.id = b.show_id
	           JOIN movies m ON m.id = s.movie_id
	           JOIN theatres t ON t.id = s.theatre_id
	           WHERE b.user_id = ?
	           ORDER BY b.booked_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	index := make(map[uint64]int) // booking ID -> position in details
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.ShowID, &d.TotalPrice, &d.Status, &d.BookedAt,
			&d.ShowTime, &d.MovieTitle, &d.TheatreName, &d.TheatreLocation); err != nil {
			return nil, err
		}
		d.Seats = []uint32{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	ids := make([]interface{}, 0, len(details))
	marks := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		marks = append(marks, "?")
	}
	seatQ := `SELECT booking_id, seat_number FROM booking_seats
	          WHERE booking_id IN (` + strings.Join(marks, ",") + `)
	          ORDER BY booking_id, seat_number`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var seat uint32
		if err := srows.Scan(&bid, &seat); err != nil {
			return nil, err
		}
		if i, ok := index[bid]; ok {
			details[i].Seats = append(details[i].Seats, seat)
		}
	}
	return details, srows.Err()
}
