package model

import "time"

// Show is the seat ledger for one screening: a fixed capacity plus the
// authoritative set of booked seat numbers.  TotalSeats is set when the
// show is scheduled and never changes.  BookedSeats only grows; seats are
// never released within this system.
//
// Invariant: every element of BookedSeats lies in [1, TotalSeats] and the
// set contains no duplicates.  All mutation goes through the claim
// operation in the repository layer, never through ad hoc writes.
type Show struct {
	ID          uint64    `json:"id"`           // shows.id
	MovieID     uint64    `json:"movie_id"`     // shows.movie_id
	TheatreID   uint64    `json:"theatre_id"`   // shows.theatre_id
	ShowTime    time.Time `json:"show_time"`    // shows.show_time
	TotalSeats  uint32    `json:"total_seats"`  // shows.total_seats
	BookedSeats []uint32  `json:"booked_seats"` // show_booked_seats.seat_number, ascending
	CreatedAt   time.Time `json:"created_at"`   // shows.created_at
}
