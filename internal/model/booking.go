package model

import "time"

// BookingStatus enumerates the states a booking can be in.  The booking
// flow only ever creates CONFIRMED records; CANCELLED exists for manual
// reconciliation.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking records a user's confirmed claim on one or more seats of a
// show.  Bookings are immutable once created and readable only by their
// owner.  Seat sets of bookings on the same show are pairwise disjoint;
// this is enforced through the seat ledger, not stored redundantly.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who made the booking.
//  ShowID     – show the seats belong to.
//  Seats      – distinct seat numbers, in the order they were requested.
//  TotalPrice – len(Seats) multiplied by the flat per-seat price.
//  Status     – CONFIRMED or CANCELLED.
//  BookedAt   – creation timestamp (UTC).
type Booking struct {
	ID         uint64        `json:"id"`          // bookings.id
	UserID     uint64        `json:"user_id"`     // bookings.user_id
	ShowID     uint64        `json:"show_id"`     // bookings.show_id
	Seats      []uint32      `json:"seats"`       // booking_seats.seat_number
	TotalPrice uint32        `json:"total_price"` // bookings.total_price
	Status     BookingStatus `json:"status"`      // bookings.status
	BookedAt   time.Time     `json:"booked_at"`   // bookings.booked_at
}
