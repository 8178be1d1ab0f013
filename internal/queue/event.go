// Package queue defines message payloads exchanged over the message
// broker plus the publisher and background consumer for them.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// created.  It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID  uint64   `json:"booking_id"`
	UserID     uint64   `json:"user_id"`
	ShowID     uint64   `json:"show_id"`
	Seats      []uint32 `json:"seats"`
	TotalPrice uint32   `json:"total_price"`
	BookedAt   string   `json:"booked_at"`
}
