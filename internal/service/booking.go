// Package service contains the booking orchestration logic.  It sits
// between the HTTP handlers and the repositories: handlers translate
// requests and map errors to status codes, repositories own storage, and
// this layer enforces the booking contract.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/niksalehi/movie-ticket-booking/internal/model"
	"github.com/niksalehi/movie-ticket-booking/internal/queue"
	"github.com/niksalehi/movie-ticket-booking/internal/repository"
)

// ErrNoSeats is returned when a booking request carries no usable seat
// numbers after deduplication.  Local validation, never retried.
var ErrNoSeats = errors.New("at least one seat is required")

// ErrBookingPersist is returned when the booking record could not be
// written after the seats were already claimed.  The seats stay claimed;
// there is no automatic rollback, so the condition needs manual
// reconciliation.  Handlers translate it to a server error.
var ErrBookingPersist = errors.New("booking could not be saved")

// SeatLedger is the atomic claim primitive the service books against.
// Implementations must guarantee all-or-nothing claiming at the storage
// layer; see repository.ShowRepo.ClaimSeats.
type SeatLedger interface {
	ClaimSeats(ctx context.Context, showID uint64, seats []uint32) (*model.Show, error)
}

// BookingStore persists booking records and serves the user's history.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// PublishFunc delivers a confirmation event to the message broker.  A nil
// function disables publishing.
type PublishFunc func(ctx context.Context, ev queue.BookingConfirmedEvent) error

// BookingService validates booking requests, claims seats through the
// ledger and records the result.
type BookingService struct {
	ledger       SeatLedger
	store        BookingStore
	pricePerSeat uint32
	publish      PublishFunc
}

// NewBookingService wires the service.  ledger and store must be non-nil;
// publish may be nil.
func NewBookingService(ledger SeatLedger, store BookingStore, pricePerSeat uint32, publish PublishFunc) *BookingService {
	if ledger == nil || store == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{ledger: ledger, store: store, pricePerSeat: pricePerSeat, publish: publish}
}

// Book reserves the requested seats on a show for the user and persists a
// CONFIRMED booking.
//
// Duplicate seat numbers within the request are deduplicated (first
// occurrence wins, order preserved) rather than rejected; an empty
// selection after dedup fails with ErrNoSeats.  Range and conflict
// checking is delegated entirely to the ledger so that totalSeats has a
// single source of truth: repository.ErrShowNotFound,
// repository.ErrInvalidSeat and repository.ErrSeatConflict pass through
// unchanged.
//
// The claim and the booking insert are two separate storage operations.
// When the insert fails the claim is NOT undone and the error is wrapped
// in ErrBookingPersist.
func (s *BookingService) Book(ctx context.Context, userID, showID uint64, seats []uint32) (*model.Booking, error) {
	unique := dedupeSeats(seats)
	if len(unique) == 0 {
		return nil, ErrNoSeats
	}

	show, err := s.ledger.ClaimSeats(ctx, showID, unique)
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		UserID:     userID,
		ShowID:     show.ID,
		Seats:      unique,
		TotalPrice: uint32(len(unique)) * s.pricePerSeat,
		Status:     model.BookingConfirmed,
		BookedAt:   time.Now().UTC(),
	}
	if err := s.store.Create(ctx, b); err != nil {
		// Seats remain claimed on the ledger at this point.
		return nil, fmt.Errorf("%w: %v", ErrBookingPersist, err)
	}

	if s.publish != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:  b.ID,
			UserID:     b.UserID,
			ShowID:     b.ShowID,
			Seats:      b.Seats,
			TotalPrice: b.TotalPrice,
			BookedAt:   b.BookedAt.Format(time.RFC3339),
		}
		// Best effort: a broker outage must not fail a booking that is
		// already committed.
		if err := s.publish(ctx, ev); err != nil {
			log.Printf("booking service: publish confirmation for booking %d failed: %v", b.ID, err)
		}
	}
	return b, nil
}

// ListForUser returns the user's bookings, newest first, enriched with
// show, movie and theatre display data.
func (s *BookingService) ListForUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return s.store.ListByUser(ctx, userID)
}

// dedupeSeats drops duplicate seat numbers while preserving the order of
// first occurrence.  Out-of-range values (including 0) are left in place;
// range checking belongs to the ledger.
func dedupeSeats(seats []uint32) []uint32 {
	unique := make([]uint32, 0, len(seats))
	seen := make(map[uint32]struct{}, len(seats))
	for _, n := range seats {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}
	return unique
}
