package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksalehi/movie-ticket-booking/internal/model"
	"github.com/niksalehi/movie-ticket-booking/internal/queue"
	"github.com/niksalehi/movie-ticket-booking/internal/repository"
)

// fakeLedger mimics the storage-level claim contract in memory: all
// requested seats are added or none, with a mutex standing in for the
// unique key.
type fakeLedger struct {
	mu         sync.Mutex
	totalSeats uint32
	booked     map[uint32]bool
	missing    bool
}

func newFakeLedger(totalSeats uint32, booked ...uint32) *fakeLedger {
	l := &fakeLedger{totalSeats: totalSeats, booked: make(map[uint32]bool)}
	for _, n := range booked {
		l.booked[n] = true
	}
	return l
}

func (l *fakeLedger) ClaimSeats(ctx context.Context, showID uint64, seats []uint32) (*model.Show, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.missing {
		return nil, repository.ErrShowNotFound
	}
	if len(seats) == 0 {
		return nil, repository.ErrInvalidSeat
	}
	for _, n := range seats {
		if n < 1 || n > l.totalSeats {
			return nil, repository.ErrInvalidSeat
		}
	}
	for _, n := range seats {
		if l.booked[n] {
			return nil, repository.ErrSeatConflict
		}
	}
	for _, n := range seats {
		l.booked[n] = true
	}
	return &model.Show{ID: showID, TotalSeats: l.totalSeats, BookedSeats: l.snapshot()}, nil
}

func (l *fakeLedger) snapshot() []uint32 {
	out := make([]uint32, 0, len(l.booked))
	for n := range l.booked {
		out = append(out, n)
	}
	return out
}

func (l *fakeLedger) bookedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.booked)
}

func (l *fakeLedger) isBooked(n uint32) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.booked[n]
}

type fakeStore struct {
	mu       sync.Mutex
	nextID   uint64
	created  []model.Booking
	failNext bool
}

func (s *fakeStore) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("db gone away")
	}
	s.nextID++
	b.ID = s.nextID
	s.created = append(s.created, *b)
	return nil
}

func (s *fakeStore) ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return nil, nil
}

func TestBookHappyPath(t *testing.T) {
	ledger := newFakeLedger(10)
	store := &fakeStore{}
	svc := NewBookingService(ledger, store, 200, nil)

	b, err := svc.Book(context.Background(), 7, 42, []uint32{2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.ID)
	assert.Equal(t, uint64(7), b.UserID)
	assert.Equal(t, uint64(42), b.ShowID)
	assert.Equal(t, []uint32{2, 3}, b.Seats)
	assert.Equal(t, uint32(400), b.TotalPrice)
	assert.Equal(t, model.BookingConfirmed, b.Status)
	assert.WithinDuration(t, time.Now().UTC(), b.BookedAt, 5*time.Second)
}

func TestBookConflictThenRetry(t *testing.T) {
	ledger := newFakeLedger(10)
	store := &fakeStore{}
	svc := NewBookingService(ledger, store, 150, nil)
	ctx := context.Background()

	_, err := svc.Book(ctx, 1, 42, []uint32{2, 3})
	require.NoError(t, err)

	// Overlapping request fails as a whole: seat 4 must not be claimed.
	_, err = svc.Book(ctx, 2, 42, []uint32{3, 4})
	require.ErrorIs(t, err, repository.ErrSeatConflict)
	assert.False(t, ledger.isBooked(4))
	assert.Empty(t, storeBookingsFor(store, 2))

	// Retrying with only the free seat succeeds.
	b, err := svc.Book(ctx, 2, 42, []uint32{4})
	require.NoError(t, err)
	assert.Equal(t, []uint32{4}, b.Seats)
	assert.Equal(t, uint32(150), b.TotalPrice)
}

func TestBookDeduplicatesSeats(t *testing.T) {
	ledger := newFakeLedger(10)
	store := &fakeStore{}
	svc := NewBookingService(ledger, store, 100, nil)

	b, err := svc.Book(context.Background(), 1, 42, []uint32{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, []uint32{5}, b.Seats)
	assert.Equal(t, uint32(100), b.TotalPrice)
}

func TestBookValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		seats []uint32
		want  error
	}{
		{"empty", nil, ErrNoSeats},
		{"seat zero", []uint32{0}, repository.ErrInvalidSeat},
		{"beyond total", []uint32{11}, repository.ErrInvalidSeat},
		{"mixed valid and invalid", []uint32{1, 11}, repository.ErrInvalidSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newFakeLedger(10)
			store := &fakeStore{}
			svc := NewBookingService(ledger, store, 100, nil)

			_, err := svc.Book(context.Background(), 1, 42, tt.seats)
			require.ErrorIs(t, err, tt.want)
			assert.Zero(t, ledger.bookedCount(), "validation failure must not claim seats")
			assert.Empty(t, store.created)
		})
	}
}

func TestBookShowNotFound(t *testing.T) {
	ledger := newFakeLedger(10)
	ledger.missing = true
	svc := NewBookingService(ledger, &fakeStore{}, 100, nil)

	_, err := svc.Book(context.Background(), 1, 999, []uint32{1})
	require.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestBookPersistFailureLeavesSeatsClaimed(t *testing.T) {
	ledger := newFakeLedger(10)
	store := &fakeStore{failNext: true}
	svc := NewBookingService(ledger, store, 100, nil)

	_, err := svc.Book(context.Background(), 1, 42, []uint32{6, 7})
	require.ErrorIs(t, err, ErrBookingPersist)
	// The claim is not rolled back; a later overlapping request conflicts.
	assert.True(t, ledger.isBooked(6))
	assert.True(t, ledger.isBooked(7))
	_, err = svc.Book(context.Background(), 2, 42, []uint32{7})
	require.ErrorIs(t, err, repository.ErrSeatConflict)
}

func TestBookPublishFailureDoesNotFailBooking(t *testing.T) {
	ledger := newFakeLedger(10)
	store := &fakeStore{}
	published := 0
	publish := func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
		published++
		return errors.New("broker down")
	}
	svc := NewBookingService(ledger, store, 100, publish)

	b, err := svc.Book(context.Background(), 1, 42, []uint32{8})
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	assert.Equal(t, []uint32{8}, b.Seats)
}

func TestBookConcurrentClaimsOneWinnerPerSeat(t *testing.T) {
	const (
		totalSeats = 50
		workers    = 20
	)
	ledger := newFakeLedger(totalSeats)
	store := &fakeStore{}
	svc := NewBookingService(ledger, store, 100, nil)

	// Every worker requests a window of seats overlapping its neighbours'.
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			base := uint32(i*2 + 1)
			_, results[i] = svc.Book(context.Background(), uint64(i+1), 42, []uint32{base, base + 1, base + 2})
		}(i)
	}
	wg.Wait()

	// Each seat ended up with at most one owner, and the set of persisted
	// seats matches the ledger exactly.
	claimed := make(map[uint32]uint64)
	store.mu.Lock()
	for _, b := range store.created {
		for _, n := range b.Seats {
			owner, taken := claimed[n]
			require.False(t, taken, "seat %d booked by both user %d and user %d", n, owner, b.UserID)
			claimed[n] = b.UserID
		}
	}
	store.mu.Unlock()
	assert.Equal(t, len(claimed), ledger.bookedCount())
	for _, err := range results {
		if err != nil {
			assert.ErrorIs(t, err, repository.ErrSeatConflict)
		}
	}
}

func TestDedupeSeats(t *testing.T) {
	assert.Equal(t, []uint32{3, 1, 2}, dedupeSeats([]uint32{3, 1, 3, 2, 1}))
	assert.Equal(t, []uint32{0, 5}, dedupeSeats([]uint32{0, 5, 0}), "zero is kept; range checks are the ledger's job")
	assert.Empty(t, dedupeSeats(nil))
}

func storeBookingsFor(s *fakeStore, userID uint64) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.created {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out
}
