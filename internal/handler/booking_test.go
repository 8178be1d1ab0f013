package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksalehi/movie-ticket-booking/internal/model"
	"github.com/niksalehi/movie-ticket-booking/internal/repository"
	"github.com/niksalehi/movie-ticket-booking/internal/service"
)

type stubBookingSvc struct {
	bookErr  error
	booked   *model.Booking
	listErr  error
	listed   []repository.BookingDetail
	gotUser  uint64
	gotShow  uint64
	gotSeats []uint32
}

func (s *stubBookingSvc) Book(ctx context.Context, userID, showID uint64, seats []uint32) (*model.Booking, error) {
	s.gotUser, s.gotShow, s.gotSeats = userID, showID, seats
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	return s.booked, nil
}

func (s *stubBookingSvc) ListForUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	s.gotUser = userID
	return s.listed, s.listErr
}

func newBookingCtx(t *testing.T, method, path, body string, userID interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestCreateBookingSuccess(t *testing.T) {
	svc := &stubBookingSvc{booked: &model.Booking{
		ID:         9,
		UserID:     7,
		ShowID:     42,
		Seats:      []uint32{2, 3},
		TotalPrice: 400,
		Status:     model.BookingConfirmed,
		BookedAt:   time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC),
	}}
	h := NewBookingHandler(svc)

	c, rec := newBookingCtx(t, http.MethodPost, "/api/bookings", `{"show_id":42,"seats":[2,3]}`, uint64(7))
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(7), svc.gotUser)
	assert.Equal(t, uint64(42), svc.gotShow)
	assert.Equal(t, []uint32{2, 3}, svc.gotSeats)
	assert.Contains(t, rec.Body.String(), `"total_price":400`)
	assert.Contains(t, rec.Body.String(), `"status":"CONFIRMED"`)
}

func TestCreateBookingStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     interface{}
		svcErr     error
		wantStatus int
	}{
		{"no user in context", `{"show_id":1,"seats":[1]}`, nil, nil, http.StatusUnauthorized},
		{"malformed body", `{"show_id":`, uint64(1), nil, http.StatusBadRequest},
		{"missing show_id", `{"seats":[1]}`, uint64(1), nil, http.StatusBadRequest},
		{"missing seats", `{"show_id":1}`, uint64(1), nil, http.StatusBadRequest},
		{"show not found", `{"show_id":1,"seats":[1]}`, uint64(1), repository.ErrShowNotFound, http.StatusNotFound},
		{"invalid seat", `{"show_id":1,"seats":[999]}`, uint64(1), repository.ErrInvalidSeat, http.StatusBadRequest},
		{"seat conflict", `{"show_id":1,"seats":[1]}`, uint64(1), repository.ErrSeatConflict, http.StatusConflict},
		{"no usable seats", `{"show_id":1,"seats":[1]}`, uint64(1), service.ErrNoSeats, http.StatusBadRequest},
		{"persist failure", `{"show_id":1,"seats":[1]}`, uint64(1), service.ErrBookingPersist, http.StatusInternalServerError},
		{"unknown error", `{"show_id":1,"seats":[1]}`, uint64(1), errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&stubBookingSvc{bookErr: tt.svcErr})
			c, rec := newBookingCtx(t, http.MethodPost, "/api/bookings", tt.body, tt.userID)
			require.NoError(t, h.Create(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCreateBookingAcceptsFloatUserID(t *testing.T) {
	// JWT claims decode numbers as float64; the handler must cope.
	svc := &stubBookingSvc{booked: &model.Booking{ID: 1, Seats: []uint32{1}}}
	h := NewBookingHandler(svc)
	c, rec := newBookingCtx(t, http.MethodPost, "/api/bookings", `{"show_id":1,"seats":[1]}`, float64(7))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(7), svc.gotUser)
}

func TestListMine(t *testing.T) {
	svc := &stubBookingSvc{listed: []repository.BookingDetail{
		{ID: 2, ShowID: 42, Seats: []uint32{4}, TotalPrice: 200, Status: "CONFIRMED"},
		{ID: 1, ShowID: 42, Seats: []uint32{1, 2}, TotalPrice: 400, Status: "CONFIRMED"},
	}}
	h := NewBookingHandler(svc)

	c, rec := newBookingCtx(t, http.MethodGet, "/api/bookings/my", "", uint64(7))
	require.NoError(t, h.ListMine(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), svc.gotUser)
	assert.Contains(t, rec.Body.String(), `"items"`)
}

func TestListMineErrors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		h := NewBookingHandler(&stubBookingSvc{})
		c, rec := newBookingCtx(t, http.MethodGet, "/api/bookings/my", "", nil)
		require.NoError(t, h.ListMine(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("store failure", func(t *testing.T) {
		h := NewBookingHandler(&stubBookingSvc{listErr: errors.New("boom")})
		c, rec := newBookingCtx(t, http.MethodGet, "/api/bookings/my", "", uint64(7))
		require.NoError(t, h.ListMine(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
