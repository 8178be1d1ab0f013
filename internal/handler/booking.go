package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/niksalehi/movie-ticket-booking/internal/model"
	"github.com/niksalehi/movie-ticket-booking/internal/repository"
	"github.com/niksalehi/movie-ticket-booking/internal/service"
)

// BookingAPI is the slice of the booking service the handler depends on.
type BookingAPI interface {
	Book(ctx context.Context, userID, showID uint64, seats []uint32) (*model.Booking, error)
	ListForUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// BookingHandler exposes the booking endpoints.  JWT authentication has
// already run; methods return 401 only when the user ID cannot be read
// from the context.
type BookingHandler struct {
	Svc BookingAPI
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc BookingAPI) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

type createBookingReq struct {
	ShowID uint64   `json:"show_id"`
	Seats  []uint32 `json:"seats"`
}

type bookingResp struct {
	ID         uint64    `json:"id"`
	ShowID     uint64    `json:"show_id"`
	Seats      []uint32  `json:"seats"`
	TotalPrice uint32    `json:"total_price"`
	Status     string    `json:"status"`
	BookedAt   time.Time `json:"booked_at"`
}

// Create handles POST /api/bookings.  Status mapping:
//
//	400 – malformed body, missing show_id/seats, seat out of range
//	404 – show does not exist
//	409 – at least one seat already booked (client may retry with others)
//	500 – booking write failed after the seats were claimed
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id is required"})
	}
	if len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}

	b, err := h.Svc.Book(c.Request().Context(), userID, req.ShowID, req.Seats)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSeats):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrInvalidSeat):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat numbers"})
		case errors.Is(err, repository.ErrSeatConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "some seats already booked"})
		case errors.Is(err, service.ErrBookingPersist):
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}
	return c.JSON(http.StatusCreated, bookingResp{
		ID:         b.ID,
		ShowID:     b.ShowID,
		Seats:      b.Seats,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		BookedAt:   b.BookedAt,
	})
}

// ListMine handles GET /api/bookings/my.  Returns the caller's bookings
// newest first, enriched with show, movie and theatre display data.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Svc.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
