// This file defines handlers for the public browsing API: movie listings
// and showtimes.  These routes do not require authentication so that
// guests can browse before registering.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/niksalehi/movie-ticket-booking/internal/repository"
)

// MovieHandler aggregates repositories needed for unauthenticated
// browsing of the catalog.
type MovieHandler struct {
	Movies *repository.MovieRepo
	Shows  *repository.ShowRepo
}

// NewMovieHandler constructs a MovieHandler and panics on nil deps.
func NewMovieHandler(movies *repository.MovieRepo, shows *repository.ShowRepo) *MovieHandler {
	if movies == nil || shows == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Shows: shows}
}

// List handles GET /api/movies.  Movies are returned newest first.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch movies"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// Get handles GET /api/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch movie"})
	}
	return c.JSON(http.StatusOK, m)
}

// Showtimes handles GET /api/movies/:id/showtimes.  Shows are ordered by
// start time ascending and carry theatre info plus an available-seat
// count derived from the ledger.
func (h *MovieHandler) Showtimes(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch movie"})
	}
	shows, err := h.Shows.ListByMovie(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}
