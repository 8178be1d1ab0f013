// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/niksalehi/movie-ticket-booking/internal/config"
	"github.com/niksalehi/movie-ticket-booking/internal/handler"
	"github.com/niksalehi/movie-ticket-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Besides the health check this serves the demo front end from public/.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.Static("/", "public")
}

// RegisterAuth registers the authentication endpoints under /api/auth.
// None of them require an existing session; refresh and logout identify
// the caller through the refresh token itself.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterMovies registers the public catalog endpoints.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler) {
	e.GET("/api/movies", m.List)
	e.GET("/api/movies/:id", m.Get)
	e.GET("/api/movies/:id/showtimes", m.Showtimes)
}

// RegisterBookings registers the booking endpoints.  Both require a valid
// access token; creation additionally passes through the Redis token
// bucket so a misbehaving client cannot hammer the seat ledger.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/api/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("", b.Create, middleware.RateLimit(rlCfg, rdb))
	g.GET("/my", b.ListMine)
}
