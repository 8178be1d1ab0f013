package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/niksalehi/movie-ticket-booking/internal/config"
	"github.com/niksalehi/movie-ticket-booking/internal/database"
	"github.com/niksalehi/movie-ticket-booking/internal/handler"
	"github.com/niksalehi/movie-ticket-booking/internal/queue"
	"github.com/niksalehi/movie-ticket-booking/internal/repository"
	"github.com/niksalehi/movie-ticket-booking/internal/router"
	"github.com/niksalehi/movie-ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil disables caching and rate limiting
	if rdb == nil {
		log.Printf("redis unavailable; catalog cache and rate limiting disabled")
	}

	movieRepo := repository.NewMovieRepo(db, rdb)
	showRepo := repository.NewShowRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	bookingSvc := service.NewBookingService(showRepo, bookingRepo, cfg.PricePerSeat, queue.PublishBookingConfirmed)

	// Background consumer appends confirmations to logs/booking.log and
	// reconnects on broker failures for the lifetime of the process.
	go queue.StartBookingConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, tokenRepo))
	router.RegisterMovies(e, handler.NewMovieHandler(movieRepo, showRepo))
	router.RegisterBookings(e, handler.NewBookingHandler(bookingSvc), cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Printf("http server stopped: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM with a hard 10s limit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
