package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/niksalehi/movie-ticket-booking/internal/model"
)

// movieListCacheKey and movieListCacheTTL control the Redis cache for the
// movie catalog.  The list changes rarely and is read on every landing
// page hit, so a short TTL keeps it fresh without invalidation logic.
const (
	movieListCacheKey = "movies:list"
	movieListCacheTTL = 30 * time.Second
)

// MovieRepo provides read access to the movie catalog.  When a Redis
// client is configured the movie list is cached; with a nil client every
// call goes straight to MySQL.
type MovieRepo struct {
	db  *sql.DB
	rdb *redis.Client // optional, may be nil
}

// NewMovieRepo constructs a MovieRepo.  rdb may be nil to disable caching.
func NewMovieRepo(db *sql.DB, rdb *redis.Client) *MovieRepo {
	return &MovieRepo{db: db, rdb: rdb}
}

// List returns all movies, newest first.  Cache errors are logged and
// otherwise ignored; the database remains the source of truth.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	if r.rdb != nil {
		if raw, err := r.rdb.Get(ctx, movieListCacheKey).Bytes(); err == nil {
			var cached []model.Movie
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	const q = `SELECT id, title, COALESCE(description, ''), duration_min, language, genre, rating, image_url, created_at
	           FROM movies ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin,
			&m.Language, &m.Genre, &m.Rating, &m.ImageURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if raw, err := json.Marshal(movies); err == nil {
			if err := r.rdb.Set(ctx, movieListCacheKey, raw, movieListCacheTTL).Err(); err != nil {
				log.Printf("movie cache: set failed: %v", err)
			}
		}
	}
	return movies, nil
}

// GetByID returns a single movie or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, COALESCE(description, ''), duration_min, language, genre, rating, image_url, created_at
	           FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin,
		&m.Language, &m.Genre, &m.Rating, &m.ImageURL, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}
