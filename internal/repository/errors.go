// Package repository defines sentinel errors reused across multiple
// repositories.  Handlers compare against these with errors.Is to pick
// the right HTTP status, so no failure mode is ever swallowed on the way
// up the stack.
package repository

import "errors"

// ErrShowNotFound indicates that no show exists for the given ID.
// Terminal for the request; handlers translate it to 404.
var ErrShowNotFound = errors.New("show not found")

// ErrMovieNotFound indicates that no movie exists for the given ID.
var ErrMovieNotFound = errors.New("movie not found")

// ErrInvalidSeat is returned when a requested seat number lies outside
// [1, totalSeats] for the show.  The check never mutates state.
var ErrInvalidSeat = errors.New("seat number out of range")

// ErrSeatConflict is returned when at least one requested seat is already
// booked at the moment of the atomic claim.  The caller may retry with a
// different seat selection; handlers translate it to 409.
var ErrSeatConflict = errors.New("seat already booked")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
