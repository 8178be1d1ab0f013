package model

import "time"

// Theatre represents a venue where shows are screened.  Theatres are
// created by the scheduling side of the system and referenced by shows.
type Theatre struct {
	ID        uint64    `json:"id"`         // theatres.id
	Name      string    `json:"name"`       // theatres.name
	Location  string    `json:"location"`   // theatres.location
	CreatedAt time.Time `json:"created_at"` // theatres.created_at
}
