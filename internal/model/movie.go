package model

import "time"

// Movie represents a film that can be scheduled for shows.  This struct
// corresponds to a row in the `movies` table.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Description – synopsis shown in listings.
//  DurationMin – running time in minutes.
//  Language    – audio language.
//  Genre       – primary genre label.
//  Rating      – aggregate rating on a 0–5 scale.
//  ImageURL    – poster image location.
//  CreatedAt   – timestamp when the movie was added.
type Movie struct {
	ID          uint64    `json:"id"`           // movies.id
	Title       string    `json:"title"`        // movies.title
	Description string    `json:"description"`  // movies.description
	DurationMin uint32    `json:"duration_min"` // movies.duration_min
	Language    string    `json:"language"`     // movies.language
	Genre       string    `json:"genre"`        // movies.genre
	Rating      float64   `json:"rating"`       // movies.rating
	ImageURL    string    `json:"image_url"`    // movies.image_url
	CreatedAt   time.Time `json:"created_at"`   // movies.created_at
}
