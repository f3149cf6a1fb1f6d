package models

import (
	"github.com/uptrace/bun"
)

type Artist struct {
	bun.BaseModel `bun:"table:artists"`

	ID                 int64    `bun:"id,pk,autoincrement" json:"id"`
	Name               string   `bun:"name,notnull" json:"name"`
	City               string   `bun:"city" json:"city"`
	State              string   `bun:"state" json:"state"`
	Phone              string   `bun:"phone" json:"phone"`
	ImageLink          string   `bun:"image_link" json:"image_link"`
	FacebookLink       string   `bun:"facebook_link" json:"facebook_link"`
	Genres             []string `bun:"genres,array" json:"genres"`
	Website            string   `bun:"website" json:"website"`
	SeekingDescription string   `bun:"seeking_description" json:"seeking_description"`
	SeekingVenue       bool     `bun:"seeking_venue,notnull" json:"seeking_venue"`
}

// ArtistSummary is the row shape used by the artist listing and search pages.
type ArtistSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// ArtistPage is the artist detail view with shows partitioned around the
// current instant.
type ArtistPage struct {
	Artist
	PastShows          []VenueShowView `json:"past_shows"`
	UpcomingShows      []VenueShowView `json:"upcoming_shows"`
	PastShowsCount     int             `json:"past_shows_count"`
	UpcomingShowsCount int             `json:"upcoming_shows_count"`
}

// VenueShowView is one show as seen from an artist page: the venue is the
// counterparty being surfaced.
type VenueShowView struct {
	VenueID        int64  `json:"venue_id"`
	VenueName      string `json:"venue_name"`
	VenueImageLink string `json:"venue_image_link"`
	StartTime      string `json:"start_time"`
}
