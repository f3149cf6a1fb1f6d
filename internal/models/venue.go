package models

import (
	"github.com/uptrace/bun"
)

type Venue struct {
	bun.BaseModel `bun:"table:venues"`

	ID                 int64    `bun:"id,pk,autoincrement" json:"id"`
	Name               string   `bun:"name,notnull" json:"name"`
	City               string   `bun:"city" json:"city"`
	State              string   `bun:"state" json:"state"`
	Address            string   `bun:"address" json:"address"`
	Phone              string   `bun:"phone" json:"phone"`
	ImageLink          string   `bun:"image_link" json:"image_link"`
	FacebookLink       string   `bun:"facebook_link" json:"facebook_link"`
	Genres             []string `bun:"genres,array" json:"genres"`
	Website            string   `bun:"website" json:"website"`
	SeekingDescription string   `bun:"seeking_description" json:"seeking_description"`
	SeekingTalent      bool     `bun:"seeking_talent,notnull" json:"seeking_talent"`
}

// VenueSummary is the row shape used by the grouped listing and search pages.
type VenueSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// VenueArea groups venues that share a (state, city) pair.
type VenueArea struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []VenueSummary `json:"venues"`
}

// VenuePage is the venue detail view: the venue's own fields plus its shows
// partitioned around the current instant.
type VenuePage struct {
	Venue
	PastShows          []ArtistShowView `json:"past_shows"`
	UpcomingShows      []ArtistShowView `json:"upcoming_shows"`
	PastShowsCount     int              `json:"past_shows_count"`
	UpcomingShowsCount int              `json:"upcoming_shows_count"`
}

// ArtistShowView is one show as seen from a venue page: the artist is the
// counterparty being surfaced.
type ArtistShowView struct {
	ArtistID        int64  `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}
