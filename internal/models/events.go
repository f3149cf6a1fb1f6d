package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking event types published to the booking stream.
const (
	EventShowBooked    = "show_booked"
	EventVenueRemoved  = "venue_removed"
	EventArtistRemoved = "artist_removed"
)

// BookingEvent is the envelope for every message on the booking stream.
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	ShowID    int64  `json:"show_id,omitempty"`
	VenueID   int64  `json:"venue_id,omitempty"`
	ArtistID  int64  `json:"artist_id,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	Name      string `json:"name,omitempty"`
}

func NewShowBookedEvent(show Show) BookingEvent {
	return BookingEvent{
		EventID:    uuid.New().String(),
		Type:       EventShowBooked,
		OccurredAt: time.Now().UTC(),
		ShowID:     show.ID,
		VenueID:    show.VenueID,
		ArtistID:   show.ArtistID,
		StartTime:  show.StartTime.UTC().Format(time.RFC3339),
	}
}

func NewVenueRemovedEvent(id int64, name string) BookingEvent {
	return BookingEvent{
		EventID:    uuid.New().String(),
		Type:       EventVenueRemoved,
		OccurredAt: time.Now().UTC(),
		VenueID:    id,
		Name:       name,
	}
}

func NewArtistRemovedEvent(id int64, name string) BookingEvent {
	return BookingEvent{
		EventID:    uuid.New().String(),
		Type:       EventArtistRemoved,
		OccurredAt: time.Now().UTC(),
		ArtistID:   id,
		Name:       name,
	}
}
