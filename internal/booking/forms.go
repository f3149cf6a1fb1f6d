package booking

import (
	"strconv"
	"time"

	"showbook/internal/models"
	"showbook/internal/storage"
)

// VenueForm carries one venue form submission. Field values arrive as the
// raw strings of the HTML form; coercions happen in Venue().
type VenueForm struct {
	Name               string `validate:"required"`
	City               string
	State              string
	Address            string
	Phone              string
	ImageLink          string
	FacebookLink       string
	Genre              string
	Website            string
	SeekingDescription string
	SeekingFlag        string
}

func (f VenueForm) Venue() models.Venue {
	return models.Venue{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Address:            f.Address,
		Phone:              f.Phone,
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		Genres:             WrapGenre(f.Genre),
		Website:            f.Website,
		SeekingDescription: f.SeekingDescription,
		SeekingTalent:      SeekingFlag(f.SeekingFlag),
	}
}

type ArtistForm struct {
	Name               string `validate:"required"`
	City               string
	State              string
	Phone              string
	ImageLink          string
	FacebookLink       string
	Genre              string
	Website            string
	SeekingDescription string
	SeekingFlag        string
}

func (f ArtistForm) Artist() models.Artist {
	return models.Artist{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		Genres:             WrapGenre(f.Genre),
		Website:            f.Website,
		SeekingDescription: f.SeekingDescription,
		SeekingVenue:       SeekingFlag(f.SeekingFlag),
	}
}

type ShowForm struct {
	ArtistID  string
	VenueID   string
	StartTime string
}

// startTimeLayouts are the accepted formats of the start_time form field.
var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04",
}

func (f ShowForm) Show() (models.Show, error) {
	artistID, err := strconv.ParseInt(f.ArtistID, 10, 64)
	if err != nil {
		return models.Show{}, storage.NewValidationError("artist_id", "must be an integer")
	}
	venueID, err := strconv.ParseInt(f.VenueID, 10, 64)
	if err != nil {
		return models.Show{}, storage.NewValidationError("venue_id", "must be an integer")
	}

	var startTime time.Time
	parsed := false
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, f.StartTime); err == nil {
			startTime = t
			parsed = true
			break
		}
	}
	if !parsed {
		return models.Show{}, storage.NewValidationError("start_time", "unrecognized timestamp")
	}

	return models.Show{ArtistID: artistID, VenueID: venueID, StartTime: startTime}, nil
}
