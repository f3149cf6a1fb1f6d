package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"showbook/internal/booking/db"
	"showbook/internal/logger"
	"showbook/internal/models"
	"showbook/internal/storage"
)

// timeLayout is the rendering format for show start times on listing and
// detail pages.
const timeLayout = "2006-01-02 15:04:05"

// Booking a show against a counterparty that does not exist fails before
// any row is written.
var (
	ErrVenueMissing  = errors.New("no venue with such id")
	ErrArtistMissing = errors.New("no artist with such id")
)

type DBLayer interface {
	ListVenueLocations(ctx context.Context) ([]db.Location, error)
	GetVenuesByLocation(ctx context.Context, state, city string) ([]models.Venue, error)
	GetVenueByID(ctx context.Context, id int64) (*models.Venue, error)
	SearchVenuesByName(ctx context.Context, term string) ([]models.Venue, error)
	CreateVenue(ctx context.Context, venue *models.Venue) error
	UpdateVenue(ctx context.Context, venue models.Venue) error
	DeleteVenue(ctx context.Context, id int64) error

	ListArtists(ctx context.Context) ([]models.Artist, error)
	GetArtistByID(ctx context.Context, id int64) (*models.Artist, error)
	SearchArtistsByName(ctx context.Context, term string) ([]models.Artist, error)
	CreateArtist(ctx context.Context, artist *models.Artist) error
	UpdateArtist(ctx context.Context, artist models.Artist) error
	DeleteArtist(ctx context.Context, id int64) error

	GetShowsByVenue(ctx context.Context, venueID int64) ([]models.Show, error)
	GetShowsByArtist(ctx context.Context, artistID int64) ([]models.Show, error)
	ListShows(ctx context.Context) ([]models.Show, error)
	GetShowByID(ctx context.Context, id int64) (*models.Show, error)
	CreateShow(ctx context.Context, show *models.Show) error
	CountUpcomingShowsByVenue(ctx context.Context, venueID int64, now time.Time) (int, error)
	CountUpcomingShowsByArtist(ctx context.Context, artistID int64, now time.Time) (int, error)
}

type EventPublisher interface {
	PublishShowBooked(show models.Show) error
	PublishVenueRemoved(id int64, name string) error
	PublishArtistRemoved(id int64, name string) error
}

// SearchResults is the payload rendered by the venue and artist search
// pages.
type SearchResults struct {
	Count int                   `json:"count"`
	Data  []models.VenueSummary `json:"data"`
}

type BookingService struct {
	DB     DBLayer
	Events EventPublisher
	Logger *logger.Logger
}

func NewBookingService(db DBLayer, events EventPublisher, log *logger.Logger) *BookingService {
	return &BookingService{DB: db, Events: events, Logger: log}
}

// ---------------- VENUES ----------------

// VenuesByArea groups every venue by (state, city) and annotates each with
// its upcoming-show count.
func (s *BookingService) VenuesByArea(ctx context.Context) ([]models.VenueArea, error) {
	locations, err := s.DB.ListVenueLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list venue locations: %w", err)
	}

	now := time.Now()
	areas := make([]models.VenueArea, 0, len(locations))
	for _, loc := range locations {
		venues, err := s.DB.GetVenuesByLocation(ctx, loc.State, loc.City)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch venues for %s/%s: %w", loc.State, loc.City, err)
		}

		summaries := make([]models.VenueSummary, 0, len(venues))
		for _, venue := range venues {
			count, err := s.DB.CountUpcomingShowsByVenue(ctx, venue.ID, now)
			if err != nil {
				return nil, fmt.Errorf("failed to count shows for venue %d: %w", venue.ID, err)
			}
			summaries = append(summaries, models.VenueSummary{
				ID:               venue.ID,
				Name:             venue.Name,
				NumUpcomingShows: count,
			})
		}
		areas = append(areas, models.VenueArea{City: loc.City, State: loc.State, Venues: summaries})
	}
	return areas, nil
}

// SearchVenues matches venue names case-insensitively. An empty term
// matches every venue.
func (s *BookingService) SearchVenues(ctx context.Context, term string) (SearchResults, error) {
	venues, err := s.DB.SearchVenuesByName(ctx, term)
	if err != nil {
		return SearchResults{}, fmt.Errorf("venue search failed: %w", err)
	}

	now := time.Now()
	data := make([]models.VenueSummary, 0, len(venues))
	for _, venue := range venues {
		count, err := s.DB.CountUpcomingShowsByVenue(ctx, venue.ID, now)
		if err != nil {
			return SearchResults{}, fmt.Errorf("failed to count shows for venue %d: %w", venue.ID, err)
		}
		data = append(data, models.VenueSummary{ID: venue.ID, Name: venue.Name, NumUpcomingShows: count})
	}
	return SearchResults{Count: len(data), Data: data}, nil
}

// GetVenuePage builds the venue detail view: shows referencing the venue
// are partitioned around the current instant and each one surfaces its
// artist counterparty.
func (s *BookingService) GetVenuePage(ctx context.Context, id int64) (*models.VenuePage, error) {
	venue, err := s.DB.GetVenueByID(ctx, id)
	if err != nil {
		return nil, err
	}

	shows, err := s.DB.GetShowsByVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shows for venue %d: %w", id, err)
	}

	past, upcoming := PartitionShows(shows, time.Now())

	page := &models.VenuePage{
		Venue:         *venue,
		PastShows:     []models.ArtistShowView{},
		UpcomingShows: []models.ArtistShowView{},
	}
	for _, show := range past {
		view, err := s.artistShowView(ctx, show)
		if err != nil {
			return nil, err
		}
		page.PastShows = append(page.PastShows, view)
	}
	for _, show := range upcoming {
		view, err := s.artistShowView(ctx, show)
		if err != nil {
			return nil, err
		}
		page.UpcomingShows = append(page.UpcomingShows, view)
	}
	page.PastShowsCount = len(page.PastShows)
	page.UpcomingShowsCount = len(page.UpcomingShows)
	return page, nil
}

func (s *BookingService) artistShowView(ctx context.Context, show models.Show) (models.ArtistShowView, error) {
	artist, err := s.DB.GetArtistByID(ctx, show.ArtistID)
	if err != nil {
		return models.ArtistShowView{}, fmt.Errorf("failed to resolve artist %d: %w", show.ArtistID, err)
	}
	return models.ArtistShowView{
		ArtistID:        artist.ID,
		ArtistName:      artist.Name,
		ArtistImageLink: artist.ImageLink,
		StartTime:       show.StartTime.Format(timeLayout),
	}, nil
}

// checkChoices rejects state codes and genres outside the form's select
// options.
func checkChoices(state string, genres []string) error {
	if state != "" && !models.IsStateCode(state) {
		return storage.NewValidationError("state", "unknown state code")
	}
	for _, genre := range genres {
		if !models.IsGenre(genre) {
			return storage.NewValidationError("genres", "unknown genre")
		}
	}
	return nil
}

func (s *BookingService) CreateVenue(ctx context.Context, form VenueForm) (*models.Venue, error) {
	venue := form.Venue()
	if err := checkChoices(venue.State, venue.Genres); err != nil {
		return nil, err
	}
	if err := s.DB.CreateVenue(ctx, &venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	s.logInfo("VENUE", fmt.Sprintf("Created venue %d (%s)", venue.ID, venue.Name))
	return &venue, nil
}

func (s *BookingService) UpdateVenue(ctx context.Context, id int64, form VenueForm) error {
	venue := form.Venue()
	venue.ID = id
	if err := checkChoices(venue.State, venue.Genres); err != nil {
		return err
	}
	if err := s.DB.UpdateVenue(ctx, venue); err != nil {
		return err
	}
	s.logInfo("VENUE", fmt.Sprintf("Updated venue %d", id))
	return nil
}

// DeleteVenue removes the venue and returns its name for the confirmation
// message.
func (s *BookingService) DeleteVenue(ctx context.Context, id int64) (string, error) {
	venue, err := s.DB.GetVenueByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.DB.DeleteVenue(ctx, id); err != nil {
		return venue.Name, err
	}
	s.logInfo("VENUE", fmt.Sprintf("Deleted venue %d (%s)", id, venue.Name))
	s.publish(func(p EventPublisher) error { return p.PublishVenueRemoved(id, venue.Name) })
	return venue.Name, nil
}

// ---------------- ARTISTS ----------------

func (s *BookingService) ListArtists(ctx context.Context) ([]models.ArtistSummary, error) {
	artists, err := s.DB.ListArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	summaries := make([]models.ArtistSummary, 0, len(artists))
	for _, artist := range artists {
		summaries = append(summaries, models.ArtistSummary{ID: artist.ID, Name: artist.Name})
	}
	return summaries, nil
}

func (s *BookingService) SearchArtists(ctx context.Context, term string) (SearchResults, error) {
	artists, err := s.DB.SearchArtistsByName(ctx, term)
	if err != nil {
		return SearchResults{}, fmt.Errorf("artist search failed: %w", err)
	}

	now := time.Now()
	data := make([]models.VenueSummary, 0, len(artists))
	for _, artist := range artists {
		count, err := s.DB.CountUpcomingShowsByArtist(ctx, artist.ID, now)
		if err != nil {
			return SearchResults{}, fmt.Errorf("failed to count shows for artist %d: %w", artist.ID, err)
		}
		data = append(data, models.VenueSummary{ID: artist.ID, Name: artist.Name, NumUpcomingShows: count})
	}
	return SearchResults{Count: len(data), Data: data}, nil
}

func (s *BookingService) GetArtistPage(ctx context.Context, id int64) (*models.ArtistPage, error) {
	artist, err := s.DB.GetArtistByID(ctx, id)
	if err != nil {
		return nil, err
	}

	shows, err := s.DB.GetShowsByArtist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shows for artist %d: %w", id, err)
	}

	past, upcoming := PartitionShows(shows, time.Now())

	page := &models.ArtistPage{
		Artist:        *artist,
		PastShows:     []models.VenueShowView{},
		UpcomingShows: []models.VenueShowView{},
	}
	for _, show := range past {
		view, err := s.venueShowView(ctx, show)
		if err != nil {
			return nil, err
		}
		page.PastShows = append(page.PastShows, view)
	}
	for _, show := range upcoming {
		view, err := s.venueShowView(ctx, show)
		if err != nil {
			return nil, err
		}
		page.UpcomingShows = append(page.UpcomingShows, view)
	}
	page.PastShowsCount = len(page.PastShows)
	page.UpcomingShowsCount = len(page.UpcomingShows)
	return page, nil
}

func (s *BookingService) venueShowView(ctx context.Context, show models.Show) (models.VenueShowView, error) {
	venue, err := s.DB.GetVenueByID(ctx, show.VenueID)
	if err != nil {
		return models.VenueShowView{}, fmt.Errorf("failed to resolve venue %d: %w", show.VenueID, err)
	}
	return models.VenueShowView{
		VenueID:        venue.ID,
		VenueName:      venue.Name,
		VenueImageLink: venue.ImageLink,
		StartTime:      show.StartTime.Format(timeLayout),
	}, nil
}

func (s *BookingService) CreateArtist(ctx context.Context, form ArtistForm) (*models.Artist, error) {
	artist := form.Artist()
	if err := checkChoices(artist.State, artist.Genres); err != nil {
		return nil, err
	}
	if err := s.DB.CreateArtist(ctx, &artist); err != nil {
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}
	s.logInfo("ARTIST", fmt.Sprintf("Created artist %d (%s)", artist.ID, artist.Name))
	return &artist, nil
}

func (s *BookingService) UpdateArtist(ctx context.Context, id int64, form ArtistForm) error {
	artist := form.Artist()
	artist.ID = id
	if err := checkChoices(artist.State, artist.Genres); err != nil {
		return err
	}
	if err := s.DB.UpdateArtist(ctx, artist); err != nil {
		return err
	}
	s.logInfo("ARTIST", fmt.Sprintf("Updated artist %d", id))
	return nil
}

func (s *BookingService) DeleteArtist(ctx context.Context, id int64) (string, error) {
	artist, err := s.DB.GetArtistByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.DB.DeleteArtist(ctx, id); err != nil {
		return artist.Name, err
	}
	s.logInfo("ARTIST", fmt.Sprintf("Deleted artist %d (%s)", id, artist.Name))
	s.publish(func(p EventPublisher) error { return p.PublishArtistRemoved(id, artist.Name) })
	return artist.Name, nil
}

// ---------------- SHOWS ----------------

func (s *BookingService) ListShows(ctx context.Context) ([]models.ShowListing, error) {
	shows, err := s.DB.ListShows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}

	listings := make([]models.ShowListing, 0, len(shows))
	for _, show := range shows {
		listing := models.ShowListing{
			VenueID:   show.VenueID,
			ArtistID:  show.ArtistID,
			StartTime: show.StartTime.Format(timeLayout),
		}
		if show.Venue != nil {
			listing.VenueName = show.Venue.Name
		}
		if show.Artist != nil {
			listing.ArtistName = show.Artist.Name
			listing.ArtistImageLink = show.Artist.ImageLink
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// CreateShow verifies that both counterparties exist before inserting:
// every show must reference an existing artist and venue at creation time.
func (s *BookingService) CreateShow(ctx context.Context, form ShowForm) (*models.Show, error) {
	show, err := form.Show()
	if err != nil {
		return nil, err
	}

	if _, err := s.DB.GetVenueByID(ctx, show.VenueID); err != nil {
		return nil, fmt.Errorf("venue %d: %w", show.VenueID, ErrVenueMissing)
	}
	if _, err := s.DB.GetArtistByID(ctx, show.ArtistID); err != nil {
		return nil, fmt.Errorf("artist %d: %w", show.ArtistID, ErrArtistMissing)
	}

	if err := s.DB.CreateShow(ctx, &show); err != nil {
		return nil, fmt.Errorf("failed to create show: %w", err)
	}
	s.logInfo("SHOW", fmt.Sprintf("Booked show %d: artist %d at venue %d", show.ID, show.ArtistID, show.VenueID))
	s.publish(func(p EventPublisher) error { return p.PublishShowBooked(show) })
	return &show, nil
}

func (s *BookingService) GetShow(ctx context.Context, id int64) (*models.Show, error) {
	return s.DB.GetShowByID(ctx, id)
}

// ---------------- helpers ----------------

// PartitionShows splits shows into past and upcoming relative to now. A
// show starting exactly at now is past: upcoming is strictly after.
func PartitionShows(shows []models.Show, now time.Time) (past, upcoming []models.Show) {
	for _, show := range shows {
		if show.StartTime.After(now) {
			upcoming = append(upcoming, show)
		} else {
			past = append(past, show)
		}
	}
	return past, upcoming
}

func (s *BookingService) logInfo(category, message string) {
	if s.Logger != nil {
		s.Logger.Info(category, message)
	}
}

// publish sends a booking event when a publisher is wired; delivery
// failures are logged, never surfaced to the caller.
func (s *BookingService) publish(fn func(EventPublisher) error) {
	if s.Events == nil {
		return
	}
	if err := fn(s.Events); err != nil {
		if s.Logger != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish booking event: %v", err))
		}
	}
}
