package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"showbook/internal/models"
	"showbook/internal/storage"
)

type DB struct {
	Bun *bun.DB
}

// Location is one (state, city) grouping key from the venues table.
type Location struct {
	State string `bun:"state"`
	City  string `bun:"city"`
}

// ---------------- VENUES ----------------

// ListVenueLocations returns the distinct (state, city) pairs that have at
// least one venue, ordered for deterministic grouping output.
func (d *DB) ListVenueLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	err := d.Bun.NewSelect().
		Model((*models.Venue)(nil)).
		Column("state", "city").
		Group("state", "city").
		Order("state", "city").
		Scan(ctx, &locations)
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (d *DB) GetVenuesByLocation(ctx context.Context, state, city string) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Where("state = ?", state).
		Where("city = ?", city).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

func (d *DB) GetVenueByID(ctx context.Context, id int64) (*models.Venue, error) {
	var venue models.Venue
	err := d.Bun.NewSelect().
		Model(&venue).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return &venue, nil
}

// SearchVenuesByName matches name case-insensitively against a
// wildcard-wrapped pattern. An empty term matches every row.
func (d *DB) SearchVenuesByName(ctx context.Context, term string) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Where("LOWER(name) LIKE ?", likePattern(term)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

func (d *DB) CreateVenue(ctx context.Context, venue *models.Venue) error {
	_, err := d.Bun.NewInsert().Model(venue).Exec(ctx)
	return mapWriteErr(err)
}

func (d *DB) UpdateVenue(ctx context.Context, venue models.Venue) error {
	res, err := d.Bun.NewUpdate().
		Model(&venue).
		Column("name", "city", "state", "address", "phone", "image_link",
			"facebook_link", "genres", "website", "seeking_description", "seeking_talent").
		Where("id = ?", venue.ID).
		Exec(ctx)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireAffected(res)
}

func (d *DB) DeleteVenue(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Venue)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireAffected(res)
}

// ---------------- ARTISTS ----------------

func (d *DB) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := d.Bun.NewSelect().Model(&artists).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return artists, nil
}

func (d *DB) GetArtistByID(ctx context.Context, id int64) (*models.Artist, error) {
	var artist models.Artist
	err := d.Bun.NewSelect().
		Model(&artist).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return &artist, nil
}

func (d *DB) SearchArtistsByName(ctx context.Context, term string) ([]models.Artist, error) {
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
		Where("LOWER(name) LIKE ?", likePattern(term)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return artists, nil
}

func (d *DB) CreateArtist(ctx context.Context, artist *models.Artist) error {
	_, err := d.Bun.NewInsert().Model(artist).Exec(ctx)
	return mapWriteErr(err)
}

func (d *DB) UpdateArtist(ctx context.Context, artist models.Artist) error {
	res, err := d.Bun.NewUpdate().
		Model(&artist).
		Column("name", "city", "state", "phone", "image_link", "facebook_link",
			"genres", "website", "seeking_description", "seeking_venue").
		Where("id = ?", artist.ID).
		Exec(ctx)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireAffected(res)
}

func (d *DB) DeleteArtist(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Artist)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireAffected(res)
}

// ---------------- SHOWS ----------------

func (d *DB) GetShowsByVenue(ctx context.Context, venueID int64) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Where("venue_id = ?", venueID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

func (d *DB) GetShowsByArtist(ctx context.Context, artistID int64) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Where("artist_id = ?", artistID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

func (d *DB) ListShows(ctx context.Context) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Relation("Artist").
		Relation("Venue").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

func (d *DB) GetShowByID(ctx context.Context, id int64) (*models.Show, error) {
	var show models.Show
	err := d.Bun.NewSelect().
		Model(&show).
		Where("show.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return &show, nil
}

func (d *DB) CreateShow(ctx context.Context, show *models.Show) error {
	_, err := d.Bun.NewInsert().Model(show).Exec(ctx)
	return mapWriteErr(err)
}

// CountUpcomingShowsByVenue counts shows strictly after now.
func (d *DB) CountUpcomingShowsByVenue(ctx context.Context, venueID int64, now time.Time) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Show)(nil)).
		Where("venue_id = ?", venueID).
		Where("start_time > ?", now).
		Count(ctx)
}

func (d *DB) CountUpcomingShowsByArtist(ctx context.Context, artistID int64, now time.Time) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Show)(nil)).
		Where("artist_id = ?", artistID).
		Where("start_time > ?", now).
		Count(ctx)
}

// ---------------- helpers ----------------

func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}

func mapReadErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	// Class 23 covers integrity constraint violations.
	if errors.As(err, &pqErr) && strings.HasPrefix(string(pqErr.Code), "23") {
		return storage.ErrConflict
	}
	return err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
