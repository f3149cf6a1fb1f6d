package booking_api_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"showbook/internal/booking"
	"showbook/internal/booking/booking_api"
	booking_db "showbook/internal/booking/db"
	"showbook/internal/booking/qr"
	"showbook/internal/models"
)

func setupTestServer(t *testing.T) (*httptest.Server, *booking_db.DB) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Venue)(nil), (*models.Artist)(nil), (*models.Show)(nil),
	} {
		if err := bunDB.ResetModel(ctx, model); err != nil {
			t.Fatalf("Failed to reset model %T: %v", model, err)
		}
	}

	database := &booking_db.DB{Bun: bunDB}
	service := booking.NewBookingService(database, nil, nil)
	handler := booking_api.NewHandler(service, qr.NewGenerator("http://localhost:8080"), nil)
	server := httptest.NewServer(handler.Routes())

	t.Cleanup(func() {
		server.Close()
		bunDB.Close()
	})
	return server, database
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

func TestCreateVenueFlash(t *testing.T) {
	server, _ := setupTestServer(t)

	form := url.Values{
		"name":           {"The Musical Hop"},
		"city":           {"San Francisco"},
		"state":          {"CA"},
		"address":        {"1015 Folsom Street"},
		"genres":         {"Jazz"},
		"seeking_talent": {"y"},
	}
	resp, err := http.PostForm(server.URL+"/venues/create", form)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "Venue The Musical Hop was successfully listed!")
}

func TestCreateVenueMissingNameFlash(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.PostForm(server.URL+"/venues/create", url.Values{
		"city":  {"San Francisco"},
		"state": {"CA"},
	})
	assert.NoError(t, err)

	body := readBody(t, resp)
	assert.Contains(t, body, "could not be listed.")
}

func TestDeleteVenueMessages(t *testing.T) {
	server, database := setupTestServer(t)

	venue := models.Venue{Name: "The Dueling Pianos Bar", City: "New York", State: "NY"}
	if err := database.CreateVenue(context.Background(), &venue); err != nil {
		t.Fatalf("Failed to create venue: %v", err)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/venues/%d", server.URL, venue.ID), nil)
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Venue The Dueling Pianos Bar got deleted!", readBody(t, resp))

	// Deleting the same venue again fails with a 404
	req, _ = http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/venues/%d", server.URL, venue.ID), nil)
	resp, err = http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "did not deleted successfully!")
}

func TestVenueSearchPage(t *testing.T) {
	server, database := setupTestServer(t)

	ctx := context.Background()
	for _, name := range []string{"The Musical Hop", "Park Square Live Music & Coffee"} {
		venue := models.Venue{Name: name, City: "San Francisco", State: "CA"}
		if err := database.CreateVenue(ctx, &venue); err != nil {
			t.Fatalf("Failed to create venue: %v", err)
		}
	}

	resp, err := http.PostForm(server.URL+"/venues/search", url.Values{"search_term": {"hop"}})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "The Musical Hop")
	assert.NotContains(t, body, "Park Square")
}

func TestShowVenueNotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/venues/9999")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateArtistFlash(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.PostForm(server.URL+"/artists/create", url.Values{
		"name":          {"Guns N Petals"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"genres":        {"Rock n Roll"},
		"seeking_venue": {"y"},
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "Artist Guns N Petals was successfully listed!")
}

func TestDeleteArtistMessages(t *testing.T) {
	server, database := setupTestServer(t)

	artist := models.Artist{Name: "Matt Quevedo", City: "New York", State: "NY"}
	if err := database.CreateArtist(context.Background(), &artist); err != nil {
		t.Fatalf("Failed to create artist: %v", err)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/artists/%d", server.URL, artist.ID), nil)
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Artist Matt Quevedo got deleted!", readBody(t, resp))
}

func TestCreateShowCounterpartyChecks(t *testing.T) {
	server, database := setupTestServer(t)

	ctx := context.Background()
	venue := models.Venue{Name: "The Musical Hop", City: "San Francisco", State: "CA"}
	if err := database.CreateVenue(ctx, &venue); err != nil {
		t.Fatalf("Failed to create venue: %v", err)
	}
	artist := models.Artist{Name: "Guns N Petals", City: "San Francisco", State: "CA"}
	if err := database.CreateArtist(ctx, &artist); err != nil {
		t.Fatalf("Failed to create artist: %v", err)
	}

	start := time.Now().Add(24 * time.Hour).Format("2006-01-02 15:04:05")

	// Nonexistent venue
	resp, err := http.PostForm(server.URL+"/shows/create", url.Values{
		"artist_id":  {fmt.Sprint(artist.ID)},
		"venue_id":   {"9999"},
		"start_time": {start},
	})
	assert.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "No Venue with such id.")

	// Nonexistent artist
	resp, err = http.PostForm(server.URL+"/shows/create", url.Values{
		"artist_id":  {"9999"},
		"venue_id":   {fmt.Sprint(venue.ID)},
		"start_time": {start},
	})
	assert.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "No Artist with such id.")

	// Both counterparties exist
	resp, err = http.PostForm(server.URL+"/shows/create", url.Values{
		"artist_id":  {fmt.Sprint(artist.ID)},
		"venue_id":   {fmt.Sprint(venue.ID)},
		"start_time": {start},
	})
	assert.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Show was successfully listed!")
}

func TestShowQRCode(t *testing.T) {
	server, database := setupTestServer(t)

	ctx := context.Background()
	venue := models.Venue{Name: "The Musical Hop", City: "San Francisco", State: "CA"}
	if err := database.CreateVenue(ctx, &venue); err != nil {
		t.Fatalf("Failed to create venue: %v", err)
	}
	artist := models.Artist{Name: "Guns N Petals", City: "San Francisco", State: "CA"}
	if err := database.CreateArtist(ctx, &artist); err != nil {
		t.Fatalf("Failed to create artist: %v", err)
	}
	show := models.Show{ArtistID: artist.ID, VenueID: venue.ID, StartTime: time.Now().Add(time.Hour)}
	if err := database.CreateShow(ctx, &show); err != nil {
		t.Fatalf("Failed to create show: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("%s/shows/%d/qrcode", server.URL, show.ID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, readBody(t, resp))

	resp, err = http.Get(server.URL + "/shows/9999/qrcode")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVenuesGroupedByArea(t *testing.T) {
	server, database := setupTestServer(t)

	ctx := context.Background()
	fixtures := []models.Venue{
		{Name: "The Musical Hop", City: "San Francisco", State: "CA"},
		{Name: "The Dueling Pianos Bar", City: "New York", State: "NY"},
	}
	for i := range fixtures {
		if err := database.CreateVenue(ctx, &fixtures[i]); err != nil {
			t.Fatalf("Failed to create venue: %v", err)
		}
	}

	resp, err := http.Get(server.URL + "/venues")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "San Francisco")
	assert.Contains(t, body, "New York")
	// CA sorts before NY
	assert.Less(t, strings.Index(body, "San Francisco"), strings.Index(body, "New York"))
}
