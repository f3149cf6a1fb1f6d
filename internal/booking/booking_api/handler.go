package booking_api

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"showbook/internal/booking"
	"showbook/internal/booking/qr"
	"showbook/internal/logger"
	"showbook/internal/models"
	"showbook/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Handler struct {
	Service  *booking.BookingService
	QR       *qr.Generator
	Logger   *logger.Logger
	validate *validator.Validate
	tmpl     *template.Template
}

func NewHandler(service *booking.BookingService, qrGen *qr.Generator, log *logger.Logger) *Handler {
	return &Handler{
		Service:  service,
		QR:       qrGen,
		Logger:   log,
		validate: validator.New(),
		tmpl:     template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

// Routes wires the full booking surface onto a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Home)

	r.Route("/venues", func(r chi.Router) {
		r.Get("/", h.Venues)
		r.Post("/search", h.SearchVenues)
		r.Get("/create", h.NewVenueForm)
		r.Post("/create", h.CreateVenue)
		r.Get("/{venueID}", h.ShowVenue)
		r.Delete("/{venueID}", h.DeleteVenue)
		r.Get("/{venueID}/edit", h.EditVenueForm)
		r.Post("/{venueID}/edit", h.UpdateVenue)
	})

	r.Route("/artists", func(r chi.Router) {
		r.Get("/", h.Artists)
		r.Post("/search", h.SearchArtists)
		r.Get("/create", h.NewArtistForm)
		r.Post("/create", h.CreateArtist)
		r.Get("/{artistID}", h.ShowArtist)
		r.Delete("/{artistID}", h.DeleteArtist)
		r.Get("/{artistID}/edit", h.EditArtistForm)
		r.Post("/{artistID}/edit", h.UpdateArtist)
	})

	r.Route("/shows", func(r chi.Router) {
		r.Get("/", h.Shows)
		r.Get("/create", h.NewShowForm)
		r.Post("/create", h.CreateShow)
		r.Get("/{showID}/qrcode", h.ShowQRCode)
	})

	return r
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home.html", map[string]any{"Flash": ""})
}

// ---------------- VENUES ----------------

func (h *Handler) Venues(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Service.VenuesByArea(r.Context())
	if err != nil {
		h.serverError(w, "Failed to list venues", err)
		return
	}
	h.render(w, "venues.html", map[string]any{"Areas": areas})
}

func (h *Handler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	term := r.FormValue("search_term")
	results, err := h.Service.SearchVenues(r.Context(), term)
	if err != nil {
		h.serverError(w, "Venue search failed", err)
		return
	}
	h.render(w, "search.html", map[string]any{
		"SearchTerm": term,
		"Results":    results,
		"BasePath":   "/venues",
	})
}

func (h *Handler) ShowVenue(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "venueID")
	if err != nil {
		http.Error(w, "Invalid venue id", http.StatusBadRequest)
		return
	}
	page, err := h.Service.GetVenuePage(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		h.serverError(w, "Failed to load venue", err)
		return
	}
	h.render(w, "venue.html", map[string]any{"Page": page})
}

func (h *Handler) NewVenueForm(w http.ResponseWriter, r *http.Request) {
	h.renderVenueForm(w, "List a new venue", "/venues/create", booking.VenueForm{}, "")
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	form := venueFormFromRequest(r)
	if err := h.validate.Struct(form); err != nil {
		h.renderVenueForm(w, "List a new venue", "/venues/create", form,
			"An error occurred. Venue "+form.Name+" could not be listed.")
		return
	}

	venue, err := h.Service.CreateVenue(r.Context(), form)
	if err != nil {
		h.render(w, "home.html", map[string]any{
			"Flash": "An error occurred. Venue " + form.Name + " could not be listed.",
		})
		return
	}
	h.render(w, "home.html", map[string]any{
		"Flash": "Venue " + venue.Name + " was successfully listed!",
	})
}

func (h *Handler) EditVenueForm(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "venueID")
	if err != nil {
		http.Error(w, "Invalid venue id", http.StatusBadRequest)
		return
	}
	venue, err := h.Service.DB.GetVenueByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		h.serverError(w, "Failed to load venue", err)
		return
	}
	h.renderVenueForm(w, "Edit venue "+venue.Name, fmt.Sprintf("/venues/%d/edit", id),
		venueFormFromModel(*venue), "")
}

func (h *Handler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "venueID")
	if err != nil {
		http.Error(w, "Invalid venue id", http.StatusBadRequest)
		return
	}
	form := venueFormFromRequest(r)
	if err := h.Service.UpdateVenue(r.Context(), id, form); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		h.render(w, "home.html", map[string]any{
			"Flash": "An error occurred. Venue " + form.Name + " could not be updated.",
		})
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/venues/%d", id), http.StatusSeeOther)
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "venueID")
	if err != nil {
		http.Error(w, "Invalid venue id", http.StatusBadRequest)
		return
	}
	name, err := h.Service.DeleteVenue(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}
		w.WriteHeader(status)
		w.Write([]byte("Venue " + name + " did not deleted successfully!"))
		return
	}
	w.Write([]byte("Venue " + name + " got deleted!"))
}

// ---------------- ARTISTS ----------------

func (h *Handler) Artists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.Service.ListArtists(r.Context())
	if err != nil {
		h.serverError(w, "Failed to list artists", err)
		return
	}
	h.render(w, "artists.html", map[string]any{"Artists": artists})
}

func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	term := r.FormValue("search_term")
	results, err := h.Service.SearchArtists(r.Context(), term)
	if err != nil {
		h.serverError(w, "Artist search failed", err)
		return
	}
	h.render(w, "search.html", map[string]any{
		"SearchTerm": term,
		"Results":    results,
		"BasePath":   "/artists",
	})
}

func (h *Handler) ShowArtist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "artistID")
	if err != nil {
		http.Error(w, "Invalid artist id", http.StatusBadRequest)
		return
	}
	page, err := h.Service.GetArtistPage(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Artist not found", http.StatusNotFound)
			return
		}
		h.serverError(w, "Failed to load artist", err)
		return
	}
	h.render(w, "artist.html", map[string]any{"Page": page})
}

func (h *Handler) NewArtistForm(w http.ResponseWriter, r *http.Request) {
	h.renderArtistForm(w, "List a new artist", "/artists/create", booking.ArtistForm{}, "")
}

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	form := artistFormFromRequest(r)
	if err := h.validate.Struct(form); err != nil {
		h.renderArtistForm(w, "List a new artist", "/artists/create", form,
			"An error occurred. Artist "+form.Name+" could not be listed.")
		return
	}

	artist, err := h.Service.CreateArtist(r.Context(), form)
	if err != nil {
		h.render(w, "home.html", map[string]any{
			"Flash": "An error occurred. Artist " + form.Name + " could not be listed.",
		})
		return
	}
	h.render(w, "home.html", map[string]any{
		"Flash": "Artist " + artist.Name + " was successfully listed!",
	})
}

func (h *Handler) EditArtistForm(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "artistID")
	if err != nil {
		http.Error(w, "Invalid artist id", http.StatusBadRequest)
		return
	}
	artist, err := h.Service.DB.GetArtistByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Artist not found", http.StatusNotFound)
			return
		}
		h.serverError(w, "Failed to load artist", err)
		return
	}
	h.renderArtistForm(w, "Edit artist "+artist.Name, fmt.Sprintf("/artists/%d/edit", id),
		artistFormFromModel(*artist), "")
}

func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "artistID")
	if err != nil {
		http.Error(w, "Invalid artist id", http.StatusBadRequest)
		return
	}
	form := artistFormFromRequest(r)
	if err := h.Service.UpdateArtist(r.Context(), id, form); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Artist not found", http.StatusNotFound)
			return
		}
		h.render(w, "home.html", map[string]any{
			"Flash": "An error occurred. Artist " + form.Name + " could not be updated.",
		})
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/artists/%d", id), http.StatusSeeOther)
}

func (h *Handler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "artistID")
	if err != nil {
		http.Error(w, "Invalid artist id", http.StatusBadRequest)
		return
	}
	name, err := h.Service.DeleteArtist(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}
		w.WriteHeader(status)
		w.Write([]byte("Artist " + name + " did not deleted successfully!"))
		return
	}
	w.Write([]byte("Artist " + name + " got deleted!"))
}

// ---------------- SHOWS ----------------

func (h *Handler) Shows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.Service.ListShows(r.Context())
	if err != nil {
		h.serverError(w, "Failed to list shows", err)
		return
	}
	h.render(w, "shows.html", map[string]any{"Shows": shows})
}

func (h *Handler) NewShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "show_form.html", map[string]any{"Flash": ""})
}

func (h *Handler) CreateShow(w http.ResponseWriter, r *http.Request) {
	form := booking.ShowForm{
		ArtistID:  r.FormValue("artist_id"),
		VenueID:   r.FormValue("venue_id"),
		StartTime: r.FormValue("start_time"),
	}

	_, err := h.Service.CreateShow(r.Context(), form)
	switch {
	case err == nil:
		h.render(w, "home.html", map[string]any{"Flash": "Show was successfully listed!"})
	case errors.Is(err, booking.ErrVenueMissing):
		h.render(w, "home.html", map[string]any{"Flash": "No Venue with such id."})
	case errors.Is(err, booking.ErrArtistMissing):
		h.render(w, "home.html", map[string]any{"Flash": "No Artist with such id."})
	case storage.IsValidation(err):
		h.render(w, "show_form.html", map[string]any{"Flash": "An error occurred. Show could not be listed."})
	default:
		h.render(w, "home.html", map[string]any{"Flash": "An error occurred. Show could not be listed."})
	}
}

func (h *Handler) ShowQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "showID")
	if err != nil {
		http.Error(w, "Invalid show id", http.StatusBadRequest)
		return
	}
	if _, err := h.Service.GetShow(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Show not found", http.StatusNotFound)
			return
		}
		h.serverError(w, "Failed to load show", err)
		return
	}

	png, err := h.QR.ShowPNG(id)
	if err != nil {
		h.serverError(w, "Failed to generate QR code", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// ---------------- helpers ----------------

func urlID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

func venueFormFromRequest(r *http.Request) booking.VenueForm {
	return booking.VenueForm{
		Name:               r.FormValue("name"),
		City:               r.FormValue("city"),
		State:              r.FormValue("state"),
		Address:            r.FormValue("address"),
		Phone:              r.FormValue("phone"),
		ImageLink:          r.FormValue("image_link"),
		FacebookLink:       r.FormValue("facebook_link"),
		Genre:              r.FormValue("genres"),
		Website:            r.FormValue("website"),
		SeekingDescription: r.FormValue("seeking_description"),
		SeekingFlag:        r.FormValue("seeking_talent"),
	}
}

func venueFormFromModel(venue models.Venue) booking.VenueForm {
	form := booking.VenueForm{
		Name:               venue.Name,
		City:               venue.City,
		State:              venue.State,
		Address:            venue.Address,
		Phone:              venue.Phone,
		ImageLink:          venue.ImageLink,
		FacebookLink:       venue.FacebookLink,
		Website:            venue.Website,
		SeekingDescription: venue.SeekingDescription,
	}
	if len(venue.Genres) > 0 {
		form.Genre = venue.Genres[0]
	}
	if venue.SeekingTalent {
		form.SeekingFlag = "y"
	}
	return form
}

func artistFormFromRequest(r *http.Request) booking.ArtistForm {
	return booking.ArtistForm{
		Name:               r.FormValue("name"),
		City:               r.FormValue("city"),
		State:              r.FormValue("state"),
		Phone:              r.FormValue("phone"),
		ImageLink:          r.FormValue("image_link"),
		FacebookLink:       r.FormValue("facebook_link"),
		Genre:              r.FormValue("genres"),
		Website:            r.FormValue("website"),
		SeekingDescription: r.FormValue("seeking_description"),
		SeekingFlag:        r.FormValue("seeking_venue"),
	}
}

func artistFormFromModel(artist models.Artist) booking.ArtistForm {
	form := booking.ArtistForm{
		Name:               artist.Name,
		City:               artist.City,
		State:              artist.State,
		Phone:              artist.Phone,
		ImageLink:          artist.ImageLink,
		FacebookLink:       artist.FacebookLink,
		Website:            artist.Website,
		SeekingDescription: artist.SeekingDescription,
	}
	if len(artist.Genres) > 0 {
		form.Genre = artist.Genres[0]
	}
	if artist.SeekingVenue {
		form.SeekingFlag = "y"
	}
	return form
}

func (h *Handler) renderVenueForm(w http.ResponseWriter, title, action string, form booking.VenueForm, flash string) {
	h.render(w, "venue_form.html", map[string]any{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"States": models.StateCodes,
		"Genres": models.GenreNames,
		"Flash":  flash,
	})
}

func (h *Handler) renderArtistForm(w http.ResponseWriter, title, action string, form booking.ArtistForm, flash string) {
	h.render(w, "artist_form.html", map[string]any{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"States": models.StateCodes,
		"Genres": models.GenreNames,
		"Flash":  flash,
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil && h.Logger != nil {
		h.Logger.Error("TEMPLATE", fmt.Sprintf("Failed to render %s: %v", name, err))
	}
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	if h.Logger != nil {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", message, err))
	}
	http.Error(w, message, http.StatusInternalServerError)
}
