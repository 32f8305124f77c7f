// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayfront/internal/adapters/bookingapi"
	"stayfront/internal/app"
	"stayfront/internal/domain"
)

type Handlers struct {
	Bookings *app.BookingService
	Reviews  *app.ReviewService
	Rooms    *app.RoomService
	// API backs the per-request status manager for the admin routes.
	API domain.BookingAPI
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/{id}", h.roomPage)
	s.mux.Get("/v1/rooms/{id}/reviews", h.listReviews)
	s.mux.Post("/v1/rooms/{id}/reviews", h.submitReview)
	s.mux.Get("/v1/rooms/{id}/bookings", h.occupiedRanges)

	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/bookings/{id}", h.getBooking)
	s.mux.Get("/v1/users/{id}/bookings", h.userBookings)

	s.mux.Get("/v1/admin/bookings", h.adminListBookings)
	s.mux.Put("/v1/admin/bookings/{id}/status", h.adminSetStatus)
	s.mux.Delete("/v1/admin/bookings/{id}", h.adminDeleteBooking)
	s.mux.Delete("/v1/admin/reviews/{id}", h.adminDeleteReview)
}

// session builds the per-request session from the bearer token and user id
// headers. The token stays opaque; the remote API is the authority on it.
func session(r *http.Request) domain.Session {
	var token string
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return domain.Session{
		UserID: strings.TrimSpace(r.Header.Get("X-User-ID")),
		Token:  token,
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the error taxonomy onto HTTP statuses: validation failures
// are the client's fault, remote failures surface as a bad gateway carrying
// the collaborator's message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingUser):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case domain.IsValidation(err):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, bookingapi.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, bookingapi.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, bookingapi.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		writeProblem(w, http.StatusBadGateway, "Upstream Error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable writes v with a weak ETag, answering 304 when the client
// already holds this version.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- rooms ----

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	roomType := r.URL.Query().Get("type")
	page := 1
	if ps := r.URL.Query().Get("page"); ps != "" {
		p, err := strconv.Atoi(ps)
		if err != nil || p <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
			return
		}
		page = p
	}
	rooms, err := h.Rooms.List(r.Context(), roomType, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, rooms)
}

func (h *Handlers) roomPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.Rooms.Page(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, page)
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Reviews.ListByRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if rs == nil {
		rs = []domain.Review{}
	}
	writeCacheable(w, r, rs)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating  float64 `json:"rating"`
		Comment string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	review, err := h.Reviews.Submit(r.Context(), session(r), chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handlers) adminDeleteReview(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if err := h.Reviews.Delete(r.Context(), session(r), chi.URLParam(r, "id"), roomID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- bookings ----

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID       string `json:"roomId"`
		CheckInDate  string `json:"checkInDate"`
		CheckOutDate string `json:"checkOutDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}

	stay, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	booking, err := h.Bookings.CreateForRoom(r.Context(), session(r), req.RoomID, stay)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// parseStay converts the wire dates into a StayRange. Absent dates stay zero
// so the workflow can reject them as a missing range; malformed ones are a
// transport-level error.
func parseStay(in, out string) (domain.StayRange, error) {
	var stay domain.StayRange
	if in != "" {
		d, err := domain.ParseDate(in)
		if err != nil {
			return domain.StayRange{}, err
		}
		stay.CheckIn = d
	}
	if out != "" {
		d, err := domain.ParseDate(out)
		if err != nil {
			return domain.StayRange{}, err
		}
		stay.CheckOut = d
	}
	return stay, nil
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Receipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) userBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.History(r.Context(), session(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if bs == nil {
		bs = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) occupiedRanges(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.Bookings.OccupiedRanges(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranges)
}

// ---- admin ----

func (h *Handlers) adminListBookings(w http.ResponseWriter, r *http.Request) {
	mgr := app.NewStatusManager(h.API)
	if err := mgr.Load(r.Context(), session(r)); err != nil {
		writeError(w, err)
		return
	}
	bs := mgr.Bookings()
	if bs == nil {
		bs = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) adminSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	st, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := session(r)
	id := chi.URLParam(r, "id")

	mgr := app.NewStatusManager(h.API)
	if err := mgr.Load(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	// Stage locally first, then push; the staged value survives a failed push.
	_ = mgr.SetStatus(id, req.Status)
	updated, err := mgr.Save(r.Context(), id, st, sess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) adminDeleteBooking(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	mgr := app.NewStatusManager(h.API)
	if err := mgr.Load(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	if err := mgr.Remove(r.Context(), chi.URLParam(r, "id"), sess); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
