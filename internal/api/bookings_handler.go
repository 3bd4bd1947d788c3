package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/aiignite/admind/internal/booking"
	"github.com/aiignite/admind/internal/metrics"
)

// bookingsHandler groups mentoring session HTTP handlers.
type bookingsHandler struct {
	store    *booking.Store
	workflow *booking.Workflow
	metrics  *metrics.Metrics
}

func newBookingsHandler(store *booking.Store, workflow *booking.Workflow, m *metrics.Metrics) *bookingsHandler {
	return &bookingsHandler{store: store, workflow: workflow, metrics: m}
}

// List handles GET /api/v1/bookings.
func (h *bookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []*booking.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

// SaveMeetingLink handles PUT /api/v1/bookings/{id}/meeting-link. The link
// update is the only hard failure; recipient resolution, dispatch and reload
// are reported through the warnings list in the response.
func (h *bookingsHandler) SaveMeetingLink(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	var req struct {
		MeetingLink string `json:"meeting_link"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	res, err := h.workflow.SaveMeetingLink(r.Context(), bookingID, req.MeetingLink)
	switch {
	case errors.Is(err, booking.ErrLinkRequired):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case errors.Is(err, booking.ErrSaveInFlight):
		writeError(w, http.StatusConflict, "save_in_flight", err.Error())
		return
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "booking not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to save meeting link")
		return
	}

	if h.metrics != nil && len(res.Recipients) > 0 {
		h.metrics.IncDispatch("email", res.Dispatched)
	}
	auditLog(r, "save_meeting_link", "booking", bookingID,
		"recipients", len(res.Recipients), "dispatched", res.Dispatched)
	writeJSON(w, http.StatusOK, res)
}
