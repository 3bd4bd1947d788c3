package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/aiignite/admind/internal/mentor"
)

// mentorsHandler groups mentor and slot HTTP handlers.
type mentorsHandler struct {
	svc *mentor.Service
}

func newMentorsHandler(svc *mentor.Service) *mentorsHandler {
	return &mentorsHandler{svc: svc}
}

// List handles GET /api/v1/mentors.
func (h *mentorsHandler) List(w http.ResponseWriter, r *http.Request) {
	mentors, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list mentors")
		return
	}
	if mentors == nil {
		mentors = []*mentor.Mentor{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"mentors": mentors})
}

// Create handles POST /api/v1/mentors. Incomplete slot drafts are dropped;
// if the slots fail to save after the mentor row was created, the mentor is
// returned anyway with a warning so the admin can retry the slots alone.
func (h *mentorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in mentor.CreateMentorInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	m, err := h.svc.CreateWithSlots(r.Context(), in)
	switch {
	case errors.Is(err, mentor.ErrNameRequired):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case errors.Is(err, mentor.ErrSlotsNotSaved):
		auditLog(r, "create", "mentor", m.ID, "slots_saved", false)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"mentor":  m,
			"warning": err.Error(),
		})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create mentor")
		return
	}

	auditLog(r, "create", "mentor", m.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"mentor": m})
}

// AddSlot handles POST /api/v1/mentors/{id}/slots.
func (h *mentorsHandler) AddSlot(w http.ResponseWriter, r *http.Request) {
	mentorID := chi.URLParam(r, "id")

	var d mentor.SlotDraft
	if err := readJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	err := h.svc.AddSlot(r.Context(), mentorID, d)
	switch {
	case errors.Is(err, mentor.ErrSlotFieldsRequired):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to add slot")
		return
	}

	auditLog(r, "create", "mentor_slot", mentorID)
	w.WriteHeader(http.StatusCreated)
}

// UpdateSlot handles PUT /api/v1/slots/{id}.
func (h *mentorsHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "id")

	var d mentor.SlotDraft
	if err := readJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	slot, err := h.svc.UpdateSlot(r.Context(), slotID, d)
	switch {
	case errors.Is(err, mentor.ErrSlotFieldsRequired):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "slot not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update slot")
		return
	}

	auditLog(r, "update", "mentor_slot", slotID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"slot": slot})
}

// DeleteSlot handles DELETE /api/v1/slots/{id}.
func (h *mentorsHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "id")

	err := h.svc.DeleteSlot(r.Context(), slotID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "slot not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete slot")
		return
	}

	auditLog(r, "delete", "mentor_slot", slotID)
	w.WriteHeader(http.StatusNoContent)
}
