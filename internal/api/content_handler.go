package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/aiignite/admind/internal/content"
)

// contentHandler groups announcement, timeline, live session and submission
// HTTP handlers.
type contentHandler struct {
	svc *content.Service
}

func newContentHandler(svc *content.Service) *contentHandler {
	return &contentHandler{svc: svc}
}

func isValidationErr(err error) bool {
	return errors.Is(err, content.ErrTitleBodyRequired) ||
		errors.Is(err, content.ErrTimelineTitleRequired) ||
		errors.Is(err, content.ErrInvalidTimelineStatus) ||
		errors.Is(err, content.ErrSessionFieldsRequired)
}

// Dashboard handles GET /api/v1/dashboard.
func (h *contentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.DashboardCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load dashboard counts")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// ListAnnouncements handles GET /api/v1/announcements.
func (h *contentHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListAnnouncements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list announcements")
		return
	}
	if items == nil {
		items = []*content.Announcement{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"announcements": items})
}

type announcementRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"is_published"`
}

// PostAnnouncement handles POST /api/v1/announcements.
func (h *contentHandler) PostAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	id, err := h.svc.PostAnnouncement(r.Context(), req.Title, req.Body, req.Published)
	switch {
	case isValidationErr(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to post announcement")
		return
	}

	auditLog(r, "create", "announcement", id)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// UpdateAnnouncement handles PUT /api/v1/announcements/{id}.
func (h *contentHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req announcementRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	err := h.svc.UpdateAnnouncement(r.Context(), id, req.Title, req.Body, req.Published)
	switch {
	case isValidationErr(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "announcement not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update announcement")
		return
	}

	auditLog(r, "update", "announcement", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAnnouncement handles DELETE /api/v1/announcements/{id}.
func (h *contentHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.svc.DeleteAnnouncement(r.Context(), id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "announcement not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete announcement")
		return
	}

	auditLog(r, "delete", "announcement", id)
	w.WriteHeader(http.StatusNoContent)
}

// Timeline handles GET /api/v1/timeline.
func (h *contentHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Timeline(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list timeline")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateTimelineEntry handles POST /api/v1/timeline.
func (h *contentHandler) CreateTimelineEntry(w http.ResponseWriter, r *http.Request) {
	var in content.TimelineInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	e, err := h.svc.CreateTimelineEntry(r.Context(), in)
	switch {
	case isValidationErr(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create timeline entry")
		return
	}

	auditLog(r, "create", "timeline_entry", e.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": e})
}

// UpdateTimelineEntry handles PUT /api/v1/timeline/{id}.
func (h *contentHandler) UpdateTimelineEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in content.TimelineInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	e, err := h.svc.UpdateTimelineEntry(r.Context(), id, in)
	switch {
	case isValidationErr(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "timeline entry not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update timeline entry")
		return
	}

	auditLog(r, "update", "timeline_entry", id)
	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": e})
}

// DeleteTimelineEntry handles DELETE /api/v1/timeline/{id}.
func (h *contentHandler) DeleteTimelineEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.svc.DeleteTimelineEntry(r.Context(), id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "timeline entry not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete timeline entry")
		return
	}

	auditLog(r, "delete", "timeline_entry", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListSessions handles GET /api/v1/sessions.
func (h *contentHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list sessions")
		return
	}
	if items == nil {
		items = []*content.LiveSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": items})
}

// CreateSession handles POST /api/v1/sessions.
func (h *contentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var in content.LiveSessionInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	ls, err := h.svc.CreateSession(r.Context(), in)
	switch {
	case isValidationErr(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	auditLog(r, "create", "live_session", ls.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"session": ls})
}

// UpdateSession handles PUT /api/v1/sessions/{id}.
func (h *contentHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in content.LiveSessionInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	ls, err := h.svc.UpdateSession(r.Context(), id, in)
	switch {
	case isValidationErr(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "session not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update session")
		return
	}

	auditLog(r, "update", "live_session", id)
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": ls})
}

// DeleteSession handles DELETE /api/v1/sessions/{id}.
func (h *contentHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.svc.DeleteSession(r.Context(), id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "session not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete session")
		return
	}

	auditLog(r, "delete", "live_session", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListSubmissions handles GET /api/v1/solutions.
func (h *contentHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListSubmissions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list submissions")
		return
	}
	if items == nil {
		items = []*content.Submission{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": items})
}

// SetShortlisted handles PATCH /api/v1/solutions/{id}/shortlist.
func (h *contentHandler) SetShortlisted(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Shortlisted bool `json:"is_shortlisted"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	err := h.svc.SetShortlisted(r.Context(), id, req.Shortlisted)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "submission not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update shortlist flag")
		return
	}

	auditLog(r, "update", "submission", id, "is_shortlisted", req.Shortlisted)
	w.WriteHeader(http.StatusNoContent)
}
