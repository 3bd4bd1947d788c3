package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/aiignite/admind/internal/team"
)

// teamsHandler groups team and member HTTP handlers.
type teamsHandler struct {
	store *team.Store
}

func newTeamsHandler(store *team.Store) *teamsHandler {
	return &teamsHandler{store: store}
}

// List handles GET /api/v1/teams.
func (h *teamsHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.ListTeams(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list teams")
		return
	}
	if teams == nil {
		teams = []*team.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// Get handles GET /api/v1/teams/{id}.
func (h *teamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTeam(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "team not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get team")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"team": t})
}

// ListTeamMembers handles GET /api/v1/teams/{id}/members.
func (h *teamsHandler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTeam(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "team not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list team members")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": t.Members})
}

// GetTeamMember handles GET /api/v1/teams/{id}/members/{memberID}.
func (h *teamsHandler) GetTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")
	m, err := h.store.GetMember(r.Context(), chi.URLParam(r, "memberID"))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "member not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get member")
		return
	}
	if m.TeamID != teamID {
		writeError(w, http.StatusNotFound, "not_found", "member not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"member": m})
}

// SearchMembers handles GET /api/v1/members?q=.
func (h *teamsHandler) SearchMembers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	members, err := h.store.SearchMembers(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to search members")
		return
	}
	if members == nil {
		members = []*team.Member{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

// GetMember handles GET /api/v1/members/{id}.
func (h *teamsHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetMember(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "member not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get member")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"member": m})
}
