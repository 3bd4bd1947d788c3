package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/aiignite/admind/internal/auth"
	"github.com/aiignite/admind/internal/metrics"
	"github.com/aiignite/admind/internal/user"
)

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	store       *user.Store
	revocations *auth.Revocations
	limiter     *loginRateLimiter
	metrics     *metrics.Metrics
}

func newAuthHandler(store *user.Store, revocations *auth.Revocations, limiter *loginRateLimiter, m *metrics.Metrics) *authHandler {
	return &authHandler{store: store, revocations: revocations, limiter: limiter, metrics: m}
}

// Login handles POST /api/v1/auth/login. A successful password check is not
// enough: the console is admin-only, so the admin role is verified before the
// session is handed out, and a session created for a non-admin is revoked on
// the spot.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	if allowed, retryAfter := h.limiter.allow(clientIP(r)); !allowed {
		if h.metrics != nil {
			h.metrics.IncRateLimitRejection("login")
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeError(w, http.StatusTooManyRequests, "rate_limited",
			fmt.Sprintf("too many login attempts, retry in %d seconds", retryAfter))
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.incFailure()
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	if !user.CheckPassword(u, req.Password) {
		h.incFailure()
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	token, session, err := h.store.CreateSession(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	// Fail closed: a role-check error is treated the same as a non-admin.
	isAdmin, err := h.store.IsAdmin(r.Context(), u.ID)
	if err != nil || !isAdmin {
		_ = h.store.DeleteSession(r.Context(), token)
		h.incFailure()
		auditLog(r, "login_denied", "user", u.ID, "email", u.Email)
		writeError(w, http.StatusForbidden, "not_authorized", "Not authorized")
		return
	}

	h.incSuccess()
	auditLog(r, "login", "user", u.ID, "email", u.Email)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": session.ExpiresAt,
		"user": map[string]interface{}{
			"id":    u.ID,
			"email": u.Email,
			"name":  u.Name,
			"role":  u.Role,
		},
	})
}

// Me handles GET /api/v1/auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.ExtractBearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	_ = h.store.DeleteSession(r.Context(), token)
	h.revocations.Publish(user.HashToken(token))
	w.WriteHeader(http.StatusNoContent)
}

// Events handles GET /api/v1/auth/events: a server-sent event stream that
// tells the client when its own session has been revoked, so the UI can bail
// out of the protected tree without waiting for its next request to fail.
func (h *authHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	ownHash := user.HashToken(auth.ExtractBearerToken(r))

	revoked := make(chan struct{}, 1)
	unsubscribe := h.revocations.Subscribe(func(tokenHash string) {
		if tokenHash == ownHash {
			select {
			case revoked <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	select {
	case <-r.Context().Done():
	case <-revoked:
		fmt.Fprint(w, "event: signed_out\ndata: {\"reason\":\"Not authorized\"}\n\n")
		flusher.Flush()
	}
}

func (h *authHandler) incSuccess() {
	if h.metrics != nil {
		h.metrics.IncAuthSuccess("password")
	}
}

func (h *authHandler) incFailure() {
	if h.metrics != nil {
		h.metrics.IncAuthFailure("password")
	}
}
