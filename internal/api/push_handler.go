package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/aiignite/admind/internal/metrics"
	"github.com/aiignite/admind/internal/notify"
)

// pushHandler sends a broadcast push notification to every subscriber.
type pushHandler struct {
	broadcaster notify.Broadcaster
	audit       *notify.Collector
	metrics     *metrics.Metrics
}

func newPushHandler(broadcaster notify.Broadcaster, audit *notify.Collector, m *metrics.Metrics) *pushHandler {
	return &pushHandler{broadcaster: broadcaster, audit: audit, metrics: m}
}

// Broadcast handles POST /api/v1/push.
func (h *pushHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "title and body are required")
		return
	}

	result, err := h.broadcaster.Push(r.Context(), req.Title, req.Body)
	h.record(req.Title, result, err)
	if err != nil {
		writeError(w, http.StatusBadGateway, "push_failed", err.Error())
		return
	}

	auditLog(r, "push_broadcast", "notification", "",
		"sent", result.Sent, "failed", result.Failed, "removed", result.Removed)
	writeJSON(w, http.StatusOK, result)
}

func (h *pushHandler) record(title string, result notify.PushResult, err error) {
	if h.metrics != nil {
		h.metrics.IncDispatch("push", err == nil)
	}
	if h.audit == nil {
		return
	}
	e := notify.Entry{
		Channel:    "push",
		Subject:    title,
		Recipients: result.Sent,
		Success:    err == nil,
		SentAt:     time.Now().UTC(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	h.audit.Record(e)
}
