package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aiignite/admind/internal/auth"
	"github.com/aiignite/admind/internal/booking"
	"github.com/aiignite/admind/internal/content"
	"github.com/aiignite/admind/internal/mentor"
	"github.com/aiignite/admind/internal/metrics"
	"github.com/aiignite/admind/internal/notify"
	"github.com/aiignite/admind/internal/team"
	"github.com/aiignite/admind/internal/user"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Users       *user.Store
	Gate        *auth.Gate
	Revocations *auth.Revocations
	Mentors     *mentor.Service
	Bookings    *booking.Store
	Workflow    *booking.Workflow
	Teams       *team.Store
	Content     *content.Service
	Broadcaster notify.Broadcaster
	Audit       *notify.Collector
	Metrics     *metrics.Metrics

	LoginRateLimit  int
	LoginRateWindow time.Duration
	CORSOrigins     []string
}

// NewRouter builds the chi router with all routes and middleware. Everything
// under /api/v1 except login is behind the admin gate.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.CORSOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// Handlers.
	limiter := newLoginRateLimiter(deps.LoginRateLimit, deps.LoginRateWindow)
	go func() {
		ticker := time.NewTicker(deps.LoginRateWindow)
		defer ticker.Stop()
		for range ticker.C {
			limiter.cleanup()
		}
	}()
	authH := newAuthHandler(deps.Users, deps.Revocations, limiter, deps.Metrics)
	mentorsH := newMentorsHandler(deps.Mentors)
	bookingsH := newBookingsHandler(deps.Bookings, deps.Workflow, deps.Metrics)
	teamsH := newTeamsHandler(deps.Teams)
	contentH := newContentHandler(deps.Content)
	pushH := newPushHandler(deps.Broadcaster, deps.Audit, deps.Metrics)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler())
	}

	// Login is the only unauthenticated API route.
	r.Post("/api/v1/auth/login", authH.Login)

	// Admin-gated routes.
	r.Route("/api/v1", func(ar chi.Router) {
		ar.Use(deps.Gate.Middleware)

		ar.Get("/auth/me", authH.Me)
		ar.Post("/auth/logout", authH.Logout)
		ar.Get("/auth/events", authH.Events)

		ar.Get("/dashboard", contentH.Dashboard)

		ar.Get("/teams", teamsH.List)
		ar.Get("/teams/{id}", teamsH.Get)
		ar.Get("/teams/{id}/members", teamsH.ListTeamMembers)
		ar.Get("/teams/{id}/members/{memberID}", teamsH.GetTeamMember)
		ar.Get("/members", teamsH.SearchMembers)
		ar.Get("/members/{id}", teamsH.GetMember)

		ar.Get("/mentors", mentorsH.List)
		ar.Post("/mentors", mentorsH.Create)
		ar.Post("/mentors/{id}/slots", mentorsH.AddSlot)
		ar.Put("/slots/{id}", mentorsH.UpdateSlot)
		ar.Delete("/slots/{id}", mentorsH.DeleteSlot)

		ar.Get("/bookings", bookingsH.List)
		ar.Put("/bookings/{id}/meeting-link", bookingsH.SaveMeetingLink)

		ar.Get("/announcements", contentH.ListAnnouncements)
		ar.Post("/announcements", contentH.PostAnnouncement)
		ar.Put("/announcements/{id}", contentH.UpdateAnnouncement)
		ar.Delete("/announcements/{id}", contentH.DeleteAnnouncement)

		ar.Get("/timeline", contentH.Timeline)
		ar.Post("/timeline", contentH.CreateTimelineEntry)
		ar.Put("/timeline/{id}", contentH.UpdateTimelineEntry)
		ar.Delete("/timeline/{id}", contentH.DeleteTimelineEntry)

		ar.Get("/sessions", contentH.ListSessions)
		ar.Post("/sessions", contentH.CreateSession)
		ar.Put("/sessions/{id}", contentH.UpdateSession)
		ar.Delete("/sessions/{id}", contentH.DeleteSession)

		ar.Get("/solutions", contentH.ListSubmissions)
		ar.Patch("/solutions/{id}/shortlist", contentH.SetShortlisted)

		ar.Post("/push", pushH.Broadcast)
	})

	return r
}
