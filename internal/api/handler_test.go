package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aiignite/admind/internal/booking"
	"github.com/aiignite/admind/internal/mentor"
	"github.com/aiignite/admind/internal/notify"
)

// ---------------------------------------------------------------------------
// Login rate limiter tests
// ---------------------------------------------------------------------------

func TestLoginRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := newLoginRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.allow("1.2.3.4")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, retryAfter := rl.allow("1.2.3.4")
	if allowed {
		t.Error("expected request 4 to be denied")
	}
	if retryAfter < 1 {
		t.Errorf("expected retryAfter >= 1, got %d", retryAfter)
	}
}

func TestLoginRateLimiter_SeparateIPs(t *testing.T) {
	rl := newLoginRateLimiter(2, time.Minute)

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.1")

	allowed, _ := rl.allow("10.0.0.1")
	if allowed {
		t.Error("IP A should be denied after 2 attempts")
	}

	allowed, _ = rl.allow("10.0.0.2")
	if !allowed {
		t.Error("IP B should still be allowed")
	}
}

func TestLoginRateLimiter_WindowResets(t *testing.T) {
	rl := newLoginRateLimiter(1, 10*time.Millisecond)

	allowed, _ := rl.allow("1.2.3.4")
	if !allowed {
		t.Fatal("first request should be allowed")
	}

	allowed, _ = rl.allow("1.2.3.4")
	if allowed {
		t.Fatal("second request should be denied")
	}

	time.Sleep(15 * time.Millisecond)

	allowed, _ = rl.allow("1.2.3.4")
	if !allowed {
		t.Error("request after window reset should be allowed")
	}
}

func TestLoginRateLimiter_Cleanup(t *testing.T) {
	rl := newLoginRateLimiter(1, 10*time.Millisecond)

	rl.allow("1.2.3.4")
	rl.allow("5.6.7.8")

	count := 0
	rl.entries.Range(func(_, _ interface{}) bool { count++; return true })
	if count != 2 {
		t.Fatalf("expected 2 entries, got %d", count)
	}

	time.Sleep(15 * time.Millisecond)
	rl.cleanup()

	count = 0
	rl.entries.Range(func(_, _ interface{}) bool { count++; return true })
	if count != 0 {
		t.Errorf("expected 0 entries after cleanup, got %d", count)
	}
}

// ---------------------------------------------------------------------------
// writeError / writeJSON / readJSON helper tests
// ---------------------------------------------------------------------------

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, "not_found", "resource not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var envelope errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if envelope.Error.Code != "not_found" || envelope.Error.Message != "resource not found" {
		t.Errorf("unexpected envelope: %+v", envelope)
	}
}

func TestReadJSON_SizeLimit(t *testing.T) {
	big := strings.Repeat("x", maxBodySize+100)
	body := `{"field":"` + big + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var v struct {
		Field string `json:"field"`
	}
	if err := readJSON(req, &v); err == nil {
		t.Error("expected error decoding oversized body")
	}
}

// ---------------------------------------------------------------------------
// Middleware tests
// ---------------------------------------------------------------------------

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var captured string
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured == "" {
		t.Error("expected a generated request ID in context")
	}
	if rec.Header().Get("X-Request-ID") != captured {
		t.Error("response header should carry the same request ID")
	}
}

func TestRequestIDMiddleware_PreservesProvidedID(t *testing.T) {
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "my-id-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "my-id-123" {
		t.Errorf("expected provided ID to be kept, got %q", got)
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	id := RequestIDFromContext(context.Background())
	if id != "" {
		t.Errorf("expected empty string from bare context, got %q", id)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := secureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	handler := corsMiddleware([]string{"https://admin.example.com"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("preflight should not reach the handler")
		}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/teams", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	handler := corsMiddleware([]string{"https://admin.example.com"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin should not be allowed, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// Mentors handler tests
// ---------------------------------------------------------------------------

type mentorStoreStub struct {
	insertErr error
	inserted  int
}

func (s *mentorStoreStub) CreateMentor(_ context.Context, name, designation, email string) (*mentor.Mentor, error) {
	return &mentor.Mentor{ID: "mentor-1", Name: name, Designation: designation, Email: email}, nil
}

func (s *mentorStoreStub) InsertSlots(_ context.Context, mentorID string, drafts []mentor.SlotDraft) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted += len(drafts)
	return nil
}

func (s *mentorStoreStub) UpdateSlot(_ context.Context, slotID string, d mentor.SlotDraft) (*mentor.Slot, error) {
	return &mentor.Slot{ID: slotID}, nil
}

func (s *mentorStoreStub) DeleteSlot(_ context.Context, slotID string) error { return nil }

func (s *mentorStoreStub) ListWithSlots(_ context.Context) ([]*mentor.Mentor, error) {
	return nil, nil
}

func TestMentorsCreate_RequiresName(t *testing.T) {
	h := newMentorsHandler(mentor.NewService(&mentorStoreStub{}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mentors",
		strings.NewReader(`{"name":"  ","slots":[]}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestMentorsCreate_SlotFailureReturnsMentorWithWarning(t *testing.T) {
	stub := &mentorStoreStub{insertErr: errors.New("db down")}
	h := newMentorsHandler(mentor.NewService(stub))

	body := `{"name":"Dr. A","slots":[{"slot_date":"2026-09-01","start_time":"10:00","end_time":"10:30"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mentors", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp struct {
		Mentor  *mentor.Mentor `json:"mentor"`
		Warning string         `json:"warning"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Mentor == nil || resp.Mentor.ID != "mentor-1" {
		t.Errorf("mentor = %+v", resp.Mentor)
	}
	if resp.Warning == "" {
		t.Error("expected a warning about unsaved slots")
	}
}

func TestMentorsAddSlot_Validation(t *testing.T) {
	h := newMentorsHandler(mentor.NewService(&mentorStoreStub{}))

	r := chi.NewRouter()
	r.Post("/api/v1/mentors/{id}/slots", h.AddSlot)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mentors/mentor-1/slots",
		strings.NewReader(`{"slot_date":"2026-09-01"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Bookings handler tests
// ---------------------------------------------------------------------------

type bookingStoreStub struct {
	booking *booking.Booking
}

func (s *bookingStoreStub) Get(_ context.Context, id string) (*booking.Booking, error) {
	b := *s.booking
	return &b, nil
}

func (s *bookingStoreStub) SetMeetingLink(_ context.Context, id, link string) error { return nil }

func (s *bookingStoreStub) List(_ context.Context) ([]*booking.Booking, error) {
	b := *s.booking
	return []*booking.Booking{&b}, nil
}

type teamEmailsStub struct{ emails []string }

func (s *teamEmailsStub) EmailsByTeam(_ context.Context, teamID string) ([]string, error) {
	return s.emails, nil
}

type mentorEmailsStub struct{ email string }

func (s *mentorEmailsStub) EmailByMentor(_ context.Context, mentorID string) (string, error) {
	return s.email, nil
}

func newTestBookingsHandler(mailer notify.Mailer) *bookingsHandler {
	store := &bookingStoreStub{booking: &booking.Booking{
		ID: "bk-1", TeamID: "team-1", TeamName: "T1",
		MentorID: "mentor-1", MentorName: "Dr. A",
		Slot: booking.SlotSnapshot{Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30"},
	}}
	wf := booking.NewWorkflow(store,
		&teamEmailsStub{emails: []string{"m1@example.com"}},
		&mentorEmailsStub{email: "dra@example.com"},
		mailer, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return newBookingsHandler(nil, wf, nil)
}

func TestSaveMeetingLink_EmptyLinkRejected(t *testing.T) {
	mailer := &notify.Recorder{}
	h := newTestBookingsHandler(mailer)

	r := chi.NewRouter()
	r.Put("/api/v1/bookings/{id}/meeting-link", h.SaveMeetingLink)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/bk-1/meeting-link",
		strings.NewReader(`{"meeting_link":"  "}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	if len(mailer.Sent()) != 0 {
		t.Error("no dispatch should happen for an empty link")
	}
}

func TestSaveMeetingLink_Success(t *testing.T) {
	mailer := &notify.Recorder{}
	h := newTestBookingsHandler(mailer)

	r := chi.NewRouter()
	r.Put("/api/v1/bookings/{id}/meeting-link", h.SaveMeetingLink)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/bk-1/meeting-link",
		strings.NewReader(`{"meeting_link":"https://meet.example/xyz"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res booking.SaveResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !res.Dispatched {
		t.Error("expected dispatch to succeed")
	}
	if len(res.Recipients) != 2 {
		t.Errorf("recipients = %v", res.Recipients)
	}
	if res.Booking.MeetingLink != "https://meet.example/xyz" {
		t.Errorf("booking link = %q", res.Booking.MeetingLink)
	}
	if len(mailer.Sent()) != 1 {
		t.Errorf("expected one dispatch, got %d", len(mailer.Sent()))
	}
}
