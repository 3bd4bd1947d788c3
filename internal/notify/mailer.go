package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// MeetingLinkEmail is the payload sent to the hosted email function when an
// admin saves a meeting link. The function owns the template rendering and
// fans the message out to every address in To.
type MeetingLinkEmail struct {
	To          []string `json:"to"`
	MeetingLink string   `json:"meeting_link"`
	TeamID      string   `json:"team_id"`
	TeamName    string   `json:"team_name"`
	MentorID    string   `json:"mentor_id"`
	MentorName  string   `json:"mentor_name"`
	SlotDate    string   `json:"slot_date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
}

// Mailer sends meeting-link emails through whatever backend is configured.
type Mailer interface {
	SendMeetingLink(ctx context.Context, msg MeetingLinkEmail) error
}

// HTTPMailer delivers mail by calling the hosted email function. The function
// holds the SMTP credentials; this process only holds the service key.
type HTTPMailer struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// NewHTTPMailer creates a mailer posting to {baseURL}/send-email-hackathon.
func NewHTTPMailer(baseURL, serviceKey string, timeout time.Duration) *HTTPMailer {
	return &HTTPMailer{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
	}
}

func (m *HTTPMailer) SendMeetingLink(ctx context.Context, msg MeetingLinkEmail) error {
	if len(msg.To) == 0 {
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/send-email-hackathon", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.serviceKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling email function: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email function returned status %d", resp.StatusCode)
	}
	return nil
}

// ConsoleMailer logs messages instead of sending them. Used in development
// when no email function is running.
type ConsoleMailer struct {
	logger *slog.Logger
}

func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) SendMeetingLink(_ context.Context, msg MeetingLinkEmail) error {
	m.logger.Info("meeting link email (console)",
		"to", msg.To,
		"team", msg.TeamName,
		"mentor", msg.MentorName,
		"link", msg.MeetingLink,
	)
	return nil
}

// Recorder captures sent messages for tests. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	Err  error
	sent []MeetingLinkEmail
}

func (r *Recorder) SendMeetingLink(_ context.Context, msg MeetingLinkEmail) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	return nil
}

// Sent returns a copy of every recorded message.
func (r *Recorder) Sent() []MeetingLinkEmail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MeetingLinkEmail, len(r.sent))
	copy(out, r.sent)
	return out
}
