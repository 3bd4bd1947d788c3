package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aiignite/admind/internal/notify"
)

// Errors returned before any remote call is made.
var (
	ErrLinkRequired = errors.New("meeting link is required")
	ErrSaveInFlight = errors.New("a save for this booking is already in progress")
)

// Stage names one step of the meeting-link save sequence.
type Stage string

const (
	StageLinkSave          Stage = "link_save"
	StageResolveRecipients Stage = "resolve_recipients"
	StageDispatch          Stage = "dispatch"
	StageReload            Stage = "reload"
)

// Warning is a stage that failed without aborting the workflow.
type Warning struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// SaveResult reports the disposition of every stage of one save. The link
// update itself either succeeded (a result is returned) or failed (an error
// is returned instead); everything after it is soft and lands in Warnings.
type SaveResult struct {
	Booking    *Booking   `json:"booking"`
	Recipients []string   `json:"recipients"`
	Dispatched bool       `json:"dispatched"`
	Warnings   []Warning  `json:"warnings"`
	Bookings   []*Booking `json:"bookings,omitempty"`
}

// BookingStore is the persistence surface the workflow drives.
type BookingStore interface {
	Get(ctx context.Context, id string) (*Booking, error)
	SetMeetingLink(ctx context.Context, id, link string) error
	List(ctx context.Context) ([]*Booking, error)
}

// TeamEmails resolves the member addresses of one team.
type TeamEmails interface {
	EmailsByTeam(ctx context.Context, teamID string) ([]string, error)
}

// MentorEmails resolves a mentor's address.
type MentorEmails interface {
	EmailByMentor(ctx context.Context, mentorID string) (string, error)
}

// AuditRecorder receives one entry per dispatch attempt. Implemented by
// notify.Collector; may be nil.
type AuditRecorder interface {
	Record(e notify.Entry)
}

// Workflow runs the meeting-link save sequence. The steps are deliberately
// not transactional: each later stage's failure is downgraded to a warning so
// a partial success stays visible, and the persisted link is never undone.
type Workflow struct {
	store   BookingStore
	teams   TeamEmails
	mentors MentorEmails
	mailer  notify.Mailer
	audit   AuditRecorder
	logger  *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewWorkflow creates a Workflow. audit may be nil.
func NewWorkflow(store BookingStore, teams TeamEmails, mentors MentorEmails, mailer notify.Mailer, audit AuditRecorder, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:    store,
		teams:    teams,
		mentors:  mentors,
		mailer:   mailer,
		audit:    audit,
		logger:   logger,
		inFlight: make(map[string]bool),
	}
}

// SaveMeetingLink persists the link on a booking and notifies every
// stakeholder. Re-invoking with the same link sends the same notifications
// again; there is no dedup at the notification layer. A second save for the
// same booking while one is running returns ErrSaveInFlight; other bookings
// are unaffected.
func (w *Workflow) SaveMeetingLink(ctx context.Context, bookingID, link string) (*SaveResult, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, ErrLinkRequired
	}

	w.mu.Lock()
	if w.inFlight[bookingID] {
		w.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	w.inFlight[bookingID] = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		delete(w.inFlight, bookingID)
		w.mu.Unlock()
	}()

	b, err := w.store.Get(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("loading booking: %w", err)
	}
	if err := w.store.SetMeetingLink(ctx, bookingID, link); err != nil {
		return nil, fmt.Errorf("saving meeting link: %w", err)
	}
	b.MeetingLink = link

	result := &SaveResult{Booking: b}

	memberEmails, err := w.teams.EmailsByTeam(ctx, b.TeamID)
	if err != nil {
		w.logger.Warn("member email lookup failed", "booking_id", bookingID, "team_id", b.TeamID, "error", err)
		result.Warnings = append(result.Warnings, Warning{Stage: StageResolveRecipients, Message: err.Error()})
		memberEmails = nil
	}
	mentorEmail, err := w.mentors.EmailByMentor(ctx, b.MentorID)
	if err != nil {
		w.logger.Warn("mentor email lookup failed", "booking_id", bookingID, "mentor_id", b.MentorID, "error", err)
		result.Warnings = append(result.Warnings, Warning{Stage: StageResolveRecipients, Message: err.Error()})
		mentorEmail = ""
	}

	recipients := make([]string, 0, len(memberEmails)+1)
	for _, e := range memberEmails {
		if e != "" {
			recipients = append(recipients, e)
		}
	}
	if mentorEmail != "" {
		recipients = append(recipients, mentorEmail)
	}
	result.Recipients = recipients

	if len(recipients) > 0 {
		err := w.mailer.SendMeetingLink(ctx, notify.MeetingLinkEmail{
			To:          recipients,
			MeetingLink: link,
			TeamID:      b.TeamID,
			TeamName:    b.TeamName,
			MentorID:    b.MentorID,
			MentorName:  b.MentorName,
			SlotDate:    b.Slot.Date,
			StartTime:   b.Slot.StartTime,
			EndTime:     b.Slot.EndTime,
		})
		result.Dispatched = err == nil
		if err != nil {
			w.logger.Warn("meeting link dispatch failed", "booking_id", bookingID, "recipients", len(recipients), "error", err)
			result.Warnings = append(result.Warnings, Warning{Stage: StageDispatch, Message: err.Error()})
		}
		w.recordDispatch(b, len(recipients), err)
	}

	bookings, err := w.store.List(ctx)
	if err != nil {
		w.logger.Warn("booking reload failed", "booking_id", bookingID, "error", err)
		result.Warnings = append(result.Warnings, Warning{Stage: StageReload, Message: err.Error()})
	} else {
		result.Bookings = bookings
	}

	return result, nil
}

func (w *Workflow) recordDispatch(b *Booking, recipients int, sendErr error) {
	if w.audit == nil {
		return
	}
	e := notify.Entry{
		Channel:    "email",
		Subject:    "meeting link: " + b.TeamName,
		Recipients: recipients,
		BookingID:  b.ID,
		Success:    sendErr == nil,
		SentAt:     time.Now().UTC(),
	}
	if sendErr != nil {
		e.Error = sendErr.Error()
	}
	w.audit.Record(e)
}
