package content

import (
	"context"
	"errors"
	"strings"
)

// Validation errors raised before any query runs.
var (
	ErrTitleBodyRequired     = errors.New("title and message are required")
	ErrTimelineTitleRequired = errors.New("timeline title is required")
	ErrInvalidTimelineStatus = errors.New("status must be upcoming or past")
	ErrSessionFieldsRequired = errors.New("title, date, time and youtube url are required")
)

// ContentStore is the persistence surface the service drives. Implemented by
// *Store.
type ContentStore interface {
	ListAnnouncements(ctx context.Context) ([]*Announcement, error)
	PostAnnouncement(ctx context.Context, title, body string, published bool) (string, error)
	UpdateAnnouncement(ctx context.Context, id, title, body string, published bool) error
	DeleteAnnouncement(ctx context.Context, id string) error

	ListTimeline(ctx context.Context) ([]*TimelineEntry, error)
	CreateTimelineEntry(ctx context.Context, in TimelineInput) (*TimelineEntry, error)
	UpdateTimelineEntry(ctx context.Context, id string, in TimelineInput) (*TimelineEntry, error)
	DeleteTimelineEntry(ctx context.Context, id string) error

	ListSessions(ctx context.Context) ([]*LiveSession, error)
	CreateSession(ctx context.Context, in LiveSessionInput) (*LiveSession, error)
	UpdateSession(ctx context.Context, id string, in LiveSessionInput) (*LiveSession, error)
	DeleteSession(ctx context.Context, id string) error

	ListSubmissions(ctx context.Context) ([]*Submission, error)
	SetShortlisted(ctx context.Context, id string, shortlisted bool) error

	GetDashboardCounts(ctx context.Context) (*DashboardCounts, error)
}

// Service provides validated content operations.
type Service struct {
	store ContentStore
}

// NewService creates a new Service wrapping the given store.
func NewService(store ContentStore) *Service {
	return &Service{store: store}
}

func (s *Service) ListAnnouncements(ctx context.Context) ([]*Announcement, error) {
	return s.store.ListAnnouncements(ctx)
}

// PostAnnouncement publishes a new announcement. Title and body must be
// non-blank.
func (s *Service) PostAnnouncement(ctx context.Context, title, body string, published bool) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(body) == "" {
		return "", ErrTitleBodyRequired
	}
	return s.store.PostAnnouncement(ctx, title, body, published)
}

func (s *Service) UpdateAnnouncement(ctx context.Context, id, title, body string, published bool) error {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(body) == "" {
		return ErrTitleBodyRequired
	}
	return s.store.UpdateAnnouncement(ctx, id, title, body, published)
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.store.DeleteAnnouncement(ctx, id)
}

// Timeline returns the timeline split the way the page renders it: upcoming
// entries soonest-first, past entries most-recent-first.
func (s *Service) Timeline(ctx context.Context) (*TimelineView, error) {
	entries, err := s.store.ListTimeline(ctx)
	if err != nil {
		return nil, err
	}
	view := &TimelineView{Upcoming: []TimelineEntry{}, Past: []TimelineEntry{}}
	for _, e := range entries {
		if strings.EqualFold(e.Status, "upcoming") {
			view.Upcoming = append(view.Upcoming, *e)
		} else {
			view.Past = append(view.Past, *e)
		}
	}
	for i, j := 0, len(view.Past)-1; i < j; i, j = i+1, j-1 {
		view.Past[i], view.Past[j] = view.Past[j], view.Past[i]
	}
	return view, nil
}

func validateTimelineInput(in *TimelineInput) error {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ErrTimelineTitleRequired
	}
	if in.Status != "upcoming" && in.Status != "past" {
		return ErrInvalidTimelineStatus
	}
	return nil
}

func (s *Service) CreateTimelineEntry(ctx context.Context, in TimelineInput) (*TimelineEntry, error) {
	if err := validateTimelineInput(&in); err != nil {
		return nil, err
	}
	return s.store.CreateTimelineEntry(ctx, in)
}

func (s *Service) UpdateTimelineEntry(ctx context.Context, id string, in TimelineInput) (*TimelineEntry, error) {
	if err := validateTimelineInput(&in); err != nil {
		return nil, err
	}
	return s.store.UpdateTimelineEntry(ctx, id, in)
}

func (s *Service) DeleteTimelineEntry(ctx context.Context, id string) error {
	return s.store.DeleteTimelineEntry(ctx, id)
}

func (s *Service) ListSessions(ctx context.Context) ([]*LiveSession, error) {
	return s.store.ListSessions(ctx)
}

func validateSessionInput(in *LiveSessionInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.YouTubeURL = strings.TrimSpace(in.YouTubeURL)
	if in.Title == "" || in.Date == "" || in.Time == "" || in.YouTubeURL == "" {
		return ErrSessionFieldsRequired
	}
	return nil
}

func (s *Service) CreateSession(ctx context.Context, in LiveSessionInput) (*LiveSession, error) {
	if err := validateSessionInput(&in); err != nil {
		return nil, err
	}
	return s.store.CreateSession(ctx, in)
}

func (s *Service) UpdateSession(ctx context.Context, id string, in LiveSessionInput) (*LiveSession, error) {
	if err := validateSessionInput(&in); err != nil {
		return nil, err
	}
	return s.store.UpdateSession(ctx, id, in)
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.store.DeleteSession(ctx, id)
}

func (s *Service) ListSubmissions(ctx context.Context) ([]*Submission, error) {
	return s.store.ListSubmissions(ctx)
}

func (s *Service) SetShortlisted(ctx context.Context, id string, shortlisted bool) error {
	return s.store.SetShortlisted(ctx, id, shortlisted)
}

func (s *Service) DashboardCounts(ctx context.Context) (*DashboardCounts, error) {
	return s.store.GetDashboardCounts(ctx)
}
