package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for announcements, the timeline, live
// sessions and project submissions.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListAnnouncements returns all announcements newest-first.
func (s *Store) ListAnnouncements(ctx context.Context) ([]*Announcement, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, body, is_published, posted_at, updated_at
		 FROM announcements ORDER BY posted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing announcements: %w", err)
	}
	defer rows.Close()

	var items []*Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Published, &a.PostedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning announcement: %w", err)
		}
		items = append(items, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating announcements: %w", err)
	}
	return items, nil
}

// PostAnnouncement creates an announcement through the post_announcement SQL
// function and returns the new row's ID.
func (s *Store) PostAnnouncement(ctx context.Context, title, body string, published bool) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT post_announcement($1, $2, $3)`, title, body, published).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("posting announcement: %w", err)
	}
	return id, nil
}

// UpdateAnnouncement rewrites an announcement through the update_announcement
// SQL function.
func (s *Store) UpdateAnnouncement(ctx context.Context, id, title, body string, published bool) error {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT update_announcement($1, $2, $3, $4)`, id, title, body, published).Scan(&ok)
	if err != nil {
		return fmt.Errorf("updating announcement: %w", err)
	}
	if !ok {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteAnnouncement removes an announcement through the delete_announcement
// SQL function.
func (s *Store) DeleteAnnouncement(ctx context.Context, id string) error {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT delete_announcement($1)`, id).Scan(&ok)
	if err != nil {
		return fmt.Errorf("deleting announcement: %w", err)
	}
	if !ok {
		return pgx.ErrNoRows
	}
	return nil
}

const timelineColumns = `id, status, title, COALESCE(subtitle, ''),
	COALESCE(display_time, ''), start_at, created_at`

func scanTimelineEntry(row pgx.Row) (*TimelineEntry, error) {
	var e TimelineEntry
	err := row.Scan(&e.ID, &e.Status, &e.Title, &e.Subtitle, &e.DisplayTime, &e.StartAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListTimeline returns all timeline entries ordered by start time, entries
// without one last.
func (s *Store) ListTimeline(ctx context.Context) ([]*TimelineEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+timelineColumns+` FROM aiignite_timeline
		 ORDER BY start_at ASC NULLS LAST, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing timeline: %w", err)
	}
	defer rows.Close()

	var entries []*TimelineEntry
	for rows.Next() {
		e, err := scanTimelineEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning timeline entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeline: %w", err)
	}
	return entries, nil
}

// CreateTimelineEntry inserts a timeline entry. An empty start time is stored
// as NULL.
func (s *Store) CreateTimelineEntry(ctx context.Context, in TimelineInput) (*TimelineEntry, error) {
	e, err := scanTimelineEntry(s.pool.QueryRow(ctx,
		`INSERT INTO aiignite_timeline (status, title, subtitle, display_time, start_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, '')::timestamptz)
		 RETURNING `+timelineColumns,
		in.Status, in.Title, in.Subtitle, in.DisplayTime, in.StartAt))
	if err != nil {
		return nil, fmt.Errorf("creating timeline entry: %w", err)
	}
	return e, nil
}

// UpdateTimelineEntry overwrites a timeline entry's fields.
func (s *Store) UpdateTimelineEntry(ctx context.Context, id string, in TimelineInput) (*TimelineEntry, error) {
	e, err := scanTimelineEntry(s.pool.QueryRow(ctx,
		`UPDATE aiignite_timeline
		 SET status = $1, title = $2, subtitle = $3, display_time = $4,
		     start_at = NULLIF($5, '')::timestamptz
		 WHERE id = $6
		 RETURNING `+timelineColumns,
		in.Status, in.Title, in.Subtitle, in.DisplayTime, in.StartAt, id))
	if err != nil {
		return nil, fmt.Errorf("updating timeline entry: %w", err)
	}
	return e, nil
}

// DeleteTimelineEntry removes a timeline entry.
func (s *Store) DeleteTimelineEntry(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM aiignite_timeline WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting timeline entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const sessionColumns = `id, title, COALESCE(description, ''), date, time,
	COALESCE(status, ''), youtube_url, COALESCE(thumbnail_url, ''), created_at`

func scanLiveSession(row pgx.Row) (*LiveSession, error) {
	var ls LiveSession
	err := row.Scan(&ls.ID, &ls.Title, &ls.Description, &ls.Date, &ls.Time,
		&ls.Status, &ls.YouTubeURL, &ls.ThumbnailURL, &ls.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ls, nil
}

// ListSessions returns live sessions most recent first.
func (s *Store) ListSessions(ctx context.Context) ([]*LiveSession, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY date DESC, time DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var items []*LiveSession
	for rows.Next() {
		ls, err := scanLiveSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		items = append(items, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return items, nil
}

// CreateSession inserts a live session.
func (s *Store) CreateSession(ctx context.Context, in LiveSessionInput) (*LiveSession, error) {
	ls, err := scanLiveSession(s.pool.QueryRow(ctx,
		`INSERT INTO sessions (title, description, date, time, status, youtube_url, thumbnail_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+sessionColumns,
		in.Title, in.Description, in.Date, in.Time, in.Status, in.YouTubeURL, in.ThumbnailURL))
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return ls, nil
}

// UpdateSession overwrites a live session's fields.
func (s *Store) UpdateSession(ctx context.Context, id string, in LiveSessionInput) (*LiveSession, error) {
	ls, err := scanLiveSession(s.pool.QueryRow(ctx,
		`UPDATE sessions
		 SET title = $1, description = $2, date = $3, time = $4, status = $5,
		     youtube_url = $6, thumbnail_url = $7
		 WHERE id = $8
		 RETURNING `+sessionColumns,
		in.Title, in.Description, in.Date, in.Time, in.Status, in.YouTubeURL, in.ThumbnailURL, id))
	if err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return ls, nil
}

// DeleteSession removes a live session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListSubmissions returns project submissions newest-first.
func (s *Store) ListSubmissions(ctx context.Context) ([]*Submission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(team_id::text, ''), COALESCE(problem_statement, ''),
		        COALESCE(project_title, ''), COALESCE(project_description, ''),
		        COALESCE(tools_used, ''), COALESCE(github_repo_link, ''),
		        COALESCE(live_link, ''), COALESCE(demo_video_link, ''),
		        COALESCE(document_link, ''), COALESCE(is_shortlisted, false), created_at
		 FROM project_submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var items []*Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.TeamID, &sub.ProblemStatement,
			&sub.ProjectTitle, &sub.ProjectDescription, &sub.ToolsUsed,
			&sub.GitHubRepoLink, &sub.LiveLink, &sub.DemoVideoLink,
			&sub.DocumentLink, &sub.Shortlisted, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		items = append(items, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return items, nil
}

// SetShortlisted flips a submission's shortlist flag.
func (s *Store) SetShortlisted(ctx context.Context, id string, shortlisted bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE project_submissions SET is_shortlisted = $1 WHERE id = $2`, shortlisted, id)
	if err != nil {
		return fmt.Errorf("setting shortlist flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetDashboardCounts returns the headline counts for the landing page.
func (s *Store) GetDashboardCounts(ctx context.Context) (*DashboardCounts, error) {
	var c DashboardCounts
	err := s.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM team_members),
			(SELECT COUNT(*) FROM teams),
			(SELECT COUNT(*) FROM announcements),
			(SELECT COUNT(*) FROM aiignite_timeline)`,
	).Scan(&c.Members, &c.Teams, &c.Announcements, &c.Timeline)
	if err != nil {
		return nil, fmt.Errorf("querying dashboard counts: %w", err)
	}
	return &c, nil
}
