package content

import "time"

// Announcement is a platform-wide notice. Writes go through SQL functions
// rather than plain DML so the database enforces who may post.
type Announcement struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Published bool       `json:"is_published"`
	PostedAt  time.Time  `json:"posted_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TimelineEntry is one row of the public event timeline. Status is either
// "upcoming" or "past".
type TimelineEntry struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	DisplayTime string     `json:"display_time"`
	StartAt     *time.Time `json:"start_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TimelineView groups entries the way the timeline page renders them:
// upcoming soonest-first, past most-recent-first.
type TimelineView struct {
	Upcoming []TimelineEntry `json:"upcoming"`
	Past     []TimelineEntry `json:"past"`
}

// TimelineInput holds the writable fields of a timeline entry.
type TimelineInput struct {
	Status      string `json:"status"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	DisplayTime string `json:"display_time"`
	StartAt     string `json:"start_at"`
}

// LiveSession is a scheduled or recorded stream session.
type LiveSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Status       string    `json:"status"`
	YouTubeURL   string    `json:"youtube_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// LiveSessionInput holds the writable fields of a live session.
type LiveSessionInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	YouTubeURL   string `json:"youtube_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Submission is a team's final project submission.
type Submission struct {
	ID                 string    `json:"id"`
	TeamID             string    `json:"team_id"`
	ProblemStatement   string    `json:"problem_statement"`
	ProjectTitle       string    `json:"project_title"`
	ProjectDescription string    `json:"project_description"`
	ToolsUsed          string    `json:"tools_used"`
	GitHubRepoLink     string    `json:"github_repo_link"`
	LiveLink           string    `json:"live_link"`
	DemoVideoLink      string    `json:"demo_video_link"`
	DocumentLink       string    `json:"document_link"`
	Shortlisted        bool      `json:"is_shortlisted"`
	CreatedAt          time.Time `json:"created_at"`
}

// DashboardCounts are the headline numbers on the admin landing page.
type DashboardCounts struct {
	Members       int64 `json:"members"`
	Teams         int64 `json:"teams"`
	Announcements int64 `json:"announcements"`
	Timeline      int64 `json:"timeline"`
}
