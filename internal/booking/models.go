package booking

import "time"

// SlotSnapshot is the slot window as it was at booking time. The values are
// copied into the booking row rather than joined from mentor_slots, so a
// later edit of the source slot does not rewrite history here.
type SlotSnapshot struct {
	Date      string `json:"slot_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Booking is one mentoring session: a team consuming a mentor's slot. Mentor
// and slot fields are denormalized snapshots taken when the booking was made.
type Booking struct {
	ID                string       `json:"id"`
	TeamID            string       `json:"team_id"`
	TeamName          string       `json:"team_name"`
	MentorID          string       `json:"mentor_id"`
	MentorName        string       `json:"mentor_name"`
	MentorDesignation string       `json:"mentor_designation"`
	Slot              SlotSnapshot `json:"slot"`
	Status            string       `json:"status"`
	MeetingLink       string       `json:"meeting_link"`
	CreatedAt         time.Time    `json:"created_at"`
}
