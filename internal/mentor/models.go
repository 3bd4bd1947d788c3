package mentor

import "time"

// Mentor owns zero or more availability slots.
type Mentor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Designation string    `json:"designation"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	Slots       []Slot    `json:"slots"`
}

// Slot is a single bookable time window. Date is a calendar date
// (YYYY-MM-DD); start and end are wall-clock times (HH:MM). Nothing prevents
// two slots of one mentor from sharing the same window: duplicates are
// accepted by the data model.
type Slot struct {
	ID        string `json:"id"`
	MentorID  string `json:"mentor_id"`
	Date      string `json:"slot_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Booked    bool   `json:"is_booked"`
}

// SlotDraft is an unsaved slot row from the admin form. A draft is written
// only when all three fields are populated.
type SlotDraft struct {
	Date      string `json:"slot_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Complete reports whether every field of the draft is populated.
func (d SlotDraft) Complete() bool {
	return d.Date != "" && d.StartTime != "" && d.EndTime != ""
}

// CreateMentorInput holds the fields for creating a mentor together with its
// initial slot drafts.
type CreateMentorInput struct {
	Name        string      `json:"name"`
	Designation string      `json:"designation"`
	Email       string      `json:"email"`
	Slots       []SlotDraft `json:"slots"`
}
