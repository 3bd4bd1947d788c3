package team

import "time"

// Summary is one row of the teams list: the team and how many members it has.
type Summary struct {
	ID          string    `json:"id"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
}

// Team is a team together with its members, ordered by join time.
type Team struct {
	ID        string    `json:"id"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Members   []Member  `json:"members"`
}

// Member is a participant's registration profile. Most fields come straight
// from the signup form and may be empty.
type Member struct {
	UserID            string    `json:"member_user_id"`
	TeamID            string    `json:"team_id"`
	Name              string    `json:"member_name"`
	Email             string    `json:"member_email"`
	Phone             string    `json:"member_phone"`
	State             string    `json:"state_name"`
	City              string    `json:"city_name"`
	Area              string    `json:"area_name"`
	Pincode           string    `json:"pincode"`
	IsStudent         bool      `json:"is_student"`
	Institute         string    `json:"institute_name"`
	Age               int       `json:"age"`
	Gender            string    `json:"gender"`
	Course            string    `json:"course"`
	CurrentYear       string    `json:"current_year"`
	CGPA              string    `json:"cgpa"`
	PreferredTrack    string    `json:"preferred_track"`
	ProgramsKnown     string    `json:"programs_known"`
	ExperienceLevel   string    `json:"ai_ml_experience_level"`
	ProblemPreference string    `json:"problem_statement_preference"`
	PreviousProjects  string    `json:"previous_projects"`
	Motivation        string    `json:"motivation"`
	NeedAccommodation bool      `json:"need_accommodation"`
	DOB               string    `json:"dob"`
	JoinedAt          time.Time `json:"joined_at"`
}
