package team

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for teams and their members.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const memberColumns = `member_user_id, team_id, member_name,
	COALESCE(member_email, ''), COALESCE(member_phone, ''),
	COALESCE(state_name, ''), COALESCE(city_name, ''), COALESCE(area_name, ''),
	COALESCE(pincode, ''), COALESCE(is_student, false),
	COALESCE(institute_name, ''), COALESCE(age, 0), COALESCE(gender, ''),
	COALESCE(course, ''), COALESCE(current_year, ''), COALESCE(cgpa, ''),
	COALESCE(preferred_track, ''), COALESCE(programs_known, ''),
	COALESCE(ai_ml_experience_level, ''), COALESCE(problem_statement_preference, ''),
	COALESCE(previous_projects, ''), COALESCE(motivation, ''),
	COALESCE(need_accommodation, false), COALESCE(dob, ''), joined_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(
		&m.UserID, &m.TeamID, &m.Name, &m.Email, &m.Phone,
		&m.State, &m.City, &m.Area, &m.Pincode, &m.IsStudent,
		&m.Institute, &m.Age, &m.Gender, &m.Course, &m.CurrentYear, &m.CGPA,
		&m.PreferredTrack, &m.ProgramsKnown, &m.ExperienceLevel,
		&m.ProblemPreference, &m.PreviousProjects, &m.Motivation,
		&m.NeedAccommodation, &m.DOB, &m.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListTeams returns all teams newest-first with their member counts.
func (s *Store) ListTeams(ctx context.Context) ([]*Summary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT t.id, COALESCE(t.created_by::text, ''), t.created_at, COUNT(m.member_user_id)
		 FROM teams t
		 LEFT JOIN team_members m ON m.team_id = t.id
		 GROUP BY t.id, t.created_by, t.created_at
		 ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*Summary
	for rows.Next() {
		var t Summary
		if err := rows.Scan(&t.ID, &t.CreatedBy, &t.CreatedAt, &t.MemberCount); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams: %w", err)
	}
	return teams, nil
}

// GetTeam retrieves a team together with its members ordered by join time.
func (s *Store) GetTeam(ctx context.Context, id string) (*Team, error) {
	var t Team
	err := s.pool.QueryRow(ctx,
		`SELECT id, COALESCE(created_by::text, ''), created_at FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting team: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+memberColumns+` FROM team_members WHERE team_id = $1 ORDER BY joined_at`, id)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	t.Members = []Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team member: %w", err)
		}
		t.Members = append(t.Members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team members: %w", err)
	}
	return &t, nil
}

// SearchMembers returns members newest-first, optionally filtered by a
// case-insensitive substring match across the searchable profile fields.
func (s *Store) SearchMembers(ctx context.Context, q string) ([]*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM team_members`
	var args []any
	if q != "" {
		query += ` WHERE member_name ILIKE $1 OR member_email ILIKE $1
			OR member_phone ILIKE $1 OR state_name ILIKE $1 OR city_name ILIKE $1
			OR institute_name ILIKE $1 OR preferred_track ILIKE $1`
		args = append(args, "%"+q+"%")
	}
	query += ` ORDER BY joined_at DESC LIMIT 1000`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return members, nil
}

// GetMember retrieves one member's full profile.
func (s *Store) GetMember(ctx context.Context, userID string) (*Member, error) {
	m, err := scanMember(s.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM team_members WHERE member_user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// EmailsByTeam returns the non-empty member addresses of one team. Used by
// the meeting-link fan-out.
func (s *Store) EmailsByTeam(ctx context.Context, teamID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT member_email FROM team_members
		 WHERE team_id = $1 AND member_email IS NOT NULL AND member_email <> ''`,
		teamID)
	if err != nil {
		return nil, fmt.Errorf("listing team emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scanning team email: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team emails: %w", err)
	}
	return emails, nil
}
