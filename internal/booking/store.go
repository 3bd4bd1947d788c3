package booking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for mentoring session bookings.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const bookingColumns = `id, team_id, team_name, mentor_id, mentor_name,
	mentor_designation, slot_date, start_time, end_time, status,
	COALESCE(meeting_link, ''), created_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.TeamID, &b.TeamName, &b.MentorID, &b.MentorName,
		&b.MentorDesignation, &b.Slot.Date, &b.Slot.StartTime, &b.Slot.EndTime,
		&b.Status, &b.MeetingLink, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns every booking newest-first.
func (s *Store) List(ctx context.Context) ([]*Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM mentoring_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}
	return bookings, nil
}

// Get retrieves a single booking by its ID.
func (s *Store) Get(ctx context.Context, id string) (*Booking, error) {
	b, err := scanBooking(s.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM mentoring_sessions WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}
	return b, nil
}

// SetMeetingLink writes the meeting link on a booking row.
func (s *Store) SetMeetingLink(ctx context.Context, id, link string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE mentoring_sessions SET meeting_link = $1 WHERE id = $2`, link, id)
	if err != nil {
		return fmt.Errorf("setting meeting link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
