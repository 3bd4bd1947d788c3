package mentor

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for mentors and their slots.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const slotColumns = `id, mentor_id, slot_date, start_time, end_time, is_booked`

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	err := row.Scan(&s.ID, &s.MentorID, &s.Date, &s.StartTime, &s.EndTime, &s.Booked)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateMentor inserts a mentor row and returns it without slots.
func (s *Store) CreateMentor(ctx context.Context, name, designation, email string) (*Mentor, error) {
	var m Mentor
	err := s.pool.QueryRow(ctx,
		`INSERT INTO mentors (name, designation, email)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, designation, email, created_at`,
		name, designation, email,
	).Scan(&m.ID, &m.Name, &m.Designation, &m.Email, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating mentor: %w", err)
	}
	m.Slots = []Slot{}
	return &m, nil
}

// InsertSlots batch-inserts slots for a mentor, each starting unbooked.
func (s *Store) InsertSlots(ctx context.Context, mentorID string, drafts []SlotDraft) error {
	if len(drafts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range drafts {
		batch.Queue(
			`INSERT INTO mentor_slots (mentor_id, slot_date, start_time, end_time, is_booked)
			 VALUES ($1, $2, $3, $4, false)`,
			mentorID, d.Date, d.StartTime, d.EndTime,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range drafts {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("inserting slot: %w", err)
		}
	}
	return nil
}

// UpdateSlot overwrites a slot's date and times. The booked flag is owned by
// the booking path and is never touched here.
func (s *Store) UpdateSlot(ctx context.Context, slotID string, d SlotDraft) (*Slot, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE mentor_slots
		 SET slot_date = $1, start_time = $2, end_time = $3
		 WHERE id = $4
		 RETURNING `+slotColumns,
		d.Date, d.StartTime, d.EndTime, slotID,
	)
	slot, err := scanSlot(row)
	if err != nil {
		return nil, fmt.Errorf("updating slot: %w", err)
	}
	return slot, nil
}

// DeleteSlot removes a slot by its ID.
func (s *Store) DeleteSlot(ctx context.Context, slotID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM mentor_slots WHERE id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetMentor retrieves a mentor row without slots.
func (s *Store) GetMentor(ctx context.Context, id string) (*Mentor, error) {
	var m Mentor
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, designation, email, created_at FROM mentors WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Designation, &m.Email, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting mentor: %w", err)
	}
	m.Slots = []Slot{}
	return &m, nil
}

// EmailByMentor returns the mentor's notification address, which may be
// empty when none was captured.
func (s *Store) EmailByMentor(ctx context.Context, mentorID string) (string, error) {
	var email string
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(email, '') FROM mentors WHERE id = $1`, mentorID,
	).Scan(&email)
	if err != nil {
		return "", fmt.Errorf("looking up mentor email: %w", err)
	}
	return email, nil
}

// ListWithSlots returns all mentors newest-first, each carrying its slots
// ordered by date then start time. This is the single source of truth the
// handlers re-fetch after every mutation.
func (s *Store) ListWithSlots(ctx context.Context) ([]*Mentor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, designation, email, created_at FROM mentors ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing mentors: %w", err)
	}
	defer rows.Close()

	var mentors []*Mentor
	byID := make(map[string]*Mentor)
	for rows.Next() {
		var m Mentor
		if err := rows.Scan(&m.ID, &m.Name, &m.Designation, &m.Email, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning mentor: %w", err)
		}
		m.Slots = []Slot{}
		mentors = append(mentors, &m)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mentors: %w", err)
	}

	slotRows, err := s.pool.Query(ctx,
		`SELECT `+slotColumns+` FROM mentor_slots ORDER BY slot_date, start_time`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		slot, err := scanSlot(slotRows)
		if err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		if m, ok := byID[slot.MentorID]; ok {
			m.Slots = append(m.Slots, *slot)
		}
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	return mentors, nil
}
