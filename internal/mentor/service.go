package mentor

import (
	"context"
	"errors"
	"strings"
)

// Validation and outcome errors returned by the Service layer.
var (
	ErrNameRequired       = errors.New("mentor name is required")
	ErrSlotFieldsRequired = errors.New("slot date, start time and end time are required")

	// ErrSlotsNotSaved reports that the mentor row was created but its
	// initial slots were not. The mentor is deliberately not rolled back.
	ErrSlotsNotSaved = errors.New("mentor created but slots were not saved")
)

// SlotStore is the persistence surface the service drives. Implemented by
// *Store; narrowed to an interface so the partial-failure paths are testable.
type SlotStore interface {
	CreateMentor(ctx context.Context, name, designation, email string) (*Mentor, error)
	InsertSlots(ctx context.Context, mentorID string, drafts []SlotDraft) error
	UpdateSlot(ctx context.Context, slotID string, d SlotDraft) (*Slot, error)
	DeleteSlot(ctx context.Context, slotID string) error
	ListWithSlots(ctx context.Context) ([]*Mentor, error)
}

// Service provides validated slot-lifecycle operations over the store.
type Service struct {
	store SlotStore
}

// NewService creates a new Service wrapping the given store.
func NewService(store SlotStore) *Service {
	return &Service{store: store}
}

// CreateWithSlots creates a mentor and its initial availability. Draft rows
// missing any field are dropped without error. The mentor insert happens
// first; if the subsequent slot insert fails the mentor row stays and
// ErrSlotsNotSaved is returned alongside it, so the caller can warn rather
// than fail.
func (s *Service) CreateWithSlots(ctx context.Context, in CreateMentorInput) (*Mentor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	m, err := s.store.CreateMentor(ctx, name, strings.TrimSpace(in.Designation), strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}

	valid := FilterDrafts(in.Slots)
	if len(valid) > 0 {
		if err := s.store.InsertSlots(ctx, m.ID, valid); err != nil {
			return m, ErrSlotsNotSaved
		}
	}

	return m, nil
}

// AddSlot appends one slot to an existing mentor. All three fields are
// required; validation runs before any query.
func (s *Service) AddSlot(ctx context.Context, mentorID string, d SlotDraft) error {
	if !d.Complete() {
		return ErrSlotFieldsRequired
	}
	return s.store.InsertSlots(ctx, mentorID, []SlotDraft{d})
}

// UpdateSlot overwrites a slot's window. The booked flag is untouched.
func (s *Service) UpdateSlot(ctx context.Context, slotID string, d SlotDraft) (*Slot, error) {
	if !d.Complete() {
		return nil, ErrSlotFieldsRequired
	}
	return s.store.UpdateSlot(ctx, slotID, d)
}

// DeleteSlot removes a slot. Irreversible; confirmation is the client's job.
func (s *Service) DeleteSlot(ctx context.Context, slotID string) error {
	return s.store.DeleteSlot(ctx, slotID)
}

// List returns all mentors with their slots.
func (s *Service) List(ctx context.Context) ([]*Mentor, error) {
	return s.store.ListWithSlots(ctx)
}

// FilterDrafts keeps only fully populated draft rows. Partially filled rows
// are dropped silently rather than rejected.
func FilterDrafts(drafts []SlotDraft) []SlotDraft {
	valid := make([]SlotDraft, 0, len(drafts))
	for _, d := range drafts {
		if d.Complete() {
			valid = append(valid, d)
		}
	}
	return valid
}
