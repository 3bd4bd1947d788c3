package mentor

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	created     []string
	inserted    map[string][]SlotDraft
	createErr   error
	insertErr   error
	updateErr   error
	deleteErr   error
	updateCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{inserted: map[string][]SlotDraft{}}
}

func (f *fakeStore) CreateMentor(_ context.Context, name, designation, email string) (*Mentor, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, name)
	return &Mentor{ID: "mentor-1", Name: name, Designation: designation, Email: email}, nil
}

func (f *fakeStore) InsertSlots(_ context.Context, mentorID string, drafts []SlotDraft) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted[mentorID] = append(f.inserted[mentorID], drafts...)
	return nil
}

func (f *fakeStore) UpdateSlot(_ context.Context, slotID string, d SlotDraft) (*Slot, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &Slot{ID: slotID, Date: d.Date, StartTime: d.StartTime, EndTime: d.EndTime}, nil
}

func (f *fakeStore) DeleteSlot(_ context.Context, _ string) error {
	return f.deleteErr
}

func (f *fakeStore) ListWithSlots(_ context.Context) ([]*Mentor, error) {
	return nil, nil
}

func TestCreateWithSlots_NameRequired(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.CreateWithSlots(context.Background(), CreateMentorInput{Name: "   "})
	if !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("mentor should not be created, got %v", store.created)
	}
}

func TestCreateWithSlots_DropsIncompleteDrafts(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	in := CreateMentorInput{
		Name: "Ada",
		Slots: []SlotDraft{
			{Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"},
			{Date: "2026-09-01", StartTime: "", EndTime: "12:00"},
			{Date: "", StartTime: "13:00", EndTime: "14:00"},
			{Date: "2026-09-02", StartTime: "10:00", EndTime: "11:00"},
		},
	}
	m, err := svc.CreateWithSlots(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.inserted[m.ID]; len(got) != 2 {
		t.Fatalf("expected 2 valid drafts inserted, got %d", len(got))
	}
}

func TestCreateWithSlots_AllDraftsInvalidStillCreatesMentor(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	in := CreateMentorInput{
		Name:  "Ada",
		Slots: []SlotDraft{{Date: "2026-09-01"}, {StartTime: "10:00"}},
	}
	m, err := svc.CreateWithSlots(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m == nil || m.Name != "Ada" {
		t.Fatalf("expected mentor created, got %+v", m)
	}
	if len(store.inserted) != 0 {
		t.Fatal("no slot insert should happen when every draft is incomplete")
	}
}

func TestCreateWithSlots_SlotInsertFailureKeepsMentor(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("db down")
	svc := NewService(store)

	in := CreateMentorInput{
		Name:  "Ada",
		Slots: []SlotDraft{{Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"}},
	}
	m, err := svc.CreateWithSlots(context.Background(), in)
	if !errors.Is(err, ErrSlotsNotSaved) {
		t.Fatalf("expected ErrSlotsNotSaved, got %v", err)
	}
	if m == nil {
		t.Fatal("mentor should be returned alongside ErrSlotsNotSaved")
	}
	if len(store.created) != 1 {
		t.Fatalf("mentor row should remain, created=%v", store.created)
	}
}

func TestAddSlot_Validation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	err := svc.AddSlot(context.Background(), "mentor-1", SlotDraft{Date: "2026-09-01"})
	if !errors.Is(err, ErrSlotFieldsRequired) {
		t.Fatalf("expected ErrSlotFieldsRequired, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("store should not be called on invalid input")
	}

	err = svc.AddSlot(context.Background(), "mentor-1", SlotDraft{Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.inserted["mentor-1"]) != 1 {
		t.Fatal("expected one slot inserted")
	}
}

func TestUpdateSlot_Validation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.UpdateSlot(context.Background(), "slot-1", SlotDraft{StartTime: "10:00", EndTime: "11:00"})
	if !errors.Is(err, ErrSlotFieldsRequired) {
		t.Fatalf("expected ErrSlotFieldsRequired, got %v", err)
	}
	if store.updateCalls != 0 {
		t.Fatal("store should not be called on invalid input")
	}
}
