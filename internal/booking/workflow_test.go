package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aiignite/admind/internal/notify"
)

func testBooking() *Booking {
	return &Booking{
		ID:         "bk-1",
		TeamID:     "team-1",
		TeamName:   "T1",
		MentorID:   "mentor-1",
		MentorName: "Dr. A",
		Slot:       SlotSnapshot{Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30"},
	}
}

type fakeBookings struct {
	mu       sync.Mutex
	booking  *Booking
	getErr   error
	setErr   error
	listErr  error
	setCalls int
	setLinks []string
	getGate  chan struct{}
}

func (f *fakeBookings) Get(_ context.Context, id string) (*Booking, error) {
	if f.getGate != nil && id == "bk-1" {
		<-f.getGate
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookings) SetMeetingLink(_ context.Context, id, link string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	f.setCalls++
	f.setLinks = append(f.setLinks, link)
	f.mu.Unlock()
	return nil
}

func (f *fakeBookings) List(_ context.Context) ([]*Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	b := *f.booking
	return []*Booking{&b}, nil
}

type fakeTeams struct {
	emails []string
	err    error
}

func (f *fakeTeams) EmailsByTeam(_ context.Context, teamID string) ([]string, error) {
	return f.emails, f.err
}

type fakeMentors struct {
	email string
	err   error
}

func (f *fakeMentors) EmailByMentor(_ context.Context, mentorID string) (string, error) {
	return f.email, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorkflow(store *fakeBookings, teams *fakeTeams, mentors *fakeMentors, mailer notify.Mailer) *Workflow {
	return NewWorkflow(store, teams, mentors, mailer, nil, discardLogger())
}

func TestSaveMeetingLink_EmptyLinkMakesNoCalls(t *testing.T) {
	store := &fakeBookings{booking: testBooking()}
	mailer := &notify.Recorder{}
	wf := newTestWorkflow(store, &fakeTeams{}, &fakeMentors{}, mailer)

	_, err := wf.SaveMeetingLink(context.Background(), "bk-1", "   ")
	if !errors.Is(err, ErrLinkRequired) {
		t.Fatalf("expected ErrLinkRequired, got %v", err)
	}
	if store.setCalls != 0 {
		t.Fatal("no store write should happen for an empty link")
	}
	if len(mailer.Sent()) != 0 {
		t.Fatal("no dispatch should happen for an empty link")
	}
}

func TestSaveMeetingLink_LinkSaveFailureStopsWorkflow(t *testing.T) {
	store := &fakeBookings{booking: testBooking(), setErr: errors.New("write refused")}
	mailer := &notify.Recorder{}
	wf := newTestWorkflow(store,
		&fakeTeams{emails: []string{"m1@example.com"}},
		&fakeMentors{email: "dra@example.com"},
		mailer)

	_, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/xyz")
	if err == nil {
		t.Fatal("expected error when the link update fails")
	}
	if len(mailer.Sent()) != 0 {
		t.Fatal("dispatch must not run when the link update fails")
	}
}

func TestSaveMeetingLink_HappyPath(t *testing.T) {
	store := &fakeBookings{booking: testBooking()}
	mailer := &notify.Recorder{}
	wf := newTestWorkflow(store,
		&fakeTeams{emails: []string{"m1@example.com", "m2@example.com"}},
		&fakeMentors{email: "dra@example.com"},
		mailer)

	res, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Booking.MeetingLink != "https://meet.example/xyz" {
		t.Errorf("booking link = %q", res.Booking.MeetingLink)
	}
	if !res.Dispatched {
		t.Error("expected dispatch to succeed")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", res.Warnings)
	}
	sent := mailer.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(sent))
	}
	msg := sent[0]
	want := []string{"m1@example.com", "m2@example.com", "dra@example.com"}
	if len(msg.To) != len(want) {
		t.Fatalf("recipients = %v", msg.To)
	}
	for i, e := range want {
		if msg.To[i] != e {
			t.Errorf("recipient[%d] = %q, want %q", i, msg.To[i], e)
		}
	}
	if msg.MentorName != "Dr. A" || msg.SlotDate != "2026-09-01" {
		t.Errorf("payload = %+v", msg)
	}
	if len(res.Bookings) != 1 {
		t.Errorf("expected reloaded booking list, got %d", len(res.Bookings))
	}
}

func TestSaveMeetingLink_MemberLookupFailureDegradesToMentorOnly(t *testing.T) {
	store := &fakeBookings{booking: testBooking()}
	mailer := &notify.Recorder{}
	wf := newTestWorkflow(store,
		&fakeTeams{err: errors.New("team query failed")},
		&fakeMentors{email: "dra@example.com"},
		mailer)

	res, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/xyz")
	if err != nil {
		t.Fatalf("workflow should not fail on member lookup error: %v", err)
	}
	sent := mailer.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(sent))
	}
	if len(sent[0].To) != 1 || sent[0].To[0] != "dra@example.com" {
		t.Errorf("recipients = %v, want mentor only", sent[0].To)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Stage != StageResolveRecipients {
		t.Errorf("warnings = %+v", res.Warnings)
	}
}

func TestSaveMeetingLink_NoRecipientsSkipsDispatch(t *testing.T) {
	store := &fakeBookings{booking: testBooking()}
	mailer := &notify.Recorder{}
	wf := newTestWorkflow(store,
		&fakeTeams{err: errors.New("down")},
		&fakeMentors{err: errors.New("down")},
		mailer)

	res, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.Sent()) != 0 {
		t.Fatal("dispatch must be skipped with no recipients")
	}
	if res.Dispatched {
		t.Error("Dispatched should be false when nothing was sent")
	}
	if store.setCalls != 1 {
		t.Errorf("link should still be saved, setCalls = %d", store.setCalls)
	}
}

func TestSaveMeetingLink_DispatchFailureIsSoft(t *testing.T) {
	store := &fakeBookings{booking: testBooking()}
	mailer := &notify.Recorder{Err: errors.New("email function down")}
	wf := newTestWorkflow(store,
		&fakeTeams{emails: []string{"m1@example.com"}},
		&fakeMentors{email: "dra@example.com"},
		mailer)

	res, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/xyz")
	if err != nil {
		t.Fatalf("dispatch failure must not fail the workflow: %v", err)
	}
	if res.Dispatched {
		t.Error("Dispatched should be false")
	}
	if store.setCalls != 1 {
		t.Errorf("link update should stand, setCalls = %d", store.setCalls)
	}
	var found bool
	for _, w := range res.Warnings {
		if w.Stage == StageDispatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a dispatch warning, got %+v", res.Warnings)
	}
}

func TestSaveMeetingLink_ReloadFailureIsSoft(t *testing.T) {
	store := &fakeBookings{booking: testBooking(), listErr: errors.New("list down")}
	mailer := &notify.Recorder{}
	wf := newTestWorkflow(store,
		&fakeTeams{emails: []string{"m1@example.com"}},
		&fakeMentors{email: "dra@example.com"},
		mailer)

	res, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bookings != nil {
		t.Error("reload failure should leave Bookings empty")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Stage != StageReload {
		t.Errorf("warnings = %+v", res.Warnings)
	}
}

func TestSaveMeetingLink_RepeatSendsAgain(t *testing.T) {
	store := &fakeBookings{booking: testBooking()}
	mailer := &notify.Recorder{}
	wf := newTestWorkflow(store,
		&fakeTeams{emails: []string{"m1@example.com"}},
		&fakeMentors{email: "dra@example.com"},
		mailer)

	for i := 0; i < 2; i++ {
		if _, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/xyz"); err != nil {
			t.Fatalf("save %d: %v", i+1, err)
		}
	}
	sent := mailer.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected two dispatches, got %d", len(sent))
	}
	if sent[0].MeetingLink != sent[1].MeetingLink || len(sent[0].To) != len(sent[1].To) {
		t.Errorf("repeat dispatch payloads differ: %+v vs %+v", sent[0], sent[1])
	}
	if store.setCalls != 2 {
		t.Errorf("expected two link writes, got %d", store.setCalls)
	}
}

func TestSaveMeetingLink_InFlightGuard(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeBookings{booking: testBooking(), getGate: gate}
	mailer := &notify.Recorder{}
	wf := newTestWorkflow(store,
		&fakeTeams{emails: []string{"m1@example.com"}},
		&fakeMentors{email: "dra@example.com"},
		mailer)

	done := make(chan error, 1)
	go func() {
		_, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/xyz")
		done <- err
	}()

	// Wait for the first save to take the in-flight slot and block in Get.
	deadline := time.After(2 * time.Second)
	for {
		wf.mu.Lock()
		held := wf.inFlight["bk-1"]
		wf.mu.Unlock()
		if held {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first save never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := wf.SaveMeetingLink(context.Background(), "bk-1", "https://meet.example/other")
	if !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("expected ErrSaveInFlight, got %v", err)
	}

	// A different booking is not blocked by bk-1's save.
	if _, err := wf.SaveMeetingLink(context.Background(), "bk-2", "https://meet.example/xyz"); errors.Is(err, ErrSaveInFlight) {
		t.Fatal("saves for other bookings must stay independent")
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first save failed: %v", err)
	}
}
