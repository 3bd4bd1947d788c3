package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aiignite/admind/internal/user"
)

type fakeSessions struct {
	users     map[string]*user.User
	deleted   []string
	lookupErr error
	deleteErr error
}

func (f *fakeSessions) GetSessionUser(_ context.Context, token string) (*user.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	u, ok := f.users[token]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.deleteErr
}

type fakeChecker struct {
	admin bool
	err   error
	calls int
}

func (f *fakeChecker) IsAdmin(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.admin, f.err
}

func adminUser() *user.User {
	return &user.User{ID: "u1", Email: "admin@example.com", Role: "admin"}
}

func TestAdmit_NoToken(t *testing.T) {
	sessions := &fakeSessions{}
	checker := &fakeChecker{admin: true}
	g := NewGate(sessions, checker, nil)

	d := g.Admit(context.Background(), "")
	if d.State != Denied {
		t.Fatalf("expected Denied, got %v", d.State)
	}
	if d.Reason != ReasonLoginRequired {
		t.Errorf("expected reason %q, got %q", ReasonLoginRequired, d.Reason)
	}
	if d.SignedOut {
		t.Error("missing token must not trigger a sign-out")
	}
	if checker.calls != 0 {
		t.Error("capability check must not run without a session")
	}
}

func TestAdmit_UnknownSession(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*user.User{}}
	checker := &fakeChecker{admin: true}
	g := NewGate(sessions, checker, nil)

	d := g.Admit(context.Background(), "stale-token")
	if d.State != Denied {
		t.Fatalf("expected Denied, got %v", d.State)
	}
	if d.Reason != ReasonLoginRequired {
		t.Errorf("expected reason %q, got %q", ReasonLoginRequired, d.Reason)
	}
	if len(sessions.deleted) != 0 {
		t.Error("an absent session has nothing to sign out")
	}
}

func TestAdmit_CheckReturnsFalse(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*user.User{"tok": adminUser()}}
	checker := &fakeChecker{admin: false}
	g := NewGate(sessions, checker, nil)

	d := g.Admit(context.Background(), "tok")
	if d.State != Denied {
		t.Fatalf("expected Denied, got %v", d.State)
	}
	if d.Reason != ReasonNotAuthorized {
		t.Errorf("expected reason %q, got %q", ReasonNotAuthorized, d.Reason)
	}
	if !d.SignedOut {
		t.Error("a false capability check must sign the principal out")
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != "tok" {
		t.Errorf("expected session tok deleted, got %v", sessions.deleted)
	}
}

func TestAdmit_CheckErrorFailsClosed(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*user.User{"tok": adminUser()}}
	checker := &fakeChecker{admin: true, err: errors.New("transport down")}
	g := NewGate(sessions, checker, nil)

	d := g.Admit(context.Background(), "tok")
	if d.State != Denied {
		t.Fatalf("capability transport error must deny, got %v", d.State)
	}
	if d.Reason != ReasonNotAuthorized {
		t.Errorf("expected reason %q, got %q", ReasonNotAuthorized, d.Reason)
	}
	if !d.SignedOut {
		t.Error("fail-closed denial must sign the principal out")
	}
}

func TestAdmit_Authorized(t *testing.T) {
	u := adminUser()
	sessions := &fakeSessions{users: map[string]*user.User{"tok": u}}
	checker := &fakeChecker{admin: true}
	g := NewGate(sessions, checker, nil)

	d := g.Admit(context.Background(), "tok")
	if d.State != Authorized {
		t.Fatalf("expected Authorized, got %v", d.State)
	}
	if d.User != u {
		t.Error("decision must carry the admitted account")
	}
	if len(sessions.deleted) != 0 {
		t.Error("authorized admission must not delete the session")
	}
}

func TestAdmit_DenyPublishesRevocation(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*user.User{"tok": adminUser()}}
	checker := &fakeChecker{admin: false}
	rev := NewRevocations()

	var got []string
	unsub := rev.Subscribe(func(hash string) { got = append(got, hash) })
	defer unsub()

	g := NewGate(sessions, checker, rev)
	g.Admit(context.Background(), "tok")

	if len(got) != 1 {
		t.Fatalf("expected 1 revocation event, got %d", len(got))
	}
	if got[0] != user.HashToken("tok") {
		t.Error("revocation event must carry the token hash, not the plaintext")
	}
}

func TestMiddleware_DeniedNeverReachesHandler(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*user.User{}}
	checker := &fakeChecker{admin: true}
	g := NewGate(sessions, checker, nil)

	reached := false
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if reached {
		t.Error("protected handler must not run for a denied principal")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_NonAdminGetsForbidden(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*user.User{"tok": adminUser()}}
	checker := &fakeChecker{admin: false}
	g := NewGate(sessions, checker, nil)

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a signed-in non-admin, got %d", rec.Code)
	}
}

func TestMiddleware_AuthorizedInjectsUser(t *testing.T) {
	u := adminUser()
	sessions := &fakeSessions{users: map[string]*user.User{"tok": u}}
	checker := &fakeChecker{admin: true}
	g := NewGate(sessions, checker, nil)

	var seen *user.User
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.ID != u.ID {
		t.Error("expected admitted account in request context")
	}
}

func TestRevocations_UnsubscribeIsFinal(t *testing.T) {
	rev := NewRevocations()

	var count int
	unsub := rev.Subscribe(func(string) { count++ })

	rev.Publish("h1")
	unsub()
	rev.Publish("h2")
	unsub() // second unsubscribe is harmless

	if count != 1 {
		t.Errorf("expected exactly 1 delivery, got %d", count)
	}
}

func TestRevocations_MultipleSubscribers(t *testing.T) {
	rev := NewRevocations()

	var a, b int
	unsubA := rev.Subscribe(func(string) { a++ })
	defer unsubA()
	unsubB := rev.Subscribe(func(string) { b++ })

	rev.Publish("h1")
	unsubB()
	rev.Publish("h2")

	if a != 2 {
		t.Errorf("subscriber a: expected 2 deliveries, got %d", a)
	}
	if b != 1 {
		t.Errorf("subscriber b: expected 1 delivery, got %d", b)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name string
		auth string
		want string
	}{
		{"valid bearer", "Bearer my-token-123", "my-token-123"},
		{"empty header", "", ""},
		{"no space", "Bearertoken", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"case-insensitive scheme", "bearer abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if got := ExtractBearerToken(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
