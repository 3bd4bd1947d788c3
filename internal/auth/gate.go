package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aiignite/admind/internal/user"
)

// State is the gate's admission state for one token check.
type State int

const (
	Unchecked State = iota
	Checking
	Authorized
	Denied
)

func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checking:
		return "checking"
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Deny reasons surfaced to the client alongside a Denied decision.
const (
	ReasonLoginRequired = "login required"
	ReasonNotAuthorized = "Not authorized"
)

// Decision is the outcome of one admission check.
type Decision struct {
	State  State
	User   *user.User
	Reason string
	// SignedOut reports whether the gate terminated the session as part of
	// denying access.
	SignedOut bool
}

// MetricsRecorder is an optional sink for admission outcomes.
type MetricsRecorder interface {
	IncAuthSuccess(authType string)
	IncAuthFailure(authType string)
}

// Gate admits or rejects access to the protected route tree. Admission is a
// two-step check: resolve the session, then run the admin capability query.
// A missing session denies without sign-out; a false or failed capability
// check signs the principal out before denying (fail closed).
type Gate struct {
	sessions    SessionResolver
	checker     Checker
	revocations *Revocations
	metrics     MetricsRecorder
}

// NewGate creates a Gate over the given session resolver and capability checker.
func NewGate(sessions SessionResolver, checker Checker, revocations *Revocations) *Gate {
	return &Gate{sessions: sessions, checker: checker, revocations: revocations}
}

// SetMetrics sets the optional metrics recorder.
func (g *Gate) SetMetrics(m MetricsRecorder) {
	g.metrics = m
}

// Admit runs the admission state machine for one token:
// Unchecked -> Checking -> {Authorized, Denied}.
func (g *Gate) Admit(ctx context.Context, token string) Decision {
	if token == "" {
		g.incFailure()
		return Decision{State: Denied, Reason: ReasonLoginRequired}
	}

	// Checking: resolve session first.
	u, err := g.sessions.GetSessionUser(ctx, token)
	if err != nil || u == nil {
		g.incFailure()
		return Decision{State: Denied, Reason: ReasonLoginRequired}
	}

	// Capability query. An error here is indistinguishable from "no" on
	// purpose: the gate fails closed.
	ok, err := g.checker.IsAdmin(ctx, u.ID)
	if err != nil {
		slog.Warn("admin capability check failed, denying", "user_id", u.ID, "error", err)
		ok = false
	}
	if !ok {
		g.signOut(ctx, token)
		g.incFailure()
		return Decision{State: Denied, Reason: ReasonNotAuthorized, SignedOut: true}
	}

	g.incSuccess()
	return Decision{State: Authorized, User: u}
}

func (g *Gate) signOut(ctx context.Context, token string) {
	if err := g.sessions.DeleteSession(ctx, token); err != nil {
		slog.Warn("signing out denied principal", "error", err)
	}
	if g.revocations != nil {
		g.revocations.Publish(user.HashToken(token))
	}
}

func (g *Gate) incSuccess() {
	if g.metrics != nil {
		g.metrics.IncAuthSuccess("session")
	}
}

func (g *Gate) incFailure() {
	if g.metrics != nil {
		g.metrics.IncAuthFailure("session")
	}
}

// Middleware wraps a protected subtree. Only an Authorized decision reaches
// the next handler; the admitted account is injected into the request context.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearerToken(r)
		d := g.Admit(r.Context(), token)
		if d.State != Authorized {
			writeDenied(w, d)
			return
		}
		ctx := ContextWithUser(r.Context(), d.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractBearerToken extracts the bearer token from the Authorization header.
func ExtractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

type deniedResponse struct {
	Error deniedBody `json:"error"`
}

type deniedBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeDenied(w http.ResponseWriter, d Decision) {
	status := http.StatusUnauthorized
	code := "login_required"
	if d.Reason == ReasonNotAuthorized {
		status = http.StatusForbidden
		code = "not_authorized"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(deniedResponse{
		Error: deniedBody{Code: code, Message: d.Reason},
	})
}
