package auth

import (
	"context"

	"github.com/aiignite/admind/internal/user"
)

type contextKey int

const userContextKey contextKey = iota

// ContextWithUser returns a new context carrying the given account.
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext extracts the account from the context, or nil if not present.
func UserFromContext(ctx context.Context) *user.User {
	u, _ := ctx.Value(userContextKey).(*user.User)
	return u
}

// SessionResolver resolves a plaintext session token to its account and can
// terminate the session. Implemented by the user store.
type SessionResolver interface {
	GetSessionUser(ctx context.Context, token string) (*user.User, error)
	DeleteSession(ctx context.Context, token string) error
}

// Checker is the remote capability query deciding whether a principal holds
// the administrator role. A transport error is treated as "not authorized".
type Checker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
