// Package session resolves the user a request acts on behalf of and carries
// it through context.Context.
package session

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when a request carries no resolvable user
// or an invalid token.
var ErrUnauthenticated = errors.New("unauthenticated")

// Session identifies the acting user. Token is the caller's raw bearer token,
// forwarded to the backend when present.
type Session struct {
	UserID string `json:"user_id"`
	Token  string `json:"-"`
}

// Authenticated reports whether a user id was resolved.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// UserID returns the acting user id from ctx, or "" when anonymous.
func UserID(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.UserID
}

// Token returns the caller's bearer token from ctx, or "".
func Token(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.Token
}
