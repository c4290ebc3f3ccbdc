// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithUser/UserFromContext for propagating the username via context

package auth

import (
	"context"
)

// userContextKey is the key type for storing the authenticated username in context.Context.
type userContextKey struct{}

// WithUser returns a new context with the authenticated username attached.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userContextKey{}, username)
}

// UserFromContext retrieves the authenticated username from the context.
// Returns the empty string if no user is attached.
func UserFromContext(ctx context.Context) string {
	username, _ := ctx.Value(userContextKey{}).(string)
	return username
}
