// Package identity wraps the third-party identity provider behind a small
// adapter interface so the rest of the client never touches provider wire
// details.
package identity

import (
	"context"
	"time"
)

// User is the authenticated identity.
type User struct {
	ID          string
	Email       string
	DisplayName string
}

// Session is the provider-issued credential set for a signed-in user.
type Session struct {
	User         User
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider is the identity adapter. All sign-in variants return the
// authenticated user or fail with a provider error code.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	// SignInWithProvider completes a federated sign-in by exchanging an OAuth
	// authorization code.
	SignInWithProvider(ctx context.Context, code string) (*User, error)
	SignOut(ctx context.Context) error
	// CurrentUser returns the signed-in user, or nil.
	CurrentUser() *User
	// IDToken returns a valid ID token for API calls, refreshing if needed.
	IDToken(ctx context.Context) (string, error)
	// Subscribe registers a listener fired on every auth transition (sign-in,
	// sign-out, token refresh). Exactly one listener is active at a time;
	// re-subscription replaces the previous listener. The returned function
	// removes the listener.
	Subscribe(fn func(user *User)) (unsubscribe func())
}
