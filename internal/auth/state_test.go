package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pmclarity/clarity/internal/identity"
)

// fakeProvider is a scriptable identity.Provider.
type fakeProvider struct {
	user      *identity.User
	signInErr error
	tokenErr  error
	token     string
	listener  func(user *identity.User)
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password string) (*identity.User, error) {
	return p.signIn()
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.User, error) {
	return p.signIn()
}

func (p *fakeProvider) SignInWithProvider(ctx context.Context, code string) (*identity.User, error) {
	return p.signIn()
}

func (p *fakeProvider) signIn() (*identity.User, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	if p.listener != nil {
		p.listener(p.user)
	}
	return p.user, nil
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.user = nil
	if p.listener != nil {
		p.listener(nil)
	}
	return nil
}

func (p *fakeProvider) CurrentUser() *identity.User { return p.user }

func (p *fakeProvider) IDToken(ctx context.Context) (string, error) {
	if p.tokenErr != nil {
		return "", p.tokenErr
	}
	return p.token, nil
}

func (p *fakeProvider) Subscribe(fn func(user *identity.User)) func() {
	p.listener = fn
	return func() { p.listener = nil }
}

func TestState_InitializeAnonymous(t *testing.T) {
	s := NewState(&fakeProvider{}, nil)
	require.Equal(t, PhaseUninitialized, s.Phase())

	err := s.Initialize(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseAnonymous, s.Phase())
	require.False(t, s.IsAuthenticated())
}

func TestState_InitializeWithRestoredSession(t *testing.T) {
	provider := &fakeProvider{user: &identity.User{ID: "u1", Email: "a@b.com"}}
	s := NewState(provider, nil)

	err := s.Initialize(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseAuthenticated, s.Phase())
	require.Equal(t, "u1", s.User().ID)
}

func TestState_InitializeRespectsContext(t *testing.T) {
	// If the first auth event never arrives, the caller's deadline must win.
	s := &State{
		provider:  &fakeProvider{},
		firstAuth: make(chan struct{}),
	}
	s.initOnce.Do(func() {})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Initialize(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestState_SignInMapsProviderCodes(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{identity.CodeEmailExists, "This email is already registered. Please sign in instead."},
		{identity.CodeInvalidCredentials, "Invalid email or password. Please try again."},
		{identity.CodeWeakPassword, "Password is too weak. Please use at least 6 characters."},
		{identity.CodeTooManyAttempts, "Too many failed attempts. Please try again later."},
		{"SOMETHING_NEW", "An error occurred. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			provider := &fakeProvider{signInErr: &identity.CodedError{Code: tt.code}}
			s := NewState(provider, nil)

			_, err := s.SignIn(context.Background(), "a@b.com", "pw")
			require.Error(t, err)
			require.Equal(t, tt.want, s.LastError())
			require.False(t, s.Loading())
		})
	}
}

func TestState_SignInClearsStaleError(t *testing.T) {
	provider := &fakeProvider{signInErr: &identity.CodedError{Code: identity.CodeInvalidPassword}}
	s := NewState(provider, nil)
	require.NoError(t, s.Initialize(context.Background()))

	_, err := s.SignIn(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	require.NotEmpty(t, s.LastError())

	provider.signInErr = nil
	provider.user = &identity.User{ID: "u1", Email: "a@b.com"}
	user, err := s.SignIn(context.Background(), "a@b.com", "right")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
	require.Empty(t, s.LastError())
	require.True(t, s.IsAuthenticated())
}

func TestState_SignOutTransitionsToAnonymous(t *testing.T) {
	provider := &fakeProvider{user: &identity.User{ID: "u1"}}
	s := NewState(provider, nil)
	require.NoError(t, s.Initialize(context.Background()))
	require.True(t, s.IsAuthenticated())

	require.NoError(t, s.SignOut(context.Background()))
	require.False(t, s.IsAuthenticated())
	require.Equal(t, PhaseAnonymous, s.Phase())
}

func TestState_TokenNeverFails(t *testing.T) {
	provider := &fakeProvider{tokenErr: errors.New("refresh exploded")}
	s := NewState(provider, nil)

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	require.Empty(t, token)

	provider.tokenErr = nil
	provider.token = "tok-1"
	token, err = s.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
}

func TestState_DisplayNameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		user *identity.User
		want string
	}{
		{"nil user", nil, "User"},
		{"display name", &identity.User{DisplayName: "Dana", Email: "d@x.com"}, "Dana"},
		{"email local part", &identity.User{Email: "dana@x.com"}, "dana"},
		{"bare at sign", &identity.User{Email: "@x.com"}, "User"},
		{"no email", &identity.User{}, "User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(&fakeProvider{}, nil)
			s.mu.Lock()
			s.user = tt.user
			s.mu.Unlock()
			require.Equal(t, tt.want, s.DisplayName())
		})
	}
}
