// Package auth holds process-wide authentication state. It wraps the identity
// provider, translating provider error codes into user-facing strings, and
// guarantees API calls are never blocked by a token fetch failure.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pmclarity/clarity/internal/identity"
)

// Phase is the auth lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseAnonymous
	PhaseAuthenticated
)

// State is the reactive auth state container.
type State struct {
	provider identity.Provider
	logger   *slog.Logger

	mu      sync.Mutex
	phase   Phase
	user    *identity.User
	loading bool
	lastErr string

	initOnce  sync.Once
	firstAuth chan struct{}
}

// NewState creates an uninitialized auth container.
func NewState(provider identity.Provider, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &State{
		provider:  provider,
		logger:    logger,
		phase:     PhaseUninitialized,
		firstAuth: make(chan struct{}),
	}
}

// Initialize installs the auth subscription once and blocks until the first
// auth event arrives (or ctx is done). Callers must await it before branching
// on auth state.
func (s *State) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.mu.Lock()
		s.phase = PhaseLoading
		s.mu.Unlock()

		s.provider.Subscribe(s.onAuthChange)

		// A provider with a restored session has already decided; surface it
		// as the first event.
		if user := s.provider.CurrentUser(); user != nil {
			s.onAuthChange(user)
		} else {
			s.onAuthChange(nil)
		}
	})

	select {
	case <-s.firstAuth:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *State) onAuthChange(user *identity.User) {
	s.mu.Lock()
	s.user = user
	if user != nil {
		s.phase = PhaseAuthenticated
	} else {
		s.phase = PhaseAnonymous
	}
	s.mu.Unlock()

	select {
	case <-s.firstAuth:
	default:
		close(s.firstAuth)
	}

	if user != nil {
		s.logger.Debug("auth state changed", "user", user.ID)
	} else {
		s.logger.Debug("auth state changed", "user", "anonymous")
	}
}

// SignUp registers a new account. On failure the error is mapped to a
// user-facing message and re-raised.
func (s *State) SignUp(ctx context.Context, email, password string) (*identity.User, error) {
	return s.run(func() (*identity.User, error) {
		return s.provider.SignUp(ctx, email, password)
	})
}

// SignIn authenticates with email and password.
func (s *State) SignIn(ctx context.Context, email, password string) (*identity.User, error) {
	return s.run(func() (*identity.User, error) {
		return s.provider.SignIn(ctx, email, password)
	})
}

// SignInWithProvider completes a federated sign-in with an OAuth code.
func (s *State) SignInWithProvider(ctx context.Context, code string) (*identity.User, error) {
	return s.run(func() (*identity.User, error) {
		return s.provider.SignInWithProvider(ctx, code)
	})
}

// SignOut signs the current user out.
func (s *State) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.provider.SignOut(ctx); err != nil {
		s.mu.Lock()
		s.lastErr = userMessage(err)
		s.mu.Unlock()
		return err
	}
	return nil
}

// run is the uniform mutating-action pipeline: set loading, clear error,
// perform, map failures, always clear loading.
func (s *State) run(op func() (*identity.User, error)) (*identity.User, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	user, err := op()
	if err != nil {
		s.mu.Lock()
		s.lastErr = userMessage(err)
		s.mu.Unlock()
		return nil, err
	}
	return user, nil
}

// Token returns the current identity token, or an empty string on any
// retrieval failure. The HTTP client must never be blocked by a token fetch
// failure, so this method does not raise.
func (s *State) Token(ctx context.Context) (string, error) {
	token, err := s.provider.IDToken(ctx)
	if err != nil {
		s.logger.Debug("token retrieval failed", "error", err)
		return "", nil
	}
	return token, nil
}

// Phase returns the current lifecycle phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// IsAuthenticated reports whether a user is signed in.
func (s *State) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// User returns the signed-in user, or nil.
func (s *State) User() *identity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether a mutating action is in flight.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the user-facing message for the most recent failure, or
// an empty string.
func (s *State) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// DisplayName derives a presentable name: display name, then the email local
// part, then a fixed default.
func (s *State) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return "User"
	}
	if s.user.DisplayName != "" {
		return s.user.DisplayName
	}
	if local, _, found := strings.Cut(s.user.Email, "@"); found && local != "" {
		return local
	}
	return "User"
}
