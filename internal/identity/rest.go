package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// refreshSkew is how long before expiry a token is refreshed proactively.
const refreshSkew = time.Minute

// RESTProvider implements Provider against a Firebase-style identity REST
// API, with federated sign-in via an oauth2 authorization-code exchange.
type RESTProvider struct {
	endpoint string
	apiKey   string
	http     *http.Client
	oauth    *oauth2.Config
	logger   *slog.Logger

	mu       sync.Mutex
	session  *Session
	listener func(user *User)
}

// RESTOptions configures a RESTProvider.
type RESTOptions struct {
	Endpoint string
	APIKey   string
	OAuth    *oauth2.Config
	Client   *http.Client
	Logger   *slog.Logger
}

// NewRESTProvider creates a provider with no active session.
func NewRESTProvider(opts RESTOptions) *RESTProvider {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RESTProvider{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		apiKey:   opts.APIKey,
		http:     client,
		oauth:    opts.OAuth,
		logger:   logger,
	}
}

// authResponse is the provider's response to sign-up/sign-in/refresh calls.
type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	// Refresh responses use snake_case field names.
	UserID         string `json:"user_id"`
	IDTokenSnake   string `json:"id_token"`
	RefreshSnake   string `json:"refresh_token"`
	ExpiresInSnake string `json:"expires_in"`
}

type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp registers a new email/password account and signs it in.
func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (*User, error) {
	return p.passwordCall(ctx, "accounts:signUp", email, password)
}

// SignIn authenticates an existing email/password account.
func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	return p.passwordCall(ctx, "accounts:signInWithPassword", email, password)
}

func (p *RESTProvider) passwordCall(ctx context.Context, action, email, password string) (*User, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var resp authResponse
	if err := p.post(ctx, action, body, &resp); err != nil {
		return nil, err
	}
	return p.establishSession(resp), nil
}

// AuthCodeURL returns the URL the user must visit to authorize the federated
// sign-in. state is the anti-forgery token the caller verifies on callback.
func (p *RESTProvider) AuthCodeURL(state string) string {
	if p.oauth == nil {
		return ""
	}
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// SignInWithProvider exchanges an OAuth authorization code with the federated
// provider, then signs in to the identity service with the resulting token.
func (p *RESTProvider) SignInWithProvider(ctx context.Context, code string) (*User, error) {
	if p.oauth == nil {
		return nil, &CodedError{Code: CodeOperationDisabled, Message: "federated sign-in is not configured"}
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		idToken = token.AccessToken
	}

	body := map[string]any{
		"postBody":          "id_token=" + url.QueryEscape(idToken) + "&providerId=google.com",
		"requestUri":        p.oauth.RedirectURL,
		"returnSecureToken": true,
	}
	var resp authResponse
	if err := p.post(ctx, "accounts:signInWithIdp", body, &resp); err != nil {
		return nil, err
	}
	return p.establishSession(resp), nil
}

// SignOut drops the active session and notifies the listener.
func (p *RESTProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.session = nil
	listener := p.listener
	p.mu.Unlock()

	if listener != nil {
		listener(nil)
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil.
func (p *RESTProvider) CurrentUser() *User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil
	}
	user := p.session.User
	return &user
}

// IDToken returns a valid ID token, refreshing it when close to expiry.
func (p *RESTProvider) IDToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()

	if session == nil {
		return "", ErrNoSession
	}
	if time.Until(session.ExpiresAt) > refreshSkew {
		return session.IDToken, nil
	}
	return p.refresh(ctx, session.RefreshToken)
}

func (p *RESTProvider) refresh(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}
	var resp authResponse
	if err := p.post(ctx, "token", body, &resp); err != nil {
		return "", err
	}

	user := p.establishSession(resp)
	if user == nil {
		return "", ErrNoSession
	}

	p.mu.Lock()
	token := ""
	if p.session != nil {
		token = p.session.IDToken
	}
	p.mu.Unlock()
	return token, nil
}

// Subscribe installs the single auth-state listener, replacing any prior one.
func (p *RESTProvider) Subscribe(fn func(user *User)) func() {
	p.mu.Lock()
	p.listener = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.listener = nil
	}
}

// Session returns a copy of the active session for persistence, or nil.
func (p *RESTProvider) Session() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil
	}
	session := *p.session
	return &session
}

// Restore rehydrates a persisted session, notifying the listener as a
// sign-in transition.
func (p *RESTProvider) Restore(session Session) {
	p.mu.Lock()
	p.session = &session
	listener := p.listener
	user := session.User
	p.mu.Unlock()

	if listener != nil {
		listener(&user)
	}
}

// establishSession stores the session from an auth response and notifies the
// listener. Handles both camelCase (sign-in) and snake_case (refresh) shapes.
func (p *RESTProvider) establishSession(resp authResponse) *User {
	userID := resp.LocalID
	if userID == "" {
		userID = resp.UserID
	}
	idToken := resp.IDToken
	if idToken == "" {
		idToken = resp.IDTokenSnake
	}
	refreshToken := resp.RefreshToken
	if refreshToken == "" {
		refreshToken = resp.RefreshSnake
	}
	expiresIn := resp.ExpiresIn
	if expiresIn == "" {
		expiresIn = resp.ExpiresInSnake
	}

	ttl := time.Hour
	if secs, err := strconv.Atoi(expiresIn); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}

	p.mu.Lock()
	email := resp.Email
	displayName := resp.DisplayName
	if p.session != nil && userID == p.session.User.ID {
		// Refresh responses omit profile fields; keep the known ones.
		if email == "" {
			email = p.session.User.Email
		}
		if displayName == "" {
			displayName = p.session.User.DisplayName
		}
	}
	user := User{ID: userID, Email: email, DisplayName: displayName}
	p.session = &Session{
		User:         user,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(ttl),
	}
	listener := p.listener
	p.mu.Unlock()

	if listener != nil {
		listener(&user)
	}
	return &user
}

func (p *RESTProvider) post(ctx context.Context, action string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}

	endpoint := p.endpoint + "/" + action
	if p.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading identity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var provErr providerError
		if json.Unmarshal(data, &provErr) == nil && provErr.Error.Message != "" {
			// Codes may carry a trailing qualifier, e.g.
			// "TOO_MANY_ATTEMPTS_TRY_LATER : retry later".
			code, _, _ := strings.Cut(provErr.Error.Message, " ")
			return &CodedError{Code: code, Message: provErr.Error.Message}
		}
		return &CodedError{Code: resp.Status}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", action, err)
		}
	}
	return nil
}
