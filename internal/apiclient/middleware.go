package apiclient

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Doer executes a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Middleware decorates a Doer. Middleware compose around the transport call
// explicitly; there are no implicit global hooks.
type Middleware func(Doer) Doer

// Chain wraps next with the given middleware, first middleware outermost.
func Chain(next Doer, mw ...Middleware) Doer {
	for i := len(mw) - 1; i >= 0; i-- {
		next = mw[i](next)
	}
	return next
}

// TokenSource supplies the current identity token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// WithToken attaches a bearer credential from src before every outgoing call.
// A token retrieval failure must not block the request: the call proceeds
// without credential. Absence of a token is not an error (some endpoints are
// public).
func WithToken(src TokenSource) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			token, err := src.Token(req.Context())
			if err == nil && token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return next.Do(req)
		})
	}
}

// WithRequestID tags every outgoing request with a unique X-Request-ID.
func WithRequestID() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			req.Header.Set("X-Request-ID", uuid.NewString())
			return next.Do(req)
		})
	}
}

// WithUnauthorizedHook invokes fn whenever a response comes back with HTTP
// 401, then propagates the response unchanged. Used to trigger a global
// sign-out side effect.
func WithUnauthorizedHook(fn func()) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err == nil && resp.StatusCode == http.StatusUnauthorized {
				fn()
			}
			return resp, err
		})
	}
}
