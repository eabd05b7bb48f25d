// Package apiclient provides the typed REST client for the Clarity backend.
// Cross-cutting concerns (bearer auth, request IDs, 401 handling) are explicit
// middleware composed around the transport call.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultGenerateTimeout = 5 * time.Minute
)

// Client calls the Clarity REST API.
type Client struct {
	baseURL         string
	doer            Doer
	timeout         time.Duration
	generateTimeout time.Duration
	logger          *slog.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout applies to ordinary requests. Zero means the default (30s).
	Timeout time.Duration
	// GenerateTimeout applies to PRD generation and regeneration, which call
	// slow AI computation server-side. Zero means the default (5m).
	GenerateTimeout time.Duration
	Middleware      []Middleware
	Logger          *slog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	generateTimeout := opts.GenerateTimeout
	if generateTimeout == 0 {
		generateTimeout = defaultGenerateTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// The underlying http.Client carries no timeout of its own; deadlines come
	// from per-request contexts so generation calls can exceed the default.
	return &Client{
		baseURL:         opts.BaseURL,
		doer:            Chain(&http.Client{}, opts.Middleware...),
		timeout:         timeout,
		generateTimeout: generateTimeout,
		logger:          logger,
	}
}

// errorBody is the structured error payload the backend returns on non-2xx.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

// do executes a JSON request and decodes a JSON response into out (out may be
// nil). body may be nil for requests without a payload.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// doRaw executes a JSON request and returns the raw response body.
func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.execute(req)
}

// doUpload executes a multipart file upload. Each entry in files is sent as a
// "files" form part under its filename.
func (c *Client) doUpload(ctx context.Context, path string, files map[string][]byte, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			return fmt.Errorf("building upload form: %w", err)
		}
		if _, err := part.Write(content); err != nil {
			return fmt.Errorf("writing upload part %q: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	data, err := c.execute(req)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding upload response: %w", err)
	}
	return nil
}

// execute runs the middleware chain and classifies failures into the
// discriminated Error type.
func (c *Client) execute(req *http.Request) ([]byte, error) {
	ctx := req.Context()
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		// Request sent, no response received.
		return nil, &Error{Kind: KindNetwork, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Cause: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	apiErr := &Error{Status: resp.StatusCode}
	if resp.StatusCode >= 500 {
		apiErr.Kind = KindServer
	} else {
		apiErr.Kind = KindClient
	}

	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		apiErr.Hint = body.Hint
		switch {
		case body.Error != "":
			apiErr.Code = body.Error
			apiErr.Message = body.Error
		case body.Message != "":
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	c.logger.Debug("request failed",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"message", apiErr.Message,
	)
	return nil, apiErr
}

// generateContext returns a context with the extended generation deadline
// applied, unless the caller already set an earlier one.
func (c *Client) generateContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.generateTimeout)
}
