// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Configuration constants for the Quizbot backend API.
const (
	// DefaultTimeout is the default timeout for API requests. Assistant
	// replies are generated synchronously server-side, so this is long.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// MaxUploadSize is the maximum allowed attachment size.
	MaxUploadSize = 25 * 1024 * 1024 // 25MB

	// guestRequestsPerSecond limits unauthenticated message traffic.
	// The guest endpoint resends the whole transcript each turn, so a
	// tight client-side limit keeps a misbehaving loop from hammering it.
	guestRequestsPerSecond = 1
	guestBurst             = 3

	userAgent = "quizbot/0.1.0"
)

// sharedHTTPClient is used by all Client instances. Connection pooling
// across requests matters because every conversation turn is a fresh
// round-trip to the same host.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend errors.
var (
	// ErrUnauthenticated indicates an operation requiring a signed-in
	// identity was attempted without one. Returned before any network
	// call is made.
	ErrUnauthenticated = errors.New("not signed in")

	// ErrAuthFailed indicates the backend rejected the bearer token.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound indicates the requested chat does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrFileTooLarge indicates an attachment exceeds MaxUploadSize.
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// APIError represents a structured error from the backend. The backend
// reports failures as {"detail": "reason"}; Reason carries that text
// verbatim so it can be surfaced to the user.
type APIError struct {
	Status int
	Reason string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// UserReason returns the failure text suitable for showing to the user:
// the backend's detail string when present, otherwise a generic phrase.
func (e *APIError) UserReason() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("the server returned status %d", e.Status)
}

// detailResponse is the backend's error envelope.
type detailResponse struct {
	Detail string `json:"detail"`
}

// Client is a client for the Quizbot backend API.
//
// The zero value is not usable; construct with NewClient. A Client is
// safe for concurrent use: all mutable configuration happens through the
// With* builders before the client is shared.
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	guestLimiter *rate.Limiter
	log          *zap.Logger

	// onAuthFailure fires when the backend rejects the bearer token on an
	// authenticated call. The credential is dead at that point; the owner
	// uses this to destroy the stored identity.
	onAuthFailure func()
}

// NewClient creates a client for the backend at baseURL.
//
// The client starts unauthenticated; call WithToken (or SetToken after a
// login exchange) to enable the /users and /chats endpoints.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   sharedHTTPClient,
		guestLimiter: rate.NewLimiter(guestRequestsPerSecond, guestBurst),
		log:          zap.NewNop(),
	}
}

// WithToken sets the bearer token for authenticated endpoints.
func (c *Client) WithToken(token string) *Client {
	c.token = strings.TrimSpace(token)
	return c
}

// WithTimeout sets the request timeout. The shared transport is kept; a
// per-client http.Client is split off only when the timeout differs.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout != c.httpClient.Timeout {
		c.httpClient = &http.Client{
			Transport: sharedHTTPClient.Transport,
			Timeout:   timeout,
		}
	}
	return c
}

// WithLogger sets the structured logger for request diagnostics.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	if log != nil {
		c.log = log
	}
	return c
}

// SetToken replaces the bearer token. Used after login/register and on
// sign-out (with an empty string).
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// OnAuthFailure registers the callback fired when an authenticated call
// comes back 401. Login and guest calls never fire it: a wrong password
// says nothing about the stored session.
func (c *Client) OnAuthFailure(fn func()) {
	c.onAuthFailure = fn
}

// Authenticated reports whether the client has a bearer token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON performs a request with an optional JSON body and decodes the
// response into out (when out is non-nil). auth selects whether the
// bearer token is attached; authenticated calls fail fast without one.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any, auth bool) error {
	if auth && c.token == "" {
		return ErrUnauthenticated
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req, auth)

	return c.do(req, out, auth)
}

// do executes a prepared request, enforces the response size limit, and
// normalizes error responses. auth tags the request as bearer-carrying so
// a 401 can be distinguished from a failed login.
func (c *Client) do(req *http.Request, out any, auth bool) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("request complete",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	data, err := readResponse(resp, MaxResponseSize)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp.StatusCode, data, auth)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// setHeaders sets common headers. The bearer token is attached only for
// authenticated endpoints; guest calls must never leak it.
func (c *Client) setHeaders(req *http.Request, auth bool) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// readResponse reads the response body, rejecting bodies larger than
// limit. A body of exactly limit bytes is still accepted; one extra byte
// is read to tell the two apart.
func readResponse(resp *http.Response, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", limit)
	}
	return body, nil
}

// handleErrorResponse converts a non-2xx response into a Go error. The
// backend's {"detail": ...} reason is carried verbatim when parsable;
// unparsable bodies degrade to a status-only APIError. A 401 on a
// bearer-carrying request additionally fires the auth-failure callback:
// the stored credential is no longer usable.
func (c *Client) handleErrorResponse(statusCode int, body []byte, auth bool) error {
	apiErr := &APIError{Status: statusCode}

	var detail detailResponse
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		apiErr.Reason = detail.Detail
	}

	switch statusCode {
	case http.StatusUnauthorized:
		if auth && c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.UserReason())
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.UserReason())
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.UserReason())
	default:
		return apiErr
	}
}

// UserReason extracts the user-facing failure text from any error the
// client returns. Structured backend reasons come through verbatim;
// transport failures collapse to a generic phrase so raw Go error chains
// never end up in a transcript.
func UserReason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserReason()
	}
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "you are not signed in"
	case errors.Is(err, ErrAuthFailed):
		return "your session has expired"
	case errors.Is(err, ErrRateLimited):
		return "too many requests, slow down"
	case errors.Is(err, context.DeadlineExceeded):
		return "the request timed out"
	case errors.Is(err, context.Canceled):
		return "the request was canceled"
	default:
		return "could not reach the server"
	}
}

// wireID decodes a backend identifier. The backend issues numeric IDs,
// but older responses and the auth service use strings; both decode to
// the string form the domain types carry.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = wireID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unsupported id value %s", data)
	}
	*id = wireID(s)
	return nil
}

func (id wireID) String() string {
	return string(id)
}

// parseAPITime parses the backend's timestamp formats. FastAPI emits
// ISO-8601 with or without a timezone suffix depending on how the column
// was populated, so both are accepted. A missing or unparsable value
// yields the zero time.
func parseAPITime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
