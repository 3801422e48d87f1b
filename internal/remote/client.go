// Package remote is a thin HTTP client for the snail mail REST API.
// It handles Bearer token authentication, JSON and multipart encoding,
// per-call timeouts, and translation of error responses into typed,
// human-readable errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single network call when the configuration
// does not say otherwise.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the current bearer token, or the empty string
// when no one is signed in. The session manager satisfies this.
type TokenSource interface {
	Token() string
}

// Client talks to the snail mail service. The zero value is not usable;
// construct one with NewClient.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client for the API rooted at baseURL. Every call
// requiring authentication reads the current token from tokens at call
// time, so a sign-in that happens after construction is picked up.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// requireToken returns the current bearer token or an AuthError. It is
// checked before any network I/O so unauthenticated calls fail fast.
func (c *Client) requireToken() (string, error) {
	token := c.tokens.Token()
	if token == "" {
		return "", &AuthError{Message: "Not authenticated"}
	}
	return token, nil
}

// errorDetail is the JSON error body shape used by every endpoint.
type errorDetail struct {
	Detail string `json:"detail"`
}

// do performs a single HTTP request with a per-call deadline. A non-2xx
// response becomes a *statusError carrying the server's detail message
// (empty when the body had none). When result is non-nil the success
// body is unmarshaled into it.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	contentType string,
	body io.Reader,
	token string,
	result interface{},
) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{Op: fmt.Sprintf("%s %s", method, path)}
		}
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		if errors.Is(readErr, context.DeadlineExceeded) {
			return &TimeoutError{Op: fmt.Sprintf("%s %s", method, path)}
		}
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error bodies carry {"detail": "..."}; anything else falls
		// back to a generic message chosen by the caller.
		var detail errorDetail
		_ = json.Unmarshal(respBody, &detail)
		return &statusError{status: resp.StatusCode, detail: detail.Detail}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

// postJSON marshals body and POSTs it as application/json.
func (c *Client) postJSON(
	ctx context.Context,
	path string,
	body interface{},
	token string,
	result interface{},
) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), token, result)
}

// detailOrFallback extracts the server detail from a status error, or
// returns fallback when the server supplied none.
func detailOrFallback(err error, fallback string) (int, string) {
	var se *statusError
	if errors.As(err, &se) {
		if se.detail != "" {
			return se.status, se.detail
		}
		return se.status, fallback
	}
	return 0, fallback
}
