// Package api is the request client for the Faros service. Every call takes
// a context.Context; cancelling it aborts the in-flight request, and
// IsCanceled distinguishes that outcome from a real failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"faros-cli/internal/session"
)

// APIError is a non-2xx response from the server, carrying the service's
// human-readable detail message when one was provided.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server error %d", e.Status)
}

// IsCanceled reports whether err is the result of an intentionally aborted
// request. Cancellation is not a failure and must never be surfaced as one.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsUnauthorized reports whether the server rejected the credentials.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	hc      *http.Client
	sess    *session.Session
	log     *slog.Logger
}

// New builds a client for the service at baseURL. The session supplies the
// bearer credential on every request; an empty token means the request goes
// out unauthenticated and the server answers 401.
func New(baseURL string, sess *session.Session, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client-side deadline: timeouts are the caller's business,
		// expressed through the request context.
		hc:   &http.Client{},
		sess: sess,
		log:  log,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// do issues one JSON request and decodes the JSON response into out
// (ignored when out is nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		if IsCanceled(err) {
			return err
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-Id"))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// decorate attaches the bearer credential and a request id for log
// correlation on the server side.
func (c *Client) decorate(req *http.Request) {
	if c.sess != nil {
		if tok := c.sess.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var wire struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(b, &wire); err == nil {
		apiErr.Detail = wire.Detail
	}
	return apiErr
}

// Health probes the service's warm-up endpoint. Any HTTP answer counts as
// alive; only transport errors are reported.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-cache")
	resp, err := c.hc.Do(req)
	if err != nil {
		if IsCanceled(err) {
			return err
		}
		return fmt.Errorf("health: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}
