// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	apperrors "cartcheckout/cli/internal/errors"

	"github.com/google/uuid"
)

// HTTP implements API client over REST endpoints.
// The session credential lives in the client's cookie jar and is never read here.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:18080")
	baseURL string
	// endpoints contains the URL paths for the API endpoints
	endpoints Endpoints
	// client is the underlying HTTP client; its Jar carries the session cookie
	client *http.Client
	log    *slog.Logger
}

// Option configures the HTTP backend.
type Option func(*HTTP)

// WithJar sets the cookie jar that carries the session cookie.
func WithJar(jar http.CookieJar) Option {
	return func(h *HTTP) { h.client.Jar = jar }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithLogger sets the structured logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(h *HTTP) {
		if l != nil {
			h.log = l
		}
	}
}

// WithTransport replaces the HTTP round tripper (used by tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(h *HTTP) { h.client.Transport = rt }
}

// newHTTP creates a new HTTP client with the given base URL and endpoints.
// It configures a 10-second timeout and an in-memory cookie jar unless
// overridden by options.
func newHTTP(baseURL string, endpoints Endpoints, opts ...Option) *HTTP {
	jar, _ := cookiejar.New(nil)
	h := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints.WithDefaults(),
		client:    &http.Client{Timeout: 10 * time.Second, Jar: jar},
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// postJSON sends a POST with an optional JSON body and decodes a JSON answer
// into out when out is non-nil. Non-2xx answers become transport errors;
// network and decode failures become unknown errors.
func (h *HTTP) postJSON(ctx context.Context, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(apperrors.Unknown, "encode request", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, body)
	if err != nil {
		return apperrors.Wrap(apperrors.Unknown, "create request", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	log := h.log.With("path", path, "request_id", reqID)
	start := time.Now()

	resp, err := h.client.Do(req)
	if err != nil {
		log.DebugContext(ctx, "request failed", "error", err)
		return apperrors.Wrap(apperrors.Unknown, "request failed", err)
	}
	defer resp.Body.Close()

	log.DebugContext(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body is ignored.
		_, _ = io.Copy(io.Discard, resp.Body)
		return apperrors.NewTransport(resp.StatusCode, statusText(resp))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.Unknown, "malformed response", err)
	}
	return nil
}

// statusText returns the reason phrase of resp ("Unauthorized" for "401 Unauthorized").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
