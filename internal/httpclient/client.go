// Package httpclient is the client's single HTTP front door. Every request
// to the backend passes through it: bearer attach, latency marking,
// transport-level retry, 401 session teardown, and terminal classification
// all live here so callers never see a raw transport error.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arcana-app/arcana-go/internal/apperr"
	"github.com/arcana-app/arcana-go/internal/credstore"
	"github.com/arcana-app/arcana-go/internal/models"
	"github.com/arcana-app/arcana-go/internal/retry"
)

const (
	// slowCallThreshold triggers the dev-mode latency warning.
	slowCallThreshold = 3 * time.Second
	// defaultMaxRetries bounds re-issues of one request.
	defaultMaxRetries = 2
	// defaultRetryBaseDelay and defaultRetryMaxDelay shape the transport
	// backoff: base * 2^(attempt-1), capped.
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 5 * time.Second
)

// Options configures a Client. Session and Log are held by reference;
// nil Log disables diagnostics capture.
type Options struct {
	BaseURL string
	Session *credstore.Session
	Log     *apperr.ErrorLog
	// DevMode enables the slow-call warning on successful responses.
	DevMode bool
	Timeout time.Duration
	Logger  *slog.Logger
	// Transport overrides the underlying RoundTripper (tests).
	Transport http.RoundTripper
	// RetryBaseDelay shrinks the transport backoff in tests; zero takes
	// the default.
	RetryBaseDelay time.Duration
}

// Client issues JSON requests against the backend with the full
// interceptor stack applied.
type Client struct {
	base       string
	http       *http.Client
	session    *credstore.Session
	log        *apperr.ErrorLog
	devMode    bool
	logger     *slog.Logger
	retryBase  time.Duration
	retryMax   time.Duration
	maxRetries int
}

// New builds a Client. A zero Timeout defaults to 30s.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	retryBase := opts.RetryBaseDelay
	retryMax := defaultRetryMaxDelay
	if retryBase == 0 {
		retryBase = defaultRetryBaseDelay
	} else if retryBase < defaultRetryBaseDelay {
		retryMax = retryBase * 5
	}
	return &Client{
		base:       strings.TrimRight(opts.BaseURL, "/"),
		http:       &http.Client{Timeout: timeout, Transport: opts.Transport},
		session:    opts.Session,
		log:        opts.Log,
		devMode:    opts.DevMode,
		logger:     logger,
		retryBase:  retryBase,
		retryMax:   retryMax,
		maxRetries: defaultMaxRetries,
	}
}

// apiErrorBody is the backend's JSON error envelope.
type apiErrorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// DoJSON issues one logical request and decodes a 2xx response into out
// (out may be nil). Failures come back classified and logged; transient
// ones (network, 5xx, 429, 408) are retried internally first. A caller
// cancellation is surfaced as-is, never retried.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return c.fail(op, fmt.Errorf("encode request body: %w", err))
		}
	}

	cfg := retry.Config{
		MaxRetries:    c.maxRetries + 1,
		InitialDelay:  c.retryBase,
		MaxDelay:      c.retryMax,
		BackoffFactor: 2,
		OnRetry: func(attempt int, err error) {
			c.logger.Debug("retrying request", "op", op, "attempt", attempt, "cause", err)
		},
	}
	respBody, err := retry.Do(ctx, cfg, func() ([]byte, error) {
		return c.attempt(ctx, op, method, path, payload)
	})
	if err != nil {
		if ctx.Err() != nil {
			// User cancellation is never retried and never logged as a
			// system failure.
			return ctx.Err()
		}
		return c.fail(op, err)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return c.fail(op, fmt.Errorf("decode %s response: %w", op, err))
		}
	}
	return nil
}

// attempt performs one try of the request and maps the outcome to a
// failure variant; the retry engine decides what happens next. The
// request description stays immutable, each try builds a fresh
// *http.Request from it.
func (c *Client) attempt(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &apperr.NetworkFailure{Op: op, Err: err}
	}

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if readErr != nil {
			return nil, &apperr.NetworkFailure{Op: op, Err: readErr}
		}
		return respBody, nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Stale credentials won't self-heal: tear the session down
		// before anyone issues another authenticated call.
		if c.session != nil {
			if err := c.session.Clear(ctx); err != nil {
				c.logger.Warn("session teardown failed", "error", err)
			}
		}
		return nil, &apperr.HTTPFailure{Op: op, StatusCode: resp.StatusCode, Body: extractMessage(respBody)}
	}

	return nil, failureFor(op, resp.StatusCode, respBody)
}

// Get is shorthand for DoJSON without a request body.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.DoJSON(ctx, http.MethodGet, path, nil, out)
}

// Post is shorthand for DoJSON with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.DoJSON(ctx, http.MethodPost, path, body, out)
}

// send performs one attempt: build the request, attach the bearer, mark
// the start time, and surface the raw transport result.
func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Credential attach happens-before transmission. A missing or
	// unreadable token sends the request unauthenticated.
	if c.session != nil {
		if token := c.session.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if elapsed := time.Since(start); c.devMode && err == nil && elapsed > slowCallThreshold {
		c.logger.Warn("slow api call", "op", method+" "+path, "elapsed", elapsed)
	}
	return resp, err
}

// fail classifies err, records it in the diagnostics log, and returns the
// normalized error.
func (c *Client) fail(op string, err error) error {
	app := apperr.Parse(err, map[string]string{"op": op})
	if c.log != nil {
		c.log.Log(app)
	}
	return app
}

// failureFor picks the failure variant for a non-success response: a
// recognized domain code becomes a DomainFailure, anything else an
// HTTPFailure carrying the extracted message.
func failureFor(op string, status int, body []byte) error {
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		switch envelope.Error.Code {
		case apperr.DomainCodePremiumRequired, apperr.DomainCodeDailyLimit:
			return &apperr.DomainFailure{
				Code:    envelope.Error.Code,
				Message: envelope.Error.Message,
				Payload: envelope.Error.Details,
			}
		}
	}
	return &apperr.HTTPFailure{Op: op, StatusCode: status, Body: extractMessage(body)}
}

// extractMessage pulls a human-readable message out of an error response
// body, falling back to the raw text for non-JSON bodies.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return flat.Message
	}
	text := strings.TrimSpace(string(body))
	if json.Valid(body) && strings.HasPrefix(text, "{") {
		return ""
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// IsAuthError reports whether err is a classified authentication failure.
func IsAuthError(err error) bool {
	var app *models.AppError
	return errors.As(err, &app) && app.Type == models.ErrorTypeAuthentication
}
