// Package apperr normalizes every failure the client can raise into a single
// taxonomy with retry policy. Raw errors are wrapped into a closed set of
// tagged variants at the point of origin; Parse matches on those variants
// rather than probing arbitrary error shapes.
package apperr

import (
	"errors"
	"fmt"
)

// NetworkFailure marks a transport-level error where a request went out but
// no response came back (DNS failure, refused connection, dropped socket,
// client-side timeout).
type NetworkFailure struct {
	Op  string // logical operation, e.g. "GET /v1/subscription"
	Err error
}

func (e *NetworkFailure) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkFailure) Unwrap() error { return e.Err }

// HTTPFailure marks a response that arrived with a non-success status.
// Body holds the server's message extraction (may be empty).
type HTTPFailure struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPFailure) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned %d", e.Op, e.StatusCode)
}

// DomainFailure marks a well-formed backend refusal carrying an application
// error code (premium required, daily limit reached, ...). The payload is
// passed through to the classifier context untouched.
type DomainFailure struct {
	Code    string
	Message string
	Payload map[string]string
}

func (e *DomainFailure) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

// Domain failure codes the backend is known to emit.
const (
	DomainCodePremiumRequired = "PREMIUM_REQUIRED"
	DomainCodeDailyLimit      = "DAILY_LIMIT_REACHED"
)

// ErrUserCancelled is returned when the user backs out of an interactive
// step (payment sheet dismissal). Never retryable, never logged as a
// system failure.
var ErrUserCancelled = errors.New("cancelled by user")

// IsUserCancelled reports whether err is a user cancellation.
func IsUserCancelled(err error) bool {
	return errors.Is(err, ErrUserCancelled)
}
