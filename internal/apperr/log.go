package apperr

import (
	"log/slog"
	"sync"
	"time"

	"github.com/arcana-app/arcana-go/internal/models"
)

// DefaultLogCapacity bounds the diagnostics ring buffer.
const DefaultLogCapacity = 50

// ErrorLog is an append-only, fixed-capacity ring buffer of normalized
// errors kept for diagnostics. Once full, the oldest entry is evicted.
// Constructed once at startup and passed by reference to consumers.
type ErrorLog struct {
	mu      sync.Mutex
	entries []models.LoggedError
	cap     int
	// echo, when set, mirrors every logged error to a developer-visible
	// channel. Diagnostic only; no bearing on correctness.
	echo *slog.Logger
}

// NewErrorLog returns a log with the given capacity; zero or negative
// falls back to DefaultLogCapacity.
func NewErrorLog(capacity int) *ErrorLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &ErrorLog{cap: capacity}
}

// WithEcho enables dev-mode echoing of each logged error.
func (l *ErrorLog) WithEcho(logger *slog.Logger) *ErrorLog {
	l.echo = logger
	return l
}

// Log appends a timestamped copy of app, evicting the oldest entry when
// the buffer is at capacity.
func (l *ErrorLog) Log(app *models.AppError) {
	if app == nil {
		return
	}
	l.mu.Lock()
	l.entries = append(l.entries, models.LoggedError{AppError: app, Timestamp: time.Now()})
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
	l.mu.Unlock()

	if l.echo != nil {
		l.echo.Warn("handled error",
			"type", string(app.Type),
			"code", app.Code,
			"severity", app.Severity.String(),
			"retryable", app.Retryable,
			"message", app.Message,
		)
	}
}

// Errors returns a snapshot copy, oldest-first.
func (l *ErrorLog) Errors() []models.LoggedError {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LoggedError, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the buffer. Test isolation and manual reset only; no
// production flow calls it.
func (l *ErrorLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
