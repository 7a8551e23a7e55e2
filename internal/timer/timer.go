// Package timer derives display-ready countdowns from a server-supplied
// quota-reset descriptor. Pure functions; the TimerData snapshot is never
// mutated, remaining time is re-derived against the wall clock.
package timer

import (
	"fmt"
	"time"

	"github.com/arcana-app/arcana-go/internal/models"
)

// Breakdown is a duration split into display components.
type Breakdown struct {
	Hours   int
	Minutes int
	Seconds int
}

// Remaining returns the time left until the descriptor's reset instant,
// floored at zero.
func Remaining(td models.TimerData, now time.Time) time.Duration {
	reset := time.UnixMilli(td.ResetTimestamp)
	d := reset.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether the reset instant has passed.
func Expired(td models.TimerData, now time.Time) bool {
	return Remaining(td, now) == 0
}

// Split breaks a duration into hour/minute/second components, truncating
// sub-second remainder.
func Split(d time.Duration) Breakdown {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return Breakdown{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// Format renders a countdown compactly: "3h 12m", "12m 05s", or "45s".
// The largest two non-zero units are shown.
func Format(d time.Duration) string {
	b := Split(d)
	switch {
	case b.Hours > 0:
		return fmt.Sprintf("%dh %02dm", b.Hours, b.Minutes)
	case b.Minutes > 0:
		return fmt.Sprintf("%dm %02ds", b.Minutes, b.Seconds)
	default:
		return fmt.Sprintf("%ds", b.Seconds)
	}
}

// FormatRemaining is Format applied to the descriptor's live countdown.
func FormatRemaining(td models.TimerData, now time.Time) string {
	return Format(Remaining(td, now))
}
